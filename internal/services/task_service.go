package services

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/agentflow/agentflow/internal/models"
	"github.com/agentflow/agentflow/internal/repository"
)

const maxTitleLength = 255

type taskServiceImpl struct {
	logger zerolog.Logger
	tasks  repository.TaskRepository
}

func NewTaskService(
	logger zerolog.Logger,
	tasks repository.TaskRepository,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		tasks:  tasks,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	err := validateTitle(params.Title)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int64("user_id", params.UserID).
			Msg("rejected task title")
		return nil, err
	}

	task, err := s.tasks.Create(ctx, params.UserID, params.Title)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Int64("user_id", task.UserID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, userID int64) ([]models.Task, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Int64("user_id", userID).
		Msg("listed tasks")
	return tasks, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	if params.Title == nil && params.Status == nil {
		s.logger.Warn().
			Int64("task_id", params.TaskID).
			Int64("user_id", params.UserID).
			Msg("nothing to update")
		return nil, ErrNothingToUpdate
	}

	if params.Title != nil {
		err := validateTitle(*params.Title)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Int64("task_id", params.TaskID).
				Msg("rejected task title")
			return nil, err
		}
	}
	if params.Status != nil && !models.ValidStatus(*params.Status) {
		s.logger.Warn().
			Str("status", *params.Status).
			Int64("task_id", params.TaskID).
			Msg("rejected task status")
		return nil, ErrInvalidTaskStatus
	}

	task, err := s.tasks.Update(ctx, repository.UpdateParams{
		UserID: params.UserID,
		TaskID: params.TaskID,
		Title:  params.Title,
		Status: params.Status,
	})
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Int64("user_id", task.UserID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, params DeleteTaskParams) error {
	deleted, err := s.tasks.Delete(ctx, params.UserID, params.TaskID)
	if err != nil {
		return err
	}
	if !deleted {
		s.logger.Warn().
			Int64("task_id", params.TaskID).
			Int64("user_id", params.UserID).
			Msg("task not found")
		return ErrTaskNotFound
	}

	s.logger.Info().
		Int64("task_id", params.TaskID).
		Int64("user_id", params.UserID).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) ClearTasks(ctx context.Context, userID int64) (int64, error) {
	count, err := s.tasks.DeleteAllByUser(ctx, userID, MaxTasksPerClear)
	if err != nil {
		if errors.Is(err, repository.ErrTooManyTasks) {
			return 0, ErrTooManyTasks
		}
		return 0, err
	}

	s.logger.Info().
		Int64("count", count).
		Int64("user_id", userID).
		Msg("cleared tasks")
	return count, nil
}

func validateTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}
