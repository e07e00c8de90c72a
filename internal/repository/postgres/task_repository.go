package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/agentflow/agentflow/internal/models"
	"github.com/agentflow/agentflow/internal/repository"
)

type taskRepositoryImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewTaskRepository(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) repository.TaskRepository {
	return &taskRepositoryImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (r *taskRepositoryImpl) ListByUser(ctx context.Context, userID int64) ([]models.Task, error) {
	const selectTasksByUserQuery = `
SELECT id, title, status
FROM tasks
WHERE user_id = $1
ORDER BY id
`
	rows, err := r.pgPool.Query(
		ctx,
		selectTasksByUserQuery,
		userID,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("failed to select tasks by user id")
		return nil, mapError(err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		task := models.Task{UserID: userID}
		err = rows.Scan(
			&task.ID,
			&task.Title,
			&task.Status,
		)
		if err != nil {
			r.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, mapError(err)
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, mapError(err)
	}
	r.logger.Debug().
		Int("count", len(tasks)).
		Int64("user_id", userID).
		Msg("selected tasks by user id")

	return tasks, nil
}

func (r *taskRepositoryImpl) Create(ctx context.Context, userID int64, title string) (*models.Task, error) {
	task := &models.Task{
		UserID: userID,
		Title:  title,
		Status: models.StatusNew,
	}

	const insertTaskQuery = `
INSERT INTO tasks (user_id, title, status)
VALUES ($1, $2, $3)
RETURNING id
`
	err := r.pgPool.QueryRow(
		ctx,
		insertTaskQuery,
		task.UserID,
		task.Title,
		task.Status,
	).Scan(&task.ID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("failed to insert task")
		return nil, mapError(err)
	}
	r.logger.Debug().
		Int64("task_id", task.ID).
		Int64("user_id", userID).
		Msg("inserted task")

	return task, nil
}

func (r *taskRepositoryImpl) Update(ctx context.Context, params repository.UpdateParams) (*models.Task, error) {
	task := &models.Task{
		ID:     params.TaskID,
		UserID: params.UserID,
	}

	const updateTaskQuery = `
UPDATE tasks
SET title  = COALESCE($1, title),
    status = COALESCE($2, status)
WHERE id = $3 AND user_id = $4
RETURNING title, status
`
	err := r.pgPool.QueryRow(
		ctx,
		updateTaskQuery,
		params.Title,
		params.Status,
		task.ID,
		task.UserID,
	).Scan(
		&task.Title,
		&task.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn().
				Int64("task_id", task.ID).
				Int64("user_id", task.UserID).
				Msg("task not found")
			return nil, repository.ErrTaskNotFound
		}

		r.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to update task")
		return nil, mapError(err)
	}
	r.logger.Debug().
		Int64("task_id", task.ID).
		Msg("updated task")

	return task, nil
}

func (r *taskRepositoryImpl) Delete(ctx context.Context, userID, taskID int64) (bool, error) {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1 AND user_id = $2
`
	tag, err := r.pgPool.Exec(
		ctx,
		deleteTaskQuery,
		taskID,
		userID,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to delete task")
		return false, mapError(err)
	}
	r.logger.Debug().
		Int64("task_id", taskID).
		Int64("user_id", userID).
		Bool("deleted", tag.RowsAffected() > 0).
		Msg("deleted task")

	return tag.RowsAffected() > 0, nil
}

func (r *taskRepositoryImpl) DeleteAllByUser(ctx context.Context, userID, max int64) (int64, error) {
	tx, err := r.pgPool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return 0, mapError(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock the owner's rows so the count and the delete
	// see the same set of tasks.
	const lockTasksQuery = `
SELECT count(*)
FROM (
    SELECT id FROM tasks WHERE user_id = $1 FOR UPDATE
) locked
`
	var count int64
	err = tx.QueryRow(ctx, lockTasksQuery, userID).Scan(&count)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("failed to count tasks")
		return 0, mapError(err)
	}

	if count > max {
		r.logger.Warn().
			Int64("user_id", userID).
			Int64("count", count).
			Int64("max", max).
			Msg("refused to delete tasks over the limit")
		return 0, repository.ErrTooManyTasks
	}

	const deleteTasksByUserQuery = `
DELETE FROM tasks
WHERE user_id = $1
`
	tag, err := tx.Exec(ctx, deleteTasksByUserQuery, userID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("failed to delete tasks by user id")
		return 0, mapError(err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return 0, mapError(err)
	}
	r.logger.Debug().
		Int64("user_id", userID).
		Int64("count", tag.RowsAffected()).
		Msg("deleted tasks by user id")

	return tag.RowsAffected(), nil
}
