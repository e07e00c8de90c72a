package services

import (
	"context"
	"errors"

	"github.com/agentflow/agentflow/internal/models"
)

var (
	ErrEmptyTitle        = errors.New("title must not be empty")
	ErrTitleTooLong      = errors.New("title must not exceed 255 characters")
	ErrInvalidTaskStatus = errors.New("invalid status, use: new, done")
	ErrNothingToUpdate   = errors.New("no data to update")
	ErrTaskNotFound      = errors.New("task not found or not owned by user")
	ErrTooManyTasks      = errors.New("cannot delete more than 50 tasks at once")
)

// MaxTasksPerClear caps how many tasks a single clear request may remove.
const MaxTasksPerClear = 50

type TaskService interface {
	// CreateTask inserts a task with status "new" for the given owner.
	//
	// It returns ErrEmptyTitle or ErrTitleTooLong if the
	// title is outside the 1-255 character range.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// ListTasks returns every task owned by userID, oldest first.
	ListTasks(ctx context.Context, userID int64) ([]models.Task, error)

	// UpdateTask applies the present fields of params to an owned task.
	//
	// It returns ErrNothingToUpdate if neither field is present,
	// ErrInvalidTaskStatus if the status is not "new" or "done", and
	// ErrTaskNotFound if no task matches both the id and the owner.
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	// DeleteTask removes a single owned task. It returns
	// ErrTaskNotFound if no task matches both the id and the owner.
	DeleteTask(ctx context.Context, params DeleteTaskParams) error

	// ClearTasks removes every task owned by userID and returns the
	// number removed. It returns ErrTooManyTasks if the owner holds
	// more than MaxTasksPerClear tasks, removing nothing.
	ClearTasks(ctx context.Context, userID int64) (int64, error)
}

type CreateTaskParams struct {
	UserID int64
	Title  string
}

type UpdateTaskParams struct {
	UserID int64
	TaskID int64
	Title  *string
	Status *string
}

type DeleteTaskParams struct {
	UserID int64
	TaskID int64
}
