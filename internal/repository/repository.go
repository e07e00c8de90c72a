package repository

import (
	"context"
	"errors"

	"github.com/agentflow/agentflow/internal/models"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrTooManyTasks = errors.New("too many tasks")
	ErrInvalidTask  = errors.New("invalid task")
)

// TaskRepository mediates all task reads and writes. Every operation is
// scoped by the owning user id: a task belonging to another user is
// indistinguishable from a missing one.
type TaskRepository interface {
	// ListByUser returns every task owned by userID,
	// or an empty slice if there are none.
	ListByUser(ctx context.Context, userID int64) ([]models.Task, error)

	// Create inserts a task with status "new" and
	// returns it with its assigned id.
	Create(ctx context.Context, userID int64, title string) (*models.Task, error)

	// Update applies the non-nil fields of params to the matching owned
	// task and returns the task as stored afterwards. It returns
	// ErrTaskNotFound if no task matches both the id and the owner.
	Update(ctx context.Context, params UpdateParams) (*models.Task, error)

	// Delete removes the matching owned task and reports whether a row
	// was removed. Absence is not an error.
	Delete(ctx context.Context, userID, taskID int64) (bool, error)

	// DeleteAllByUser removes every task owned by userID and returns the
	// number removed. The count and the delete happen under one lock: if
	// the owner holds more than max tasks, nothing is removed and
	// ErrTooManyTasks is returned.
	DeleteAllByUser(ctx context.Context, userID, max int64) (int64, error)
}

type UpdateParams struct {
	UserID int64
	TaskID int64
	Title  *string
	Status *string
}
