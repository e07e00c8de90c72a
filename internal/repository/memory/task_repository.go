package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/agentflow/agentflow/internal/models"
	"github.com/agentflow/agentflow/internal/repository"
)

// TaskRepository is a mutex-guarded in-memory implementation of
// repository.TaskRepository. It backs the test suites and keeps the same
// contract as the postgres store, including the atomic bulk-delete cap.
type TaskRepository struct {
	mu      sync.RWMutex
	tasks   map[int64]*models.Task
	counter int64
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{
		tasks: make(map[int64]*models.Task),
	}
}

func (r *TaskRepository) ListByUser(_ context.Context, userID int64) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]models.Task, 0)
	for _, task := range r.tasks {
		if task.UserID == userID {
			tasks = append(tasks, *task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (r *TaskRepository) Create(_ context.Context, userID int64, title string) (*models.Task, error) {
	if title == "" || len([]rune(title)) > 255 {
		return nil, repository.ErrInvalidTask
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.counter++
	task := &models.Task{
		ID:     r.counter,
		UserID: userID,
		Title:  title,
		Status: models.StatusNew,
	}
	r.tasks[task.ID] = task

	copied := *task
	return &copied, nil
}

func (r *TaskRepository) Update(_ context.Context, params repository.UpdateParams) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[params.TaskID]
	if !ok || task.UserID != params.UserID {
		return nil, repository.ErrTaskNotFound
	}

	if params.Title != nil {
		task.Title = *params.Title
	}
	if params.Status != nil {
		task.Status = *params.Status
	}

	copied := *task
	return &copied, nil
}

func (r *TaskRepository) Delete(_ context.Context, userID, taskID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[taskID]
	if !ok || task.UserID != userID {
		return false, nil
	}

	delete(r.tasks, taskID)
	return true, nil
}

func (r *TaskRepository) DeleteAllByUser(_ context.Context, userID, max int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int64, 0)
	for id, task := range r.tasks {
		if task.UserID == userID {
			ids = append(ids, id)
		}
	}
	if int64(len(ids)) > max {
		return 0, repository.ErrTooManyTasks
	}

	for _, id := range ids {
		delete(r.tasks, id)
	}
	return int64(len(ids)), nil
}
