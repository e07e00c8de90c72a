package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agentflow/agentflow/internal/models"
	"github.com/agentflow/agentflow/internal/services"
)

type getTaskResponse struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

func newGetTaskResponse(task *models.Task) getTaskResponse {
	return getTaskResponse{
		ID:     task.ID,
		Title:  task.Title,
		Status: task.Status,
	}
}

func (h *handlerImpl) HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "AgentFlow API is running"})
}

// pathID parses a path segment that must be a positive integer.
// It aborts with 400 and reports false on anything else.
func (h *handlerImpl) pathID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.logger.Warn().
			Str(name, raw).
			Msg("invalid path id")
		abort(c, newBadRequestError(name+" must be a positive integer"))
		return 0, false
	}
	return id, true
}

type createTaskRequest struct {
	Title string `json:"title"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	userID, ok := h.pathID(c, "user_id")
	if !ok {
		return
	}

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError("invalid request body"))
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), services.CreateTaskParams{
		UserID: userID,
		Title:  req.Title,
	})
	if err != nil {
		h.abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	userID, ok := h.pathID(c, "user_id")
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTasks(c.Request.Context(), userID)
	if err != nil {
		h.abortServiceError(c, err)
		return
	}

	response := make([]getTaskResponse, len(tasks))
	for i := range tasks {
		response[i] = newGetTaskResponse(&tasks[i])
	}

	c.JSON(http.StatusOK, response)
}

type updateTaskRequest struct {
	Title  *string `json:"title,omitempty"`
	Status *string `json:"status,omitempty"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	userID, ok := h.pathID(c, "user_id")
	if !ok {
		return
	}
	taskID, ok := h.pathID(c, "task_id")
	if !ok {
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError("invalid request body"))
		return
	}

	task, err := h.tasks.UpdateTask(c.Request.Context(), services.UpdateTaskParams{
		UserID: userID,
		TaskID: taskID,
		Title:  req.Title,
		Status: req.Status,
	})
	if err != nil {
		h.abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	userID, ok := h.pathID(c, "user_id")
	if !ok {
		return
	}
	taskID, ok := h.pathID(c, "task_id")
	if !ok {
		return
	}

	err := h.tasks.DeleteTask(c.Request.Context(), services.DeleteTaskParams{
		UserID: userID,
		TaskID: taskID,
	})
	if err != nil {
		h.abortServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type clearTasksResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

func (h *handlerImpl) HandleClearTasks(c *gin.Context) {
	userID, ok := h.pathID(c, "user_id")
	if !ok {
		return
	}

	count, err := h.tasks.ClearTasks(c.Request.Context(), userID)
	if err != nil {
		h.abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, clearTasksResponse{
		Message: fmt.Sprintf("%d tasks of user %d were deleted", count, userID),
		Deleted: count,
	})
}

// abortServiceError maps service outcomes onto the status-code contract:
// validation failures are 400, missing or foreign tasks are 404, the
// bulk-delete cap is 403, anything else is a 500.
func (h *handlerImpl) abortServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyTitle),
		errors.Is(err, services.ErrTitleTooLong),
		errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrNothingToUpdate):
		abort(c, newBadRequestError(err.Error()))
	case errors.Is(err, services.ErrTaskNotFound):
		abort(c, newNotFoundError(err.Error()))
	case errors.Is(err, services.ErrTooManyTasks):
		abort(c, newForbiddenError(err.Error()))
	default:
		h.logger.Error().
			Err(err).
			Msg("task operation failed")
		abort(c, newInternalError())
	}
}
