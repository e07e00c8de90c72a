package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/agentflow/agentflow/internal/services"
)

type Handler interface {
	HandleRoot(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleGetTasks(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleClearTasks(c *gin.Context)
}

type handlerImpl struct {
	logger zerolog.Logger
	tasks  services.TaskService
}

func New(
	logger zerolog.Logger,
	taskService services.TaskService,
) Handler {
	return &handlerImpl{
		logger: logger,
		tasks:  taskService,
	}
}

// RegisterRoutes mounts the task API onto the router root.
func RegisterRoutes(router gin.IRouter, h Handler) {
	router.GET("/", h.HandleRoot)

	tasksRouter := router.Group("/users/:user_id/tasks")
	tasksRouter.GET("", h.HandleGetTasks)
	tasksRouter.POST("", h.HandleCreateTask)
	tasksRouter.PATCH("/:task_id", h.HandleUpdateTask)
	tasksRouter.DELETE("/:task_id", h.HandleDeleteTask)
	tasksRouter.DELETE("", h.HandleClearTasks)
}
