package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexusqa/agents/internal/usecase"
	"github.com/nexusqa/agents/pkg/logger"
)

// TaskHandler handles task status routes
type TaskHandler struct {
	tasks  usecase.TaskUseCase
	logger logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(tasks usecase.TaskUseCase, log logger.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:  tasks,
		logger: log,
	}
}

// List handles GET /tasks
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.tasks.List(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"total": len(tasks),
	})
}

// Get handles GET /tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Cancel handles POST /tasks/:id/cancel
func (h *TaskHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.tasks.Cancel(c.Request.Context(), id); err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Task %s cancelled", id),
	})
}
