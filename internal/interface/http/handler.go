package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/pkg/errors"
	"github.com/nexusqa/agents/pkg/logger"
)

// handleError writes the AppError envelope. Anything else is a 500.
func handleError(c *gin.Context, log logger.Logger, err error) {
	if appErr, ok := errors.As(err); ok {
		if appErr.StatusCode >= http.StatusInternalServerError {
			log.WithContext(c.Request.Context()).Error("Request failed",
				logger.String("code", string(appErr.Code)),
				logger.Error(err))
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":     appErr.Code,
				"message":  appErr.Message,
				"details":  appErr.Details,
				"metadata": appErr.Metadata,
			},
		})
		return
	}

	log.WithContext(c.Request.Context()).Error("Unhandled error", logger.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":    errors.ErrInternal,
			"message": "Internal server error",
		},
	})
}

// bindJSON decodes the body into req, answering 400 on failure
func bindJSON(c *gin.Context, log logger.Logger, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		handleError(c, log, errors.NewBadRequest("Invalid request body").WithDetails(err.Error()))
		return false
	}
	return true
}

// submitted is the response of every route that starts a background task
func submitted(c *gin.Context, task *entity.Task, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"task_id": task.ID,
		"message": message,
		"status":  task.Status,
	})
}
