package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nexusqa/agents/internal/usecase"
	"github.com/nexusqa/agents/pkg/logger"
)

// StoreChecker reports whether the task store is reachable
type StoreChecker interface {
	Ping(ctx context.Context) error
}

// healthTimeout bounds the store ping
const healthTimeout = 2 * time.Second

// SystemHandler serves the service description and health routes
type SystemHandler struct {
	agents  usecase.AgentUseCase
	store   StoreChecker
	driver  string
	name    string
	version string
	logger  logger.Logger
}

// NewSystemHandler creates a new system handler. store may be nil for the
// in-memory task store.
func NewSystemHandler(agents usecase.AgentUseCase, store StoreChecker, driver, name, version string, log logger.Logger) *SystemHandler {
	return &SystemHandler{
		agents:  agents,
		store:   store,
		driver:  driver,
		name:    name,
		version: version,
		logger:  log,
	}
}

// Root handles GET /
func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    h.name,
		"version": h.version,
		"status":  "running",
		"agents":  h.agents.AgentKeys(),
		"crews":   []string{"test", "security"},
		"endpoints": gin.H{
			"run_agent":            "POST /run",
			"run_crew":             "POST /crew/{crew_type}",
			"document_analysis":    "POST /crew/document-analysis",
			"text_analysis":        "POST /crew/text-analysis",
			"generate_automation":  "POST /crew/generate-automation",
			"analyze_requirements": "POST /analyze/requirements",
			"analyze_report":       "POST /reports/analyze",
			"list_tasks":           "GET /tasks",
			"get_task":             "GET /tasks/{task_id}",
			"cancel_task":          "POST /tasks/{task_id}/cancel",
			"list_agents":          "GET /agents",
		},
	})
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	store := gin.H{"driver": h.driver, "status": "ok"}
	status, code := "healthy", http.StatusOK

	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			h.logger.Warn("Task store health check failed", logger.String("driver", h.driver), logger.Error(err))
			store["status"] = "unavailable"
			store["error"] = err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339Nano),
		"store":     store,
	})
}
