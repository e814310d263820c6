package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/internal/infrastructure/services"
	"github.com/nexusqa/agents/internal/usecase"
	"github.com/nexusqa/agents/pkg/logger"
)

// AgentHandler handles single-agent routes
type AgentHandler struct {
	agents usecase.AgentUseCase
	tasks  usecase.TaskUseCase
	logger logger.Logger
}

// NewAgentHandler creates a new agent handler
func NewAgentHandler(agents usecase.AgentUseCase, tasks usecase.TaskUseCase, log logger.Logger) *AgentHandler {
	return &AgentHandler{
		agents: agents,
		tasks:  tasks,
		logger: log,
	}
}

// List handles GET /agents
func (h *AgentHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"agents": h.agents.ListAgents()})
}

// Run handles POST /run - starts one agent in the background
func (h *AgentHandler) Run(c *gin.Context) {
	var req usecase.RunAgentRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	if err := h.agents.ValidateAgentType(req.AgentType); err != nil {
		handleError(c, h.logger, err)
		return
	}

	task, err := h.tasks.Submit(c.Request.Context(), entity.TaskKindAgent, req.AgentType, req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	submitted(c, task, fmt.Sprintf("Agent %s started", req.AgentType))
}

// AnalyzeReport handles POST /reports/analyze
func (h *AgentHandler) AnalyzeReport(c *gin.Context) {
	var rc services.ReportContext
	if !bindJSON(c, h.logger, &rc) {
		return
	}
	c.JSON(http.StatusOK, h.agents.AnalyzeReport(rc))
}
