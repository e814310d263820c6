package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/internal/usecase"
	"github.com/nexusqa/agents/pkg/errors"
	"github.com/nexusqa/agents/pkg/logger"
)

// CrewHandler handles crew, analysis and automation routes
type CrewHandler struct {
	tasks    usecase.TaskUseCase
	analysis usecase.AnalysisUseCase
	logger   logger.Logger
}

// NewCrewHandler creates a new crew handler
func NewCrewHandler(tasks usecase.TaskUseCase, analysis usecase.AnalysisUseCase, log logger.Logger) *CrewHandler {
	return &CrewHandler{
		tasks:    tasks,
		analysis: analysis,
		logger:   log,
	}
}

func (h *CrewHandler) submit(c *gin.Context, kind entity.TaskKind, payload interface{}, message string) {
	task, err := h.tasks.Submit(c.Request.Context(), kind, "", payload)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	submitted(c, task, message)
}

// TestCrew handles POST /crew/test
func (h *CrewHandler) TestCrew(c *gin.Context) {
	var req usecase.CrewRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	req.CrewType = "test"
	h.submit(c, entity.TaskKindTestCrew, req, "Test crew started")
}

// SecurityCrew handles POST /crew/security
func (h *CrewHandler) SecurityCrew(c *gin.Context) {
	var req usecase.CrewRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	if req.SecurityTarget == nil {
		handleError(c, h.logger, errors.NewBadRequest("security_target is required"))
		return
	}
	req.CrewType = "security"
	h.submit(c, entity.TaskKindSecurityCrew, req, "Security crew started")
}

// DocumentAnalysis handles POST /crew/document-analysis
func (h *CrewHandler) DocumentAnalysis(c *gin.Context) {
	var req usecase.DocumentAnalysisRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	h.submit(c, entity.TaskKindDocument, req, "Document analysis started")
}

// TextAnalysis handles POST /crew/text-analysis
func (h *CrewHandler) TextAnalysis(c *gin.Context) {
	var req usecase.TextAnalysisRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	h.submit(c, entity.TaskKindText, req, "Text analysis started")
}

// GenerateAutomation handles POST /crew/generate-automation
func (h *CrewHandler) GenerateAutomation(c *gin.Context) {
	var req usecase.AutomationRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	h.submit(c, entity.TaskKindAutomation, req, "Automation generation started")
}

// GenerateAutomationBatch handles POST /crew/generate-automation/batch
func (h *CrewHandler) GenerateAutomationBatch(c *gin.Context) {
	var req usecase.AutomationBatchRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	if len(req.Scenarios) == 0 {
		handleError(c, h.logger, errors.NewBadRequest("scenarios must not be empty"))
		return
	}
	h.submit(c, entity.TaskKindAutomationBulk, req, "Batch automation generation started")
}

// AnalyzeRequirements handles POST /analyze/requirements - runs synchronously
func (h *CrewHandler) AnalyzeRequirements(c *gin.Context) {
	var req usecase.RequirementsRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	c.JSON(http.StatusOK, h.analysis.AnalyzeRequirements(&req))
}
