package router

import (
	"github.com/gin-gonic/gin"

	"github.com/nexusqa/agents/internal/infrastructure/auth"
	httphandler "github.com/nexusqa/agents/internal/interface/http"
	"github.com/nexusqa/agents/internal/usecase"
	"github.com/nexusqa/agents/pkg/config"
	"github.com/nexusqa/agents/pkg/logger"
)

// Dependencies holds all dependencies needed for routing
type Dependencies struct {
	Agents   usecase.AgentUseCase
	Tasks    usecase.TaskUseCase
	Analysis usecase.AnalysisUseCase
	Store    httphandler.StoreChecker
	Auth     *auth.ServiceAuth
	Logger   logger.Logger
	Config   *config.Config
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(router *gin.Engine, deps *Dependencies) {
	RegisterHTTPRoutes(router, deps)
}
