package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httphandler "github.com/nexusqa/agents/internal/interface/http"
)

// PublicPaths are served without a service token
var PublicPaths = []string{"/", "/health", "/metrics"}

// RegisterHTTPRoutes sets up all HTTP/REST API routes. Routes live at the root,
// without an /api prefix.
func RegisterHTTPRoutes(router *gin.Engine, deps *Dependencies) {
	system := httphandler.NewSystemHandler(deps.Agents, deps.Store, deps.Config.Store.Driver,
		deps.Config.App.Name, deps.Config.App.Version, deps.Logger)
	router.GET("/", system.Root)
	router.GET("/health", system.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("")
	if deps.Auth != nil {
		api.Use(deps.Auth.Middleware())
	}
	{
		registerAgentRoutes(api, deps)
		registerCrewRoutes(api, deps)
		registerTaskRoutes(api, deps)
	}
}

// registerAgentRoutes sets up agent and report routes
func registerAgentRoutes(api *gin.RouterGroup, deps *Dependencies) {
	h := httphandler.NewAgentHandler(deps.Agents, deps.Tasks, deps.Logger)
	api.GET("/agents", h.List)
	api.POST("/run", h.Run)
	api.POST("/reports/analyze", h.AnalyzeReport)
}

// registerCrewRoutes sets up crew, analysis and automation routes
func registerCrewRoutes(api *gin.RouterGroup, deps *Dependencies) {
	h := httphandler.NewCrewHandler(deps.Tasks, deps.Analysis, deps.Logger)

	crew := api.Group("/crew")
	{
		crew.POST("/test", h.TestCrew)
		crew.POST("/security", h.SecurityCrew)
		crew.POST("/document-analysis", h.DocumentAnalysis)
		crew.POST("/text-analysis", h.TextAnalysis)
		crew.POST("/generate-automation", h.GenerateAutomation)
		crew.POST("/generate-automation/batch", h.GenerateAutomationBatch)
	}
	api.POST("/analyze/requirements", h.AnalyzeRequirements)
}

// registerTaskRoutes sets up task status routes
func registerTaskRoutes(api *gin.RouterGroup, deps *Dependencies) {
	h := httphandler.NewTaskHandler(deps.Tasks, deps.Logger)

	tasks := api.Group("/tasks")
	{
		tasks.GET("", h.List)
		tasks.GET("/:id", h.Get)
		tasks.POST("/:id/cancel", h.Cancel)
	}
}
