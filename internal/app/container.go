package app

import (
	"time"

	"github.com/nexusqa/agents/internal/clients"
	"github.com/nexusqa/agents/internal/domain/repository"
	"github.com/nexusqa/agents/internal/infrastructure/llm"
	"github.com/nexusqa/agents/internal/infrastructure/personas"
	"github.com/nexusqa/agents/internal/infrastructure/services"
	"github.com/nexusqa/agents/internal/usecase"
	"github.com/nexusqa/agents/pkg/config"
	"github.com/nexusqa/agents/pkg/logger"
)

// simulateDelay is how long agents without a concrete action take
const simulateDelay = 2 * time.Second

// Services holds the use cases that do not depend on the task store
type Services struct {
	Personas   *personas.Registry
	LLM        llm.Client
	Agents     usecase.AgentUseCase
	Crews      usecase.CrewUseCase
	Analysis   usecase.AnalysisUseCase
	Automation usecase.AutomationUseCase
	Notifier   clients.Notifier
}

// NewServices builds the LLM client and every store-independent use case
func NewServices(cfg *config.Config, log logger.Logger) (*Services, error) {
	registry, err := personas.Load()
	if err != nil {
		return nil, err
	}

	baseURL := cfg.Browser.DefaultBaseURL
	synth := services.NewScenarioSynthesizer()
	scripts := services.NewScriptGenerator()

	client, err := llm.NewClient(cfg.LLM, services.NewOfflineResponder(synth, scripts, baseURL), log)
	if err != nil {
		return nil, err
	}
	client = llm.Instrument(client, log)
	log.Info("LLM provider ready",
		logger.String("provider", client.Provider()),
		logger.String("model", client.DefaultModel()))

	return &Services{
		Personas:   registry,
		LLM:        client,
		Agents:     usecase.NewAgentUseCase(registry, scripts, services.NewReportAnalyzer(), baseURL, simulateDelay, log),
		Crews:      usecase.NewCrewUseCase(client, cfg.LLM, registry, log),
		Analysis:   usecase.NewAnalysisUseCase(client, cfg.LLM, services.NewRequirementAnalyzer(nil, log), synth, log),
		Automation: usecase.NewAutomationUseCase(client, cfg.LLM, registry, baseURL, cfg.Automation.BatchConcurrency, log),
		Notifier:   clients.NewNotifier(cfg.Backend, log),
	}, nil
}

// Executor wires the job executor over repo
func (s *Services) Executor(repo repository.TaskRepository, log logger.Logger) (usecase.TaskLifecycle, usecase.JobExecutor) {
	lifecycle := usecase.NewTaskLifecycle(repo, log)
	executor := usecase.NewJobExecutor(
		lifecycle,
		s.Agents,
		s.Personas,
		s.Crews,
		s.Analysis,
		s.Automation,
		s.Notifier,
		log,
	)
	return lifecycle, executor
}
