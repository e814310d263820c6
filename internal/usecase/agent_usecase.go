package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/internal/infrastructure/services"
	"github.com/nexusqa/agents/pkg/errors"
	"github.com/nexusqa/agents/pkg/logger"
)

// AgentDirectory is the persona catalogue
type AgentDirectory interface {
	PersonaSource
	Has(key string) bool
	Listed() []entity.Agent
	Keys() []string
}

// AgentUseCase handles single-agent runs and agent metadata
type AgentUseCase interface {
	// ListAgents returns the agents shown to clients
	ListAgents() []entity.Agent

	// AgentKeys returns the agent types shown to clients
	AgentKeys() []string

	// ValidateAgentType rejects unknown agent types
	ValidateAgentType(agentType string) error

	// Run executes one agent with the options sent to POST /run
	Run(ctx context.Context, agentType string, options json.RawMessage) (*AgentRunResult, error)

	// AnalyzeReport summarizes test run statistics as the report analyst
	AnalyzeReport(rc services.ReportContext) *ReportResult
}

// AgentRunResult is the payload of a finished agent task
type AgentRunResult struct {
	Success bool   `json:"success"`
	Agent   string `json:"agent"`
	Message string `json:"message"`
	Script  string `json:"script,omitempty"`
}

// ReportResult is the response of POST /reports/analyze
type ReportResult struct {
	Success bool   `json:"success"`
	Agent   string `json:"agent"`
	Report  string `json:"report"`
}

// agentUseCase is the concrete implementation
type agentUseCase struct {
	agents         AgentDirectory
	scripts        services.ScriptGenerator
	reports        services.ReportAnalyzer
	defaultBaseURL string
	simulateDelay  time.Duration
	logger         logger.Logger
}

// NewAgentUseCase creates a new agent use case. Agents without a concrete
// action complete after simulateDelay.
func NewAgentUseCase(
	agents AgentDirectory,
	scripts services.ScriptGenerator,
	reports services.ReportAnalyzer,
	defaultBaseURL string,
	simulateDelay time.Duration,
	log logger.Logger,
) AgentUseCase {
	return &agentUseCase{
		agents:         agents,
		scripts:        scripts,
		reports:        reports,
		defaultBaseURL: defaultBaseURL,
		simulateDelay:  simulateDelay,
		logger:         log,
	}
}

// ListAgents implements AgentUseCase
func (uc *agentUseCase) ListAgents() []entity.Agent {
	return uc.agents.Listed()
}

// AgentKeys implements AgentUseCase
func (uc *agentUseCase) AgentKeys() []string {
	return uc.agents.Keys()
}

// ValidateAgentType implements AgentUseCase
func (uc *agentUseCase) ValidateAgentType(agentType string) error {
	if !uc.agents.Has(agentType) {
		return errors.NewBadRequest(fmt.Sprintf("Unknown agent type: %s", agentType))
	}
	return nil
}

// Run implements AgentUseCase
func (uc *agentUseCase) Run(ctx context.Context, agentType string, options json.RawMessage) (*AgentRunResult, error) {
	if err := uc.ValidateAgentType(agentType); err != nil {
		return nil, err
	}

	if agentType == entity.AgentTestArchitect {
		return uc.generateScript(ctx, options)
	}

	select {
	case <-time.After(uc.simulateDelay):
	case <-ctx.Done():
		return nil, errors.NewCancelled("Agent run cancelled").WithError(ctx.Err())
	}
	return &AgentRunResult{
		Success: true,
		Agent:   agentType,
		Message: fmt.Sprintf("%s completed successfully", agentType),
	}, nil
}

func (uc *agentUseCase) generateScript(ctx context.Context, raw json.RawMessage) (*AgentRunResult, error) {
	var opts AgentOptions
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &opts); err != nil {
			return nil, errors.NewValidation("Invalid test_architect options").WithError(err)
		}
	}
	if opts.ScenarioTitle == "" {
		opts.ScenarioTitle = "Test Scenario"
	}
	if opts.BaseURL == "" {
		opts.BaseURL = uc.defaultBaseURL
	}
	for i := range opts.Steps {
		if opts.Steps[i].Number == 0 {
			opts.Steps[i].Number = i + 1
		}
	}

	script := uc.scripts.GeneratePlaywrightScript(opts.ScenarioTitle, opts.BaseURL, opts.Steps, opts.DiscoveredElements, opts.ExpectedResult)
	uc.logger.WithContext(ctx).Info("playwright script generated",
		logger.String("scenario", opts.ScenarioTitle),
		logger.Int("steps", len(opts.Steps)))

	return &AgentRunResult{
		Success: true,
		Agent:   entity.AgentTestArchitect,
		Message: fmt.Sprintf("Playwright script generated for '%s'", opts.ScenarioTitle),
		Script:  script,
	}, nil
}

// AnalyzeReport implements AgentUseCase
func (uc *agentUseCase) AnalyzeReport(rc services.ReportContext) *ReportResult {
	return &ReportResult{
		Success: true,
		Agent:   entity.AgentReportAnalyst,
		Report:  uc.reports.AnalyzeReport(rc),
	}
}
