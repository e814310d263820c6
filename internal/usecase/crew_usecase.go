package usecase

import (
	"context"
	"strings"

	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/internal/infrastructure/llm"
	"github.com/nexusqa/agents/pkg/config"
	"github.com/nexusqa/agents/pkg/errors"
	"github.com/nexusqa/agents/pkg/logger"
)

// Crew step types reported in results
const (
	CrewStepUITest        = "ui_test"
	CrewStepAPITest       = "api_test"
	CrewStepSecurityScan  = "security_scan"
	CrewStepVulnerability = "vulnerability_assessment"
)

// CrewUseCase runs ordered groups of agent prompts
type CrewUseCase interface {
	// RunTestCrew plans with the orchestrator, then designs UI and optionally API tests
	RunTestCrew(ctx context.Context, req *CrewRequest) (*TestCrewResult, error)

	// RunSecurityCrew scans a target and reports on any findings passed in
	RunSecurityCrew(ctx context.Context, target *SecurityTarget) (*SecurityCrewResult, error)
}

// CrewStepResult is the output of one crew member's prompt
type CrewStepResult struct {
	Success  bool   `json:"success"`
	Result   string `json:"result"`
	CrewType string `json:"crew_type"`
	Error    string `json:"error,omitempty"`
}

// TestCrewSummary summarizes a test crew run
type TestCrewSummary struct {
	TotalCrewsRun int  `json:"total_crews_run"`
	UISuccess     bool `json:"ui_success"`
	APISuccess    bool `json:"api_success"`
}

// TestCrewResult is the payload of a finished test crew task
type TestCrewResult struct {
	Success bool            `json:"success"`
	Plan    string          `json:"plan"`
	UITest  *CrewStepResult `json:"ui_test"`
	APITest *CrewStepResult `json:"api_test"`
	Summary TestCrewSummary `json:"summary"`
	Cost    float64         `json:"cost"`
}

// SecuritySummary summarizes a security crew run
type SecuritySummary struct {
	ScanCompleted        bool `json:"scan_completed"`
	AssessmentCompleted  bool `json:"assessment_completed"`
	TotalVulnerabilities int  `json:"total_vulnerabilities"`
}

// SecurityCrewResult is the payload of a finished security crew task
type SecurityCrewResult struct {
	Success    bool            `json:"success"`
	Scan       *CrewStepResult `json:"scan"`
	Assessment *CrewStepResult `json:"assessment"`
	Summary    SecuritySummary `json:"summary"`
	Cost       float64         `json:"cost"`
}

// crewUseCase is the concrete implementation
type crewUseCase struct {
	llm      *completer
	cfg      config.LLMConfig
	personas PersonaSource
	logger   logger.Logger
}

// NewCrewUseCase creates a new crew use case
func NewCrewUseCase(client llm.Client, cfg config.LLMConfig, personas PersonaSource, log logger.Logger) CrewUseCase {
	return &crewUseCase{
		llm:      newCompleter(client, cfg.Timeout, log),
		cfg:      cfg,
		personas: personas,
		logger:   log,
	}
}

// ask sends prompt as the given agent and returns the answer with its cost
func (uc *crewUseCase) ask(ctx context.Context, agentType, prompt string) (string, float64, error) {
	agent, err := uc.personas.Get(agentType)
	if err != nil {
		return "", 0, err
	}

	uc.logger.WithContext(ctx).Info("crew step started",
		logger.String("agent", agent.Name),
		logger.String("agent_type", agentType))

	resp, usage, err := uc.llm.complete(ctx, llm.ChatRequest{
		System:      agent.SystemPrompt(),
		Prompt:      prompt,
		Temperature: uc.cfg.Temperature,
		MaxTokens:   uc.cfg.MaxTokens,
		Format:      llm.FormatText,
		Subject:     agent.Name,
	})
	if err != nil {
		return "", 0, err
	}
	return strings.TrimSpace(resp.Text), usage.Cost, nil
}

// RunTestCrew implements CrewUseCase
func (uc *crewUseCase) RunTestCrew(ctx context.Context, req *CrewRequest) (*TestCrewResult, error) {
	if strings.TrimSpace(req.Project.Name) == "" {
		return nil, errors.NewValidation("project.name is required")
	}
	suite := TestSuiteInfo{}
	if req.TestSuite != nil {
		suite = *req.TestSuite
	}

	plan, planCost, err := uc.ask(ctx, entity.AgentOrchestrator, llm.TestPlanningPrompt(req.Project))
	if err != nil {
		return nil, err
	}

	uiText, uiCost, err := uc.ask(ctx, entity.AgentTestArchitect, llm.UITestPrompt(suite.Name, suite.Type, suite.Description, plan))
	if err != nil {
		return nil, err
	}

	result := &TestCrewResult{
		Success: true,
		Plan:    plan,
		UITest:  &CrewStepResult{Success: true, Result: uiText, CrewType: CrewStepUITest},
		Summary: TestCrewSummary{TotalCrewsRun: 1, UISuccess: true},
		Cost:    planCost + uiCost,
	}

	if req.APISpec != nil {
		result.Summary.TotalCrewsRun = 2
		apiText, apiCost, err := uc.ask(ctx, entity.AgentTestArchitect, llm.APITestPrompt(req.APISpec.BaseURL, req.APISpec.Endpoints))
		if err != nil {
			uc.logger.WithContext(ctx).Warn("API test step failed", logger.Error(err))
			result.APITest = &CrewStepResult{CrewType: CrewStepAPITest, Error: errorMessage(err)}
		} else {
			result.APITest = &CrewStepResult{Success: true, Result: apiText, CrewType: CrewStepAPITest}
			result.Summary.APISuccess = true
			result.Cost += apiCost
		}
	}

	result.Cost = llm.RoundCost(result.Cost)
	return result, nil
}

// RunSecurityCrew implements CrewUseCase
func (uc *crewUseCase) RunSecurityCrew(ctx context.Context, target *SecurityTarget) (*SecurityCrewResult, error) {
	if target == nil || strings.TrimSpace(target.URL) == "" {
		return nil, errors.NewValidation("security_target.url is required")
	}

	scanText, scanCost, err := uc.ask(ctx, entity.AgentSecurityAnalyst, llm.SecurityScanPrompt(target.URL, target.Endpoints, target.Forms))
	if err != nil {
		return nil, err
	}

	result := &SecurityCrewResult{
		Success: true,
		Scan:    &CrewStepResult{Success: true, Result: scanText, CrewType: CrewStepSecurityScan},
		Summary: SecuritySummary{
			ScanCompleted:        true,
			TotalVulnerabilities: len(target.Vulnerabilities),
		},
		Cost: scanCost,
	}

	if len(target.Vulnerabilities) > 0 {
		reportText, reportCost, err := uc.ask(ctx, entity.AgentSecurityAnalyst, llm.VulnerabilityReportPrompt(target.Vulnerabilities))
		if err != nil {
			uc.logger.WithContext(ctx).Warn("vulnerability assessment failed", logger.Error(err))
			result.Assessment = &CrewStepResult{CrewType: CrewStepVulnerability, Error: errorMessage(err)}
		} else {
			result.Assessment = &CrewStepResult{Success: true, Result: reportText, CrewType: CrewStepVulnerability}
			result.Summary.AssessmentCompleted = true
			result.Cost += reportCost
		}
	}

	result.Cost = llm.RoundCost(result.Cost)
	return result, nil
}
