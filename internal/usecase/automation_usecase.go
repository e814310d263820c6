package usecase

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/internal/infrastructure/llm"
	"github.com/nexusqa/agents/pkg/config"
	"github.com/nexusqa/agents/pkg/errors"
	"github.com/nexusqa/agents/pkg/logger"
)

// PersonaSource looks up agent personas by agent type
type PersonaSource interface {
	Get(key string) (*entity.Agent, error)
}

// AutomationUseCase generates Playwright code for scenarios
type AutomationUseCase interface {
	// GenerateFromScenario asks the LLM for a runnable test for one scenario
	GenerateFromScenario(ctx context.Context, scenario *entity.Scenario, suite llm.SuiteInfo) (*entity.AutomationResult, error)

	// GenerateBatch runs GenerateFromScenario for many scenarios concurrently.
	// Per-scenario failures are reported in the result, never as an error.
	GenerateBatch(ctx context.Context, scenarios []entity.Scenario, suite llm.SuiteInfo) *entity.AutomationBatchResult
}

// automationUseCase is the concrete implementation
type automationUseCase struct {
	llm            *completer
	cfg            config.LLMConfig
	personas       PersonaSource
	defaultBaseURL string
	concurrency    int
	logger         logger.Logger
}

// NewAutomationUseCase creates a new automation use case
func NewAutomationUseCase(
	client llm.Client,
	cfg config.LLMConfig,
	personas PersonaSource,
	defaultBaseURL string,
	concurrency int,
	log logger.Logger,
) AutomationUseCase {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &automationUseCase{
		llm:            newCompleter(client, cfg.Timeout, log),
		cfg:            cfg,
		personas:       personas,
		defaultBaseURL: defaultBaseURL,
		concurrency:    concurrency,
		logger:         log,
	}
}

// GenerateFromScenario implements AutomationUseCase
func (uc *automationUseCase) GenerateFromScenario(ctx context.Context, scenario *entity.Scenario, suite llm.SuiteInfo) (*entity.AutomationResult, error) {
	if scenario == nil {
		return nil, errors.NewValidation("scenario is required")
	}
	log := uc.logger.WithContext(ctx)

	automationType := scenario.AutomationType
	if automationType == "" {
		automationType = entity.AutomationUI
	}
	log.Info("generating automation code",
		logger.String("scenario", scenario.Title),
		logger.String("automation_type", automationType.String()))

	system := ""
	if dev, err := uc.personas.Get(entity.AgentDeveloper); err == nil {
		system = dev.SystemPrompt()
	}

	resp, usage, err := uc.llm.complete(ctx, llm.ChatRequest{
		System:      system,
		Prompt:      llm.CodeGenerationPrompt(scenario, suite, uc.defaultBaseURL),
		Temperature: uc.cfg.Temperature,
		MaxTokens:   uc.cfg.MaxTokens,
		Format:      llm.FormatCode,
		Scenario:    scenario,
	})
	if err != nil {
		return nil, err
	}

	code := llm.StripFences(resp.Text)
	if code == "" {
		return nil, errors.NewExternalService(resp.Provider, "LLM returned no code")
	}

	log.Info("automation code generated", logger.Int("length", len(code)))
	return &entity.AutomationResult{
		Success:        true,
		Code:           code,
		AutomationType: automationType,
		ScenarioTitle:  scenario.Title,
		ScenarioID:     scenario.ID,
		Cost:           usage.Cost,
	}, nil
}

// GenerateBatch implements AutomationUseCase
func (uc *automationUseCase) GenerateBatch(ctx context.Context, scenarios []entity.Scenario, suite llm.SuiteInfo) *entity.AutomationBatchResult {
	var (
		mu      sync.Mutex
		results = make(map[string]*entity.AutomationResult, len(scenarios))
	)

	keys := batchKeys(scenarios)

	var g errgroup.Group
	g.SetLimit(uc.concurrency)
	for i := range scenarios {
		scenario := &scenarios[i]
		key := keys[i]

		g.Go(func() error {
			res, err := uc.GenerateFromScenario(ctx, scenario, suite)
			if err != nil {
				uc.logger.WithContext(ctx).Warn("automation generation failed",
					logger.String("scenario_id", key),
					logger.Error(err))
				res = &entity.AutomationResult{
					Success:        false,
					AutomationType: scenario.AutomationType,
					ScenarioTitle:  scenario.Title,
					ScenarioID:     scenario.ID,
					Error:          errorMessage(err),
				}
				if res.AutomationType == "" {
					res.AutomationType = entity.AutomationUI
				}
			}

			mu.Lock()
			results[key] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	successful := 0
	for _, r := range results {
		if r.Success {
			successful++
		}
	}
	return &entity.AutomationBatchResult{
		Success:    true,
		Results:    results,
		Total:      len(scenarios),
		Successful: successful,
	}
}

// batchKeys keys each scenario by its id, or its 1-based position when it has
// none. Repeated keys get a -2, -3... suffix so no result is overwritten.
func batchKeys(scenarios []entity.Scenario) []string {
	keys := make([]string, len(scenarios))
	used := make(map[string]bool, len(scenarios))
	for i := range scenarios {
		base := string(scenarios[i].ID)
		if base == "" {
			base = strconv.Itoa(i + 1)
		}
		key := base
		for n := 2; used[key]; n++ {
			key = base + "-" + strconv.Itoa(n)
		}
		used[key] = true
		keys[i] = key
	}
	return keys
}

// errorMessage prefers the AppError message and keeps the cause for context
func errorMessage(err error) string {
	appErr, ok := errors.As(err)
	if !ok {
		return err.Error()
	}
	if appErr.Err != nil {
		return strings.TrimSpace(appErr.Message + ": " + appErr.Err.Error())
	}
	return appErr.Message
}
