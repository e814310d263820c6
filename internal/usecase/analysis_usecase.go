package usecase

import (
	"context"
	"strings"

	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/internal/infrastructure/llm"
	"github.com/nexusqa/agents/internal/infrastructure/services"
	"github.com/nexusqa/agents/pkg/config"
	"github.com/nexusqa/agents/pkg/errors"
	"github.com/nexusqa/agents/pkg/logger"
)

// AnalysisUseCase turns requirements and documents into test scenarios
type AnalysisUseCase interface {
	// AnalyzeDocument extracts scenarios from an uploaded document with the LLM
	AnalyzeDocument(ctx context.Context, req *DocumentAnalysisRequest) (*ScenarioResult, error)

	// AnalyzeText extracts scenarios from free-form requirement text with the LLM
	AnalyzeText(ctx context.Context, req *TextAnalysisRequest) (*ScenarioResult, error)

	// AnalyzeRequirements runs the rule-based analyzer and synthesizer only
	AnalyzeRequirements(req *RequirementsRequest) *RequirementsResult
}

// RequirementsResult is the synchronous analyzer output
type RequirementsResult struct {
	Success   bool              `json:"success"`
	Analysis  *entity.Analysis  `json:"analysis"`
	Scenarios []entity.Scenario `json:"scenarios"`
}

// analysisUseCase is the concrete implementation
type analysisUseCase struct {
	llm      *completer
	provider string
	cfg      config.LLMConfig
	analyzer services.RequirementAnalyzer
	synth    services.ScenarioSynthesizer
	logger   logger.Logger
}

// NewAnalysisUseCase creates a new analysis use case
func NewAnalysisUseCase(
	client llm.Client,
	cfg config.LLMConfig,
	analyzer services.RequirementAnalyzer,
	synth services.ScenarioSynthesizer,
	log logger.Logger,
) AnalysisUseCase {
	return &analysisUseCase{
		llm:      newCompleter(client, cfg.Timeout, log),
		provider: client.Provider(),
		cfg:      cfg,
		analyzer: analyzer,
		synth:    synth,
		logger:   log,
	}
}

// AnalyzeDocument implements AnalysisUseCase
func (uc *analysisUseCase) AnalyzeDocument(ctx context.Context, req *DocumentAnalysisRequest) (*ScenarioResult, error) {
	if strings.TrimSpace(req.DocumentContent) == "" {
		return nil, errors.NewValidation("document_content is required")
	}

	model := ""
	if uc.provider == llm.ProviderOpenAI && len(req.DocumentContent) > uc.cfg.LargeDocumentThreshold {
		model = uc.cfg.LargeDocumentModel
		uc.logger.WithContext(ctx).Info("large document detected, using upgraded model",
			logger.Int("length", len(req.DocumentContent)),
			logger.String("model", model))
	}

	return uc.extract(ctx, llm.ChatRequest{
		Model:       model,
		System:      llm.DocumentSystemPrompt,
		Prompt:      llm.DocumentAnalysisPrompt(req.DocumentContent, req.Options.scenarioOptions(req.Template)),
		Temperature: uc.cfg.Temperature,
		MaxTokens:   uc.cfg.MaxTokens,
		Format:      llm.FormatScenarioObject,
		Subject:     req.DocumentContent,
		Template:    req.Template,
	})
}

// AnalyzeText implements AnalysisUseCase
func (uc *analysisUseCase) AnalyzeText(ctx context.Context, req *TextAnalysisRequest) (*ScenarioResult, error) {
	if strings.TrimSpace(req.RequirementText) == "" {
		return nil, errors.NewValidation("requirement_text is required")
	}

	return uc.extract(ctx, llm.ChatRequest{
		System:      llm.TextSystemPrompt,
		Prompt:      llm.TextAnalysisPrompt(req.RequirementText, req.Options.scenarioOptions(req.Template)),
		Temperature: uc.cfg.Temperature,
		MaxTokens:   uc.cfg.MaxTokens,
		Format:      llm.FormatScenarioArray,
		Subject:     req.RequirementText,
		Template:    req.Template,
	})
}

func (uc *analysisUseCase) extract(ctx context.Context, req llm.ChatRequest) (*ScenarioResult, error) {
	log := uc.logger.WithContext(ctx)

	resp, usage, err := uc.llm.complete(ctx, req)
	if err != nil {
		return nil, err
	}

	scenarios, diag := llm.ParseScenarios(resp.Text)
	fallback := false
	if len(scenarios) == 0 {
		log.Warn("LLM output held no scenarios, using keyword fallback",
			logger.String("diagnostic", diag),
			logger.String("raw_output", resp.Text))
		scenarios = uc.synth.Fallback(req.Subject, req.Template)
		fallback = true
	}

	if req.Template == services.TemplateBDD {
		for i := range scenarios {
			if scenarios[i].BDDFormat == "" {
				scenarios[i].BDDFormat = scenarios[i].RenderBDD()
			}
		}
	}

	log.Info("scenarios extracted",
		logger.Int("count", len(scenarios)),
		logger.Bool("fallback", fallback))

	return &ScenarioResult{
		Success:   true,
		Scenarios: scenarios,
		Cost:      usage.Cost,
		Usage:     &usage,
		Fallback:  fallback,
	}, nil
}

// AnalyzeRequirements implements AnalysisUseCase
func (uc *analysisUseCase) AnalyzeRequirements(req *RequirementsRequest) *RequirementsResult {
	analysis := uc.analyzer.Analyze(req.Text)
	return &RequirementsResult{
		Success:   true,
		Analysis:  analysis,
		Scenarios: uc.synth.Synthesize(analysis, req.Template),
	}
}
