// Package llm wraps the chat-completion providers used to generate scenarios,
// automation code and crew reports.
package llm

import (
	"context"
	"time"

	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/pkg/config"
	"github.com/nexusqa/agents/pkg/logger"
	"github.com/nexusqa/agents/pkg/metrics"
)

// Provider names accepted by LLM_PROVIDER
const (
	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"
	ProviderOffline = "offline"
)

// Format tells the offline provider what shape of answer a prompt expects
type Format int

const (
	FormatText Format = iota
	FormatScenarioArray
	FormatScenarioObject
	FormatCode
)

// Client is a chat-completion provider
type Client interface {
	Complete(ctx context.Context, req ChatRequest) (*Completion, error)
	Provider() string
	DefaultModel() string
}

// ChatRequest is a single system + user exchange
type ChatRequest struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int

	// Hints read only by the offline provider.
	Format   Format
	Subject  string
	Template string
	Scenario *entity.Scenario
}

// Usage holds token counts reported by a provider
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Completion is a provider answer
type Completion struct {
	Text     string
	Model    string
	Provider string
	Usage    Usage
}

// UsageInfo is the usage summary attached to task results
type UsageInfo struct {
	Model        string  `json:"model"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalTokens  int     `json:"total_tokens"`
	Cost         float64 `json:"cost"`
}

// NewUsageInfo prices a completion, logging when the model is not in the price table
func NewUsageInfo(log logger.Logger, c *Completion) UsageInfo {
	info := UsageInfo{
		Model:        c.Model,
		InputTokens:  c.Usage.InputTokens,
		OutputTokens: c.Usage.OutputTokens,
		TotalTokens:  c.Usage.TotalTokens,
	}
	if info.TotalTokens == 0 {
		info.TotalTokens = info.InputTokens + info.OutputTokens
	}
	if info.TotalTokens == 0 {
		return info
	}
	if _, ok := lookupPrice(c.Model); !ok {
		log.Warn("Model price not found, using gpt-4o-mini pricing", logger.String("model", c.Model))
	}
	info.Cost = CalculateCost(c.Model, info.InputTokens, info.OutputTokens)
	return info
}

// NewClient builds the provider selected by cfg. Providers without an API key
// degrade to the offline provider.
func NewClient(cfg config.LLMConfig, offline OfflineResponder, log logger.Logger) (Client, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey != "" {
			return NewOpenAIClient(cfg), nil
		}
		log.Warn("OPENAI_API_KEY not set, using offline provider")
	case ProviderGemini:
		if cfg.GeminiAPIKey != "" {
			return NewGeminiClient(context.Background(), cfg)
		}
		log.Warn("GEMINI_API_KEY not set, using offline provider")
	}
	return NewOfflineClient(offline), nil
}

// Instrument wraps c so every call is counted and timed
func Instrument(c Client, log logger.Logger) Client {
	return &instrumented{next: c, log: log}
}

type instrumented struct {
	next Client
	log  logger.Logger
}

func (i *instrumented) Provider() string     { return i.next.Provider() }
func (i *instrumented) DefaultModel() string { return i.next.DefaultModel() }

func (i *instrumented) Complete(ctx context.Context, req ChatRequest) (*Completion, error) {
	start := time.Now()
	provider := i.next.Provider()
	model := req.Model
	if model == "" {
		model = i.next.DefaultModel()
	}

	resp, err := i.next.Complete(ctx, req)
	metrics.LLMDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMRequests.WithLabelValues(provider, model, "error").Inc()
		i.log.WithContext(ctx).Error("LLM request failed",
			logger.String("provider", provider),
			logger.String("model", model),
			logger.Error(err),
		)
		return nil, err
	}

	metrics.LLMRequests.WithLabelValues(provider, resp.Model, "success").Inc()
	metrics.LLMTokens.WithLabelValues(provider, resp.Model, "input").Add(float64(resp.Usage.InputTokens))
	metrics.LLMTokens.WithLabelValues(provider, resp.Model, "output").Add(float64(resp.Usage.OutputTokens))
	i.log.WithContext(ctx).Debug("LLM request completed",
		logger.String("provider", provider),
		logger.String("model", resp.Model),
		logger.Int("total_tokens", resp.Usage.TotalTokens),
		logger.Duration("duration", time.Since(start)),
	)
	return resp, nil
}
