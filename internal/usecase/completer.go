package usecase

import (
	"context"
	"time"

	"github.com/nexusqa/agents/internal/infrastructure/llm"
	"github.com/nexusqa/agents/pkg/errors"
	"github.com/nexusqa/agents/pkg/logger"
	"github.com/nexusqa/agents/pkg/metrics"
)

// completer applies the per-call timeout and prices every completion
type completer struct {
	client  llm.Client
	timeout time.Duration
	log     logger.Logger
}

func newCompleter(client llm.Client, timeout time.Duration, log logger.Logger) *completer {
	return &completer{client: client, timeout: timeout, log: log}
}

func (c *completer) complete(ctx context.Context, req llm.ChatRequest) (*llm.Completion, llm.UsageInfo, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.Complete(ctx, req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, llm.UsageInfo{}, errors.NewTimeout("LLM request timed out").WithError(err)
		}
		return nil, llm.UsageInfo{}, err
	}

	usage := llm.NewUsageInfo(c.log, resp)
	if usage.Cost > 0 {
		metrics.LLMCost.WithLabelValues(usage.Model).Add(usage.Cost)
	}
	c.log.WithContext(ctx).Info("LLM usage",
		logger.String("model", usage.Model),
		logger.Int("total_tokens", usage.TotalTokens),
		logger.Float64("cost", usage.Cost))
	return resp, usage, nil
}
