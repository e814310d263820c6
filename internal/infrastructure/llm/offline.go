package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/pkg/errors"
)

// OfflineModel is the model name reported by the offline provider
const OfflineModel = "offline"

// OfflineResponder produces deterministic answers without a network call
type OfflineResponder interface {
	Scenarios(subject, template string) []entity.Scenario
	Code(scenario *entity.Scenario) string
}

// OfflineClient answers from local generators. It is used when no provider
// key is configured.
type OfflineClient struct {
	responder OfflineResponder
}

// NewOfflineClient creates an offline client
func NewOfflineClient(responder OfflineResponder) *OfflineClient {
	return &OfflineClient{responder: responder}
}

// Provider implements Client
func (c *OfflineClient) Provider() string { return ProviderOffline }

// DefaultModel implements Client
func (c *OfflineClient) DefaultModel() string { return OfflineModel }

// Complete implements Client
func (c *OfflineClient) Complete(ctx context.Context, req ChatRequest) (*Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewTimeout("Offline completion cancelled").WithError(err)
	}

	var text string
	switch req.Format {
	case FormatScenarioArray:
		text = marshalOrEmpty(c.responder.Scenarios(req.Subject, req.Template))
	case FormatScenarioObject:
		text = marshalOrEmpty(map[string]interface{}{
			"scenarios": c.responder.Scenarios(req.Subject, req.Template),
		})
	case FormatCode:
		if req.Scenario == nil {
			return nil, errors.NewBadRequest("Offline code generation needs a scenario")
		}
		text = c.responder.Code(req.Scenario)
	default:
		text = offlineSummary(req)
	}

	return &Completion{
		Text:     text,
		Model:    OfflineModel,
		Provider: ProviderOffline,
	}, nil
}

func marshalOrEmpty(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func offlineSummary(req ChatRequest) string {
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = firstLine(req.Prompt)
	}
	return "Offline report (no LLM provider configured)\n\nInput: " + subject
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
