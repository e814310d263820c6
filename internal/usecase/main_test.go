package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"go.uber.org/goleak"

	"github.com/nexusqa/agents/internal/clients"
	"github.com/nexusqa/agents/internal/infrastructure/llm"
	"github.com/nexusqa/agents/internal/infrastructure/personas"
	"github.com/nexusqa/agents/pkg/config"
)

func TestMain(m *testing.M) {
	// genai links opencensus, whose view worker starts at init and never exits
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// mockLLM is a testify mock of llm.Client
type mockLLM struct {
	mock.Mock
	provider string
}

func newMockLLM() *mockLLM {
	return &mockLLM{provider: llm.ProviderOpenAI}
}

func (m *mockLLM) Complete(ctx context.Context, req llm.ChatRequest) (*llm.Completion, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*llm.Completion)
	return resp, args.Error(1)
}

func (m *mockLLM) Provider() string     { return m.provider }
func (m *mockLLM) DefaultModel() string { return "gpt-4o-mini" }

func completion(text string, in, out int) *llm.Completion {
	return &llm.Completion{
		Text:     text,
		Model:    "gpt-4o-mini",
		Provider: llm.ProviderOpenAI,
		Usage:    llm.Usage{InputTokens: in, OutputTokens: out},
	}
}

func testLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		Provider:               llm.ProviderOpenAI,
		Model:                  "gpt-4o-mini",
		Temperature:            0.7,
		MaxTokens:              4000,
		LargeDocumentThreshold: 100,
		LargeDocumentModel:     "gpt-4o",
	}
}

func testPersonas(t *testing.T) *personas.Registry {
	t.Helper()
	return personas.MustLoad()
}

// recordingNotifier captures backend events
type recordingNotifier struct {
	mu     sync.Mutex
	events []notified
}

type notified struct {
	event string
	n     clients.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, event string, n clients.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, notified{event: event, n: n})
}

func (r *recordingNotifier) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.event)
	}
	return out
}

func (r *recordingNotifier) last() notified {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}
