package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusqa/agents/pkg/config"
	"github.com/nexusqa/agents/pkg/logger"
)

type recordedCall struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

type fakeBackend struct {
	mu         sync.Mutex
	calls      []recordedCall
	logsStatus int
}

func (b *fakeBackend) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if r.Body != nil && r.ContentLength != 0 {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}
		b.mu.Lock()
		b.calls = append(b.calls, recordedCall{Method: r.Method, Path: r.URL.Path, Body: body})
		status := b.logsStatus
		b.mu.Unlock()

		switch {
		case r.URL.Path == "/api/tests/logs":
			if status != 0 {
				w.WriteHeader(status)
				return
			}
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodGet && r.URL.Path == "/api/agents":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"agents":[{"id":"a-1","type":"DEVELOPER","name":"DevBot Beta"},{"id":"a-2","type":"TEST_ARCHITECT","name":"Agent Alpha"}]}`))
		case r.Method == http.MethodPut:
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}
	})
}

func (b *fakeBackend) snapshot() []recordedCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recordedCall(nil), b.calls...)
}

func newTestClient(url string) *BackendClient {
	c := NewBackendClient(config.BackendConfig{URL: url + "/", Timeout: time.Second}, logger.NewNop())
	c.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 600000000, time.UTC) }
	return c
}

func TestNotifyPostsLog(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.handler(t))
	defer srv.Close()

	newTestClient(srv.URL).Notify(context.Background(), "agent:started", Notification{
		Message: "Test Architect başlatıldı",
		AgentID: "test_architect",
		RunID:   "ab12cd34",
	})

	calls := backend.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPost, calls[0].Method)
	assert.Equal(t, "/api/tests/logs", calls[0].Path)
	assert.Equal(t, "INFO", calls[0].Body["level"])
	assert.Equal(t, map[string]interface{}{
		"event":     "agent:started",
		"agent_id":  "test_architect",
		"run_id":    "ab12cd34",
		"timestamp": "2026-01-02T03:04:05.600000",
		"cost":      nil,
	}, calls[0].Body["metadata"])
}

func TestNotifyUpdatesAgentCost(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.handler(t))
	defer srv.Close()

	newTestClient(srv.URL).Notify(context.Background(), "document:analyzed", Notification{
		Message:   "done",
		Cost:      0.0042,
		AgentType: "TEST_ARCHITECT",
	})

	calls := backend.snapshot()
	require.Len(t, calls, 3)
	assert.Equal(t, "/api/agents", calls[1].Path)
	assert.Equal(t, http.MethodPut, calls[2].Method)
	assert.Equal(t, "/api/agents/a-2", calls[2].Path)
	assert.Equal(t, map[string]interface{}{"cost": 0.0042}, calls[2].Body)
}

func TestNotifySkipsUnknownAgentType(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.handler(t))
	defer srv.Close()

	newTestClient(srv.URL).Notify(context.Background(), "crew:completed", Notification{Cost: 1, AgentType: "ORCHESTRATOR"})

	calls := backend.snapshot()
	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodGet, calls[1].Method)
}

func TestNotifyIsBestEffort(t *testing.T) {
	backend := &fakeBackend{logsStatus: http.StatusInternalServerError}
	srv := httptest.NewServer(backend.handler(t))
	defer srv.Close()

	assert.NotPanics(t, func() {
		newTestClient(srv.URL).Notify(context.Background(), "agent:error", Notification{Level: LevelError, Message: "boom"})
	})
	require.Len(t, backend.snapshot(), 1)

	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()
	assert.NotPanics(t, func() {
		newTestClient(closed.URL).Notify(context.Background(), "agent:error", Notification{Cost: 1, AgentType: "DEVELOPER"})
	})
}

func TestNewNotifierDisabled(t *testing.T) {
	n := NewNotifier(config.BackendConfig{URL: "http://localhost:1", NotifyEnabled: false}, logger.NewNop())
	assert.IsType(t, NopNotifier{}, n)

	n = NewNotifier(config.BackendConfig{URL: "http://localhost:1", NotifyEnabled: true}, logger.NewNop())
	assert.IsType(t, &BackendClient{}, n)
}
