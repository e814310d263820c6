package router

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/internal/infrastructure/auth"
	"github.com/nexusqa/agents/internal/infrastructure/llm"
	"github.com/nexusqa/agents/internal/infrastructure/memory"
	"github.com/nexusqa/agents/internal/infrastructure/personas"
	"github.com/nexusqa/agents/internal/infrastructure/services"
	"github.com/nexusqa/agents/internal/router/middleware"
	"github.com/nexusqa/agents/internal/usecase"
	"github.com/nexusqa/agents/pkg/config"
	"github.com/nexusqa/agents/pkg/logger"
)

type queuedDispatcher struct {
	jobs []*entity.Job
}

func (d *queuedDispatcher) Dispatch(_ context.Context, job *entity.Job) error {
	d.jobs = append(d.jobs, job)
	return nil
}

func (d *queuedDispatcher) Cancel(context.Context, string) error { return nil }

type failingStore struct{}

func (failingStore) Ping(context.Context) error { return stderrors.New("connection refused") }

type testServer struct {
	engine     *gin.Engine
	dispatcher *queuedDispatcher
	tasks      usecase.TaskUseCase
}

func newTestServer(t *testing.T, mutate func(*Dependencies)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	cfg := &config.Config{
		App:   config.AppConfig{Name: "Nexus QA - CrewAI API", Version: "1.0.0"},
		Store: config.StoreConfig{Driver: config.StoreMemory},
		LLM:   config.LLMConfig{Provider: llm.ProviderOffline},
	}

	registry := personas.MustLoad()
	synth := services.NewScenarioSynthesizer()
	scripts := services.NewScriptGenerator()
	client := llm.NewOfflineClient(services.NewOfflineResponder(synth, scripts, "http://localhost:3000"))

	d := &queuedDispatcher{}
	tasks := usecase.NewTaskUseCase(memory.NewTaskRepository(), d, log)
	deps := &Dependencies{
		Agents:   usecase.NewAgentUseCase(registry, scripts, services.NewReportAnalyzer(), "http://localhost:3000", 0, log),
		Tasks:    tasks,
		Analysis: usecase.NewAnalysisUseCase(client, cfg.LLM, services.NewRequirementAnalyzer(nil, log), synth, log),
		Logger:   log,
		Config:   cfg,
	}
	if mutate != nil {
		mutate(deps)
	}

	r := gin.New()
	r.Use(middleware.Logging(log), middleware.Metrics())
	RegisterRoutes(r, deps)
	return &testServer{engine: r, dispatcher: d, tasks: tasks}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func errorCode(body map[string]interface{}) string {
	e, _ := body["error"].(map[string]interface{})
	code, _ := e["code"].(string)
	return code
}

func TestRootDescribesService(t *testing.T) {
	s := newTestServer(t, nil)
	w, body := s.do(t, http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Nexus QA - CrewAI API", body["name"])
	assert.Equal(t, "running", body["status"])
	assert.Equal(t, []interface{}{"orchestrator", "test_architect", "developer", "security_analyst"}, body["agents"])
	assert.Equal(t, []interface{}{"test", "security"}, body["crews"])
	assert.Contains(t, body["endpoints"], "run_agent")
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestHealth(t *testing.T) {
	w, body := newTestServer(t, nil).do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	_, err := time.Parse(time.RFC3339Nano, body["timestamp"].(string))
	assert.NoError(t, err)

	s := newTestServer(t, func(d *Dependencies) { d.Store = failingStore{} })
	w, body = s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "degraded", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(t, http.MethodGet, "/agents", nil)

	w, _ := s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "agents_http_requests_total")
}

func TestListAgents(t *testing.T) {
	w, body := newTestServer(t, nil).do(t, http.MethodGet, "/agents", nil)
	require.Equal(t, http.StatusOK, w.Code)

	agents := body["agents"].([]interface{})
	require.Len(t, agents, 4)
	first := agents[0].(map[string]interface{})
	assert.Equal(t, "orchestrator", first["id"])
	assert.Equal(t, "Manager Omega", first["name"])
	assert.Equal(t, "ORCHESTRATOR", first["type"])
}

func TestSubmitRoutes(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		body    interface{}
		message string
		kind    entity.TaskKind
	}{
		{"run agent", "/run", map[string]interface{}{"agent_type": "developer"}, "Agent developer started", entity.TaskKindAgent},
		{"test crew", "/crew/test", map[string]interface{}{"project": map[string]string{"name": "Shop"}}, "Test crew started", entity.TaskKindTestCrew},
		{"security crew", "/crew/security", map[string]interface{}{"security_target": map[string]string{"url": "http://x"}}, "Security crew started", entity.TaskKindSecurityCrew},
		{"document analysis", "/crew/document-analysis", map[string]interface{}{"document_content": "login"}, "Document analysis started", entity.TaskKindDocument},
		{"text analysis", "/crew/text-analysis", map[string]interface{}{"requirement_text": "login"}, "Text analysis started", entity.TaskKindText},
		{"automation", "/crew/generate-automation", map[string]interface{}{"scenario": map[string]string{"title": "t"}, "backend_scenario_id": 12}, "Automation generation started", entity.TaskKindAutomation},
		{"automation batch", "/crew/generate-automation/batch", map[string]interface{}{"scenarios": []map[string]string{{"title": "t"}}}, "Batch automation generation started", entity.TaskKindAutomationBulk},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)
			w, body := s.do(t, http.MethodPost, tt.path, tt.body)

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, true, body["success"])
			assert.Equal(t, tt.message, body["message"])
			assert.Equal(t, "pending", body["status"])
			assert.Len(t, body["task_id"], 8)

			require.Len(t, s.dispatcher.jobs, 1)
			assert.Equal(t, tt.kind, s.dispatcher.jobs[0].Kind)
			assert.Equal(t, body["task_id"], s.dispatcher.jobs[0].TaskID)
		})
	}
}

func TestSubmitRejections(t *testing.T) {
	tests := []struct {
		name string
		path string
		body interface{}
		code string
	}{
		{"unknown agent", "/run", map[string]string{"agent_type": "janitor"}, "BAD_REQUEST"},
		{"missing agent type", "/run", map[string]string{}, "BAD_REQUEST"},
		{"malformed json", "/run", "{", "BAD_REQUEST"},
		{"security without target", "/crew/security", map[string]string{"crew_type": "security"}, "BAD_REQUEST"},
		{"document without content", "/crew/document-analysis", map[string]string{}, "BAD_REQUEST"},
		{"empty batch", "/crew/generate-automation/batch", map[string]interface{}{"scenarios": []string{}}, "BAD_REQUEST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)
			w, body := s.do(t, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, errorCode(body))
			assert.Empty(t, s.dispatcher.jobs)
		})
	}
}

func TestTaskRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	_, submitted := s.do(t, http.MethodPost, "/run", map[string]string{"agent_type": "developer"})
	id := submitted["task_id"].(string)

	w, body := s.do(t, http.MethodGet, "/tasks/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, body["id"])
	assert.Equal(t, "agent", body["type"])
	assert.Equal(t, "pending", body["status"])
	assert.Nil(t, body["result"])

	w, body = s.do(t, http.MethodGet, "/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["total"])

	w, body = s.do(t, http.MethodPost, "/tasks/"+id+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Task "+id+" cancelled", body["message"])

	_, body = s.do(t, http.MethodGet, "/tasks/"+id, nil)
	assert.Equal(t, "cancelled", body["status"])

	w, body = s.do(t, http.MethodGet, "/tasks/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(body))

	w, _ = s.do(t, http.MethodPost, "/tasks/missing/cancel", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSynchronousRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	w, body := s.do(t, http.MethodPost, "/analyze/requirements", map[string]string{
		"text": "Kullanıcı login sayfasına gider ve şifre girer.",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["scenarios"])

	w, body = s.do(t, http.MethodPost, "/reports/analyze", map[string]int{"totalRuns": 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.NoReportData, body["report"])
	assert.Equal(t, "report_analyst", body["agent"])

	assert.Empty(t, s.dispatcher.jobs)
}

func TestServiceTokenGuardsMutatingRoutes(t *testing.T) {
	s := newTestServer(t, func(d *Dependencies) {
		a, err := auth.NewServiceAuth("secret", d.Logger, PublicPaths...)
		require.NoError(t, err)
		d.Auth = a
	})

	w, _ := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, body := s.do(t, http.MethodPost, "/run", map[string]string{"agent_type": "developer"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))
}
