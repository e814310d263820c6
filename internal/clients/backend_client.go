package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/nexusqa/agents/pkg/config"
	"github.com/nexusqa/agents/pkg/logger"
	"github.com/nexusqa/agents/pkg/metrics"
)

// Log levels understood by the backend log sink
const (
	LevelInfo    = "INFO"
	LevelSuccess = "SUCCESS"
	LevelError   = "ERROR"
)

// Notification is the data attached to a backend event
type Notification struct {
	Level     string
	Message   string
	AgentID   string
	RunID     string
	Cost      float64
	AgentType string
}

// Notifier relays task events to the external backend
type Notifier interface {
	// Notify never returns an error: delivery is best effort
	Notify(ctx context.Context, event string, n Notification)
}

type logPayload struct {
	Level    string      `json:"level"`
	Message  string      `json:"message"`
	Metadata logMetadata `json:"metadata"`
}

type logMetadata struct {
	Event     string   `json:"event"`
	AgentID   *string  `json:"agent_id"`
	RunID     *string  `json:"run_id"`
	Timestamp string   `json:"timestamp"`
	Cost      *float64 `json:"cost"`
}

type backendAgent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// BackendClient posts logs and agent cost updates to the backend REST API
type BackendClient struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
	now     func() time.Time

	// costMu serializes the lookup-then-update cost sequence in this process
	costMu sync.Mutex
}

// NewBackendClient creates a backend webhook client
func NewBackendClient(cfg config.BackendConfig, log logger.Logger) *BackendClient {
	return &BackendClient{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     log,
		now:     time.Now,
	}
}

// NewNotifier returns the backend client, or a no-op notifier when delivery is disabled
func NewNotifier(cfg config.BackendConfig, log logger.Logger) Notifier {
	if !cfg.NotifyEnabled || cfg.URL == "" {
		log.Info("backend notifications disabled")
		return NopNotifier{}
	}
	log.Info("backend notifications enabled", logger.String("url", cfg.URL))
	return NewBackendClient(cfg, log)
}

// Notify implements Notifier
func (c *BackendClient) Notify(ctx context.Context, event string, n Notification) {
	level := n.Level
	if level == "" {
		level = LevelInfo
	}
	payload := logPayload{
		Level:   level,
		Message: n.Message,
		Metadata: logMetadata{
			Event:     event,
			AgentID:   optional(n.AgentID),
			RunID:     optional(n.RunID),
			Timestamp: c.now().Format("2006-01-02T15:04:05.000000"),
		},
	}
	if n.Cost > 0 {
		cost := n.Cost
		payload.Metadata.Cost = &cost
	}

	if err := c.send(ctx, http.MethodPost, "/api/tests/logs", payload, nil); err != nil {
		c.log.Warn("backend notification failed",
			logger.String("event", event),
			logger.Error(err))
	}

	if n.Cost > 0 && n.AgentType != "" {
		c.updateAgentCost(ctx, n.AgentType, n.Cost)
	}
}

func (c *BackendClient) updateAgentCost(ctx context.Context, agentType string, cost float64) {
	c.costMu.Lock()
	defer c.costMu.Unlock()

	var list struct {
		Agents []backendAgent `json:"agents"`
	}
	if err := c.send(ctx, http.MethodGet, "/api/agents", nil, &list); err != nil {
		c.log.Warn("agent cost update failed", logger.String("agent_type", agentType), logger.Error(err))
		return
	}

	var agent *backendAgent
	for i := range list.Agents {
		if list.Agents[i].Type == agentType {
			agent = &list.Agents[i]
			break
		}
	}
	if agent == nil {
		c.log.Debug("no backend agent for type", logger.String("agent_type", agentType))
		return
	}

	body := map[string]float64{"cost": cost}
	if err := c.send(ctx, http.MethodPut, "/api/agents/"+agent.ID, body, nil); err != nil {
		c.log.Warn("agent cost update failed",
			logger.String("agent_id", agent.ID),
			logger.Error(err))
		return
	}

	c.log.Info("agent cost updated",
		logger.String("agent", agent.Name),
		logger.Float64("cost", cost))
}

func (c *BackendClient) send(ctx context.Context, method, path string, body, out interface{}) error {
	endpoint := path
	if strings.HasPrefix(path, "/api/agents/") {
		endpoint = "/api/agents/:id"
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.BackendCalls.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	metrics.BackendCalls.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// NopNotifier drops every event
type NopNotifier struct{}

// Notify implements Notifier
func (NopNotifier) Notify(context.Context, string, Notification) {}
