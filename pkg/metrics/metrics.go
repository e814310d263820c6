package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Task metrics
var (
	TasksSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agents_tasks_submitted_total",
			Help: "Total number of background tasks submitted",
		},
		[]string{"kind"},
	)

	TasksFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agents_tasks_finished_total",
			Help: "Total number of background tasks that reached a terminal status",
		},
		[]string{"kind", "status"},
	)

	TaskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agents_task_duration_seconds",
			Help:    "Background task execution duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~3.4 minutes
		},
		[]string{"kind"},
	)

	TasksInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "agents_tasks_in_flight",
			Help: "Number of background tasks currently executing in this process",
		},
	)
)

// LLM metrics
var (
	LLMRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agents_llm_requests_total",
			Help: "Total number of LLM completion requests",
		},
		[]string{"provider", "model", "status"},
	)

	LLMTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agents_llm_tokens_total",
			Help: "Total number of LLM tokens consumed",
		},
		[]string{"provider", "model", "direction"},
	)

	LLMCost = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agents_llm_cost_usd_total",
			Help: "Accumulated LLM cost in USD",
		},
		[]string{"model"},
	)

	LLMDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agents_llm_request_duration_seconds",
			Help:    "LLM completion latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
		[]string{"provider"},
	)
)

// Backend webhook metrics
var (
	BackendCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agents_backend_calls_total",
			Help: "Total number of outbound backend webhook calls",
		},
		[]string{"endpoint", "status"},
	)
)

// HTTP metrics
var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agents_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agents_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Workflow metrics
var (
	WorkflowsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "temporal_workflows_started_total",
			Help: "Total number of workflows started",
		},
		[]string{"workflow_type"},
	)

	ActivityErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "temporal_activity_errors_total",
			Help: "Total number of activity errors",
		},
		[]string{"activity_name"},
	)
)
