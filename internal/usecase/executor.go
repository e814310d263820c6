package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/nexusqa/agents/internal/clients"
	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/pkg/errors"
	"github.com/nexusqa/agents/pkg/logger"
	"github.com/nexusqa/agents/pkg/metrics"
)

// JobExecutor runs submitted jobs and records their outcome. It satisfies
// dispatch.Runner.
type JobExecutor interface {
	Run(ctx context.Context, job *entity.Job)
}

// outcome describes the backend event for a finished job
type outcome struct {
	event    string
	message  string
	cost     float64
	agentKey string
}

// kindEvents are the backend event names used for each task kind
type kindEvents struct {
	started string
	success string
	failure string
	prefix  string
}

var eventsByKind = map[entity.TaskKind]kindEvents{
	entity.TaskKindAgent:          {started: "agent:started", success: "agent:completed", failure: "agent:error", prefix: "Error"},
	entity.TaskKindTestCrew:       {success: "crew:completed", failure: "crew:error", prefix: "Crew error"},
	entity.TaskKindSecurityCrew:   {success: "crew:completed", failure: "crew:error", prefix: "Crew error"},
	entity.TaskKindDocument:       {success: "document:analyzed", failure: "document:analysis_error", prefix: "Analysis error"},
	entity.TaskKindText:           {success: "text:analyzed", failure: "text:analysis_error", prefix: "Analysis error"},
	entity.TaskKindAutomation:     {success: "automation:generated", failure: "automation:generation_error", prefix: "Generation error"},
	entity.TaskKindAutomationBulk: {success: "automation:generated", failure: "automation:generation_error", prefix: "Generation error"},
}

// jobExecutor is the concrete implementation
type jobExecutor struct {
	tasks      TaskLifecycle
	agents     AgentUseCase
	personas   PersonaSource
	crews      CrewUseCase
	analysis   AnalysisUseCase
	automation AutomationUseCase
	notifier   clients.Notifier
	logger     logger.Logger
}

// NewJobExecutor creates the executor used by every dispatcher
func NewJobExecutor(
	tasks TaskLifecycle,
	agents AgentUseCase,
	personas PersonaSource,
	crews CrewUseCase,
	analysis AnalysisUseCase,
	automation AutomationUseCase,
	notifier clients.Notifier,
	log logger.Logger,
) JobExecutor {
	return &jobExecutor{
		tasks:      tasks,
		agents:     agents,
		personas:   personas,
		crews:      crews,
		analysis:   analysis,
		automation: automation,
		notifier:   notifier,
		logger:     log,
	}
}

// Run implements JobExecutor
func (e *jobExecutor) Run(ctx context.Context, job *entity.Job) {
	log := e.logger.WithContext(ctx).WithFields(
		logger.String("task_id", job.TaskID),
		logger.String("kind", job.Kind.String()))

	moved, err := e.tasks.MarkRunning(ctx, job.TaskID)
	if err != nil {
		log.Error("failed to mark task running", logger.Error(err))
		return
	}
	if !moved {
		log.Info("task no longer pending, skipping")
		return
	}

	metrics.TasksInFlight.Inc()
	defer metrics.TasksInFlight.Dec()
	start := time.Now()

	events := eventsByKind[job.Kind]
	if events.started != "" {
		e.notifier.Notify(ctx, events.started, clients.Notification{
			Level:   clients.LevelInfo,
			Message: fmt.Sprintf("%s agent started", job.AgentType),
			AgentID: job.AgentType,
			RunID:   job.TaskID,
		})
	}

	payload, out, err := e.execute(ctx, job)
	metrics.TaskDuration.WithLabelValues(job.Kind.String()).Observe(time.Since(start).Seconds())

	// the job context may be cancelled by now; the outcome must still be stored
	storeCtx := context.WithoutCancel(ctx)

	if err != nil {
		msg := errorMessage(err)
		recorded, ferr := e.tasks.FailRunning(storeCtx, job.TaskID, msg)
		if ferr != nil {
			log.Error("failed to record task failure", logger.Error(ferr))
		}
		if ferr == nil && !recorded {
			log.Info("task cancelled while running, dropping its error", logger.Error(err))
			return
		}
		log.Error("task failed", logger.Error(err), logger.Duration("duration", time.Since(start)))
		e.notifier.Notify(storeCtx, events.failure, clients.Notification{
			Level:   clients.LevelError,
			Message: fmt.Sprintf("%s: %s", events.prefix, msg),
			AgentID: job.AgentType,
			RunID:   job.TaskID,
		})
		return
	}

	if cerr := e.tasks.Complete(storeCtx, job.TaskID, payload); cerr != nil {
		log.Error("failed to record task result", logger.Error(cerr))
	}
	log.Info("task completed",
		logger.Duration("duration", time.Since(start)),
		logger.Float64("cost", out.cost))

	event := out.event
	if event == "" {
		event = events.success
	}
	e.notifier.Notify(storeCtx, event, clients.Notification{
		Level:     clients.LevelSuccess,
		Message:   out.message,
		AgentID:   job.AgentType,
		RunID:     job.TaskID,
		Cost:      out.cost,
		AgentType: e.backendType(out.agentKey),
	})
}

func (e *jobExecutor) execute(ctx context.Context, job *entity.Job) (interface{}, outcome, error) {
	switch job.Kind {
	case entity.TaskKindAgent:
		var req RunAgentRequest
		if err := decodeJob(job, &req); err != nil {
			return nil, outcome{}, err
		}
		res, err := e.agents.Run(ctx, job.AgentType, req.Options)
		if err != nil {
			return nil, outcome{}, err
		}
		return res, outcome{message: fmt.Sprintf("%s completed", job.AgentType)}, nil

	case entity.TaskKindTestCrew:
		var req CrewRequest
		if err := decodeJob(job, &req); err != nil {
			return nil, outcome{}, err
		}
		res, err := e.crews.RunTestCrew(ctx, &req)
		if err != nil {
			return nil, outcome{}, err
		}
		return res, outcome{message: "Test crew completed", cost: res.Cost, agentKey: entity.AgentTestArchitect}, nil

	case entity.TaskKindSecurityCrew:
		var req CrewRequest
		if err := decodeJob(job, &req); err != nil {
			return nil, outcome{}, err
		}
		res, err := e.crews.RunSecurityCrew(ctx, req.SecurityTarget)
		if err != nil {
			return nil, outcome{}, err
		}
		return res, outcome{message: "Security crew completed", cost: res.Cost, agentKey: entity.AgentSecurityAnalyst}, nil

	case entity.TaskKindDocument:
		var req DocumentAnalysisRequest
		if err := decodeJob(job, &req); err != nil {
			return nil, outcome{}, err
		}
		res, err := e.analysis.AnalyzeDocument(ctx, &req)
		if err != nil {
			return nil, outcome{}, err
		}
		return res, outcome{message: "Document analysis completed", cost: res.Cost, agentKey: entity.AgentTestArchitect}, nil

	case entity.TaskKindText:
		var req TextAnalysisRequest
		if err := decodeJob(job, &req); err != nil {
			return nil, outcome{}, err
		}
		res, err := e.analysis.AnalyzeText(ctx, &req)
		if err != nil {
			return nil, outcome{}, err
		}
		msg := fmt.Sprintf("Text analysis completed - %d scenario(s) generated", len(res.Scenarios))
		return res, outcome{message: msg, cost: res.Cost, agentKey: entity.AgentTestArchitect}, nil

	case entity.TaskKindAutomation:
		var req AutomationRequest
		if err := decodeJob(job, &req); err != nil {
			return nil, outcome{}, err
		}
		if req.Scenario.ID == "" {
			req.Scenario.ID = req.BackendScenarioID
		}
		res, err := e.automation.GenerateFromScenario(ctx, &req.Scenario, req.TestSuiteInfo)
		if err != nil {
			return nil, outcome{}, err
		}
		return res, outcome{message: "Automation code generated", cost: res.Cost, agentKey: entity.AgentDeveloper}, nil

	case entity.TaskKindAutomationBulk:
		var req AutomationBatchRequest
		if err := decodeJob(job, &req); err != nil {
			return nil, outcome{}, err
		}
		res := e.automation.GenerateBatch(ctx, req.Scenarios, req.TestSuiteInfo)
		cost := 0.0
		for _, r := range res.Results {
			cost += r.Cost
		}
		msg := fmt.Sprintf("Automation code generated for %d/%d scenario(s)", res.Successful, res.Total)
		return res, outcome{message: msg, cost: cost, agentKey: entity.AgentDeveloper}, nil
	}

	return nil, outcome{}, errors.NewBadRequest(fmt.Sprintf("Unknown task kind: %s", job.Kind))
}

func decodeJob(job *entity.Job, v interface{}) error {
	if err := job.Decode(v); err != nil {
		return errors.NewValidation("Invalid task payload").WithError(err)
	}
	return nil
}

// backendType maps an agent key to the type the backend registers agents under
func (e *jobExecutor) backendType(agentKey string) string {
	if agentKey == "" {
		return ""
	}
	agent, err := e.personas.Get(agentKey)
	if err != nil {
		return ""
	}
	return agent.Type
}
