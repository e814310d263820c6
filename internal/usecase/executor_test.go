package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nexusqa/agents/internal/clients"
	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/internal/infrastructure/llm"
	"github.com/nexusqa/agents/internal/infrastructure/memory"
	"github.com/nexusqa/agents/internal/infrastructure/services"
	"github.com/nexusqa/agents/pkg/logger"
)

type executorFixture struct {
	tasks    TaskUseCase
	dispatch *captureDispatcher
	notifier *recordingNotifier
	exec     JobExecutor
}

func newExecutorFixture(t *testing.T, client llm.Client) *executorFixture {
	t.Helper()
	log := logger.NewNop()
	cfg := testLLMConfig()
	registry := testPersonas(t)

	d := &captureDispatcher{}
	tasks := NewTaskUseCase(memory.NewTaskRepository(), d, log)
	n := &recordingNotifier{}
	exec := NewJobExecutor(
		tasks,
		NewAgentUseCase(registry, services.NewScriptGenerator(), services.NewReportAnalyzer(), "http://localhost:3000", 0, log),
		registry,
		NewCrewUseCase(client, cfg, registry, log),
		NewAnalysisUseCase(client, cfg, services.NewRequirementAnalyzer(nil, log), services.NewScenarioSynthesizer(), log),
		NewAutomationUseCase(client, cfg, registry, "http://localhost:3000", 2, log),
		n,
		log,
	)
	return &executorFixture{tasks: tasks, dispatch: d, notifier: n, exec: exec}
}

// submitAndRun submits a task and runs its job synchronously
func (f *executorFixture) submitAndRun(t *testing.T, kind entity.TaskKind, agentType string, payload interface{}) *entity.Task {
	t.Helper()
	ctx := context.Background()
	task, err := f.tasks.Submit(ctx, kind, agentType, payload)
	require.NoError(t, err)
	require.NotEmpty(t, f.dispatch.jobs)

	f.exec.Run(ctx, f.dispatch.jobs[len(f.dispatch.jobs)-1])

	got, err := f.tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	return got
}

func TestExecutorTextAnalysis(t *testing.T) {
	client := newMockLLM()
	client.On("Complete", mock.Anything, mock.Anything).Return(completion(twoScenarios, 1000, 500), nil)
	f := newExecutorFixture(t, client)

	task := f.submitAndRun(t, entity.TaskKindText, "", TextAnalysisRequest{RequirementText: "kullanıcı giriş yapar"})

	assert.Equal(t, entity.TaskStatusCompleted, task.Status)
	var res ScenarioResult
	require.NoError(t, json.Unmarshal(task.Result.Payload, &res))
	assert.Len(t, res.Scenarios, 2)

	assert.Equal(t, []string{"text:analyzed"}, f.notifier.names())
	last := f.notifier.last()
	assert.Equal(t, clients.LevelSuccess, last.n.Level)
	assert.Equal(t, "Text analysis completed - 2 scenario(s) generated", last.n.Message)
	assert.Equal(t, task.ID, last.n.RunID)
	assert.Equal(t, "TEST_ARCHITECT", last.n.AgentType)
	assert.InDelta(t, 0.00045, last.n.Cost, 1e-9)
}

func TestExecutorAgentEvents(t *testing.T) {
	f := newExecutorFixture(t, newMockLLM())

	task := f.submitAndRun(t, entity.TaskKindAgent, entity.AgentDeveloper, RunAgentRequest{AgentType: entity.AgentDeveloper})

	assert.Equal(t, entity.TaskStatusCompleted, task.Status)
	assert.Equal(t, []string{"agent:started", "agent:completed"}, f.notifier.names())
	last := f.notifier.last()
	assert.Equal(t, "developer completed", last.n.Message)
	assert.Equal(t, entity.AgentDeveloper, last.n.AgentID)
	assert.Zero(t, last.n.Cost)
}

func TestExecutorFailureRecordsError(t *testing.T) {
	f := newExecutorFixture(t, newMockLLM())

	task := f.submitAndRun(t, entity.TaskKindSecurityCrew, "", CrewRequest{CrewType: "security"})

	assert.Equal(t, entity.TaskStatusError, task.Status)
	require.True(t, task.Result.IsError())
	assert.Equal(t, "security_target.url is required", task.Result.Err)

	assert.Equal(t, []string{"crew:error"}, f.notifier.names())
	last := f.notifier.last()
	assert.Equal(t, clients.LevelError, last.n.Level)
	assert.Equal(t, "Crew error: security_target.url is required", last.n.Message)
}

func TestExecutorAutomationBatch(t *testing.T) {
	client := newMockLLM()
	client.On("Complete", mock.Anything, mock.Anything).Return(completion(playwrightCode, 100, 100), nil)
	f := newExecutorFixture(t, client)

	task := f.submitAndRun(t, entity.TaskKindAutomationBulk, "", AutomationBatchRequest{
		Scenarios: []entity.Scenario{{ID: "1", Title: "a"}, {ID: "2", Title: "b"}},
	})

	assert.Equal(t, entity.TaskStatusCompleted, task.Status)
	var res entity.AutomationBatchResult
	require.NoError(t, json.Unmarshal(task.Result.Payload, &res))
	assert.Equal(t, 2, res.Successful)

	last := f.notifier.last()
	assert.Equal(t, "automation:generated", last.event)
	assert.Equal(t, "Automation code generated for 2/2 scenario(s)", last.n.Message)
	assert.Equal(t, "DEVELOPER", last.n.AgentType)
}

func TestExecutorSkipsCancelledTask(t *testing.T) {
	f := newExecutorFixture(t, newMockLLM())
	ctx := context.Background()

	task, err := f.tasks.Submit(ctx, entity.TaskKindAgent, entity.AgentDeveloper, RunAgentRequest{AgentType: entity.AgentDeveloper})
	require.NoError(t, err)
	_, err = f.tasks.Cancel(ctx, task.ID)
	require.NoError(t, err)

	f.exec.Run(ctx, f.dispatch.jobs[0])

	got, err := f.tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusCancelled, got.Status)
	assert.Nil(t, got.Result)
	assert.Empty(t, f.notifier.names())
}

func TestExecutorCancelledWhileRunningSendsNoError(t *testing.T) {
	ctx := context.Background()
	client := newMockLLM()
	f := newExecutorFixture(t, client)

	task, err := f.tasks.Submit(ctx, entity.TaskKindText, "", TextAnalysisRequest{RequirementText: "kullanıcı giriş yapar"})
	require.NoError(t, err)
	client.On("Complete", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			_, cerr := f.tasks.Cancel(ctx, task.ID)
			require.NoError(t, cerr)
		}).
		Return(nil, context.Canceled)

	f.exec.Run(ctx, f.dispatch.jobs[0])

	got, err := f.tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusCancelled, got.Status)
	assert.Nil(t, got.Result)
	assert.Empty(t, f.notifier.names())
}

func TestExecutorUnknownKind(t *testing.T) {
	f := newExecutorFixture(t, newMockLLM())
	ctx := context.Background()

	task, err := f.tasks.Submit(ctx, entity.TaskKind("mystery"), "", struct{}{})
	require.NoError(t, err)
	f.exec.Run(ctx, f.dispatch.jobs[0])

	got, err := f.tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusError, got.Status)
	assert.Equal(t, "Unknown task kind: mystery", got.Result.Err)
}
