package agenttask

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	"github.com/nexusqa/agents/internal/domain/entity"
	apperrors "github.com/nexusqa/agents/pkg/errors"
	"github.com/nexusqa/agents/pkg/logger"
)

type fakeRunner struct {
	mu    sync.Mutex
	jobs  []entity.Job
	panic bool
}

func (r *fakeRunner) Run(_ context.Context, job *entity.Job) {
	if r.panic {
		panic("executor exploded")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, *job)
}

type fakeFailer struct {
	mu       sync.Mutex
	messages map[string]string
}

func (f *fakeFailer) Fail(_ context.Context, taskID, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.messages == nil {
		f.messages = map[string]string{}
	}
	f.messages[taskID] = message
	return nil
}

func newEnv(t *testing.T, runner *fakeRunner, failer *fakeFailer) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	acts := NewActivities(runner, failer, logger.NewNop())
	env.RegisterWorkflowWithOptions(AgentTaskWorkflow, workflow.RegisterOptions{Name: WorkflowName})
	env.RegisterActivityWithOptions(acts.RunJob, activity.RegisterOptions{Name: "RunJob"})
	return env
}

func TestAgentTaskWorkflowRunsJob(t *testing.T) {
	runner := &fakeRunner{}
	env := newEnv(t, runner, &fakeFailer{})

	job := entity.Job{
		TaskID:  "ab12cd34",
		Kind:    entity.TaskKindText,
		Payload: json.RawMessage(`{"requirement_text":"login"}`),
	}
	env.ExecuteWorkflow(AgentTaskWorkflow, Params{Job: job, RunTimeout: time.Minute})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var res Result
	require.NoError(t, env.GetWorkflowResult(&res))
	assert.Equal(t, Result{TaskID: "ab12cd34", Kind: entity.TaskKindText}, res)

	require.Len(t, runner.jobs, 1)
	assert.Equal(t, job.TaskID, runner.jobs[0].TaskID)
	assert.JSONEq(t, `{"requirement_text":"login"}`, string(runner.jobs[0].Payload))
}

func TestAgentTaskWorkflowPanicFailsTask(t *testing.T) {
	failer := &fakeFailer{}
	env := newEnv(t, &fakeRunner{panic: true}, failer)

	env.ExecuteWorkflow(AgentTaskWorkflow, Params{Job: entity.Job{TaskID: "deadbeef", Kind: entity.TaskKindAgent}})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	assert.Equal(t, "internal error: executor exploded", failer.messages["deadbeef"])
}

func TestDispatcherStartsWorkflow(t *testing.T) {
	c := &mocks.Client{}
	run := &mocks.WorkflowRun{}
	run.On("GetID").Return(WorkflowID("t1"))
	run.On("GetRunID").Return("run-1")

	c.On("ExecuteWorkflow", mock.Anything,
		mock.MatchedBy(func(o client.StartWorkflowOptions) bool {
			return o.ID == "agent-task-t1" && o.TaskQueue == "agents.tasks.v1"
		}),
		WorkflowName,
		mock.MatchedBy(func(p Params) bool {
			return p.Job.TaskID == "t1" && p.RunTimeout == 2*time.Minute
		}),
	).Return(run, nil)

	d := NewDispatcher(c, "agents.tasks.v1", 2*time.Minute, logger.NewNop())
	require.NoError(t, d.Dispatch(context.Background(), &entity.Job{TaskID: "t1", Kind: entity.TaskKindAgent}))
	c.AssertExpectations(t)
}

func TestDispatcherStartFailure(t *testing.T) {
	c := &mocks.Client{}
	c.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("frontend unavailable"))

	err := NewDispatcher(c, "q", time.Minute, logger.NewNop()).Dispatch(context.Background(), &entity.Job{TaskID: "t2"})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrServiceUnavailable, appErr.Code)
}

func TestDispatcherCancel(t *testing.T) {
	c := &mocks.Client{}
	c.On("CancelWorkflow", mock.Anything, "agent-task-t3", "").Return(nil)
	c.On("CancelWorkflow", mock.Anything, "agent-task-t4", "").Return(errors.New("already completed"))

	d := NewDispatcher(c, "q", time.Minute, logger.NewNop())
	assert.NoError(t, d.Cancel(context.Background(), "t3"))
	assert.Error(t, d.Cancel(context.Background(), "t4"))
}
