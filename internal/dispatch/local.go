package dispatch

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/pkg/errors"
	"github.com/nexusqa/agents/pkg/logger"
)

// LocalDispatcher runs each job on its own goroutine
type LocalDispatcher struct {
	runner Runner
	failer Failer
	log    logger.Logger

	// base is cancelled by Shutdown so in-flight jobs see ctx.Done
	base     context.Context
	stop     context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  map[string]context.CancelFunc
	shutdown bool
}

// NewLocalDispatcher creates an in-process dispatcher
func NewLocalDispatcher(runner Runner, failer Failer, log logger.Logger) *LocalDispatcher {
	base, stop := context.WithCancel(context.Background())
	return &LocalDispatcher{
		runner:  runner,
		failer:  failer,
		log:     log,
		base:    base,
		stop:    stop,
		running: make(map[string]context.CancelFunc),
	}
}

// Dispatch implements Dispatcher. The job runs detached from ctx, which
// usually belongs to the HTTP request that submitted it.
func (d *LocalDispatcher) Dispatch(_ context.Context, job *entity.Job) error {
	d.mu.Lock()
	if d.shutdown {
		d.mu.Unlock()
		return errors.NewServiceUnavailable("Dispatcher is shutting down")
	}
	ctx, cancel := context.WithCancel(d.base)
	ctx = logger.ContextWithFields(ctx,
		logger.String("task_id", job.TaskID),
		logger.String("kind", job.Kind.String()))
	d.running[job.TaskID] = cancel
	d.wg.Add(1)
	d.mu.Unlock()

	go d.run(ctx, cancel, job)
	return nil
}

func (d *LocalDispatcher) run(ctx context.Context, cancel context.CancelFunc, job *entity.Job) {
	defer d.wg.Done()
	defer func() {
		d.mu.Lock()
		delete(d.running, job.TaskID)
		d.mu.Unlock()
		cancel()
	}()
	defer func() {
		if r := recover(); r != nil {
			d.log.WithContext(ctx).Error("background job panicked",
				logger.Any("panic", r),
				logger.String("stack", string(debug.Stack())))
			// ctx may already be cancelled; the failure must still be recorded
			if err := d.failer.Fail(context.Background(), job.TaskID, fmt.Sprintf("internal error: %v", r)); err != nil {
				d.log.WithContext(ctx).Error("failed to record panic result", logger.Error(err))
			}
		}
	}()

	d.runner.Run(ctx, job)
}

// Cancel implements Dispatcher
func (d *LocalDispatcher) Cancel(_ context.Context, taskID string) error {
	d.mu.Lock()
	cancel, ok := d.running[taskID]
	d.mu.Unlock()
	if ok {
		cancel()
	}
	return nil
}

// InFlight returns the number of jobs that have not finished
func (d *LocalDispatcher) InFlight() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.running)
}

// Wait blocks until every dispatched job has returned or ctx is done
func (d *LocalDispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown rejects new jobs and waits for in-flight ones. When ctx expires
// first, the remaining jobs are cancelled and Shutdown waits for them to return.
func (d *LocalDispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.shutdown = true
	inFlight := len(d.running)
	d.mu.Unlock()

	d.log.Info("waiting for background jobs", logger.Int("in_flight", inFlight))
	err := d.Wait(ctx)
	if err != nil {
		d.log.Warn("shutdown timeout reached, cancelling background jobs", logger.Int("in_flight", d.InFlight()))
		d.stop()
		d.wg.Wait()
		return err
	}
	d.stop()
	return nil
}
