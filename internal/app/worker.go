package app

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/worker"

	"github.com/nexusqa/agents/internal/temporal"
	"github.com/nexusqa/agents/internal/temporal/registry"
	"github.com/nexusqa/agents/internal/workflows/agenttask"
	"github.com/nexusqa/agents/pkg/config"
	"github.com/nexusqa/agents/pkg/logger"
)

// RunWorker executes agent task workflows from the Temporal task queue until
// ctx is cancelled
func RunWorker(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	if cfg.Store.Driver == config.StoreMemory {
		return fmt.Errorf("worker requires a shared TASK_STORE (postgres or sqlite)")
	}
	queue := cfg.Temporal.TaskQueue

	log.Info("Starting Temporal worker",
		logger.String("task_queue", queue),
		logger.String("namespace", cfg.Temporal.Namespace))

	store, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open task store: %w", err)
	}
	defer store.Close()

	svc, err := NewServices(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	lifecycle, executor := svc.Executor(store.Repo, log)

	temporalClient, err := temporal.NewClient(cfg.Temporal, log)
	if err != nil {
		return err
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, queue, worker.Options{
		Identity: cfg.Temporal.WorkerIdentity,
	})

	registrars := []registry.Registrar{
		agenttask.NewRegistrar(executor, lifecycle, log, queue),
	}
	if n := registry.RegisterAll(w, registrars, queue); n == 0 {
		return fmt.Errorf("no workflows registered for task queue %s", queue)
	}
	log.Info("Workflows and activities registered", logger.String("task_queue", queue))

	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start worker: %w", err)
	}
	log.Info("Worker started", logger.String("task_queue", queue))

	<-ctx.Done()

	log.Info("Shutting down worker...")
	w.Stop()
	log.Info("Worker shutdown complete")
	return nil
}
