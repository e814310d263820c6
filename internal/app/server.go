package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.temporal.io/sdk/client"

	"github.com/nexusqa/agents/internal/dispatch"
	"github.com/nexusqa/agents/internal/infrastructure/auth"
	"github.com/nexusqa/agents/internal/router"
	"github.com/nexusqa/agents/internal/temporal"
	"github.com/nexusqa/agents/internal/usecase"
	"github.com/nexusqa/agents/internal/workflows/agenttask"
	"github.com/nexusqa/agents/pkg/config"
	"github.com/nexusqa/agents/pkg/logger"
)

// httpShutdownTimeout bounds draining open HTTP connections
const httpShutdownTimeout = 5 * time.Second

// RunServer serves the REST API until ctx is cancelled, then drains
// background jobs for up to cfg.Server.ShutdownTimeout.
func RunServer(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	log.Info("Starting server",
		logger.String("environment", cfg.App.Environment),
		logger.String("task_store", cfg.Store.Driver))

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

	// Pick the dispatcher: Temporal workers when enabled, goroutines otherwise
	var (
		dispatcher dispatch.Dispatcher
		local      *dispatch.LocalDispatcher
	)
	if cfg.Temporal.Enabled {
		var temporalClient client.Client
		temporalClient, err = temporal.NewClient(cfg.Temporal, log)
		if err != nil {
			return err
		}
		defer temporalClient.Close()
		dispatcher = agenttask.NewDispatcher(temporalClient, cfg.Temporal.TaskQueue, 0, log)
	} else {
		log.Info("Temporal integration disabled, running tasks in process")
		local = dispatch.NewLocalDispatcher(executor, lifecycle, log)
		dispatcher = local
	}

	deps := &router.Dependencies{
		Agents:   svc.Agents,
		Tasks:    usecase.NewTaskUseCase(store.Repo, dispatcher, log),
		Analysis: svc.Analysis,
		Store:    store.Health,
		Logger:   log,
		Config:   cfg,
	}
	if cfg.Auth.JWTSecret != "" {
		deps.Auth, err = auth.NewServiceAuth(cfg.Auth.JWTSecret, log, router.PublicPaths...)
		if err != nil {
			return err
		}
		log.Info("Service token authentication enabled")
	}
	r := SetupRouter(cfg, deps)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server started", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	httpCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(httpCtx); err != nil {
		log.Error("Server forced to shutdown", logger.Error(err))
	}

	if local != nil {
		drainCtx, cancelDrain := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancelDrain()
		if err := local.Shutdown(drainCtx); err != nil {
			log.Warn("Background jobs cancelled at shutdown", logger.Error(err))
		}
	}

	log.Info("Server shutdown complete")
	return nil
}
