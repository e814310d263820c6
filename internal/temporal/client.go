// Package temporal connects the agent task queue to a Temporal cluster.
package temporal

import (
	"crypto/tls"

	"go.temporal.io/sdk/client"

	"github.com/nexusqa/agents/pkg/config"
	"github.com/nexusqa/agents/pkg/errors"
	"github.com/nexusqa/agents/pkg/logger"
)

// NewClient opens the connection that both the API server and the agent
// worker use to start, cancel and poll agent task workflows.
func NewClient(cfg config.TemporalConfig, log logger.Logger) (client.Client, error) {
	fields := []logger.Field{
		logger.String("address", cfg.Address),
		logger.String("namespace", cfg.Namespace),
		logger.String("task_queue", cfg.TaskQueue),
	}

	c, err := client.Dial(dialOptions(cfg))
	if err != nil {
		log.Error("agent task queue unreachable", append(fields, logger.Error(err))...)
		return nil, errors.NewExternalService("temporal", "Agent task queue unreachable").WithError(err)
	}

	log.Info("agent task queue ready", append(fields, logger.Bool("tls", cfg.TLSEnabled))...)
	return c, nil
}

func dialOptions(cfg config.TemporalConfig) client.Options {
	opts := client.Options{
		HostPort:  cfg.Address,
		Namespace: cfg.Namespace,
		Identity:  cfg.WorkerIdentity,
	}
	if cfg.TLSEnabled {
		opts.ConnectionOptions.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}
