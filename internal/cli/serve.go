package cli

import (
	"github.com/spf13/cobra"

	"github.com/nexusqa/agents/internal/app"
)

type serveOptions struct {
	host string
	port int
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Starts the REST API. Background tasks run in this process unless
TEMPORAL_ENABLED is set, in which case they are started as workflows on
TEMPORAL_TASK_QUEUE and executed by 'nexus-agents worker'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.host, "host", "", "Listen host (overrides API_HOST)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "Listen port (overrides API_PORT)")
	return cmd
}

func runServe(cmd *cobra.Command, root *rootOptions, opts *serveOptions) error {
	cfg, log, err := root.load()
	if err != nil {
		return err
	}
	if opts.host != "" {
		cfg.Server.Host = opts.host
	}
	if opts.port != 0 {
		cfg.Server.Port = opts.port
	}
	return app.RunServer(commandContext(cmd), cfg, log)
}
