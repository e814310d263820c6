// Package cli defines the nexus-agents command tree
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nexusqa/agents/internal/app"
	"github.com/nexusqa/agents/pkg/config"
	"github.com/nexusqa/agents/pkg/logger"
)

// Version is stamped at build time with -ldflags
var Version = "1.0.0"

type rootOptions struct {
	envFile string
	debug   bool
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "nexus-agents",
		Short: "AI test automation agents for Nexus QA",
		Long: `nexus-agents runs the Nexus QA agent service: a REST API that turns
requirement documents into test scenarios, generates Playwright automation
and runs test and security crews in the background.

Without a subcommand it starts the API server.`,
		Version: Version,
		// Errors are reported by Execute, usage is noise for runtime failures
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, &serveOptions{})
		},
	}
	root.SetVersionTemplate(`{{printf "nexus-agents version %s\n" .Version}}`)

	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Env file to load (default .env.local at the repository root)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newWorkerCmd(opts))
	root.AddCommand(newDemoCmd(opts))
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newCostCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the root command and exits non-zero on error
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

// load reads configuration and builds the logger
func (o *rootOptions) load() (*config.Config, logger.Logger, error) {
	cfg, err := app.LoadConfig(o.envFile)
	if err != nil {
		return nil, nil, err
	}
	if o.debug {
		cfg.App.Debug = true
	}

	if cfg.App.Debug {
		return cfg, logger.NewDevelopment("debug"), nil
	}
	return cfg, logger.New(cfg.App.LogLevel), nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
