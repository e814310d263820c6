package cli

import (
	"github.com/spf13/cobra"

	"github.com/nexusqa/agents/internal/app"
)

func newWorkerCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run a Temporal worker for background tasks",
		Long: `Polls TEMPORAL_TASK_QUEUE and executes agent task workflows. The worker
must share the API server's TASK_STORE so results are visible to clients.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.load()
			if err != nil {
				return err
			}
			return app.RunWorker(commandContext(cmd), cfg, log)
		},
	}
}
