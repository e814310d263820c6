package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nexusqa/agents/internal/infrastructure/llm"
)

func newCostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cost <model> <input-tokens> <output-tokens>",
		Short: "Print the USD cost of a completion",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := strconv.Atoi(args[1])
			if err != nil || in < 0 {
				return fmt.Errorf("invalid input token count %q", args[1])
			}
			out, err := strconv.Atoi(args[2])
			if err != nil || out < 0 {
				return fmt.Errorf("invalid output token count %q", args[2])
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%.6f\n", llm.CalculateCost(args[0], in, out))
			return err
		},
	}
}
