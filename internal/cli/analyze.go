package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nexusqa/agents/internal/infrastructure/services"
	"github.com/nexusqa/agents/internal/usecase"
	"github.com/nexusqa/agents/pkg/logger"
)

func newAnalyzeCmd() *cobra.Command {
	var template string
	cmd := &cobra.Command{
		Use:   "analyze <text|->",
		Short: "Extract test scenarios from requirement text without an LLM",
		Long: `Runs the rule-based requirement analyzer and scenario synthesizer over
the given text and prints the analysis and scenarios as JSON. Pass "-" to
read the text from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := args[0]
			if text == "-" {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				text = string(raw)
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("requirement text is empty")
			}

			analysis := services.NewRequirementAnalyzer(nil, logger.NewNop()).Analyze(text)
			return printJSON(cmd.OutOrStdout(), &usecase.RequirementsResult{
				Success:   true,
				Analysis:  analysis,
				Scenarios: services.NewScenarioSynthesizer().Synthesize(analysis, template),
			})
		},
	}
	cmd.Flags().StringVar(&template, "template", "", `Scenario template ("bdd" adds Gherkin)`)
	return cmd
}
