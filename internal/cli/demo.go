package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nexusqa/agents/internal/app"
	"github.com/nexusqa/agents/internal/infrastructure/llm"
	"github.com/nexusqa/agents/internal/usecase"
)

const demoURL = "https://demo.playwright.dev/todomvc"

func newDemoCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a crew once against the TodoMVC demo and print the result",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "test",
		Short: "Run the test crew",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.load()
			if err != nil {
				return err
			}
			svc, err := app.NewServices(cfg, log)
			if err != nil {
				return err
			}
			res, err := svc.Crews.RunTestCrew(commandContext(cmd), &usecase.CrewRequest{
				CrewType: "test",
				Project: llm.ProjectInfo{
					Name:        "E-Ticaret Demo Projesi",
					BaseURL:     demoURL,
					Description: "TodoMVC uygulaması test projesi",
				},
				TestSuite: &usecase.TestSuiteInfo{
					Name:        "Temel Fonksiyon Testleri",
					Type:        "UI",
					Description: "TodoMVC temel CRUD işlemleri",
				},
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "security",
		Short: "Run the security crew",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.load()
			if err != nil {
				return err
			}
			svc, err := app.NewServices(cfg, log)
			if err != nil {
				return err
			}
			res, err := svc.Crews.RunSecurityCrew(commandContext(cmd), &usecase.SecurityTarget{
				URL:       demoURL,
				Endpoints: []string{"/api/todos", "/api/users"},
				Forms:     []string{"todo_form"},
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	})
	return cmd
}

func printJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
