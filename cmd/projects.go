package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AllenNeuralDynamics/wandb-result-access/internal/config"
	"github.com/AllenNeuralDynamics/wandb-result-access/internal/render"
	"github.com/AllenNeuralDynamics/wandb-result-access/internal/wandb"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List W&B projects",
	Long:  "List all project names under the configured entity",
	RunE:  listProjects,
}

func init() {
	rootCmd.AddCommand(projectsCmd)

	projectsCmd.Flags().String("output", "plain", "Output format (plain/json/yaml)")
}

func listProjects(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	client, err := wandb.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create W&B client: %w", err)
	}

	output, _ := cmd.Flags().GetString("output")

	ctx := context.Background()
	projects, err := client.GetProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	switch output {
	case "json":
		return render.WriteJSON(os.Stdout, projects)
	case "yaml":
		return render.WriteYAML(os.Stdout, projects)
	case "plain":
		for _, name := range projects {
			fmt.Println(name)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (valid: plain, json, yaml)", output)
	}
}
