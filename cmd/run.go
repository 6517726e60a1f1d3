package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AllenNeuralDynamics/wandb-result-access/internal/config"
	"github.com/AllenNeuralDynamics/wandb-result-access/internal/models"
	"github.com/AllenNeuralDynamics/wandb-result-access/internal/render"
	"github.com/AllenNeuralDynamics/wandb-result-access/internal/table"
	"github.com/AllenNeuralDynamics/wandb-result-access/internal/wandb"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Inspect W&B runs",
	Long:  "List runs, fetch run metadata and history, and export run tables",
}

var runListCmd = &cobra.Command{
	Use:   "list",
	Short: "List runs in a project",
	Long:  "List runs in a project with optional filters",
	Example: `  # List runs in the default project, most recent first
  wandb-results run list

  # List finished runs tagged 'mouse' in a specific project
  wandb-results run list --project han_mice_disrnn --filter state=finished --filter tags=mouse`,
	RunE: runList,
}

var runGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Get metadata for a single run",
	Long:  "Get detailed metadata for a single run",
	RunE:  runGet,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.AddCommand(runListCmd)
	runCmd.AddCommand(runGetCmd)

	// List command flags
	runListCmd.Flags().StringArray("filter", []string{}, "Run filters in key=value format")
	runListCmd.Flags().String("order", wandb.DefaultOrder, "Sort order")
	runListCmd.Flags().Int("per-page", 0, "Runs per page")
	runListCmd.Flags().String("output", "table", "Output format (table/json/yaml)")

	// Get command flags
	runGetCmd.Flags().String("run-id", "", "Run ID to fetch (required)")
	runGetCmd.Flags().String("output", "json", "Output format (json/yaml)")
	runGetCmd.MarkFlagRequired("run-id")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	client, err := wandb.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create W&B client: %w", err)
	}

	// Parse flags
	filters, _ := cmd.Flags().GetStringArray("filter")
	order, _ := cmd.Flags().GetString("order")
	perPage, _ := cmd.Flags().GetInt("per-page")
	output, _ := cmd.Flags().GetString("output")

	filterMap, err := parseFilters(filters)
	if err != nil {
		return err
	}

	ctx := context.Background()
	runs, err := client.GetRuns(ctx, wandb.ListRunsOptions{
		Filters: filterMap,
		Order:   order,
		PerPage: perPage,
	})
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	switch output {
	case "json":
		return render.WriteJSON(os.Stdout, runs)
	case "yaml":
		return render.WriteYAML(os.Stdout, runs)
	case "table":
		printRunTable(runs)
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (valid: table, json, yaml)", output)
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	client, err := wandb.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create W&B client: %w", err)
	}

	// Parse flags
	runID, _ := cmd.Flags().GetString("run-id")
	output, _ := cmd.Flags().GetString("output")

	ctx := context.Background()
	run, err := client.GetRun(ctx, runID, "")
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	switch output {
	case "json":
		return render.WriteJSON(os.Stdout, run)
	case "yaml":
		return render.WriteYAML(os.Stdout, run)
	default:
		return fmt.Errorf("unsupported output format: %s (valid: json, yaml)", output)
	}
}

// parseFilters parses filter strings in key=value format
func parseFilters(filters []string) (map[string]any, error) {
	filterMap := make(map[string]any)
	for _, filter := range filters {
		parts := strings.SplitN(filter, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid filter format: %s (expected key=value)", filter)
		}
		filterMap[parts[0]] = parts[1]
	}
	return filterMap, nil
}

func printRunTable(runs []models.RunInfo) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATE\tCREATED\tTAGS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			run.ID, run.Name, run.State,
			table.NormalizeTimestamp(run.CreatedAt),
			strings.Join(run.Tags, ","))
	}
	w.Flush()
}
