package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/AllenNeuralDynamics/wandb-result-access/internal/config"
	"github.com/AllenNeuralDynamics/wandb-result-access/internal/render"
	"github.com/AllenNeuralDynamics/wandb-result-access/internal/table"
	"github.com/AllenNeuralDynamics/wandb-result-access/internal/wandb"
)

var runExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export runs as a flattened table",
	Long: `Export a run collection as a flattened table.
Nested config and summary values become dot-separated columns
(e.g. config.model.type), timestamps are normalized to RFC3339.`,
	Example: `  # Export finished runs to CSV
  wandb-results run export --filter state=finished --to runs.csv

  # Print the table as JSON
  wandb-results run export --format json`,
	RunE: runExport,
}

func init() {
	runCmd.AddCommand(runExportCmd)

	runExportCmd.Flags().StringArray("filter", []string{}, "Run filters in key=value format")
	runExportCmd.Flags().String("order", wandb.DefaultOrder, "Sort order")
	runExportCmd.Flags().String("format", "csv", "Export format (csv/json/yaml)")
	runExportCmd.Flags().String("to", "", "Output file (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	client, err := wandb.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create W&B client: %w", err)
	}

	// Parse flags
	filters, _ := cmd.Flags().GetStringArray("filter")
	order, _ := cmd.Flags().GetString("order")
	format, _ := cmd.Flags().GetString("format")
	outFile, _ := cmd.Flags().GetString("to")

	filterMap, err := parseFilters(filters)
	if err != nil {
		return err
	}

	ctx := context.Background()
	runs, err := client.GetRuns(ctx, wandb.ListRunsOptions{
		Filters: filterMap,
		Order:   order,
	})
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	var writer io.Writer = os.Stdout
	if outFile != "" {
		file, err := os.Create(outFile)
		if err != nil {
			return fmt.Errorf("failed to create file %s: %w", outFile, err)
		}
		defer file.Close()
		writer = file
	}

	t := table.RunsToTable(runs)
	switch format {
	case "csv":
		err = render.WriteCSV(writer, t)
	case "json":
		err = render.WriteJSON(writer, tableToMaps(t))
	case "yaml":
		err = render.WriteYAML(writer, tableToMaps(t))
	default:
		return fmt.Errorf("unsupported export format: %s (valid: csv, json, yaml)", format)
	}
	if err != nil {
		return fmt.Errorf("failed to export runs: %w", err)
	}

	if outFile != "" {
		fmt.Printf("Exported %d runs to %s\n", len(runs), outFile)
	}

	return nil
}

// tableToMaps converts a table to one ordered map per row for JSON/YAML
// export.
func tableToMaps(t *table.Table) []map[string]string {
	rows := make([]map[string]string, 0, len(t.Rows))
	for _, cells := range t.Rows {
		row := make(map[string]string, len(t.Columns))
		for i, col := range t.Columns {
			row[col] = cells[i]
		}
		rows = append(rows, row)
	}
	return rows
}
