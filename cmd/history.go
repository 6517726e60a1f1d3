package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AllenNeuralDynamics/wandb-result-access/internal/config"
	"github.com/AllenNeuralDynamics/wandb-result-access/internal/render"
	"github.com/AllenNeuralDynamics/wandb-result-access/internal/table"
	"github.com/AllenNeuralDynamics/wandb-result-access/internal/wandb"
)

var runHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Fetch run time-series history",
	Long:  "Fetch the sampled time-series history of a run",
	RunE:  runHistory,
}

func init() {
	runCmd.AddCommand(runHistoryCmd)

	runHistoryCmd.Flags().String("run-id", "", "Run ID to fetch history for (required)")
	runHistoryCmd.Flags().Int("samples", 0, "Number of history samples")
	runHistoryCmd.Flags().String("output", "json", "Output format (json/csv)")
	runHistoryCmd.MarkFlagRequired("run-id")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	client, err := wandb.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create W&B client: %w", err)
	}

	// Parse flags
	runID, _ := cmd.Flags().GetString("run-id")
	samples, _ := cmd.Flags().GetInt("samples")
	output, _ := cmd.Flags().GetString("output")

	ctx := context.Background()
	rows, err := client.GetRunHistory(ctx, runID, "", samples)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}

	switch output {
	case "json":
		return render.WriteJSON(os.Stdout, rows)
	case "csv":
		return render.WriteCSV(os.Stdout, table.HistoryToTable(rows))
	default:
		return fmt.Errorf("unsupported output format: %s (valid: json, csv)", output)
	}
}
