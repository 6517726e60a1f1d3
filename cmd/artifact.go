package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AllenNeuralDynamics/wandb-result-access/internal/config"
	"github.com/AllenNeuralDynamics/wandb-result-access/internal/wandb"
)

var artifactCmd = &cobra.Command{
	Use:   "artifact",
	Short: "Manage run artifacts",
	Long:  "Download output artifacts of W&B runs",
}

var artifactDownloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download run artifacts",
	Long: `Download the logged output artifacts of one or more runs.
Each artifact is written under <output-dir>/<run-id>/<artifact-name>/.`,
	Example: `  # Download training output for a run
  wandb-results artifact download --run-id abc123

  # Download only specific files for several runs
  wandb-results artifact download --run-id r1 --run-id r2 --file params.json --file output_summary.csv

  # Download a different artifact type to a custom directory
  wandb-results artifact download --run-id abc123 --type dataset --output-dir /tmp/results`,
	RunE: artifactDownload,
}

func init() {
	rootCmd.AddCommand(artifactCmd)
	artifactCmd.AddCommand(artifactDownloadCmd)

	// Download command flags
	artifactDownloadCmd.Flags().StringSlice("run-id", []string{}, "Run ID to download artifacts for (can be specified multiple times)")
	artifactDownloadCmd.Flags().String("type", wandb.DefaultArtifactType, "Artifact type filter")
	artifactDownloadCmd.Flags().String("output-dir", wandb.DefaultOutputDir, "Base directory for downloads")
	artifactDownloadCmd.Flags().StringSlice("file", []string{}, "Download only the named files (can be specified multiple times)")
	artifactDownloadCmd.MarkFlagRequired("run-id")
}

func artifactDownload(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	client, err := wandb.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create W&B client: %w", err)
	}

	// Parse flags
	runIDs, _ := cmd.Flags().GetStringSlice("run-id")
	artifactType, _ := cmd.Flags().GetString("type")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	files, _ := cmd.Flags().GetStringSlice("file")

	if len(runIDs) == 0 {
		return fmt.Errorf("at least one run ID must be specified")
	}

	opts := wandb.DownloadOptions{
		OutputDir:    outputDir,
		ArtifactType: artifactType,
		Files:        files,
	}

	ctx := context.Background()
	results, err := client.DownloadArtifacts(ctx, runIDs, opts)
	if err != nil {
		return fmt.Errorf("failed to download artifacts: %w", err)
	}

	total := 0
	for _, runID := range runIDs {
		artifacts := results[runID]
		total += len(artifacts)
		if len(artifacts) == 0 {
			fmt.Printf("%s: no %s artifacts\n", runID, artifactType)
			continue
		}
		for _, artifact := range artifacts {
			fmt.Printf("%s: %s %s -> %s\n", runID, artifact.Name, artifact.Version, artifact.DownloadPath)
			if len(artifact.Files) > 0 {
				fmt.Printf("  files: %s\n", strings.Join(artifact.Files, ", "))
			}
		}
	}
	fmt.Printf("Downloaded %d artifacts for %d runs\n", total, len(runIDs))

	return nil
}
