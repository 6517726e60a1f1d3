package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AllenNeuralDynamics/wandb-result-access/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "wandb-results",
	Short: "W&B run result access tool",
	Long: `A command line tool for reading W&B tracking data.
Supports listing projects and runs, fetching run metadata and history,
downloading run artifacts, and exporting run collections as tables.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("entity", "", "W&B entity (overrides WANDB_ENTITY)")
	rootCmd.PersistentFlags().String("project", "", "Default W&B project (overrides WANDB_PROJECT)")
	rootCmd.PersistentFlags().String("base-url", "", "W&B API base URL (overrides WANDB_BASE_URL)")
	viper.BindPFlag("entity", rootCmd.PersistentFlags().Lookup("entity"))
	viper.BindPFlag("project", rootCmd.PersistentFlags().Lookup("project"))
	viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
}

func initConfig() {
	// Environment variables
	viper.SetEnvPrefix("WANDB")
	viper.AutomaticEnv()
	viper.BindEnv("api_key", "WANDB_API_KEY")

	// Set defaults
	viper.SetDefault("base_url", config.DefaultBaseURL)
	viper.SetDefault("entity", "AIND-disRNN")
	viper.SetDefault("timeout", "30s")
}
