package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "edulens",
	Short: "edulens - LMS activity feature pipeline",
	Long: `edulens CLI

Turns a raw LMS activity log into a per-student numeric feature matrix
ready for grade-prediction models: per-student aggregation, label join,
reproducible train/test split, and fitted post-processing.

Usage:
  go run ./cmd/edulens [command]

Examples:
  go run ./cmd/edulens features
  go run ./cmd/edulens prepare
  go run ./cmd/edulens run --persist
  go run ./cmd/edulens api
  go run ./cmd/edulens scheduler start`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
