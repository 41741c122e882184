package main

import (
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "deepreview",
	Short: "deepreview sends source code to DeepSeek for an automated review.",
	Long: `deepreview splits a source file into chunks, reviews each chunk through
the DeepSeek chat API, and merges the results into a single report with
issues grouped by severity.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
