package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deepreview/deepreview/internal/app"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models available to your DeepSeek API key",
	RunE: func(_ *cobra.Command, _ []string) error {
		a, err := app.New(verbose)
		if err != nil {
			return err
		}

		models, err := a.Client.ListModels(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}

		fmt.Println("Available models:")
		for _, m := range models {
			if m == a.Cfg.Model {
				fmt.Printf("- %s (default)\n", m)
			} else {
				fmt.Printf("- %s\n", m)
			}
		}
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	rootCmd.AddCommand(modelsCmd)
}
