// Package app wires together the components shared by every CLI command:
// configuration, logging, the DeepSeek client, and the prompt and parsing
// layers. Commands build their own review service on top with the options
// they collected from flags.
package app

import (
	"fmt"
	"log/slog"

	"github.com/deepreview/deepreview/internal/config"
	"github.com/deepreview/deepreview/internal/llm"
	"github.com/deepreview/deepreview/internal/logger"
	"github.com/deepreview/deepreview/internal/review"
)

// App holds the shared application components.
type App struct {
	Cfg     *config.Config
	Logger  *slog.Logger
	Client  *llm.Client
	Prompts *llm.PromptManager
	Parser  llm.ReviewParser
}

// New loads the configuration and builds the shared components. The logger
// is installed as the slog default so library code logs through it too.
// verbose forces debug-level logging regardless of LOG_LEVEL.
func New(verbose bool) (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if verbose {
		level = slog.LevelDebug
	}
	log := logger.NewLogger(logger.Config{Level: level}, nil)
	slog.SetDefault(log)

	prompts, err := llm.NewPromptManager()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prompt manager: %w", err)
	}

	return &App{
		Cfg:     cfg,
		Logger:  log,
		Client:  llm.NewClient(cfg.BaseURL, cfg.APIKey, cfg.Model, log),
		Prompts: prompts,
		Parser:  llm.NewSectionParser(),
	}, nil
}

// ReviewService builds a review service from the shared components and the
// per-run options a command collected.
func (a *App) ReviewService(opts review.Options) *review.Service {
	return review.NewService(a.Client, a.Parser, a.Prompts, opts, a.Logger)
}
