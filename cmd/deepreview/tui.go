package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/deepreview/deepreview/internal/app"
	"github.com/deepreview/deepreview/internal/core"
	"github.com/deepreview/deepreview/internal/lang"
	"github.com/deepreview/deepreview/internal/output"
	"github.com/deepreview/deepreview/internal/review"
)

var (
	tuiFocusFlags  []string
	themeFlag      string
	listThemesFlag bool
)

var tuiCmd = &cobra.Command{
	Use:     "tui [file]",
	Aliases: []string{"interactive"},
	Short:   "Review a file in an interactive terminal UI",
	Long: `Review a file in an interactive terminal UI.

Chunk progress is shown live while the review runs, then the merged
report opens in a scrollable view styled for your terminal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	tuiCmd.Flags().StringSliceVarP(&tuiFocusFlags, "focus", "f", nil, "Focus areas: security, performance, readability, maintainability, general")
	tuiCmd.Flags().StringVar(&themeFlag, "theme", "", "UI theme (cyan, matrix, amber, dracula)")
	tuiCmd.Flags().BoolVar(&listThemesFlag, "list-themes", false, "List all available themes")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, args []string) error {
	if listThemesFlag {
		fmt.Println("Available themes:")
		for _, theme := range ListThemes() {
			fmt.Printf("  - %s\n", theme)
		}
		return nil
	}
	if len(args) != 1 {
		return errors.New("requires a file to review")
	}
	target := args[0]
	if target == "-" {
		return errors.New("tui mode cannot read code from stdin, pass a file path")
	}

	selected := themeFlag
	if selected == "" {
		selected = os.Getenv("DEEPREVIEW_THEME")
	}
	if selected == "" {
		selected = string(ThemeCyan)
	}
	theme := ThemeName(selected)
	if !validTheme(theme) {
		return fmt.Errorf("invalid theme %q, use --list-themes to see the options", selected)
	}

	a, err := app.New(verbose)
	if err != nil {
		return err
	}

	code, displayName, err := readSource(target)
	if err != nil {
		return err
	}
	repoCfg, err := loadRepoOverrides(target, a.Logger)
	if err != nil {
		return err
	}

	focusNames := tuiFocusFlags
	if len(focusNames) == 0 {
		focusNames = repoCfg.FocusAreas
	}
	areas, err := core.ParseFocusAreas(focusNames)
	if err != nil {
		return err
	}

	chunkSize := a.Cfg.ChunkSize
	if repoCfg.ChunkSize > 0 {
		chunkSize = repoCfg.ChunkSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frames := make(chan []core.ChunkStatus, 16)
	svc := a.ReviewService(review.Options{
		ChunkSize:          chunkSize,
		MaxRetries:         a.Cfg.MaxRetries,
		MaxConcurrent:      a.Cfg.MaxConcurrent,
		Language:           lang.Detect(target),
		CustomInstructions: repoCfg.CustomInstructions,
		OnProgress: func(statuses []core.ChunkStatus) {
			// Drop frames rather than stall the review when the UI
			// falls behind.
			select {
			case frames <- statuses:
			default:
			}
		},
	})

	req := core.ReviewRequest{
		Code:       string(code),
		FocusAreas: areas,
		Timeout:    a.Cfg.Timeout,
	}
	meta := output.Meta{
		File:        displayName,
		Language:    lang.Detect(target),
		Model:       a.Cfg.Model,
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
	}

	m := newTUIModel(theme, meta, core.FocusLabel(areas), cancel, frames, startReviewCmd(ctx, svc, req, frames))

	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("failed to run terminal ui: %w", err)
	}
	if fm, ok := final.(*tuiModel); ok && fm.err != nil && !errors.Is(fm.err, context.Canceled) {
		return fm.err
	}
	return nil
}
