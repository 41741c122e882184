package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/deepreview/deepreview/internal/app"
	"github.com/deepreview/deepreview/internal/config"
	"github.com/deepreview/deepreview/internal/core"
	"github.com/deepreview/deepreview/internal/lang"
	"github.com/deepreview/deepreview/internal/output"
	"github.com/deepreview/deepreview/internal/progress"
	"github.com/deepreview/deepreview/internal/review"
)

var (
	focusFlags      []string
	formatFlag      string
	outputPath      string
	timeoutFlag     time.Duration
	chunkSizeFlag   int
	concurrencyFlag int
	noProgress      bool
)

var reviewCmd = &cobra.Command{
	Use:   "review [file]",
	Short: "Review a source file with DeepSeek",
	Long: `Review a source file with DeepSeek.

The file is split into chunks near the configured size, each chunk is
reviewed concurrently with retries, and the results are merged into one
report. Use "-" to read from stdin.

Examples:
  deepreview review main.go
  deepreview review --focus security,performance handler.py
  cat handler.py | deepreview review --format markdown -
  deepreview review --format json --output report.json main.go`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	reviewCmd.Flags().StringSliceVarP(&focusFlags, "focus", "f", nil, "Focus areas: security, performance, readability, maintainability, general")
	reviewCmd.Flags().StringVar(&formatFlag, "format", "text", "Output format: text, markdown, json")
	reviewCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the report to a file instead of stdout")
	reviewCmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "Per-chunk timeout (e.g. 45s); defaults to REVIEW_TIMEOUT_MS")
	reviewCmd.Flags().IntVar(&chunkSizeFlag, "chunk-size", 0, "Target chunk size in characters; defaults to CHUNK_SIZE")
	reviewCmd.Flags().IntVar(&concurrencyFlag, "concurrency", 0, "Max chunks reviewed in parallel; defaults to MAX_CONCURRENT")
	reviewCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress line")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	target := args[0]

	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	a, err := app.New(verbose)
	if err != nil {
		return err
	}
	log := a.Logger

	code, displayName, err := readSource(target)
	if err != nil {
		return err
	}

	repoCfg, err := loadRepoOverrides(target, log)
	if err != nil {
		return err
	}

	// Precedence: flags, then .deepreview.yml, then environment.
	focusNames := focusFlags
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
	if chunkSizeFlag > 0 {
		chunkSize = chunkSizeFlag
	}

	timeout := a.Cfg.Timeout
	if timeoutFlag > 0 {
		timeout = timeoutFlag
	}

	concurrency := a.Cfg.MaxConcurrent
	if concurrencyFlag > 0 {
		concurrency = concurrencyFlag
	}

	language := lang.Detect(target)

	var renderer *progress.Renderer
	var onProgress core.ProgressFunc
	if !noProgress && isatty.IsTerminal(os.Stderr.Fd()) {
		renderer = progress.NewRenderer(os.Stderr)
		onProgress = renderer.Update
	}

	svc := a.ReviewService(review.Options{
		ChunkSize:          chunkSize,
		MaxRetries:         a.Cfg.MaxRetries,
		MaxConcurrent:      concurrency,
		Language:           language,
		CustomInstructions: repoCfg.CustomInstructions,
		OnProgress:         onProgress,
	})

	start := time.Now()
	report, err := svc.Review(ctx, core.ReviewRequest{
		Code:       string(code),
		FocusAreas: areas,
		Timeout:    timeout,
	})
	if renderer != nil {
		renderer.Done()
	}
	if err != nil {
		return err
	}

	meta := output.Meta{
		File:        displayName,
		Language:    language,
		Model:       a.Cfg.Model,
		RunID:       uuid.NewString(),
		Duration:    time.Since(start),
		GeneratedAt: time.Now(),
	}

	return writeReport(report, meta, format, log)
}

func readSource(target string) ([]byte, string, error) {
	if target == "-" {
		code, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return code, "stdin", nil
	}

	code, err := os.ReadFile(target)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", target, err)
	}
	return code, target, nil
}

// loadRepoOverrides reads the .deepreview.yml next to the file under review.
// A missing file is fine; a malformed one is an error.
func loadRepoOverrides(target string, log *slog.Logger) (*core.RepoConfig, error) {
	repoDir := "."
	if target != "-" {
		repoDir = filepath.Dir(target)
	}
	repoCfg, err := config.LoadRepoConfig(repoDir)
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			return nil, err
		}
		log.Debug("no repo config found", "dir", repoDir)
	} else {
		log.Info("loaded repo config", "dir", repoDir,
			"focus_areas", repoCfg.FocusAreas,
			"custom_instructions", len(repoCfg.CustomInstructions))
	}
	return repoCfg, nil
}

func writeReport(report *core.CombinedReport, meta output.Meta, format output.Format, log *slog.Logger) error {
	if outputPath != "" {
		var buf bytes.Buffer
		if err := output.Render(&buf, format, report, meta); err != nil {
			return err
		}
		if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		log.Info("report written", "path", outputPath, "format", string(format))
		return nil
	}

	if format == output.FormatMarkdown && isatty.IsTerminal(os.Stdout.Fd()) {
		var buf bytes.Buffer
		output.RenderMarkdown(&buf, report, meta)
		renderPretty(buf.String())
		return nil
	}

	return output.Render(os.Stdout, format, report, meta)
}

// renderPretty pipes the Markdown report through glamour for terminal
// display, falling back to the plain document when styling fails.
func renderPretty(markdown string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		fmt.Print(markdown)
		return
	}
	pretty, err := r.Render(markdown)
	if err != nil {
		fmt.Print(markdown)
		return
	}
	fmt.Print(pretty)
}
