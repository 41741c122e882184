package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/deepreview/deepreview/internal/core"
	"github.com/deepreview/deepreview/internal/llm"
)

// DefaultTimeout bounds one chunk's review attempt when the request does not
// set its own budget.
const DefaultTimeout = 30 * time.Second

// ErrNoCode is returned when the request carries nothing but whitespace.
var ErrNoCode = errors.New("no code to review")

// Options configure a Service beyond its collaborators.
type Options struct {
	// ChunkSize is the per-chunk character budget; 0 selects DefaultChunkSize.
	ChunkSize int
	// MaxRetries is the retry budget after the first attempt; 0 disables
	// retries, negative selects DefaultMaxRetries.
	MaxRetries int
	// MaxConcurrent caps in-flight chunk reviews; 0 means no cap.
	MaxConcurrent int
	// Language names the source language for the reviewer persona; empty
	// omits it.
	Language string
	// CustomInstructions are repo-level additions to the reviewer persona.
	CustomInstructions []string
	// OnProgress receives a status snapshot on every chunk transition; nil
	// disables progress reporting.
	OnProgress core.ProgressFunc
}

// Service is the caller-facing entry point. It owns the split → review →
// merge pipeline and hides the retry and concurrency machinery behind one
// call.
type Service struct {
	client  CompletionClient
	parser  llm.ReviewParser
	prompts *llm.PromptManager
	opts    Options
	logger  *slog.Logger
}

func NewService(client CompletionClient, parser llm.ReviewParser, prompts *llm.PromptManager, opts Options, logger *slog.Logger) *Service {
	return &Service{
		client:  client,
		parser:  parser,
		prompts: prompts,
		opts:    opts,
		logger:  logger,
	}
}

// Review splits the request's code into chunks, reviews every chunk against
// the focus areas, and merges the surviving results into one report. Partial
// failure is a success path: the report carries the per-chunk errors and a
// warning prefix instead of an error return. Only an empty request or a full
// sweep of chunk failures fails the call.
func (s *Service) Review(ctx context.Context, req core.ReviewRequest) (*core.CombinedReport, error) {
	if strings.TrimSpace(req.Code) == "" {
		return nil, ErrNoCode
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	systemPrompt, err := s.prompts.Render(llm.SystemPrompt, llm.DeepSeekProvider, llm.SystemPromptData{
		Language:           s.opts.Language,
		CustomInstructions: s.opts.CustomInstructions,
	})
	if err != nil {
		return nil, fmt.Errorf("render system prompt: %w", err)
	}

	chunks := SplitCode(req.Code, s.opts.ChunkSize)

	s.logger.Info("starting code review",
		"model", s.client.Model(),
		"chunks", len(chunks),
		"focus", core.FocusLabel(req.FocusAreas),
		"timeout", timeout)

	exec := newExecutor(s.client, s.parser, s.prompts, systemPrompt, s.logger)
	ret := newRetrier(exec, s.opts.MaxRetries, s.logger)
	orch := newOrchestrator(ret, s.opts.MaxConcurrent, s.opts.OnProgress, s.logger)

	start := time.Now()
	report, err := orch.reviewAll(ctx, chunks, req.FocusAreas, timeout)
	if err != nil {
		return nil, err
	}

	s.logger.Info("code review finished",
		"processed", report.ProcessedChunks,
		"failed", len(report.Errors),
		"issues", report.IssueCount.Total,
		"duration", time.Since(start).Round(time.Millisecond))

	return report, nil
}
