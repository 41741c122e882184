package review

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/deepreview/deepreview/internal/core"
	"github.com/deepreview/deepreview/internal/llm"
)

// CompletionClient is the slice of the API client the pipeline needs.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Model() string
}

// chunkExecutor runs a single review attempt for one chunk. The retry layer
// wraps it; tests substitute stubs.
type chunkExecutor interface {
	execute(ctx context.Context, chunk core.Chunk, areas []core.FocusArea, timeout time.Duration, totalChunks int) (*core.ChunkResult, error)
}

type executor struct {
	client       CompletionClient
	parser       llm.ReviewParser
	prompts      *llm.PromptManager
	systemPrompt string
	logger       *slog.Logger
}

func newExecutor(client CompletionClient, parser llm.ReviewParser, prompts *llm.PromptManager, systemPrompt string, logger *slog.Logger) *executor {
	return &executor{
		client:       client,
		parser:       parser,
		prompts:      prompts,
		systemPrompt: systemPrompt,
		logger:       logger,
	}
}

func (e *executor) execute(ctx context.Context, chunk core.Chunk, areas []core.FocusArea, timeout time.Duration, totalChunks int) (*core.ChunkResult, error) {
	chunkNumber := chunk.Index + 1

	userPrompt, err := e.prompts.Render(llm.ReviewPrompt, llm.DeepSeekProvider, llm.ReviewPromptData{
		ChunkNumber: chunkNumber,
		TotalChunks: totalChunks,
		Focus:       core.FocusLabel(areas),
		Code:        chunk.Text,
	})
	if err != nil {
		return nil, fmt.Errorf("render review prompt: %w", err)
	}

	raw, err := e.completeWithTimeout(ctx, userPrompt, timeout, chunkNumber)
	if err != nil {
		return nil, err
	}

	sections := e.parser.Parse(raw)
	e.logger.Debug("chunk reviewed",
		"chunk", chunkNumber,
		"total", totalChunks,
		"response_bytes", len(raw))

	return &core.ChunkResult{
		Model:           e.client.Model(),
		FocusAreas:      areas,
		Summary:         sections.Summary,
		Issues:          sections.Issues,
		Recommendations: sections.Recommendations,
		Strengths:       sections.Strengths,
		RawResponse:     raw,
		ChunkNumber:     chunkNumber,
		TotalChunks:     totalChunks,
	}, nil
}

// completeWithTimeout races the completion call against the watchdog. When
// the watchdog fires the in-flight call is abandoned, not cancelled; the
// buffered channel lets the loser's goroutine finish without blocking.
func (e *executor) completeWithTimeout(ctx context.Context, userPrompt string, timeout time.Duration, chunkNumber int) (string, error) {
	type result struct {
		resp string
		err  error
	}
	resultCh := make(chan result, 1)

	go func() {
		resp, err := e.client.Complete(ctx, e.systemPrompt, userPrompt)
		resultCh <- result{resp, err}
	}()

	select {
	case res := <-resultCh:
		return res.resp, res.err
	case <-time.After(timeout):
		return "", &core.TimeoutError{ChunkNumber: chunkNumber, Timeout: timeout}
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
