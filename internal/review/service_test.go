package review

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepreview/deepreview/internal/core"
	"github.com/deepreview/deepreview/internal/llm"
)

const cannedReview = `## Summary
Solid chunk.

## Issues

### High
1. Missing error check after Open

## Recommendations
Add table driven tests

## Strengths
Readable code`

// recordingClient replays a canned review and keeps every prompt it saw.
type recordingClient struct {
	mu     sync.Mutex
	system []string
	user   []string
	reply  string
	err    error
}

func (c *recordingClient) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.system = append(c.system, systemPrompt)
	c.user = append(c.user, userPrompt)
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

func (c *recordingClient) Model() string { return "deepseek-chat" }

func newTestService(t *testing.T, client CompletionClient, opts Options) *Service {
	t.Helper()
	prompts, err := llm.NewPromptManager()
	require.NoError(t, err)
	return NewService(client, llm.NewSectionParser(), prompts, opts, testLogger())
}

func TestServiceReviewSingleChunk(t *testing.T) {
	client := &recordingClient{reply: cannedReview}
	svc := newTestService(t, client, Options{Language: "Go"})

	report, err := svc.Review(context.Background(), core.ReviewRequest{
		Code:       "func main() {\n\tfmt.Println(\"hi\")\n}\n",
		FocusAreas: []core.FocusArea{core.FocusSecurity},
		Timeout:    5 * time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t, "Solid chunk.", report.Summary)
	assert.Equal(t, []string{"1. Missing error check after Open"}, report.Issues[core.SeverityHigh])
	assert.Equal(t, "Add table driven tests", report.Recommendations)
	assert.Equal(t, "Readable code", report.Strengths)
	assert.Equal(t, "deepseek-chat", report.Model)
	assert.Equal(t, 1, report.ProcessedChunks)
	assert.Equal(t, 1, report.TotalChunks)
	assert.False(t, report.PartialSuccess)
	assert.Equal(t, 1, report.IssueCount.Total)

	require.Len(t, client.user, 1)
	assert.Contains(t, client.user[0], "(chunk 1/1) focusing on security")
	assert.Contains(t, client.user[0], "fmt.Println")
	require.Len(t, client.system, 1)
	assert.Contains(t, client.system[0], "Go")
}

func TestServiceReviewSplitsAndMerges(t *testing.T) {
	client := &recordingClient{reply: cannedReview}
	svc := newTestService(t, client, Options{ChunkSize: 10})

	report, err := svc.Review(context.Background(), core.ReviewRequest{
		Code:    "a := 1\nb := 2\n",
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalChunks)
	assert.Equal(t, 2, report.ProcessedChunks)
	assert.Contains(t, report.Summary, "Code review of 2 chunks:")
	assert.Contains(t, report.Summary, "Chunk 1: Solid chunk.")
	assert.Contains(t, report.Summary, "Chunk 2: Solid chunk.")

	// Identical findings from both chunks collapse to one.
	assert.Equal(t, []string{"1. Missing error check after Open"}, report.Issues[core.SeverityHigh])
	assert.Equal(t, 1, report.IssueCount.Total)
	assert.Equal(t, "Add table driven tests", report.Recommendations)
	assert.Contains(t, report.RawResponse, "\n\n---\n\n")

	// Chunks may be reviewed in any order; both prompts must have gone out.
	require.Len(t, client.user, 2)
	all := strings.Join(client.user, "\n")
	assert.Contains(t, all, "(chunk 1/2) focusing on general code quality")
	assert.Contains(t, all, "(chunk 2/2) focusing on general code quality")
}

func TestServiceReviewRejectsEmptyCode(t *testing.T) {
	svc := newTestService(t, &recordingClient{reply: cannedReview}, Options{})

	_, err := svc.Review(context.Background(), core.ReviewRequest{Code: ""})
	assert.ErrorIs(t, err, ErrNoCode)

	_, err = svc.Review(context.Background(), core.ReviewRequest{Code: "  \n\t\n"})
	assert.ErrorIs(t, err, ErrNoCode)
}

func TestServiceReviewAllChunksFail(t *testing.T) {
	client := &recordingClient{err: &core.APIError{StatusCode: 500, Message: "upstream down"}}
	svc := newTestService(t, client, Options{})

	_, err := svc.Review(context.Background(), core.ReviewRequest{
		Code:    "package main\n",
		Timeout: 5 * time.Second,
	})

	var allFailed *core.AllChunksFailedError
	require.ErrorAs(t, err, &allFailed)
	assert.Equal(t, 1, allFailed.Failed)

	var apiErr *core.APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestServiceReviewReportsProgress(t *testing.T) {
	rec := &frameRecorder{}
	client := &recordingClient{reply: cannedReview}
	svc := newTestService(t, client, Options{OnProgress: rec.record})

	_, err := svc.Review(context.Background(), core.ReviewRequest{
		Code:    "package main\n",
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)

	frames := rec.frames
	require.NotEmpty(t, frames)
	assert.Equal(t, []core.ChunkStatus{core.StatusPending}, frames[0])
	assert.Equal(t, []core.ChunkStatus{core.StatusCompleted}, frames[len(frames)-1])
}
