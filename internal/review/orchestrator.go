package review

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/deepreview/deepreview/internal/core"
)

const (
	// DefaultMaxConcurrent bounds how many chunks are in flight at once.
	DefaultMaxConcurrent = 4

	// codeSampleLen is how much of a failed chunk's text the report carries.
	codeSampleLen = 100
)

// retryExecutor is the retrier's surface, abstracted so orchestrator tests
// can drive it with stubs.
type retryExecutor interface {
	executeWithRetry(ctx context.Context, chunk core.Chunk, areas []core.FocusArea, timeout time.Duration, totalChunks int, onStatus func(core.ChunkStatus)) (*core.ChunkResult, error)
}

// orchestrator fans chunk reviews out across a bounded worker pool and waits
// for every chunk to settle. A chunk failure never interrupts the others;
// failures become report annotations, not early exits.
type orchestrator struct {
	exec          retryExecutor
	maxConcurrent int
	onProgress    core.ProgressFunc
	logger        *slog.Logger
}

func newOrchestrator(exec retryExecutor, maxConcurrent int, onProgress core.ProgressFunc, logger *slog.Logger) *orchestrator {
	return &orchestrator{
		exec:          exec,
		maxConcurrent: maxConcurrent,
		onProgress:    onProgress,
		logger:        logger,
	}
}

func (o *orchestrator) reviewAll(ctx context.Context, chunks []core.Chunk, areas []core.FocusArea, timeout time.Duration) (*core.CombinedReport, error) {
	n := len(chunks)

	statuses := make([]core.ChunkStatus, n)
	for i := range statuses {
		statuses[i] = core.StatusPending
	}

	// The observer runs under the table lock so frames arrive in transition
	// order.
	var mu sync.Mutex
	notify := func() {
		if o.onProgress == nil {
			return
		}
		snapshot := make([]core.ChunkStatus, n)
		copy(snapshot, statuses)
		o.onProgress(snapshot)
	}
	setStatus := func(i int, s core.ChunkStatus) {
		mu.Lock()
		defer mu.Unlock()
		statuses[i] = s
		notify()
	}

	mu.Lock()
	notify()
	mu.Unlock()

	results := make([]*core.ChunkResult, n)
	errs := make([]error, n)

	// Workers record their outcome in the indexed slices and always return
	// nil, so one failed chunk never short-circuits the group.
	var g errgroup.Group
	if o.maxConcurrent > 0 {
		g.SetLimit(o.maxConcurrent)
	}
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			setStatus(i, core.StatusInProgress)

			res, err := o.exec.executeWithRetry(ctx, chunk, areas, timeout, n, func(s core.ChunkStatus) {
				setStatus(i, s)
			})
			if err != nil {
				errs[i] = err
				setStatus(i, core.StatusFailed)
				o.logger.Warn("chunk failed", "chunk", i+1, "total", n, "error", err)
				return nil
			}

			results[i] = res
			setStatus(i, core.StatusCompleted)
			return nil
		})
	}
	_ = g.Wait()

	// Counts derive from the settled slices, nothing else.
	processed := 0
	var firstErr error
	for i := 0; i < n; i++ {
		if results[i] != nil {
			processed++
		} else if firstErr == nil {
			firstErr = errs[i]
		}
	}

	if processed == 0 {
		return nil, &core.AllChunksFailedError{Failed: n, Err: firstErr}
	}

	report, err := MergeResults(results)
	if err != nil {
		return nil, err
	}

	if failed := n - processed; failed > 0 {
		report.PartialSuccess = true
		report.Errors = make([]core.ChunkError, 0, failed)
		for i := range chunks {
			if results[i] == nil {
				report.Errors = append(report.Errors, core.ChunkError{
					ChunkNumber: i + 1,
					Message:     errs[i].Error(),
					CodeSample:  codeSample(chunks[i].Text),
				})
			}
		}
		report.Summary = fmt.Sprintf("⚠️ Partial results: %d of %d chunks failed to process.\n\n%s", failed, n, report.Summary)
	}

	return report, nil
}

func codeSample(text string) string {
	runes := []rune(text)
	if len(runes) > codeSampleLen {
		return string(runes[:codeSampleLen])
	}
	return text
}
