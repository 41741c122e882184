package review

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/deepreview/deepreview/internal/core"
)

const (
	// DefaultMaxRetries is how many retries follow the first attempt.
	DefaultMaxRetries = 3

	baseBackoff   = 1 * time.Second
	maxBackoff    = 10 * time.Second
	minBackoff    = 100 * time.Millisecond
	backoffJitter = 0.2
)

// retrier re-runs a chunk's executor on failure, up to maxRetries retries
// after the first attempt. Every error class is retried the same way; the
// pipeline cannot reliably tell a transient network fault from a model
// hiccup, so it does not try.
type retrier struct {
	exec       chunkExecutor
	maxRetries int
	logger     *slog.Logger

	// sleep waits out the backoff, honoring cancellation. Tests replace it.
	sleep func(ctx context.Context, d time.Duration) error
}

func newRetrier(exec chunkExecutor, maxRetries int, logger *slog.Logger) *retrier {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &retrier{
		exec:       exec,
		maxRetries: maxRetries,
		logger:     logger,
		sleep:      sleepContext,
	}
}

// executeWithRetry drives one chunk to a settled outcome. onStatus fires
// with StatusRetrying before every retry, ahead of its backoff wait. Success
// after k>0 retries carries RetryAttempts=k and RetrySuccess=true on the
// result; an exhausted budget returns a RetryError wrapping the final
// failure.
func (r *retrier) executeWithRetry(ctx context.Context, chunk core.Chunk, areas []core.FocusArea, timeout time.Duration, totalChunks int, onStatus func(core.ChunkStatus)) (*core.ChunkResult, error) {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			if onStatus != nil {
				onStatus(core.StatusRetrying)
			}
			delay := backoffDelay(attempt)
			r.logger.Warn("retrying chunk",
				"chunk", chunk.Index+1,
				"attempt", attempt+1,
				"max_attempts", r.maxRetries+1,
				"backoff", delay,
				"error", lastErr)
			if err := r.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		res, err := r.exec.execute(ctx, chunk, areas, timeout, totalChunks)
		if err == nil {
			if attempt > 0 {
				res.RetryAttempts = attempt
				res.RetrySuccess = true
			}
			return res, nil
		}
		lastErr = err
	}

	return nil, &core.RetryError{Retries: r.maxRetries, Err: lastErr}
}

// backoffDelay computes the wait before retry k (1-based): exponential from
// baseBackoff, capped at maxBackoff, perturbed by up to +/-20% so concurrent
// chunks do not retry in lockstep, and floored at minBackoff.
func backoffDelay(retry int) time.Duration {
	base := baseBackoff
	for i := 1; i < retry && base < maxBackoff; i++ {
		base *= 2
	}
	if base > maxBackoff {
		base = maxBackoff
	}

	factor := 1 + backoffJitter*(2*rand.Float64()-1)
	delay := time.Duration(float64(base) * factor)
	if delay < minBackoff {
		delay = minBackoff
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
