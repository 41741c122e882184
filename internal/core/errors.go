package core

import (
	"fmt"
	"time"
)

// APIError reports a failed exchange with the DeepSeek API: either a non-2xx
// response (StatusCode set) or a transport-level failure (StatusCode zero).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("deepseek api error: %s", e.Message)
	}
	return fmt.Sprintf("deepseek api error (status %d): %s", e.StatusCode, e.Message)
}

// TimeoutError means a chunk's request did not settle before the watchdog
// fired. The in-flight call is abandoned, not cancelled.
type TimeoutError struct {
	ChunkNumber int
	Timeout     time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("chunk %d: no response after %s", e.ChunkNumber, e.Timeout)
}

// MalformedResponseError means the API answered 2xx but the payload did not
// carry usable review content.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "malformed api response: " + e.Reason
}

// RetryError wraps the final failure of a chunk after the retry budget is
// spent. Retries carries how many retries were attempted so reports can
// surface it.
type RetryError struct {
	Retries int
	Err     error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("giving up after %d retries: %v", e.Retries, e.Err)
}

func (e *RetryError) Unwrap() error { return e.Err }

// AllChunksFailedError is returned only when not a single chunk produced a
// result. It wraps the first failed chunk's error in index order.
type AllChunksFailedError struct {
	Failed int
	Err    error
}

func (e *AllChunksFailedError) Error() string {
	return fmt.Sprintf("all %d chunks failed to process; first error: %v", e.Failed, e.Err)
}

func (e *AllChunksFailedError) Unwrap() error { return e.Err }
