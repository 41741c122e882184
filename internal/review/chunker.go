// Package review implements the chunked review pipeline: splitting source
// into line-aligned chunks, executing each chunk against the model with
// retries, fanning out under a bounded worker pool, and merging the per-chunk
// results into a single combined report.
package review

import (
	"strings"

	"github.com/deepreview/deepreview/internal/core"
)

// DefaultChunkSize is the target chunk size in bytes.
const DefaultChunkSize = 3000

// SplitCode splits source into chunks of at most targetSize bytes without
// ever breaking a line: a single line longer than targetSize becomes its own
// oversized chunk. Concatenating the returned chunk texts in index order
// reproduces code byte for byte. Empty input yields no chunks; a
// non-positive targetSize falls back to DefaultChunkSize.
func SplitCode(code string, targetSize int) []core.Chunk {
	if code == "" {
		return nil
	}
	if targetSize <= 0 {
		targetSize = DefaultChunkSize
	}
	if len(code) <= targetSize {
		return []core.Chunk{{Index: 0, Text: code}}
	}

	// SplitAfter keeps each line's own terminator, which is what makes the
	// round trip exact. It also leaves a trailing empty element when the
	// input ends with a newline.
	lines := strings.SplitAfter(code, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	var chunks []core.Chunk
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		chunks = append(chunks, core.Chunk{Index: len(chunks), Text: current.String()})
		current.Reset()
	}

	for _, line := range lines {
		if current.Len() > 0 && current.Len()+len(line) > targetSize {
			flush()
		}
		current.WriteString(line)
	}
	flush()

	return chunks
}
