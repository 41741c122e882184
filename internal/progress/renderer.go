// Package progress draws the per-chunk status line while a review runs.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/deepreview/deepreview/internal/core"
)

var (
	pendingColor = color.New(color.FgHiBlack)
	activeColor  = color.New(color.FgCyan)
	retryColor   = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	failureColor = color.New(color.FgRed)
	countColor   = color.New(color.FgHiBlack)
)

// Renderer rewrites a single terminal line with one glyph per chunk plus
// aggregate counts. Pass Update as the review's progress callback and call
// Done once the review settles to move off the status line.
type Renderer struct {
	mu        sync.Mutex
	w         io.Writer
	lastWidth int
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Update redraws the status line for the given snapshot.
func (r *Renderer) Update(statuses []core.ChunkStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var glyphs strings.Builder
	var completed, retrying, failed int
	for i, s := range statuses {
		if i > 0 {
			glyphs.WriteByte(' ')
		}
		glyphs.WriteString(glyph(s))
		switch s {
		case core.StatusCompleted:
			completed++
		case core.StatusRetrying:
			retrying++
		case core.StatusFailed:
			failed++
		}
	}

	counts := fmt.Sprintf("  %d/%d done", completed, len(statuses))
	if retrying > 0 {
		counts += fmt.Sprintf(", %d retrying", retrying)
	}
	if failed > 0 {
		counts += fmt.Sprintf(", %d failed", failed)
	}

	// The glyph row is one column per chunk with single-space separators.
	// Track the visible width ourselves: the written string carries color
	// escapes, so its byte length is useless for padding.
	width := utf8.RuneCountInString(counts)
	if n := len(statuses); n > 0 {
		width += 2*n - 1
	}
	var pad string
	if width < r.lastWidth {
		pad = strings.Repeat(" ", r.lastWidth-width)
	}
	r.lastWidth = width

	fmt.Fprintf(r.w, "\r%s%s%s", glyphs.String(), countColor.Sprint(counts), pad)
}

// Done ends the status line so later output starts on a fresh one.
func (r *Renderer) Done() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastWidth > 0 {
		fmt.Fprintln(r.w)
		r.lastWidth = 0
	}
}

func glyph(s core.ChunkStatus) string {
	switch s {
	case core.StatusPending:
		return pendingColor.Sprint("·")
	case core.StatusInProgress:
		return activeColor.Sprint("○")
	case core.StatusRetrying:
		return retryColor.Sprint("↻")
	case core.StatusCompleted:
		return successColor.Sprint("✓")
	case core.StatusFailed:
		return failureColor.Sprint("✗")
	default:
		return " "
	}
}
