// Package output renders a finished review for humans and machines.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/deepreview/deepreview/internal/core"
)

// Format selects how a report is written.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatText:
		return FormatText, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: text, markdown, json)", raw)
	}
}

// Meta carries the run details shown alongside the review itself.
type Meta struct {
	File        string
	Language    string
	Model       string
	RunID       string
	Duration    time.Duration
	GeneratedAt time.Time
}

// Render writes the report in the chosen format.
func Render(w io.Writer, format Format, report *core.CombinedReport, meta Meta) error {
	switch format {
	case FormatMarkdown:
		RenderMarkdown(w, report, meta)
		return nil
	case FormatJSON:
		return RenderJSON(w, report, meta)
	default:
		RenderText(w, report, meta)
		return nil
	}
}
