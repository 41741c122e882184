package output

import (
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/deepreview/deepreview/internal/core"
)

var numberedPrefixRe = regexp.MustCompile(`^\d+\.\s`)

// RenderMarkdown writes the report as a standalone Markdown document, the
// shape that survives being pasted into a PR comment or piped to a pager.
func RenderMarkdown(w io.Writer, report *core.CombinedReport, meta Meta) {
	if meta.File != "" {
		fmt.Fprintf(w, "# Code Review: %s\n\n", meta.File)
	} else {
		fmt.Fprint(w, "# Code Review\n\n")
	}

	fmt.Fprintf(w, "- **Model**: %s\n", meta.Model)
	if meta.Language != "" {
		fmt.Fprintf(w, "- **Language**: %s\n", meta.Language)
	}
	fmt.Fprintf(w, "- **Chunks**: %d/%d processed\n", report.ProcessedChunks, report.TotalChunks)
	if meta.Duration > 0 {
		fmt.Fprintf(w, "- **Duration**: %s\n", meta.Duration.Round(time.Millisecond))
	}
	if !meta.GeneratedAt.IsZero() {
		fmt.Fprintf(w, "- **Generated**: %s\n", meta.GeneratedAt.Format(time.RFC3339))
	}

	fmt.Fprint(w, "\n## Summary\n\n")
	fmt.Fprintf(w, "%s\n", report.Summary)

	if report.IssueCount.Total > 0 {
		fmt.Fprintf(w, "\n## Issues (%d)\n", report.IssueCount.Total)
		for _, sev := range core.Severities {
			items := report.Issues[sev]
			if len(items) == 0 {
				continue
			}
			fmt.Fprintf(w, "\n### %s\n\n", sev.Title())
			for _, item := range items {
				// Extracted items often keep their original "1. " markers;
				// those already read as list entries.
				if numberedPrefixRe.MatchString(item) {
					fmt.Fprintf(w, "%s\n", item)
				} else {
					fmt.Fprintf(w, "- %s\n", item)
				}
			}
		}
	}

	if report.Recommendations != "" {
		fmt.Fprintf(w, "\n## Recommendations\n\n%s\n", report.Recommendations)
	}
	if report.Strengths != "" {
		fmt.Fprintf(w, "\n## Strengths\n\n%s\n", report.Strengths)
	}

	if len(report.Errors) > 0 {
		fmt.Fprintf(w, "\n## Failed Chunks (%d)\n\n", len(report.Errors))
		for _, e := range report.Errors {
			fmt.Fprintf(w, "- **Chunk %d**: %s\n", e.ChunkNumber, e.Message)
		}
	}
}
