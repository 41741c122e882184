package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/deepreview/deepreview/internal/core"
)

// Color definitions
var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	infoColor    = color.New(color.FgWhite)
	dimColor     = color.New(color.FgHiBlack)
)

// RenderText writes the terminal rendition: summary block, issues grouped by
// severity with colored badges, recommendations, strengths, and any failed
// chunks.
func RenderText(w io.Writer, report *core.CombinedReport, meta Meta) {
	separator := strings.Repeat("═", 60)
	thinSeparator := strings.Repeat("─", 60)

	fmt.Fprintln(w)
	titleColor.Fprintln(w, separator)
	titleColor.Fprintln(w, "📋 CODE REVIEW")
	titleColor.Fprintln(w, separator)
	printMeta(w, report, meta)

	fmt.Fprintln(w)
	infoColor.Fprintln(w, report.Summary)

	if report.IssueCount.Total == 0 {
		fmt.Fprintln(w)
		successColor.Fprintln(w, "✅ No issues found!")
	} else {
		fmt.Fprintln(w)
		warnColor.Fprintln(w, thinSeparator)
		warnColor.Fprintf(w, "🔍 ISSUES (%d)\n", report.IssueCount.Total)
		warnColor.Fprintln(w, thinSeparator)

		for _, sev := range core.Severities {
			for _, item := range report.Issues[sev] {
				fmt.Fprintln(w)
				printSeverityBadge(w, sev)
				infoColor.Fprintf(w, " %s\n", item)
			}
		}
	}

	if report.Recommendations != "" {
		fmt.Fprintln(w)
		titleColor.Fprintln(w, "💡 RECOMMENDATIONS")
		fmt.Fprintln(w)
		infoColor.Fprintln(w, report.Recommendations)
	}

	if report.Strengths != "" {
		fmt.Fprintln(w)
		successColor.Fprintln(w, "💪 STRENGTHS")
		fmt.Fprintln(w)
		infoColor.Fprintln(w, report.Strengths)
	}

	if len(report.Errors) > 0 {
		fmt.Fprintln(w)
		errorColor.Fprintln(w, thinSeparator)
		errorColor.Fprintf(w, "⚠️  FAILED CHUNKS (%d)\n", len(report.Errors))
		errorColor.Fprintln(w, thinSeparator)
		for _, e := range report.Errors {
			fmt.Fprintln(w)
			dimColor.Fprintf(w, "Chunk %d: ", e.ChunkNumber)
			errorColor.Fprintln(w, e.Message)
			if e.CodeSample != "" {
				dimColor.Fprintf(w, "   near: %s\n", firstLine(e.CodeSample))
			}
		}
	}
	fmt.Fprintln(w)
}

func printMeta(w io.Writer, report *core.CombinedReport, meta Meta) {
	if meta.File != "" {
		target := meta.File
		if meta.Language != "" {
			target += " (" + meta.Language + ")"
		}
		dimColor.Fprintf(w, "   File: %s\n", target)
	}

	details := fmt.Sprintf("%s, %d/%d chunks", meta.Model, report.ProcessedChunks, report.TotalChunks)
	if meta.Duration > 0 {
		details += ", " + meta.Duration.Round(time.Millisecond).String()
	}
	dimColor.Fprintf(w, "   %s\n", details)
}

func printSeverityBadge(w io.Writer, sev core.Severity) {
	switch sev {
	case core.SeverityCritical:
		color.New(color.BgRed, color.FgWhite, color.Bold).Fprintf(w, " %s ", sev.Title())
	case core.SeverityHigh:
		color.New(color.BgHiRed, color.FgWhite).Fprintf(w, " %s ", sev.Title())
	case core.SeverityMedium:
		color.New(color.BgYellow, color.FgBlack).Fprintf(w, " %s ", sev.Title())
	case core.SeverityLow:
		color.New(color.BgGreen, color.FgWhite).Fprintf(w, " %s ", sev.Title())
	default:
		color.New(color.BgWhite, color.FgBlack).Fprintf(w, " %s ", sev.Title())
	}
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
