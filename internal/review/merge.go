package review

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/deepreview/deepreview/internal/core"
)

const rawResponseSeparator = "\n\n---\n\n"

var blankLineSplitRe = regexp.MustCompile(`\n[ \t]*\n`)

// MergeResults combines the per-chunk results (ordered, nil at failed
// positions) into one report. A single surviving result passes through
// unchanged apart from the computed issue count; multiple survivors are
// labeled, concatenated, and de-duplicated.
func MergeResults(results []*core.ChunkResult) (*core.CombinedReport, error) {
	survivors := make([]*core.ChunkResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			survivors = append(survivors, r)
		}
	}
	if len(survivors) == 0 {
		return nil, fmt.Errorf("no chunk results to merge")
	}

	if len(survivors) == 1 {
		r := survivors[0]
		return &core.CombinedReport{
			Model:           r.Model,
			FocusAreas:      r.FocusAreas,
			Summary:         r.Summary,
			Issues:          r.Issues,
			Recommendations: r.Recommendations,
			Strengths:       r.Strengths,
			RawResponse:     r.RawResponse,
			IssueCount:      core.CountIssues(r.Issues),
			ProcessedChunks: 1,
			TotalChunks:     r.TotalChunks,
			ChunkResults:    results,
		}, nil
	}

	summary := summaryBanner(survivors)

	// One duplicate set across all chunks and severities: a finding reported
	// by two chunks, or at two severities, is kept only where it first
	// appeared. Keys are lower-cased and trimmed; the stored text keeps its
	// original form.
	seen := make(map[string]bool)
	issues := make(map[core.Severity][]string)
	for _, sev := range core.Severities {
		for _, r := range survivors {
			for _, item := range r.Issues[sev] {
				key := strings.ToLower(strings.TrimSpace(item))
				if key == "" || seen[key] {
					continue
				}
				seen[key] = true
				issues[sev] = append(issues[sev], item)
			}
		}
	}

	raws := make([]string, len(survivors))
	for i, r := range survivors {
		raws[i] = r.RawResponse
	}

	return &core.CombinedReport{
		Model:           survivors[0].Model,
		FocusAreas:      survivors[0].FocusAreas,
		Summary:         summary,
		Issues:          issues,
		Recommendations: mergeParagraphs(survivors, func(r *core.ChunkResult) string { return r.Recommendations }),
		Strengths:       mergeParagraphs(survivors, func(r *core.ChunkResult) string { return r.Strengths }),
		RawResponse:     strings.Join(raws, rawResponseSeparator),
		IssueCount:      core.CountIssues(issues),
		ProcessedChunks: len(survivors),
		TotalChunks:     survivors[0].TotalChunks,
		ChunkResults:    results,
	}, nil
}

// summaryBanner concatenates the per-chunk summaries under one banner,
// labeled by chunk number.
func summaryBanner(survivors []*core.ChunkResult) string {
	parts := make([]string, len(survivors))
	for i, r := range survivors {
		parts[i] = fmt.Sprintf("Chunk %d: %s", r.ChunkNumber, r.Summary)
	}
	return fmt.Sprintf("Code review of %d chunks:\n\n%s", len(survivors), strings.Join(parts, "\n\n"))
}

// mergeParagraphs splits each chunk's free-text section on blank lines,
// drops duplicates (case-insensitive, trimmed), and rejoins the rest with
// blank lines. Recommendations and strengths each get their own duplicate
// set.
func mergeParagraphs(results []*core.ChunkResult, field func(*core.ChunkResult) string) string {
	seen := make(map[string]bool)
	var paragraphs []string
	for _, r := range results {
		for _, p := range blankLineSplitRe.Split(field(r), -1) {
			p = strings.TrimSpace(p)
			key := strings.ToLower(p)
			if p == "" || seen[key] {
				continue
			}
			seen[key] = true
			paragraphs = append(paragraphs, p)
		}
	}
	return strings.Join(paragraphs, "\n\n")
}
