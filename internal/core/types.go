// Package core defines the shared data types and the error taxonomy for the
// review pipeline. Everything here is plain data with small helpers, so the
// transport, orchestration, and rendering packages can all depend on core
// without depending on each other.
package core

import (
	"fmt"
	"strings"
	"time"
)

// FocusArea selects what the reviewer should concentrate on.
type FocusArea string

const (
	FocusSecurity        FocusArea = "security"
	FocusPerformance     FocusArea = "performance"
	FocusReadability     FocusArea = "readability"
	FocusMaintainability FocusArea = "maintainability"
	FocusGeneral         FocusArea = "general"
)

// FocusAreas lists every recognized focus area.
var FocusAreas = []FocusArea{
	FocusSecurity,
	FocusPerformance,
	FocusReadability,
	FocusMaintainability,
	FocusGeneral,
}

// ParseFocusAreas normalizes raw focus names (trimmed, lower-cased) and
// rejects anything outside the known set. Empty input yields an empty slice,
// which the prompt layer renders as "general code quality".
func ParseFocusAreas(raw []string) ([]FocusArea, error) {
	areas := make([]FocusArea, 0, len(raw))
	for _, r := range raw {
		name := FocusArea(strings.ToLower(strings.TrimSpace(r)))
		if name == "" {
			continue
		}
		if !isKnownFocus(name) {
			return nil, fmt.Errorf("unknown focus area %q (valid: %s)", r, joinFocus(FocusAreas))
		}
		areas = append(areas, name)
	}
	return areas, nil
}

func isKnownFocus(f FocusArea) bool {
	for _, known := range FocusAreas {
		if f == known {
			return true
		}
	}
	return false
}

func joinFocus(areas []FocusArea) string {
	parts := make([]string, len(areas))
	for i, a := range areas {
		parts[i] = string(a)
	}
	return strings.Join(parts, ", ")
}

// FocusLabel renders the focus list for the review prompt. An empty list
// falls back to the generic label.
func FocusLabel(areas []FocusArea) string {
	if len(areas) == 0 {
		return "general code quality"
	}
	return joinFocus(areas)
}

// Severity classifies a single review issue.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Severities lists the severity levels in canonical order, most severe first.
// Merging and rendering both iterate in this order.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Title returns the capitalized display form, e.g. "Critical".
func (s Severity) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Chunk is one contiguous slice of the input source. Indices start at zero
// and concatenating chunk texts in index order reproduces the original input.
type Chunk struct {
	Index int
	Text  string
}

// ChunkStatus tracks one chunk through its lifecycle. Transitions are
// pending -> in-progress -> (retrying)* -> completed or failed.
type ChunkStatus string

const (
	StatusPending    ChunkStatus = "pending"
	StatusInProgress ChunkStatus = "in-progress"
	StatusRetrying   ChunkStatus = "retrying"
	StatusCompleted  ChunkStatus = "completed"
	StatusFailed     ChunkStatus = "failed"
)

// Terminal reports whether the status is an end state.
func (s ChunkStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ProgressFunc receives a snapshot of all chunk statuses after every
// transition. The slice is a copy; observers may keep it.
type ProgressFunc func(statuses []ChunkStatus)

// ReviewRequest is the immutable input for one review run.
type ReviewRequest struct {
	Code       string
	FocusAreas []FocusArea
	Timeout    time.Duration
}

// ReviewSections holds the structured sections extracted from one raw model
// response. Extraction is best effort: a response with no recognizable
// headings comes back with the whole text as Summary and everything else
// empty.
type ReviewSections struct {
	Summary         string
	Issues          map[Severity][]string
	Recommendations string
	Strengths       string
}

// ChunkResult is the outcome of reviewing a single chunk. Chunk numbers are
// 1-based. RetryAttempts and RetrySuccess stay zero-valued unless the chunk
// needed at least one retry.
type ChunkResult struct {
	Model           string                `json:"model"`
	FocusAreas      []FocusArea           `json:"focus_areas,omitempty"`
	Summary         string                `json:"summary"`
	Issues          map[Severity][]string `json:"issues"`
	Recommendations string                `json:"recommendations,omitempty"`
	Strengths       string                `json:"strengths,omitempty"`
	RawResponse     string                `json:"raw_response,omitempty"`
	ChunkNumber     int                   `json:"chunk_number"`
	TotalChunks     int                   `json:"total_chunks"`
	RetryAttempts   int                   `json:"retry_attempts,omitempty"`
	RetrySuccess    bool                  `json:"retry_success,omitempty"`
}

// IssueCount aggregates issue totals per severity. Total is always the sum
// of the four buckets.
type IssueCount struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Total    int `json:"total"`
}

// CountIssues tallies an issue map into an IssueCount.
func CountIssues(issues map[Severity][]string) IssueCount {
	c := IssueCount{
		Critical: len(issues[SeverityCritical]),
		High:     len(issues[SeverityHigh]),
		Medium:   len(issues[SeverityMedium]),
		Low:      len(issues[SeverityLow]),
	}
	c.Total = c.Critical + c.High + c.Medium + c.Low
	return c
}

// ChunkError records one failed chunk in a partial result. CodeSample holds
// the first 100 characters of the chunk so the failure can be located in the
// source.
type ChunkError struct {
	ChunkNumber int    `json:"chunk_number"`
	Message     string `json:"error"`
	CodeSample  string `json:"code_sample"`
}

// CombinedReport is the final merged review. ChunkResults preserves the
// per-chunk outcomes in chunk order, with nil at positions whose chunk
// failed, so callers can attribute findings to input regions.
type CombinedReport struct {
	Model           string                `json:"model"`
	FocusAreas      []FocusArea           `json:"focus_areas,omitempty"`
	Summary         string                `json:"summary"`
	Issues          map[Severity][]string `json:"issues"`
	Recommendations string                `json:"recommendations,omitempty"`
	Strengths       string                `json:"strengths,omitempty"`
	RawResponse     string                `json:"raw_response,omitempty"`
	IssueCount      IssueCount            `json:"issue_count"`
	Errors          []ChunkError          `json:"errors,omitempty"`
	PartialSuccess  bool                  `json:"partial_success,omitempty"`
	ProcessedChunks int                   `json:"processed_chunks"`
	TotalChunks     int                   `json:"total_chunks"`
	ChunkResults    []*ChunkResult        `json:"chunk_results,omitempty"`
}
