package llm

import (
	"regexp"
	"strings"

	"github.com/deepreview/deepreview/internal/core"
)

// ReviewParser extracts structured review sections from a raw model
// response. Implementations must be total: any input yields a usable result,
// worst case the whole response as the summary with everything else empty.
type ReviewParser interface {
	Parse(raw string) core.ReviewSections
}

const (
	summaryHeading         = "Summary"
	issuesHeading          = "Issues"
	recommendationsHeading = "Recommendations"
	strengthsHeading       = "Strengths"
)

var topHeadings = []string{summaryHeading, issuesHeading, recommendationsHeading, strengthsHeading}

// nextHeading maps each top-level section to the heading that terminates it.
// Strengths has no successor and runs to the end of the text, and so does any
// section whose successor heading the model happened to omit.
var nextHeading = map[string]string{
	summaryHeading:         issuesHeading,
	issuesHeading:          recommendationsHeading,
	recommendationsHeading: strengthsHeading,
	strengthsHeading:       "",
}

// headingRegexps matches a section or severity name as a standalone token at
// the start of a line, allowing up to three '#' markers and an optional
// trailing colon. Models are inconsistent about heading levels and casing,
// so the match is deliberately loose.
var headingRegexps = map[string]*regexp.Regexp{}

func init() {
	names := append([]string{}, topHeadings...)
	for _, sev := range core.Severities {
		names = append(names, sev.Title())
	}
	for _, name := range names {
		headingRegexps[name] = regexp.MustCompile(`(?i)(?:^|\n)[ \t]*#{0,3}[ \t]*` + name + `\b:?`)
	}
}

var (
	numberedItemRe = regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]`)
	bulletSplitRe  = regexp.MustCompile(`(?m)^[ \t]*[-*•][ \t]+`)
	blankLineRe    = regexp.MustCompile(`\n[ \t]*\n`)
)

// SectionParser is the default ReviewParser. It scans for the Summary,
// Issues, Recommendations, and Strengths headings, then for the severity
// sub-headings inside the Issues span, tolerating the usual model quirks
// (wrapping code fences, missing sections, mixed list styles).
type SectionParser struct{}

func NewSectionParser() *SectionParser { return &SectionParser{} }

func (p *SectionParser) Parse(raw string) core.ReviewSections {
	text := strings.TrimSpace(stripMarkdownFence(raw))

	sections := core.ReviewSections{Issues: make(map[core.Severity][]string)}
	if text == "" {
		return sections
	}

	// A response with no recognizable Summary heading, or an empty one, is
	// still a review: the whole text becomes the summary.
	if summary, ok := section(text, summaryHeading); ok && summary != "" {
		sections.Summary = summary
	} else {
		sections.Summary = text
	}

	if issues, ok := section(text, issuesHeading); ok {
		for _, sev := range core.Severities {
			block, ok := severityBlock(issues, sev)
			if !ok {
				continue
			}
			if items := parseItems(block); len(items) > 0 {
				sections.Issues[sev] = items
			}
		}
	}

	if recs, ok := section(text, recommendationsHeading); ok {
		sections.Recommendations = recs
	}
	if strengths, ok := section(text, strengthsHeading); ok {
		sections.Strengths = strengths
	}

	return sections
}

// section returns the trimmed content of the named top-level section: from
// just after its heading to the start of its successor heading, or to the end
// of the text when the successor is missing. The earliest heading occurrence
// wins.
func section(text, name string) (string, bool) {
	loc := headingRegexps[name].FindStringIndex(text)
	if loc == nil {
		return "", false
	}

	rest := text[loc[1]:]
	end := len(rest)
	if next := nextHeading[name]; next != "" {
		if l := headingRegexps[next].FindStringIndex(rest); l != nil {
			end = l[0]
		}
	}
	return strings.TrimSpace(rest[:end]), true
}

// severityBlock returns the trimmed content under one severity sub-heading
// inside the Issues span, terminated by the nearest of the other three
// severities or end of span.
func severityBlock(issuesText string, sev core.Severity) (string, bool) {
	loc := headingRegexps[sev.Title()].FindStringIndex(issuesText)
	if loc == nil {
		return "", false
	}

	rest := issuesText[loc[1]:]
	end := len(rest)
	for _, other := range core.Severities {
		if other == sev {
			continue
		}
		if l := headingRegexps[other.Title()].FindStringIndex(rest); l != nil && l[0] < end {
			end = l[0]
		}
	}
	return strings.TrimSpace(rest[:end]), true
}

// parseItems extracts the individual findings from one severity block.
// Numbered lists win when present: each item runs from its "N. " marker
// (kept in the item text) to the next marker, a blank line, or the end.
// Otherwise the block splits on bullet markers at line starts.
func parseItems(block string) []string {
	if strings.TrimSpace(block) == "" {
		return nil
	}

	if locs := numberedItemRe.FindAllStringIndex(block, -1); len(locs) > 0 {
		var items []string
		for i, loc := range locs {
			end := len(block)
			if i+1 < len(locs) {
				end = locs[i+1][0]
			}
			span := block[loc[0]:end]
			if bl := blankLineRe.FindStringIndex(span); bl != nil {
				span = span[:bl[0]]
			}
			if item := strings.TrimSpace(span); item != "" {
				items = append(items, item)
			}
		}
		return items
	}

	var items []string
	for _, frag := range bulletSplitRe.Split(block, -1) {
		if frag = strings.TrimSpace(frag); frag != "" {
			items = append(items, frag)
		}
	}
	return items
}

// stripMarkdownFence removes ```markdown ... ``` wrapping that some models
// add around their whole output.
func stripMarkdownFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```markdown") && !strings.HasPrefix(trimmed, "```md") {
		return s
	}

	idx := strings.Index(trimmed, "\n")
	if idx < 0 {
		return s
	}
	inner := trimmed[idx+1:]
	if lastFence := strings.LastIndex(inner, "```"); lastFence >= 0 {
		inner = inner[:lastFence]
	}
	return strings.TrimSpace(inner)
}
