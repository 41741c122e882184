package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepreview/deepreview/internal/core"
)

func TestSectionParserFullResponse(t *testing.T) {
	raw := "## Summary\nAll good\n## Issues\n### Critical\n1. SQL injection\n### High\n1. No input validation\n## Recommendations\nAdd tests\n## Strengths\nClear naming"

	got := NewSectionParser().Parse(raw)

	assert.Equal(t, "All good", got.Summary)
	assert.Equal(t, []string{"1. SQL injection"}, got.Issues[core.SeverityCritical])
	assert.Equal(t, []string{"1. No input validation"}, got.Issues[core.SeverityHigh])
	assert.Equal(t, "Add tests", got.Recommendations)
	assert.Equal(t, "Clear naming", got.Strengths)
}

func TestSectionParserMissingSuccessor(t *testing.T) {
	// Summary is terminated by the Issues heading specifically. When the model
	// skips Issues, the summary runs to the end of the text; Recommendations
	// is still located by its own search over the full response.
	raw := "## Summary\nFine overall\n## Recommendations\nAdd tests"

	got := NewSectionParser().Parse(raw)

	assert.Contains(t, got.Summary, "Fine overall")
	assert.Contains(t, got.Summary, "Add tests")
	assert.Equal(t, "Add tests", got.Recommendations)
	assert.Empty(t, got.Issues)
}

func TestSectionParserHeadingVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "two hash markers",
			raw:  "## Summary\nLooks fine.",
			want: "Looks fine.",
		},
		{
			name: "one hash marker",
			raw:  "# Summary\nLooks fine.",
			want: "Looks fine.",
		},
		{
			name: "three hash markers",
			raw:  "### Summary\nLooks fine.",
			want: "Looks fine.",
		},
		{
			name: "no hash markers with colon",
			raw:  "Summary:\nLooks fine.",
			want: "Looks fine.",
		},
		{
			name: "lower case heading",
			raw:  "## summary\nLooks fine.",
			want: "Looks fine.",
		},
		{
			name: "indented heading",
			raw:  "  ## Summary\nLooks fine.",
			want: "Looks fine.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewSectionParser().Parse(tt.raw)
			assert.Equal(t, tt.want, got.Summary)
		})
	}
}

func TestSectionParserSummaryFallback(t *testing.T) {
	// No recognizable headings at all: the whole response is the summary.
	raw := "The code is generally fine but lacks input validation."
	got := NewSectionParser().Parse(raw)
	assert.Equal(t, raw, got.Summary)
	assert.Empty(t, got.Issues)

	// A Summary heading with nothing under it falls back the same way.
	raw = "## Summary\n## Issues\n### Low\n- minor nit"
	got = NewSectionParser().Parse(raw)
	assert.NotEmpty(t, got.Summary)
	assert.Equal(t, []string{"minor nit"}, got.Issues[core.SeverityLow])
}

func TestSectionParserEmptyInput(t *testing.T) {
	got := NewSectionParser().Parse("")
	assert.Equal(t, "", got.Summary)
	assert.Empty(t, got.Issues)

	got = NewSectionParser().Parse("   \n\t\n")
	assert.Equal(t, "", got.Summary)
}

func TestSectionParserSeverityBlocks(t *testing.T) {
	raw := `## Summary
Mixed quality.

## Issues

### Critical
1. Hardcoded credentials in config loader
2. Unsanitized user input reaches the shell

### High
- Race condition on the shared counter
- Missing error check after Open

### Low
1. Inconsistent naming

## Strengths
Well structured packages.`

	got := NewSectionParser().Parse(raw)

	assert.Equal(t, []string{
		"1. Hardcoded credentials in config loader",
		"2. Unsanitized user input reaches the shell",
	}, got.Issues[core.SeverityCritical])
	assert.Equal(t, []string{
		"Race condition on the shared counter",
		"Missing error check after Open",
	}, got.Issues[core.SeverityHigh])
	assert.Empty(t, got.Issues[core.SeverityMedium])
	assert.Equal(t, []string{"1. Inconsistent naming"}, got.Issues[core.SeverityLow])
	assert.Equal(t, "Well structured packages.", got.Strengths)
}

func TestSectionParserSeverityTermination(t *testing.T) {
	// The High block must not bleed into Critical's items even when the
	// ordering is unusual.
	raw := "## Issues\n### High\n- first\n### Critical\n- second\n### Medium\n- third"

	got := NewSectionParser().Parse(raw)

	assert.Equal(t, []string{"first"}, got.Issues[core.SeverityHigh])
	assert.Equal(t, []string{"second"}, got.Issues[core.SeverityCritical])
	assert.Equal(t, []string{"third"}, got.Issues[core.SeverityMedium])
}

func TestParseItems(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  []string
	}{
		{
			name:  "numbered items keep their markers",
			block: "1. First problem\n2. Second problem",
			want:  []string{"1. First problem", "2. Second problem"},
		},
		{
			name:  "numbered item ends at blank line",
			block: "1. First problem\nwith continuation\n\ntrailing prose",
			want:  []string{"1. First problem\nwith continuation"},
		},
		{
			name:  "dash bullets",
			block: "- one\n- two",
			want:  []string{"one", "two"},
		},
		{
			name:  "mixed bullet glyphs",
			block: "* one\n• two\n- three",
			want:  []string{"one", "two", "three"},
		},
		{
			name:  "numbered wins over bullets",
			block: "1. numbered\n- not a separate item",
			want:  []string{"1. numbered\n- not a separate item"},
		},
		{
			name:  "plain text is a single fragment",
			block: "just one finding without markers",
			want:  []string{"just one finding without markers"},
		},
		{
			name:  "empty block",
			block: "   \n",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseItems(tt.block))
		})
	}
}

func TestStripMarkdownFence(t *testing.T) {
	raw := "```markdown\n## Summary\nFenced response.\n```"
	got := NewSectionParser().Parse(raw)
	assert.Equal(t, "Fenced response.", got.Summary)

	// Fences inside the response body are left alone.
	raw = "## Summary\nUse `make([]int, 0)` here."
	got = NewSectionParser().Parse(raw)
	require.Contains(t, got.Summary, "make([]int, 0)")
}
