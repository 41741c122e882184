package review

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/deepreview/deepreview/internal/core"
)

func TestSplitCode(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		targetSize int
		wantTexts  []string
	}{
		{
			name:       "empty input",
			code:       "",
			targetSize: 10,
			wantTexts:  nil,
		},
		{
			name:       "input within target is one chunk",
			code:       "short\n",
			targetSize: 100,
			wantTexts:  []string{"short\n"},
		},
		{
			name:       "input exactly at target is one chunk",
			code:       "1234567890",
			targetSize: 10,
			wantTexts:  []string{"1234567890"},
		},
		{
			name:       "splits at line boundaries",
			code:       "aaaa\nbbbb\ncccc\n",
			targetSize: 10,
			wantTexts:  []string{"aaaa\nbbbb\n", "cccc\n"},
		},
		{
			name:       "long single line is never split",
			code:       "short\n" + strings.Repeat("x", 40) + "\nshort\n",
			targetSize: 10,
			wantTexts:  []string{"short\n", strings.Repeat("x", 40) + "\n", "short\n"},
		},
		{
			name:       "missing final newline is preserved",
			code:       "aaaa\nbbbb\ncccc",
			targetSize: 10,
			wantTexts:  []string{"aaaa\nbbbb\n", "cccc"},
		},
		{
			name:       "zero target size uses the default",
			code:       "tiny\n",
			targetSize: 0,
			wantTexts:  []string{"tiny\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitCode(tt.code, tt.targetSize)
			require.Len(t, chunks, len(tt.wantTexts))
			for i, want := range tt.wantTexts {
				assert.Equal(t, i, chunks[i].Index)
				assert.Equal(t, want, chunks[i].Text)
			}
		})
	}
}

func TestSplitCodeProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numLines := rapid.IntRange(0, 30).Draw(t, "numLines")
		var sb strings.Builder
		for i := 0; i < numLines; i++ {
			sb.WriteString(rapid.StringMatching(`[ -~]{0,40}`).Draw(t, "line"))
			sb.WriteString("\n")
		}
		if rapid.Bool().Draw(t, "danglingTail") {
			sb.WriteString(rapid.StringMatching(`[ -~]{1,40}`).Draw(t, "tail"))
		}
		code := sb.String()
		targetSize := rapid.IntRange(1, 64).Draw(t, "targetSize")

		chunks := SplitCode(code, targetSize)

		var joined strings.Builder
		for i, c := range chunks {
			if c.Index != i {
				t.Fatalf("chunk %d has index %d", i, c.Index)
			}
			if c.Text == "" {
				t.Fatalf("chunk %d is empty", i)
			}
			// Oversized chunks are only allowed for a single unbreakable line.
			if len(c.Text) > targetSize {
				inner := strings.TrimSuffix(c.Text, "\n")
				if strings.Contains(inner, "\n") {
					t.Fatalf("chunk %d exceeds target %d with %d bytes across multiple lines", i, targetSize, len(c.Text))
				}
			}
			joined.WriteString(c.Text)
		}
		if joined.String() != code {
			t.Fatalf("round trip mismatch: %q != %q", joined.String(), code)
		}
	})
}

func TestSplitCodeChunkType(t *testing.T) {
	chunks := SplitCode("a\nb\nc\n", 2)
	require.Len(t, chunks, 3)
	assert.Equal(t, core.Chunk{Index: 1, Text: "b\n"}, chunks[1])
}
