package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFocusAreas(t *testing.T) {
	tests := []struct {
		name      string
		input     []string
		want      []FocusArea
		expectErr bool
	}{
		{
			name:  "valid areas",
			input: []string{"security", "performance"},
			want:  []FocusArea{FocusSecurity, FocusPerformance},
		},
		{
			name:  "normalizes case and whitespace",
			input: []string{" Security ", "READABILITY"},
			want:  []FocusArea{FocusSecurity, FocusReadability},
		},
		{
			name:  "empty entries dropped",
			input: []string{"", "maintainability", "  "},
			want:  []FocusArea{FocusMaintainability},
		},
		{
			name:  "nil input",
			input: nil,
			want:  []FocusArea{},
		},
		{
			name:      "unknown area rejected",
			input:     []string{"security", "style"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFocusAreas(tt.input)
			if tt.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown focus area")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFocusLabel(t *testing.T) {
	assert.Equal(t, "general code quality", FocusLabel(nil))
	assert.Equal(t, "security", FocusLabel([]FocusArea{FocusSecurity}))
	assert.Equal(t, "security, performance", FocusLabel([]FocusArea{FocusSecurity, FocusPerformance}))
}

func TestSeverityTitle(t *testing.T) {
	assert.Equal(t, "Critical", SeverityCritical.Title())
	assert.Equal(t, "Low", SeverityLow.Title())
	assert.Equal(t, "", Severity("").Title())
}

func TestCountIssues(t *testing.T) {
	issues := map[Severity][]string{
		SeverityCritical: {"a"},
		SeverityHigh:     {"b", "c"},
		SeverityLow:      {"d"},
	}

	count := CountIssues(issues)
	assert.Equal(t, 1, count.Critical)
	assert.Equal(t, 2, count.High)
	assert.Equal(t, 0, count.Medium)
	assert.Equal(t, 1, count.Low)
	assert.Equal(t, 4, count.Total)

	assert.Equal(t, IssueCount{}, CountIssues(nil))
}

func TestChunkStatusTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusInProgress.Terminal())
	assert.False(t, StatusRetrying.Terminal())
}

func TestErrorUnwrapping(t *testing.T) {
	cause := &APIError{StatusCode: 503, Message: "overloaded"}

	retryErr := &RetryError{Retries: 3, Err: cause}
	assert.Equal(t, "giving up after 3 retries: deepseek api error (status 503): overloaded", retryErr.Error())

	var apiErr *APIError
	require.True(t, errors.As(retryErr, &apiErr))
	assert.Equal(t, 503, apiErr.StatusCode)

	allFailed := &AllChunksFailedError{Failed: 5, Err: retryErr}
	assert.Contains(t, allFailed.Error(), "all 5 chunks failed")
	require.True(t, errors.As(allFailed, &apiErr))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "deepseek api error: connection refused",
		(&APIError{Message: "connection refused"}).Error())
	assert.Contains(t, (&TimeoutError{ChunkNumber: 3, Timeout: 30000000000}).Error(), "chunk 3")
	assert.Equal(t, "malformed api response: no choices returned",
		(&MalformedResponseError{Reason: "no choices returned"}).Error())
}
