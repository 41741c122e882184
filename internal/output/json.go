package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/deepreview/deepreview/internal/core"
)

type jsonEnvelope struct {
	RunID       string               `json:"run_id,omitempty"`
	GeneratedAt time.Time            `json:"generated_at"`
	File        string               `json:"file,omitempty"`
	Language    string               `json:"language,omitempty"`
	Model       string               `json:"model"`
	DurationMS  int64                `json:"duration_ms"`
	Report      *core.CombinedReport `json:"report"`
}

// RenderJSON writes the machine-readable envelope around the full report.
func RenderJSON(w io.Writer, report *core.CombinedReport, meta Meta) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonEnvelope{
		RunID:       meta.RunID,
		GeneratedAt: meta.GeneratedAt,
		File:        meta.File,
		Language:    meta.Language,
		Model:       meta.Model,
		DurationMS:  meta.Duration.Milliseconds(),
		Report:      report,
	})
}
