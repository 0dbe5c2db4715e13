package output

import (
	"encoding/json"
	"io"

	"github.com/bgricker/qualgate/internal/report"
)

// JSONRenderer emits structured execution data.
type JSONRenderer struct {
	out io.Writer
}

// NewJSON creates a JSON renderer writing to out.
func NewJSON(out io.Writer) *JSONRenderer {
	return &JSONRenderer{out: out}
}

// StepInfo describes a resolved step definition without executing it.
type StepInfo struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Interpreted bool   `json:"interpreted"`
}

// Report captures JSON output schema.
type Report struct {
	Steps    []StepInfo           `json:"steps,omitempty"`
	Summary  *report.SuiteSummary `json:"summary,omitempty"`
	Warnings []string             `json:"warnings,omitempty"`
}

// Render encodes the report as JSON.
func (j *JSONRenderer) Render(rep Report) error {
	enc := json.NewEncoder(j.out)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
