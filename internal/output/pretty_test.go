package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/bgricker/qualgate/internal/report"
)

func TestPrettyRenderSummary(t *testing.T) {
	pct := 70.0
	summary := report.SuiteSummary{
		Success:    false,
		TotalSteps: 3,
		Passed:     1,
		Failed:     1,
		Duration:   1500 * time.Millisecond,
		Results: []report.StepResult{
			{Name: "Unit Tests", Succeeded: true, Duration: time.Second},
			{Name: "Coverage", Succeeded: false, Err: "Coverage output file not found", Output: "some tool output", Duration: 500 * time.Millisecond},
		},
		Coverage:  &pct,
		UnitTests: report.UnitTestCounts{Passed: 8, Total: 8},
	}

	buf := &bytes.Buffer{}
	if err := NewPretty(buf).RenderSummary(summary); err != nil {
		t.Fatalf("render: %v", err)
	}
	got := buf.String()

	for _, want := range []string{
		"Unit Tests",
		"Coverage output file not found",
		"some tool output",
		"Unit tests: 8/8 passed",
		"Coverage: 70.0%",
		"SUMMARY: 1 passed, 1 failed, 1 not run",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, got)
		}
	}
}

func TestPrettyRenderSummaryOmitsAbsentMetrics(t *testing.T) {
	summary := report.SuiteSummary{
		Success:    true,
		TotalSteps: 1,
		Passed:     1,
		Results:    []report.StepResult{{Name: "Lint", Succeeded: true}},
	}

	buf := &bytes.Buffer{}
	if err := NewPretty(buf).RenderSummary(summary); err != nil {
		t.Fatalf("render: %v", err)
	}
	got := buf.String()

	if strings.Contains(got, "Coverage:") {
		t.Fatalf("coverage line should be absent:\n%s", got)
	}
	if strings.Contains(got, "Unit tests:") {
		t.Fatalf("unit test line should be absent:\n%s", got)
	}
	if strings.Contains(got, "not run") {
		t.Fatalf("not-run note should be absent:\n%s", got)
	}
}

func TestPrettyRenderSteps(t *testing.T) {
	buf := &bytes.Buffer{}
	infos := []StepInfo{
		{Name: "Lint", Command: "npx eslint ."},
		{Name: "Unit Tests", Command: "npx vitest run", Interpreted: true},
	}
	if err := NewPretty(buf).RenderSteps(infos); err != nil {
		t.Fatalf("render: %v", err)
	}
	got := buf.String()

	if !strings.Contains(got, "Lint: npx eslint .") {
		t.Fatalf("missing lint line:\n%s", got)
	}
	if !strings.Contains(got, "Unit Tests: npx vitest run [interpreted]") {
		t.Fatalf("missing interpreted marker:\n%s", got)
	}
}
