package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/bgricker/qualgate/internal/output"
)

func TestRunCommandEndToEnd(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell commands differ on windows")
	}

	tmp := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmp, "coverage"), 0o755); err != nil {
		t.Fatalf("mkdir coverage: %v", err)
	}
	coverageData := `{
		"src/app.ts": {
			"statementMap": {"0": {}, "1": {}, "2": {}, "3": {}, "4": {}, "5": {}, "6": {}, "7": {}, "8": {}, "9": {}},
			"s": {"0": 1, "1": 1, "2": 1, "3": 1, "4": 1, "5": 1, "6": 1, "7": 0, "8": 0, "9": 0}
		}
	}`
	if err := os.WriteFile(filepath.Join(tmp, "coverage", "coverage-final.json"), []byte(coverageData), 0o644); err != nil {
		t.Fatalf("write coverage data: %v", err)
	}

	configYAML := []byte(`test_command: "echo '✓ src/app.test.ts (3)'"
coverage_command: "true"
report_file: missing-report.json
`)
	if err := os.WriteFile(filepath.Join(tmp, ".qualgate.yml"), configYAML, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	chdir(t, tmp)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"run", "--format", "json"})
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("command execute: %v\n%s", err, buf.String())
	}

	var decoded output.Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	summary := decoded.Summary
	if summary == nil || !summary.Success {
		t.Fatalf("expected successful summary, got %+v", summary)
	}
	if len(summary.Results) != 2 {
		t.Fatalf("expected two step results, got %+v", summary.Results)
	}
	if summary.UnitTests.Passed != 3 || summary.UnitTests.Total != 3 {
		t.Fatalf("unexpected unit test counts: %+v", summary.UnitTests)
	}
	if summary.Coverage == nil || *summary.Coverage != 70.0 {
		t.Fatalf("unexpected coverage: %+v", summary.Coverage)
	}
}

func TestRunCommandFailureStopsEarly(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell commands differ on windows")
	}

	tmp := t.TempDir()
	configYAML := []byte(`lint_command: "exit 1"
test_command: "echo unreachable"
coverage_command: "echo unreachable"
`)
	if err := os.WriteFile(filepath.Join(tmp, ".qualgate.yml"), configYAML, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	chdir(t, tmp)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"run", "--format", "json"})
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected run to report failure")
	}

	var decoded output.Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode output: %v\n%s", err, buf.String())
	}
	summary := decoded.Summary
	if summary == nil || summary.Success {
		t.Fatalf("expected failed summary, got %+v", summary)
	}
	if len(summary.Results) != 1 || summary.Results[0].Name != "Lint" {
		t.Fatalf("expected only the lint step to run, got %+v", summary.Results)
	}
	if summary.TotalSteps != 3 {
		t.Fatalf("total steps should count the full definition list, got %d", summary.TotalSteps)
	}
	if summary.Coverage != nil {
		t.Fatalf("coverage must stay unset when the step never ran, got %v", *summary.Coverage)
	}
	if summary.FirstError == "" {
		t.Fatal("expected first error from the lint step")
	}
}
