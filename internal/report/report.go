package report

import "time"

// Verdict is the normalized judgment an interpreter returns for one step.
// Valid is independent of the command's exit status: a command can exit
// non-zero yet be judged valid (an unrelated sub-process warned), or exit
// zero yet be judged invalid (zero tests actually ran).
type Verdict struct {
	Valid   bool           `json:"valid"`
	Err     string         `json:"error,omitempty"`
	Metrics map[string]any `json:"metrics,omitempty"`
}

// Metric keys interpreters publish and the orchestrator lifts into the summary.
const (
	MetricUnitTestsPassed = "unitTestsPassed"
	MetricUnitTestsTotal  = "unitTestsTotal"
	MetricTestFiles       = "testFiles"
	MetricEstimated       = "estimated"
	MetricCoverage        = "coverage"
)

// TestFile records how many tests a single file contributed.
type TestFile struct {
	File  string `json:"file"`
	Count int    `json:"count"`
}

// StepResult captures the outcome of a single step after interpretation.
type StepResult struct {
	Name       string        `json:"name"`
	Command    string        `json:"command"`
	Succeeded  bool          `json:"succeeded"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"duration_ms"`
	Output     string        `json:"output,omitempty"`
	Err        string        `json:"error,omitempty"`
	Verdict    Verdict       `json:"verdict"`
}

// UnitTestCounts carries the pass/total counts lifted from the unit-test step.
type UnitTestCounts struct {
	Passed int `json:"passed"`
	Total  int `json:"total"`
}

// SuiteSummary aggregates suite execution results. Coverage stays nil until a
// coverage step actually ran and surfaced a percentage.
type SuiteSummary struct {
	RunID      string         `json:"run_id"`
	Success    bool           `json:"success"`
	TotalSteps int            `json:"total_steps"`
	Passed     int            `json:"passed"`
	Failed     int            `json:"failed"`
	Duration   time.Duration  `json:"-"`
	DurationMS int64          `json:"duration_ms"`
	Results    []StepResult   `json:"results"`
	Coverage   *float64       `json:"coverage_percent"`
	UnitTests  UnitTestCounts `json:"unit_tests"`
	FirstError string         `json:"first_error,omitempty"`
}
