package interpret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgricker/qualgate/internal/executor"
	"github.com/bgricker/qualgate/internal/report"
)

func coverageOf(t *testing.T, verdict report.Verdict) float64 {
	t.Helper()
	pct, ok := verdict.Metrics[report.MetricCoverage].(float64)
	require.True(t, ok, "coverage metric missing or wrong type: %+v", verdict.Metrics)
	return pct
}

func TestCoverageStatementMap(t *testing.T) {
	dir := t.TempDir()
	// 10 statements across two files, 7 with hits.
	path := writeFile(t, dir, "coverage-final.json", `{
		"src/a.ts": {
			"statementMap": {"0": {}, "1": {}, "2": {}, "3": {}, "4": {}, "5": {}},
			"s": {"0": 1, "1": 4, "2": 0, "3": 2, "4": 1, "5": 0}
		},
		"src/b.ts": {
			"statementMap": {"0": {}, "1": {}, "2": {}, "3": {}},
			"s": {"0": 3, "1": 1, "2": 0, "3": 9}
		}
	}`)

	verdict := Coverage(path, dir)("", executor.Result{Succeeded: true})

	assert.True(t, verdict.Valid)
	assert.Equal(t, 70.0, coverageOf(t, verdict))
}

func TestCoverageZeroStatements(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "coverage-final.json", `{"src/a.ts": {"statementMap": {}, "s": {}}}`)

	verdict := Coverage(path, dir)("", executor.Result{Succeeded: true})

	assert.False(t, verdict.Valid)
	assert.Equal(t, 0.0, coverageOf(t, verdict))
	assert.NotEmpty(t, verdict.Err)
}

func TestCoverageCommandFailedInvalidatesParse(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "coverage-final.json", `{
		"src/a.ts": {"statementMap": {"0": {}, "1": {}}, "s": {"0": 1, "1": 1}}
	}`)

	verdict := Coverage(path, dir)("", executor.Result{Succeeded: false, Err: "exit status 2"})

	assert.False(t, verdict.Valid)
	assert.Equal(t, "exit status 2", verdict.Err)
	assert.Equal(t, 100.0, coverageOf(t, verdict))
}

func TestCoverageAlternateSummary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "coverage-summary.json", `{"total": {"statements": {"pct": 42}}}`)

	verdict := Coverage(dir+"/missing.json", dir)("", executor.Result{Succeeded: true})

	assert.True(t, verdict.Valid)
	assert.Equal(t, 42.0, coverageOf(t, verdict))
}

func TestCoverageMalformedDataFallsToSummary(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "coverage-final.json", "{truncated")
	writeFile(t, dir, "coverage-summary.json", `{"total": {"statements": {"pct": 55.5}}}`)

	verdict := Coverage(data, dir)("", executor.Result{Succeeded: true})

	assert.True(t, verdict.Valid)
	assert.Equal(t, 55.5, coverageOf(t, verdict))
}

func TestCoverageSummaryWithoutTotalSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "coverage-summary.json", `{"files": {}}`)

	verdict := Coverage(dir+"/missing.json", dir)("", executor.Result{Succeeded: true})

	assert.False(t, verdict.Valid)
	assert.Equal(t, "Coverage output file not found", verdict.Err)
	assert.Equal(t, 0.0, coverageOf(t, verdict))
}

func TestCoverageNoArtifacts(t *testing.T) {
	dir := t.TempDir()

	verdict := Coverage(dir+"/missing.json", dir)("", executor.Result{Succeeded: true})

	assert.False(t, verdict.Valid)
	assert.Equal(t, "Coverage output file not found", verdict.Err)
	assert.Equal(t, 0.0, coverageOf(t, verdict))
}
