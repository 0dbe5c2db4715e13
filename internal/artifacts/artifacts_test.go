package artifacts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write %q: %v", name, err)
	}
	return path
}

func TestTestReport(t *testing.T) {
	dir := t.TempDir()
	path := touch(t, dir, "report.json")

	if !TestReport(path) {
		t.Fatal("expected existing report to be found")
	}
	if TestReport(filepath.Join(dir, "missing.json")) {
		t.Fatal("expected missing report to be absent")
	}
	if TestReport(dir) {
		t.Fatal("a directory is not a report")
	}
}

func TestCoverageSummariesPreferredFirst(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "zz-summary.json")
	preferred := touch(t, dir, "coverage-summary.json")
	touch(t, dir, "another-summary.json")
	touch(t, dir, "coverage-final.json")

	paths, err := CoverageSummaries(dir)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("expected three summaries, got %v", paths)
	}
	if paths[0] != preferred {
		t.Fatalf("expected coverage-summary.json first, got %v", paths)
	}
	if filepath.Base(paths[1]) != "another-summary.json" || filepath.Base(paths[2]) != "zz-summary.json" {
		t.Fatalf("expected lexicographic order after preferred, got %v", paths)
	}
}

func TestCoverageSummariesNone(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "coverage-final.json")

	_, err := CoverageSummaries(dir)
	if !errors.Is(err, ErrNoSummaries) {
		t.Fatalf("expected ErrNoSummaries, got %v", err)
	}
}
