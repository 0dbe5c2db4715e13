// Package artifacts locates the on-disk files external verification tools
// leave behind: the structured test report and coverage data documents. The
// core only ever reads these files; the wrapped tools own them.
package artifacts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoSummaries indicates that no coverage summary files were found.
var ErrNoSummaries = errors.New("no coverage summaries discovered")

// TestReport reports whether the structured test report exists at path.
func TestReport(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CoverageSummaries returns candidate pre-aggregated coverage summary files
// under dir. The conventional coverage-summary.json comes first; any other
// JSON file with "summary" in its name follows in lexicographic order.
func CoverageSummaries(dir string) ([]string, error) {
	preferred := filepath.Join(dir, "coverage-summary.json")

	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", dir, err)
	}

	var rest []string
	found := false
	for _, m := range matches {
		if m == preferred {
			found = true
			continue
		}
		if strings.Contains(strings.ToLower(filepath.Base(m)), "summary") {
			rest = append(rest, m)
		}
	}
	sort.Strings(rest)

	paths := make([]string, 0, len(rest)+1)
	if found {
		paths = append(paths, preferred)
	}
	paths = append(paths, rest...)
	if len(paths) == 0 {
		return nil, ErrNoSummaries
	}
	return paths, nil
}
