package interpret

import (
	"encoding/json"
	"os"

	"github.com/bgricker/qualgate/internal/artifacts"
	"github.com/bgricker/qualgate/internal/executor"
	"github.com/bgricker/qualgate/internal/report"
)

// statementEntry is one file's slice of a statement-level coverage document:
// statement locations keyed by id, and per-statement hit counts under "s".
type statementEntry struct {
	StatementMap map[string]json.RawMessage `json:"statementMap"`
	S            map[string]float64         `json:"s"`
}

// summaryDocument is a pre-aggregated coverage summary exposing a total
// statement percentage. Total is a pointer so a JSON document without the
// field is distinguishable from 0%.
type summaryDocument struct {
	Total *struct {
		Statements struct {
			Pct float64 `json:"pct"`
		} `json:"statements"`
	} `json:"total"`
}

// Coverage builds an interpreter for coverage tool output. dataFile is the
// statement-level document; summaryDir is searched for pre-aggregated
// alternates when that file is missing or malformed. When no artifact of any
// kind exists the verdict is invalid but still reports coverage as 0, never
// null, so downstream consumers never special-case an undefined percentage.
func Coverage(dataFile, summaryDir string) Func {
	return func(output string, exec executor.Result) report.Verdict {
		return runChain(output, exec, []strategy{
			statementMapStrategy(dataFile),
			summaryFileStrategy(summaryDir),
		}, coverageFallback)
	}
}

// statementMapStrategy aggregates covered/total statements across all files.
// An empty statement map is 0% and invalid, not 100%, to avoid a false pass
// on projects with nothing to cover.
func statementMapStrategy(path string) strategy {
	return func(output string, exec executor.Result) *report.Verdict {
		if path == "" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var doc map[string]statementEntry
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil
		}

		total, covered := 0, 0
		for _, entry := range doc {
			for id := range entry.StatementMap {
				total++
				if entry.S[id] > 0 {
					covered++
				}
			}
		}
		if total == 0 {
			return &report.Verdict{
				Err:     "coverage data contains no statements",
				Metrics: map[string]any{report.MetricCoverage: float64(0)},
			}
		}

		pct := 100 * float64(covered) / float64(total)
		return coverageVerdict(pct, exec)
	}
}

// summaryFileStrategy reads the first summary document in dir that exposes a
// total statement percentage.
func summaryFileStrategy(dir string) strategy {
	return func(output string, exec executor.Result) *report.Verdict {
		if dir == "" {
			return nil
		}
		paths, err := artifacts.CoverageSummaries(dir)
		if err != nil {
			return nil
		}
		for _, path := range paths {
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			var doc summaryDocument
			if err := json.Unmarshal(data, &doc); err != nil || doc.Total == nil {
				continue
			}
			return coverageVerdict(doc.Total.Statements.Pct, exec)
		}
		return nil
	}
}

// coverageVerdict requires the command itself to have succeeded; a parsed
// percentage from a failed run may be partial and is not trusted.
func coverageVerdict(pct float64, exec executor.Result) *report.Verdict {
	verdict := report.Verdict{
		Valid:   exec.Succeeded,
		Metrics: map[string]any{report.MetricCoverage: pct},
	}
	if !exec.Succeeded {
		verdict.Err = exec.Err
		if verdict.Err == "" {
			verdict.Err = "coverage command failed"
		}
	}
	return &verdict
}

func coverageFallback(exec executor.Result) report.Verdict {
	return report.Verdict{
		Err:     "Coverage output file not found",
		Metrics: map[string]any{report.MetricCoverage: float64(0)},
	}
}
