package suite

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bgricker/qualgate/internal/report"
)

// RunSuite executes the definitions in order and aggregates one summary.
// TotalSteps always reflects the full definition list; when StopOnFailure
// truncates the run, Results holds only the executed steps so callers can see
// the truncation. Failed steps are never retried here; a caller retries by
// invoking RunSuite again with a narrowed list.
func (r *Runner) RunSuite(ctx context.Context, defs []Definition) report.SuiteSummary {
	summary := report.SuiteSummary{
		RunID:      uuid.NewString(),
		Success:    true,
		TotalSteps: len(defs),
	}

	for _, def := range defs {
		result := r.RunStep(ctx, def)
		summary.Results = append(summary.Results, result)
		summary.Duration += result.Duration

		if result.Succeeded {
			summary.Passed++
			continue
		}

		summary.Failed++
		summary.Success = false
		if summary.FirstError == "" {
			summary.FirstError = result.Err
		}
		if r.opts.StopOnFailure {
			r.opts.Logger.Warn("stopping suite after failed step",
				zap.String("step", def.Name))
			break
		}
	}

	summary.DurationMS = summary.Duration.Milliseconds()
	liftMetrics(&summary)

	r.opts.Logger.Info("suite finished",
		zap.String("run_id", summary.RunID),
		zap.Bool("success", summary.Success),
		zap.Int("passed", summary.Passed),
		zap.Int("failed", summary.Failed))

	return summary
}

// liftMetrics copies the unit-test counts and coverage percentage out of the
// matching steps' verdicts. The match is by name, not by interpreter: the
// orchestrator does not care how the numbers were derived, only which steps
// surface them.
func liftMetrics(summary *report.SuiteSummary) {
	for _, result := range summary.Results {
		name := strings.ToLower(result.Name)
		switch {
		case strings.Contains(name, "unit test"):
			if v, ok := metricInt(result.Verdict.Metrics[report.MetricUnitTestsPassed]); ok {
				summary.UnitTests.Passed = v
			}
			if v, ok := metricInt(result.Verdict.Metrics[report.MetricUnitTestsTotal]); ok {
				summary.UnitTests.Total = v
			}
		case strings.Contains(name, "coverage"):
			if v, ok := metricFloat(result.Verdict.Metrics[report.MetricCoverage]); ok {
				pct := v
				summary.Coverage = &pct
			}
		}
	}
}

func metricInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func metricFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
