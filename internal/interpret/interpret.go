// Package interpret turns raw verification-tool output into normalized
// verdicts. Tool console formats drift across versions and platforms, so each
// concern is handled by an ordered chain of independent strategies; a strategy
// returns nil when it cannot apply and the driver moves on. Chains always
// terminate in a parsed, an estimated, or an explicit-failure verdict.
package interpret

import (
	"github.com/bgricker/qualgate/internal/executor"
	"github.com/bgricker/qualgate/internal/report"
)

// Func is the contract every interpreter satisfies: raw combined output plus
// the execution result in, one Verdict out. Implementations must not panic;
// the step runner contains panics but treats them as interpreter failures.
type Func func(output string, exec executor.Result) report.Verdict

// strategy attempts one way of reading tool output. A nil return means the
// strategy could not apply and the next one should be tried.
type strategy func(output string, exec executor.Result) *report.Verdict

func runChain(output string, exec executor.Result, strategies []strategy, fallback func(executor.Result) report.Verdict) report.Verdict {
	for _, s := range strategies {
		if v := s(output, exec); v != nil {
			return *v
		}
	}
	return fallback(exec)
}
