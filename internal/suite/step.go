// Package suite executes an ordered list of named verification steps and
// folds their interpreted outcomes into one summary.
package suite

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/bgricker/qualgate/internal/executor"
	"github.com/bgricker/qualgate/internal/interpret"
	"github.com/bgricker/qualgate/internal/report"
)

// Definition names one verification step. Name must be unique within a run;
// Interpret is optional and defaults to judging by exit status alone.
type Definition struct {
	Name      string
	Command   string
	Interpret interpret.Func
}

// Options configure how the runner executes steps.
type Options struct {
	Dir           string
	Shell         string
	Env           []string
	StepTimeout   time.Duration
	Verbose       bool
	StopOnFailure bool
	TailLines     int
	Stdout        io.Writer
	Stderr        io.Writer
	Logger        *zap.Logger
	Now           func() time.Time
}

// Runner executes suite steps sequentially. Steps never run concurrently:
// later steps read filesystem artifacts written by earlier ones, and
// interleaved console output would break text interpretation.
type Runner struct {
	opts Options
}

// New creates a runner with the supplied options.
func New(opts Options) *Runner {
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	if opts.TailLines <= 0 {
		opts.TailLines = 20
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{opts: opts}
}

// RunStep executes one step and applies its interpreter. The command is
// always executed to completion regardless of exit status; the interpreter,
// not the raw status, decides whether the step succeeded.
func (r *Runner) RunStep(ctx context.Context, def Definition) report.StepResult {
	r.opts.Logger.Info("running step",
		zap.String("step", def.Name),
		zap.String("command", def.Command))

	exec := executor.Execute(ctx, def.Command, executor.Options{
		Dir:     r.opts.Dir,
		Shell:   r.opts.Shell,
		Env:     r.opts.Env,
		Timeout: r.opts.StepTimeout,
		Verbose: r.opts.Verbose,
		Stdout:  r.opts.Stdout,
		Stderr:  r.opts.Stderr,
		Logger:  r.opts.Logger,
		Now:     r.opts.Now,
	})

	verdict := report.Verdict{Valid: exec.Succeeded}
	if def.Interpret != nil {
		verdict = applyInterpreter(def.Interpret, exec.Combined, exec)
	}

	result := report.StepResult{
		Name:       def.Name,
		Command:    def.Command,
		Succeeded:  verdict.Valid,
		Duration:   exec.Elapsed,
		DurationMS: exec.Elapsed.Milliseconds(),
		Output:     exec.Combined,
		Verdict:    verdict,
	}

	if result.Succeeded {
		r.opts.Logger.Info("step passed",
			zap.String("step", def.Name),
			zap.Duration("elapsed", exec.Elapsed))
		return result
	}

	result.Err = verdict.Err
	if result.Err == "" {
		result.Err = exec.Err
	}
	if result.Err == "" {
		result.Err = "Test failed"
	}
	result.Output = executor.Tail(result.Output, r.opts.TailLines)
	r.opts.Logger.Warn("step failed",
		zap.String("step", def.Name),
		zap.String("error", result.Err))
	return result
}

// applyInterpreter contains interpreter panics; a crashing interpreter must
// never abort the suite.
func applyInterpreter(fn interpret.Func, output string, exec executor.Result) (verdict report.Verdict) {
	defer func() {
		if p := recover(); p != nil {
			verdict = report.Verdict{
				Err: fmt.Sprintf("Validator function threw an error: %v", p),
			}
		}
	}()
	return fn(output, exec)
}
