package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Options configure a single command execution. Working directory and
// environment are always explicit so runs are reproducible; nothing is
// inherited implicitly beyond what the caller passes in Env.
type Options struct {
	Dir     string
	Shell   string
	Env     []string
	Timeout time.Duration
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *zap.Logger
	Now     func() time.Time
}

// Result is the raw outcome of one command execution. Spawn failures are
// folded in (Succeeded false, Err set) rather than returned as an error, so
// callers decide what failure means after interpretation.
type Result struct {
	Succeeded bool          `json:"succeeded"`
	ExitCode  int           `json:"exit_code"`
	Stdout    string        `json:"stdout,omitempty"`
	Stderr    string        `json:"stderr,omitempty"`
	Combined  string        `json:"combined,omitempty"`
	Elapsed   time.Duration `json:"-"`
	Err       string        `json:"error,omitempty"`
}

// Execute runs command through a shell, capturing output and timing. A
// Timeout of zero means no deadline; on timeout the result reports a command
// failure like any other non-zero exit.
func Execute(ctx context.Context, command string, opts Options) Result {
	opts = withDefaults(opts)

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	args := commandArgs(opts.Shell, command)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = opts.Dir
	cmd.Env = opts.Env

	var stdoutBuf, stderrBuf strings.Builder
	combined := &lockedBuffer{}
	if opts.Verbose {
		cmd.Stdout = io.MultiWriter(opts.Stdout, &stdoutBuf, combined)
		cmd.Stderr = io.MultiWriter(opts.Stderr, &stderrBuf, combined)
	} else {
		cmd.Stdout = io.MultiWriter(&stdoutBuf, combined)
		cmd.Stderr = io.MultiWriter(&stderrBuf, combined)
	}

	start := opts.Now()
	err := cmd.Run()
	elapsed := opts.Now().Sub(start)

	result := Result{
		Succeeded: err == nil,
		ExitCode:  exitCode(err),
		Stdout:    stdoutBuf.String(),
		Stderr:    stderrBuf.String(),
		Combined:  combined.String(),
		Elapsed:   elapsed,
	}
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			result.Err = fmt.Sprintf("command timed out after %s", opts.Timeout)
		} else {
			result.Err = err.Error()
		}
	}

	opts.Logger.Debug("command finished",
		zap.String("command", command),
		zap.Int("exit_code", result.ExitCode),
		zap.Duration("elapsed", elapsed))

	return result
}

func withDefaults(opts Options) Options {
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	if opts.Env == nil {
		opts.Env = os.Environ()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return opts
}

func commandArgs(shellSpec, script string) []string {
	if shellSpec == "" {
		if runtime.GOOS == "windows" {
			return []string{"cmd", "/C", script}
		}
		return []string{"bash", "-c", script}
	}

	fields := strings.Fields(shellSpec)
	shell := fields[0]
	args := append([]string{}, fields[1:]...)

	switch strings.ToLower(filepath.Base(shell)) {
	case "cmd", "cmd.exe":
		args = append(args, "/C", script)
	case "pwsh", "powershell", "powershell.exe":
		args = append(args, "-Command", script)
	default:
		args = append(args, "-c", script)
	}
	return append([]string{shell}, args...)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(interface{ ExitStatus() int }); ok {
			return status.ExitStatus()
		}
		return exitErr.ExitCode()
	}
	return 1
}

// MergeEnv flattens base KEY=VALUE pairs with override maps applied in order,
// returning a sorted environment slice.
func MergeEnv(base []string, overlays ...map[string]string) []string {
	envMap := make(map[string]string, len(base)+len(overlays)*4)
	for _, kv := range base {
		if idx := strings.Index(kv, "="); idx != -1 {
			envMap[kv[:idx]] = kv[idx+1:]
		}
	}
	for _, overlay := range overlays {
		for k, v := range overlay {
			envMap[k] = v
		}
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s=%s", k, envMap[k]))
	}
	return out
}

// Tail returns at most the last maxLines lines of input.
func Tail(input string, maxLines int) string {
	if input == "" {
		return ""
	}
	lines := strings.Split(strings.TrimRight(input, "\n"), "\n")
	if len(lines) <= maxLines {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[len(lines)-maxLines:], "\n")
}

// lockedBuffer keeps interleaved stdout/stderr writes safe; exec.Cmd copies
// each stream from its own goroutine when writers differ.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
