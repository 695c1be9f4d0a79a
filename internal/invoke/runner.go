// Package invoke executes external benchmark programs under a per-run
// timeout and an optional process-wide memory ceiling, surfacing
// distinguishable failures for timeouts, nonzero exits, and resource
// problems.
package invoke

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long Wait drains the output pipes after the child
// dies. Sweep entry points are usually shell wrappers whose grandchildren
// inherit the pipes; without this bound a killed wrapper would leave
// Invoke blocked until the grandchild exits.
const waitDelay = 5 * time.Second

// CommandSpec describes one invocation: command, arguments, extra
// environment, working directory, and the per-run timeout.
type CommandSpec struct {
	Command string
	Args    []string
	Env     map[string]string
	Dir     string
	Timeout time.Duration
}

// String renders the spec for error messages and logs.
func (s CommandSpec) String() string {
	if len(s.Args) == 0 {
		return s.Command
	}
	return s.Command + " " + strings.Join(s.Args, " ")
}

// Result carries the captured output of a completed invocation.
type Result struct {
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Invoker runs external commands. The orchestrator depends on this
// interface so sweeps can be simulated in tests.
type Invoker interface {
	Invoke(ctx context.Context, spec CommandSpec) (Result, error)
}

// Runner is the real Invoker backed by os/exec.
type Runner struct {
	teeStderr bool
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithStderrTee forwards child stderr to this process's stderr while
// capturing it, so live progress lines from benchmark programs stay
// visible during long sweeps.
func WithStderrTee(enabled bool) RunnerOption {
	return func(r *Runner) {
		r.teeStderr = enabled
	}
}

// NewRunner creates a process runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Invoke runs the command and blocks until it exits or a deadline fires.
// Exceeding the per-run timeout terminates the child and returns a
// *TimeoutError; cancellation of the parent context (the pipeline-wide
// deadline) propagates as that context's error instead. A nonzero exit
// returns *ExitError. Either way the caller regains control
// synchronously, within WaitDelay of the deadline even when a forked
// grandchild inherited the output pipes.
func (r *Runner) Invoke(ctx context.Context, spec CommandSpec) (Result, error) {
	runCtx := ctx
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, spec.Command, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = mergedEnv(spec.Env)
	cmd.WaitDelay = waitDelay

	// Capture through Stdout/Stderr writers, not StdoutPipe: WaitDelay
	// only force-closes the pipes from inside Wait, so the drain must be
	// Wait's, not ours.
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	var stderrW io.Writer = &errBuf
	if r.teeStderr {
		stderrW = io.MultiWriter(&errBuf, os.Stderr)
	}
	cmd.Stderr = stderrW

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("starting %s: %w", spec.Command, err)
	}

	waitErr := cmd.Wait()

	res := Result{
		Stdout:   outBuf.String(),
		Stderr:   errBuf.String(),
		Duration: time.Since(start),
	}

	if waitErr != nil {
		// Distinguish the per-run deadline from pipeline-wide cancellation:
		// only the former degrades to a droppable sample.
		if runCtx.Err() != nil && ctx.Err() == nil {
			return res, &TimeoutError{
				Command: spec.String(),
				Timeout: spec.Timeout,
				Stdout:  res.Stdout,
				Stderr:  res.Stderr,
			}
		}
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return res, &ExitError{
				Command: spec.String(),
				Code:    exitErr.ExitCode(),
				Stdout:  res.Stdout,
				Stderr:  res.Stderr,
			}
		}
		if errors.Is(waitErr, exec.ErrWaitDelay) {
			// The child itself exited zero; only an inherited pipe stayed
			// open past WaitDelay. Output is complete up to the cutoff.
			return res, nil
		}
		return res, fmt.Errorf("running %s: %w", spec.Command, waitErr)
	}

	return res, nil
}

// mergedEnv layers extra variables over the inherited environment.
func mergedEnv(extra map[string]string) []string {
	if len(extra) == 0 {
		return nil // exec falls back to the parent environment
	}
	env := os.Environ()
	for k, v := range extra {
		env = append(env, k+"="+v)
	}
	return env
}
