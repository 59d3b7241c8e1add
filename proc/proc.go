// Package proc runs one external program under a wall-clock deadline and
// classifies how it ended.
//
// Each invocation moves through pending -> running -> one of three terminal
// states:
//
//   - completed: the process exited zero before the deadline
//   - timed-out: the deadline elapsed and the process was terminated
//   - failed:    the process exited non-zero for any other reason
//
// Termination propagates to the child and its process group; sibling
// invocations are unaffected. There is no retry at this layer.
package proc

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// killWaitDelay bounds how long Run waits for the output pipes to close
// after the child has been killed or has exited.
const killWaitDelay = 5 * time.Second

// Status is the terminal state of one invocation.
type Status int

const (
	// StatusCompleted means the process exited zero before the deadline.
	StatusCompleted Status = iota
	// StatusTimedOut means the deadline elapsed and the process was killed.
	StatusTimedOut
	// StatusFailed means the process exited non-zero or could not run.
	StatusFailed
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusTimedOut:
		return "timed-out"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Invocation describes one bounded external-program run.
type Invocation struct {
	// Path is the program to run, resolved via PATH if not absolute.
	Path string

	// Args are the program arguments, excluding the program name.
	Args []string

	// Env entries ("KEY=value") are appended to the current process
	// environment for the child. Later entries win.
	Env []string

	// Dir is the working directory; empty means inherit.
	Dir string

	// Timeout bounds the run. Zero means no deadline beyond ctx.
	Timeout time.Duration

	// Logger receives per-invocation debug diagnostics.
	Logger zerolog.Logger
}

// Result reports how an invocation ended.
type Result struct {
	// ID correlates log lines for this invocation.
	ID string

	// Status tags the terminal state.
	Status Status

	// Stdout and Stderr are the captured output streams.
	Stdout string
	Stderr string

	// ExitCode is the process exit code, or -1 when the process did not
	// run to completion.
	ExitCode int

	// Err is the underlying error for StatusFailed, nil otherwise.
	Err error

	// Duration is the wall-clock run time.
	Duration time.Duration
}

// Run executes the invocation and blocks until a terminal state.
//
// A deadline hit (from inv.Timeout or an already-bounded ctx) classifies as
// StatusTimedOut; any other non-zero exit classifies as StatusFailed.
func Run(ctx context.Context, inv Invocation) Result {
	id := "inv_" + uuid.NewString()[:8]

	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, inv.Path, inv.Args...)
	cmd.Dir = inv.Dir
	if len(inv.Env) > 0 {
		cmd.Env = append(os.Environ(), inv.Env...)
	}

	// Engines fork helpers that inherit the output pipes. Killing only the
	// direct child would leave those helpers holding the pipes open and
	// block Run past the deadline, so cancellation targets the whole
	// process group, with WaitDelay as the backstop for anything that
	// survives the kill.
	setProcessGroup(cmd)
	cmd.WaitDelay = killWaitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	inv.Logger.Debug().
		Str("invocation", id).
		Str("program", inv.Path).
		Strs("args", inv.Args).
		Dur("timeout", inv.Timeout).
		Msg("spawning external program")

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	res := Result{
		ID:       id,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: -1,
		Duration: elapsed,
	}

	switch {
	case err == nil:
		res.Status = StatusCompleted
		res.ExitCode = 0

	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.Status = StatusTimedOut

	default:
		res.Status = StatusFailed
		res.Err = err
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		}
	}

	inv.Logger.Debug().
		Str("invocation", id).
		Stringer("status", res.Status).
		Int("exit_code", res.ExitCode).
		Dur("elapsed", elapsed).
		Msg("external program finished")

	return res
}
