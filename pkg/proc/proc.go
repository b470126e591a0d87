// Package proc launches package-manager subprocesses.
//
// Two result types keep the error policy visible at call sites. Setup steps
// (init, add, unplug, install) produce a [BestEffort] whose failure is
// logged and otherwise ignored. The final tool invocation produces a
// [Result] whose exit code is handed back to the caller.
package proc

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Stdio selects what a child process sees on its standard streams.
type Stdio int

const (
	// Discard connects stdin, stdout and stderr to the null device.
	Discard Stdio = iota
	// Inherit connects the child to the runner's streams.
	Inherit
)

func (s Stdio) String() string {
	if s == Inherit {
		return "inherit"
	}
	return "discard"
}

type Command struct {
	Path string
	Args []string
	Dir  string
	// Env is the complete environment. Nil means the current process's.
	Env   []string
	Stdio Stdio
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// Runner starts a command and waits for it. err is non-nil only when the
// process could not be started or waited for; a non-zero exit is reported
// through exitCode.
type Runner interface {
	Run(ctx context.Context, cmd Command) (exitCode int, err error)
}

// ExecRunner runs commands with os/exec. Zero-valued streams default to the
// process's own stdin, stdout and stderr.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (r ExecRunner) Run(ctx context.Context, c Command) (int, error) {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env

	if c.Stdio == Inherit {
		cmd.Stdin = orReader(r.Stdin, os.Stdin)
		cmd.Stdout = orWriter(r.Stdout, os.Stdout)
		cmd.Stderr = orWriter(r.Stderr, os.Stderr)
	}

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	if ctx.Err() != nil {
		return -1, ctx.Err()
	}
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("%s: %w", c.Path, err)
}

func orReader(r, def io.Reader) io.Reader {
	if r != nil {
		return r
	}
	return def
}

func orWriter(w, def io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return def
}

// BestEffort is the outcome of a setup step whose failure does not stop the
// workflow. Problems surface later, when the installed tool is invoked.
type BestEffort struct {
	Command  Command
	ExitCode int
	Err      error
}

// Failed reports whether the step did not complete cleanly.
func (b BestEffort) Failed() bool {
	return b.Err != nil || b.ExitCode != 0
}

// RunBestEffort runs c and records the outcome without judging it.
func RunBestEffort(ctx context.Context, r Runner, c Command) BestEffort {
	code, err := r.Run(ctx, c)
	return BestEffort{Command: c, ExitCode: code, Err: err}
}

// Result is the checked outcome of the final tool invocation.
type Result struct {
	Command  Command
	ExitCode int
}

// Success reports a zero exit code.
func (r Result) Success() bool { return r.ExitCode == 0 }
