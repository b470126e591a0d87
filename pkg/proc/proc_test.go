package proc

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

func requireShell(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not found")
	}
	return sh
}

func TestExecRunnerExitCode(t *testing.T) {
	sh := requireShell(t)

	tests := []struct {
		script string
		want   int
	}{
		{"exit 0", 0},
		{"exit 3", 3},
		{"exit 42", 42},
	}
	for _, tt := range tests {
		code, err := ExecRunner{}.Run(context.Background(), Command{Path: sh, Args: []string{"-c", tt.script}})
		if err != nil {
			t.Errorf("Run(%q) error: %v", tt.script, err)
		}
		if code != tt.want {
			t.Errorf("Run(%q) = %d, want %d", tt.script, code, tt.want)
		}
	}
}

func TestExecRunnerStdio(t *testing.T) {
	sh := requireShell(t)

	var out bytes.Buffer
	r := ExecRunner{Stdout: &out, Stderr: &out}

	if _, err := r.Run(context.Background(), Command{Path: sh, Args: []string{"-c", "echo hidden"}, Stdio: Discard}); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("discarded output leaked: %q", out.String())
	}

	if _, err := r.Run(context.Background(), Command{Path: sh, Args: []string{"-c", "echo shown"}, Stdio: Inherit}); err != nil {
		t.Fatal(err)
	}
	if out.String() != "shown\n" {
		t.Errorf("inherited output = %q, want %q", out.String(), "shown\n")
	}
}

func TestExecRunnerDirAndEnv(t *testing.T) {
	sh := requireShell(t)
	dir := t.TempDir()

	var out bytes.Buffer
	r := ExecRunner{Stdout: &out}
	c := Command{
		Path:  sh,
		Args:  []string{"-c", `printf "%s|%s" "$(pwd -P)" "$GREETING"`},
		Dir:   dir,
		Env:   []string{"GREETING=hi"},
		Stdio: Inherit,
	}
	if _, err := r.Run(context.Background(), c); err != nil {
		t.Fatal(err)
	}
	resolved, _ := filepath.EvalSymlinks(dir)
	if want := resolved + "|hi"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestExecRunnerStartFailure(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), Command{Path: filepath.Join(t.TempDir(), "missing")})
	if err == nil {
		t.Error("Run() of a missing binary should fail")
	}
}

func TestExecRunnerCanceled(t *testing.T) {
	sh := requireShell(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ExecRunner{}.Run(ctx, Command{Path: sh, Args: []string{"-c", "sleep 5"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

type stubRunner struct {
	code int
	err  error
}

func (s stubRunner) Run(context.Context, Command) (int, error) { return s.code, s.err }

func TestRunBestEffort(t *testing.T) {
	c := Command{Path: "yarn", Args: []string{"install"}}

	ok := RunBestEffort(context.Background(), stubRunner{}, c)
	if ok.Failed() {
		t.Errorf("clean step reported failure: %+v", ok)
	}

	nonzero := RunBestEffort(context.Background(), stubRunner{code: 1}, c)
	if !nonzero.Failed() || nonzero.ExitCode != 1 {
		t.Errorf("non-zero step = %+v", nonzero)
	}

	broken := RunBestEffort(context.Background(), stubRunner{code: -1, err: errors.New("boom")}, c)
	if !broken.Failed() {
		t.Error("start failure should be reported as failed")
	}
	if broken.Command.String() != "yarn install" {
		t.Errorf("Command = %q", broken.Command)
	}
}
