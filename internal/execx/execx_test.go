package execx

import (
	"context"
	"strings"
	"testing"
)

func TestSystemRun(t *testing.T) {
	run := NewSystem()

	res, err := run.Run(context.Background(), Cmd{Name: "sh", Args: []string{"-c", "echo hello"}})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success() {
		t.Fatalf("exit code = %d", res.ExitCode)
	}
	if strings.TrimSpace(res.Stdout) != "hello" {
		t.Errorf("stdout = %q", res.Stdout)
	}
}

func TestSystemRunNonZeroExit(t *testing.T) {
	run := NewSystem()

	res, err := run.Run(context.Background(), Cmd{Name: "sh", Args: []string{"-c", "echo oops >&2; exit 3"}})
	if err != nil {
		t.Fatalf("non-zero exit must not be an error: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", res.ExitCode)
	}
	if strings.TrimSpace(res.Stderr) != "oops" {
		t.Errorf("stderr = %q", res.Stderr)
	}
}

func TestSystemRunDirAndEnv(t *testing.T) {
	dir := t.TempDir()
	run := NewSystem()

	res, err := run.Run(context.Background(), Cmd{
		Name: "sh",
		Args: []string{"-c", "pwd; printf '%s' \"$PKG_NAME\""},
		Dir:  dir,
		Env:  []string{"PKG_NAME=foo"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Stdout, "foo") {
		t.Errorf("env var not visible: %q", res.Stdout)
	}
}

func TestExitError(t *testing.T) {
	c := Cmd{Name: "git", Args: []string{"clone"}}

	if err := ExitError(c, Result{ExitCode: 0}); err != nil {
		t.Errorf("success produced error: %v", err)
	}

	err := ExitError(c, Result{ExitCode: 128, Stderr: "fatal: repository not found"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "repository not found") {
		t.Errorf("error lacks stderr detail: %v", err)
	}
}

func TestFakeStubMatching(t *testing.T) {
	f := NewFake()
	f.Stub("git clone", Result{ExitCode: 128}, nil)

	res, err := f.Run(context.Background(), Cmd{Name: "git", Args: []string{"clone", "x"}})
	if err != nil {
		t.Fatal(err)
	}
	if res.ExitCode != 128 {
		t.Errorf("stub not matched, exit = %d", res.ExitCode)
	}

	res, err = f.Run(context.Background(), Cmd{Name: "git", Args: []string{"init"}})
	if err != nil || !res.Success() {
		t.Errorf("unmatched command should succeed: %v %d", err, res.ExitCode)
	}

	if len(f.Calls()) != 2 {
		t.Errorf("calls = %d, want 2", len(f.Calls()))
	}
}
