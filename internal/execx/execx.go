// Package execx abstracts external tool invocation so that build phases
// can be exercised in tests without the underlying tools installed.
package execx

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Cmd describes one external tool invocation.
type Cmd struct {
	Name string
	Args []string
	Dir  string   // working directory, empty means the process's own
	Env  []string // extra KEY=VALUE entries appended to the environment
}

// String renders the invocation for logging.
func (c Cmd) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result is the outcome of a completed invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the command exited zero.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Runner executes external commands.
type Runner interface {
	Run(ctx context.Context, c Cmd) (Result, error)
}

// System runs commands on the host via os/exec.
type System struct{}

// NewSystem creates a host runner.
func NewSystem() *System {
	return &System{}
}

// Run executes the command and returns its captured output. A non-zero
// exit is reported through Result.ExitCode, not through the error.
func (s *System) Run(ctx context.Context, c Cmd) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(cmd.Environ(), c.Env...)
	}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}
	return result, nil
}

var _ Runner = (*System)(nil)

// ExitError converts a failed Result into an error, or nil on success.
func ExitError(c Cmd, r Result) error {
	if r.Success() {
		return nil
	}
	msg := strings.TrimSpace(r.Stderr)
	if msg == "" {
		msg = strings.TrimSpace(r.Stdout)
	}
	if msg != "" {
		return fmt.Errorf("%s: exit status %d: %s", c.Name, r.ExitCode, msg)
	}
	return fmt.Errorf("%s: exit status %d", c.Name, r.ExitCode)
}
