package manifest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkforge/pkforge/internal/execx"
)

// ErrorPolicy decides what a per-entry command failure does to the
// remaining entries.
type ErrorPolicy string

const (
	// Abort stops at the first failing entry (fail-fast, the default).
	Abort ErrorPolicy = "abort"
	// Continue reports the failure and keeps iterating; the first
	// failure is returned after the loop completes.
	Continue ErrorPolicy = "continue"
)

// ParsePolicy maps a configuration string to a policy, defaulting to
// Abort for anything unrecognized.
func ParsePolicy(s string) ErrorPolicy {
	if s == string(Continue) {
		return Continue
	}
	return Abort
}

// ForEach runs the command template once per entry with each entry's
// fields exported as prefixed variables. The variable set is computed
// from scratch per entry, so no assignment leaks between entries. An
// empty command template is an immediate successful no-op.
func ForEach(ctx context.Context, run execx.Runner, log *slog.Logger,
	command, prefix string, policy ErrorPolicy, entries []Entry) error {

	if command == "" {
		return nil
	}

	var firstErr error
	for i, e := range entries {
		env := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			env = append(env, f.Var(prefix))
		}

		c := execx.Cmd{Name: "sh", Args: []string{"-c", command}, Env: env}
		res, err := run.Run(ctx, c)
		if err == nil {
			err = execx.ExitError(c, res)
		}
		if err != nil {
			err = fmt.Errorf("entry %d: %w", i, err)
			log.Error("per-entry command failed", "entry", i, "err", err)
			if policy == Abort {
				return err
			}
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// ForEachLine runs the command template once per flat-manifest row with
// the row's tokens as positional arguments.
func ForEachLine(ctx context.Context, run execx.Runner, log *slog.Logger,
	command string, policy ErrorPolicy, rows [][]string) error {

	if command == "" {
		return nil
	}

	var firstErr error
	for i, tokens := range rows {
		args := append([]string{"-c", command + ` "$@"`, "pkforge-foreach"}, tokens...)
		c := execx.Cmd{Name: "sh", Args: args}
		res, err := run.Run(ctx, c)
		if err == nil {
			err = execx.ExitError(c, res)
		}
		if err != nil {
			err = fmt.Errorf("line %d: %w", i, err)
			log.Error("per-entry command failed", "line", i, "err", err)
			if policy == Abort {
				return err
			}
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
