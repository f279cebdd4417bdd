package manifest

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkforge/pkforge/internal/execx"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func twoEntries() []Entry {
	return []Entry{
		{Fields: []Field{{"package", "foo"}, {"version", "1.2.3"}, {"repo", "https://example.com/foo.git"}}},
		{Fields: []Field{{"package", "bar"}, {"version", "0.9"}}},
	}
}

func TestForEachInvokesPerEntry(t *testing.T) {
	run := execx.NewFake()
	err := ForEach(context.Background(), run, discard(), "pkforge build", "PKG_", Abort, twoEntries())
	require.NoError(t, err)

	calls := run.Calls()
	require.Len(t, calls, 2)

	assert.Equal(t, []string{
		"PKG_PACKAGE=foo",
		"PKG_VERSION=1.2.3",
		"PKG_REPO=https://example.com/foo.git",
	}, calls[0].Env)

	// Entry 2's variable set must carry no residue from entry 1.
	assert.Equal(t, []string{
		"PKG_PACKAGE=bar",
		"PKG_VERSION=0.9",
	}, calls[1].Env)

	for _, c := range calls {
		assert.Equal(t, "sh", c.Name)
		assert.Equal(t, []string{"-c", "pkforge build"}, c.Args)
	}
}

func TestForEachEmptyCommandIsNoop(t *testing.T) {
	run := execx.NewFake()
	require.NoError(t, ForEach(context.Background(), run, discard(), "", "PKG_", Abort, twoEntries()))
	assert.Empty(t, run.Calls())
}

func TestForEachAbortStopsAtFirstFailure(t *testing.T) {
	run := execx.NewFake()
	run.Stub("sh", execx.Result{ExitCode: 2, Stderr: "build failed"}, nil)

	err := ForEach(context.Background(), run, discard(), "pkforge build", "PKG_", Abort, twoEntries())
	require.Error(t, err)
	assert.Len(t, run.Calls(), 1)
}

func TestForEachContinueRunsAllEntries(t *testing.T) {
	run := execx.NewFake()
	run.Stub("sh", execx.Result{ExitCode: 2, Stderr: "build failed"}, nil)

	err := ForEach(context.Background(), run, discard(), "pkforge build", "PKG_", Continue, twoEntries())
	require.Error(t, err, "first failure is still reported after the loop")
	assert.Len(t, run.Calls(), 2)
}

func TestForEachLinePositionalArgs(t *testing.T) {
	run := execx.NewFake()
	rows := [][]string{{"foo", "1.2.3"}, {"bar", "0.9"}}

	err := ForEachLine(context.Background(), run, discard(), "build-dep", Abort, rows)
	require.NoError(t, err)

	calls := run.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"-c", `build-dep "$@"`, "pkforge-foreach", "foo", "1.2.3"}, calls[0].Args)
	assert.Equal(t, []string{"-c", `build-dep "$@"`, "pkforge-foreach", "bar", "0.9"}, calls[1].Args)
}

func TestParsePolicy(t *testing.T) {
	assert.Equal(t, Continue, ParsePolicy("continue"))
	assert.Equal(t, Abort, ParsePolicy("abort"))
	assert.Equal(t, Abort, ParsePolicy(""))
	assert.Equal(t, Abort, ParsePolicy("bogus"))
}
