package patch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkforge/pkforge/internal/execx"
	"github.com/pkforge/pkforge/internal/fetch"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApplier(run execx.Runner) *Applier {
	return NewApplier(run, fetch.NewFetcher(), discard())
}

func TestFilename(t *testing.T) {
	tests := []struct {
		srcDir  string
		version string
		want    string
	}{
		{"foo-src", "1.2.3", "foo-src-1.2.3.patch"},
		{"/work/deps/bar", "0.9", "bar-0.9.patch"},
	}
	for _, tt := range tests {
		if got := Filename(tt.srcDir, tt.version); got != tt.want {
			t.Errorf("Filename(%q, %q) = %q, want %q", tt.srcDir, tt.version, got, tt.want)
		}
	}
}

func TestApplyNoPatchDirIsNoop(t *testing.T) {
	run := execx.NewFake()
	err := newTestApplier(run).Apply(context.Background(), "", t.TempDir(), "1.2.3")
	require.NoError(t, err)
	assert.Empty(t, run.Calls())
}

func TestApplyMissingPatchFileIsNoop(t *testing.T) {
	run := execx.NewFake()
	err := newTestApplier(run).Apply(context.Background(), t.TempDir(), t.TempDir(), "1.2.3")
	require.NoError(t, err)
	assert.Empty(t, run.Calls())
}

func TestApplyForward(t *testing.T) {
	patchDir := t.TempDir()
	srcDir := filepath.Join(t.TempDir(), "foo-src")
	require.NoError(t, os.MkdirAll(srcDir, 0755))
	patchPath := filepath.Join(patchDir, "foo-src-1.2.3.patch")
	require.NoError(t, os.WriteFile(patchPath, []byte("--- a/x\n+++ b/x\n"), 0644))

	run := execx.NewFake()
	// Reverse dry-run fails: the patch is not applied yet.
	run.Stub("patch -R", execx.Result{ExitCode: 1}, nil)

	err := newTestApplier(run).Apply(context.Background(), patchDir, srcDir, "1.2.3")
	require.NoError(t, err)

	calls := run.CallStrings()
	require.Len(t, calls, 2)
	assert.Equal(t, "patch -R -p1 --dry-run -i "+patchPath, calls[0])
	assert.Equal(t, "patch -p1 -i "+patchPath, calls[1])
}

func TestApplyAlreadyAppliedIsNoop(t *testing.T) {
	patchDir := t.TempDir()
	srcDir := filepath.Join(t.TempDir(), "foo-src")
	require.NoError(t, os.MkdirAll(srcDir, 0755))
	patchPath := filepath.Join(patchDir, "foo-src-1.2.3.patch")
	require.NoError(t, os.WriteFile(patchPath, []byte("--- a/x\n+++ b/x\n"), 0644))

	run := execx.NewFake()
	// Reverse dry-run succeeds: the patch is already in the tree.

	err := newTestApplier(run).Apply(context.Background(), patchDir, srcDir, "1.2.3")
	require.NoError(t, err)

	calls := run.CallStrings()
	require.Len(t, calls, 1, "second application must perform no write")
	assert.Contains(t, calls[0], "--dry-run")
}

func TestApplyForwardFailureIsFatal(t *testing.T) {
	patchDir := t.TempDir()
	srcDir := filepath.Join(t.TempDir(), "foo-src")
	require.NoError(t, os.MkdirAll(srcDir, 0755))
	patchPath := filepath.Join(patchDir, "foo-src-1.2.3.patch")
	require.NoError(t, os.WriteFile(patchPath, []byte("garbage"), 0644))

	run := execx.NewFake()
	run.Stub("patch -R", execx.Result{ExitCode: 1}, nil)
	run.Stub("patch -p1", execx.Result{ExitCode: 1, Stderr: "malformed patch"}, nil)

	err := newTestApplier(run).Apply(context.Background(), patchDir, srcDir, "1.2.3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed patch")
}
