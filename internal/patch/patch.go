// Package patch conditionally applies a unified diff to a checkout,
// guarding idempotence with a reverse dry-run.
package patch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/pkforge/pkforge/internal/execx"
	"github.com/pkforge/pkforge/internal/fetch"
)

// Applier applies version-keyed patches to source trees.
type Applier struct {
	run     execx.Runner
	fetcher *fetch.Fetcher
	log     *slog.Logger
}

// NewApplier creates an applier.
func NewApplier(run execx.Runner, fetcher *fetch.Fetcher, log *slog.Logger) *Applier {
	return &Applier{run: run, fetcher: fetcher, log: log}
}

// Filename derives the patch filename for a source directory and version.
func Filename(srcDir, version string) string {
	return fmt.Sprintf("%s-%s.patch", filepath.Base(srcDir), version)
}

// Apply looks for the derived patch file under patchDir and applies it
// to srcDir at most once. No patch file present is a no-op. When
// patchDir is an http(s) URL prefix the patch is fetched into the local
// cache first.
func (a *Applier) Apply(ctx context.Context, patchDir, srcDir, version string) error {
	if patchDir == "" {
		return nil
	}

	name := Filename(srcDir, version)
	path, err := a.localize(ctx, patchDir, name)
	if err != nil {
		return err
	}
	if path == "" {
		a.log.Debug("no patch file", "patch", name)
		return nil
	}

	// Reverse dry-run succeeding means the patch is already in the tree.
	reverse := execx.Cmd{
		Name: "patch",
		Args: []string{"-R", "-p1", "--dry-run", "-i", path},
		Dir:  srcDir,
	}
	res, err := a.run.Run(ctx, reverse)
	if err != nil {
		return fmt.Errorf("checking patch %s: %w", name, err)
	}
	if res.Success() {
		a.log.Info("patch already applied", "patch", name)
		return nil
	}

	forward := execx.Cmd{
		Name: "patch",
		Args: []string{"-p1", "-i", path},
		Dir:  srcDir,
	}
	res, err = a.run.Run(ctx, forward)
	if err != nil {
		return fmt.Errorf("applying patch %s: %w", name, err)
	}
	if err := execx.ExitError(forward, res); err != nil {
		return fmt.Errorf("applying patch %s: %w", name, err)
	}
	a.log.Info("patch applied", "patch", name)
	return nil
}

// localize resolves the patch file to a local path, fetching it when the
// patch dir is remote. Returns "" when the patch does not exist.
func (a *Applier) localize(ctx context.Context, patchDir, name string) (string, error) {
	if u, err := url.Parse(patchDir); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		cachePath := filepath.Join(os.TempDir(), "pkforge-cache", "patches", name)
		if err := a.fetcher.Fetch(ctx, patchDir+"/"+name, cachePath); err != nil {
			a.log.Debug("remote patch not available", "patch", name, "err", err)
			return "", nil
		}
		return cachePath, nil
	}

	path := filepath.Join(patchDir, name)
	if _, err := os.Stat(path); err != nil {
		return "", nil
	}
	return path, nil
}
