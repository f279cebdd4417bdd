// Package driver runs the build pipeline for one package: identity
// checks, override resolution, phase dispatch in fixed order, and the
// guaranteed working-directory restore.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkforge/pkforge/internal/builder"
	"github.com/pkforge/pkforge/internal/config"
	"github.com/pkforge/pkforge/internal/execx"
	"github.com/pkforge/pkforge/internal/fetch"
	"github.com/pkforge/pkforge/internal/overrides"
	"github.com/pkforge/pkforge/internal/patch"
	"github.com/pkforge/pkforge/internal/phase"
	"github.com/pkforge/pkforge/internal/repoindex"
	"github.com/pkforge/pkforge/internal/report"
	"github.com/pkforge/pkforge/internal/source"
)

// Driver executes builds and requirement iterations for one Options set.
type Driver struct {
	opts *config.Options
	run  execx.Runner
	log  *slog.Logger
}

// New creates a driver.
func New(opts *config.Options, run execx.Runner, log *slog.Logger) *Driver {
	return &Driver{opts: opts, run: run, log: log}
}

// Build runs the phase pipeline. A missing package name or version is
// not an error: the driver is routinely invoked for filtered entries of
// a larger batch and must stay silent for them.
func (d *Driver) Build(ctx context.Context) error {
	id := d.opts.Identity()
	if id.Incomplete() {
		d.log.Debug("package identity incomplete, nothing to do")
		return nil
	}

	d.pinPaths()
	if err := d.applyRepoIndex(id.Name); err != nil {
		return err
	}

	fetcher := fetch.NewFetcher()
	base := &phase.Base{
		Acquirer: source.NewAcquirer(d.run, fetcher, d.log),
		Patches:  patch.NewApplier(d.run, fetcher, d.log),
	}
	registry := builder.NewRegistry(base)
	actions, ok := registry.Lookup(builder.Kind(id.Builder))
	if !ok {
		// No default table row for this kind: phases without an
		// override fall through to the builder-independent defaults.
		d.log.Warn("no builder defaults for kind", "builder", id.Builder)
		actions = base
	}

	ovr, err := overrides.Load(d.opts.OverridesFile)
	if err != nil {
		return err
	}
	if len(ovr) > 0 {
		d.log.Info("project overrides loaded", "file", d.opts.OverridesFile, "count", len(ovr))
	}

	disp := phase.NewDispatcher(actions, ovr, d.log)
	pc := &phase.Context{
		Ctx:  ctx,
		Opts: d.opts,
		Pkg:  id,
		Run:  d.run,
		Log:  d.log,
	}

	d.log.Info("starting build",
		"package", id.Qualified(), "version", id.Version, "builder", id.Builder)

	var wd *source.Workdir
	defer func() {
		if err := wd.Release(); err != nil {
			d.log.Error("restoring working directory", "err", err)
		}
	}()

	for _, p := range phase.Order {
		if err := disp.Dispatch(pc, p); err != nil {
			return fmt.Errorf("phase %s: %w", p, err)
		}
		if p == phase.GetSource && wd == nil {
			wd, err = d.enterCheckout(pc)
			if err != nil {
				return err
			}
		}
	}

	d.log.Info("build finished", "package", id.Qualified(), "artifact", pc.PackageFile)
	return d.appendReport(pc)
}

// pinPaths resolves relative path options against the invocation
// directory. Get-source changes the working directory, so anything
// left relative would resolve against the checkout in later phases.
// A remote patch dir is a URL prefix, not a path.
func (d *Driver) pinPaths() {
	d.opts.SrcDir = absPath(d.opts.SrcDir)
	d.opts.OutDir = absPath(d.opts.OutDir)
	d.opts.ReportFile = absPath(d.opts.ReportFile)
	if !strings.HasPrefix(d.opts.PatchDir, "http://") &&
		!strings.HasPrefix(d.opts.PatchDir, "https://") {
		d.opts.PatchDir = absPath(d.opts.PatchDir)
	}
}

func absPath(p string) string {
	if p == "" {
		return p
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// enterCheckout moves the process into the checkout for the remaining
// phases. The guard restores the previous directory at the end of the
// run no matter which later phase fails.
func (d *Driver) enterCheckout(pc *phase.Context) (*source.Workdir, error) {
	dir := pc.Checkout.Dir
	if dir == "" || pc.Checkout.Missing {
		return nil, nil
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, nil
	}
	return source.EnterDir(dir)
}

// applyRepoIndex fills in repository coordinates from the repo index
// when PROJECT_REPO is unset for this package.
func (d *Driver) applyRepoIndex(name string) error {
	if d.opts.Repo != "" || d.opts.RepoIndexFile == "" {
		return nil
	}
	idx, err := repoindex.Load(d.opts.RepoIndexFile)
	if err != nil {
		return err
	}
	entry, ok := idx.Lookup(name)
	if !ok {
		d.log.Debug("package not in repo index", "package", name)
		return nil
	}

	d.opts.Repo = entry.Repo
	if entry.RepotagType != "" {
		d.opts.RepotagType = entry.RepotagType
	}
	if entry.RepotagRegex != "" {
		d.opts.RepotagRegex = entry.RepotagRegex
	}
	if entry.RepotagReplacement != "" {
		d.opts.RepotagReplace = entry.RepotagReplacement
	}
	if entry.Submodule {
		d.opts.Submodule = true
	}
	if entry.SubmoduleRecursive {
		d.opts.SubmoduleRecurse = true
	}
	d.log.Debug("resolved repo from index", "package", name, "repo", entry.Repo)
	return nil
}

func (d *Driver) appendReport(pc *phase.Context) error {
	if d.opts.ReportFile == "" {
		return nil
	}
	r := report.Record{
		Name:     pc.Pkg.DisplayName() + "-" + pc.Pkg.DisplayVersion(),
		Builder:  pc.Pkg.Builder,
		Repotag:  pc.Checkout.Repotag,
		Artifact: pc.PackageFile,
	}
	return report.Append(d.opts.ReportFile, r)
}
