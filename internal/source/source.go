// Package source resolves a package version into a repository ref and
// materializes an idempotent local checkout of it.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/pkforge/pkforge/internal/execx"
	"github.com/pkforge/pkforge/internal/fetch"
	"github.com/pkforge/pkforge/internal/pkgid"
)

// Request describes one acquisition.
type Request struct {
	Repo        string
	RepotagType pkgid.RepotagType
	Version     string

	// Version-to-repotag mapping, e.g. ^(.*)$ -> v$1.
	RepotagRegex   string
	RepotagReplace string

	Dir              string // target checkout directory
	Submodule        bool
	SubmoduleRecurse bool
}

// Acquirer performs source acquisition through an external git.
type Acquirer struct {
	run     execx.Runner
	fetcher *fetch.Fetcher
	log     *slog.Logger
}

// NewAcquirer creates an acquirer.
func NewAcquirer(run execx.Runner, fetcher *fetch.Fetcher, log *slog.Logger) *Acquirer {
	return &Acquirer{run: run, fetcher: fetcher, log: log}
}

// ResolveRepotag maps a package version to the repository ref name using
// a configurable regex substitution, to absorb inconsistent upstream tag
// naming conventions.
func ResolveRepotag(version, regexStr, replace string) (string, error) {
	re, err := regexp.Compile(regexStr)
	if err != nil {
		return "", fmt.Errorf("compiling repotag regex %q: %w", regexStr, err)
	}
	return re.ReplaceAllString(version, replace), nil
}

// Acquire materializes the checkout. An existing checkout in the target
// directory is reused without network I/O; staleness of a reused
// checkout is an accepted, documented weakness. A failed tag or branch
// clone is swallowed (best-effort pull policy) and reported through
// Checkout.Missing; commit fetch and submodule failures are fatal.
func (a *Acquirer) Acquire(ctx context.Context, req Request) (pkgid.Checkout, error) {
	repotag, err := ResolveRepotag(req.Version, req.RepotagRegex, req.RepotagReplace)
	if err != nil {
		return pkgid.Checkout{}, err
	}
	co := pkgid.Checkout{Dir: req.Dir, Repotag: repotag}

	if req.RepotagType == pkgid.RepotagArchive {
		return a.acquireArchive(ctx, req, co)
	}

	if isCheckout(req.Dir) {
		a.log.Debug("reusing existing checkout", "dir", req.Dir)
		co.Reused = true
		return co, nil
	}

	switch req.RepotagType {
	case pkgid.RepotagCommit:
		if err := a.fetchCommit(ctx, req, repotag); err != nil {
			return pkgid.Checkout{}, err
		}
	default: // tag or branch
		if ok := a.clone(ctx, req, repotag); !ok {
			a.log.Warn("clone failed, continuing without checkout",
				"repo", req.Repo, "repotag", repotag)
			return pkgid.Checkout{Repotag: repotag, Missing: true}, nil
		}
	}

	if req.Submodule {
		if err := a.syncSubmodules(ctx, req); err != nil {
			return pkgid.Checkout{}, err
		}
	}

	return co, nil
}

func isCheckout(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

// clone performs a shallow clone at a tag or branch. Returns false on
// any failure; the ref may simply not exist upstream.
func (a *Acquirer) clone(ctx context.Context, req Request, repotag string) bool {
	c := execx.Cmd{
		Name: "git",
		Args: []string{"clone", "--depth", "1", "--branch", repotag, req.Repo, req.Dir},
	}
	res, err := a.run.Run(ctx, c)
	return err == nil && res.Success()
}

// fetchCommit pins an exact commit. Shallow clone cannot target an
// arbitrary SHA, so the checkout is assembled from init + fetch + reset.
func (a *Acquirer) fetchCommit(ctx context.Context, req Request, sha string) error {
	if err := os.MkdirAll(req.Dir, 0755); err != nil {
		return fmt.Errorf("creating checkout dir: %w", err)
	}
	steps := []execx.Cmd{
		{Name: "git", Args: []string{"init"}, Dir: req.Dir},
		{Name: "git", Args: []string{"remote", "add", "origin", req.Repo}, Dir: req.Dir},
		{Name: "git", Args: []string{"fetch", "--depth", "1", "origin", sha}, Dir: req.Dir},
		{Name: "git", Args: []string{"reset", "--hard", "FETCH_HEAD"}, Dir: req.Dir},
	}
	for _, c := range steps {
		res, err := a.run.Run(ctx, c)
		if err != nil {
			return fmt.Errorf("fetching commit %s: %w", sha, err)
		}
		if err := execx.ExitError(c, res); err != nil {
			return fmt.Errorf("fetching commit %s: %w", sha, err)
		}
	}
	return nil
}

// syncSubmodules runs after checkout because a commit-pinned fetch
// cannot combine with clone-time submodule flags. Failure is fatal: a
// checkout with missing submodules is broken.
func (a *Acquirer) syncSubmodules(ctx context.Context, req Request) error {
	args := []string{"submodule", "update", "--init"}
	if req.SubmoduleRecurse {
		args = append(args, "--recursive")
	}
	c := execx.Cmd{Name: "git", Args: args, Dir: req.Dir}
	res, err := a.run.Run(ctx, c)
	if err != nil {
		return fmt.Errorf("syncing submodules: %w", err)
	}
	if err := execx.ExitError(c, res); err != nil {
		return fmt.Errorf("syncing submodules: %w", err)
	}
	return nil
}
