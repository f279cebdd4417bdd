package phase

import (
	"github.com/pkforge/pkforge/internal/patch"
	"github.com/pkforge/pkforge/internal/pkgid"
	"github.com/pkforge/pkforge/internal/source"
)

// Base supplies the builder-independent defaults: get-source acquires
// the checkout, patch applies the version-keyed patch, and every other
// phase is skipped. Builder implementations embed Base and override the
// phases their tool has a default for.
type Base struct {
	Acquirer *source.Acquirer
	Patches  *patch.Applier
}

// GetSource resolves the repotag and materializes the checkout, storing
// the result on the phase context for the rest of the pipeline.
func (b *Base) GetSource(pc *Context) error {
	if pc.Opts.Repo == "" {
		return ErrSkip
	}
	co, err := b.Acquirer.Acquire(pc.Ctx, source.Request{
		Repo:             pc.Opts.Repo,
		RepotagType:      pkgid.RepotagType(pc.Opts.RepotagType),
		Version:          pc.Pkg.Version,
		RepotagRegex:     pc.Opts.RepotagRegex,
		RepotagReplace:   pc.Opts.RepotagReplace,
		Dir:              pc.Opts.SrcDir,
		Submodule:        pc.Opts.Submodule,
		SubmoduleRecurse: pc.Opts.SubmoduleRecurse,
	})
	if err != nil {
		return err
	}
	pc.Checkout = co
	return nil
}

// Patch applies the patch derived from the source dir and version, if
// one exists. Without a checkout there is nothing to patch.
func (b *Base) Patch(pc *Context) error {
	if pc.Checkout.Dir == "" {
		return ErrSkip
	}
	return b.Patches.Apply(pc.Ctx, pc.Opts.PatchDir, pc.Checkout.Dir, pc.Pkg.DisplayVersion())
}

func (b *Base) BuilderSetup(*Context) error    { return ErrSkip }
func (b *Base) Configure(*Context) error       { return ErrSkip }
func (b *Base) Compile(*Context) error         { return ErrSkip }
func (b *Base) PackageFilename(*Context) error { return ErrSkip }
func (b *Base) Package(*Context) error         { return ErrSkip }
func (b *Base) Install(*Context) error         { return ErrSkip }

var _ Actions = (*Base)(nil)
