// Package phase models a package build as an ordered sequence of named
// phases and dispatches each one to either a project-supplied override
// or the active builder's default action.
package phase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pkforge/pkforge/internal/config"
	"github.com/pkforge/pkforge/internal/execx"
	"github.com/pkforge/pkforge/internal/pkgid"
)

// Phase names one step of the fixed build pipeline.
type Phase string

const (
	BuilderSetup    Phase = "builder-setup"
	GetSource       Phase = "get-source"
	Patch           Phase = "patch"
	Configure       Phase = "configure"
	Compile         Phase = "compile"
	PackageFilename Phase = "package-filename"
	Package         Phase = "package"
	Install         Phase = "install"
)

// Order is the fixed execution order of the pipeline.
var Order = []Phase{
	BuilderSetup,
	GetSource,
	Patch,
	Configure,
	Compile,
	PackageFilename,
	Package,
	Install,
}

// Known reports whether name is a pipeline phase.
func Known(name string) bool {
	for _, p := range Order {
		if string(p) == name {
			return true
		}
	}
	return false
}

// ErrSkip is returned by an action that has no default for the active
// builder. The dispatcher treats it as a silent no-op.
var ErrSkip = errors.New("phase has no default action")

// Context carries the state a phase action operates on. The checkout
// location is passed here explicitly; actions must not depend on the
// process working directory.
type Context struct {
	Ctx  context.Context
	Opts *config.Options
	Pkg  pkgid.Identity
	Run  execx.Runner
	Log  *slog.Logger

	Checkout    pkgid.Checkout // populated by get-source
	PackageFile string         // populated by package-filename
}

// Dir returns the checkout directory, or "" before get-source has run.
func (pc *Context) Dir() string {
	return pc.Checkout.Dir
}

// Actions is the per-builder default implementation of every phase.
// Methods return ErrSkip when the builder defines no default.
type Actions interface {
	BuilderSetup(pc *Context) error
	GetSource(pc *Context) error
	Patch(pc *Context) error
	Configure(pc *Context) error
	Compile(pc *Context) error
	PackageFilename(pc *Context) error
	Package(pc *Context) error
	Install(pc *Context) error
}

// OverrideFunc replaces a phase's default action for one project.
type OverrideFunc func(pc *Context) error

// Dispatcher resolves each phase to exactly one action: an override when
// the project supplies one, else the builder default, else a no-op.
type Dispatcher struct {
	actions   Actions
	overrides map[Phase]OverrideFunc
	log       *slog.Logger
}

// NewDispatcher creates a dispatcher for one builder's action set.
// Overrides may be nil.
func NewDispatcher(actions Actions, overrides map[Phase]OverrideFunc, log *slog.Logger) *Dispatcher {
	return &Dispatcher{actions: actions, overrides: overrides, log: log}
}

// Dispatch runs one phase. Errors from the resolved action propagate
// unmodified; there is no retry and no recovery.
func (d *Dispatcher) Dispatch(pc *Context, p Phase) error {
	if fn, ok := d.overrides[p]; ok {
		d.log.Info("dispatching phase",
			"phase", string(p), "builder", pc.Pkg.Builder, "route", "override")
		return fn(pc)
	}

	d.log.Info("dispatching phase",
		"phase", string(p), "builder", pc.Pkg.Builder, "route", "default")
	err := d.invoke(pc, p)
	if errors.Is(err, ErrSkip) {
		d.log.Debug("phase skipped", "phase", string(p), "builder", pc.Pkg.Builder)
		return nil
	}
	return err
}

func (d *Dispatcher) invoke(pc *Context, p Phase) error {
	switch p {
	case BuilderSetup:
		return d.actions.BuilderSetup(pc)
	case GetSource:
		return d.actions.GetSource(pc)
	case Patch:
		return d.actions.Patch(pc)
	case Configure:
		return d.actions.Configure(pc)
	case Compile:
		return d.actions.Compile(pc)
	case PackageFilename:
		return d.actions.PackageFilename(pc)
	case Package:
		return d.actions.Package(pc)
	case Install:
		return d.actions.Install(pc)
	}
	return fmt.Errorf("unknown phase %q", p)
}
