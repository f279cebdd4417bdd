// Package builder provides the per-builder default phase actions and
// the registry that selects them by builder kind.
package builder

import (
	"strings"

	"github.com/pkforge/pkforge/internal/execx"
	"github.com/pkforge/pkforge/internal/phase"
)

// Kind classifies which build tool ecosystem a package uses. The set is
// open: projects may register additional kinds.
type Kind string

const (
	Pip   Kind = "pip"
	Maven Kind = "maven"
	Bazel Kind = "bazel"
	CMake Kind = "cmake"
)

// Registry maps builder kinds to their default phase actions.
type Registry struct {
	actions map[Kind]phase.Actions
}

// NewRegistry creates a registry with the built-in kinds registered.
func NewRegistry(base *phase.Base) *Registry {
	r := &Registry{actions: make(map[Kind]phase.Actions)}
	r.Register(Pip, &pipActions{Base: base})
	r.Register(Maven, &mavenActions{Base: base})
	r.Register(Bazel, &bazelActions{Base: base})
	r.Register(CMake, &cmakeActions{Base: base})
	return r
}

// Register adds or replaces the actions for a kind.
func (r *Registry) Register(k Kind, a phase.Actions) {
	r.actions[k] = a
}

// Lookup returns the actions for a kind.
func (r *Registry) Lookup(k Kind) (phase.Actions, bool) {
	a, ok := r.actions[k]
	return a, ok
}

// runTool invokes one external tool in the checkout directory and turns
// a non-zero exit into an error.
func runTool(pc *phase.Context, name string, args ...string) error {
	c := execx.Cmd{Name: name, Args: args, Dir: pc.Dir()}
	res, err := pc.Run.Run(pc.Ctx, c)
	if err != nil {
		return err
	}
	return execx.ExitError(c, res)
}

// splitArgs tokenizes an opaque pass-through argument string.
func splitArgs(s string) []string {
	return strings.Fields(s)
}
