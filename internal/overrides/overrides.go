// Package overrides loads a project's per-phase override commands. The
// file replaces the historical practice of sourcing a build script into
// the driver: overrides are declarative commands resolved once at
// startup, and any phase with an entry takes precedence over the
// builder default.
package overrides

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pkforge/pkforge/internal/execx"
	"github.com/pkforge/pkforge/internal/phase"
)

// File is the on-disk shape of a PKBUILD.yaml: phase name -> command.
type File struct {
	Phases map[string]string `yaml:"phases"`
}

// Load reads the overrides file and resolves it into override funcs. A
// missing file means no overrides. An entry naming an unknown phase is
// a load error: silently ignoring it would mask typos until a phase
// mysteriously ran its default.
func Load(path string) (map[phase.Phase]phase.OverrideFunc, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading overrides file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing overrides file %s: %w", path, err)
	}

	out := make(map[phase.Phase]phase.OverrideFunc, len(f.Phases))
	for name, command := range f.Phases {
		if !phase.Known(name) {
			return nil, fmt.Errorf("overrides file %s: unknown phase %q", path, name)
		}
		out[phase.Phase(name)] = overrideFunc(command)
	}
	return out, nil
}

// overrideFunc wraps one shell command as a phase action. The command
// runs in the checkout with the package identity exported.
func overrideFunc(command string) phase.OverrideFunc {
	return func(pc *phase.Context) error {
		c := execx.Cmd{
			Name: "sh",
			Args: []string{"-c", command},
			Dir:  pc.Dir(),
			Env: []string{
				"PACKAGE=" + pc.Pkg.Name,
				"PACKAGE_VERSION=" + pc.Pkg.Version,
				"PACKAGE_BUILDER=" + pc.Pkg.Builder,
				"PKG_OUT_DIR=" + pc.Opts.OutDir,
				"PKG_PACKAGE_FILE=" + pc.PackageFile,
			},
		}
		res, err := pc.Run.Run(pc.Ctx, c)
		if err != nil {
			return err
		}
		return execx.ExitError(c, res)
	}
}
