package builder

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkforge/pkforge/internal/phase"
)

// pipActions builds Python packages as wheels. There is no compile
// default: building the wheel is the package phase.
type pipActions struct {
	*phase.Base
}

func (p *pipActions) BuilderSetup(pc *phase.Context) error {
	return runTool(pc, "python3", "-m", "pip", "install", "--upgrade", "pip", "build", "wheel")
}

func (p *pipActions) PackageFilename(pc *phase.Context) error {
	pc.PackageFile = fmt.Sprintf("%s-%s*.whl", pc.Pkg.DisplayName(), pc.Pkg.DisplayVersion())
	return nil
}

func (p *pipActions) Package(pc *phase.Context) error {
	if err := os.MkdirAll(pc.Opts.OutDir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	args := []string{"-m", "build", "--wheel", "--outdir", pc.Opts.OutDir}
	args = append(args, splitArgs(pc.Opts.BuildArgs)...)
	return runTool(pc, "python3", args...)
}

func (p *pipActions) Install(pc *phase.Context) error {
	pattern := pc.PackageFile
	if pattern == "" {
		pattern = fmt.Sprintf("%s-%s*.whl", pc.Pkg.DisplayName(), pc.Pkg.DisplayVersion())
	}
	target := filepath.Join(pc.Opts.OutDir, pattern)
	if matches, err := filepath.Glob(target); err == nil && len(matches) == 1 {
		target = matches[0]
	}
	return runTool(pc, "python3", "-m", "pip", "install", "--force-reinstall", target)
}

var _ phase.Actions = (*pipActions)(nil)
