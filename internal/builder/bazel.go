package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkforge/pkforge/internal/phase"
)

// bazelActions builds Bazel workspaces. Targets default to //... when
// none are configured.
type bazelActions struct {
	*phase.Base
}

func (b *bazelActions) Compile(pc *phase.Context) error {
	args := []string{"build", "--jobs", strconv.Itoa(pc.Opts.Jobs)}
	args = append(args, splitArgs(pc.Opts.BuildArgs)...)
	targets := splitArgs(pc.Opts.BuildTargets)
	if len(targets) == 0 {
		targets = []string{"//..."}
	}
	args = append(args, targets...)
	return runTool(pc, "bazel", args...)
}

func (b *bazelActions) PackageFilename(pc *phase.Context) error {
	pc.PackageFile = fmt.Sprintf("%s-%s.tar.gz", pc.Pkg.DisplayName(), pc.Pkg.DisplayVersion())
	return nil
}

func (b *bazelActions) Package(pc *phase.Context) error {
	if err := os.MkdirAll(pc.Opts.OutDir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	out := filepath.Join(pc.Opts.OutDir, pc.PackageFile)
	return runTool(pc, "tar", "-czf", out, "-C", "bazel-bin", ".")
}

var _ phase.Actions = (*bazelActions)(nil)
