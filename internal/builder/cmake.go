package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkforge/pkforge/internal/execx"
	"github.com/pkforge/pkforge/internal/phase"
)

const cmakeBuildDir = "build"

// cmakeActions builds CMake projects out-of-tree and packages them with
// cpack.
type cmakeActions struct {
	*phase.Base
}

func (c *cmakeActions) Configure(pc *phase.Context) error {
	args := []string{"-S", ".", "-B", cmakeBuildDir, "-DCMAKE_BUILD_TYPE=Release"}
	args = append(args, splitArgs(pc.Opts.BuildArgs)...)
	return runTool(pc, "cmake", args...)
}

func (c *cmakeActions) Compile(pc *phase.Context) error {
	args := []string{"--build", cmakeBuildDir, "-j", strconv.Itoa(pc.Opts.Jobs)}
	for _, t := range splitArgs(pc.Opts.BuildTargets) {
		args = append(args, "--target", t)
	}
	return runTool(pc, "cmake", args...)
}

func (c *cmakeActions) PackageFilename(pc *phase.Context) error {
	pc.PackageFile = fmt.Sprintf("%s-%s.tar.gz", pc.Pkg.DisplayName(), pc.Pkg.DisplayVersion())
	return nil
}

func (c *cmakeActions) Package(pc *phase.Context) error {
	if err := os.MkdirAll(pc.Opts.OutDir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	cmd := execx.Cmd{
		Name: "cpack",
		Args: []string{"-G", "TGZ", "-B", pc.Opts.OutDir},
		Dir:  filepath.Join(pc.Dir(), cmakeBuildDir),
	}
	res, err := pc.Run.Run(pc.Ctx, cmd)
	if err != nil {
		return err
	}
	return execx.ExitError(cmd, res)
}

func (c *cmakeActions) Install(pc *phase.Context) error {
	return runTool(pc, "cmake", "--install", cmakeBuildDir)
}

var _ phase.Actions = (*cmakeActions)(nil)
