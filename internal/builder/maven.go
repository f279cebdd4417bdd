package builder

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkforge/pkforge/internal/phase"
)

// mavenActions builds JVM packages into jars.
type mavenActions struct {
	*phase.Base
}

func (m *mavenActions) Compile(pc *phase.Context) error {
	args := []string{"-B", "-T", strconv.Itoa(pc.Opts.Jobs), "compile"}
	args = append(args, splitArgs(pc.Opts.BuildArgs)...)
	return runTool(pc, "mvn", args...)
}

func (m *mavenActions) PackageFilename(pc *phase.Context) error {
	pc.PackageFile = fmt.Sprintf("%s-%s.jar", pc.Pkg.DisplayName(), pc.Pkg.DisplayVersion())
	return nil
}

func (m *mavenActions) Package(pc *phase.Context) error {
	args := []string{"-B", "-DskipTests", "package"}
	args = append(args, splitArgs(pc.Opts.BuildArgs)...)
	if err := runTool(pc, "mvn", args...); err != nil {
		return err
	}
	return m.collectJar(pc)
}

func (m *mavenActions) Install(pc *phase.Context) error {
	args := []string{"-B", "-DskipTests", "install"}
	args = append(args, splitArgs(pc.Opts.BuildArgs)...)
	return runTool(pc, "mvn", args...)
}

// collectJar copies the produced jar into the output directory. A jar
// that cannot be located is not fatal here; install works from the
// local repository anyway.
func (m *mavenActions) collectJar(pc *phase.Context) error {
	if pc.PackageFile == "" {
		return nil
	}
	src := filepath.Join(pc.Dir(), "target", pc.PackageFile)
	if _, err := os.Stat(src); err != nil {
		pc.Log.Debug("jar not found in target dir", "jar", pc.PackageFile)
		return nil
	}
	if err := os.MkdirAll(pc.Opts.OutDir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	return copyFile(src, filepath.Join(pc.Opts.OutDir, pc.PackageFile))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

var _ phase.Actions = (*mavenActions)(nil)
