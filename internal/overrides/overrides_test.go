package overrides

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkforge/pkforge/internal/config"
	"github.com/pkforge/pkforge/internal/execx"
	"github.com/pkforge/pkforge/internal/phase"
	"github.com/pkforge/pkforge/internal/pkgid"
)

func TestLoadMissingFileMeansNoOverrides(t *testing.T) {
	ovr, err := Load(filepath.Join(t.TempDir(), "PKBUILD.yaml"))
	require.NoError(t, err)
	assert.Nil(t, ovr)
}

func TestLoadResolvesPhases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PKBUILD.yaml")
	content := "phases:\n  compile: make -j4\n  package: make dist\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	ovr, err := Load(path)
	require.NoError(t, err)
	require.Len(t, ovr, 2)
	assert.Contains(t, ovr, phase.Compile)
	assert.Contains(t, ovr, phase.Package)
}

func TestLoadRejectsUnknownPhase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PKBUILD.yaml")
	require.NoError(t, os.WriteFile(path, []byte("phases:\n  deploy: scp ...\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deploy")
}

func TestOverrideRunsCommandWithIdentity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PKBUILD.yaml")
	require.NoError(t, os.WriteFile(path, []byte("phases:\n  compile: make -j4\n"), 0644))

	ovr, err := Load(path)
	require.NoError(t, err)

	run := execx.NewFake()
	pc := &phase.Context{
		Ctx:  context.Background(),
		Opts: &config.Options{OutDir: "/tmp/out"},
		Pkg:  pkgid.Identity{Name: "foo", Version: "1.2.3", Builder: "pip"},
		Run:  run,
	}
	pc.Checkout = pkgid.Checkout{Dir: "/work/foo-src"}

	require.NoError(t, ovr[phase.Compile](pc))

	calls := run.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "sh", calls[0].Name)
	assert.Equal(t, []string{"-c", "make -j4"}, calls[0].Args)
	assert.Equal(t, "/work/foo-src", calls[0].Dir)
	assert.Contains(t, calls[0].Env, "PACKAGE=foo")
	assert.Contains(t, calls[0].Env, "PACKAGE_VERSION=1.2.3")
}

func TestOverrideFailurePropagates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PKBUILD.yaml")
	require.NoError(t, os.WriteFile(path, []byte("phases:\n  install: exit 3\n"), 0644))

	ovr, err := Load(path)
	require.NoError(t, err)

	run := execx.NewFake()
	run.Stub("sh", execx.Result{ExitCode: 3}, nil)

	pc := &phase.Context{
		Ctx:  context.Background(),
		Opts: &config.Options{},
		Pkg:  pkgid.Identity{Name: "foo", Version: "1.2.3"},
		Run:  run,
	}
	require.Error(t, ovr[phase.Install](pc))
}
