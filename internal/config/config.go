// Package config establishes the driver's configuration surface: every
// recognized option is read from the environment and given a documented
// default when unset. Values are not validated here; malformed values
// surface later as tool invocation failures.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkforge/pkforge/internal/pkgid"
)

const minJobs = 2

// Options holds every recognized configuration option. An option
// exported as the empty string takes its default, same as when it is
// unset; wrapper scripts routinely export empty placeholders.
type Options struct {
	// Package identity.
	Package        string // PACKAGE
	PackageVersion string // PACKAGE_VERSION
	PackageBuilder string // PACKAGE_BUILDER
	Parent         string // PKG_PARENT
	HomologName    string // PKG_HOMOLOG_NAME
	HomologVersion string // PKG_HOMOLOG_VERSION

	// Source repository.
	Repo              string // PROJECT_REPO
	RepotagType       string // PROJECT_REPOTAG_TYPE, default "tag"
	RepotagRegex      string // PKG_TO_REPOTAG_REGEX, default "^(.*)$"
	RepotagReplace    string // PKG_TO_REPOTAG_REPLACEMENT, default "v$1"
	Submodule         bool   // GIT_SUBMODULE
	SubmoduleRecurse  bool   // GIT_SUBMODULE_RECURSIVE
	SrcDir            string // PKG_SRC_DIR, default "<package>-src"
	RepoIndexFile     string // PKG_REPO_INDEX

	// Build pass-through.
	BuildArgs    string // PKG_BUILD_ARGS
	BuildTargets string // PKG_BUILD_TARGETS
	OutDir       string // PKG_OUT_DIR, default under the temp dir
	Jobs         int    // PKG_JOBS, default NumCPU-1 floored at minJobs

	// Patches, overrides, reporting.
	PatchDir      string // PATCH_DIR
	OverridesFile string // PKG_OVERRIDES_FILE, default "PKBUILD.yaml"
	ReportFile    string // PKG_REPORT_FILE

	// Requirements iterator.
	RequirementsType    string // REQUIREMENTS_TYPE, default "json"
	RequirementsFile    string // REQUIREMENTS_FILE, default "requirements.json"
	RequirementsForeach string // REQUIREMENTS_FOREACH
	SelectKey           string // REQUIREMENTS_SELECT_KEY, default "build_deps"
	Fields              string // REQUIREMENTS_FIELDS, comma-separated
	Self                bool   // REQUIREMENTS_SELF
	OnError             string // REQUIREMENTS_ON_ERROR, default "abort"
	VarPrefix           string // VARNAME_PREFIX, default "PKG_"
	LineRegex           string // LINE_REGEX, default "^([^=]+)==(.+)$"
	LineReplace         string // LINE_REPLACEMENT, default "$1 $2"
	LineDelimiter       string // LINE_DELIMITER, default " "
}

// FromEnv builds Options from the process environment, applying defaults.
func FromEnv() *Options {
	pkg := os.Getenv("PACKAGE")
	return &Options{
		Package:        pkg,
		PackageVersion: os.Getenv("PACKAGE_VERSION"),
		PackageBuilder: os.Getenv("PACKAGE_BUILDER"),
		Parent:         os.Getenv("PKG_PARENT"),
		HomologName:    os.Getenv("PKG_HOMOLOG_NAME"),
		HomologVersion: os.Getenv("PKG_HOMOLOG_VERSION"),

		Repo:             os.Getenv("PROJECT_REPO"),
		RepotagType:      envDefault("PROJECT_REPOTAG_TYPE", "tag"),
		RepotagRegex:     envDefault("PKG_TO_REPOTAG_REGEX", `^(.*)$`),
		RepotagReplace:   envDefault("PKG_TO_REPOTAG_REPLACEMENT", "v$1"),
		Submodule:        envBool("GIT_SUBMODULE"),
		SubmoduleRecurse: envBool("GIT_SUBMODULE_RECURSIVE"),
		SrcDir:           envDefault("PKG_SRC_DIR", defaultSrcDir(pkg)),
		RepoIndexFile:    os.Getenv("PKG_REPO_INDEX"),

		BuildArgs:    os.Getenv("PKG_BUILD_ARGS"),
		BuildTargets: os.Getenv("PKG_BUILD_TARGETS"),
		OutDir:       envDefault("PKG_OUT_DIR", filepath.Join(os.TempDir(), "pkforge-out")),
		Jobs:         envJobs("PKG_JOBS"),

		PatchDir:      os.Getenv("PATCH_DIR"),
		OverridesFile: envDefault("PKG_OVERRIDES_FILE", "PKBUILD.yaml"),
		ReportFile:    os.Getenv("PKG_REPORT_FILE"),

		RequirementsType:    envDefault("REQUIREMENTS_TYPE", "json"),
		RequirementsFile:    envDefault("REQUIREMENTS_FILE", "requirements.json"),
		RequirementsForeach: os.Getenv("REQUIREMENTS_FOREACH"),
		SelectKey:           envDefault("REQUIREMENTS_SELECT_KEY", "build_deps"),
		Fields:              os.Getenv("REQUIREMENTS_FIELDS"),
		Self:                envBool("REQUIREMENTS_SELF"),
		OnError:             envDefault("REQUIREMENTS_ON_ERROR", "abort"),
		VarPrefix:           envDefault("VARNAME_PREFIX", "PKG_"),
		LineRegex:           envDefault("LINE_REGEX", `^([^=\s]+)==(\S+)$`),
		LineReplace:         envDefault("LINE_REPLACEMENT", "$1 $2"),
		LineDelimiter:       envDefault("LINE_DELIMITER", " "),
	}
}

// Identity assembles the package identity from the options.
func (o *Options) Identity() pkgid.Identity {
	return pkgid.Identity{
		Name:           o.Package,
		Version:        o.PackageVersion,
		Parent:         o.Parent,
		Builder:        o.PackageBuilder,
		HomologName:    o.HomologName,
		HomologVersion: o.HomologVersion,
	}
}

// FieldList returns the configured extraction fields, or the default set.
func (o *Options) FieldList() []string {
	if strings.TrimSpace(o.Fields) == "" {
		return []string{"package", "version", "builder", "repo", "repotag_type"}
	}
	parts := strings.Split(o.Fields, ",")
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			fields = append(fields, p)
		}
	}
	return fields
}

func defaultSrcDir(pkg string) string {
	if pkg == "" {
		return "src"
	}
	return pkg + "-src"
}

// envDefault treats a set-but-empty variable as unset, mirroring
// ${VAR:-default} expansion in the shell wrappers that drive this tool.
func envDefault(name, def string) string {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		return v
	}
	return def
}

func envBool(name string) bool {
	switch strings.ToLower(os.Getenv(name)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func envJobs(name string) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	n := runtime.NumCPU() - 1
	if n < minJobs {
		n = minJobs
	}
	return n
}
