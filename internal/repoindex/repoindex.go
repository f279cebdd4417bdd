// Package repoindex resolves package names to repository coordinates
// from a project-local index file, so a batch of dependency builds does
// not need PROJECT_REPO spelled out per invocation.
package repoindex

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Entry holds the repository coordinates for one package.
type Entry struct {
	Repo               string `yaml:"repo"`
	RepotagType        string `yaml:"repotag_type"`
	RepotagRegex       string `yaml:"repotag_regex"`
	RepotagReplacement string `yaml:"repotag_replacement"`
	Submodule          bool   `yaml:"submodule"`
	SubmoduleRecursive bool   `yaml:"submodule_recursive"`
}

// Index is a loaded package -> repository mapping.
type Index struct {
	packages map[string]Entry
}

type indexFile struct {
	Packages map[string]Entry `yaml:"packages"`
}

// Load reads and parses an index file.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading repo index: %w", err)
	}

	var f indexFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing repo index %s: %w", path, err)
	}
	if f.Packages == nil {
		f.Packages = make(map[string]Entry)
	}
	return &Index{packages: f.Packages}, nil
}

// Lookup finds a package in the index.
func (idx *Index) Lookup(name string) (Entry, bool) {
	e, ok := idx.packages[name]
	return e, ok
}

// Len returns the number of indexed packages.
func (idx *Index) Len() int {
	return len(idx.packages)
}
