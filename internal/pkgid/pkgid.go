package pkgid

// Identity describes the package a single driver run builds.
type Identity struct {
	Name    string // e.g., "foo"
	Version string // e.g., "1.2.3"
	Parent  string // qualifying parent for sub-builds, may be empty
	Builder string // builder kind, e.g., "pip"

	// Homologation aliases: when set they replace the canonical name or
	// version for display and artifact naming, without changing the
	// identity used for source resolution.
	HomologName    string
	HomologVersion string
}

// Incomplete reports whether the identity is missing a mandatory field.
// An incomplete identity means "nothing to do", not an error.
func (id Identity) Incomplete() bool {
	return id.Name == "" || id.Version == ""
}

// Qualified returns "parent:name" for sub-builds, or just the name.
func (id Identity) Qualified() string {
	if id.Parent != "" {
		return id.Parent + ":" + id.Name
	}
	return id.Name
}

// DisplayName returns the homologated name when one is set.
func (id Identity) DisplayName() string {
	if id.HomologName != "" {
		return id.HomologName
	}
	return id.Name
}

// DisplayVersion returns the homologated version when one is set.
func (id Identity) DisplayVersion() string {
	if id.HomologVersion != "" {
		return id.HomologVersion
	}
	return id.Version
}

// RepotagType selects the source acquisition strategy.
type RepotagType string

const (
	RepotagTag     RepotagType = "tag"
	RepotagBranch  RepotagType = "branch"
	RepotagCommit  RepotagType = "commit"
	RepotagArchive RepotagType = "archive"
)

// Checkout records where and how a package's source was materialized.
type Checkout struct {
	Dir     string // local checkout directory, empty when acquisition was skipped
	Repotag string // resolved tag/branch/commit/archive ref
	Reused  bool   // true when an existing checkout was found
	Missing bool   // true when a best-effort clone failed and was swallowed
}
