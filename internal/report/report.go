// Package report reads and writes pkforge build reports: an indented
// record file listing what each driver run produced.
package report

// Record describes one successfully built package.
type Record struct {
	Name     string // e.g., "foo-1.2.3"
	Builder  string
	Repotag  string
	Artifact string // package filename, may be a glob pattern
}
