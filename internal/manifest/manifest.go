// Package manifest parses declarative requirements manifests and fans a
// caller-supplied command out over their entries.
package manifest

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkforge/pkforge/internal/fetch"
)

// Field is one extracted name/value pair.
type Field struct {
	Name  string
	Value string
}

// Entry is one dependency's ordered field set. Fields whose manifest
// value was null are absent: "not provided" is distinct from the
// string "null".
type Entry struct {
	Fields []Field
}

// Var renders a field as a namespaced variable assignment. Field names
// are uppercased and prefixed so the downstream command reads
// structured data through ordinary variable references without
// colliding with ambient process state.
func (f Field) Var(prefix string) string {
	return prefix + VarName(f.Name) + "=" + f.Value
}

// VarName normalizes a field name into a variable-safe identifier.
func VarName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Localize resolves a manifest path to a local file, fetching it into
// the cache when it is an http(s) URL.
func Localize(ctx context.Context, fetcher *fetch.Fetcher, path string) (string, error) {
	u, err := url.Parse(path)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return path, nil
	}
	cachePath := filepath.Join(os.TempDir(), "pkforge-cache", "manifests", filepath.Base(u.Path))
	if err := fetcher.Fetch(ctx, path, cachePath); err != nil {
		return "", fmt.Errorf("fetching manifest: %w", err)
	}
	return cachePath, nil
}
