package source

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkforge/pkforge/internal/pkgid"
)

// acquireArchive fetches a release tarball and extracts it into the
// target directory. Reuse is by directory presence, like git checkouts.
func (a *Acquirer) acquireArchive(ctx context.Context, req Request, co pkgid.Checkout) (pkgid.Checkout, error) {
	if _, err := os.Stat(req.Dir); err == nil {
		a.log.Debug("reusing existing source tree", "dir", req.Dir)
		co.Reused = true
		return co, nil
	}

	cachePath := filepath.Join(os.TempDir(), "pkforge-cache", filepath.Base(req.Repo))
	if err := a.fetcher.Fetch(ctx, req.Repo, cachePath); err != nil {
		return pkgid.Checkout{}, fmt.Errorf("fetching archive: %w", err)
	}

	staging, err := os.MkdirTemp(filepath.Dir(req.Dir), ".pkforge-extract-*")
	if err != nil {
		return pkgid.Checkout{}, fmt.Errorf("creating staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	root, err := extractTarball(cachePath, staging)
	if err != nil {
		return pkgid.Checkout{}, fmt.Errorf("extracting archive: %w", err)
	}
	if err := os.Rename(root, req.Dir); err != nil {
		return pkgid.Checkout{}, fmt.Errorf("placing source tree: %w", err)
	}

	return co, nil
}

// extractTarball extracts a .tar.gz into destDir and returns the path of
// the archive's top-level directory.
func extractTarball(tarballPath, destDir string) (string, error) {
	file, err := os.Open(tarballPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return "", err
	}
	defer gzReader.Close()

	tarReader := tar.NewReader(gzReader)
	var rootDir string

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		parts := strings.SplitN(header.Name, "/", 2)
		if rootDir == "" && len(parts) > 0 {
			rootDir = parts[0]
		}

		target := filepath.Join(destDir, header.Name)
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return "", fmt.Errorf("archive entry escapes destination: %s", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return "", err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return "", err
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return "", err
			}
			if _, err := io.Copy(f, tarReader); err != nil {
				f.Close()
				return "", err
			}
			f.Close()
		}
	}

	if rootDir == "" {
		return "", fmt.Errorf("empty archive")
	}
	return filepath.Join(destDir, rootDir), nil
}
