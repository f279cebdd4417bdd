package source

import (
	"archive/tar"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

func writeTarball(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	for name, content := range files {
		hdr := &tar.Header{Name: name, Mode: 0644, Size: int64(len(content))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestExtractTarball(t *testing.T) {
	tmp := t.TempDir()
	tarball := filepath.Join(tmp, "foo-1.2.3.tar.gz")
	writeTarball(t, tarball, map[string]string{
		"foo-1.2.3/setup.py":    "from setuptools import setup\n",
		"foo-1.2.3/src/main.py": "print('hi')\n",
	})

	dest := filepath.Join(tmp, "extract")
	if err := os.MkdirAll(dest, 0755); err != nil {
		t.Fatal(err)
	}

	root, err := extractTarball(tarball, dest)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(root) != "foo-1.2.3" {
		t.Errorf("root = %q, want foo-1.2.3", root)
	}

	data, err := os.ReadFile(filepath.Join(root, "src", "main.py"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "print('hi')\n" {
		t.Errorf("extracted content = %q", data)
	}
}

func TestExtractTarballRejectsEscape(t *testing.T) {
	tmp := t.TempDir()
	tarball := filepath.Join(tmp, "evil.tar.gz")
	writeTarball(t, tarball, map[string]string{
		"../evil.txt": "nope",
	})

	dest := filepath.Join(tmp, "extract")
	if err := os.MkdirAll(dest, 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := extractTarball(tarball, dest); err == nil {
		t.Error("expected error for path escape")
	}
}
