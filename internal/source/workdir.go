package source

import (
	"fmt"
	"os"
)

// Workdir restores the previous working directory when released. The
// release is idempotent so a deferred Release stays safe alongside an
// explicit one.
type Workdir struct {
	prev     string
	released bool
}

// EnterDir changes into dir and returns a guard that restores the
// directory the process was in before.
func EnterDir(dir string) (*Workdir, error) {
	prev, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("reading working directory: %w", err)
	}
	if err := os.Chdir(dir); err != nil {
		return nil, fmt.Errorf("entering %s: %w", dir, err)
	}
	return &Workdir{prev: prev}, nil
}

// Release restores the previous working directory exactly once.
func (w *Workdir) Release() error {
	if w == nil || w.released {
		return nil
	}
	w.released = true
	if err := os.Chdir(w.prev); err != nil {
		return fmt.Errorf("restoring %s: %w", w.prev, err)
	}
	return nil
}
