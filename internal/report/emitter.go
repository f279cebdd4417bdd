package report

import (
	"fmt"
	"io"
	"os"
	"sort"
)

const header = "# pkforge build report: version 1\n"

// Emitter writes build reports.
type Emitter struct {
	w io.Writer
}

// NewEmitter creates a report emitter.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// Emit writes records sorted by name.
func (e *Emitter) Emit(records []Record) error {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	if _, err := fmt.Fprint(e.w, header); err != nil {
		return err
	}
	if _, err := fmt.Fprint(e.w, "PACKAGES\n"); err != nil {
		return err
	}

	for _, r := range sorted {
		if err := e.emitRecord(r); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) emitRecord(r Record) error {
	if _, err := fmt.Fprintf(e.w, "  %s\n", r.Name); err != nil {
		return err
	}
	for _, kv := range []struct{ key, val string }{
		{"builder", r.Builder},
		{"repotag", r.Repotag},
		{"artifact", r.Artifact},
	} {
		if kv.val == "" {
			continue
		}
		if _, err := fmt.Fprintf(e.w, "    %s: %s\n", kv.key, kv.val); err != nil {
			return err
		}
	}
	return nil
}

// Append merges one record into the report file, replacing any existing
// record with the same name, and rewrites the file.
func Append(path string, r Record) error {
	var records []Record
	if f, err := os.Open(path); err == nil {
		records, err = NewParser(f).Parse()
		f.Close()
		if err != nil {
			return fmt.Errorf("reading report %s: %w", path, err)
		}
	}

	replaced := false
	for i := range records {
		if records[i].Name == r.Name {
			records[i] = r
			replaced = true
		}
	}
	if !replaced {
		records = append(records, r)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	defer out.Close()
	return NewEmitter(out).Emit(records)
}
