package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a parsed structured manifest. Entries are consumed as
// typed records directly; there is no flatten-and-resplit step.
type Document struct {
	raw map[string]any
}

// LoadDocument parses a JSON or YAML manifest file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var raw map[string]any
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
		}
	} else {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
		}
	}
	return &Document{raw: raw}, nil
}

// Select returns the entries under the named key that carry a non-null
// version, extracting the given ordered field list from each.
func (d *Document) Select(key string, fields []string) ([]Entry, error) {
	sub, ok := d.raw[key]
	if !ok {
		return nil, nil
	}
	list, ok := sub.([]any)
	if !ok {
		return nil, fmt.Errorf("manifest key %q is not a list", key)
	}

	var entries []Entry
	for _, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if rec["version"] == nil {
			continue
		}
		entries = append(entries, extract(rec, fields))
	}
	return entries, nil
}

// Self extracts the manifest's own top-level record, for the optional
// trailing invocation covering the enclosing project itself.
func (d *Document) Self(fields []string) Entry {
	return extract(d.raw, fields)
}

// extract pulls the ordered field list from a record, skipping fields
// that are absent or null.
func extract(rec map[string]any, fields []string) Entry {
	var e Entry
	for _, name := range fields {
		v, ok := rec[name]
		if !ok || v == nil {
			continue
		}
		e.Fields = append(e.Fields, Field{Name: name, Value: scalarString(v)})
	}
	return e
}

func scalarString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return fmt.Sprintf("%g", val)
	case int:
		return fmt.Sprintf("%d", val)
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
