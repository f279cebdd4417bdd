package driver

import (
	"context"
	"fmt"
	"os"

	"github.com/pkforge/pkforge/internal/fetch"
	"github.com/pkforge/pkforge/internal/manifest"
)

// ForEach iterates the requirements manifest and invokes the configured
// command template once per selected entry, then optionally once more
// for the enclosing project. An empty command template is a successful
// no-op before the manifest is even read.
func (d *Driver) ForEach(ctx context.Context) error {
	if d.opts.RequirementsForeach == "" {
		d.log.Debug("no foreach command configured, nothing to do")
		return nil
	}

	path, err := manifest.Localize(ctx, fetch.NewFetcher(), d.opts.RequirementsFile)
	if err != nil {
		return err
	}
	policy := manifest.ParsePolicy(d.opts.OnError)

	switch d.opts.RequirementsType {
	case "json", "yaml":
		return d.forEachStructured(ctx, path, policy)
	case "text", "flat":
		return d.forEachFlat(ctx, path, policy)
	default:
		return fmt.Errorf("unknown requirements type %q", d.opts.RequirementsType)
	}
}

func (d *Driver) forEachStructured(ctx context.Context, path string, policy manifest.ErrorPolicy) error {
	doc, err := manifest.LoadDocument(path)
	if err != nil {
		return err
	}

	fields := d.opts.FieldList()
	entries, err := doc.Select(d.opts.SelectKey, fields)
	if err != nil {
		return err
	}
	if d.opts.Self {
		entries = append(entries, doc.Self(fields))
	}

	d.log.Info("iterating requirements",
		"manifest", path, "entries", len(entries), "policy", string(policy))
	return manifest.ForEach(ctx, d.run, d.log,
		d.opts.RequirementsForeach, d.opts.VarPrefix, policy, entries)
}

func (d *Driver) forEachFlat(ctx context.Context, path string, policy manifest.ErrorPolicy) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()

	rows, err := manifest.ParseFlat(f, d.opts.LineRegex, d.opts.LineReplace, d.opts.LineDelimiter)
	if err != nil {
		return err
	}

	d.log.Info("iterating requirements",
		"manifest", path, "entries", len(rows), "policy", string(policy))
	return manifest.ForEachLine(ctx, d.run, d.log,
		d.opts.RequirementsForeach, policy, rows)
}
