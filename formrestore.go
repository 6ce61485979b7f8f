// Package formrestore puts a submitted form back the way the user left it.
// It exposes the common path through the sub-packages: decode the snapshot,
// load the registry and restore an HTML page.
package formrestore

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goliatone/go-formrestore/pkg/dom/htmldom"
	"github.com/goliatone/go-formrestore/pkg/model"
	"github.com/goliatone/go-formrestore/pkg/registry"
	"github.com/goliatone/go-formrestore/pkg/repopulate"
	"github.com/goliatone/go-formrestore/pkg/snapshot"
)

// Snapshot aliases model.Snapshot for callers using the top-level package.
type Snapshot = model.Snapshot

// Entry aliases model.Entry.
type Entry = model.Entry

// ControlKind aliases model.ControlKind.
type ControlKind = model.ControlKind

// Control kinds re-exported from model.
const (
	SingleValue = model.SingleValue
	MultiSelect = model.MultiSelect
	MultiToggle = model.MultiToggle
)

// Registry aliases registry.Map, the plain field to kind lookup.
type Registry = registry.Map

// Report aliases repopulate.Report.
type Report = repopulate.Report

// Option aliases repopulate.Option.
type Option = repopulate.Option

// DecodeSnapshot parses the JSON wire form [[key, [values...]], ...].
func DecodeSnapshot(data []byte) (Snapshot, error) {
	return snapshot.Decode(data)
}

// LoadRegistry parses a JSON, YAML or TOML registry document.
func LoadRegistry(data []byte, source string) (Registry, error) {
	return registry.Load(data, source)
}

// RestoreHTML reads a page from r, restores snap onto it and writes the result
// to w.
func RestoreHTML(r io.Reader, w io.Writer, snap Snapshot, reg repopulate.Registry, options ...Option) (Report, error) {
	doc, err := htmldom.Parse(r)
	if err != nil {
		return Report{}, fmt.Errorf("formrestore: %w", err)
	}
	report := repopulate.New(options...).Repopulate(doc, snap, reg)
	if err := doc.Render(w); err != nil {
		return report, fmt.Errorf("formrestore: %w", err)
	}
	return report, nil
}

// RestoreHTMLString is RestoreHTML over strings.
func RestoreHTMLString(markup string, snap Snapshot, reg repopulate.Registry, options ...Option) (string, Report, error) {
	var buf bytes.Buffer
	report, err := RestoreHTML(bytes.NewBufferString(markup), &buf, snap, reg, options...)
	if err != nil {
		return "", report, err
	}
	return buf.String(), report, nil
}
