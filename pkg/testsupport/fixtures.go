// Package testsupport loads the shared fixtures under testdata/.
package testsupport

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/goliatone/go-formrestore/pkg/dom/htmldom"
	"github.com/goliatone/go-formrestore/pkg/model"
	"github.com/goliatone/go-formrestore/pkg/registry"
	"github.com/goliatone/go-formrestore/pkg/snapshot"
)

// FixturePath resolves name inside the module-level testdata directory so
// tests in any package can share fixtures.
func FixturePath(name string) string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return filepath.Join("testdata", name)
	}
	return filepath.Join(filepath.Dir(file), "..", "..", "testdata", name)
}

// MustLoadSnapshot decodes a snapshot fixture, failing the test on error.
func MustLoadSnapshot(t *testing.T, path string) model.Snapshot {
	t.Helper()

	snap, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	return snap
}

// LoadSnapshot decodes a snapshot fixture without requiring testing.T.
func LoadSnapshot(path string) (model.Snapshot, error) {
	if path == "" {
		return nil, errors.New("testsupport: snapshot path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read snapshot: %w", err)
	}
	return snapshot.Decode(data)
}

// MustLoadRegistry loads a registry fixture in any supported format.
func MustLoadRegistry(t *testing.T, path string) registry.Map {
	t.Helper()

	if path == "" {
		t.Fatalf("load registry: path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read registry: %v", err)
	}
	reg, err := registry.Load(data, path)
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	return reg
}

// MustParseHTML parses an HTML fixture into a document.
func MustParseHTML(t *testing.T, path string) *htmldom.Document {
	t.Helper()

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open html: %v", err)
	}
	defer file.Close()

	doc, err := htmldom.Parse(file)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// MustReadFixture returns the raw bytes of a fixture file.
func MustReadFixture(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}
