package page

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formrestore/pkg/dom/htmldom"
	"github.com/goliatone/go-formrestore/pkg/model"
	"github.com/goliatone/go-formrestore/pkg/registry"
	"github.com/goliatone/go-formrestore/pkg/repopulate"
	"github.com/goliatone/go-formrestore/pkg/snapshot"
)

// Context keys set by RestoreData.
const (
	SnapshotKey = "json_data"
	RegistryKey = "form_types"
)

// Option configures the page engine before construction.
type Option func(*config)

type config struct {
	baseDir    string
	templates  fs.FS
	extension  string
	globalData map[string]any
	restorer   *repopulate.Engine
}

// WithBaseDir loads templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the default template extension (".tpl").
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithGlobalData seeds values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// WithRestorer sets the repopulation engine used by RenderRestored.
func WithRestorer(engine *repopulate.Engine) Option {
	return func(cfg *config) {
		cfg.restorer = engine
	}
}

// Engine renders named templates or inline template strings.
type Engine struct {
	mu sync.RWMutex

	templateSet *pongo2.TemplateSet
	templates   map[string]*pongo2.Template
	tplExt      string
	restorer    *repopulate.Engine
}

// New constructs an Engine. A base directory or filesystem is required.
func New(options ...Option) (*Engine, error) {
	cfg := &config{
		extension: ".tpl",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("page: need to provide either base dir or fs.FS")
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("page: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}

	restorer := cfg.restorer
	if restorer == nil {
		restorer = repopulate.New()
	}

	engine := &Engine{
		templateSet: pongo2.NewSet("formrestore", loaders...),
		templates:   make(map[string]*pongo2.Template),
		tplExt:      cfg.extension,
		restorer:    restorer,
	}
	registerDefaultFilters()

	if len(cfg.globalData) > 0 {
		if engine.templateSet.Globals == nil {
			engine.templateSet.Globals = make(pongo2.Context)
		}
		engine.templateSet.Globals.Update(pongo2.Context(cfg.globalData))
	}
	return engine, nil
}

// Render executes the named template. The extension is appended when missing.
func (e *Engine) Render(name string, data map[string]any) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("page: engine is nil")
	}
	templatePath := name
	if !strings.HasSuffix(templatePath, e.tplExt) {
		templatePath += e.tplExt
	}

	tmpl, err := e.getTemplate(templatePath)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, data, fmt.Sprintf("template %q", templatePath))
}

// RenderString executes an inline template.
func (e *Engine) RenderString(content string, data map[string]any) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("page: engine is nil")
	}
	tmpl, err := e.templateSet.FromString(content)
	if err != nil {
		return "", fmt.Errorf("page: parse template string: %w", err)
	}
	return e.execute(tmpl, data, "template string")
}

// RenderRestored renders the named template and writes snap onto the
// resulting page. The returned markup carries the restored values as
// attributes and text, so the browser shows them without running a script.
func (e *Engine) RenderRestored(name string, data map[string]any, snap model.Snapshot, reg repopulate.Registry) ([]byte, repopulate.Report, error) {
	rendered, err := e.Render(name, data)
	if err != nil {
		return nil, repopulate.Report{}, err
	}
	return Restore([]byte(rendered), snap, reg, e.restorer)
}

// Restore writes snap onto an already rendered page using engine, or a
// default engine when nil.
func Restore(markup []byte, snap model.Snapshot, reg repopulate.Registry, engine *repopulate.Engine) ([]byte, repopulate.Report, error) {
	if engine == nil {
		engine = repopulate.New()
	}
	doc, err := htmldom.Parse(bytes.NewReader(markup))
	if err != nil {
		return nil, repopulate.Report{}, fmt.Errorf("page: %w", err)
	}

	report := engine.Repopulate(doc, snap, reg)

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		return nil, report, fmt.Errorf("page: %w", err)
	}
	return buf.Bytes(), report, nil
}

// RestoreData returns template values exposing snap and reg for the tojson
// filter. The snapshot is already in wire form and encodes to null when there
// was no previous submission.
func RestoreData(snap model.Snapshot, reg registry.Map) (map[string]any, error) {
	wire := json.RawMessage("null")
	if snap != nil {
		encoded, err := snapshot.Encode(snap)
		if err != nil {
			return nil, fmt.Errorf("page: %w", err)
		}
		wire = encoded
	}
	if reg == nil {
		reg = registry.Map{}
	}
	return map[string]any{
		SnapshotKey: wire,
		RegistryKey: reg,
	}, nil
}

func (e *Engine) execute(tmpl *pongo2.Template, data map[string]any, label string) (string, error) {
	var buf bytes.Buffer

	e.mu.RLock()
	err := tmpl.ExecuteWriter(pongo2.Context(data), &buf)
	e.mu.RUnlock()

	if err != nil {
		return "", fmt.Errorf("page: execute %s: %w", label, err)
	}
	return buf.String(), nil
}

func (e *Engine) getTemplate(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}

	tmpl, err := e.templateSet.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("page: load template %q: %w", path, err)
	}

	e.templates[path] = tmpl
	return tmpl, nil
}

var registerFiltersOnce sync.Once

func registerDefaultFilters() {
	registerFiltersOnce.Do(func() {
		if !pongo2.FilterExists("tojson") {
			_ = pongo2.RegisterFilter("tojson", filterToJSON)
		}
	})
}

// filterToJSON encodes the input as JSON for script blocks. encoding/json
// escapes <, > and & so the output cannot close the surrounding tag.
func filterToJSON(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	payload, err := json.Marshal(in.Interface())
	if err != nil {
		return nil, &pongo2.Error{Sender: "filter:tojson", OrigError: err}
	}
	return pongo2.AsSafeValue(string(payload)), nil
}
