package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formrestore/pkg/model"
)

// ErrDuplicate reports a field key registered twice.
var ErrDuplicate = errors.New("registry: duplicate field")

// Map is the plain field key to control kind mapping embedded next to a
// snapshot. It satisfies the lookup contract the repopulation engine needs.
type Map map[string]model.ControlKind

// Lookup returns the declared kind for key.
func (m Map) Lookup(key string) (model.ControlKind, bool) {
	kind, ok := m[key]
	return kind, ok
}

// Keys returns the registered keys sorted.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Registry stores field kinds for long-lived processes that serve several
// forms from one declaration. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	fields map[string]model.ControlKind
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		fields: make(map[string]model.ControlKind),
	}
}

// FromMap creates a registry seeded with m.
func FromMap(m Map) (*Registry, error) {
	reg := New()
	for _, key := range m.Keys() {
		if err := reg.Register(key, m[key]); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Register declares the kind for a field key. Empty keys, invalid kinds and
// duplicates return an error.
func (r *Registry) Register(key string, kind model.ControlKind) error {
	name := strings.TrimSpace(key)
	if name == "" {
		return fmt.Errorf("registry: field key is required")
	}
	if !kind.Valid() {
		return fmt.Errorf("registry: field %q: %w", name, model.ErrUnknownKind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.fields[name]; exists {
		return fmt.Errorf("%w %q", ErrDuplicate, name)
	}
	r.fields[name] = kind
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(key string, kind model.ControlKind) {
	if err := r.Register(key, kind); err != nil {
		panic(err)
	}
}

// Lookup returns the declared kind for key.
func (r *Registry) Lookup(key string) (model.ControlKind, bool) {
	if r == nil {
		return model.KindUnknown, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	kind, ok := r.fields[key]
	return kind, ok
}

// Keys returns a sorted list of registered field keys.
func (r *Registry) Keys() []string {
	return r.Snapshot().Keys()
}

// Len reports the number of registered fields.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.fields)
}

// Snapshot copies the registry into a Map.
func (r *Registry) Snapshot() Map {
	if r == nil {
		return Map{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(Map, len(r.fields))
	for key, kind := range r.fields {
		out[key] = kind
	}
	return out
}

// FromFormTypes converts the legacy form_types object (field name to
// "checkbox", "date", "radio", "select", "selectsingle", "text" or
// "textarea") into a Map.
func FromFormTypes(types map[string]string) (Map, error) {
	out := make(Map, len(types))
	for name, raw := range types {
		key := strings.TrimSpace(name)
		if key == "" {
			return nil, fmt.Errorf("registry: form type declared for an empty field key")
		}
		kind, err := model.ParseControlKind(raw)
		if err != nil {
			return nil, fmt.Errorf("registry: field %q: %w", key, err)
		}
		out[key] = kind
	}
	return out, nil
}
