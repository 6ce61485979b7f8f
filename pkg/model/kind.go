package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind reports a control kind string that does not map onto any
// ControlKind.
var ErrUnknownKind = errors.New("model: unknown control kind")

// ControlKind enumerates how a field's values are written onto live controls.
type ControlKind uint8

const (
	// KindUnknown is the zero value and never produced by ParseControlKind.
	KindUnknown ControlKind = iota
	// SingleValue covers text, textarea and date inputs addressed by id.
	SingleValue
	// MultiSelect covers option lists addressed by id.
	MultiSelect
	// MultiToggle covers checkbox and radio groups sharing a name.
	MultiToggle
)

const (
	kindNameSingle = "single"
	kindNameSelect = "multi-select"
	kindNameToggle = "multi-toggle"
)

var kindAliases = map[string]ControlKind{
	kindNameSingle: SingleValue,
	"singlevalue":  SingleValue,
	"text":         SingleValue,
	"textarea":     SingleValue,
	"date":         SingleValue,
	kindNameSelect: MultiSelect,
	"multiselect":  MultiSelect,
	"select":       MultiSelect,
	"selectsingle": MultiSelect,
	kindNameToggle: MultiToggle,
	"multitoggle":  MultiToggle,
	"checkbox":     MultiToggle,
	"radio":        MultiToggle,
}

// ParseControlKind maps canonical kind names and the legacy form types
// (text, textarea, date, select, selectsingle, checkbox, radio) onto a
// ControlKind. Matching ignores case and surrounding whitespace.
func ParseControlKind(raw string) (ControlKind, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if kind, ok := kindAliases[key]; ok {
		return kind, nil
	}
	return KindUnknown, fmt.Errorf("%w: %q", ErrUnknownKind, raw)
}

// String returns the canonical name of the kind.
func (k ControlKind) String() string {
	switch k {
	case SingleValue:
		return kindNameSingle
	case MultiSelect:
		return kindNameSelect
	case MultiToggle:
		return kindNameToggle
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the declared kinds.
func (k ControlKind) Valid() bool {
	return k == SingleValue || k == MultiSelect || k == MultiToggle
}

// MarshalText implements encoding.TextMarshaler.
func (k ControlKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so registries decode from
// JSON, YAML and TOML documents.
func (k *ControlKind) UnmarshalText(text []byte) error {
	kind, err := ParseControlKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}
