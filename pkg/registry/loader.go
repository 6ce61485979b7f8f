package registry

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const fieldsKey = "fields"

// Load parses a registry document. The source name selects the format by
// extension (.json, .yaml, .yml, .toml); unknown extensions are tried as JSON
// then YAML. Both a bare object of field kinds and an object nesting them
// under "fields" are accepted:
//
//	fields:
//	  title: text
//	  topics: checkbox
func Load(data []byte, source string) (Map, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("registry: file %s is empty", source)
	}

	raw, err := parseDocument(data, source)
	if err != nil {
		return nil, err
	}

	kinds, err := fieldKinds(raw, source)
	if err != nil {
		return nil, err
	}

	out, err := FromFormTypes(kinds)
	if err != nil {
		return nil, fmt.Errorf("%w (file %s)", err, source)
	}
	return out, nil
}

// LoadFS walks fsys and merges every registry file it finds. A field declared
// in two files is an error. A nil filesystem yields an empty Map.
func LoadFS(fsys fs.FS) (Map, error) {
	out := make(Map)
	if fsys == nil {
		return out, nil
	}

	origins := make(map[string]string)
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isRegistryFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("registry: read %s: %w", path, err)
		}
		loaded, err := Load(data, path)
		if err != nil {
			return err
		}

		for _, key := range loaded.Keys() {
			if first, exists := origins[key]; exists {
				return fmt.Errorf("%w %q (files %s and %s)", ErrDuplicate, key, first, path)
			}
			origins[key] = path
			out[key] = loaded[key]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func parseDocument(data []byte, source string) (map[string]any, error) {
	var doc map[string]any

	switch formatOf(source) {
	case "json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("registry: parse %s: %w", source, err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("registry: parse %s: %w", source, err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("registry: parse %s: %w", source, err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err == nil {
			break
		}
		doc = nil
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("registry: parse %s: invalid JSON or YAML", source)
		}
	}

	if doc == nil {
		return nil, fmt.Errorf("registry: file %s is not an object", source)
	}
	return doc, nil
}

func fieldKinds(doc map[string]any, source string) (map[string]string, error) {
	body := doc
	if nested, ok := doc[fieldsKey]; ok {
		fields, ok := nested.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("registry: file %s: %q must be an object", source, fieldsKey)
		}
		body = fields
	}

	names := make([]string, 0, len(body))
	for name := range body {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]string, len(body))
	for _, name := range names {
		kind, ok := body[name].(string)
		if !ok {
			return nil, fmt.Errorf("registry: file %s: kind for %q must be a string", source, name)
		}
		out[name] = kind
	}
	return out, nil
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return ""
	}
}

func isRegistryFile(path string) bool {
	return formatOf(path) != ""
}
