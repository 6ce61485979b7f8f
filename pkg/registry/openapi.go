package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formrestore/pkg/model"
)

// ControlExtension overrides the inferred kind of a request body property.
// Any spelling accepted by model.ParseControlKind works.
const ControlExtension = "x-control"

var mediaTypePreference = []string{
	"application/x-www-form-urlencoded",
	"multipart/form-data",
	"application/json",
}

// FromOpenAPI derives a Map from the request body of the operation with the
// given id. Properties map onto kinds as follows: an x-control extension
// wins; arrays of enumerated items become MultiToggle; other arrays and
// enumerated scalars become MultiSelect; objects are skipped; everything else
// is SingleValue.
func FromOpenAPI(ctx context.Context, data []byte, operationID string) (Map, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := strings.TrimSpace(operationID)
	if id == "" {
		return nil, errors.New("registry: operation id is required")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("registry: load openapi document: %w", err)
	}

	op := findOperation(spec, id)
	if op == nil {
		return nil, fmt.Errorf("registry: operation %q not found", id)
	}

	schema := requestSchema(op)
	if schema == nil {
		return nil, fmt.Errorf("registry: operation %q has no request body schema", id)
	}

	out := make(Map, len(schema.Properties))
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		kind, ok, err := inferKind(ref.Value)
		if err != nil {
			return nil, fmt.Errorf("registry: operation %q property %q: %w", id, name, err)
		}
		if ok {
			out[name] = kind
		}
	}
	return out, nil
}

func findOperation(spec *openapi3.T, id string) *openapi3.Operation {
	if spec == nil || spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == id {
				return op
			}
		}
	}
	return nil
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	if len(content) == 0 {
		return nil
	}

	for _, mediaType := range mediaTypePreference {
		if schema := schemaOf(content[mediaType]); schema != nil {
			return schema
		}
	}

	names := make([]string, 0, len(content))
	for name := range content {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if schema := schemaOf(content[name]); schema != nil {
			return schema
		}
	}
	return nil
}

func schemaOf(media *openapi3.MediaType) *openapi3.Schema {
	if media == nil || media.Schema == nil {
		return nil
	}
	return media.Schema.Value
}

func inferKind(schema *openapi3.Schema) (model.ControlKind, bool, error) {
	if raw, ok := schema.Extensions[ControlExtension]; ok {
		text, isString := raw.(string)
		if !isString {
			return model.KindUnknown, false, fmt.Errorf("%s must be a string", ControlExtension)
		}
		kind, err := model.ParseControlKind(text)
		if err != nil {
			return model.KindUnknown, false, err
		}
		return kind, true, nil
	}

	switch {
	case hasType(schema.Type, openapi3.TypeObject):
		return model.KindUnknown, false, nil
	case hasType(schema.Type, openapi3.TypeArray):
		if schema.Items != nil && schema.Items.Value != nil && len(schema.Items.Value.Enum) > 0 {
			return model.MultiToggle, true, nil
		}
		return model.MultiSelect, true, nil
	case len(schema.Enum) > 0:
		return model.MultiSelect, true, nil
	default:
		return model.SingleValue, true, nil
	}
}

func hasType(types *openapi3.Types, want string) bool {
	if types == nil {
		return false
	}
	for _, typ := range types.Slice() {
		if typ == want {
			return true
		}
	}
	return false
}
