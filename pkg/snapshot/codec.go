package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-formrestore/pkg/model"
)

// DecodeError describes a malformed snapshot tuple. Index is -1 when the
// payload itself is not a list.
type DecodeError struct {
	Index  int
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Index < 0 {
		return "snapshot: " + e.Reason
	}
	return fmt.Sprintf("snapshot: entry %d: %s", e.Index, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

var jsonNull = []byte("null")

// Decode parses the JSON wire form into a Snapshot. A literal null decodes to
// an empty snapshot, matching pages rendered without a previous submission.
func Decode(data []byte) (model.Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &DecodeError{Index: -1, Reason: "payload is empty"}
	}
	if bytes.Equal(trimmed, jsonNull) {
		return nil, nil
	}

	var tuples []json.RawMessage
	if err := json.Unmarshal(trimmed, &tuples); err != nil {
		return nil, &DecodeError{Index: -1, Reason: "payload is not a list", Err: err}
	}

	out := make(model.Snapshot, 0, len(tuples))
	for idx, raw := range tuples {
		entry, err := decodeEntry(idx, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

func decodeEntry(idx int, raw json.RawMessage) (model.Entry, error) {
	var pair []json.RawMessage
	if err := json.Unmarshal(raw, &pair); err != nil || pair == nil {
		return model.Entry{}, &DecodeError{Index: idx, Reason: "entry is not a [key, values] pair", Err: err}
	}
	if len(pair) != 2 {
		return model.Entry{}, &DecodeError{Index: idx, Reason: fmt.Sprintf("entry has %d elements, want 2", len(pair))}
	}

	key, err := decodeString(pair[0])
	if err != nil {
		return model.Entry{}, &DecodeError{Index: idx, Reason: "key is not a string", Err: err}
	}

	var rawValues []json.RawMessage
	if err := json.Unmarshal(pair[1], &rawValues); err != nil || rawValues == nil {
		return model.Entry{}, &DecodeError{Index: idx, Reason: fmt.Sprintf("values for %q are not a list", key), Err: err}
	}

	values := make([]string, 0, len(rawValues))
	for pos, rawValue := range rawValues {
		value, err := decodeString(rawValue)
		if err != nil {
			return model.Entry{}, &DecodeError{Index: idx, Reason: fmt.Sprintf("value %d for %q is not a string", pos, key), Err: err}
		}
		values = append(values, value)
	}

	return model.Entry{Key: key, Values: values}, nil
}

func decodeString(raw json.RawMessage) (string, error) {
	if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return "", errors.New("null")
	}
	var out string
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", err
	}
	return out, nil
}

// Encode renders a Snapshot in the JSON wire form accepted by Decode. Nil
// value lists are written as empty lists.
func Encode(snap model.Snapshot) ([]byte, error) {
	tuples := make([][2]any, 0, len(snap))
	for _, entry := range snap {
		values := entry.Values
		if values == nil {
			values = []string{}
		}
		tuples = append(tuples, [2]any{entry.Key, values})
	}
	payload, err := json.Marshal(tuples)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode: %w", err)
	}
	return payload, nil
}
