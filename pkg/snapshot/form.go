package snapshot

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-formrestore/pkg/model"
)

const maxFormBytes = 10 << 20

// ParseForm builds a Snapshot from an application/x-www-form-urlencoded
// payload. Keys keep the order of their first appearance and repeated keys
// collect every value, so a checkbox group posted as topics=x&topics=z becomes
// one entry with two values. A key posted with an empty value produces the
// sentinel entry.
func ParseForm(encoded string) (model.Snapshot, error) {
	var (
		out   model.Snapshot
		index = make(map[string]int)
	)

	for _, pair := range strings.Split(encoded, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("snapshot: parse form key %q: %w", rawKey, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("snapshot: parse form value for %q: %w", key, err)
		}

		if pos, ok := index[key]; ok {
			out[pos].Values = append(out[pos].Values, value)
			continue
		}
		index[key] = len(out)
		out = append(out, model.Entry{Key: key, Values: []string{value}})
	}
	return out, nil
}

// FromValues converts url.Values into a Snapshot. Keys listed in order come
// first in that order; the remaining keys follow sorted so the result is
// deterministic.
func FromValues(values url.Values, order ...string) model.Snapshot {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	out := make(model.Snapshot, 0, len(values))
	add := func(key string) {
		if _, done := seen[key]; done {
			return
		}
		list, ok := values[key]
		if !ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, model.Entry{Key: key, Values: append([]string(nil), list...)})
	}

	for _, key := range order {
		add(key)
	}
	rest := make([]string, 0, len(values))
	for key := range values {
		if _, done := seen[key]; !done {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		add(key)
	}
	return out
}

// FromRequest captures the submission carried by r. Urlencoded bodies of
// POST, PUT and PATCH requests are read in posting order and the body is
// replaced so later handlers can still call r.ParseForm. Multipart bodies lose
// their field order and fall back to FromValues. Other requests use the query
// string.
func FromRequest(r *http.Request) (model.Snapshot, error) {
	if r == nil {
		return nil, fmt.Errorf("snapshot: request is nil")
	}

	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return ParseForm(r.URL.RawQuery)
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		if r.Body == nil {
			return nil, nil
		}
		body, err := io.ReadAll(io.LimitReader(r.Body, maxFormBytes+1))
		if err != nil {
			return nil, fmt.Errorf("snapshot: read body: %w", err)
		}
		if len(body) > maxFormBytes {
			return nil, fmt.Errorf("snapshot: request body exceeds %d bytes", maxFormBytes)
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		return ParseForm(string(body))
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxFormBytes); err != nil {
			return nil, fmt.Errorf("snapshot: parse multipart: %w", err)
		}
		if r.MultipartForm == nil {
			return nil, nil
		}
		return FromValues(url.Values(r.MultipartForm.Value)), nil
	default:
		return ParseForm(r.URL.RawQuery)
	}
}
