package repopulate

import "github.com/goliatone/go-formrestore/pkg/model"

// SkipReason explains why an entry left the document untouched.
type SkipReason string

const (
	// SkipUnset marks the "present but unset" sentinel.
	SkipUnset SkipReason = "unset"
	// SkipUnknownField marks keys missing from the registry that no fallback
	// rule matched.
	SkipUnknownField SkipReason = "unknown-field"
	// SkipMissingElement marks keys whose target element is absent from the
	// document.
	SkipMissingElement SkipReason = "missing-element"
	// SkipUnknownKind marks registry entries holding an invalid kind.
	SkipUnknownKind SkipReason = "unknown-kind"
)

// Applied records an entry written into the document.
type Applied struct {
	Key  string
	Kind model.ControlKind
	// Target is the element id, or the shared name for MultiToggle groups.
	Target string
	// Rule names the fallback rule used, empty for registry matches.
	Rule string
	// Matches counts the elements or options whose state was written.
	Matches int
}

// Skipped records an entry that left the document untouched.
type Skipped struct {
	Key    string
	Reason SkipReason
}

// Report summarises one repopulation pass. It is diagnostic only; the result
// of a pass is the state of the document.
type Report struct {
	Applied []Applied
	Skipped []Skipped
}

// Empty reports whether the pass saw no entries.
func (r Report) Empty() bool {
	return len(r.Applied) == 0 && len(r.Skipped) == 0
}

// SkippedKeys returns skipped keys grouped by reason.
func (r Report) SkippedKeys() map[SkipReason][]string {
	if len(r.Skipped) == 0 {
		return nil
	}
	out := make(map[SkipReason][]string)
	for _, skip := range r.Skipped {
		out[skip.Reason] = append(out[skip.Reason], skip.Key)
	}
	return out
}
