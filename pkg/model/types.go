package model

// Entry is one submitted field: the field key and every value posted for it,
// in submission order.
type Entry struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

// Unset reports whether the entry is the "present but unset" sentinel: a
// single empty string. Entries without values are treated the same way.
func (e Entry) Unset() bool {
	switch len(e.Values) {
	case 0:
		return true
	case 1:
		return e.Values[0] == ""
	default:
		return false
	}
}

// First returns the first submitted value, or "" when there is none.
func (e Entry) First() string {
	if len(e.Values) == 0 {
		return ""
	}
	return e.Values[0]
}

// Snapshot is the ordered record of a previous submission.
type Snapshot []Entry

// Lookup returns the first entry stored under key.
func (s Snapshot) Lookup(key string) (Entry, bool) {
	for _, entry := range s {
		if entry.Key == key {
			return entry, true
		}
	}
	return Entry{}, false
}

// Keys returns entry keys in snapshot order. Duplicate keys are kept.
func (s Snapshot) Keys() []string {
	if len(s) == 0 {
		return nil
	}
	keys := make([]string, 0, len(s))
	for _, entry := range s {
		keys = append(keys, entry.Key)
	}
	return keys
}
