package fallback

import (
	"sort"
	"strings"
	"sync"
)

// Built-in rule names and defaults.
const (
	RuleURLField    = "url-field"
	RuleOtherSuffix = "other-suffix"

	DefaultURLKey       = "url_value"
	DefaultURLElementID = "url-value"
	DefaultOtherSuffix  = "_other"
)

// Matcher inspects a field key missing from the type registry and returns the
// id of the element that should receive the field's first value.
type Matcher func(key string) (elementID string, ok bool)

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Resolver maps unregistered field keys onto element ids using matchers.
// Higher priority wins; ties fall back to registration order. An empty
// resolver never resolves a key.
type Resolver struct {
	mu    sync.RWMutex
	rules []rule
}

// NewResolver returns a resolver with the built-in URL field and "_other"
// suffix rules registered.
func NewResolver() *Resolver {
	res := &Resolver{}
	res.Register(RuleURLField, 90, URLField(DefaultURLKey, DefaultURLElementID))
	res.Register(RuleOtherSuffix, 80, OtherSuffix(DefaultOtherSuffix))
	return res
}

// Empty returns a resolver without rules.
func Empty() *Resolver {
	return &Resolver{}
}

// Register adds a matcher with the provided name and priority. Registering a
// name again replaces the earlier rule.
func (r *Resolver) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.rules {
		if r.rules[idx].name == trimmed {
			r.rules[idx].priority = priority
			r.rules[idx].match = matcher
			return
		}
	}
	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the target element id for key along with the name of the
// rule that matched.
func (r *Resolver) Resolve(key string) (elementID, ruleName string, ok bool) {
	if r == nil {
		return "", "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if id, matched := entry.match(key); matched && id != "" {
			return id, entry.name, true
		}
	}
	return "", "", false
}

// Rules lists rule names in resolution order.
func (r *Resolver) Rules() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	names := make([]string, 0, len(rules))
	for _, entry := range rules {
		names = append(names, entry.name)
	}
	return names
}

// URLField matches exactly key and targets the fixed element id. The default
// form renders the url_value field with id url-value.
func URLField(key, elementID string) Matcher {
	return func(candidate string) (string, bool) {
		if candidate != key || elementID == "" {
			return "", false
		}
		return elementID, true
	}
}

// OtherSuffix matches free-text "other, please specify" inputs whose key ends
// in suffix. The element id equals the key.
func OtherSuffix(suffix string) Matcher {
	return func(candidate string) (string, bool) {
		if suffix == "" || !strings.HasSuffix(candidate, suffix) {
			return "", false
		}
		return candidate, true
	}
}
