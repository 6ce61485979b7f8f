package repopulate

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-formrestore/pkg/dom"
	"github.com/goliatone/go-formrestore/pkg/fallback"
	"github.com/goliatone/go-formrestore/pkg/model"
)

// Registry resolves the declared control kind of a field key. registry.Map
// and *registry.Registry both satisfy it.
type Registry interface {
	Lookup(key string) (model.ControlKind, bool)
}

// Engine writes snapshot values onto a document. It holds no per-pass state
// and is safe to share across goroutines working on different documents.
type Engine struct {
	fallback     *fallback.Resolver
	urlKey       string
	urlElementID string
	otherSuffix  string
	logger       *zap.Logger
}

// New builds an Engine. Without WithFallback the engine resolves unregistered
// keys with the URL field rule and the "_other" suffix rule, configured by
// WithURLField and WithOtherSuffix.
func New(options ...Option) *Engine {
	e := &Engine{
		urlKey:       fallback.DefaultURLKey,
		urlElementID: fallback.DefaultURLElementID,
		otherSuffix:  fallback.DefaultOtherSuffix,
		logger:       zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	if e.fallback == nil {
		res := fallback.Empty()
		res.Register(fallback.RuleURLField, 90, fallback.URLField(e.urlKey, e.urlElementID))
		res.Register(fallback.RuleOtherSuffix, 80, fallback.OtherSuffix(e.otherSuffix))
		e.fallback = res
	}
	return e
}

// Repopulate applies snap onto doc using a default Engine.
func Repopulate(doc dom.Document, snap model.Snapshot, reg Registry) Report {
	return New().Repopulate(doc, snap, reg)
}

// Repopulate writes every entry of snap onto doc. Entries are independent:
// each is resolved through reg, or the fallback rules when reg does not know
// the key, and applied or skipped on its own. Nothing is ever cleared, so a
// pass over a freshly rendered form reproduces the submission and a second
// pass changes nothing.
func (e *Engine) Repopulate(doc dom.Document, snap model.Snapshot, reg Registry) Report {
	var report Report
	for _, entry := range snap {
		e.apply(doc, entry, reg, &report)
	}
	return report
}

func (e *Engine) apply(doc dom.Document, entry model.Entry, reg Registry, report *Report) {
	logger := e.logger.With(zap.String("key", entry.Key))

	if entry.Unset() {
		e.skip(report, logger, entry.Key, SkipUnset)
		return
	}
	if doc == nil {
		e.skip(report, logger, entry.Key, SkipMissingElement)
		return
	}

	kind, registered := lookup(reg, entry.Key)
	if !registered {
		e.applyFallback(doc, entry, report, logger)
		return
	}

	var (
		applied Applied
		ok      bool
	)
	switch kind {
	case model.SingleValue:
		applied, ok = applySingle(doc, entry.Key, entry)
	case model.MultiSelect:
		applied, ok = applySelect(doc, entry)
	case model.MultiToggle:
		applied, ok = applyToggle(doc, entry)
	default:
		e.skip(report, logger, entry.Key, SkipUnknownKind)
		return
	}
	if !ok {
		e.skip(report, logger, entry.Key, SkipMissingElement)
		return
	}

	applied.Kind = kind
	report.Applied = append(report.Applied, applied)
	logger.Debug("entry applied",
		zap.Stringer("kind", kind),
		zap.String("target", applied.Target),
		zap.Int("matches", applied.Matches),
	)
}

func (e *Engine) applyFallback(doc dom.Document, entry model.Entry, report *Report, logger *zap.Logger) {
	elementID, rule, ok := e.fallback.Resolve(entry.Key)
	if !ok {
		e.skip(report, logger, entry.Key, SkipUnknownField)
		return
	}

	applied, ok := applySingle(doc, elementID, entry)
	if !ok {
		e.skip(report, logger, entry.Key, SkipMissingElement)
		return
	}

	applied.Kind = model.SingleValue
	applied.Rule = rule
	report.Applied = append(report.Applied, applied)
	logger.Debug("entry applied by fallback",
		zap.String("rule", rule),
		zap.String("target", elementID),
	)
}

func (e *Engine) skip(report *Report, logger *zap.Logger, key string, reason SkipReason) {
	report.Skipped = append(report.Skipped, Skipped{Key: key, Reason: reason})
	logger.Debug("entry skipped", zap.String("reason", string(reason)))
}

func lookup(reg Registry, key string) (model.ControlKind, bool) {
	if reg == nil {
		return model.KindUnknown, false
	}
	return reg.Lookup(key)
}

// applySingle assigns the first value verbatim; further values are ignored.
func applySingle(doc dom.Document, elementID string, entry model.Entry) (Applied, bool) {
	el, ok := doc.ElementByID(elementID)
	if !ok || el == nil {
		return Applied{}, false
	}
	el.SetValue(entry.First())
	return Applied{Key: entry.Key, Target: elementID, Matches: 1}, true
}

// applySelect selects every option whose value equals one of the submitted
// values. Options not mentioned keep their state.
func applySelect(doc dom.Document, entry model.Entry) (Applied, bool) {
	el, ok := doc.ElementByID(entry.Key)
	if !ok || el == nil {
		return Applied{}, false
	}

	matches := 0
	for _, value := range entry.Values {
		for _, opt := range el.Options() {
			if opt.Value() != value {
				continue
			}
			opt.SetSelected(true)
			matches++
		}
	}
	return Applied{Key: entry.Key, Target: entry.Key, Matches: matches}, true
}

// applyToggle checks every element named after the key whose value equals
// one of the submitted values. Elements not mentioned keep their state.
func applyToggle(doc dom.Document, entry model.Entry) (Applied, bool) {
	members := doc.ElementsByName(entry.Key)
	if len(members) == 0 {
		return Applied{}, false
	}

	matches := 0
	for _, value := range entry.Values {
		for _, el := range members {
			if el.Value() != value {
				continue
			}
			el.SetChecked(true)
			matches++
		}
	}
	return Applied{Key: entry.Key, Target: entry.Key, Matches: matches}, true
}
