package repopulate

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-formrestore/pkg/fallback"
)

// Option configures an Engine.
type Option func(*Engine)

// WithFallback replaces the resolver used for fields missing from the
// registry. A nil resolver disables the fallback path.
func WithFallback(resolver *fallback.Resolver) Option {
	return func(e *Engine) {
		if resolver == nil {
			resolver = fallback.Empty()
		}
		e.fallback = resolver
	}
}

// WithURLField changes the key and element id of the default URL field.
func WithURLField(key, elementID string) Option {
	return func(e *Engine) {
		e.urlKey = key
		e.urlElementID = elementID
	}
}

// WithOtherSuffix changes the suffix identifying "other, please specify"
// free-text fields.
func WithOtherSuffix(suffix string) Option {
	return func(e *Engine) {
		e.otherSuffix = suffix
	}
}

// WithLogger traces each entry at debug level. The engine is silent by
// default.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger == nil {
			logger = zap.NewNop()
		}
		e.logger = logger
	}
}
