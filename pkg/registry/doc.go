// Package registry declares which control kind each schema field uses.
//
// A registry arrives in one of several shapes: the form_types JSON object
// embedded by a page, a registry document in JSON, YAML or TOML, or the
// request body of an OpenAPI operation. Every loader returns a Map, the
// read-only lookup the repopulation engine consumes. Registry wraps a Map for
// processes that assemble declarations at start-up.
package registry
