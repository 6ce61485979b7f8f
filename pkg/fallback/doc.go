// Package fallback resolves fields that a form renders outside its declared
// schema. The nomination form has two such families: the page URL field and
// the free-text inputs attached to "other, please specify" options. Both are
// single values written by element id.
package fallback
