// Package model defines the typed inputs of a form restore pass. A Snapshot
// records what the user previously submitted as an ordered list of
// key/values entries, and ControlKind classifies how a field's values map onto
// live controls: a single value assigned by element id, an option list matched
// by value, or a group of checkable inputs sharing a name. Loaders and decoders
// live in pkg/snapshot and pkg/registry but return the types defined here.
package model
