// Package repopulate restores a previous submission onto a freshly rendered
// form. Given a snapshot of submitted values and a registry of control kinds,
// it writes each entry onto the matching controls of a dom.Document:
//
//   - SingleValue: the first value is assigned to the element with id == key.
//   - MultiSelect: options of the element with id == key whose value equals a
//     submitted value become selected.
//   - MultiToggle: inputs with name == key whose value equals a submitted value
//     become checked.
//
// Keys the registry does not declare go through fallback rules (the URL field
// and "*_other" free-text inputs); anything else is skipped. The "present but
// unset" sentinel [""] is always a no-op. No pass returns an error: the
// Report lists what was applied and why entries were skipped.
package repopulate
