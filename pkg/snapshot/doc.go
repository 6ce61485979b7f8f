// Package snapshot decodes and encodes the record of a previous form
// submission. The wire format is the JSON list of pairs embedded by the page
// that failed validation:
//
//	[["title", ["My page"]], ["topics", ["x", "z"]], ["notes", [""]]]
//
// Decode is strict: every tuple must hold a string key and a list of strings.
// ParseForm and FromRequest build the same structure straight from an
// urlencoded submission, keeping the order in which keys were posted.
package snapshot
