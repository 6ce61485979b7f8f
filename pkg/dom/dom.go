// Package dom describes the slice of a live form the repopulation engine
// touches. Implementations wrap a parsed HTML tree (htmldom) or a browser tab
// (browserdom); tests use the in-memory domtest package.
//
// The contract never adds or removes elements. Mutators only change the
// current value, the selected state of an option or the checked state of an
// input.
package dom

// Document addresses controls by element id or by shared name attribute.
type Document interface {
	// ElementByID returns the element whose id attribute equals id.
	ElementByID(id string) (Element, bool)
	// ElementsByName returns every element whose name attribute equals name,
	// in document order.
	ElementsByName(name string) []Element
}

// Element is a single form control.
type Element interface {
	// Value returns the current value. For checkboxes and radios this is the
	// value attribute ("on" when absent).
	Value() string
	// SetValue replaces the current value of text-like controls.
	SetValue(value string)
	// SetChecked changes the checked state of checkboxes and radios. Other
	// elements ignore it.
	SetChecked(checked bool)
	// Options lists the options of a select element in document order. Other
	// elements return nil.
	Options() []Option
}

// Option is one entry of a select element.
type Option interface {
	// Value returns the option value (its text when no value attribute is set).
	Value() string
	// SetSelected changes the selected state.
	SetSelected(selected bool)
}
