// Package domtest provides an in-memory dom.Document for exercising code that
// mutates form controls without parsing HTML or starting a browser.
package domtest

import (
	"github.com/goliatone/go-formrestore/pkg/dom"
)

// Document is a flat list of controls. Lookups scan the list in order so the
// first element with a given id wins, as in browsers.
type Document struct {
	Elements []*Element
}

// Element is a fake control. Kind is free-form ("text", "select",
// "checkbox", ...) and only matters to callers inspecting state.
type Element struct {
	ID      string
	Name    string
	Kind    string
	Val     string
	Checked bool
	Opts    []*Option

	// Writes counts every mutator call, including ones that do not change
	// state.
	Writes int
}

// Option is a fake select option.
type Option struct {
	Val      string
	Selected bool
}

var (
	_ dom.Document = (*Document)(nil)
	_ dom.Element  = (*Element)(nil)
	_ dom.Option   = (*Option)(nil)
)

// New returns a document holding elements.
func New(elements ...*Element) *Document {
	return &Document{Elements: elements}
}

// Text returns a text-like control addressed by id and name.
func Text(id, value string) *Element {
	return &Element{ID: id, Name: id, Kind: "text", Val: value}
}

// Select returns a select control with the given option values.
func Select(id string, values ...string) *Element {
	el := &Element{ID: id, Name: id, Kind: "select"}
	for _, value := range values {
		el.Opts = append(el.Opts, &Option{Val: value})
	}
	return el
}

// Checkbox returns a checkbox sharing name with its group.
func Checkbox(name, value string) *Element {
	return &Element{ID: name + "-" + value, Name: name, Kind: "checkbox", Val: value}
}

// ElementByID implements dom.Document.
func (d *Document) ElementByID(id string) (dom.Element, bool) {
	for _, el := range d.Elements {
		if el.ID == id {
			return el, true
		}
	}
	return nil, false
}

// ElementsByName implements dom.Document.
func (d *Document) ElementsByName(name string) []dom.Element {
	var out []dom.Element
	for _, el := range d.Elements {
		if el.Name == name {
			out = append(out, el)
		}
	}
	return out
}

// ByID returns the concrete element for assertions.
func (d *Document) ByID(id string) *Element {
	for _, el := range d.Elements {
		if el.ID == id {
			return el
		}
	}
	return nil
}

// State captures every mutable property so tests can compare documents with
// cmp.Diff.
func (d *Document) State() []ElementState {
	out := make([]ElementState, 0, len(d.Elements))
	for _, el := range d.Elements {
		state := ElementState{ID: el.ID, Value: el.Val, Checked: el.Checked}
		for _, opt := range el.Opts {
			if opt.Selected {
				state.Selected = append(state.Selected, opt.Val)
			}
		}
		out = append(out, state)
	}
	return out
}

// TotalWrites sums mutator calls across elements.
func (d *Document) TotalWrites() int {
	total := 0
	for _, el := range d.Elements {
		total += el.Writes
	}
	return total
}

// ElementState is the observable state of one element.
type ElementState struct {
	ID       string
	Value    string
	Checked  bool
	Selected []string
}

// Value implements dom.Element.
func (e *Element) Value() string { return e.Val }

// SetValue implements dom.Element.
func (e *Element) SetValue(value string) {
	e.Writes++
	e.Val = value
}

// SetChecked implements dom.Element.
func (e *Element) SetChecked(checked bool) {
	e.Writes++
	if e.Kind == "checkbox" || e.Kind == "radio" {
		e.Checked = checked
	}
}

// Options implements dom.Element.
func (e *Element) Options() []dom.Option {
	if len(e.Opts) == 0 {
		return nil
	}
	out := make([]dom.Option, 0, len(e.Opts))
	for _, opt := range e.Opts {
		out = append(out, opt)
	}
	return out
}

// Value implements dom.Option.
func (o *Option) Value() string { return o.Val }

// SetSelected implements dom.Option.
func (o *Option) SetSelected(selected bool) {
	o.Selected = selected
}
