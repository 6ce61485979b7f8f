package browserdom

import (
	"github.com/goliatone/go-formrestore/pkg/dom"
)

// Element is a control addressed by a script locator. It is re-resolved on
// every call, so it reflects the page as it is now.
type Element struct {
	doc *Document
	loc locator
}

var _ dom.Element = (*Element)(nil)

// Value implements dom.Element.
func (e *Element) Value() string {
	var out string
	if !e.doc.eval(valueExpr(e.loc), &out) {
		return ""
	}
	return out
}

// SetValue implements dom.Element.
func (e *Element) SetValue(value string) {
	var ok bool
	e.doc.eval(setValueExpr(e.loc, value), &ok)
}

// SetChecked implements dom.Element.
func (e *Element) SetChecked(checked bool) {
	var ok bool
	e.doc.eval(setCheckedExpr(e.loc, checked), &ok)
}

// Options implements dom.Element.
func (e *Element) Options() []dom.Option {
	var count int
	if !e.doc.eval(optionCountExpr(e.loc), &count) || count == 0 {
		return nil
	}
	out := make([]dom.Option, 0, count)
	for idx := 0; idx < count; idx++ {
		out = append(out, &Option{doc: e.doc, loc: e.loc.option(idx)})
	}
	return out
}

// Option is one entry of a live select element.
type Option struct {
	doc *Document
	loc locator
}

var _ dom.Option = (*Option)(nil)

// Value implements dom.Option.
func (o *Option) Value() string {
	var out string
	if !o.doc.eval(valueExpr(o.loc), &out) {
		return ""
	}
	return out
}

// SetSelected implements dom.Option.
func (o *Option) SetSelected(selected bool) {
	var ok bool
	o.doc.eval(setSelectedExpr(o.loc, selected), &ok)
}
