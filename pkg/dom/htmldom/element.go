package htmldom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-formrestore/pkg/dom"
)

const defaultToggleValue = "on"

// Element wraps one element node.
type Element struct {
	node *html.Node
}

var _ dom.Element = (*Element)(nil)

// Node returns the wrapped node.
func (e *Element) Node() *html.Node {
	return e.node
}

// Value implements dom.Element.
func (e *Element) Value() string {
	n := e.node
	switch n.DataAtom {
	case atom.Input:
		if isToggle(n) && !hasAttr(n, "value") {
			return defaultToggleValue
		}
		return attr(n, "value")
	case atom.Textarea:
		return textContent(n)
	case atom.Select:
		for _, opt := range options(n) {
			if hasAttr(opt, "selected") {
				return optionValue(opt)
			}
		}
		if opts := options(n); len(opts) > 0 && !hasAttr(n, "multiple") {
			return optionValue(opts[0])
		}
		return ""
	case atom.Option:
		return optionValue(n)
	default:
		return attr(n, "value")
	}
}

// SetValue implements dom.Element. Textareas get their text replaced, selects
// select the matching option and every other element stores the value
// attribute.
func (e *Element) SetValue(value string) {
	n := e.node
	switch n.DataAtom {
	case atom.Textarea:
		for child := n.FirstChild; child != nil; {
			next := child.NextSibling
			n.RemoveChild(child)
			child = next
		}
		if value != "" {
			n.AppendChild(&html.Node{Type: html.TextNode, Data: value})
		}
	case atom.Select:
		for _, opt := range options(n) {
			if optionValue(opt) == value {
				(&Option{node: opt, sel: n}).SetSelected(true)
				return
			}
		}
		for _, opt := range options(n) {
			removeAttr(opt, "selected")
		}
	default:
		setAttr(n, "value", value)
	}
}

// SetChecked implements dom.Element.
func (e *Element) SetChecked(checked bool) {
	n := e.node
	if !isToggle(n) {
		return
	}
	if !checked {
		removeAttr(n, "checked")
		return
	}
	if strings.EqualFold(attr(n, "type"), "radio") {
		uncheckRadioGroup(n)
	}
	setAttr(n, "checked", "")
}

// Checked reports whether a checkbox or radio carries the checked attribute.
func (e *Element) Checked() bool {
	return isToggle(e.node) && hasAttr(e.node, "checked")
}

// Options implements dom.Element.
func (e *Element) Options() []dom.Option {
	if e.node.DataAtom != atom.Select {
		return nil
	}
	nodes := options(e.node)
	if len(nodes) == 0 {
		return nil
	}
	out := make([]dom.Option, 0, len(nodes))
	for _, opt := range nodes {
		out = append(out, &Option{node: opt, sel: e.node})
	}
	return out
}

// Option wraps an option node and its owning select.
type Option struct {
	node *html.Node
	sel  *html.Node
}

var _ dom.Option = (*Option)(nil)

// Value implements dom.Option.
func (o *Option) Value() string {
	return optionValue(o.node)
}

// Selected reports whether the option carries the selected attribute.
func (o *Option) Selected() bool {
	return hasAttr(o.node, "selected")
}

// SetSelected implements dom.Option.
func (o *Option) SetSelected(selected bool) {
	if !selected {
		removeAttr(o.node, "selected")
		return
	}
	if o.sel != nil && !hasAttr(o.sel, "multiple") {
		for _, sibling := range options(o.sel) {
			if sibling != o.node {
				removeAttr(sibling, "selected")
			}
		}
	}
	setAttr(o.node, "selected", "")
}

func isToggle(n *html.Node) bool {
	if n.DataAtom != atom.Input {
		return false
	}
	typ := strings.ToLower(strings.TrimSpace(attr(n, "type")))
	return typ == "checkbox" || typ == "radio"
}

func options(sel *html.Node) []*html.Node {
	var out []*html.Node
	for child := sel.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		switch child.DataAtom {
		case atom.Option:
			out = append(out, child)
		case atom.Optgroup:
			for opt := child.FirstChild; opt != nil; opt = opt.NextSibling {
				if opt.Type == html.ElementNode && opt.DataAtom == atom.Option {
					out = append(out, opt)
				}
			}
		}
	}
	return out
}

// optionValue mirrors HTMLOptionElement.value: the value attribute, or the
// text with whitespace stripped and collapsed.
func optionValue(opt *html.Node) string {
	if hasAttr(opt, "value") {
		return attr(opt, "value")
	}
	return strings.Join(strings.Fields(textContent(opt)), " ")
}

// uncheckRadioGroup clears the other radios sharing n's name inside the same
// form, or outside any form when n has none.
func uncheckRadioGroup(n *html.Node) {
	name := attr(n, "name")
	if name == "" {
		return
	}
	form := ancestor(n, atom.Form)
	scope := form
	if scope == nil {
		scope = root(n)
	}
	walk(scope, func(other *html.Node) bool {
		if other == n || other.DataAtom != atom.Input {
			return true
		}
		if !strings.EqualFold(attr(other, "type"), "radio") || attr(other, "name") != name {
			return true
		}
		if ancestor(other, atom.Form) != form {
			return true
		}
		removeAttr(other, "checked")
		return true
	})
}
