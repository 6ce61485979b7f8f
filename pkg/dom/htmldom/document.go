// Package htmldom implements dom.Document over a parsed HTML tree. Mutations
// are written back as attributes and text so rendering the tree yields a page
// whose controls show the restored state on first paint.
//
// Exclusive controls follow browser semantics: checking a radio unchecks the
// other radios of its group in the same form, and selecting an option of a
// select without the multiple attribute deselects its siblings.
package htmldom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-formrestore/pkg/dom"
)

// Document wraps the root of a parsed HTML tree. It is not safe for
// concurrent use.
type Document struct {
	root *html.Node
}

var _ dom.Document = (*Document)(nil)

// Parse reads a full HTML page.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("htmldom: parse: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString is Parse over an in-memory page.
func ParseString(page string) (*Document, error) {
	return Parse(strings.NewReader(page))
}

// FromNode wraps an existing tree. The node is mutated in place.
func FromNode(root *html.Node) *Document {
	return &Document{root: root}
}

// Root returns the underlying tree.
func (d *Document) Root() *html.Node {
	return d.root
}

// Render serialises the tree.
func (d *Document) Render(w io.Writer) error {
	if d == nil || d.root == nil {
		return fmt.Errorf("htmldom: document is empty")
	}
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("htmldom: render: %w", err)
	}
	return nil
}

// String renders the tree, returning "" on failure.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// ElementByID implements dom.Document. The first element in document order
// wins when ids repeat.
func (d *Document) ElementByID(id string) (dom.Element, bool) {
	if d == nil || d.root == nil || id == "" {
		return nil, false
	}
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return nil, false
	}
	return &Element{node: found}, true
}

// ElementsByName implements dom.Document.
func (d *Document) ElementsByName(name string) []dom.Element {
	if d == nil || d.root == nil || name == "" {
		return nil
	}
	var out []dom.Element
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && hasAttr(n, "name") && attr(n, "name") == name {
			out = append(out, &Element{node: n})
		}
		return true
	})
	return out
}

// walk visits n and its descendants depth first in document order until visit
// returns false.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if !walk(child, visit) {
			return false
		}
	}
	return true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, value string) {
	for idx := range n.Attr {
		if n.Attr[idx].Namespace == "" && n.Attr[idx].Key == key {
			n.Attr[idx].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		kept = append(kept, a)
	}
	n.Attr = kept
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	walk(n, func(child *html.Node) bool {
		if child.Type == html.TextNode {
			buf.WriteString(child.Data)
		}
		return true
	})
	return buf.String()
}

func ancestor(n *html.Node, a atom.Atom) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == a {
			return p
		}
	}
	return nil
}

func root(n *html.Node) *html.Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}
