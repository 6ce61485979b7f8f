// Package browserdom implements dom.Document over a live Chrome tab driven by
// chromedp. Every call evaluates a short script in the page, so property
// writes go straight to the live controls without firing input or change
// events.
//
// The dom interfaces return no errors, so the Document keeps the first
// failure (a cancelled context, a closed tab) and turns every later call into
// a no-op. Check Err after a pass.
package browserdom

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/goliatone/go-formrestore/pkg/dom"
)

// Document addresses the page loaded in the chromedp context.
type Document struct {
	ctx context.Context

	mu  sync.Mutex
	err error
}

var _ dom.Document = (*Document)(nil)

// New wraps a chromedp context (see chromedp.NewContext) whose tab already
// shows the form.
func New(ctx context.Context) *Document {
	return &Document{ctx: ctx}
}

// Open navigates the tab to url, waits for the body and returns the document.
func Open(ctx context.Context, url string) (*Document, error) {
	if url == "" {
		return nil, errors.New("browserdom: url is required")
	}
	if err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("browserdom: open %s: %w", url, err)
	}
	return New(ctx), nil
}

// Err returns the first failure seen by any call.
func (d *Document) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// OuterHTML returns the serialised page. Property changes made through the
// document are not reflected in attributes, so the markup shows the rendered
// defaults rather than the restored state.
func (d *Document) OuterHTML() (string, error) {
	if err := d.Err(); err != nil {
		return "", err
	}
	var out string
	if err := chromedp.Run(d.ctx, chromedp.OuterHTML("html", &out, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("browserdom: outer html: %w", err)
	}
	return out, nil
}

// ElementByID implements dom.Document.
func (d *Document) ElementByID(id string) (dom.Element, bool) {
	if id == "" {
		return nil, false
	}
	loc := byID(id)
	var exists bool
	if !d.eval(existsExpr(loc), &exists) || !exists {
		return nil, false
	}
	return &Element{doc: d, loc: loc}, true
}

// ElementsByName implements dom.Document.
func (d *Document) ElementsByName(name string) []dom.Element {
	if name == "" {
		return nil
	}
	var count int
	if !d.eval(fmt.Sprintf("document.getElementsByName(%s).length", quote(name)), &count) || count == 0 {
		return nil
	}
	out := make([]dom.Element, 0, count)
	for idx := 0; idx < count; idx++ {
		out = append(out, &Element{doc: d, loc: byNameIndex(name, idx)})
	}
	return out
}

// eval runs expr and decodes its result into res. It returns false once the
// document has failed.
func (d *Document) eval(expr string, res any) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.err != nil {
		return false
	}
	if err := chromedp.Run(d.ctx, chromedp.Evaluate(expr, res, silent)); err != nil {
		d.err = fmt.Errorf("browserdom: evaluate: %w", err)
		return false
	}
	return true
}

func silent(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithSilent(true)
}

// locator is a script expression yielding one element, or null.
type locator string

func byID(id string) locator {
	return locator(fmt.Sprintf("document.getElementById(%s)", quote(id)))
}

func byNameIndex(name string, idx int) locator {
	return locator(fmt.Sprintf("document.getElementsByName(%s)[%d]", quote(name), idx))
}

func (l locator) option(idx int) locator {
	return locator(fmt.Sprintf("((%s) && (%s).options ? (%s).options[%d] : null)", l, l, l, idx))
}

func quote(s string) string {
	encoded, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(encoded)
}

func existsExpr(loc locator) string {
	return fmt.Sprintf("(%s) !== null", loc)
}

func valueExpr(loc locator) string {
	return fmt.Sprintf("(function(el){ return el && el.value != null ? String(el.value) : \"\"; })(%s)", loc)
}

func setValueExpr(loc locator, value string) string {
	return fmt.Sprintf("(function(el){ if (el) { el.value = %s; } return true; })(%s)", quote(value), loc)
}

func setCheckedExpr(loc locator, checked bool) string {
	return fmt.Sprintf("(function(el){ if (el && (el.type === \"checkbox\" || el.type === \"radio\")) { el.checked = %t; } return true; })(%s)", checked, loc)
}

func setSelectedExpr(loc locator, selected bool) string {
	return fmt.Sprintf("(function(el){ if (el) { el.selected = %t; } return true; })(%s)", selected, loc)
}

func optionCountExpr(loc locator) string {
	return fmt.Sprintf("(function(el){ return el && el.tagName === \"SELECT\" ? el.options.length : 0; })(%s)", loc)
}
