package htmldom_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/goliatone/go-formrestore/pkg/dom/htmldom"
	"github.com/goliatone/go-formrestore/pkg/model"
	"github.com/goliatone/go-formrestore/pkg/repopulate"
	"github.com/goliatone/go-formrestore/pkg/testsupport"
)

type controlState struct {
	Value    string
	Checked  bool
	Selected []string
}

func inspect(t *testing.T, doc *htmldom.Document, id string) controlState {
	t.Helper()
	el, ok := doc.ElementByID(id)
	if !ok {
		t.Fatalf("element %q not found", id)
	}
	concrete := el.(*htmldom.Element)
	state := controlState{Value: el.Value(), Checked: concrete.Checked()}
	for _, opt := range el.Options() {
		if opt.(*htmldom.Option).Selected() {
			state.Selected = append(state.Selected, opt.Value())
		}
	}
	return state
}

func checkedValues(doc *htmldom.Document, name string) []string {
	var out []string
	for _, el := range doc.ElementsByName(name) {
		if el.(*htmldom.Element).Checked() {
			out = append(out, el.Value())
		}
	}
	return out
}

func TestRepopulateFixture(t *testing.T) {
	doc := testsupport.MustParseHTML(t, testsupport.FixturePath("nomination.html"))
	snap := testsupport.MustLoadSnapshot(t, testsupport.FixturePath("snapshot.json"))
	reg := testsupport.MustLoadRegistry(t, testsupport.FixturePath("registry.yaml"))

	report := repopulate.Repopulate(doc, snap, reg)

	rendered := doc.String()
	reparsed, err := htmldom.ParseString(rendered)
	if err != nil {
		t.Fatalf("reparse rendered page: %v", err)
	}

	for _, current := range []*htmldom.Document{doc, reparsed} {
		cases := map[string]controlState{
			"url-value":       {Value: "http://example.com/"},
			"title":           {Value: "Example & Co"},
			"description":     {Value: "<b>archived</b> weekly"},
			"published":       {Value: "2016-04-06"},
			"language":        {Value: "en", Selected: []string{"en", "de"}},
			"format":          {Value: "Blog", Selected: []string{"Blog"}},
			"topics_other":    {Value: "custom text"},
			"subscribe":       {Value: "on", Checked: true},
			"nominator_email": {Value: ""},
		}
		for id, want := range cases {
			if diff := cmp.Diff(want, inspect(t, current, id)); diff != "" {
				t.Fatalf("%s mismatch (-want +got):\n%s", id, diff)
			}
		}
		if diff := cmp.Diff([]string{"x", "z", "other_specify"}, checkedValues(current, "topics")); diff != "" {
			t.Fatalf("topics mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"public"}, checkedValues(current, "audience")); diff != "" {
			t.Fatalf("audience mismatch (-want +got):\n%s", diff)
		}
	}

	if strings.Contains(rendered, "<b>archived</b>") {
		t.Fatalf("textarea content must be escaped when rendered")
	}

	skipped := report.SkippedKeys()
	if diff := cmp.Diff([]string{"nominator_email"}, skipped[repopulate.SkipUnset]); diff != "" {
		t.Fatalf("unset skips mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ghost_field"}, skipped[repopulate.SkipUnknownField]); diff != "" {
		t.Fatalf("unknown skips mismatch (-want +got):\n%s", diff)
	}
}

func TestRepopulateFixture_Idempotent(t *testing.T) {
	snap := testsupport.MustLoadSnapshot(t, testsupport.FixturePath("snapshot.json"))
	reg := testsupport.MustLoadRegistry(t, testsupport.FixturePath("registry.yaml"))

	once := testsupport.MustParseHTML(t, testsupport.FixturePath("nomination.html"))
	repopulate.Repopulate(once, snap, reg)

	twice := testsupport.MustParseHTML(t, testsupport.FixturePath("nomination.html"))
	repopulate.Repopulate(twice, snap, reg)
	repopulate.Repopulate(twice, snap, reg)

	if diff := cmp.Diff(once.String(), twice.String()); diff != "" {
		t.Fatalf("second pass changed the page (-once +twice):\n%s", diff)
	}
}

func countElements(n *html.Node) int {
	count := 0
	if n.Type == html.ElementNode {
		count++
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		count += countElements(child)
	}
	return count
}

func TestRepopulateFixture_OrderIndependent(t *testing.T) {
	snap := testsupport.MustLoadSnapshot(t, testsupport.FixturePath("snapshot.json"))
	reg := testsupport.MustLoadRegistry(t, testsupport.FixturePath("registry.yaml"))

	reversed := make(model.Snapshot, 0, len(snap))
	for i := len(snap) - 1; i >= 0; i-- {
		reversed = append(reversed, snap[i])
	}

	forward := testsupport.MustParseHTML(t, testsupport.FixturePath("nomination.html"))
	before := countElements(forward.Root())
	repopulate.Repopulate(forward, snap, reg)

	backward := testsupport.MustParseHTML(t, testsupport.FixturePath("nomination.html"))
	repopulate.Repopulate(backward, reversed, reg)

	if diff := cmp.Diff(forward.String(), backward.String()); diff != "" {
		t.Fatalf("entry order changed the page (-forward +reversed):\n%s", diff)
	}
	for name, doc := range map[string]*htmldom.Document{"forward": forward, "reversed": backward} {
		if after := countElements(doc.Root()); after != before {
			t.Fatalf("%s pass changed the element count: before=%d after=%d", name, before, after)
		}
	}
}

func TestElementValues(t *testing.T) {
	doc, err := htmldom.ParseString(`<form>
		<input id="plain" value="v">
		<input id="box" type="checkbox" name="box">
		<input id="valued" type="CHECKBOX" name="box" value="yes">
		<textarea id="area">  keep spacing </textarea>
		<select id="single"><option>  First   option </option><option value="2">Two</option></select>
		<select id="multi" multiple><option value="a">A</option></select>
		<select id="grouped"><optgroup label="g"><option value="g1">G1</option><option value="g2" selected>G2</option></optgroup></select>
		<div id="div"></div>
	</form>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := map[string]string{
		"plain":   "v",
		"box":     "on",
		"valued":  "yes",
		"area":    "  keep spacing ",
		"single":  "First option",
		"multi":   "",
		"grouped": "g2",
		"div":     "",
	}
	for id, value := range want {
		el, ok := doc.ElementByID(id)
		if !ok {
			t.Fatalf("element %q not found", id)
		}
		if got := el.Value(); got != value {
			t.Fatalf("%s value = %q, want %q", id, got, value)
		}
	}

	grouped, _ := doc.ElementByID("grouped")
	if got := len(grouped.Options()); got != 2 {
		t.Fatalf("grouped options = %d, want 2", got)
	}
	div, _ := doc.ElementByID("div")
	if div.Options() != nil {
		t.Fatalf("non-select element should have no options")
	}
}

func TestSingleSelectIsExclusive(t *testing.T) {
	doc, err := htmldom.ParseString(`<select id="s"><option value="a" selected>A</option><option value="b">B</option></select>
		<select id="m" multiple><option value="a" selected>A</option><option value="b">B</option></select>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	single, _ := doc.ElementByID("s")
	single.Options()[1].SetSelected(true)
	if diff := cmp.Diff(controlState{Value: "b", Selected: []string{"b"}}, inspect(t, doc, "s")); diff != "" {
		t.Fatalf("single select mismatch (-want +got):\n%s", diff)
	}

	multi, _ := doc.ElementByID("m")
	multi.Options()[1].SetSelected(true)
	if diff := cmp.Diff(controlState{Value: "a", Selected: []string{"a", "b"}}, inspect(t, doc, "m")); diff != "" {
		t.Fatalf("multi select mismatch (-want +got):\n%s", diff)
	}

	single.SetValue("a")
	if got := inspect(t, doc, "s").Selected; !cmp.Equal([]string{"a"}, got) {
		t.Fatalf("SetValue on select selected %v", got)
	}
	single.SetValue("missing")
	if got := inspect(t, doc, "s").Selected; got != nil {
		t.Fatalf("SetValue with unknown option should clear selection, got %v", got)
	}
}

func TestRadioGroupIsScopedToForm(t *testing.T) {
	doc, err := htmldom.ParseString(`
		<form id="f1"><input type="radio" name="r" value="a" checked><input type="radio" name="r" value="b"></form>
		<form id="f2"><input type="radio" name="r" value="a" checked></form>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	radios := doc.ElementsByName("r")
	if len(radios) != 3 {
		t.Fatalf("expected 3 radios, got %d", len(radios))
	}
	radios[1].SetChecked(true)

	got := []bool{}
	for _, el := range radios {
		got = append(got, el.(*htmldom.Element).Checked())
	}
	if diff := cmp.Diff([]bool{false, true, true}, got); diff != "" {
		t.Fatalf("radio state mismatch (-want +got):\n%s", diff)
	}

	radios[1].SetChecked(false)
	if radios[1].(*htmldom.Element).Checked() {
		t.Fatalf("SetChecked(false) should clear the radio")
	}
}

func TestSetCheckedIgnoresNonToggles(t *testing.T) {
	doc, err := htmldom.ParseString(`<input id="t" name="t" value="x">`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	el, _ := doc.ElementByID("t")
	el.SetChecked(true)
	if strings.Contains(doc.String(), "checked") {
		t.Fatalf("text input must not gain a checked attribute")
	}
}

func TestLookupMisses(t *testing.T) {
	doc, err := htmldom.ParseString(`<input id="a" name="a">`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, ok := doc.ElementByID(""); ok {
		t.Fatalf("empty id should never match")
	}
	if _, ok := doc.ElementByID("b"); ok {
		t.Fatalf("missing id should not match")
	}
	if got := doc.ElementsByName("b"); got != nil {
		t.Fatalf("missing name should return nil, got %v", got)
	}

	var empty htmldom.Document
	if _, ok := empty.ElementByID("a"); ok {
		t.Fatalf("empty document should not match")
	}
	if err := empty.Render(&strings.Builder{}); err == nil {
		t.Fatalf("rendering an empty document should fail")
	}
}
