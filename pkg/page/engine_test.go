package page_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrestore/pkg/dom/htmldom"
	"github.com/goliatone/go-formrestore/pkg/model"
	"github.com/goliatone/go-formrestore/pkg/page"
	"github.com/goliatone/go-formrestore/pkg/registry"
	"github.com/goliatone/go-formrestore/pkg/repopulate"
)

func nominationData(t *testing.T, snap model.Snapshot, reg registry.Map) map[string]any {
	t.Helper()
	data, err := page.RestoreData(snap, reg)
	if err != nil {
		t.Fatalf("restore data: %v", err)
	}
	data["project"] = "Web Archive"
	data["languages"] = []string{"en", "fr"}
	data["topics"] = []string{"x", "y", "z"}
	return data
}

func TestNew_RequiresSource(t *testing.T) {
	if _, err := page.New(); err == nil {
		t.Fatalf("expected error without base dir or fs")
	}
}

func TestRenderRestored(t *testing.T) {
	engine, err := page.New(page.WithBaseDir("testdata"))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	snap := model.Snapshot{
		{Key: "url_value", Values: []string{"http://example.com/"}},
		{Key: "title", Values: []string{"</script><b>x</b>"}},
		{Key: "language", Values: []string{"fr"}},
		{Key: "topics", Values: []string{"y"}},
		{Key: "topics_other", Values: []string{"custom"}},
	}
	reg := registry.Map{
		"title":    model.SingleValue,
		"language": model.MultiSelect,
		"topics":   model.MultiToggle,
	}

	out, report, err := engine.RenderRestored("nominate", nominationData(t, snap, reg), snap, reg)
	if err != nil {
		t.Fatalf("render restored: %v", err)
	}
	if len(report.Applied) != len(snap) {
		t.Fatalf("expected every entry applied, got %+v", report)
	}

	doc, err := htmldom.ParseString(string(out))
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	values := map[string]string{}
	for _, id := range []string{"url-value", "title", "language", "topics_other"} {
		el, ok := doc.ElementByID(id)
		if !ok {
			t.Fatalf("element %q missing", id)
		}
		values[id] = el.Value()
	}
	want := map[string]string{
		"url-value":    "http://example.com/",
		"title":        "</script><b>x</b>",
		"language":     "fr",
		"topics_other": "custom",
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("restored values mismatch (-want +got):\n%s", diff)
	}

	var checked []string
	for _, el := range doc.ElementsByName("topics") {
		if el.(*htmldom.Element).Checked() {
			checked = append(checked, el.Value())
		}
	}
	if diff := cmp.Diff([]string{"y"}, checked); diff != "" {
		t.Fatalf("topics mismatch (-want +got):\n%s", diff)
	}

	rendered := string(out)
	if strings.Contains(rendered, `"</script>`) {
		t.Fatalf("embedded snapshot must not close the script block:\n%s", rendered)
	}
	if !strings.Contains(rendered, `var form_types = {"language":"multi-select","title":"single","topics":"multi-toggle"};`) {
		t.Fatalf("registry not embedded as JSON:\n%s", rendered)
	}
}

func TestRestoreData_NoSubmission(t *testing.T) {
	engine, err := page.New(page.WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	data, err := page.RestoreData(nil, nil)
	if err != nil {
		t.Fatalf("restore data: %v", err)
	}

	out, err := engine.RenderString(`{{ json_data|tojson }} {{ form_types|tojson }}`, data)
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if want := "null {}"; out != want {
		t.Fatalf("render = %q, want %q", out, want)
	}
}

func TestRestoreData_EmbedsWireFormat(t *testing.T) {
	engine, err := page.New(page.WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	snap := model.Snapshot{
		{Key: "title", Values: []string{"A & B"}},
		{Key: "notes", Values: []string{""}},
	}
	data, err := page.RestoreData(snap, registry.Map{"title": model.SingleValue})
	if err != nil {
		t.Fatalf("restore data: %v", err)
	}

	out, err := engine.RenderString(`{{ json_data|tojson }}`, data)
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if want := `[["title",["A \u0026 B"]],["notes",[""]]]`; out != want {
		t.Fatalf("render = %q, want %q", out, want)
	}
}

func TestRenderFromFSWithGlobals(t *testing.T) {
	fsys := fstest.MapFS{
		"greeting.html": {Data: []byte(`<p id="p">{{ site }} {{ items|tojson }}</p>`)},
	}
	engine, err := page.New(
		page.WithFS(fsys),
		page.WithExtension("html"),
		page.WithGlobalData(map[string]any{"site": "Archive"}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.Render("greeting", map[string]any{"items": []string{"a<b"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := `<p id="p">Archive ["a\u003cb"]</p>`; out != want {
		t.Fatalf("render = %q, want %q", out, want)
	}

	if _, err := engine.Render("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestRenderString(t *testing.T) {
	engine, err := page.New(page.WithBaseDir("testdata"))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	out, err := engine.RenderString(`{{ name|upper }}`, map[string]any{"name": "topics"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if out != "TOPICS" {
		t.Fatalf("render string = %q", out)
	}
	if _, err := engine.RenderString(`{% if %}`, nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestRestore_CustomEngine(t *testing.T) {
	markup := []byte(`<form><input id="page-url" name="page_url"></form>`)
	engine := repopulate.New(repopulate.WithURLField("page_url", "page-url"))

	out, report, err := page.Restore(markup, model.Snapshot{{Key: "page_url", Values: []string{"http://example.com/"}}}, nil, engine)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if len(report.Applied) != 1 {
		t.Fatalf("expected one applied entry, got %+v", report)
	}
	if !strings.Contains(string(out), `value="http://example.com/"`) {
		t.Fatalf("restored markup missing value: %s", out)
	}
}
