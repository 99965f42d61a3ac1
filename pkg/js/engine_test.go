package js

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"subsel/pkg/html"
	"subsel/pkg/layout"
	"subsel/pkg/subselect"
)

func parseHTML(t *testing.T, s string) *html.Document {
	t.Helper()
	doc, err := html.Parse(s)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return doc
}

func run(t *testing.T, markup, script string) (*Engine, *html.Document) {
	t.Helper()
	doc := parseHTML(t, markup)
	doc.Scripts = append(doc.Scripts, script)
	engine := New(nil, nil)
	if err := engine.Execute(doc); err != nil {
		t.Fatal(err)
	}
	return engine, doc
}

func TestGetElementById(t *testing.T) {
	run(t, `<div id="foo">hello</div>`, `
		var el = document.getElementById("foo");
		if (el === null) throw new Error("element not found");
		if (el.id !== "foo") throw new Error("wrong id: " + el.id);
		if (el.tagName !== "DIV") throw new Error("wrong tagName: " + el.tagName);
		if (el.textContent !== "hello") throw new Error("wrong text: " + el.textContent);
		if (document.getElementById("missing") !== null) throw new Error("expected null");
	`)
}

func TestProxyIdentity(t *testing.T) {
	run(t, `<div id="a"><span id="b"></span></div>`, `
		var a = document.getElementById("a");
		if (a !== document.querySelector("#a")) throw new Error("proxies should be cached");
		if (document.getElementById("b").parentElement !== a) throw new Error("parentElement");
		if (!a.contains(document.getElementById("b"))) throw new Error("contains");
	`)
}

func TestAttributes(t *testing.T) {
	_, doc := run(t, `<div id="target" data-x="hello">text</div>`, `
		var el = document.getElementById("target");
		if (el.getAttribute("data-x") !== "hello") throw new Error("getAttribute");
		if (el.getAttribute("data-y") !== null) throw new Error("missing attribute should be null");
		el.setAttribute("data-value", "42");
		el.removeAttribute("data-x");
		if (el.hasAttribute("data-x")) throw new Error("hasAttribute after remove");
	`)

	node := doc.Root.ElementByID("target")
	if got := node.Attr("data-value"); got != "42" {
		t.Errorf("data-value = %q, want 42", got)
	}
	if node.HasAttribute("data-x") {
		t.Error("data-x should be removed")
	}
}

func TestClassList(t *testing.T) {
	_, doc := run(t, `<div id="el" class="a b"></div>`, `
		var el = document.getElementById("el");
		el.classList.add("c", "a");
		el.classList.remove("b");
		if (el.classList.toggle("d") !== true) throw new Error("toggle on");
		if (el.classList.toggle("d") !== false) throw new Error("toggle off");
		if (!el.classList.contains("c")) throw new Error("contains");
		if (el.classList.length !== 2) throw new Error("length " + el.classList.length);
		if (el.classList[0] !== "a") throw new Error("index");
	`)

	if got := doc.Root.ElementByID("el").Attr("class"); got != "a c" {
		t.Errorf("class = %q, want %q", got, "a c")
	}
}

func TestQuerySelectors(t *testing.T) {
	run(t, `<div id="chart">
		<g class="series" data-series="a"><rect class="sub-selectable bar"></rect><rect class="sub-selectable bar"></rect></g>
		<g class="series" data-series="b"><rect class="sub-selectable bar"></rect></g>
		<text class="title"></text>
	</div>`, `
		var bars = document.querySelectorAll(".sub-selectable");
		if (bars.length !== 3) throw new Error("querySelectorAll: " + bars.length);
		var b = document.querySelectorAll('[data-series="b"] .bar');
		if (b.length !== 1) throw new Error("descendant: " + b.length);
		if (bars[2].closest(".series").getAttribute("data-series") !== "b") throw new Error("closest");
		if (!bars[0].matches("rect.bar, text")) throw new Error("matches group");
		var chart = document.getElementById("chart");
		if (chart.querySelector("text").className !== "title") throw new Error("querySelector");
		if (chart.children.length !== 3) throw new Error("children");
		if (document.getElementsByClassName("series").length !== 2) throw new Error("getElementsByClassName");
	`)
}

func TestInvalidSelectorThrows(t *testing.T) {
	doc := parseHTML(t, `<div></div>`)
	doc.Scripts = append(doc.Scripts, `document.querySelector("[data-x");`)
	if err := New(nil, nil).Execute(doc); err == nil {
		t.Fatal("expected an error for an invalid selector")
	}
}

func TestExecute_ReportsScriptIndex(t *testing.T) {
	doc := parseHTML(t, `<div></div>`)
	doc.Scripts = append(doc.Scripts, `var ok = 1;`, `throw new Error("boom");`)

	err := New(nil, nil).Execute(doc)
	if err == nil || !strings.Contains(err.Error(), "script 1") || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConsoleLogsThroughSlog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	engine := New(logger, nil)

	if err := engine.Run("console.js", `console.log("hello", 42); console.warn("careful");`); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, `level=INFO msg="hello 42" source=console`) {
		t.Errorf("missing info line in %q", out)
	}
	if !strings.Contains(out, `level=WARN msg=careful`) {
		t.Errorf("missing warn line in %q", out)
	}
}

type fixedGeometry map[string]layout.Rect

func (g fixedGeometry) BoundingClientRect(el *html.Node) layout.Rect {
	return g[el.Attr("id")]
}

func TestGetBoundingClientRect(t *testing.T) {
	doc := parseHTML(t, `<div id="box"></div>`)
	doc.Scripts = append(doc.Scripts, `
		var r = document.getElementById("box").getBoundingClientRect();
		if (r.x !== 10 || r.y !== 20 || r.width !== 30 || r.height !== 40) throw new Error("rect " + JSON.stringify(r));
		if (r.right !== 40 || r.bottom !== 60) throw new Error("edges " + JSON.stringify(r));
	`)
	engine := New(nil, fixedGeometry{"box": {X: 10, Y: 20, Width: 30, Height: 40}})
	if err := engine.Execute(doc); err != nil {
		t.Fatal(err)
	}
}

func TestCallbacks_NoneDefined(t *testing.T) {
	engine, _ := run(t, `<div></div>`, `var x = 1;`)

	cb, err := engine.Callbacks()
	if err != nil {
		t.Fatal(err)
	}
	if cb.Identity != nil || cb.CustomOutlines != nil || cb.CustomElements != nil || cb.Metadata != nil {
		t.Errorf("expected no callbacks, got %+v", cb)
	}
}

func TestCallbacks_NotAFunction(t *testing.T) {
	engine, _ := run(t, `<div></div>`, `subSelection.identity = "data-key";`)

	_, err := engine.Callbacks()
	if !errors.Is(err, ErrNotFunction) {
		t.Fatalf("expected ErrNotFunction, got %v", err)
	}
	if !strings.Contains(err.Error(), "subSelection.identity") {
		t.Errorf("error should name the property: %v", err)
	}
}

const scriptedVisual = `<div id="host">
	<rect id="p1" class="sub-selectable" data-sub-selection-object-name="point" data-point="1" data-series="north"></rect>
	<rect id="p2" class="sub-selectable" data-sub-selection-object-name="point" data-series="south"></rect>
	<g id="legend" class="sub-selectable" data-sub-selection-object-name="legend"></g>
	<text class="legend-entry" id="e1"></text>
	<text class="legend-entry" id="e2"></text>
</div>
<script>
	subSelection.identity = function (el) { return el.getAttribute("data-point"); };
	subSelection.metadata = function (el) { return {series: el.getAttribute("data-series")}; };
	subSelection.customElements = function (sub) {
		if (sub.objectName !== "legend") return null;
		return document.querySelectorAll(".legend-entry");
	};
	subSelection.customOutlines = function (sub) {
		if (sub.objectName === "broken") throw new Error("no outline");
		if (sub.objectName !== "point" || sub.identity !== "1") return [];
		return [
			{id: "point-1", type: "polygon", points: [{x: 0, y: 0}, {x: 4, y: 0}, {x: 2, y: 3}]},
			{id: "point-1-label", x: 5, y: 6, width: 7, height: 8},
		];
	};
</script>`

func scriptedCallbacks(t *testing.T) (Callbacks, *html.Document) {
	t.Helper()
	doc := parseHTML(t, scriptedVisual)
	engine := New(nil, nil)
	if err := engine.Execute(doc); err != nil {
		t.Fatal(err)
	}
	cb, err := engine.Callbacks()
	if err != nil {
		t.Fatal(err)
	}
	return cb, doc
}

func TestCallbacks_IdentityAndMetadata(t *testing.T) {
	cb, doc := scriptedCallbacks(t)

	if got := cb.Identity(doc.Root.ElementByID("p1")); got != subselect.KeyIdentity("1") {
		t.Errorf("identity(p1) = %v", got)
	}
	if got := cb.Identity(doc.Root.ElementByID("p2")); got != nil {
		t.Errorf("identity(p2) = %v, want nil", got)
	}

	meta, ok := cb.Metadata(doc.Root.ElementByID("p2")).(map[string]interface{})
	if !ok || meta["series"] != "south" {
		t.Errorf("metadata(p2) = %#v", meta)
	}
}

func TestCallbacks_CustomElements(t *testing.T) {
	cb, doc := scriptedCallbacks(t)

	els := cb.CustomElements(subselect.NewSingleObjectSubSelection(subselect.CreateArgs{ObjectName: "legend"}))
	if len(els) != 2 || els[0] != doc.Root.ElementByID("e1") || els[1] != doc.Root.ElementByID("e2") {
		t.Errorf("customElements(legend) = %v", els)
	}
	if els := cb.CustomElements(subselect.NewSingleObjectSubSelection(subselect.CreateArgs{ObjectName: "point"})); els != nil {
		t.Errorf("customElements(point) = %v, want nil", els)
	}
}

func TestCallbacks_CustomOutlines(t *testing.T) {
	cb, _ := scriptedCallbacks(t)

	frags := cb.CustomOutlines(subselect.NewSingleObjectSubSelection(subselect.CreateArgs{
		ObjectName: "point", Identity: subselect.KeyIdentity("1"),
	}))
	if len(frags) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(frags))
	}
	poly, ok := frags[0].Outline.(*subselect.PolygonOutline)
	if frags[0].ID != "point-1" || !ok || len(poly.Points) != 3 || poly.Points[2] != (subselect.Point{X: 2, Y: 3}) {
		t.Errorf("first fragment = %+v", frags[0])
	}
	rect, ok := frags[1].Outline.(*subselect.RectangleOutline)
	if !ok || rect.Rect() != (layout.Rect{X: 5, Y: 6, Width: 7, Height: 8}) {
		t.Errorf("second fragment = %+v", frags[1])
	}

	if frags := cb.CustomOutlines(subselect.NewSingleObjectSubSelection(subselect.CreateArgs{ObjectName: "point"})); len(frags) != 0 {
		t.Errorf("unclaimed sub-selection returned %v", frags)
	}
	if frags := cb.CustomOutlines(subselect.NewSingleObjectSubSelection(subselect.CreateArgs{ObjectName: "broken"})); frags != nil {
		t.Errorf("throwing callback returned %v", frags)
	}
}

func TestCallbacks_Apply(t *testing.T) {
	cb, _ := scriptedCallbacks(t)

	var opts subselect.Options
	cb.Apply(&opts)
	if opts.Identity == nil || opts.CustomOutlines == nil || opts.CustomElements == nil || opts.Metadata == nil {
		t.Error("Apply should copy every defined callback")
	}
}

func TestDecodeFragments_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"missing id", []any{map[string]any{"type": "rectangle"}}, "missing id"},
		{"unknown type", []any{map[string]any{"id": "x", "type": "circle"}}, "unknown outline type"},
		{"not a list", map[string]any{"id": "x"}, "decoding outlines"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeFragments(tt.in)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}

	frags, err := decodeFragments([]any{map[string]any{"id": "g", "type": "group", "outlines": []any{map[string]any{"x": 1, "y": 1, "width": 2, "height": 2}}}})
	if err != nil {
		t.Fatal(err)
	}
	if g, ok := frags[0].Outline.(*subselect.GroupOutline); !ok || len(g.Outlines) != 1 {
		t.Errorf("group fragment = %+v", frags[0])
	}
}
