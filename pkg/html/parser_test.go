package html

import "testing"

func TestParser_SingleElement(t *testing.T) {
	doc, err := Parse("<div></div>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Root.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(doc.Root.Children))
	}
	if doc.Root.Children[0].TagName != "div" {
		t.Errorf("expected tag 'div', got '%s'", doc.Root.Children[0].TagName)
	}
	if doc.Root.Children[0].Parent != doc.Root {
		t.Error("top-level elements should hang from the document root")
	}
}

func TestParser_MultipleElements(t *testing.T) {
	doc, err := Parse("<div></div><p></p>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Root.Children) != 2 {
		t.Errorf("expected 2 children, got %d", len(doc.Root.Children))
	}
}

func TestParser_TaggingAttributes(t *testing.T) {
	doc, err := Parse(`<div class="sub-selectable" data-sub-selection-object-name="title" data-sub-selection-direct-edit='{"reference":{"objectName":"title"}}'></div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	div := doc.Root.Children[0]
	if got := div.Attr("data-sub-selection-object-name"); got != "title" {
		t.Errorf("object name = %q", got)
	}
	if got := div.Attr("data-sub-selection-direct-edit"); got != `{"reference":{"objectName":"title"}}` {
		t.Errorf("direct edit = %q", got)
	}
	if !div.HasClass("sub-selectable") {
		t.Error("expected sub-selectable class")
	}
}

func TestParser_NestedElementsAndText(t *testing.T) {
	doc, err := Parse(`<div>
		<p>Hello</p>
	</div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	div := doc.Root.Children[0]
	if len(div.Children) != 1 {
		t.Fatalf("whitespace-only text should be dropped, got %d children", len(div.Children))
	}
	p := div.Children[0]
	if p.TagName != "p" || p.Parent != div {
		t.Errorf("unexpected child %s", p.TagName)
	}
	if p.TextContent() != "Hello" {
		t.Errorf("text = %q", p.TextContent())
	}
}

func TestParser_CollectsScripts(t *testing.T) {
	doc, err := Parse(`<div id="a"></div><script>function identity(el) { return el.id; }</script>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Root.Children) != 1 {
		t.Errorf("script should not be part of the tree, got %d children", len(doc.Root.Children))
	}
	if len(doc.Scripts) != 1 || doc.Scripts[0] != "function identity(el) { return el.id; }" {
		t.Errorf("unexpected scripts %q", doc.Scripts)
	}
}

func TestParser_SVGChildren(t *testing.T) {
	doc, err := Parse(`<svg><g class="series"><rect class="bar"></rect></g></svg>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bars := doc.Root.Descendants(func(n *Node) bool { return n.HasClass("bar") })
	if len(bars) != 1 || bars[0].TagName != "rect" {
		t.Errorf("expected one rect.bar, got %v", bars)
	}
}
