package layout

import "testing"

const scrollList = `<div id="list" style="width: 100px; height: 50px; overflow: auto"><div id="row1" style="height: 40px"></div><div id="row2" style="height: 40px"></div></div>`

func TestScrollBy_MovesAndClamps(t *testing.T) {
	engine, doc := layoutMarkup(t, scrollList)
	list := doc.Root.ElementByID("list")
	row2 := doc.Root.ElementByID("row2")

	if b := engine.Box(list); b.MaxScrollY != 30 || b.MaxScrollX != 0 {
		t.Fatalf("unexpected scroll range %f,%f", b.MaxScrollX, b.MaxScrollY)
	}

	if !engine.ScrollBy(list, 0, 10) {
		t.Fatal("ScrollBy should report a change")
	}
	if got := engine.BoundingClientRect(row2).Y; got != 30 {
		t.Errorf("row2.Y after scrolling 10 = %f, want 30", got)
	}

	engine.ScrollBy(list, 0, 100)
	if x, y := engine.ScrollOffset(list); x != 0 || y != 30 {
		t.Errorf("offset = %f,%f, want clamped to 0,30", x, y)
	}
	if engine.ScrollBy(list, 0, 5) {
		t.Error("scrolling past the end should report no change")
	}
	if engine.ScrollBy(list, -5, 0) {
		t.Error("no horizontal range to scroll")
	}
}

func TestScrollBy_HitTestFollowsOffset(t *testing.T) {
	engine, doc := layoutMarkup(t, scrollList)
	list := doc.Root.ElementByID("list")

	if got := engine.HitTest(10, 45); got != doc.Root.ElementByID("row2") {
		t.Errorf("before scroll: got %v", got)
	}
	engine.ScrollBy(list, 0, 30)
	if got := engine.HitTest(10, 5); got != doc.Root.ElementByID("row1") {
		t.Errorf("after scroll: got %v", got)
	}
	if got := engine.HitTest(10, 55); got != nil {
		t.Errorf("content scrolled past the list bottom is clipped, got %v", got.Attr("id"))
	}
}

func TestScrollContainer(t *testing.T) {
	engine, doc := layoutMarkup(t, scrollList)
	if got := engine.ScrollContainer(doc.Root.ElementByID("row1")); got != doc.Root.ElementByID("list") {
		t.Errorf("ScrollContainer = %v", got)
	}

	engine, doc = layoutMarkup(t, `<div id="short" style="height: 10px"></div>`)
	if got := engine.ScrollContainer(doc.Root.ElementByID("short")); got != nil {
		t.Errorf("nothing overflows, got %v", got)
	}
}

func TestScrollResetOnNewDocument(t *testing.T) {
	engine, doc := layoutMarkup(t, scrollList)
	engine.ScrollBy(doc.Root.ElementByID("list"), 0, 10)

	other, _ := layoutMarkup(t, scrollList)
	doc2 := other.Document()
	engine.Layout(doc2)
	if _, y := engine.ScrollOffset(doc2.Root.ElementByID("list")); y != 0 {
		t.Errorf("scroll offset leaked into a new document: %f", y)
	}
}
