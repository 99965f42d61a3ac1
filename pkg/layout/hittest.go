package layout

import (
	"github.com/dhconnelly/rtreego"

	"subsel/pkg/html"
)

// hitTolerance is the half-size of the query rectangle; rtreego treats
// touching edges as disjoint, so a zero-size query would miss box edges.
const hitTolerance = 0.5

func (le *LayoutEngine) buildIndex() {
	le.index = rtreego.NewTree(2, 2, 8)
	for _, b := range le.order {
		r := b.BorderBox()
		if r.Empty() {
			continue
		}
		bounds, err := rtreego.NewRect(rtreego.Point{r.X, r.Y}, []float64{r.Width, r.Height})
		if err != nil {
			continue
		}
		le.index.Insert(&indexEntry{box: b, bounds: bounds})
	}
}

// HitTest returns the topmost element whose visible box contains (x, y),
// or nil. Boxes later in document order paint on top. Points outside the
// viewport, areas clipped away by overflow ancestors and elements with
// pointer-events: none never hit.
func (le *LayoutEngine) HitTest(x, y float64) *html.Node {
	if le.index == nil {
		return nil
	}
	if x < 0 || y < 0 || x >= le.viewport.width || y >= le.viewport.height {
		return nil
	}

	var top *Box
	for _, s := range le.index.SearchIntersect(rtreego.Point{x, y}.ToRect(hitTolerance)) {
		b := s.(*indexEntry).box
		if top != nil && b.Order < top.Order {
			continue
		}
		if !b.BorderBox().Contains(x, y) || pointerEventsNone(b) {
			continue
		}
		if clip, ok := le.ClipRect(b.Node); ok && !clip.Contains(x, y) {
			continue
		}
		top = b
	}
	if top == nil {
		return nil
	}
	return top.Node
}

// pointer-events is inherited.
func pointerEventsNone(b *Box) bool {
	for cur := b; cur != nil; cur = cur.Parent {
		if v, ok := cur.Style.Get("pointer-events"); ok {
			return v == "none"
		}
	}
	return false
}
