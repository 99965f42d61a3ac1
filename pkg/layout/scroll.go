package layout

import (
	"math"

	"subsel/pkg/html"
)

// ScrollContainer returns the nearest node at or above node that has
// something to scroll, or nil. The document root scrolls when its content
// overflows the viewport.
func (le *LayoutEngine) ScrollContainer(node *html.Node) *html.Node {
	for cur := node; cur != nil; cur = cur.Parent {
		b := le.boxes[cur]
		if b == nil || !(b.Scrollable() || b == le.root) {
			continue
		}
		if b.MaxScrollX > 0 || b.MaxScrollY > 0 {
			return cur
		}
	}
	return nil
}

// ScrollBy moves the scroll offset of node by (dx, dy), clamped to the
// scrollable range, and lays the document out again. It reports whether
// the offset changed.
func (le *LayoutEngine) ScrollBy(node *html.Node, dx, dy float64) bool {
	b := le.boxes[node]
	if b == nil || !(b.Scrollable() || b == le.root) {
		return false
	}
	sx := clamp(b.ScrollX+dx, 0, b.MaxScrollX)
	sy := clamp(b.ScrollY+dy, 0, b.MaxScrollY)
	if sx == b.ScrollX && sy == b.ScrollY {
		return false
	}
	le.scroll[node] = [2]float64{sx, sy}
	le.Relayout()
	return true
}

// ScrollOffset returns the current scroll offset of node.
func (le *LayoutEngine) ScrollOffset(node *html.Node) (float64, float64) {
	if b := le.boxes[node]; b != nil {
		return b.ScrollX, b.ScrollY
	}
	return 0, 0
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
