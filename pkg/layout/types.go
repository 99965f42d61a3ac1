package layout

import (
	"math"

	"github.com/dhconnelly/rtreego"

	"subsel/pkg/css"
	"subsel/pkg/html"
)

// Rect represents a rectangular region in viewport (client) coordinates.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Area is Width*Height, or 0 for degenerate rectangles.
func (r Rect) Area() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

func (r Rect) Empty() bool { return r.Area() == 0 }

// Contains reports whether (x, y) lies inside r. The right and bottom edges
// are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Center returns the midpoint of r.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Intersect returns the overlap of r and o. Disjoint rectangles yield a
// rectangle with zero width or height.
func (r Rect) Intersect(o Rect) Rect {
	x := math.Max(r.X, o.X)
	y := math.Max(r.Y, o.Y)
	right := math.Min(r.Right(), o.Right())
	bottom := math.Min(r.Bottom(), o.Bottom())
	return Rect{X: x, Y: y, Width: math.Max(0, right-x), Height: math.Max(0, bottom-y)}
}

// Box is the laid-out geometry of one element.
type Box struct {
	Node     *html.Node
	Style    *css.Style
	X        float64 // border-box origin, client coordinates
	Y        float64
	Width    float64 // Content width
	Height   float64 // Content height
	Margin   css.BoxEdge
	Padding  css.BoxEdge
	Overflow css.OverflowType
	Children []*Box
	Parent   *Box

	// Order is the document (paint) order; later boxes paint on top.
	Order int

	// Scroll state for scroll containers.
	ScrollX, ScrollY       float64
	MaxScrollX, MaxScrollY float64

	positioned bool
}

// BorderBox returns the box including padding.
func (b *Box) BorderBox() Rect {
	return Rect{
		X:      b.X,
		Y:      b.Y,
		Width:  b.Padding.Left + b.Width + b.Padding.Right,
		Height: b.Padding.Top + b.Height + b.Padding.Bottom,
	}
}

// ContentBox returns the box inside the padding.
func (b *Box) ContentBox() Rect {
	return Rect{X: b.X + b.Padding.Left, Y: b.Y + b.Padding.Top, Width: b.Width, Height: b.Height}
}

// Scrollable reports whether the box accepts scroll offsets.
func (b *Box) Scrollable() bool {
	return b.Overflow.Scrollable()
}

// indexEntry adapts a box to rtreego.Spatial.
type indexEntry struct {
	box    *Box
	bounds rtreego.Rect
}

func (e *indexEntry) Bounds() rtreego.Rect { return e.bounds }
