package layout

import (
	"math"
	"strings"

	"github.com/dhconnelly/rtreego"

	"subsel/pkg/css"
	"subsel/pkg/html"
)

// defaultLineHeight is used for elements that only carry text and have no
// explicit height; it matches the 7x13 preview font.
const defaultLineHeight = 13.0

// LayoutEngine computes element boxes for a document and answers geometry
// queries against them: bounding rectangles, clip rectangles, hit tests and
// scroll offsets.
//
// Elements are positioned by their inline style. left/top (or the SVG x/y
// attributes) place an element relative to its parent's content box; an
// element without top flows below its previous in-flow sibling. width/height
// come from the style or the SVG attributes; a missing width fills the
// parent, a missing height wraps the in-flow children.
type LayoutEngine struct {
	viewport struct {
		width  float64
		height float64
	}

	doc   *html.Document
	root  *Box
	boxes map[*html.Node]*Box
	order []*Box // every element box in document order

	// Scroll offsets survive relayout; they are keyed by node and reset
	// when a different document is laid out.
	scroll map[*html.Node][2]float64

	index *rtreego.Rtree
}

func NewLayoutEngine(viewportWidth, viewportHeight float64) *LayoutEngine {
	le := &LayoutEngine{
		boxes:  make(map[*html.Node]*Box),
		scroll: make(map[*html.Node][2]float64),
	}
	le.viewport.width = viewportWidth
	le.viewport.height = viewportHeight
	return le
}

func (le *LayoutEngine) Viewport() (float64, float64) {
	return le.viewport.width, le.viewport.height
}

// SetViewport resizes the viewport and lays the current document out again.
func (le *LayoutEngine) SetViewport(width, height float64) {
	le.viewport.width = width
	le.viewport.height = height
	le.Relayout()
}

// Document returns the document passed to the last Layout call.
func (le *LayoutEngine) Document() *html.Document {
	return le.doc
}

// Layout lays out doc and returns the top-level boxes.
func (le *LayoutEngine) Layout(doc *html.Document) []*Box {
	if doc != le.doc {
		le.scroll = make(map[*html.Node][2]float64)
	}
	le.doc = doc
	le.boxes = make(map[*html.Node]*Box)
	le.order = nil

	le.root = &Box{
		Node:     doc.Root,
		Style:    css.NewStyle(),
		Width:    le.viewport.width,
		Height:   le.viewport.height,
		Overflow: css.OverflowAuto,
		Order:    -1,
	}
	if off, ok := le.scroll[doc.Root]; ok {
		le.root.ScrollX, le.root.ScrollY = off[0], off[1]
	}
	le.boxes[doc.Root] = le.root

	le.layoutChildren(le.root)
	le.measureScroll(le.root)
	le.buildIndex()

	return le.root.Children
}

// Relayout repeats the last Layout call, picking up attribute and style
// changes made since.
func (le *LayoutEngine) Relayout() {
	if le.doc != nil {
		le.Layout(le.doc)
	}
}

// layoutChildren places the element children of parent and returns the
// height of its in-flow content.
func (le *LayoutEngine) layoutChildren(parent *Box) float64 {
	content := parent.ContentBox()
	originX := content.X - parent.ScrollX
	originY := content.Y - parent.ScrollY

	flowY := 0.0
	for _, child := range parent.Node.Children {
		if child.Type != html.ElementNode {
			continue
		}
		box := le.layoutNode(child, parent, originX, originY, flowY)
		if box == nil {
			continue
		}
		if !box.positioned {
			flowY = box.Y - originY + box.BorderBox().Height + box.Margin.Bottom
		}
	}
	return flowY
}

func (le *LayoutEngine) layoutNode(node *html.Node, parent *Box, originX, originY, flowY float64) *Box {
	style := css.ParseInlineStyle(node.Attr("style"))
	if style.Hidden() {
		return nil
	}

	box := &Box{
		Node:     node,
		Style:    style,
		Margin:   style.GetMargin(),
		Padding:  style.GetPadding(),
		Overflow: style.GetOverflow(),
		Parent:   parent,
		Order:    len(le.order),
	}
	le.order = append(le.order, box)
	le.boxes[node] = box
	parent.Children = append(parent.Children, box)

	if off, ok := le.scroll[node]; ok && box.Scrollable() {
		box.ScrollX, box.ScrollY = off[0], off[1]
	}

	left, _ := lengthOrAttr(style, node, "left", "x")
	top, hasTop := lengthOrAttr(style, node, "top", "y")
	box.positioned = hasTop

	box.X = originX + left + box.Margin.Left
	if hasTop {
		box.Y = originY + top + box.Margin.Top
	} else {
		box.Y = originY + flowY + box.Margin.Top
	}

	if w, ok := lengthOrAttr(style, node, "width", "width"); ok {
		box.Width = w
	} else {
		box.Width = math.Max(0, parent.Width-left-box.Margin.Left-box.Margin.Right-box.Padding.Left-box.Padding.Right)
	}

	flow := le.layoutChildren(box)

	if h, ok := lengthOrAttr(style, node, "height", "height"); ok {
		box.Height = h
	} else {
		box.Height = flow
		if box.Height == 0 && ownText(node) != "" {
			box.Height = lineHeight(style)
		}
	}

	if box.Scrollable() {
		le.measureScroll(box)
	}
	return box
}

// measureScroll records how far b can scroll: the extent of its descendants
// (stopping at nested clipping boxes) beyond its content box.
func (le *LayoutEngine) measureScroll(b *Box) {
	content := b.ContentBox()
	var right, bottom float64

	var visit func(*Box)
	visit = func(c *Box) {
		bb := c.BorderBox()
		right = math.Max(right, bb.Right()+c.Margin.Right+b.ScrollX-content.X)
		bottom = math.Max(bottom, bb.Bottom()+c.Margin.Bottom+b.ScrollY-content.Y)
		if c.Overflow.Clips() {
			return
		}
		for _, g := range c.Children {
			visit(g)
		}
	}
	for _, c := range b.Children {
		visit(c)
	}

	b.MaxScrollX = math.Max(0, right-b.Width)
	b.MaxScrollY = math.Max(0, bottom-b.Height)
}

// Box returns the box laid out for node, or nil when the node is hidden or
// not part of the current document.
func (le *LayoutEngine) Box(node *html.Node) *Box {
	return le.boxes[node]
}

// Boxes returns every element box in document order.
func (le *LayoutEngine) Boxes() []*Box {
	return le.order
}

// BoundingClientRect returns the border box of node in client coordinates.
// Hidden or unknown nodes report an empty rectangle.
func (le *LayoutEngine) BoundingClientRect(node *html.Node) Rect {
	if b := le.boxes[node]; b != nil {
		return b.BorderBox()
	}
	return Rect{}
}

// ClipRect returns the intersection of the boxes of node's clipping
// ancestors. ok is false when no ancestor clips.
func (le *LayoutEngine) ClipRect(node *html.Node) (clip Rect, ok bool) {
	b := le.boxes[node]
	if b == nil {
		return Rect{}, false
	}
	for p := b.Parent; p != nil && p != le.root; p = p.Parent {
		if !p.Overflow.Clips() {
			continue
		}
		if !ok {
			clip, ok = p.BorderBox(), true
		} else {
			clip = clip.Intersect(p.BorderBox())
		}
	}
	return clip, ok
}

func lengthOrAttr(style *css.Style, node *html.Node, property, attr string) (float64, bool) {
	if v, ok := style.GetLength(property); ok {
		return v, true
	}
	if raw, ok := node.GetAttribute(attr); ok {
		return css.ParseLength(raw)
	}
	return 0, false
}

func lineHeight(style *css.Style) float64 {
	if size, ok := style.GetLength("font-size"); ok && size > 0 {
		return size
	}
	return defaultLineHeight
}

func ownText(node *html.Node) string {
	var sb strings.Builder
	for _, c := range node.Children {
		if c.Type == html.TextNode {
			sb.WriteString(c.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}
