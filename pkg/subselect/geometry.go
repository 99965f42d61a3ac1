package subselect

import (
	"encoding/json"
	"math"

	"github.com/tidwall/gjson"

	"subsel/pkg/css"
	"subsel/pkg/html"
	"subsel/pkg/layout"
)

// Owns reports whether node belongs to this helper: its nearest helper host
// (inclusive) is the helper's host.
func (h *Helper) Owns(node *html.Node) bool {
	return node != nil && css.Closest(node, helperHostSelector) == h.host
}

// rectangleOutline is the element's bounding box plus its direct-edit
// payload.
func (h *Helper) rectangleOutline(el *html.Node) *RectangleOutline {
	r := h.geometry.BoundingClientRect(el)
	outline := &RectangleOutline{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
	if raw, ok := el.GetAttribute(DirectEditAttribute); ok {
		if !gjson.Valid(raw) {
			panic(&PayloadError{Attribute: DirectEditAttribute, Value: raw})
		}
		outline.DirectEdit = json.RawMessage(raw)
	}
	return outline
}

// restrictedOutline applies the clamp and clip restrictions of el's owned
// restricting ancestors to its rectangle outline.
func (h *Helper) restrictedOutline(el *html.Node) *RectangleOutline {
	outline := h.rectangleOutline(el)

	if clampEl := h.restrictionElement(el, RestrictionClamp); clampEl != nil {
		clampOutline(outline, h.applyRestriction(clampEl, el))
	}
	if clipEl := h.restrictionElement(el, RestrictionClip); clipEl != nil {
		clip := h.applyRestriction(clipEl, el)
		outline.ClipPath = &RectangleOutline{X: clip.X, Y: clip.Y, Width: clip.Width, Height: clip.Height}
	}
	return outline
}

// restrictionElement finds the nearest ancestor of el (inclusive) declaring
// the given restriction, provided the helper owns it.
func (h *Helper) restrictionElement(el *html.Node, kind RestrictionType) *html.Node {
	r := css.Closest(el, css.AttributeEquals(RestrictingElementAttribute, string(kind)))
	if r != nil && h.Owns(r) {
		return r
	}
	return nil
}

// applyRestriction returns the restricting element's box adjusted by the
// restriction options of el.
func (h *Helper) applyRestriction(restricting, el *html.Node) layout.Rect {
	rect := h.geometry.BoundingClientRect(restricting)
	data := h.DataForElement(el)
	if data == nil || data.RestrictionOptions == nil {
		return rect
	}

	var dx, dy, dw, dh float64
	if m := data.RestrictionOptions.Margin; m != nil {
		dx += m.Left
		dy += m.Top
		dw -= m.Left + m.Right
		dh -= m.Top + m.Bottom
	}
	if p := data.RestrictionOptions.Padding; p != nil {
		dx -= p.Left
		dy -= p.Top
		dw += p.Left + p.Right
		dh += p.Top + p.Bottom
	}

	rect.X += dx
	rect.Y += dy
	rect.Width += dw
	rect.Height += dh
	return rect
}

// clampOutline moves the outline origin inside bound and trims the far
// edges to it. The result may be smaller than bound, or empty.
func clampOutline(outline *RectangleOutline, bound layout.Rect) {
	x := math.Max(outline.X, bound.X)
	y := math.Max(outline.Y, bound.Y)
	outline.Width = math.Min(bound.X+bound.Width-x, outline.Width)
	outline.Height = math.Min(bound.Y+bound.Height-y, outline.Height)
	outline.X = x
	outline.Y = y
}
