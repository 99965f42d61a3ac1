package subselect

import (
	"sort"

	"subsel/pkg/html"
)

// AllSubSelectables describes every distinct sub-selectable owned by the
// helper, optionally restricted to one styles type (StylesNone keeps all).
// Elements sharing object name and identity count once. Each origin is the
// centre of the element's box, and the result is ordered top to bottom,
// ties in document order.
func (h *Helper) AllSubSelectables(filter StylesType) []SubSelection {
	var els []*html.Node
	for _, el := range h.subSelectables() {
		if !h.containsEquivalent(els, el) {
			els = append(els, el)
		}
	}

	if filter != StylesNone {
		kept := els[:0]
		for _, el := range els {
			if stylesTypeOf(el) == filter {
				kept = append(kept, el)
			}
		}
		els = kept
	}

	origins := make([]Point, len(els))
	for i, el := range els {
		x, y := h.geometry.BoundingClientRect(el).Center()
		origins[i] = Point{X: x, Y: y}
	}
	order := make([]int, len(els))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return origins[order[a]].Y < origins[order[b]].Y })

	out := make([]SubSelection, 0, len(els))
	for _, i := range order {
		el := els[i]
		origin := origins[i]
		out = append(out, h.NewSingleObjectSubSelection(CreateArgs{
			ObjectName:  el.Attr(ObjectNameAttribute),
			Type:        stylesTypeOf(el),
			DisplayName: el.Attr(DisplayNameAttribute),
			Identity:    h.identity.resolve(el),
			Origin:      &origin,
		}))
	}
	return out
}

func (h *Helper) containsEquivalent(els []*html.Node, el *html.Node) bool {
	name := el.Attr(ObjectNameAttribute)
	for _, other := range els {
		if other.Attr(ObjectNameAttribute) != name {
			continue
		}
		if !h.identity.configured() || EqualIdentity(h.identity.resolve(other), h.identity.resolve(el)) {
			return true
		}
	}
	return false
}

// NewSingleObjectSubSelection builds a sub-selection of one object. Text
// and numeric text sub-selections with an origin get a vertical offset of
// -origin.Y so the formatting UI anchors at the top of the visual.
func (h *Helper) NewSingleObjectSubSelection(args CreateArgs) SubSelection {
	return NewSingleObjectSubSelection(args)
}

// NewSingleObjectSubSelection is available without a Helper for synthetic
// sub-selections that have no element.
func NewSingleObjectSubSelection(args CreateArgs) SubSelection {
	var origin *Origin
	if args.Origin != nil {
		origin = &Origin{X: args.Origin.X, Y: args.Origin.Y}
		if args.Type == StylesText || args.Type == StylesNumericText {
			origin.Offset = &Point{X: 0, Y: -args.Origin.Y}
		}
	}

	return SubSelection{
		VisualObjects: []VisualObject{{ObjectName: args.ObjectName, Identity: args.Identity}},
		DisplayName:   args.DisplayName,
		Type:          args.Type,
		ShowUI:        args.ShowUI,
		Origin:        origin,
		FocusOrder:    args.FocusOrder,
		Metadata:      args.Metadata,
	}
}
