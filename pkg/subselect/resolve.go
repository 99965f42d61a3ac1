package subselect

import (
	"math"
	"strconv"
	"strings"

	"subsel/pkg/css"
	"subsel/pkg/html"
)

// SourceFromEvent finds the sub-selectable element an event refers to: the
// first element with the sub-selectable class on the event path, looking
// no further than the host. Nested sub-selectables are not disambiguated;
// the closest one wins.
func (h *Helper) SourceFromEvent(ev *html.Event) (*Source, bool) {
	path := ev.ComposedPath()
	end := 0
	for i, n := range path {
		if n == h.host {
			end = i + 1
			break
		}
	}
	path = path[:end]

	var el *html.Node
	for _, n := range path {
		if n.IsElement() && n.HasClass(SubSelectableClass) {
			el = n
			break
		}
	}
	if el == nil || !h.Owns(el) {
		return nil, false
	}

	sub := h.NewSingleObjectSubSelection(h.createArgs(el, ev, false))
	return &Source{Element: el, SubSelection: sub}, true
}

func (h *Helper) createArgs(el *html.Node, ev *html.Event, showUI bool) CreateArgs {
	return CreateArgs{
		ObjectName:  el.Attr(ObjectNameAttribute),
		Type:        stylesTypeOf(el),
		DisplayName: el.Attr(DisplayNameAttribute),
		ShowUI:      showUI,
		Identity:    h.identity.resolve(el),
		Origin:      &Point{X: ev.ClientX, Y: ev.ClientY},
		Metadata:    h.metadata.resolve(el),
	}
}

// stylesTypeOf parses TypeAttribute as a number; absent, non-numeric or
// fractional values yield StylesNone.
func stylesTypeOf(el *html.Node) StylesType {
	raw := strings.TrimSpace(el.Attr(TypeAttribute))
	if raw == "" {
		return StylesNone
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || n != math.Trunc(n) || math.IsInf(n, 0) {
		return StylesNone
	}
	return StylesType(n)
}

// elementsFromSource returns every element belonging to the source's
// region. A custom element resolver wins when it returns anything.
func (h *Helper) elementsFromSource(src *Source) []*html.Node {
	if src == nil {
		return nil
	}
	if els := h.customElements.resolve(src.SubSelection); len(els) > 0 {
		return els
	}

	obj := src.SubSelection.VisualObjects[0]
	var out []*html.Node
	for _, el := range h.subSelectables() {
		if el.Attr(ObjectNameAttribute) != obj.ObjectName {
			continue
		}
		if h.identity.configured() && !EqualIdentity(obj.Identity, h.identity.resolve(el)) {
			continue
		}
		out = append(out, el)
	}
	return out
}

// subSelectables lists the owned sub-selectable descendants of the host in
// document order.
func (h *Helper) subSelectables() []*html.Node {
	var out []*html.Node
	for _, el := range css.QueryAll(h.host, subSelectableSelector) {
		if h.Owns(el) {
			out = append(out, el)
		}
	}
	return out
}
