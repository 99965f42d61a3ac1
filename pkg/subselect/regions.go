package subselect

import (
	"subsel/pkg/html"
)

// RegionIDFor derives the region of el from its object name and, when an
// identity resolver is configured, the key of its identity.
func (h *Helper) RegionIDFor(el *html.Node) RegionID {
	id := el.Attr(ObjectNameAttribute)
	if h.identity.configured() {
		if ident := h.identity.resolve(el); ident != nil && ident.Key() != "" {
			return RegionID(id + regionIDSeparator + ident.Key())
		}
	}
	return RegionID(id)
}

// UpdateElementOutline is UpdateElementOutlines for a single element.
func (h *Helper) UpdateElementOutline(el *html.Node, vis Visibility, suppressRender bool) RegionID {
	return h.UpdateElementOutlines([]*html.Node{el}, vis, suppressRender)[0]
}

// UpdateElementOutlines groups els by region and replaces each region with
// the restricted outlines of its elements at visibility vis. It returns the
// region ids in first-seen order.
func (h *Helper) UpdateElementOutlines(els []*html.Node, vis Visibility, suppressRender bool) []RegionID {
	var ids []RegionID
	groups := make(map[RegionID][]*html.Node)
	for _, el := range els {
		id := h.RegionIDFor(el)
		if _, seen := groups[id]; !seen {
			ids = append(ids, id)
		}
		groups[id] = append(groups[id], el)
	}

	for _, id := range ids {
		h.regions[id] = h.regionOutline(id, groups[id], vis)
	}
	if !suppressRender {
		h.publish()
	}
	return ids
}

func (h *Helper) regionOutline(id RegionID, els []*html.Node, vis Visibility) RegionOutline {
	group := &GroupOutline{Outlines: make([]*RectangleOutline, 0, len(els))}
	for _, el := range els {
		outline := h.restrictedOutline(el)
		if outline.Width > 0 && outline.Height > 0 {
			group.Outlines = append(group.Outlines, outline)
		}
	}
	return RegionOutline{ID: id, Visibility: vis, Outline: group}
}

func (h *Helper) UpdateRegionOutline(region RegionOutline, suppressRender bool) {
	h.UpdateRegionOutlines([]RegionOutline{region}, suppressRender)
}

// UpdateRegionOutlines stores caller-built regions, replacing any region
// with the same id.
func (h *Helper) UpdateRegionOutlines(regions []RegionOutline, suppressRender bool) {
	for _, r := range regions {
		h.regions[r.ID] = r
	}
	if !suppressRender {
		h.publish()
	}
}

func (h *Helper) RegionOutline(id RegionID) (RegionOutline, bool) {
	r, ok := h.regions[id]
	return r, ok
}

// RegionOutlines looks up several regions; unknown ids yield nil entries.
func (h *Helper) RegionOutlines(ids []RegionID) []*RegionOutline {
	out := make([]*RegionOutline, len(ids))
	for i, id := range ids {
		if r, ok := h.regions[id]; ok {
			out[i] = &r
		}
	}
	return out
}

// AllOutlines returns a copy of the region map.
func (h *Helper) AllOutlines() map[RegionID]RegionOutline {
	out := make(map[RegionID]RegionOutline, len(h.regions))
	for id, r := range h.regions {
		out[id] = r
	}
	return out
}

// HideAllOutlines drives every region to VisibilityNone.
func (h *Helper) HideAllOutlines(suppressRender bool) {
	hidden := make([]RegionOutline, 0, len(h.regions))
	for _, r := range h.regions {
		r.Visibility = VisibilityNone
		hidden = append(hidden, r)
	}
	h.UpdateRegionOutlines(hidden, suppressRender)
}

// ClearHoveredOutline hides the hovered region, publishing if there was one.
func (h *Helper) ClearHoveredOutline() {
	cleared := false
	for id, r := range h.regions {
		if r.Visibility == VisibilityHover {
			r.Visibility = VisibilityNone
			h.regions[id] = r
			cleared = true
		}
	}
	if cleared {
		h.log.Debug("subselect: hover cleared")
		h.publish()
	}
}
