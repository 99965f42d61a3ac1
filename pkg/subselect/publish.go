package subselect

import "sort"

// publish hands the flattened region state to the service. Regions are
// sorted by id so successive publishes are easy to diff.
func (h *Helper) publish() {
	out := make([]RegionOutline, 0, len(h.regions))
	for _, r := range h.regions {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	h.log.Debug("subselect: publish", "regions", len(out))
	h.service.UpdateRegionOutlines(out)
}
