package subselect

// OnVisualScroll tells the helper the visual is scrolling. The first call
// of a burst remembers the current selection and clears it so stale
// outlines do not float over moving content. Each call pushes the restore
// back by the debounce interval; once calls stop, the first remembered
// sub-selection is submitted again.
func (h *Helper) OnVisualScroll() {
	if h.scrollTask == nil {
		// Snapshot before submitting: the service may report the cleared
		// selection back synchronously.
		h.scrollSnapshot = append([]SubSelection(nil), h.subSelections...)
		h.log.Debug("subselect: scroll start", "snapshot", len(h.scrollSnapshot))
		h.service.SubSelect(nil)
	} else {
		h.scrollTask.Stop()
	}
	h.scrollTask = h.scheduler.AfterFunc(h.scrollDebounce, h.onScrollEnd)
}

// Scrolling reports whether a scroll restore is pending.
func (h *Helper) Scrolling() bool {
	return h.scrollTask != nil
}

func (h *Helper) onScrollEnd() {
	snapshot := h.scrollSnapshot
	h.scrollSnapshot = nil
	h.scrollTask = nil

	h.log.Debug("subselect: scroll end", "restore", len(snapshot) > 0)
	if len(snapshot) > 0 {
		sub := snapshot[0]
		h.service.SubSelect(&sub)
	}
}
