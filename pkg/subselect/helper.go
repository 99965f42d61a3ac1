// Package subselect tracks hover and selection of the sub-selectable parts
// of a rendered visual and computes the outlines that show them.
//
// A Helper manages the subtree under one host element. In format mode it
// listens for pointerover, click and contextmenu on the host, resolves the
// tagged element under the pointer, and either outlines it (hover) or
// submits a SubSelection to the Service. The Service is the authority on
// what is selected: it reports the selection back through
// UpdateOutlinesFromSubSelections, which marks elements and draws Active
// outlines.
//
// A Helper is not safe for concurrent use; drive it from the goroutine that
// dispatches the document's events.
package subselect

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"subsel/pkg/html"
	"subsel/pkg/schedule"
)

type Helper struct {
	host     *html.Node
	service  Service
	geometry Geometry
	log      *slog.Logger

	identity       identityResolver
	customOutlines customOutlineResolver
	customElements customElementResolver
	metadata       metadataResolver

	scheduler      schedule.Scheduler
	scrollDebounce time.Duration

	regions     map[RegionID]RegionOutline
	elementData map[*html.Node]*ElementData
	formatMode  bool

	// subSelections is the selection last reported by the service; nil
	// until the first report.
	subSelections []SubSelection

	// Scroll reconciliation: the selection to restore and the pending
	// restore task. scrollTask is nil when no scroll is in progress.
	scrollSnapshot []SubSelection
	scrollTask     schedule.Task
}

// New creates a helper for opts.Host and marks the host with
// HelperHostAttribute.
func New(opts Options) (*Helper, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts.defaults()

	h := &Helper{
		host:           opts.Host,
		service:        opts.Service,
		geometry:       opts.Geometry,
		log:            opts.Logger,
		identity:       identityResolver{opts.Identity},
		customOutlines: customOutlineResolver{opts.CustomOutlines},
		customElements: customElementResolver{opts.CustomElements},
		metadata:       metadataResolver{opts.Metadata},
		scheduler:      opts.Scheduler,
		scrollDebounce: opts.ScrollDebounce,
		regions:        make(map[RegionID]RegionOutline),
		elementData:    make(map[*html.Node]*ElementData),
	}
	h.host.SetAttribute(HelperHostAttribute, uuid.NewString())
	return h, nil
}

// Host returns the root of the managed subtree.
func (h *Helper) Host() *html.Node {
	return h.host
}

// SetCustomOutlineFunc replaces the custom outline callback; nil removes it.
func (h *Helper) SetCustomOutlineFunc(fn CustomOutlineFunc) {
	h.customOutlines = customOutlineResolver{fn}
}

func (h *Helper) FormatMode() bool {
	return h.formatMode
}

// SetFormatMode enters or leaves format mode. Leaving detaches the pointer
// listeners and hides every outline.
func (h *Helper) SetFormatMode(on bool) {
	if h.formatMode == on {
		return
	}
	h.formatMode = on
	h.log.Debug("subselect: format mode", "on", on)

	if on {
		h.attachListeners()
		h.host.SetAttribute(FormatModeAttribute, "true")
		return
	}
	h.detachListeners()
	h.host.RemoveAttribute(FormatModeAttribute)
	h.HideAllOutlines(false)
}

// Destroy detaches the helper from its host, cancels a pending scroll
// restore and hides every outline.
func (h *Helper) Destroy() {
	h.detachListeners()
	h.formatMode = false
	h.host.RemoveAttribute(FormatModeAttribute)
	if h.scrollTask != nil {
		h.scrollTask.Stop()
		h.scrollTask = nil
		h.scrollSnapshot = nil
	}
	h.HideAllOutlines(false)
}

func (h *Helper) attachListeners() {
	h.host.On(eventName(html.EventPointerOver), h.onPointerOver)
	h.host.On(eventName(html.EventClick), func(ev *html.Event) { h.subSelectFromEvent(ev, false) })
	h.host.On(eventName(html.EventContextMenu), func(ev *html.Event) { h.subSelectFromEvent(ev, true) })
}

func (h *Helper) detachListeners() {
	h.host.On(eventName(html.EventPointerOver), nil)
	h.host.On(eventName(html.EventClick), nil)
	h.host.On(eventName(html.EventContextMenu), nil)
}

func (h *Helper) onPointerOver(ev *html.Event) {
	h.ClearHoveredOutline()

	src, ok := h.SourceFromEvent(ev)
	if !ok {
		return
	}

	// A custom outline replaces the default ones; an Active custom outline
	// is left alone.
	claimed := h.UpdateCustomOutlinesFromSubSelections([]SubSelection{src.SubSelection}, VisibilityHover)
	if len(claimed) == 0 {
		var els []*html.Node
		for _, el := range h.elementsFromSource(src) {
			if el.Attr(SubSelectedAttribute) != "" || el.Attr(HideOutlineAttribute) == "true" {
				continue
			}
			els = append(els, el)
		}
		h.UpdateOutlinesFromSubSelectionElements(els, VisibilityHover)
	}

	h.log.Debug("subselect: hover", "object", src.Element.Attr(ObjectNameAttribute))
	h.publish()
	h.watchLeave(src.Element)
}

// watchLeave clears the hover when the pointer leaves el, unless el has been
// sub-selected in the meantime. The listener removes itself either way.
func (h *Helper) watchLeave(el *html.Node) {
	name := eventName(html.EventPointerLeave)
	el.On(name, func(*html.Event) {
		el.On(name, nil)
		if el.Attr(SubSelectedAttribute) != "" {
			return
		}
		h.ClearHoveredOutline()
	})
}

func (h *Helper) subSelectFromEvent(ev *html.Event, showUI bool) {
	ev.PreventDefault()

	src, _ := h.SourceFromEvent(ev)
	els := h.elementsFromSource(src)

	// A new selection must not be overwritten by a pending scroll restore.
	h.scrollSnapshot = nil

	if len(els) == 0 {
		h.log.Debug("subselect: select nothing", "x", ev.ClientX, "y", ev.ClientY, "showUI", showUI)
		h.service.SubSelect(&SubSelection{
			VisualObjects: []VisualObject{},
			Origin:        &Origin{X: ev.ClientX, Y: ev.ClientY},
			ShowUI:        showUI,
		})
		return
	}

	sub := h.NewSingleObjectSubSelection(h.createArgs(els[0], ev, showUI))
	h.log.Debug("subselect: select", "object", sub.VisualObjects[0].ObjectName, "showUI", showUI)
	h.service.SubSelect(&sub)
}

// UpdateOutlinesFromSubSelections applies the selection reported by the
// service: it marks selected elements, shows custom outlines for the
// sub-selections that have them and Active default outlines for the rest.
// clearExisting first hides every region; otherwise regions not touched
// keep their visibility.
func (h *Helper) UpdateOutlinesFromSubSelections(subs []SubSelection, clearExisting, suppressRender bool) {
	if clearExisting {
		h.HideAllOutlines(true)
	}

	h.subSelections = subs
	h.SetSubSelectedState(subs)

	claimed := h.applyCustomOutlines(subs, VisibilityActive)
	var rest []SubSelection
	for i, sub := range subs {
		if !claimed[i] {
			rest = append(rest, sub)
		}
	}

	var els []*html.Node
	for _, el := range h.ElementsFromSubSelections(rest) {
		if el.Attr(HideOutlineAttribute) != "true" {
			els = append(els, el)
		}
	}
	h.UpdateOutlinesFromSubSelectionElements(els, VisibilityActive)

	if !suppressRender {
		h.publish()
	}
}

// RefreshOutlines recomputes every outline from the last reported
// selection, for use after the visual re-rendered.
func (h *Helper) RefreshOutlines() {
	h.UpdateOutlinesFromSubSelections(h.subSelections, true, false)
}

// SubSelections returns the selection last reported by the service.
func (h *Helper) SubSelections() []SubSelection {
	return h.subSelections
}

// UpdateOutlinesFromSubSelectionElements outlines els at vis without
// publishing.
func (h *Helper) UpdateOutlinesFromSubSelectionElements(els []*html.Node, vis Visibility) {
	if len(els) > 0 {
		h.UpdateElementOutlines(els, vis, true)
	}
}

// UpdateCustomOutlinesFromSubSelections asks the custom outline callback
// for each sub-selection and stores the fragments it returns at vis. A
// Hover request never downgrades a region that is already Active. It
// returns the sub-selections that had custom outlines. Nothing is published.
func (h *Helper) UpdateCustomOutlinesFromSubSelections(subs []SubSelection, vis Visibility) []SubSelection {
	var out []SubSelection
	for i, c := range h.applyCustomOutlines(subs, vis) {
		if c {
			out = append(out, subs[i])
		}
	}
	return out
}

func (h *Helper) applyCustomOutlines(subs []SubSelection, vis Visibility) []bool {
	claimed := make([]bool, len(subs))
	if !h.customOutlines.configured() {
		return claimed
	}
	for i, sub := range subs {
		fragments := h.customOutlines.resolve(sub)
		if len(fragments) == 0 {
			continue
		}
		for _, f := range fragments {
			if vis == VisibilityHover && h.regions[f.ID].Visibility == VisibilityActive {
				continue
			}
			h.regions[f.ID] = RegionOutline{ID: f.ID, Visibility: vis, Outline: f.Outline}
		}
		claimed[i] = true
	}
	return claimed
}

// ElementsFromSubSelections returns the owned sub-selectable elements that
// match any of subs.
func (h *Helper) ElementsFromSubSelections(subs []SubSelection) []*html.Node {
	if subs == nil {
		return nil
	}
	var out []*html.Node
	for _, el := range h.subSelectables() {
		if h.isElementSubSelected(el, subs) {
			out = append(out, el)
		}
	}
	return out
}

// SetSubSelectedState sets SubSelectedAttribute on the elements matching
// subs and removes it from every other sub-selectable. A nil slice leaves
// the attributes alone; an empty one clears them.
func (h *Helper) SetSubSelectedState(subs []SubSelection) {
	if subs == nil {
		return
	}
	for _, el := range h.subSelectables() {
		if h.isElementSubSelected(el, subs) {
			el.SetAttribute(SubSelectedAttribute, "true")
		} else {
			el.RemoveAttribute(SubSelectedAttribute)
		}
	}
}

// isElementSubSelected matches el against the visual objects of subs by
// object name or alt object name. Identities are compared only when an
// identity resolver is configured and the visual object carries one.
func (h *Helper) isElementSubSelected(el *html.Node, subs []SubSelection) bool {
	name := el.Attr(ObjectNameAttribute)
	alt, hasAlt := el.GetAttribute(AltObjectNameAttribute)
	for _, sub := range subs {
		for _, obj := range sub.VisualObjects {
			if h.identity.configured() && obj.Identity != nil && !EqualIdentity(obj.Identity, h.identity.resolve(el)) {
				continue
			}
			if obj.ObjectName == name || (hasAlt && obj.ObjectName == alt) {
				return true
			}
		}
	}
	return false
}
