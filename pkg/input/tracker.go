// Package input turns raw pointer activity over a laid-out document into
// DOM events dispatched on the render tree.
package input

import (
	"log/slog"

	"subsel/pkg/html"
)

// Target is the geometry the tracker hit-tests against. It is implemented
// by *layout.LayoutEngine.
type Target interface {
	HitTest(x, y float64) *html.Node
	ScrollContainer(node *html.Node) *html.Node
	ScrollBy(node *html.Node, dx, dy float64) bool
}

// Tracker follows a single pointer. It fires pointerleave on every element
// the pointer left and pointerover on the new target, in that order, and
// dispatches click, contextmenu and scroll events at the hit element.
// Tracker is not safe for concurrent use.
type Tracker struct {
	target Target
	log    *slog.Logger

	hover *html.Node
	x, y  float64
}

func NewTracker(target Target, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{target: target, log: logger}
}

// Hovered returns the element currently under the pointer.
func (tr *Tracker) Hovered() *html.Node {
	return tr.hover
}

// Position returns the last pointer position.
func (tr *Tracker) Position() (float64, float64) {
	return tr.x, tr.y
}

// Reset forgets the hovered element without firing events, for use after
// the document has been replaced.
func (tr *Tracker) Reset() {
	tr.hover = nil
}

// Move moves the pointer to (x, y).
func (tr *Tracker) Move(x, y float64) {
	tr.x, tr.y = x, y
	target := tr.target.HitTest(x, y)
	if target == tr.hover {
		return
	}
	old := tr.hover
	tr.hover = target

	if old != nil {
		tr.leave(old, target)
	}
	if target != nil {
		tr.log.Debug("input: pointerover", "tag", target.TagName, "x", x, "y", y)
		html.Dispatch(tr.event(html.EventPointerOver, target))
	}
}

// Leave reports that the pointer left the canvas.
func (tr *Tracker) Leave() {
	if tr.hover == nil {
		return
	}
	old := tr.hover
	tr.hover = nil
	tr.leave(old, nil)
}

// Click moves the pointer to (x, y) and clicks the element there. It
// returns the dispatched event, or nil when nothing was hit.
func (tr *Tracker) Click(x, y float64) *html.Event {
	return tr.press(html.EventClick, x, y)
}

// ContextMenu is Click for the secondary button.
func (tr *Tracker) ContextMenu(x, y float64) *html.Event {
	return tr.press(html.EventContextMenu, x, y)
}

func (tr *Tracker) press(kind string, x, y float64) *html.Event {
	tr.Move(x, y)
	if tr.hover == nil {
		return nil
	}
	ev := tr.event(kind, tr.hover)
	tr.log.Debug("input: "+kind, "tag", tr.hover.TagName, "x", x, "y", y)
	html.Dispatch(ev)
	return ev
}

// Wheel scrolls the nearest scroll container under (x, y) by (dx, dy) and
// dispatches a scroll event on it. Because content moves under a still
// pointer, hover is re-evaluated afterwards. Wheel reports whether
// anything scrolled.
func (tr *Tracker) Wheel(x, y, dx, dy float64) bool {
	tr.x, tr.y = x, y
	hit := tr.target.HitTest(x, y)
	if hit == nil {
		return false
	}
	container := tr.target.ScrollContainer(hit)
	if container == nil || !tr.target.ScrollBy(container, dx, dy) {
		return false
	}

	ev := tr.event(html.EventScroll, container)
	ev.DeltaX, ev.DeltaY = dx, dy
	tr.log.Debug("input: scroll", "tag", container.TagName, "dx", dx, "dy", dy)
	html.Dispatch(ev)

	tr.Move(x, y)
	return true
}

// leave fires pointerleave on old and each ancestor that does not contain
// next, deepest first.
func (tr *Tracker) leave(old, next *html.Node) {
	for _, n := range old.Ancestors() {
		if !n.IsElement() {
			continue
		}
		if next != nil && n.Contains(next) {
			break
		}
		html.Dispatch(tr.event(html.EventPointerLeave, n))
	}
}

func (tr *Tracker) event(kind string, target *html.Node) *html.Event {
	return &html.Event{Type: kind, Target: target, ClientX: tr.x, ClientY: tr.y}
}
