package html

import (
	"sort"
	"strings"
)

// Event type names dispatched by the pointer tracker.
const (
	EventPointerOver  = "pointerover"
	EventPointerLeave = "pointerleave"
	EventClick        = "click"
	EventContextMenu  = "contextmenu"
	EventScroll       = "scroll"
)

// Event is a pointer or scroll notification travelling through the tree.
type Event struct {
	Type    string
	Target  *Node
	ClientX float64
	ClientY float64
	DeltaX  float64
	DeltaY  float64

	current          *Node
	defaultPrevented bool
	stopped          bool
}

// Listener handles an event delivered to a node.
type Listener func(*Event)

// PreventDefault marks the event as handled so hosts skip their default
// behaviour (context menus, focus changes).
func (e *Event) PreventDefault() { e.defaultPrevented = true }

func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation stops delivery to ancestors of the current node.
func (e *Event) StopPropagation() { e.stopped = true }

// CurrentTarget is the node whose listener is running.
func (e *Event) CurrentTarget() *Node { return e.current }

// ComposedPath returns the propagation path from the target up to the
// document root, target first.
func (e *Event) ComposedPath() []*Node {
	if e.Target == nil {
		return nil
	}
	return e.Target.Ancestors()
}

// Bubbles reports whether events of this type propagate to ancestors.
// pointerleave (like pointerenter) is delivered to the target only.
// scroll bubbles here so a single host listener can observe every scroll
// container of a visual.
func Bubbles(eventType string) bool {
	switch eventType {
	case EventPointerLeave, "pointerenter":
		return false
	}
	return true
}

// On registers fn for name, where name is an event type optionally followed
// by ".namespace". Registering the same name again replaces the listener;
// a nil fn removes it.
func (n *Node) On(name string, fn Listener) {
	if fn == nil {
		delete(n.listeners, name)
		return
	}
	if n.listeners == nil {
		n.listeners = make(map[string]Listener)
	}
	n.listeners[name] = fn
}

// HasListener reports whether a listener is registered under name.
func (n *Node) HasListener(name string) bool {
	_, ok := n.listeners[name]
	return ok
}

// listenersFor snapshots the listeners for an event type so handlers may
// add or remove listeners while the event is delivered.
func (n *Node) listenersFor(eventType string) []Listener {
	if len(n.listeners) == 0 {
		return nil
	}
	names := make([]string, 0, len(n.listeners))
	for name := range n.listeners {
		typ, _, _ := strings.Cut(name, ".")
		if typ == eventType {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	fns := make([]Listener, len(names))
	for i, name := range names {
		fns[i] = n.listeners[name]
	}
	return fns
}

// Dispatch delivers ev to its target and, for bubbling types, to every
// ancestor up to the root.
func Dispatch(ev *Event) {
	if ev.Target == nil {
		return
	}
	path := ev.ComposedPath()
	if !Bubbles(ev.Type) {
		path = path[:1]
	}
	for _, node := range path {
		ev.current = node
		for _, fn := range node.listenersFor(ev.Type) {
			fn(ev)
		}
		if ev.stopped {
			break
		}
	}
	ev.current = nil
}
