// Package host provides an in-process selection-persistence service for
// driving a subselect.Helper without a real host application.
package host

import (
	"log/slog"

	"subsel/pkg/subselect"
)

// Target is the side of the helper the loopback reports back to.
type Target interface {
	UpdateOutlinesFromSubSelections(subs []subselect.SubSelection, clearExisting, suppressRender bool)
}

// Command is one SubSelect call. Clear is set for SubSelect(nil).
type Command struct {
	Clear     bool
	Selection *subselect.SubSelection
}

// Loopback implements subselect.Service. It accepts every submitted
// selection as authoritative and echoes it straight back to its target, the
// way a host does after persisting it.
type Loopback struct {
	target Target
	log    *slog.Logger

	commands  []Command
	selection []subselect.SubSelection
	outlines  []subselect.RegionOutline

	// OnPublish, if set, is called with every outline list the helper
	// publishes.
	OnPublish func([]subselect.RegionOutline)
}

func NewLoopback(logger *slog.Logger) *Loopback {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loopback{log: logger}
}

// Bind sets the target that selections are echoed to. Until it is bound,
// commands are only recorded.
func (l *Loopback) Bind(target Target) {
	l.target = target
}

func (l *Loopback) SubSelect(sub *subselect.SubSelection) {
	cmd := Command{Clear: sub == nil}
	if sub != nil {
		cp := *sub
		cmd.Selection = &cp
	}
	l.commands = append(l.commands, cmd)

	l.selection = []subselect.SubSelection{}
	switch {
	case sub == nil:
		l.log.Info("host: clear selection")
	case len(sub.VisualObjects) == 0:
		l.log.Info("host: select nothing", "showUI", sub.ShowUI)
	default:
		l.log.Info("host: select", "object", sub.VisualObjects[0].ObjectName, "display", sub.DisplayName, "showUI", sub.ShowUI)
		l.selection = append(l.selection, *sub)
	}

	if l.target != nil {
		l.target.UpdateOutlinesFromSubSelections(l.selection, true, false)
	}
}

func (l *Loopback) UpdateRegionOutlines(outlines []subselect.RegionOutline) {
	l.outlines = outlines
	l.log.Debug("host: outlines", "regions", len(outlines))
	if l.OnPublish != nil {
		l.OnPublish(outlines)
	}
}

// Commands returns every command received so far.
func (l *Loopback) Commands() []Command {
	return l.commands
}

// TakeCommands returns the commands received since the previous call.
func (l *Loopback) TakeCommands() []Command {
	out := l.commands
	l.commands = nil
	return out
}

// Outlines returns the last published outline list.
func (l *Loopback) Outlines() []subselect.RegionOutline {
	return l.outlines
}

// Visible returns the published regions that are not hidden.
func (l *Loopback) Visible() []subselect.RegionOutline {
	var out []subselect.RegionOutline
	for _, r := range l.outlines {
		if r.Visibility != subselect.VisibilityNone {
			out = append(out, r)
		}
	}
	return out
}

// Selection returns the current authoritative selection.
func (l *Loopback) Selection() []subselect.SubSelection {
	return l.selection
}
