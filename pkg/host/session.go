package host

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"subsel/pkg/html"
	"subsel/pkg/input"
	"subsel/pkg/js"
	"subsel/pkg/layout"
	"subsel/pkg/schedule"
	"subsel/pkg/subselect"
)

// ErrNoHostElement is returned when the document has no element to host the
// helper.
var ErrNoHostElement = errors.New("no host element")

type SessionOptions struct {
	Width, Height float64
	// HostID selects the host element. Default: the first top-level
	// element of the document.
	HostID string
	// Scheduler runs the scroll restore; its callbacks must run on the
	// goroutine driving the session. Default: a schedule.Manual nobody
	// advances, which leaves restores pending.
	Scheduler      schedule.Scheduler
	ScrollDebounce time.Duration
	Logger         *slog.Logger
}

// Session is a visual running in-process: the document, its layout, the
// helper in format mode, a pointer tracker and the loopback service.
type Session struct {
	Doc      *html.Document
	Engine   *layout.LayoutEngine
	Loopback *Loopback
	Helper   *subselect.Helper
	Tracker  *input.Tracker
	Scripts  *js.Engine
}

// NewSession lays doc out, runs its scripts and attaches a helper in format
// mode. Callbacks the scripts assign to the subSelection global are passed
// to the helper.
func NewSession(doc *html.Document, opts SessionOptions) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = schedule.NewManual()
	}
	hostEl := findHost(doc, opts.HostID)
	if hostEl == nil {
		return nil, fmt.Errorf("host %q: %w", opts.HostID, ErrNoHostElement)
	}

	s := &Session{
		Doc:      doc,
		Engine:   layout.NewLayoutEngine(opts.Width, opts.Height),
		Loopback: NewLoopback(opts.Logger),
	}
	s.Engine.Layout(doc)

	helperOpts := subselect.Options{
		Host:           hostEl,
		Service:        s.Loopback,
		Geometry:       s.Engine,
		Scheduler:      opts.Scheduler,
		ScrollDebounce: opts.ScrollDebounce,
		Logger:         opts.Logger,
	}

	s.Scripts = js.New(opts.Logger, s.Engine)
	if err := s.Scripts.Execute(doc); err != nil {
		return nil, fmt.Errorf("running scripts: %w", err)
	}
	callbacks, err := s.Scripts.Callbacks()
	if err != nil {
		return nil, err
	}
	callbacks.Apply(&helperOpts)

	s.Helper, err = subselect.New(helperOpts)
	if err != nil {
		return nil, err
	}
	s.Loopback.Bind(s.Helper)
	s.Tracker = input.NewTracker(s.Engine, opts.Logger)

	hostEl.On("scroll.session", func(*html.Event) {
		s.Helper.OnVisualScroll()
		s.Helper.RefreshOutlines()
	})
	s.Helper.SetFormatMode(true)
	return s, nil
}

// Host returns the element the helper manages.
func (s *Session) Host() *html.Node {
	return s.Helper.Host()
}

// Resize changes the viewport and republishes the outlines.
func (s *Session) Resize(width, height float64) {
	s.Engine.SetViewport(width, height)
	s.Helper.RefreshOutlines()
}

// ScrollElement scrolls the element with the given id by (dx, dy) and
// dispatches the scroll event, as a script-driven scroll would.
func (s *Session) ScrollElement(id string, dx, dy float64) error {
	el := s.Doc.Root.ElementByID(id)
	if el == nil {
		return fmt.Errorf("element %q not found", id)
	}
	if !s.Engine.ScrollBy(el, dx, dy) {
		return nil
	}
	html.Dispatch(&html.Event{Type: html.EventScroll, Target: el, DeltaX: dx, DeltaY: dy})
	return nil
}

func (s *Session) Close() {
	s.Host().On("scroll.session", nil)
	s.Helper.Destroy()
	s.Tracker.Reset()
}

func findHost(doc *html.Document, id string) *html.Node {
	if id != "" {
		return doc.Root.ElementByID(id)
	}
	for _, c := range doc.Root.Children {
		if c.IsElement() {
			return c
		}
	}
	return nil
}
