package subselect

import (
	"errors"
	"log/slog"
	"time"

	"subsel/pkg/html"
	"subsel/pkg/schedule"
)

type (
	IdentityFunc      func(el *html.Node) Identity
	CustomOutlineFunc func(sub SubSelection) []OutlineFragment
	CustomElementFunc func(sub SubSelection) []*html.Node
	MetadataFunc      func(el *html.Node) any
)

// Options configures a Helper. Host, Service, Geometry and Scheduler are
// required; nil callbacks mean the visual does not provide that capability.
type Options struct {
	// Host is the root of the managed subtree.
	Host     *html.Node
	Service  Service
	Geometry Geometry

	Identity       IdentityFunc
	CustomOutlines CustomOutlineFunc
	CustomElements CustomElementFunc
	Metadata       MetadataFunc

	// Scheduler runs the scroll debounce. Its callbacks must run on the
	// goroutine that drives the helper: schedule.Realtime with Post set to
	// the event loop, or schedule.Manual.
	Scheduler schedule.Scheduler
	// ScrollDebounce is the quiet period after the last scroll before the
	// selection is restored. Default: DefaultScrollDebounce.
	ScrollDebounce time.Duration
	// Logger overrides the default slog logger.
	Logger *slog.Logger
}

var (
	ErrNoHost      = errors.New("subselect: host element is required")
	ErrNoService   = errors.New("subselect: service is required")
	ErrNoGeometry  = errors.New("subselect: geometry is required")
	ErrNoScheduler = errors.New("subselect: scheduler is required")
)

func (o *Options) validate() error {
	switch {
	case o.Host == nil:
		return ErrNoHost
	case o.Service == nil:
		return ErrNoService
	case o.Geometry == nil:
		return ErrNoGeometry
	case o.Scheduler == nil:
		return ErrNoScheduler
	}
	return nil
}

func (o *Options) defaults() {
	if o.ScrollDebounce <= 0 {
		o.ScrollDebounce = DefaultScrollDebounce
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// The resolvers below hold an optional callback; the zero value is the
// "not configured" variant.

type identityResolver struct{ fn IdentityFunc }

func (r identityResolver) configured() bool { return r.fn != nil }

func (r identityResolver) resolve(el *html.Node) Identity {
	if r.fn == nil {
		return nil
	}
	return r.fn(el)
}

type customOutlineResolver struct{ fn CustomOutlineFunc }

func (r customOutlineResolver) configured() bool { return r.fn != nil }

func (r customOutlineResolver) resolve(sub SubSelection) []OutlineFragment {
	if r.fn == nil {
		return nil
	}
	return r.fn(sub)
}

type customElementResolver struct{ fn CustomElementFunc }

func (r customElementResolver) resolve(sub SubSelection) []*html.Node {
	if r.fn == nil {
		return nil
	}
	return r.fn(sub)
}

type metadataResolver struct{ fn MetadataFunc }

func (r metadataResolver) resolve(el *html.Node) any {
	if r.fn == nil {
		return nil
	}
	return r.fn(el)
}
