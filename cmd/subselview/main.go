// Command subselview shows an HTML visual in format mode. Hovering, clicking
// and scrolling drive the sub-selection helper live, and the visual reloads
// when its file changes.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/fsnotify/fsnotify"

	"subsel/pkg/config"
	"subsel/pkg/host"
	"subsel/pkg/render"
	"subsel/pkg/schedule"
	"subsel/pkg/subselect"
	stdnet "subsel/std/net"
)

// viewer owns the session. Everything except the watcher goroutine runs on
// the fyne event loop.
type viewer struct {
	fixture string
	opts    host.SessionOptions
	theme   render.Theme
	log     *slog.Logger

	session *host.Session
	painter *render.Painter
	surface *surface
	status  *widget.Label
	window  fyne.Window
}

func main() {
	configPath := flag.String("config", config.DefaultFile, "configuration file")
	hostID := flag.String("host", "", "id of the host element (default: first element)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: subselview [flags] <fixture.html>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadFromFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	theme, err := cfg.RenderTheme()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stderr)

	width, height := int(cfg.Viewport.Width), int(cfg.Viewport.Height)
	v := &viewer{
		fixture: flag.Arg(0),
		theme:   theme,
		log:     logger,
		opts: host.SessionOptions{
			Width:          cfg.Viewport.Width,
			Height:         cfg.Viewport.Height,
			HostID:         *hostID,
			Scheduler:      schedule.Realtime{Post: fyne.Do},
			ScrollDebounce: cfg.ScrollDebounce(),
			Logger:         logger,
		},
		painter: render.NewPainter(width, height, theme),
		status:  widget.NewLabel(""),
	}

	a := app.New()
	v.window = a.NewWindow("subselview")
	v.surface = newSurface(width, height, v)
	v.window.SetContent(container.NewBorder(nil, v.status, nil, nil, v.surface))
	v.window.Resize(fyne.NewSize(float32(width), float32(height)+40))

	if err := v.reload(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", v.fixture, err)
		os.Exit(1)
	}

	if !stdnet.IsNetworkURL(v.fixture) {
		watcher, err := v.watch()
		if err != nil {
			logger.Warn("subselview: live reload disabled", "error", err)
		} else {
			defer watcher.Close()
		}
	}

	v.window.ShowAndRun()
	if v.session != nil {
		v.session.Close()
	}
}

// reload replaces the session with one on a fresh copy of the fixture.
func (v *viewer) reload() error {
	doc, err := stdnet.LoadDocument(v.fixture)
	if err != nil {
		return err
	}
	s, err := host.NewSession(doc, v.opts)
	if err != nil {
		return err
	}
	if v.session != nil {
		v.session.Close()
	}
	v.session = s
	s.Loopback.OnPublish = func([]subselect.RegionOutline) { v.redraw() }

	v.window.SetTitle("subselview: " + filepath.Base(v.fixture))
	v.redraw()
	return nil
}

// watch reloads the fixture when it is written. The directory is watched
// so editors that replace the file are seen too.
func (v *viewer) watch() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(v.fixture)
	if err != nil {
		watcher.Close()
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
					continue
				}
				fyne.Do(func() {
					if err := v.reload(); err != nil {
						v.log.Error("subselview: reload failed", "file", v.fixture, "error", err)
						v.status.SetText("Reload failed: " + err.Error())
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				v.log.Warn("subselview: watcher", "error", err)
			}
		}
	}()
	return watcher, nil
}

func (v *viewer) redraw() {
	v.painter.Paint(v.session.Engine, v.session.Loopback.Outlines())
	v.surface.show(v.painter.Image())
	v.status.SetText(v.describe())
}

func (v *viewer) describe() string {
	sel := v.session.Loopback.Selection()
	if len(sel) == 0 {
		return "Nothing selected"
	}
	var names []string
	for _, sub := range sel {
		for _, o := range sub.VisualObjects {
			names = append(names, o.ObjectName)
		}
	}
	if len(names) == 0 {
		return "Nothing selected"
	}
	return "Selected: " + strings.Join(names, ", ")
}

func (v *viewer) move(x, y float64) { v.session.Tracker.Move(x, y) }

func (v *viewer) leave() { v.session.Tracker.Leave() }

func (v *viewer) click(x, y float64) { v.session.Tracker.Click(x, y) }

func (v *viewer) contextMenu(x, y float64) { v.session.Tracker.ContextMenu(x, y) }

func (v *viewer) wheel(x, y, dx, dy float64) {
	if v.session.Tracker.Wheel(x, y, dx, dy) {
		v.redraw()
	}
}
