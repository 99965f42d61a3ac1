// Package scenario replays scripted pointer interactions against a visual on
// a virtual clock and records what the helper sent to its host after each
// step.
//
// A scenario is YAML:
//
//	viewport: {width: 400, height: 300}
//	steps:
//	  - {action: move, x: 20, y: 15}
//	  - {action: click, x: 20, y: 15}
//	  - {action: wheel, x: 30, y: 60, dy: 20}
//	  - {action: wait, duration: 100ms}
package scenario

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"subsel/pkg/host"
	"subsel/pkg/html"
	"subsel/pkg/schedule"
	"subsel/pkg/subselect"
)

// ErrUnknownStep is returned for a step whose action is not recognised.
var ErrUnknownStep = errors.New("unknown step")

// Actions.
const (
	Move        = "move"
	Click       = "click"
	ContextMenu = "contextmenu"
	Wheel       = "wheel"
	Scroll      = "scroll" // scroll the element Target by (dx, dy)
	Leave       = "leave"
	Wait        = "wait"
	Format      = "format" // toggle format mode with On
)

type Scenario struct {
	Fixture  string   `yaml:"fixture"`
	Viewport Viewport `yaml:"viewport"`
	Host     string   `yaml:"host"`
	Steps    []Step   `yaml:"steps"`
}

type Viewport struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type Step struct {
	Action   string        `yaml:"action"`
	X        float64       `yaml:"x"`
	Y        float64       `yaml:"y"`
	DX       float64       `yaml:"dx"`
	DY       float64       `yaml:"dy"`
	Target   string        `yaml:"target"`
	Duration time.Duration `yaml:"duration"`
	On       bool          `yaml:"on"`
}

func (s Step) String() string {
	switch s.Action {
	case Move, Click, ContextMenu:
		return fmt.Sprintf("%s %g,%g", s.Action, s.X, s.Y)
	case Wheel:
		return fmt.Sprintf("wheel %g,%g by %g,%g", s.X, s.Y, s.DX, s.DY)
	case Scroll:
		return fmt.Sprintf("scroll #%s by %g,%g", s.Target, s.DX, s.DY)
	case Wait:
		return "wait " + s.Duration.String()
	case Format:
		return fmt.Sprintf("format %t", s.On)
	}
	return s.Action
}

// Trace is what one step produced.
type Trace struct {
	Index    int
	Step     Step
	At       time.Duration // virtual time after the step
	Commands []host.Command
	// Visible holds the non-None regions of the last published list.
	Visible []subselect.RegionOutline
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	for i, step := range sc.Steps {
		if err := step.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}
	return &sc, nil
}

func (s Step) validate() error {
	switch s.Action {
	case Move, Click, ContextMenu, Wheel, Leave, Format:
		return nil
	case Scroll:
		if s.Target == "" {
			return errors.New("scroll needs a target")
		}
		return nil
	case Wait:
		if s.Duration <= 0 {
			return errors.New("wait needs a positive duration")
		}
		return nil
	}
	return fmt.Errorf("%q: %w", s.Action, ErrUnknownStep)
}

// Replay runs the scenario against a fresh session on doc. The session's
// scheduler is replaced by a virtual clock; the scenario's viewport and host
// override opts when set.
func (sc *Scenario) Replay(doc *html.Document, opts host.SessionOptions) ([]Trace, error) {
	clock := schedule.NewManual()
	opts.Scheduler = clock
	if sc.Viewport.Width > 0 && sc.Viewport.Height > 0 {
		opts.Width, opts.Height = sc.Viewport.Width, sc.Viewport.Height
	}
	if sc.Host != "" {
		opts.HostID = sc.Host
	}

	s, err := host.NewSession(doc, opts)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	traces := make([]Trace, 0, len(sc.Steps))
	for i, step := range sc.Steps {
		if err := apply(s, clock, step); err != nil {
			return traces, fmt.Errorf("step %d (%s): %w", i, step, err)
		}
		traces = append(traces, Trace{
			Index:    i,
			Step:     step,
			At:       clock.Now(),
			Commands: s.Loopback.TakeCommands(),
			Visible:  s.Loopback.Visible(),
		})
	}
	return traces, nil
}

func apply(s *host.Session, clock *schedule.Manual, step Step) error {
	switch step.Action {
	case Move:
		s.Tracker.Move(step.X, step.Y)
	case Click:
		s.Tracker.Click(step.X, step.Y)
	case ContextMenu:
		s.Tracker.ContextMenu(step.X, step.Y)
	case Wheel:
		s.Tracker.Wheel(step.X, step.Y, step.DX, step.DY)
	case Scroll:
		return s.ScrollElement(step.Target, step.DX, step.DY)
	case Leave:
		s.Tracker.Leave()
	case Wait:
		clock.Advance(step.Duration)
	case Format:
		s.Helper.SetFormatMode(step.On)
	default:
		return fmt.Errorf("%q: %w", step.Action, ErrUnknownStep)
	}
	return nil
}
