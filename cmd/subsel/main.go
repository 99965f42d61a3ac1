// Command subsel inspects the sub-selectable objects of an HTML visual,
// replays interaction scenarios against it and renders outline previews.
package main

import (
	"flag"
	"fmt"
	"os"

	"subsel/pkg/config"
	"subsel/pkg/host"
	stdnet "subsel/std/net"
)

const usage = `Usage: subsel <command> [flags] <args>

Commands:
  list    <fixture>                 list sub-selectable objects
  replay  <scenario.yaml> [fixture] replay a scenario and print what the helper sent
  render  <fixture>                 render outlines to PNG

Run 'subsel <command> -h' for the command's flags.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "list":
		err = runList(os.Args[2:])
	case "replay":
		err = runReplay(os.Args[2:])
	case "render":
		err = runRender(os.Args[2:])
	case "-h", "-help", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// common holds the flags every command shares.
type common struct {
	configPath string
	width      float64
	height     float64
	hostID     string
	debug      bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", config.DefaultFile, "configuration file")
	fs.Float64Var(&c.width, "w", 0, "viewport width (overrides the config)")
	fs.Float64Var(&c.height, "h", 0, "viewport height (overrides the config)")
	fs.StringVar(&c.hostID, "host", "", "id of the host element (default: first element)")
	fs.BoolVar(&c.debug, "debug", false, "log helper transitions")
}

// load reads the config and applies the flag overrides.
func (c *common) load() (*config.Config, error) {
	cfg, err := config.LoadFromFile(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.width > 0 {
		cfg.Viewport.Width = c.width
	}
	if c.height > 0 {
		cfg.Viewport.Height = c.height
	}
	if c.debug {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func (c *common) sessionOptions(cfg *config.Config) host.SessionOptions {
	return host.SessionOptions{
		Width:          cfg.Viewport.Width,
		Height:         cfg.Viewport.Height,
		HostID:         c.hostID,
		ScrollDebounce: cfg.ScrollDebounce(),
		Logger:         cfg.NewLogger(os.Stderr),
	}
}

// openSession loads the fixture and starts a session on it.
func (c *common) openSession(fixture string) (*host.Session, *config.Config, error) {
	cfg, err := c.load()
	if err != nil {
		return nil, nil, err
	}
	doc, err := stdnet.LoadDocument(fixture)
	if err != nil {
		return nil, nil, err
	}
	s, err := host.NewSession(doc, c.sessionOptions(cfg))
	if err != nil {
		return nil, nil, err
	}
	return s, cfg, nil
}
