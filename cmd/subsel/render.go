package main

import (
	"flag"
	"fmt"
	"os"

	"subsel/pkg/render"
	"subsel/pkg/subselect"
)

func runRender(args []string) error {
	var c common
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	c.register(fs)
	output := fs.String("o", "outlines.png", "output PNG file path")
	all := fs.Bool("all", false, "outline every sub-selectable object")
	var hover, click point
	fs.Var(&hover, "hover", "move the pointer to `x,y` before rendering")
	fs.Var(&click, "click", "click at `x,y` before rendering")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}

	s, cfg, err := c.openSession(fs.Arg(0))
	if err != nil {
		return err
	}
	defer s.Close()

	if click.set {
		s.Tracker.Click(click.x, click.y)
	}
	if hover.set {
		s.Tracker.Move(hover.x, hover.y)
	}
	if *all {
		els := s.Helper.ElementsFromSubSelections(s.Helper.AllSubSelectables(subselect.StylesNone))
		s.Helper.UpdateElementOutlines(els, subselect.VisibilityHover, false)
	}

	theme, err := cfg.RenderTheme()
	if err != nil {
		return err
	}
	painter := render.NewPainter(int(cfg.Viewport.Width), int(cfg.Viewport.Height), theme)
	painter.Paint(s.Engine, s.Loopback.Outlines())
	if err := painter.SavePNG(*output); err != nil {
		return fmt.Errorf("saving PNG: %w", err)
	}

	fmt.Printf("Rendered %s to %s (%d regions visible)\n", fs.Arg(0), *output, len(s.Loopback.Visible()))
	return nil
}

// point is a flag.Value for "x,y".
type point struct {
	x, y float64
	set  bool
}

func (p *point) String() string {
	if p == nil || !p.set {
		return ""
	}
	return fmt.Sprintf("%g,%g", p.x, p.y)
}

func (p *point) Set(v string) error {
	if _, err := fmt.Sscanf(v, "%g,%g", &p.x, &p.y); err != nil {
		return fmt.Errorf("want x,y: %w", err)
	}
	p.set = true
	return nil
}
