package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"subsel/pkg/host"
	"subsel/pkg/scenario"
	"subsel/pkg/subselect"
	stdnet "subsel/std/net"
)

func runReplay(args []string) error {
	var c common
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	c.register(fs)
	verbose := fs.Bool("v", false, "dump the visible regions after every step")
	asJSON := fs.Bool("json", false, "print traces as JSON lines")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}
	scenarioPath := fs.Arg(0)

	sc, err := scenario.Load(scenarioPath)
	if err != nil {
		return err
	}
	fixture := sc.Fixture
	if fs.NArg() > 1 {
		fixture = fs.Arg(1)
	}
	if fixture == "" {
		return fmt.Errorf("%s names no fixture", scenarioPath)
	}

	cfg, err := c.load()
	if err != nil {
		return err
	}
	loader := stdnet.Loader{Base: scenarioPath}
	if fs.NArg() > 1 {
		loader = stdnet.Loader{}
	}
	doc, err := loader.LoadDocument(fixture)
	if err != nil {
		return err
	}

	traces, err := sc.Replay(doc, c.sessionOptions(cfg))
	for _, tr := range traces {
		if *asJSON {
			if werr := writeJSONTrace(os.Stdout, tr); werr != nil {
				return werr
			}
			continue
		}
		printTrace(os.Stdout, tr, *verbose)
	}
	return err
}

func printTrace(w io.Writer, tr scenario.Trace, verbose bool) {
	fmt.Fprintf(w, "%3d  %-28s %6s\n", tr.Index, tr.Step, tr.At)
	for _, cmd := range tr.Commands {
		fmt.Fprintf(w, "       submit  %s\n", describeCommand(cmd))
	}
	if len(tr.Visible) > 0 {
		ids := make([]string, len(tr.Visible))
		for i, r := range tr.Visible {
			ids[i] = fmt.Sprintf("%s(%s)", r.ID, r.Visibility)
		}
		fmt.Fprintf(w, "       outline %s\n", strings.Join(ids, " "))
	}
	if verbose && len(tr.Visible) > 0 {
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
		cfg.Fdump(w, tr.Visible)
	}
}

func describeCommand(cmd host.Command) string {
	if cmd.Clear {
		return "clear"
	}
	sub := cmd.Selection
	if len(sub.VisualObjects) == 0 {
		return "empty selection"
	}
	names := make([]string, len(sub.VisualObjects))
	for i, o := range sub.VisualObjects {
		names[i] = o.ObjectName
		if o.Identity != nil {
			names[i] += "[" + o.Identity.Key() + "]"
		}
	}
	s := strings.Join(names, ",")
	if sub.ShowUI {
		s += " (showUI)"
	}
	return s
}

type jsonTrace struct {
	Index    int                       `json:"index"`
	Step     string                    `json:"step"`
	AtMS     int64                     `json:"atMs"`
	Commands []jsonCommand             `json:"commands"`
	Visible  []subselect.RegionOutline `json:"visible"`
}

type jsonCommand struct {
	Clear     bool                    `json:"clear,omitempty"`
	Selection *subselect.SubSelection `json:"selection,omitempty"`
}

func writeJSONTrace(w io.Writer, tr scenario.Trace) error {
	out := jsonTrace{
		Index:    tr.Index,
		Step:     tr.Step.String(),
		AtMS:     tr.At.Milliseconds(),
		Commands: make([]jsonCommand, len(tr.Commands)),
		Visible:  tr.Visible,
	}
	for i, cmd := range tr.Commands {
		out.Commands[i] = jsonCommand{Clear: cmd.Clear, Selection: cmd.Selection}
	}
	return json.NewEncoder(w).Encode(out)
}
