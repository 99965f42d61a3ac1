package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"subsel/pkg/subselect"
)

func runList(args []string) error {
	var c common
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	c.register(fs)
	query := fs.String("q", "", "fuzzy filter on display or object name")
	stylesType := fs.Int("type", 0, "only list objects of this styles type (1 text, 2 numeric text, 3 shape)")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}

	s, _, err := c.openSession(fs.Arg(0))
	if err != nil {
		return err
	}
	defer s.Close()

	subs := filterSubSelections(s.Helper.AllSubSelectables(subselect.StylesType(*stylesType)), *query)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OBJECT\tIDENTITY\tDISPLAY NAME\tTYPE\tORIGIN")
	for _, sub := range subs {
		obj := sub.VisualObjects[0]
		ident := "-"
		if obj.Identity != nil {
			ident = obj.Identity.Key()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.0f,%.0f\n", obj.ObjectName, ident, sub.DisplayName, sub.Type, sub.Origin.X, sub.Origin.Y)
	}
	return tw.Flush()
}

// filterSubSelections keeps the sub-selections whose display name, or
// object name when there is none, fuzzily matches query.
func filterSubSelections(subs []subselect.SubSelection, query string) []subselect.SubSelection {
	if query == "" {
		return subs
	}
	var out []subselect.SubSelection
	for _, sub := range subs {
		name := sub.DisplayName
		if name == "" {
			name = sub.VisualObjects[0].ObjectName
		}
		if fuzzy.MatchFold(query, name) {
			out = append(out, sub)
		}
	}
	return out
}
