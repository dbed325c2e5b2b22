package query

import (
	"fmt"
	"io"

	"github.com/please-build/lbs/src/cli"
	"github.com/please-build/lbs/src/core"
)

// Print prints everything we know about each of the given targets.
// It fails without printing anything if any of them don't exist.
func Print(w io.Writer, graph *core.BuildScenario, names []string) error {
	targets, err := lookup(graph, names)
	if err != nil {
		return err
	}
	for i, t := range targets {
		if i > 0 {
			fmt.Fprintln(w)
		}
		t.Print(w)
	}
	return nil
}

// lookup returns the targets with the given names.
func lookup(graph *core.BuildScenario, names []string) ([]*core.Target, error) {
	targets := make([]*core.Target, len(names))
	for i, name := range names {
		if targets[i] = graph.Target(name); targets[i] == nil {
			return nil, fmt.Errorf("unknown target %s%s", name, cli.PrettyPrintSuggestion(name, graph.TargetNames(), cli.DefaultSuggestionDistance))
		}
	}
	return targets, nil
}
