package query

import (
	"fmt"
	"io"

	"github.com/please-build/lbs/src/core"
)

// Deps prints all transitive dependencies of a set of targets as an indented tree.
// A dependency that leads back to one of its own ancestors is marked rather than followed.
func Deps(w io.Writer, graph *core.BuildScenario, names []string) error {
	targets, err := lookup(graph, names)
	if err != nil {
		return err
	}
	for _, t := range targets {
		printTarget(w, graph, t, "", map[string]bool{})
	}
	return nil
}

func printTarget(w io.Writer, graph *core.BuildScenario, target *core.Target, indent string, ancestors map[string]bool) {
	if ancestors[target.Name] {
		fmt.Fprintf(w, "%s%s (cycle)\n", indent, target.Name)
		return
	}
	fmt.Fprintf(w, "%s%s\n", indent, target.Name)
	ancestors[target.Name] = true
	defer delete(ancestors, target.Name)
	for _, dep := range target.Dependencies() {
		if t := graph.Target(dep); t != nil {
			printTarget(w, graph, t, indent+"  ", ancestors)
		}
	}
}
