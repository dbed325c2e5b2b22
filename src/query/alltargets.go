// Package query implements the various ways of asking about a build description without building it.
package query

import (
	"fmt"
	"io"

	"github.com/please-build/lbs/src/core"
)

// AllTargets simply prints all the targets in the order they were declared, along with their kind.
func AllTargets(w io.Writer, graph *core.BuildScenario) {
	for _, t := range graph.AllTargets() {
		fmt.Fprintf(w, "%s %s\n", t.Kind, t.Name)
	}
}
