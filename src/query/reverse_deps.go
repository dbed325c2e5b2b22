package query

import (
	"github.com/please-build/lbs/src/core"
)

// ReverseDeps returns the names of all targets that depend on any of the given ones, directly or
// indirectly, in the order they were declared.
func ReverseDeps(graph *core.BuildScenario, names []string) ([]string, error) {
	if _, err := lookup(graph, names); err != nil {
		return nil, err
	}
	revdeps := map[string][]string{}
	for _, t := range graph.AllTargets() {
		for _, dep := range t.Dependencies() {
			revdeps[dep] = append(revdeps[dep], t.Name)
		}
	}
	found := map[string]bool{}
	queue := append([]string{}, names...)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		for _, revdep := range revdeps[name] {
			if !found[revdep] {
				found[revdep] = true
				queue = append(queue, revdep)
			}
		}
	}
	var ret []string
	for _, name := range graph.TargetNames() {
		if found[name] {
			ret = append(ret, name)
		}
	}
	return ret, nil
}
