// Representation of the build graph.
// Targets are declared top-down by the build description and may only refer to
// targets that were declared before them.

package core

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/please-build/lbs/src/cli/logging"
)

var log = logging.Log

// ErrDuplicateTarget is returned when a target is declared with a name that's already in use.
var ErrDuplicateTarget = errors.New("targets must not share a name")

// A BuildScenario contains all the targets and compilers for one build description.
// It holds no state about what has been built; that belongs to whoever is walking it.
type BuildScenario struct {
	// Map of all known targets by their name.
	targets map[string]*Target
	// The same targets in the order they were declared.
	order []*Target
	// Map of all known compilers by their name.
	compilers map[string]*Compiler
}

// NewBuildScenario constructs and returns a new, empty BuildScenario.
func NewBuildScenario() *BuildScenario {
	return &BuildScenario{
		targets:   map[string]*Target{},
		compilers: map[string]*Compiler{},
	}
}

// AddTarget adds a new target to the scenario.
// It returns an error wrapping ErrDuplicateTarget if the name is already taken, in which case
// the scenario is unchanged.
func (s *BuildScenario) AddTarget(target *Target) error {
	if _, present := s.targets[target.Name]; present {
		return fmt.Errorf("%w: %s", ErrDuplicateTarget, target.Name)
	}
	s.targets[target.Name] = target
	s.order = append(s.order, target)
	return nil
}

// Target retrieves a target by name, or nil if there isn't one.
func (s *BuildScenario) Target(name string) *Target {
	return s.targets[name]
}

// AllTargets returns all the targets in the order they were declared.
func (s *BuildScenario) AllTargets() []*Target {
	ret := make([]*Target, len(s.order))
	copy(ret, s.order)
	return ret
}

// TargetNames returns the names of all targets in the order they were declared.
func (s *BuildScenario) TargetNames() []string {
	ret := make([]string, len(s.order))
	for i, t := range s.order {
		ret[i] = t.Name
	}
	return ret
}

// AddCompiler registers a compiler, replacing any existing one by the same name.
// It fails if any of the compiler's templates are invalid.
func (s *BuildScenario) AddCompiler(compiler *Compiler) error {
	if err := compiler.Validate(); err != nil {
		return err
	}
	if _, present := s.compilers[compiler.Name]; present {
		log.Debug("Replacing compiler %s", compiler.Name)
	}
	s.compilers[compiler.Name] = compiler
	return nil
}

// Compiler retrieves a compiler by name, or nil if there isn't one.
func (s *BuildScenario) Compiler(name string) *Compiler {
	return s.compilers[name]
}

// CompilerNames returns the names of all known compilers, sorted.
func (s *BuildScenario) CompilerNames() []string {
	ret := make([]string, 0, len(s.compilers))
	for name := range s.compilers {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// Print writes a human-readable description of every target in the scenario.
func (s *BuildScenario) Print(w io.Writer) {
	for _, t := range s.order {
		t.Print(w)
	}
}
