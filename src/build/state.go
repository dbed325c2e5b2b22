package build

import (
	"runtime"
	"strings"
)

// A State records what has happened during a single pass over a scenario.
// Using a fresh State starts a fresh pass; the scenario itself is never modified.
type State struct {
	// The OS we're producing commands for. Affects output file names.
	GOOS string
	// Targets that have been (or are being) built, in the order we reached them.
	built map[string]bool
	order []string
	// Targets we're currently in the middle of building; the last is the innermost.
	stack []string
}

// NewState creates a new State for the current OS.
func NewState() *State {
	return &State{
		GOOS:  runtime.GOOS,
		built: map[string]bool{},
	}
}

// IsBuilt returns true if the given target has already been reached in this pass.
func (s *State) IsBuilt(name string) bool {
	return s.built[name]
}

// Built returns the names of every target reached in this pass, in order.
func (s *State) Built() []string {
	ret := make([]string, len(s.order))
	copy(ret, s.order)
	return ret
}

func (s *State) markBuilt(name string) {
	s.built[name] = true
	s.order = append(s.order, name)
}

// mark returns a position that rollback can later return to.
func (s *State) mark() int {
	return len(s.order)
}

// rollback forgets every target marked as built since the given mark.
func (s *State) rollback(mark int) {
	for _, name := range s.order[mark:] {
		delete(s.built, name)
	}
	s.order = s.order[:mark]
}

func (s *State) push(name string) {
	s.stack = append(s.stack, name)
}

func (s *State) pop() {
	s.stack = s.stack[:len(s.stack)-1]
}

// cycle returns the chain of targets leading back to the given one if it's currently being built.
func (s *State) cycle(name string) []string {
	for i, n := range s.stack {
		if n == name {
			chain := make([]string, 0, len(s.stack)-i+1)
			chain = append(chain, s.stack[i:]...)
			return append(chain, name)
		}
	}
	return nil
}

// A CycleError is returned when a target depends on itself, directly or indirectly.
type CycleError struct {
	// The targets involved; the first and last are the same.
	Chain []string
}

// Error implements the builtin error interface.
func (err *CycleError) Error() string {
	return "Dependency cycle found:\n" + strings.Join(err.Chain, "\n -> ") + "\nSorry, but you'll have to refactor your build description to avoid this cycle."
}
