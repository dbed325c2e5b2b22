package build

import "strings"

// DefaultSeparator is used to join commands into one when no other separator is given.
// Each command only runs if the previous one succeeded.
const DefaultSeparator = " && "

// Commands is the result of synthesizing one or more targets.
type Commands struct {
	// Shell commands to run, in order.
	Commands []string
	// Files produced by those commands, in the order they're produced.
	Artifacts []string
}

// Add appends a command, along with any artifacts it produces.
func (c *Commands) Add(command string, artifacts ...string) {
	c.Commands = append(c.Commands, command)
	c.Artifacts = append(c.Artifacts, artifacts...)
}

// Extend appends everything from another set of commands to this one.
func (c *Commands) Extend(other *Commands) {
	if other == nil {
		return
	}
	c.Commands = append(c.Commands, other.Commands...)
	c.Artifacts = append(c.Artifacts, other.Artifacts...)
}

// Empty returns true if there are no commands to run.
func (c *Commands) Empty() bool {
	return len(c.Commands) == 0
}

// AsOneCommand joins all the commands into a single one using the given separator.
// An empty separator means DefaultSeparator.
func (c *Commands) AsOneCommand(sep string) string {
	if sep == "" {
		sep = DefaultSeparator
	}
	return strings.Join(c.Commands, sep)
}
