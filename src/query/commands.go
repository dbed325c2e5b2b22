package query

import (
	"fmt"
	"io"

	"github.com/alessio/shellescape"

	"github.com/please-build/lbs/src/build"
)

// Commands prints synthesized commands, one per line.
func Commands(w io.Writer, cmds *build.Commands) {
	for _, cmd := range cmds.Commands {
		fmt.Fprintln(w, cmd)
	}
}

// CommandsOnOneLine prints synthesized commands joined into a single one.
func CommandsOnOneLine(w io.Writer, cmds *build.Commands) {
	fmt.Fprintln(w, cmds.AsOneCommand(build.DefaultSeparator))
}

// CommandsAsScript prints a shell script that runs the commands the same way the executor would.
// argv returns the full command line for running one command.
func CommandsAsScript(w io.Writer, cmds *build.Commands, argv func(command string) []string) {
	fmt.Fprintln(w, "#!/bin/sh")
	fmt.Fprintln(w, "set -e")
	for _, cmd := range cmds.Commands {
		fmt.Fprintln(w, shellescape.QuoteCommand(argv(cmd)))
	}
}
