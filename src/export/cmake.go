// Package export renders a build scenario in formats other tools understand.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/please-build/lbs/src/cli/logging"
	"github.com/please-build/lbs/src/core"
)

var log = logging.Log

// CMake writes a CMakeLists.txt equivalent to the given scenario.
// Generic targets have no CMake equivalent and are skipped with a warning; so are requisites
// other than dependencies, which CMake expresses through target_link_libraries.
func CMake(w io.Writer, scenario *core.BuildScenario) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# Generated by lbs, do not edit. Scenario hash: %016x\n", Hash(scenario))
	bw.WriteString("cmake_minimum_required(VERSION 3.14)\n")
	bw.WriteString("project(lbs-autogen)\n")
	for _, t := range scenario.AllTargets() {
		switch t.Kind {
		case core.Library:
			fmt.Fprintf(bw, "\nadd_library(%s)\n", t.Name)
		case core.Executable:
			fmt.Fprintf(bw, "\nadd_executable(%s)\n", t.Name)
		default:
			log.Warning("Can't export %s to CMake, skipping it", t)
			continue
		}
		writeCMakeCommand(bw, "target_sources", t.Name, "PRIVATE", t.Sources)
		writeCMakeCommand(bw, "target_include_directories", t.Name, "PRIVATE", t.IncludeDirectories)
		writeCMakeCommand(bw, "target_link_libraries", t.Name, "", t.LinkedLibraries)
		writeCMakeCommand(bw, "target_compile_definitions", t.Name, "PRIVATE", t.Defines)
		writeCMakeCommand(bw, "target_compile_options", t.Name, "PRIVATE", t.Flags)
	}
	return bw.Flush()
}

// writeCMakeCommand writes a single command like target_sources(name PRIVATE a b c), or nothing if there are no values.
func writeCMakeCommand(w io.StringWriter, command, name, scope string, values []string) {
	if len(values) == 0 {
		return
	}
	w.WriteString(command + "(" + name)
	if scope != "" {
		w.WriteString(" " + scope)
	}
	w.WriteString(" " + strings.Join(values, " ") + ")\n")
}

// Hash returns a hash of everything in the scenario that's exported.
// It changes whenever the exported output would.
func Hash(scenario *core.BuildScenario) uint64 {
	h := xxhash.New()
	for _, t := range scenario.AllTargets() {
		h.WriteString(t.Name)
		h.WriteString(t.Kind.String())
		h.WriteString(t.Language)
		for _, list := range [][]string{t.Sources, t.IncludeDirectories, t.LinkedLibraries, t.Defines, t.Flags, t.Dependencies()} {
			for _, s := range list {
				h.WriteString(s)
				h.Write([]byte{0})
			}
			h.Write([]byte{1})
		}
		h.Write([]byte{2})
	}
	return h.Sum64()
}
