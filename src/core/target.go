package core

import (
	"fmt"
	"io"
	"strings"
)

// A TargetKind describes what a target produces.
type TargetKind int

const (
	// Generic targets exist only to group requisites; they never invoke a compiler.
	Generic TargetKind = iota
	// Library targets are archived into a static library.
	Library
	// Executable targets are linked into a binary.
	Executable
)

// String implements the fmt.Stringer interface.
// The result is the keyword used to declare a target of this kind.
func (k TargetKind) String() string {
	switch k {
	case Generic:
		return "target"
	case Library:
		return "library"
	case Executable:
		return "executable"
	}
	return "unknown"
}

// ParseTargetKind returns the kind declared by the given keyword.
func ParseTargetKind(keyword string) (TargetKind, bool) {
	switch keyword {
	case "target":
		return Generic, true
	case "library":
		return Library, true
	case "executable":
		return Executable, true
	}
	return Generic, false
}

// MarshalText implements the encoding.TextMarshaler interface.
func (k TargetKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// A RequisiteKind identifies one of the things a target can require before it's built.
type RequisiteKind int

const (
	// CommandRequisite runs a literal shell command.
	CommandRequisite RequisiteKind = iota
	// CopyRequisite copies a file; the destination becomes a build artifact.
	CopyRequisite
	// DependencyRequisite builds another target first.
	DependencyRequisite
)

// String implements the fmt.Stringer interface.
func (k RequisiteKind) String() string {
	switch k {
	case CommandRequisite:
		return "command"
	case CopyRequisite:
		return "copy"
	case DependencyRequisite:
		return "dependency"
	}
	return "unknown"
}

// A Requisite is something that must happen before a target's own build step.
//
// Text holds the program for a command, the source for a copy and the target name for a dependency.
type Requisite struct {
	Kind        RequisiteKind
	Text        string
	Arguments   []string
	Destination string
}

// NewCommand returns a requisite that runs the given program with the given arguments.
func NewCommand(program string, args ...string) Requisite {
	return Requisite{Kind: CommandRequisite, Text: program, Arguments: args}
}

// NewCopy returns a requisite that copies source to destination.
func NewCopy(source, destination string) Requisite {
	return Requisite{Kind: CopyRequisite, Text: source, Destination: destination}
}

// NewDependency returns a requisite that builds the named target first.
func NewDependency(target string) Requisite {
	return Requisite{Kind: DependencyRequisite, Text: target}
}

// String implements the fmt.Stringer interface.
func (r Requisite) String() string {
	switch r.Kind {
	case DependencyRequisite:
		return "build dependency " + r.Text
	case CopyRequisite:
		return "copy " + r.Text + " " + r.Destination
	}
	return strings.Join(append([]string{r.Text}, r.Arguments...), " ")
}

// A Target is a named build unit and everything we know about how to build it.
// The order of every slice is significant since it determines command line argument order.
type Target struct {
	// Unique name of this target within its scenario.
	Name string
	// What the target produces. This never changes after the target is declared.
	Kind TargetKind
	// Name of the compiler to use. Empty means whatever the caller picks.
	Language string
	// Source files, passed to the compiler as %i.
	Sources []string
	// Directories to add with -I.
	IncludeDirectories []string
	// Libraries to link with, populated by dependencies on library targets.
	LinkedLibraries []string
	// Compiler flags, passed as %f.
	Flags []string
	// Preprocessor definitions, passed as %d.
	Defines []string
	// Things to do before this target's own build step, in declaration order.
	Requisites []Requisite
}

// NewTarget creates a new target with no attributes set.
func NewTarget(name string, kind TargetKind) *Target {
	return &Target{Name: name, Kind: kind}
}

// IsCompiled returns true if this target invokes a compiler, i.e. it's a library or an executable.
func (t *Target) IsCompiled() bool {
	return t.Kind == Library || t.Kind == Executable
}

// AddRequisite adds a new requisite to the end of this target's list.
func (t *Target) AddRequisite(r Requisite) {
	t.Requisites = append(t.Requisites, r)
}

// AddDependency records that this target depends on another one.
// Dependencies on libraries also link against them.
func (t *Target) AddDependency(dep *Target) {
	t.AddRequisite(NewDependency(dep.Name))
	if dep.Kind == Library {
		t.LinkedLibraries = append(t.LinkedLibraries, dep.Name)
	}
}

// Dependencies returns the names of all targets this one depends on, in declaration order.
func (t *Target) Dependencies() []string {
	var deps []string
	for _, r := range t.Requisites {
		if r.Kind == DependencyRequisite {
			deps = append(deps, r.Text)
		}
	}
	return deps
}

// OutputName returns the file name this target produces when built for the given OS.
// Executables get an .exe suffix on Windows; everything else is just the target name.
func (t *Target) OutputName(goos string) string {
	if t.Kind == Executable && goos == "windows" {
		return t.Name + ".exe"
	}
	return t.Name
}

// String implements the fmt.Stringer interface.
func (t *Target) String() string {
	return t.Kind.String() + " " + t.Name
}

// Print writes a human-readable description of this target.
func (t *Target) Print(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", strings.ToUpper(t.Kind.String()), t.Name)
	if t.Language != "" {
		fmt.Fprintf(w, "Language: %s\n", t.Language)
	}
	printList(w, "Sources", t.Sources)
	printList(w, "Include Directories", t.IncludeDirectories)
	printList(w, "Linked Libraries", t.LinkedLibraries)
	printList(w, "Flags", t.Flags)
	printList(w, "Defines", t.Defines)
	if len(t.Requisites) > 0 {
		fmt.Fprintf(w, "Requisites:\n")
		for _, r := range t.Requisites {
			fmt.Fprintf(w, "- %s\n", r)
		}
	}
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "- %s\n", item)
	}
}
