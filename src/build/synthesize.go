// Package build houses the core functionality for turning targets into the commands that build them.
package build

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/please-build/lbs/src/cli"
	"github.com/please-build/lbs/src/cli/logging"
	"github.com/please-build/lbs/src/core"
)

var log = logging.Log

// ErrUnknownTarget is returned when asked to build a target that doesn't exist.
var ErrUnknownTarget = errors.New("unknown target")

// ErrUnknownCompiler is returned when a target needs a compiler that doesn't exist.
var ErrUnknownCompiler = errors.New("unknown compiler")

// ErrNoDefaultTarget is returned when there isn't a single obvious target to build.
var ErrNoDefaultTarget = errors.New("no default target")

// Synthesize returns the commands needed to build the named target and everything it depends on.
// Targets that have already been built in this State are skipped, so each one is built at most once
// per pass however many times it's reached.
// language names the compiler to use for any target that doesn't choose its own.
// On error the returned Commands are empty and nothing reached during the call stays marked as built,
// so any of those targets can still be requested on their own later in the same pass.
func Synthesize(state *State, graph *core.BuildScenario, name, language string) (*Commands, error) {
	if chain := state.cycle(name); chain != nil {
		return &Commands{}, &CycleError{Chain: chain}
	} else if state.IsBuilt(name) {
		log.Debug("%s is already built, skipping", name)
		return &Commands{}, nil
	}
	target := graph.Target(name)
	if target == nil {
		return &Commands{}, fmt.Errorf("%w %s%s", ErrUnknownTarget, name, cli.PrettyPrintSuggestion(name, graph.TargetNames(), cli.DefaultSuggestionDistance))
	}
	mark := state.mark()
	state.markBuilt(name)
	state.push(name)
	defer state.pop()
	cmds, err := synthesizeTarget(state, graph, target, language)
	if err != nil {
		state.rollback(mark)
		return &Commands{}, err
	}
	return cmds, nil
}

// synthesizeTarget returns the commands for a single target, recursing into its dependencies.
func synthesizeTarget(state *State, graph *core.BuildScenario, target *core.Target, language string) (*Commands, error) {
	compilerName := target.Language
	if compilerName == "" {
		compilerName = language
	}
	compiler := graph.Compiler(compilerName)
	if compiler == nil {
		return nil, fmt.Errorf("%w %s for %s%s", ErrUnknownCompiler, compilerName, target, cli.PrettyPrintSuggestion(compilerName, graph.CompilerNames(), cli.DefaultSuggestionDistance))
	}

	cmds := &Commands{}
	for _, r := range target.Requisites {
		switch r.Kind {
		case core.CommandRequisite:
			cmds.Add(r.String())
		case core.CopyRequisite:
			cmds.Add("cp "+r.Text+" "+r.Destination, r.Destination)
		case core.DependencyRequisite:
			dep, err := Synthesize(state, graph, r.Text, language)
			if err != nil {
				return nil, err
			}
			cmds.Extend(dep)
		}
	}

	if !target.IsCompiled() {
		return cmds, nil
	}
	output := target.OutputName(state.GOOS)
	cmd, err := compileCommand(target, compiler, output)
	if err != nil {
		return nil, err
	}
	cmds.Add(cmd, output)
	return cmds, nil
}

// compileCommand returns the command that archives or links a single target.
func compileCommand(target *core.Target, compiler *core.Compiler, output string) (string, error) {
	tmpl, _ := compiler.TemplateFor(target.Kind)
	cmd, seen, err := core.ExpandTemplate(tmpl, core.Substitutions{
		core.InputSpecifier:   strings.Join(target.Sources, " "),
		core.OutputSpecifier:  output,
		core.FlagsSpecifier:   strings.Join(target.Flags, " "),
		core.DefinesSpecifier: strings.Join(target.Defines, " "),
	})
	if err != nil {
		return "", fmt.Errorf("building %s: %w", target, err)
	}
	warnMissingSpecifiers(target, compiler, seen)
	var b strings.Builder
	b.WriteString(cmd)
	for _, dir := range target.IncludeDirectories {
		b.WriteString(" -I")
		b.WriteString(dir)
	}
	if target.Kind == core.Executable {
		for _, lib := range target.LinkedLibraries {
			b.WriteString(" ")
			b.WriteString(lib)
		}
	}
	return b.String(), nil
}

// warnMissingSpecifiers logs a warning for each specifier the template should have used but didn't.
// Archivers don't take flags or defines so we only expect inputs and outputs for them.
func warnMissingSpecifiers(target *core.Target, compiler *core.Compiler, seen core.Specifiers) {
	expected := []core.Specifier{core.InputSpecifier, core.OutputSpecifier, core.FlagsSpecifier, core.DefinesSpecifier}
	if target.Kind == core.Library {
		expected = expected[:2]
	}
	for _, spec := range expected {
		if !seen[spec] {
			log.Warning("The %s template of compiler %s doesn't use %s; %s may not build as expected", target.Kind, compiler.Name, spec, target.Name)
		}
	}
}

// SynthesizeAll returns the commands to build all the named targets in one pass.
// A target that fails doesn't stop the others; all the errors are returned together.
func SynthesizeAll(state *State, graph *core.BuildScenario, names []string, language string) (*Commands, error) {
	cmds := &Commands{}
	var errs *multierror.Error
	for _, name := range names {
		c, err := Synthesize(state, graph, name, language)
		if err != nil {
			log.Debug("Failed to synthesize %s: %s", name, err)
			errs = multierror.Append(errs, err)
			continue
		}
		cmds.Extend(c)
	}
	return cmds, errs.ErrorOrNil()
}

// DefaultTarget returns the target to build when none is requested, which is the only executable.
func DefaultTarget(graph *core.BuildScenario) (string, error) {
	var executables []string
	for _, t := range graph.AllTargets() {
		if t.Kind == core.Executable {
			executables = append(executables, t.Name)
		}
	}
	if len(executables) == 0 {
		return "", fmt.Errorf("%w: there are no executables, you'll need to name a target to build", ErrNoDefaultTarget)
	} else if len(executables) > 1 {
		return "", fmt.Errorf("%w: there are several executables, you'll need to name one of %s", ErrNoDefaultTarget, strings.Join(executables, ", "))
	}
	return executables[0], nil
}
