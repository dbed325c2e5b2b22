// Package parse implements parsing of build descriptions into a BuildScenario.
//
// A build description is a sequence of clauses, each a parenthesised list whose first
// element names an operation, for example:
//
//	(library util)
//	(sources util util.c)
//	(executable main)
//	(dependency main util)
package parse

import (
	"fmt"
	"os"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/please-build/lbs/src/cli"
	"github.com/please-build/lbs/src/cli/logging"
	"github.com/please-build/lbs/src/core"
)

var log = logging.Log

// An operation applies one clause to the scenario.
type operation func(p *parser, clause Token) error

// operations maps the first atom of each clause to what it does.
var operations = map[string]operation{
	"target":              declare,
	"library":             declare,
	"executable":          declare,
	"sources":             appendAttribute(func(t *core.Target) *[]string { return &t.Sources }),
	"include-directories": appendAttribute(func(t *core.Target) *[]string { return &t.IncludeDirectories }),
	"flags":               appendAttribute(func(t *core.Target) *[]string { return &t.Flags }),
	"defines":             appendAttribute(func(t *core.Target) *[]string { return &t.Defines }),
	"language":            setLanguage,
	"command":             addCommand,
	"copy":                addCopy,
	"dependency":          addDependency,
}

// OperationNames returns the names of all the operations a build description can use, sorted.
func OperationNames() []string {
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type parser struct {
	scenario *core.BuildScenario
}

// ParseFile reads the given file and parses it into the scenario.
func ParseFile(scenario *core.BuildScenario, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return Parse(scenario, filename, data)
}

// ParseString parses a build description into a new scenario.
// It's mostly useful for testing.
func ParseString(description string) (*core.BuildScenario, error) {
	scenario := core.NewBuildScenario()
	return scenario, Parse(scenario, "<string>", []byte(description))
}

// Parse parses a build description and adds everything it declares to the given scenario.
//
// A clause that's invalid is skipped and parsing carries on with the next one, so the returned
// error may describe several problems; each is a *Error. Lexical errors (e.g. an unterminated list)
// stop parsing at that point since nothing after them can be trusted.
// Clauses before any error are always applied.
func Parse(scenario *core.BuildScenario, filename string, data []byte) error {
	p := &parser{scenario: scenario}
	l := newLexer(filename, data)
	var errs *multierror.Error
	clauses := 0
	for {
		tok, err := l.Next()
		if err != nil {
			errs = multierror.Append(errs, err)
			break
		} else if tok.Type == EOF {
			break
		}
		clauses++
		if err := p.parseClause(tok); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	log.Debug("Parsed %d clauses from %s", clauses, filename)
	return errs.ErrorOrNil()
}

func (p *parser) parseClause(clause Token) error {
	if clause.Type != List {
		return newError(ErrUnexpectedToken, clause.Pos, clause.Value, "expected a list at top level, got %s %q", clause.Type, clause.Value)
	} else if len(clause.Children) == 0 {
		return newError(ErrMalformed, clause.Pos, "", "empty clause")
	}
	first := clause.Children[0]
	if first.Type != Atom {
		return newError(ErrMalformed, first.Pos, "", "expected the name of an operation, got a %s", first.Type)
	}
	op, present := operations[first.Value]
	if !present {
		return newError(ErrUnknownOperation, first.Pos, first.Value, "unknown operation %s%s", first.Value,
			cli.PrettyPrintSuggestion(first.Value, OperationNames(), cli.DefaultSuggestionDistance))
	}
	return op(p, clause)
}

// declare handles (target|library|executable NAME).
func declare(p *parser, clause Token) error {
	if err := checkLength(clause, 2, 2); err != nil {
		return err
	}
	name, err := atom(clause, 1, "target name")
	if err != nil {
		return err
	}
	kind, _ := core.ParseTargetKind(clause.Children[0].Value)
	if err := p.scenario.AddTarget(core.NewTarget(name, kind)); err != nil {
		return newError(ErrDuplicateTarget, clause.Children[1].Pos, name, "target %s is already declared", name)
	}
	return nil
}

// appendAttribute returns an operation handling (OP TARGET VALUE...) that appends to one attribute
// of a compiled target.
func appendAttribute(attr func(t *core.Target) *[]string) operation {
	return func(p *parser, clause Token) error {
		if err := checkLength(clause, 2, -1); err != nil {
			return err
		}
		target, err := p.compiledTarget(clause, 1)
		if err != nil {
			return err
		}
		values, err := atoms(clause, 2)
		if err != nil {
			return err
		}
		list := attr(target)
		*list = append(*list, values...)
		return nil
	}
}

// setLanguage handles (language TARGET COMPILER).
func setLanguage(p *parser, clause Token) error {
	if err := checkLength(clause, 3, 3); err != nil {
		return err
	}
	target, err := p.compiledTarget(clause, 1)
	if err != nil {
		return err
	}
	language, err := atom(clause, 2, "language")
	if err != nil {
		return err
	}
	target.Language = language
	return nil
}

// addCommand handles (command TARGET PROGRAM ARG...).
func addCommand(p *parser, clause Token) error {
	if err := checkLength(clause, 3, -1); err != nil {
		return err
	}
	target, err := p.target(clause, 1)
	if err != nil {
		return err
	}
	program, err := atom(clause, 2, "program")
	if err != nil {
		return err
	}
	args, err := atoms(clause, 3)
	if err != nil {
		return err
	}
	target.AddRequisite(core.NewCommand(program, args...))
	return nil
}

// addCopy handles (copy TARGET SOURCE DESTINATION).
func addCopy(p *parser, clause Token) error {
	if err := checkLength(clause, 4, 4); err != nil {
		return err
	}
	target, err := p.target(clause, 1)
	if err != nil {
		return err
	}
	values, err := atoms(clause, 2)
	if err != nil {
		return err
	}
	target.AddRequisite(core.NewCopy(values[0], values[1]))
	return nil
}

// addDependency handles (dependency TARGET DEPENDENCY).
func addDependency(p *parser, clause Token) error {
	if err := checkLength(clause, 3, 3); err != nil {
		return err
	}
	target, err := p.target(clause, 1)
	if err != nil {
		return err
	}
	dep, err := p.target(clause, 2)
	if err != nil {
		return err
	}
	target.AddDependency(dep)
	return nil
}

// target returns the existing target named by the i'th element of the clause.
func (p *parser) target(clause Token, i int) (*core.Target, error) {
	name, err := atom(clause, i, "target name")
	if err != nil {
		return nil, err
	}
	if t := p.scenario.Target(name); t != nil {
		return t, nil
	}
	return nil, newError(ErrUnknownTarget, clause.Children[i].Pos, name, "unknown target %s%s", name,
		cli.PrettyPrintSuggestion(name, p.scenario.TargetNames(), cli.DefaultSuggestionDistance))
}

// compiledTarget is like target but also requires it to be a library or executable.
func (p *parser) compiledTarget(clause Token, i int) (*core.Target, error) {
	t, err := p.target(clause, i)
	if err != nil {
		return nil, err
	} else if !t.IsCompiled() {
		return nil, newError(ErrWrongTargetKind, clause.Children[i].Pos, t.Name, "%s can only be used on a library or executable, but %s is a %s", clause.Children[0].Value, t.Name, t.Kind)
	}
	return t, nil
}

// checkLength checks the clause has between min and max elements. A negative max means no limit.
func checkLength(clause Token, min, max int) error {
	n := len(clause.Children)
	op := clause.Children[0].Value
	if n < min {
		return newError(ErrMalformed, clause.Pos, op, "%s needs at least %d arguments, got %d", op, min-1, n-1)
	} else if max >= 0 && n > max {
		return newError(ErrMalformed, clause.Children[max].Pos, op, "%s takes at most %d arguments, got %d", op, max-1, n-1)
	}
	return nil
}

// atom returns the value of the i'th element of the clause, which must be an atom.
func atom(clause Token, i int, what string) (string, error) {
	tok := clause.Children[i]
	if tok.Type != Atom {
		return "", newError(ErrMalformed, tok.Pos, clause.Children[0].Value, "expected %s to be an atom, got a %s", what, tok.Type)
	}
	return tok.Value, nil
}

// atoms returns the values of all elements of the clause from the i'th on, which must all be atoms.
func atoms(clause Token, from int) ([]string, error) {
	ret := make([]string, 0, len(clause.Children)-from)
	for i := from; i < len(clause.Children); i++ {
		value, err := atom(clause, i, fmt.Sprintf("argument %d", i))
		if err != nil {
			return nil, err
		}
		ret = append(ret, value)
	}
	return ret, nil
}
