package core

import (
	"fmt"
	"strings"
)

// A Specifier is the character following a % in a compiler template.
type Specifier byte

const (
	// InputSpecifier (%i) expands to the input files.
	InputSpecifier Specifier = 'i'
	// OutputSpecifier (%o) expands to the output file.
	OutputSpecifier Specifier = 'o'
	// FlagsSpecifier (%f) expands to the target's flags.
	FlagsSpecifier Specifier = 'f'
	// DefinesSpecifier (%d) expands to the target's defines.
	DefinesSpecifier Specifier = 'd'
)

// String implements the fmt.Stringer interface.
func (s Specifier) String() string {
	return "%" + string(rune(s))
}

// Substitutions maps each specifier to the text it expands to.
// Missing specifiers expand to nothing.
type Substitutions map[Specifier]string

// Specifiers records which specifiers occurred in a template.
type Specifiers map[Specifier]bool

// A TemplateError is returned when a compiler template contains a specifier we don't know.
// It indicates a misconfigured compiler rather than a broken build description.
type TemplateError struct {
	Template  string
	Specifier byte
	Offset    int
}

// Error implements the builtin error interface.
func (err *TemplateError) Error() string {
	return fmt.Sprintf("unrecognised format specifier %%%c at offset %d in compiler template %q", err.Specifier, err.Offset, err.Template)
}

// ExpandTemplate expands a compiler template, replacing %i, %o, %f and %d with their substitutions.
// A lone % at the end of the template is kept literally; any other specifier is an error.
// It also returns the set of specifiers that the template used.
func ExpandTemplate(format string, subs Substitutions) (string, Specifiers, error) {
	var b strings.Builder
	b.Grow(len(format))
	seen := Specifiers{}
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		} else if i+1 >= len(format) {
			b.WriteByte(c)
			break
		}
		i++
		switch spec := Specifier(format[i]); spec {
		case InputSpecifier, OutputSpecifier, FlagsSpecifier, DefinesSpecifier:
			seen[spec] = true
			b.WriteString(subs[spec])
		default:
			return "", seen, &TemplateError{Template: format, Specifier: format[i], Offset: i - 1}
		}
	}
	return b.String(), seen, nil
}

// ValidateTemplate checks that a template only contains specifiers we recognise.
func ValidateTemplate(format string) error {
	_, _, err := ExpandTemplate(format, nil)
	return err
}
