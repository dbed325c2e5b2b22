package parse

import (
	"errors"
	"fmt"

	"github.com/please-build/lbs/src/core"
)

// These identify what went wrong with a build description. Use errors.Is to check for them.
var (
	ErrUnterminatedList   = errors.New("unterminated list")
	ErrUnterminatedString = errors.New("unterminated string")
	ErrUnexpectedToken    = errors.New("unexpected token")
	ErrUnknownOperation   = errors.New("unknown operation")
	ErrUnknownTarget      = errors.New("unknown target")
	ErrWrongTargetKind    = errors.New("wrong kind of target")
	ErrMalformed          = errors.New("malformed clause")
	// ErrDuplicateTarget is the same value as core.ErrDuplicateTarget.
	ErrDuplicateTarget = core.ErrDuplicateTarget
)

// An Error describes a single problem with a build description.
type Error struct {
	// One of the Err* values above.
	Kind error
	// Where in the description the problem was found.
	Pos Position
	// The target or operation concerned, if there is one.
	Name    string
	Message string
}

// Error implements the builtin error interface.
func (err *Error) Error() string {
	return fmt.Sprintf("%s: %s", err.Pos, err.Message)
}

// Unwrap returns the kind of this error so errors.Is works against it.
func (err *Error) Unwrap() error {
	return err.Kind
}

func newError(kind error, pos Position, name, message string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Pos:     pos,
		Name:    name,
		Message: fmt.Sprintf(message, args...),
	}
}

// fail panics on lex errors. These always end lexing of the file, so they're recovered at the top level.
func fail(kind error, pos Position, name, message string, args ...interface{}) {
	panic(newError(kind, pos, name, message, args...))
}
