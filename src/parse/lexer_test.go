package parse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, s string) []Token {
	l := newLexer("test.lbs", []byte(s))
	var toks []Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		if tok.Type == EOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func lexError(s string) *Error {
	l := newLexer("test.lbs", []byte(s))
	for {
		tok, err := l.Next()
		if err != nil {
			var e *Error
			if errors.As(err, &e) {
				return e
			}
			return nil
		} else if tok.Type == EOF {
			return nil
		}
	}
}

func TestLexEmpty(t *testing.T) {
	assert.Empty(t, lexAll(t, ""))
	assert.Empty(t, lexAll(t, "   \n\t  "))
	assert.Empty(t, lexAll(t, "; just a comment"))
}

func TestLexAtoms(t *testing.T) {
	toks := lexAll(t, "hello World 123")
	require.Len(t, toks, 3)
	assert.Equal(t, Atom, toks[0].Type)
	assert.Equal(t, "hello", toks[0].Value)
	assert.Equal(t, "World", toks[1].Value, "case is preserved")
	assert.Equal(t, "123", toks[2].Value, "digits are just atoms")
}

func TestLexList(t *testing.T) {
	toks := lexAll(t, "(sources main main.c util.c)")
	require.Len(t, toks, 1)
	assert.Equal(t, List, toks[0].Type)
	require.Len(t, toks[0].Children, 4)
	assert.Equal(t, "sources", toks[0].Children[0].Value)
	assert.Equal(t, "util.c", toks[0].Children[3].Value)
}

func TestLexNestedList(t *testing.T) {
	toks := lexAll(t, "(a (b c) ())")
	require.Len(t, toks, 1)
	assert.Equal(t, "(a (b c) ())", toks[0].String())
	require.Len(t, toks[0].Children, 3)
	assert.Equal(t, List, toks[0].Children[1].Type)
	assert.Empty(t, toks[0].Children[2].Children)
}

func TestLexAtomsEndAtDelimiters(t *testing.T) {
	toks := lexAll(t, `(a(b)c"d"e;comment
f)`)
	require.Len(t, toks, 1)
	children := toks[0].Children
	require.Len(t, children, 6)
	assert.Equal(t, "a", children[0].Value)
	assert.Equal(t, List, children[1].Type)
	assert.Equal(t, "c", children[2].Value)
	assert.Equal(t, "d", children[3].Value)
	assert.Equal(t, "e", children[4].Value)
	assert.Equal(t, "f", children[5].Value)
}

func TestLexQuotedString(t *testing.T) {
	toks := lexAll(t, `"hello (world) ; not a comment \n"`)
	require.Len(t, toks, 1)
	assert.Equal(t, Atom, toks[0].Type)
	assert.Equal(t, `hello (world) ; not a comment \n`, toks[0].Value, "strings are verbatim")
}

func TestLexEmptyQuotedString(t *testing.T) {
	toks := lexAll(t, `""`)
	require.Len(t, toks, 1)
	assert.Equal(t, "", toks[0].Value)
}

func TestLexComments(t *testing.T) {
	toks := lexAll(t, "; first\n  ; second\n(a) ; trailing\n; last")
	require.Len(t, toks, 1)
	assert.Equal(t, "(a)", toks[0].String())
}

func TestLexPositions(t *testing.T) {
	toks := lexAll(t, "(a)\n  (bc\n d)")
	require.Len(t, toks, 2)
	assert.Equal(t, Position{Filename: "test.lbs", Offset: 1, Line: 1, Column: 1}, toks[0].Pos)
	assert.Equal(t, Position{Filename: "test.lbs", Offset: 7, Line: 2, Column: 3}, toks[1].Pos)
	assert.Equal(t, 3, toks[1].Children[1].Pos.Line)
	assert.Equal(t, 2, toks[1].Children[1].Pos.Column)
	assert.Equal(t, "test.lbs:2:3", toks[1].Pos.String())
}

func TestLexUnterminatedList(t *testing.T) {
	err := lexError("(a b\n(c)")
	require.NotNil(t, err)
	assert.ErrorIs(t, err, ErrUnterminatedList)
	assert.Equal(t, 1, err.Pos.Line)
	assert.Equal(t, 1, err.Pos.Column)
}

func TestLexUnterminatedString(t *testing.T) {
	err := lexError(`(a "bc)`)
	require.NotNil(t, err)
	assert.ErrorIs(t, err, ErrUnterminatedString)
	assert.Equal(t, 4, err.Pos.Column)
}

func TestLexUnexpectedClose(t *testing.T) {
	err := lexError("(a))")
	require.NotNil(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedToken)
	assert.Equal(t, 4, err.Pos.Column)
}
