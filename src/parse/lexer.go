package parse

import (
	"fmt"
	"strings"
)

// A TokenType identifies the kind of a Token.
type TokenType int

const (
	// EOF marks the end of the input.
	EOF TokenType = iota
	// Atom is a bare word or a quoted string.
	Atom
	// List is a parenthesised sequence of tokens.
	List
)

// String implements the fmt.Stringer interface.
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "end of file"
	case Atom:
		return "atom"
	case List:
		return "list"
	}
	return "unknown"
}

const (
	listOpen     = '('
	listClose    = ')'
	quote        = '"'
	commentStart = ';'
)

// A Token describes each individual lexical element emitted by the lexer.
type Token struct {
	Type TokenType
	// The text of an atom. Quoted atoms don't include their quotes.
	Value string
	// The children of a list.
	Children []Token
	// Where the token started.
	Pos Position
}

// String implements the fmt.Stringer interface.
func (tok Token) String() string {
	switch tok.Type {
	case Atom:
		return tok.Value
	case List:
		children := make([]string, len(tok.Children))
		for i, child := range tok.Children {
			children[i] = child.String()
		}
		return "(" + strings.Join(children, " ") + ")"
	}
	return tok.Type.String()
}

// A Position describes a position in a source file.
// Line and Column are 1-indexed.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

// String implements the fmt.Stringer interface.
func (pos Position) String() string {
	return fmt.Sprintf("%s:%d:%d", pos.Filename, pos.Line, pos.Column)
}

// A lex is a lexer for a single build description.
type lex struct {
	b        []byte
	i        int
	line     int
	col      int
	filename string
}

// newLexer creates a new lex instance over the given input.
func newLexer(filename string, b []byte) *lex {
	return &lex{b: b, filename: filename}
}

// Next consumes and returns the next top-level token.
// Errors are unrecoverable; the lexer shouldn't be used again after one is returned.
func (l *lex) Next() (tok Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			err = e
		}
	}()
	return l.nextToken(), nil
}

func (l *lex) pos() Position {
	return Position{
		Filename: l.filename,
		// These are all 1-indexed for niceness.
		Offset: l.i + 1,
		Line:   l.line + 1,
		Column: l.col + 1,
	}
}

// peek returns the next byte, or 0 at the end of the input.
func (l *lex) peek() byte {
	if l.i >= len(l.b) {
		return 0
	}
	return l.b[l.i]
}

func (l *lex) atEnd() bool {
	return l.i >= len(l.b)
}

// advance consumes one byte, keeping track of lines and columns.
func (l *lex) advance() byte {
	c := l.b[l.i]
	l.i++
	if c == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return c
}

// skip consumes whitespace and comments until neither makes progress.
func (l *lex) skip() {
	for !l.atEnd() {
		if c := l.peek(); isSpace(c) {
			l.advance()
		} else if c == commentStart {
			for !l.atEnd() && l.peek() != '\n' {
				l.advance()
			}
		} else {
			return
		}
	}
}

// nextToken consumes and returns the next token.
func (l *lex) nextToken() Token {
	l.skip()
	pos := l.pos()
	if l.atEnd() {
		return Token{Type: EOF, Pos: pos}
	}
	switch l.peek() {
	case listOpen:
		l.advance()
		return l.consumeList(pos)
	case listClose:
		fail(ErrUnexpectedToken, pos, "", "unexpected %c with no list to close", listClose)
	case quote:
		l.advance()
		return l.consumeString(pos)
	}
	return l.consumeAtom(pos)
}

// consumeList consumes child tokens until the matching close delimiter.
func (l *lex) consumeList(pos Position) Token {
	tok := Token{Type: List, Pos: pos}
	for {
		l.skip()
		if l.atEnd() {
			fail(ErrUnterminatedList, pos, "", "unterminated list")
		} else if l.peek() == listClose {
			l.advance()
			return tok
		}
		tok.Children = append(tok.Children, l.nextToken())
	}
}

// consumeString consumes everything up to the closing quote verbatim.
func (l *lex) consumeString(pos Position) Token {
	start := l.i
	for !l.atEnd() {
		if l.peek() == quote {
			s := string(l.b[start:l.i])
			l.advance()
			return Token{Type: Atom, Value: s, Pos: pos}
		}
		l.advance()
	}
	fail(ErrUnterminatedString, pos, "", "unterminated string")
	panic("unreachable")
}

// consumeAtom consumes characters until whitespace or a delimiter.
func (l *lex) consumeAtom(pos Position) Token {
	start := l.i
	for !l.atEnd() && !isSpace(l.peek()) && !isDelimiter(l.peek()) {
		l.advance()
	}
	return Token{Type: Atom, Value: string(l.b[start:l.i]), Pos: pos}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDelimiter(c byte) bool {
	return c == listOpen || c == listClose || c == quote || c == commentStart
}
