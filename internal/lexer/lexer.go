// Package lexer implements the CZar lexical analyzer.
// The surface dialect is lexically plain C: no new punctuation, and the
// reserved word `self` is tokenized as an ordinary identifier (the emitter,
// not the lexer, gives it meaning). Whitespace and comments are preserved
// as distinct tokens so the emitted C keeps usable line numbers.
package lexer

import (
	"fmt"
	"strings"

	"github.com/czar-lang/czar/internal/position"
)

// TokenType represents the type of a token
type TokenType int

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// Token types - トークン定義
const (
	// 特殊トークン
	TokenEOF TokenType = iota
	TokenError
	TokenNewline
	TokenWhitespace
	TokenComment

	// リテラル
	TokenIdentifier
	TokenKeyword
	TokenNumber
	TokenString
	TokenChar

	// 記号 (the full C punctuator set shares one kind; the raw
	// spelling lives in Literal)
	TokenPunct
)

// tokenNames provides string representations for token types
var tokenNames = map[TokenType]string{
	TokenEOF:        "EOF",
	TokenError:      "ERROR",
	TokenNewline:    "NEWLINE",
	TokenWhitespace: "WHITESPACE",
	TokenComment:    "COMMENT",

	TokenIdentifier: "IDENTIFIER",
	TokenKeyword:    "KEYWORD",
	TokenNumber:     "NUMBER",
	TokenString:     "STRING",
	TokenChar:       "CHAR",

	TokenPunct: "PUNCT",
}

// keywords maps C keywords to the keyword token type. The surface dialect
// adds no keywords of its own; `self` is deliberately absent.
var keywords = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true,
	"const": true, "continue": true, "default": true, "do": true,
	"double": true, "else": true, "enum": true, "extern": true,
	"float": true, "for": true, "goto": true, "if": true,
	"inline": true, "int": true, "long": true, "register": true,
	"restrict": true, "return": true, "short": true, "signed": true,
	"sizeof": true, "static": true, "struct": true, "switch": true,
	"typedef": true, "union": true, "unsigned": true, "void": true,
	"volatile": true, "while": true,
	"_Alignas": true, "_Alignof": true, "_Atomic": true, "_Bool": true,
	"_Generic": true, "_Noreturn": true, "_Static_assert": true,
	"_Thread_local": true,
}

// multi-character punctuators, longest first (maximal munch)
var punct3 = []string{"<<=", ">>=", "..."}

var punct2 = []string{
	"->", "++", "--", "<<", ">>", "<=", ">=", "==", "!=",
	"&&", "||", "+=", "-=", "*=", "/=", "%=", "&=", "^=", "|=", "##",
}

// Token represents a lexical token with position information
type Token struct {
	Type    TokenType
	Literal string // raw source slice, quotes and delimiters included
	Span    position.Span
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %q, Pos: %s}",
		t.Type, t.Literal, t.Span.Start)
}

// Pos returns the starting position of the token
func (t Token) Pos() position.Position {
	return t.Span.Start
}

// LexError describes a fatal lexical error
type LexError struct {
	Offset int
	Line   int
	Column int
	Reason string
}

// Error implements the error interface
func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at offset %d (%d:%d): %s", e.Offset, e.Line, e.Column, e.Reason)
}

// Lexer represents the lexical analyzer. One lexer consumes one input
// buffer and is not restartable.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int  // current line number
	column       int  // current column number

	filename string      // source filename for error reporting
	errors   []*LexError // accumulated lexical errors
}

// New creates a new lexer instance
func New(input string) *Lexer {
	return NewWithFilename(input, "")
}

// NewWithFilename creates a new lexer instance with filename for error reporting
func NewWithFilename(input, filename string) *Lexer {
	l := &Lexer{
		input:    input,
		line:     1,
		column:   0,
		filename: filename,
	}
	l.readChar()
	return l
}

// Errors returns the lexical errors accumulated so far
func (l *Lexer) Errors() []*LexError {
	return l.errors
}

// readChar reads the next character and advances position
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0 // NUL represents EOF
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++

	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// pos captures the current position
func (l *Lexer) pos() position.Position {
	return position.Position{
		Filename: l.filename,
		Line:     l.line,
		Column:   l.column,
		Offset:   l.position,
	}
}

// NextToken scans and returns the next token
func (l *Lexer) NextToken() Token {
	start := l.pos()

	switch {
	case l.ch == 0:
		if l.position >= len(l.input) {
			return l.makeToken(TokenEOF, start)
		}
		// an embedded NUL is not valid source
		return l.errorToken(start, "illegal NUL byte")

	case l.ch == '\n':
		l.readChar()
		return l.makeToken(TokenNewline, start)

	case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\v' || l.ch == '\f':
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\v' || l.ch == '\f' {
			l.readChar()
		}
		return l.makeToken(TokenWhitespace, start)

	case l.ch == '/' && l.peekChar() == '/':
		for l.ch != 0 && l.ch != '\n' {
			l.readChar()
		}
		return l.makeToken(TokenComment, start)

	case l.ch == '/' && l.peekChar() == '*':
		return l.readBlockComment(start)

	case l.ch == '"':
		return l.readString(start)

	case l.ch == '\'':
		return l.readCharLit(start)

	case isLetter(l.ch):
		return l.readIdentifier(start)

	case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())):
		return l.readNumber(start)

	default:
		return l.readPunct(start)
	}
}

// makeToken builds a token spanning from start to the current position
func (l *Lexer) makeToken(tt TokenType, start position.Position) Token {
	end := l.pos()
	return Token{
		Type:    tt,
		Literal: l.input[start.Offset:l.position],
		Span:    position.NewSpan(start, end),
	}
}

// errorToken records a lexical error and returns an error token.
// Lexical errors are fatal to the translation; the emitter stops at
// the first error token it sees.
func (l *Lexer) errorToken(start position.Position, reason string) Token {
	err := &LexError{
		Offset: start.Offset,
		Line:   start.Line,
		Column: start.Column,
		Reason: reason,
	}
	l.errors = append(l.errors, err)
	if l.ch != 0 {
		l.readChar()
	}
	tok := l.makeToken(TokenError, start)
	tok.Literal = reason
	return tok
}

func (l *Lexer) readBlockComment(start position.Position) Token {
	l.readChar() // consume '/'
	l.readChar() // consume '*'
	for {
		if l.ch == 0 {
			return l.errorToken(start, "unterminated block comment")
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return l.makeToken(TokenComment, start)
		}
		l.readChar()
	}
}

func (l *Lexer) readString(start position.Position) Token {
	l.readChar() // consume opening quote
	for {
		switch l.ch {
		case '"':
			l.readChar()
			return l.makeToken(TokenString, start)
		case '\\':
			l.readChar()
			if l.ch == 0 {
				return l.errorToken(start, "unterminated string literal")
			}
			l.readChar()
		case 0, '\n':
			return l.errorToken(start, "unterminated string literal")
		default:
			l.readChar()
		}
	}
}

func (l *Lexer) readCharLit(start position.Position) Token {
	l.readChar() // consume opening quote
	for {
		switch l.ch {
		case '\'':
			l.readChar()
			return l.makeToken(TokenChar, start)
		case '\\':
			l.readChar()
			if l.ch == 0 {
				return l.errorToken(start, "unterminated character literal")
			}
			l.readChar()
		case 0, '\n':
			return l.errorToken(start, "unterminated character literal")
		default:
			l.readChar()
		}
	}
}

func (l *Lexer) readIdentifier(start position.Position) Token {
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	tok := l.makeToken(TokenIdentifier, start)
	if keywords[tok.Literal] {
		tok.Type = TokenKeyword
	}
	return tok
}

// readNumber scans a C numeric literal. The translator never interprets
// the value, so the scan is permissive: digits, hex or binary prefixes,
// a decimal point, exponents with an optional sign, and alphanumeric
// suffixes are all swallowed into one token.
func (l *Lexer) readNumber(start position.Position) Token {
	for {
		switch {
		case isDigit(l.ch) || isLetter(l.ch) || l.ch == '.':
			l.readChar()
		case (l.ch == '+' || l.ch == '-') && isExponent(l.input[l.position-1]):
			l.readChar()
		default:
			return l.makeToken(TokenNumber, start)
		}
	}
}

func (l *Lexer) readPunct(start position.Position) Token {
	rest := l.input[l.position:]
	for _, op := range punct3 {
		if strings.HasPrefix(rest, op) {
			l.readChar()
			l.readChar()
			l.readChar()
			return l.makeToken(TokenPunct, start)
		}
	}
	for _, op := range punct2 {
		if strings.HasPrefix(rest, op) {
			l.readChar()
			l.readChar()
			return l.makeToken(TokenPunct, start)
		}
	}
	switch l.ch {
	case '(', ')', '[', ']', '{', '}', ';', ',', '.', ':', '?', '~',
		'!', '#', '%', '^', '&', '*', '-', '+', '=', '<', '>', '|', '/', '\\':
		l.readChar()
		return l.makeToken(TokenPunct, start)
	}
	return l.errorToken(start, fmt.Sprintf("illegal byte %#x", l.ch))
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// isExponent reports whether the previous byte of a numeric literal
// permits a signed exponent to follow (1e+9, 0x1p-3)
func isExponent(prev byte) bool {
	return prev == 'e' || prev == 'E' || prev == 'p' || prev == 'P'
}
