package emitter

import (
	"fmt"

	"github.com/czar-lang/czar/internal/position"
)

// ErrorKind classifies translation failures
type ErrorKind int

const (
	// ErrLex wraps a fatal lexical error from the tokenizer
	ErrLex ErrorKind = iota
	// ErrAmbiguousReceiver reports a method-shaped call whose receiver
	// type could not be resolved while strict receiver checking is on
	ErrAmbiguousReceiver
	// ErrPragma reports a malformed or unsatisfied `#pragma czar` directive
	ErrPragma
	// ErrIO reports a failed write on the output sink
	ErrIO
)

var errorKindNames = map[ErrorKind]string{
	ErrLex:               "lex",
	ErrAmbiguousReceiver: "ambiguous-receiver",
	ErrPragma:            "pragma",
	ErrIO:                "io",
}

// String returns the kind name
func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// Error is the failure type returned by Translate. Translation halts at
// the first error; nothing is silently swallowed.
type Error struct {
	Kind ErrorKind
	Pos  position.Position
	Msg  string
	Err  error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s error: %s", e.Pos, e.Kind, msg)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, msg)
}

// Unwrap returns the wrapped cause, if any
func (e *Error) Unwrap() error {
	return e.Err
}
