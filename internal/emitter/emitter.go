// Package emitter implements the CZar translation core: the single-pass
// state machine that consumes a token stream of the surface dialect and
// writes a C translation unit. It rewrites surface types to stable C
// types, method definitions and call sites to free functions with an
// explicit receiver, registers struct names as declarations are emitted,
// generates sink identifiers for `_` declarators, and prepends the
// runtime prelude. Everything it does not recognize is passed through
// verbatim; unknown identifiers are assumed to be plain C.
package emitter

import (
	"bufio"
	"io"

	"github.com/czar-lang/czar/internal/lexer"
	"github.com/czar-lang/czar/internal/registry"
)

// Options configures one translation
type Options struct {
	// Filename is used in diagnostics only
	Filename string
	// Debug compiles sub-INFO log levels into the output (CZ_DEBUG=1)
	Debug bool
	// ToolVersion is checked against `#pragma czar require` directives.
	// Empty disables the check.
	ToolVersion string
	// StrictReceivers makes an unresolvable method receiver a hard
	// error instead of falling through to plain C
	StrictReceivers bool
}

// translation states. Pre lasts until the prelude is written; Top is
// file scope; InBody is inside any braced block. InDecl, InParams and
// AfterDot are transient within a single dispatch.
type state int

const (
	statePre state = iota
	stateTop
	stateInBody
)

// pendingStruct tracks a struct declaration whose closing brace has not
// been seen yet, so the trailing typedef name can be rewritten.
type pendingStruct struct {
	name        string
	depth       int  // brace depth outside the declaration
	typedefForm bool // input already had the typedef keyword
}

// Emitter drives one translation unit. It owns its registry, unused-id
// counter and scope table exclusively; translations running in parallel
// must each construct their own Emitter.
type Emitter struct {
	opts Options

	toks []lexer.Token
	i    int
	w    *bufio.Writer

	reg    *registry.Registry
	unused *UnusedGen
	scopes *scopeTable

	state      state
	braceDepth int
	parenDepth int

	pending     []pendingStruct
	params      map[string]varInfo // declarators seen in a top-level parameter list
	pendingSelf string             // struct whose method body opens next
}

// New creates an emitter with fresh state
func New(opts Options) *Emitter {
	return &Emitter{
		opts:   opts,
		reg:    registry.New(),
		unused: &UnusedGen{},
		scopes: newScopeTable(),
	}
}

// Translate translates one surface translation unit with default options
func Translate(src []byte, out io.Writer, opts Options) error {
	return New(opts).Translate(src, out)
}

// Registry exposes the struct-name registry, primarily for tests and
// for drivers that want to inspect what a unit declared.
func (e *Emitter) Registry() *registry.Registry {
	return e.reg
}

// Reset returns the emitter to its initial state so it can run another
// translation unit without cross-unit contamination.
func (e *Emitter) Reset() {
	e.reg.Reset()
	e.unused.Reset()
	e.scopes.reset()
	e.toks = nil
	e.i = 0
	e.w = nil
	e.state = statePre
	e.braceDepth = 0
	e.parenDepth = 0
	e.pending = nil
	e.params = nil
	e.pendingSelf = ""
}

// Translate consumes src and writes the C translation to out. The
// emitter resets itself first, so repeated calls on the same emitter
// are independent and deterministic. A translation either runs to
// completion or returns the first error; partial output may have been
// written by then.
func (e *Emitter) Translate(src []byte, out io.Writer) error {
	e.Reset()

	// The unit is finite, so the whole token sequence is buffered up
	// front. This gives the rewrite rules their lookahead window and
	// stops at the first lexical error.
	l := lexer.NewWithFilename(string(src), e.opts.Filename)
	for {
		t := l.NextToken()
		if t.Type == lexer.TokenError {
			errs := l.Errors()
			return &Error{Kind: ErrLex, Pos: t.Pos(), Err: errs[len(errs)-1]}
		}
		e.toks = append(e.toks, t)
		if t.Type == lexer.TokenEOF {
			break
		}
	}

	e.w = bufio.NewWriter(out)

	// Pre -> Top: the prelude goes out before any translated token.
	if err := writePrelude(e.w, e.opts.Debug); err != nil {
		return &Error{Kind: ErrIO, Err: err}
	}
	for _, name := range preludeStructs {
		e.reg.Add(name)
	}
	e.state = stateTop

	if err := e.run(); err != nil {
		return err
	}
	if err := e.w.Flush(); err != nil {
		return &Error{Kind: ErrIO, Err: err}
	}
	return nil
}

// run is the token-driven main loop
func (e *Emitter) run() error {
	for e.i < len(e.toks) {
		t := e.toks[e.i]
		switch t.Type {
		case lexer.TokenEOF:
			e.i++

		case lexer.TokenWhitespace, lexer.TokenNewline, lexer.TokenComment:
			e.emit(t.Literal)
			e.i++

		case lexer.TokenKeyword:
			e.keyword(t)

		case lexer.TokenIdentifier:
			if err := e.identifier(t); err != nil {
				return err
			}

		case lexer.TokenPunct:
			if err := e.punct(t); err != nil {
				return err
			}

		default:
			e.emit(t.Literal)
			e.i++
		}
	}
	return nil
}

// emit writes s to the sink. Write errors are sticky in the buffered
// writer and surface at Flush.
func (e *Emitter) emit(s string) {
	e.w.WriteString(s)
}

// keyword dispatches on C keywords. typedef and struct open the struct
// declaration rewrite; everything else passes through.
func (e *Emitter) keyword(t lexer.Token) {
	switch t.Literal {
	case "typedef":
		if e.structDeclTypedef() {
			return
		}
	case "struct":
		if e.structDeclTag() {
			return
		}
	}
	e.emit(t.Literal)
	e.i++
}

// punct handles punctuation, tracking brace and paren depth and closing
// pending struct declarations.
func (e *Emitter) punct(t lexer.Token) error {
	switch t.Literal {
	case "{":
		e.braceDepth++
		e.state = stateInBody
		e.scopes.push()
		e.enterBody()
		e.emit("{")
		e.i++

	case "}":
		e.braceDepth--
		if e.braceDepth <= 0 {
			e.braceDepth = 0
			e.state = stateTop
		}
		e.scopes.pop()
		if p := e.matchPending(); p != nil {
			e.finishStruct(p)
			return nil
		}
		e.emit("}")
		e.i++

	case "(":
		e.parenDepth++
		e.emit("(")
		e.i++

	case ")":
		if e.parenDepth > 0 {
			e.parenDepth--
		}
		e.emit(")")
		e.i++

	case ";":
		if e.state == stateTop {
			// a prototype ended; forget parameter declarators
			e.params = nil
			e.pendingSelf = ""
		}
		e.emit(";")
		e.i++

	case "#":
		return e.hash(t)

	default:
		e.emit(t.Literal)
		e.i++
	}
	return nil
}

// enterBody merges a pending receiver and parameter declarators into
// the scope just pushed for a function body.
func (e *Emitter) enterBody() {
	if e.pendingSelf != "" {
		e.scopes.declare("self", varInfo{structName: e.pendingSelf, pointer: true})
		e.pendingSelf = ""
	}
	for name, vi := range e.params {
		e.scopes.declare(name, vi)
	}
	e.params = nil
}

// matchPending pops and returns the innermost pending struct if its
// closing brace was just consumed.
func (e *Emitter) matchPending() *pendingStruct {
	if len(e.pending) == 0 {
		return nil
	}
	top := e.pending[len(e.pending)-1]
	if top.depth != e.braceDepth {
		return nil
	}
	e.pending = e.pending[:len(e.pending)-1]
	return &top
}

// --- lookahead helpers ---

func isTrivia(t lexer.Token) bool {
	switch t.Type {
	case lexer.TokenWhitespace, lexer.TokenNewline, lexer.TokenComment:
		return true
	}
	return false
}

// sigIdx returns the index of the nth significant token at or after
// from (n=0 is the first). Returns the EOF index when the stream ends.
func (e *Emitter) sigIdx(from, n int) int {
	last := len(e.toks) - 1
	for i := from; i <= last; i++ {
		if isTrivia(e.toks[i]) {
			continue
		}
		if n == 0 {
			return i
		}
		n--
	}
	return last
}

// sig returns the nth significant token at or after from
func (e *Emitter) sig(from, n int) lexer.Token {
	return e.toks[e.sigIdx(from, n)]
}

// prevSig returns the significant token before the current one, or a
// zero token at the start of input.
func (e *Emitter) prevSig() lexer.Token {
	for i := e.i - 1; i >= 0; i-- {
		if !isTrivia(e.toks[i]) {
			return e.toks[i]
		}
	}
	return lexer.Token{Type: lexer.TokenEOF}
}

// copyTrivia emits whitespace and comments up to the next significant
// token.
func (e *Emitter) copyTrivia() {
	for e.i < len(e.toks) && isTrivia(e.toks[e.i]) {
		e.emit(e.toks[e.i].Literal)
		e.i++
	}
}

// skipTrivia drops whitespace and comments up to the next significant
// token. Used inside multi-token rewrites where the original spacing
// has no home in the rewritten form.
func (e *Emitter) skipTrivia() {
	for e.i < len(e.toks) && isTrivia(e.toks[e.i]) {
		e.i++
	}
}
