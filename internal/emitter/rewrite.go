package emitter

import (
	"fmt"

	semver "github.com/Masterminds/semver/v3"

	"github.com/czar-lang/czar/internal/lexer"
	"github.com/czar-lang/czar/internal/registry"
	"github.com/czar-lang/czar/internal/tables"
)

// identifier applies the per-token rewrite rules, in order: member
// names after `.`/`->` are untouchable; `_` becomes a sink identifier;
// `Ident . Ident (` is the AfterDot decision between method definition
// and method call; pointer receivers turn member `.` into `->`; then
// the closed tables and the struct-name registry get their probe. On
// total miss the identifier passes through verbatim.
func (e *Emitter) identifier(t lexer.Token) error {
	prev := e.prevSig()

	// a member or tag name is never rewritten
	if prev.Type == lexer.TokenPunct && (prev.Literal == "." || prev.Literal == "->") {
		e.emit(t.Literal)
		e.i++
		return nil
	}
	if prev.Type == lexer.TokenKeyword &&
		(prev.Literal == "struct" || prev.Literal == "enum" || prev.Literal == "union") {
		e.emit(t.Literal)
		e.i++
		return nil
	}

	if t.Literal == "_" {
		e.emit(e.unused.Next())
		e.i++
		return nil
	}

	s1 := e.sig(e.i+1, 0)
	s2 := e.sig(e.i+1, 1)
	s3 := e.sig(e.i+1, 2)

	// AfterDot: Ident "." Ident "(" is method syntax
	if s1.Type == lexer.TokenPunct && s1.Literal == "." &&
		s2.Type == lexer.TokenIdentifier &&
		s3.Type == lexer.TokenPunct && s3.Literal == "(" {
		if e.isMethodDefStart(prev) {
			e.methodDef(t, s2)
			return nil
		}
		return e.methodCall(t, s2)
	}

	// pointer receiver member access: `self.x` reads through a pointer
	// in the rewritten form, so `.` must become `->`
	if s1.Type == lexer.TokenPunct && s1.Literal == "." && s2.Type == lexer.TokenIdentifier {
		if vi, ok := e.scopes.lookup(t.Literal); ok && vi.pointer {
			e.emit(t.Literal)
			e.i++
			e.copyTrivia()
			e.emit("->")
			e.i++ // past "."
			return nil
		}
	}

	// closed tables; the reserved set beats the registry
	if c, ok := tables.LookupType(t.Literal); ok {
		e.emit(c)
		e.i++
		return nil
	}
	if c, ok := tables.LookupConstant(t.Literal); ok {
		e.emit(c)
		e.i++
		return nil
	}

	// registered struct name in type position
	if td, ok := e.reg.Typedef(t.Literal); ok && e.isTypePosition(s1) {
		e.recordDecl(t.Literal)
		e.emit(td)
		e.i++
		return nil
	}

	e.emit(t.Literal)
	e.i++
	return nil
}

// isTypePosition reports whether an identifier followed by next sits in
// type position: immediately followed by another identifier or by `*`.
func (e *Emitter) isTypePosition(next lexer.Token) bool {
	if next.Type == lexer.TokenIdentifier {
		return true
	}
	return next.Type == lexer.TokenPunct && next.Literal == "*"
}

// isMethodDefStart decides the AfterDot ambiguity at file scope: a
// method definition carries a return type directly before the struct
// name, so the previous significant token must look like one.
func (e *Emitter) isMethodDefStart(prev lexer.Token) bool {
	if e.state != stateTop || e.parenDepth != 0 {
		return false
	}
	switch prev.Type {
	case lexer.TokenIdentifier, lexer.TokenKeyword:
		return true
	case lexer.TokenPunct:
		return prev.Literal == "*"
	}
	return false
}

// recordDecl scans ahead of a struct-typed identifier in type position
// and records `Name (*)* var` declarators in the variable mini-table.
// Only the first declarator of a multi-declarator statement is seen;
// receivers the table misses simply fall through to plain C.
func (e *Emitter) recordDecl(structName string) {
	j := e.sigIdx(e.i+1, 0)
	pointer := false
	for e.toks[j].Type == lexer.TokenPunct && e.toks[j].Literal == "*" {
		pointer = true
		j = e.sigIdx(j+1, 0)
	}
	v := e.toks[j]
	if v.Type != lexer.TokenIdentifier || v.Literal == "_" || v.Literal == "self" {
		return
	}
	after := e.sig(j+1, 0)
	if after.Type != lexer.TokenPunct {
		return
	}
	switch after.Literal {
	case "=", ";", ",", ")":
	default:
		return
	}

	vi := varInfo{structName: structName, pointer: pointer}
	switch {
	case e.state == stateTop && e.parenDepth > 0:
		// parameter list of a top-level function: held until the
		// body's scope exists, discarded if a prototype ends first
		if e.params == nil {
			e.params = make(map[string]varInfo)
		}
		e.params[v.Literal] = vi
	case e.state == stateTop:
		e.scopes.declareGlobal(v.Literal, vi)
	default:
		e.scopes.declare(v.Literal, vi)
	}
}

// structDeclTypedef rewrites `typedef struct Name { ... } Name;`.
// The registry entry is created before the member list is emitted so a
// self-referential member already resolves. Only the trailing name is
// rewritten; the tag stays so legacy `struct Name` references compile.
func (e *Emitter) structDeclTypedef() bool {
	if e.sig(e.i+1, 0).Literal != "struct" {
		return false
	}
	nameTok := e.sig(e.i+1, 1)
	if nameTok.Type != lexer.TokenIdentifier {
		return false
	}
	if e.sig(e.i+1, 2).Literal != "{" {
		return false
	}

	e.emit("typedef")
	e.i++
	e.copyTrivia()
	e.emit("struct")
	e.i++
	e.copyTrivia()
	e.registerStruct(nameTok.Literal)
	e.emit(nameTok.Literal)
	e.i++
	e.pending = append(e.pending, pendingStruct{
		name:        nameTok.Literal,
		depth:       e.braceDepth,
		typedefForm: true,
	})
	return true
}

// structDeclTag rewrites the tag-only form `struct Name { ... };` into
// the typedef form `typedef struct Name { ... } Name_t;`. A declarator
// between `}` and `;` makes the statement a plain C variable
// declaration, which must pass through with nothing registered.
func (e *Emitter) structDeclTag() bool {
	if e.state != stateTop {
		return false
	}
	if prev := e.prevSig(); prev.Type == lexer.TokenKeyword && prev.Literal == "typedef" {
		return false
	}
	nameTok := e.sig(e.i+1, 0)
	if nameTok.Type != lexer.TokenIdentifier {
		return false
	}
	if e.sig(e.i+1, 1).Literal != "{" {
		return false
	}
	if !e.tagFormEndsDecl(e.sigIdx(e.i+1, 1)) {
		return false
	}

	e.emit("typedef struct")
	e.i++
	e.copyTrivia()
	e.registerStruct(nameTok.Literal)
	e.emit(nameTok.Literal)
	e.i++
	e.pending = append(e.pending, pendingStruct{
		name:        nameTok.Literal,
		depth:       e.braceDepth,
		typedefForm: false,
	})
	return true
}

// tagFormEndsDecl reports whether the member list opened by the brace
// at index open closes directly into `;`. The token stream is fully
// buffered, so the matching brace is found by depth counting.
func (e *Emitter) tagFormEndsDecl(open int) bool {
	depth := 0
	for i := open; i < len(e.toks); i++ {
		t := e.toks[i]
		if t.Type != lexer.TokenPunct {
			continue
		}
		switch t.Literal {
		case "{":
			depth++
		case "}":
			depth--
			if depth == 0 {
				next := e.sig(i+1, 0)
				return next.Type == lexer.TokenPunct && next.Literal == ";"
			}
		}
	}
	return false
}

// registerStruct adds a declared struct to the registry unless the name
// collides with the reserved primitive set, which always wins.
func (e *Emitter) registerStruct(name string) {
	if tables.IsReserved(name) {
		return
	}
	e.reg.Add(name)
}

// finishStruct closes a struct declaration at its `}`: for the typedef
// form the trailing name is rewritten to its typedef spelling; for the
// tag form the typedef spelling is synthesized.
func (e *Emitter) finishStruct(p *pendingStruct) {
	e.emit("}")
	e.i++ // past "}"

	if !p.typedefForm {
		e.emit(" " + p.name + registry.TypedefSuffix)
		return
	}

	e.copyTrivia()
	if e.i < len(e.toks) && e.toks[e.i].Type == lexer.TokenIdentifier {
		trailing := e.toks[e.i].Literal
		e.registerStruct(trailing)
		e.emit(trailing + registry.TypedefSuffix)
		e.i++
	}
}

// methodDef rewrites `<Ret> <Name>.<method>(<params>)` into a free
// function taking the receiver explicitly:
// `<Ret> <Name>_<method>(<Name>_t* self, <params>)`. The comma is
// elided when the parameter list is empty. The body scope sees `self`
// as a pointer to the receiver struct.
func (e *Emitter) methodDef(recv, method lexer.Token) {
	e.i = e.sigIdx(e.i+1, 2) + 1 // past "("
	e.skipTrivia()
	e.emit(recv.Literal + "_" + method.Literal + "(")
	e.emit(recv.Literal + registry.TypedefSuffix + "* self")
	if e.sig(e.i, 0).Literal != ")" {
		e.emit(", ")
	}
	e.parenDepth++ // the consumed "(" never reaches punct()
	e.pendingSelf = recv.Literal
}

// methodCall rewrites `recv.method(args)`. A registered struct name on
// the left is the static form and gets no injected receiver; a known
// variable gets itself (pointer) or its address (value) injected as the
// first argument; anything else falls through to plain C, or errors
// under strict receiver checking.
func (e *Emitter) methodCall(recv, method lexer.Token) error {
	if !tables.IsReserved(recv.Literal) && e.reg.Has(recv.Literal) {
		e.emit(recv.Literal + "_" + method.Literal + "(")
		e.i = e.sigIdx(e.i+1, 2) + 1 // past "("
		e.parenDepth++
		return nil
	}

	if vi, ok := e.scopes.lookup(recv.Literal); ok {
		e.emit(vi.structName + "_" + method.Literal + "(")
		if !vi.pointer {
			e.emit("&")
		}
		e.emit(recv.Literal)
		e.i = e.sigIdx(e.i+1, 2) + 1 // past "("
		e.skipTrivia()
		e.parenDepth++
		if e.sig(e.i, 0).Literal != ")" {
			e.emit(", ")
		}
		return nil
	}

	if e.opts.StrictReceivers {
		return &Error{
			Kind: ErrAmbiguousReceiver,
			Pos:  recv.Pos(),
			Msg:  fmt.Sprintf("cannot resolve receiver type of %s.%s(...)", recv.Literal, method.Literal),
		}
	}

	// fallback: plain C member access, emitted untouched
	e.emit(recv.Literal)
	e.i++
	return nil
}

// hash handles `#` at the start of a line. The only directive the
// translator owns is `#pragma czar ...`; every other preprocessor line
// passes through.
func (e *Emitter) hash(t lexer.Token) error {
	if !e.atLineStart() {
		e.emit("#")
		e.i++
		return nil
	}
	if e.sig(e.i+1, 0).Literal != "pragma" || e.sig(e.i+1, 1).Literal != "czar" {
		e.emit("#")
		e.i++
		return nil
	}
	return e.czarPragma(t)
}

// atLineStart reports whether the current token begins a logical line
func (e *Emitter) atLineStart() bool {
	for i := e.i - 1; i >= 0; i-- {
		switch e.toks[i].Type {
		case lexer.TokenWhitespace:
			continue
		case lexer.TokenNewline:
			return true
		default:
			return false
		}
	}
	return true
}

// czarPragma consumes a `#pragma czar <directive> ...` line. The line
// is stripped from the output; its trailing newline survives so line
// numbers stay aligned. Supported: `require "<constraint>"`, checked
// against the tool version.
func (e *Emitter) czarPragma(t lexer.Token) error {
	directive := e.sig(e.i+1, 2)
	var arg lexer.Token

	// collect the rest of the line
	j := e.sigIdx(e.i+1, 2) + 1
	for j < len(e.toks) {
		tok := e.toks[j]
		if tok.Type == lexer.TokenNewline || tok.Type == lexer.TokenEOF {
			break
		}
		if tok.Type == lexer.TokenString {
			arg = tok
		}
		j++
	}

	switch directive.Literal {
	case "require":
		if arg.Type != lexer.TokenString {
			return &Error{
				Kind: ErrPragma,
				Pos:  t.Pos(),
				Msg:  "pragma czar require needs a quoted version constraint",
			}
		}
		if err := e.checkRequire(unquote(arg.Literal)); err != nil {
			return &Error{Kind: ErrPragma, Pos: arg.Pos(), Err: err}
		}
	default:
		return &Error{
			Kind: ErrPragma,
			Pos:  t.Pos(),
			Msg:  fmt.Sprintf("unknown czar pragma %q", directive.Literal),
		}
	}

	e.i = j // the newline token, if any, is emitted by the main loop
	return nil
}

// checkRequire verifies the tool version against a semver constraint.
// An empty tool version disables the check (library use).
func (e *Emitter) checkRequire(constraint string) error {
	if e.opts.ToolVersion == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(e.opts.ToolVersion)
	if err != nil {
		return fmt.Errorf("invalid tool version %q: %w", e.opts.ToolVersion, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("czar %s does not satisfy required %q", e.opts.ToolVersion, constraint)
	}
	return nil
}

// unquote strips the delimiters of a string token's raw literal
func unquote(raw string) string {
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return raw[1 : len(raw)-1]
	}
	return raw
}
