package emitter

import "strconv"

// unusedAttr is appended to every generated sink identifier so the
// emitted declaration compiles without warnings. A backend without GNU
// attribute support must substitute its own unused annotation.
const unusedAttr = " __attribute__((unused))"

// UnusedGen produces unique sink identifiers for `_` declarators.
// Uniqueness holds within one translation unit, not across units.
type UnusedGen struct {
	n int
}

// Next returns the next sink identifier spelling and advances the counter
func (g *UnusedGen) Next() string {
	s := "_unused_" + strconv.Itoa(g.n) + unusedAttr
	g.n++
	return s
}

// Count returns how many identifiers have been generated
func (g *UnusedGen) Count() int {
	return g.n
}

// Reset zeroes the counter. Must be called at translation-unit boundary.
func (g *UnusedGen) Reset() {
	g.n = 0
}
