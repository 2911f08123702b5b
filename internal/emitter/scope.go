package emitter

// varInfo records what the emitter knows about a declared variable:
// which registered struct it belongs to and whether it is a pointer.
// This mini-table is all the type inference the translator runs; any
// receiver it cannot resolve falls through to plain C.
type varInfo struct {
	structName string
	pointer    bool
}

// scopeTable is a stack of name->varInfo maps. The bottom entry is the
// file scope; a frame is pushed for every `{` and popped at `}`, so
// shadowing and function boundaries both behave.
type scopeTable struct {
	stack []map[string]varInfo
}

func newScopeTable() *scopeTable {
	return &scopeTable{stack: []map[string]varInfo{{}}}
}

func (s *scopeTable) push() {
	s.stack = append(s.stack, map[string]varInfo{})
}

func (s *scopeTable) pop() {
	if len(s.stack) > 1 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// declare records a variable in the innermost scope
func (s *scopeTable) declare(name string, vi varInfo) {
	s.stack[len(s.stack)-1][name] = vi
}

// declareGlobal records a variable in the file scope
func (s *scopeTable) declareGlobal(name string, vi varInfo) {
	s.stack[0][name] = vi
}

// lookup resolves a variable innermost-first
func (s *scopeTable) lookup(name string) (varInfo, bool) {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if vi, ok := s.stack[i][name]; ok {
			return vi, true
		}
	}
	return varInfo{}, false
}

// reset drops everything, including the file scope
func (s *scopeTable) reset() {
	s.stack = []map[string]varInfo{{}}
}
