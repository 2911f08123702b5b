// Package registry maintains the struct-name registry: the mapping from
// a declared struct base name to its canonical typedef spelling. The
// emitter populates it as declarations are emitted and probes it at
// every later identifier in type position.
package registry

// TypedefSuffix is the fixed suffix appended to a struct base name to
// form its typedef spelling. The emitter relies on this contract when
// producing the `typedef struct Foo { ... } Foo_t;` form and every
// later reference.
const TypedefSuffix = "_t"

// Registry maps struct base names to typedef spellings. A registry is
// exclusively owned by one in-flight translation; translations running
// in parallel must each hold their own.
type Registry struct {
	entries map[string]string
}

// New creates an empty registry
func New() *Registry {
	return &Registry{entries: make(map[string]string)}
}

// Add registers a struct base name. Add is idempotent: the first call
// wins and later calls with the same name are silently ignored, so a
// forward declaration and the full declaration always agree.
func (r *Registry) Add(base string) {
	if _, ok := r.entries[base]; ok {
		return
	}
	r.entries[base] = base + TypedefSuffix
}

// Typedef returns the typedef spelling for a registered base name
func (r *Registry) Typedef(name string) (string, bool) {
	td, ok := r.entries[name]
	return td, ok
}

// Has reports whether base is registered
func (r *Registry) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// Len returns the number of registered structs
func (r *Registry) Len() int {
	return len(r.entries)
}

// Reset clears all entries. Must be called between translation units
// that reuse the same registry.
func (r *Registry) Reset() {
	r.entries = make(map[string]string)
}
