// Package tables holds the closed lookup tables that map the surface
// dialect's primitive names and limit constants to their C spellings.
// These tables are the single source of truth for the mapping; any
// identifier found in neither is passed through verbatim, which is the
// policy that keeps the translator streaming.
package tables

// typeTable maps width-qualified primitive names to width-exact C types.
// The name set is closed and reserved: a user struct may not shadow it.
var typeTable = map[string]string{
	"u8":  "uint8_t",
	"u16": "uint16_t",
	"u32": "uint32_t",
	"u64": "uint64_t",

	"i8":  "int8_t",
	"i16": "int16_t",
	"i32": "int32_t",
	"i64": "int64_t",

	"f32": "float",
	"f64": "double",

	"usize": "size_t",
	"isize": "ptrdiff_t",
}

// constantTable maps named limits to the <stdint.h> macros.
var constantTable = map[string]string{
	"u8_max":  "UINT8_MAX",
	"u16_max": "UINT16_MAX",
	"u32_max": "UINT32_MAX",
	"u64_max": "UINT64_MAX",

	"i8_min":  "INT8_MIN",
	"i8_max":  "INT8_MAX",
	"i16_min": "INT16_MIN",
	"i16_max": "INT16_MAX",
	"i32_min": "INT32_MIN",
	"i32_max": "INT32_MAX",
	"i64_min": "INT64_MIN",
	"i64_max": "INT64_MAX",

	"usize_max": "SIZE_MAX",
	"isize_min": "PTRDIFF_MIN",
	"isize_max": "PTRDIFF_MAX",
}

// LookupType returns the C spelling for a surface primitive name
func LookupType(name string) (string, bool) {
	c, ok := typeTable[name]
	return c, ok
}

// LookupConstant returns the C spelling for a surface limit constant
func LookupConstant(name string) (string, bool) {
	c, ok := constantTable[name]
	return c, ok
}

// IsReserved reports whether name belongs to either closed set. The
// emitter uses this for the tie-break: the reserved set always beats
// the struct-name registry.
func IsReserved(name string) bool {
	if _, ok := typeTable[name]; ok {
		return true
	}
	_, ok := constantTable[name]
	return ok
}
