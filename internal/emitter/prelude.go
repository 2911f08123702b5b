package emitter

import (
	"fmt"
	"io"
)

// The runtime prelude is emitted exactly once, before any translated
// declaration. It carries the system headers, the diagnostic macros,
// the logging surface, and the declarations of the runtime helpers the
// emitted code may call. Bodies for the cz_* helpers live in the
// external runtime library, never in emitted code.

const preludeHeaders = `/* Generated by czar. Do not edit. */

#include <stdlib.h>
#include <stdio.h>
#include <stdint.h>
#include <stdbool.h>
#include <assert.h>
#include <stdarg.h>
#include <string.h>

`

const preludeMacros = `#define cz_assert(cond) \
    do { \
        if (!(cond)) { \
            fprintf(stderr, "%s:%d: %s: assertion failed: %s\n", __FILE__, __LINE__, __func__, #cond); \
            abort(); \
        } \
    } while (0)

#define cz_todo(msg) \
    do { \
        fprintf(stderr, "%s:%d: %s: TODO: %s\n", __FILE__, __LINE__, __func__, (msg)); \
        abort(); \
    } while (0)

#define cz_fixme(msg) \
    do { \
        fprintf(stderr, "%s:%d: %s: FIXME: %s\n", __FILE__, __LINE__, __func__, (msg)); \
        abort(); \
    } while (0)

#define cz_unreachable(msg) \
    do { \
        fprintf(stderr, "%s:%d: %s: unreachable: %s\n", __FILE__, __LINE__, __func__, (msg)); \
        abort(); \
    } while (0)

`

const preludeLogHead = `typedef enum {
    CZ_LOG_VERBOSE = 0,
    CZ_LOG_DEBUG = 1,
    CZ_LOG_INFO = 2,
    CZ_LOG_WARN = 3,
    CZ_LOG_ERROR = 4,
    CZ_LOG_FATAL = 5
} cz_log_level;

void cz_log(cz_log_level level, const char* file, int line, const char* func, const char* fmt, ...);

`

const preludeLogMacros = `#if CZ_DEBUG
#define cz_log_verbose(...) cz_log(CZ_LOG_VERBOSE, __FILE__, __LINE__, __func__, __VA_ARGS__)
#define cz_log_debug(...) cz_log(CZ_LOG_DEBUG, __FILE__, __LINE__, __func__, __VA_ARGS__)
#else
#define cz_log_verbose(...) ((void)0)
#define cz_log_debug(...) ((void)0)
#endif
#define cz_log_info(...) cz_log(CZ_LOG_INFO, __FILE__, __LINE__, __func__, __VA_ARGS__)
#define cz_log_warn(...) cz_log(CZ_LOG_WARN, __FILE__, __LINE__, __func__, __VA_ARGS__)
#define cz_log_error(...) cz_log(CZ_LOG_ERROR, __FILE__, __LINE__, __func__, __VA_ARGS__)
#define cz_log_fatal(...) cz_log(CZ_LOG_FATAL, __FILE__, __LINE__, __func__, __VA_ARGS__)

typedef struct Log { int _0; } Log_t;

#define Log_verbose(...) cz_log_verbose(__VA_ARGS__)
#define Log_debug(...) cz_log_debug(__VA_ARGS__)
#define Log_info(...) cz_log_info(__VA_ARGS__)
#define Log_warn(...) cz_log_warn(__VA_ARGS__)
#define Log_error(...) cz_log_error(__VA_ARGS__)
#define Log_fatal(...) cz_log_fatal(__VA_ARGS__)

`

const preludeRuntime = `unsigned long long cz_monotonic_clock_ns(void);
unsigned long long cz_monotonic_timer_ns(void);
void cz_nanosleep(unsigned long long ns);
char* cz_format_string(const char* fmt, ...);

typedef struct cz_arena {
    uint64_t size;
    void* buffer;
    uint64_t offset;
} cz_arena_t;

void cz_arena_init(cz_arena_t* self, uint64_t size);
void cz_arena_fini(cz_arena_t* self);
void* cz_arena_alloc(cz_arena_t* self, uint64_t size);
void* cz_arena_ralloc(cz_arena_t* self, void* old, uint64_t old_size, uint64_t new_size);
void cz_arena_clear(cz_arena_t* self);

typedef struct cz_os_info {
    const char* name;
    const char* arch;
    long page_size;
} cz_os_info_t;

const cz_os_info_t* cz_os(void);

`

// preludeStructs are the struct names the prelude itself declares. The
// registry is seeded with them so static-method syntax (Log.info) and
// arena calls (a.alloc) resolve like any user struct.
var preludeStructs = []string{"Log", "cz_arena", "cz_os_info"}

// writePrelude writes the full prelude. debug selects whether sub-INFO
// log levels compile into the translated program.
func writePrelude(w io.Writer, debug bool) error {
	dbg := 0
	if debug {
		dbg = 1
	}
	if _, err := io.WriteString(w, preludeHeaders); err != nil {
		return err
	}
	if _, err := io.WriteString(w, preludeMacros); err != nil {
		return err
	}
	if _, err := io.WriteString(w, preludeLogHead); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "#ifndef CZ_DEBUG\n#define CZ_DEBUG %d\n#endif\n\n", dbg); err != nil {
		return err
	}
	if _, err := io.WriteString(w, preludeLogMacros); err != nil {
		return err
	}
	_, err := io.WriteString(w, preludeRuntime)
	return err
}
