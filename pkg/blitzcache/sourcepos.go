package blitzcache

import (
	"fmt"
	"runtime"
)

// sourcePositionKey derives an opaque string key from the caller's source
// file and line, skip frames above this function's own frame. This is the
// supplemental convenience named in spec.md §6 ("key is derived by the
// caller from stable source-position metadata") and explicitly called out
// as Out of scope for the core (spec.md §1): GetC is a thin API-edge
// wrapper, never special-cased inside the coordinator — the derived string
// is just another opaque key as far as C1/C2/C6 are concerned.
func sourcePositionKey(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "blitzcache:unknown"
	}
	return fmt.Sprintf("%s:%d", file, line)
}
