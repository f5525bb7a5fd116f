package blitzcache

import "sync"

var (
	globalOnce     sync.Once
	globalInstance *Cache[string, any]
)

// Global returns the process-wide shared Cache instance, matching the
// `use_global_instance` configuration option (spec.md §6). It is lazily
// constructed on first call; options passed to later calls are ignored,
// matching the teacher's re-architecture note (spec.md §9): re-architected
// from the source's module-level static dictionaries into an owned
// instance, reached through this single accessor rather than package-level
// state scattered across the codebase.
//
// Per spec.md §6, "the process-wide instance MUST NOT be disposable by user
// code" — Dispose on this instance always returns ErrGlobalNotDisposable.
func Global(opts ...Option) *Cache[string, any] {
	globalOnce.Do(func() {
		c, _ := New[string, any](opts...)
		c.global = true
		globalInstance = c
	})
	return globalInstance
}
