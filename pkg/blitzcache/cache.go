package blitzcache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// Producer is the unified producer shape (spec.md §9, "Abstract as a single
// internal trait/interface producer capability with four variants; branch
// once at the API edge"). All four spec shapes — synchronous, synchronous
// with Nuances, asynchronous, asynchronous with Nuances — are represented by
// this one signature: the asynchronous forms are obtained by wrapping a
// Future wait inside fn (see async.go's AsyncProducer), and the Nuances-free
// forms are obtained via Simple below.
type Producer[V any] func(ctx context.Context, n *Nuances) (V, error)

// Simple adapts a producer that ignores Nuances and context cancellation
// concerns beyond what ctx already carries.
func Simple[V any](fn func(ctx context.Context) (V, error)) Producer[V] {
	return func(ctx context.Context, _ *Nuances) (V, error) { return fn(ctx) }
}

// Cache is the C6 single-flight coordinator and public facade (spec.md
// §4.6). It orchestrates the KeyedMutex registry (C1), entry store (C2),
// value sizer (C3), capacity enforcer (C4), and statistics (C5).
//
// Grounded on the teacher's pkg/cache/memory/cache.go Get/Set/Delete/Close
// shape, generalized to run a producer instead of storing a precomputed
// value, and to hold the keyed-mutex registry's per-key guard across the
// whole acquire-produce-insert-enforce-release critical section (spec.md
// §4.6.1 steps 3-10) in place of the teacher's single RWMutex-guarded map.
type Cache[K comparable, V any] struct {
	registry *keyMutexRegistry[K]
	store    *entryStore[K, V]
	sizer    ValueSizer
	enforcer *capacityEnforcer[K, V]
	stats    *statistics[K]

	defaultTTL        time.Duration
	maxCacheSizeBytes int64
	logger            Logger

	disposed atomic.Bool
	cleanup  *cleanupLoop
	global   bool
}

// New constructs a Cache with the given options. See options.go for the
// full Option catalogue and Builder for a fluent equivalent.
func New[K comparable, V any](opts ...Option) (*Cache[K, V], error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	sizer := cfg.Sizer
	if sizer == nil {
		sizer = NewValueSizer(cfg.SizerOptions)
	}

	c := &Cache[K, V]{
		registry:          newKeyMutexRegistry[K](),
		store:             newEntryStore[K, V](cfg.ShardCount),
		sizer:             sizer,
		enforcer:          newCapacityEnforcer[K, V](cfg.MaxCacheSizeBytes, cfg.EvictionStrategy),
		stats:             newStatistics[K](cfg.MaxTopSlowest, cfg.MaxTopHeaviest),
		defaultTTL:        cfg.DefaultTTL,
		maxCacheSizeBytes: cfg.MaxCacheSizeBytes,
		logger:            logOrNop(cfg.Logger),
	}
	if cfg.StartWithStatistics {
		c.stats.initialize()
	}

	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = time.Second
	}
	protectionWindow := cfg.ProtectionWindow
	if protectionWindow <= 0 {
		protectionWindow = DefaultProtectionWindow
	}
	c.cleanup = startCleanupLoop(func(now time.Time) {
		c.registry.sweep(now, protectionWindow)
		c.store.sweepExpired(now)
	}, interval)

	return c, nil
}

// Get implements spec.md §4.6.1: first probe, acquire, re-probe, produce,
// size, insert, enforce, release.
func (c *Cache[K, V]) Get(ctx context.Context, key K, producer Producer[V], ttl ...time.Duration) (V, error) {
	var zero V
	if c.disposed.Load() {
		return zero, ErrDisposed
	}
	if producer == nil {
		return zero, ErrArgumentMissing
	}

	if e, ok := c.store.tryGet(key, time.Now()); ok {
		c.stats.recordHit()
		return e.value, nil
	}
	c.stats.recordMiss()

	return c.coordinate(ctx, key, producer, ttl, false)
}

// GetC derives an opaque key from the caller's source position (file+line)
// and calls Get with it. Per spec.md §6, the derived key is treated as an
// opaque string by the core — this function lives entirely at the API
// edge, never inside the coordinator.
func (c *Cache[K, V]) GetC(ctx context.Context, producer Producer[V], ttl ...time.Duration) (V, error) {
	var zero V
	key, ok := any(sourcePositionKey(1)).(K)
	if !ok {
		return zero, fmt.Errorf("blitzcache: GetC requires a string-keyed Cache, got %T", *new(K))
	}
	return c.Get(ctx, key, producer, ttl...)
}

// Update forces production and insertion regardless of current presence
// (spec.md §4.6.2). Does not touch hit/miss counters.
func (c *Cache[K, V]) Update(ctx context.Context, key K, producer Producer[V], ttl ...time.Duration) (V, error) {
	var zero V
	if c.disposed.Load() {
		return zero, ErrDisposed
	}
	if producer == nil {
		return zero, ErrArgumentMissing
	}
	return c.coordinate(ctx, key, producer, ttl, true)
}

// coordinate implements steps 3-10: acquire, re-probe (unless force),
// produce, size, insert, enforce, release.
func (c *Cache[K, V]) coordinate(ctx context.Context, key K, producer Producer[V], ttlArgs []time.Duration, force bool) (V, error) {
	var zero V

	guard, err := c.registry.acquire(ctx, key)
	if err != nil {
		return zero, err
	}
	defer guard.release()

	if !force {
		if e, ok := c.store.tryGet(key, time.Now()); ok {
			return e.value, nil
		}
	}

	// Produce: the registry guard already excludes every other goroutine
	// racing on this key (spec.md §4.6.1 steps 3-10 run as one critical
	// section), so this call never overlaps a sibling call for the same
	// key — there is nothing left for a second de-duplication layer to
	// collapse.
	n := &Nuances{}
	start := time.Now()
	value, perr := producer(ctx, n)
	dur := time.Since(start)
	if perr != nil {
		return zero, WrapProducerError(keyString(key), perr)
	}
	ttl := c.resolveTTL(n, ttlArgs)

	if ttl <= 0 {
		// TTLInvalid per spec.md §7: skip insertion, still return the value.
		return value, nil
	}

	sizeBytes := c.safeSize(value)

	now := time.Now()
	onEvict := func(reason EvictReason) { c.stats.recordEvict(key, sizeBytes, reason) }
	if err := c.store.set(key, value, ttl, sizeBytes, dur, now, onEvict); err != nil {
		return zero, err
	}
	c.stats.recordInsert(key, sizeBytes, dur, now)

	if c.maxCacheSizeBytes > 0 {
		c.enforcer.enforce(c.store, func() int64 { return c.stats.approxBytes.Load() }, time.Now())
	}

	return value, nil
}

// resolveTTL picks the effective TTL per spec.md §4.6.1 step 5: Nuances
// override, then the ttl argument, then the instance default.
func (c *Cache[K, V]) resolveTTL(n *Nuances, ttlArgs []time.Duration) time.Duration {
	if d, ok := n.cacheRetentionDuration(); ok {
		return d
	}
	if len(ttlArgs) > 0 {
		return ttlArgs[0]
	}
	return c.defaultTTL
}

// safeSize estimates sizeBytes via the configured ValueSizer, falling back
// to a conservative constant and logging internally on failure (spec.md §7,
// SizerFailure: "never abort insertion").
func (c *Cache[K, V]) safeSize(value V) int64 {
	size, err := c.sizer.Size(value)
	if err != nil {
		c.logger.Printf("%v", &SizerError{Err: err})
		return fallbackSizeBytes
	}
	if size < 0 {
		return fallbackSizeBytes
	}
	return size
}

// fallbackSizeBytes is the conservative constant substituted when the
// configured sizer fails (spec.md §7).
const fallbackSizeBytes = 128

// Peek returns the live value for key without ever invoking a producer:
// a non-reviving lookup grounded on the teacher's own Get (pkg/cache/
// memory/cache.go), which returns capacitor.ErrNotFound on a miss instead
// of computing one. Does not affect hit_count/miss_count — it is a plain
// inspection, not part of the Get-or-produce path §4.6.1 describes.
func (c *Cache[K, V]) Peek(key K) (V, error) {
	var zero V
	if c.disposed.Load() {
		return zero, ErrDisposed
	}
	e, ok := c.store.tryGet(key, time.Now())
	if !ok {
		return zero, ErrNotFound
	}
	return e.value, nil
}

// Remove deletes key if present (spec.md §4.6.3). No-op, no eviction_count
// change, if absent.
func (c *Cache[K, V]) Remove(key K) error {
	if c.disposed.Load() {
		return ErrDisposed
	}
	c.store.remove(key)
	return nil
}

// InitializeStatistics turns on hit/miss/eviction counter accrual and makes
// Statistics return a live snapshot instead of ErrStatisticsUnavailable.
func (c *Cache[K, V]) InitializeStatistics() {
	c.stats.initialize()
}

// Statistics returns the current snapshot, or ErrStatisticsUnavailable if
// InitializeStatistics was never called (spec.md §4.6.4).
func (c *Cache[K, V]) Statistics() (StatisticsSnapshot[K], error) {
	if !c.stats.isInitialized() {
		return StatisticsSnapshot[K]{}, ErrStatisticsUnavailable
	}
	return c.stats.snapshot(c.registry.count()), nil
}

// ResetStatistics zeroes hit/miss/eviction counters (spec.md §4.5).
func (c *Cache[K, V]) ResetStatistics() {
	c.stats.reset()
}

// Dispose tears down the cache: stops the cleanup tick, removes every
// entry (firing eviction callbacks with EvictDisposed), releases every
// KeyMutex, and fails all subsequent operations with ErrDisposed. Idempotent.
func (c *Cache[K, V]) Dispose() error {
	if c.global {
		return ErrGlobalNotDisposable
	}
	if !c.disposed.CompareAndSwap(false, true) {
		return nil
	}
	c.cleanup.stop()
	c.store.dispose()
	c.registry.dispose()
	return nil
}

// keyString renders a comparable key as a string for error messages.
// Strings pass through; everything else uses fmt.Sprint, matching the
// fallback entryStore.shardFor already uses for non-string keys.
func keyString[K comparable](key K) string {
	if sk, ok := any(key).(string); ok {
		return sk
	}
	return fmt.Sprint(key)
}
