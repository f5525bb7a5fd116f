package blitzcache

import "time"

// Builder provides a fluent equivalent of New(opts ...Option), matching the
// shape of the teacher's capacitor.Builder (pkg/capacitor/config.go). Each
// With* method mutates and returns the same Builder so calls can chain.
type Builder[K comparable, V any] struct {
	opts []Option
}

// NewBuilder starts a fluent Cache construction.
func NewBuilder[K comparable, V any]() *Builder[K, V] {
	return &Builder[K, V]{}
}

// WithDefaultTTL sets the cache's default TTL.
func (b *Builder[K, V]) WithDefaultTTL(ttl time.Duration) *Builder[K, V] {
	b.opts = append(b.opts, WithDefaultTTL(ttl))
	return b
}

// WithCleanupInterval sets the C7 tick interval.
func (b *Builder[K, V]) WithCleanupInterval(d time.Duration) *Builder[K, V] {
	b.opts = append(b.opts, WithCleanupInterval(d))
	return b
}

// WithProtectionWindow sets the minimum KeyMutex idle age before sweep.
func (b *Builder[K, V]) WithProtectionWindow(d time.Duration) *Builder[K, V] {
	b.opts = append(b.opts, WithProtectionWindow(d))
	return b
}

// WithMaxTopSlowest bounds the top-slowest-producer tracker.
func (b *Builder[K, V]) WithMaxTopSlowest(n int) *Builder[K, V] {
	b.opts = append(b.opts, WithMaxTopSlowest(n))
	return b
}

// WithMaxTopHeaviest bounds the top-heaviest-entry tracker.
func (b *Builder[K, V]) WithMaxTopHeaviest(n int) *Builder[K, V] {
	b.opts = append(b.opts, WithMaxTopHeaviest(n))
	return b
}

// WithMaxCacheSizeBytes enables the capacity enforcer.
func (b *Builder[K, V]) WithMaxCacheSizeBytes(n int64) *Builder[K, V] {
	b.opts = append(b.opts, WithMaxCacheSizeBytes(n))
	return b
}

// WithEvictionStrategy selects the capacity-eviction order.
func (b *Builder[K, V]) WithEvictionStrategy(s EvictionStrategy) *Builder[K, V] {
	b.opts = append(b.opts, WithEvictionStrategy(s))
	return b
}

// WithValueSizer overrides the default ValueSizer.
func (b *Builder[K, V]) WithValueSizer(s ValueSizer) *Builder[K, V] {
	b.opts = append(b.opts, WithValueSizer(s))
	return b
}

// WithSizerOptions configures the default ValueSizer's traversal limits.
func (b *Builder[K, V]) WithSizerOptions(opts SizerOptions) *Builder[K, V] {
	b.opts = append(b.opts, WithSizerOptions(opts))
	return b
}

// WithShardCount sets the entry-store shard count.
func (b *Builder[K, V]) WithShardCount(n int) *Builder[K, V] {
	b.opts = append(b.opts, WithShardCount(n))
	return b
}

// WithLogger wires an internal diagnostics sink.
func (b *Builder[K, V]) WithLogger(l Logger) *Builder[K, V] {
	b.opts = append(b.opts, WithLogger(l))
	return b
}

// WithStatisticsEnabled starts the cache with statistics already collecting.
func (b *Builder[K, V]) WithStatisticsEnabled() *Builder[K, V] {
	b.opts = append(b.opts, WithStatisticsEnabled())
	return b
}

// Build constructs the Cache from the accumulated options.
func (b *Builder[K, V]) Build() (*Cache[K, V], error) {
	return New[K, V](b.opts...)
}
