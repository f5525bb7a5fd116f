package blitzcache

import "time"

// Config holds the construction-time settings for a Cache. Use Option
// functions with New, or Builder for a fluent equivalent (adapted from the
// teacher's capacitor.Builder/SetOption pattern — see DESIGN.md).
type Config struct {
	// DefaultTTL is used when neither the ttl argument nor Nuances supply
	// one. Zero means callers must always supply a TTL or rely on Nuances.
	DefaultTTL time.Duration

	// CleanupInterval is the C7 periodic tick. Default 1s.
	CleanupInterval time.Duration

	// ProtectionWindow is the minimum idle age before a KeyMutex may be
	// swept. Default 1s (spec.md §4.1/§9).
	ProtectionWindow time.Duration

	// MaxTopSlowest bounds the top-slowest-producer tracker; 0 disables it.
	MaxTopSlowest int

	// MaxTopHeaviest bounds the top-heaviest-entry tracker; 0 disables it.
	MaxTopHeaviest int

	// MaxCacheSizeBytes enables the capacity enforcer when > 0.
	MaxCacheSizeBytes int64

	// EvictionStrategy selects which entries C4 evicts first. Default
	// SmallestFirst.
	EvictionStrategy EvictionStrategy

	// Sizer overrides the default reflect-based ValueSizer. If nil, one is
	// built from SizerOptions.
	Sizer ValueSizer

	// SizerOptions configures the default ValueSizer when Sizer is nil.
	SizerOptions SizerOptions

	// ShardCount is the number of entry-store shards. Rounded up to the
	// next power of two. Default 32.
	ShardCount int

	// Logger receives internal, non-fatal diagnostics (ValueSizer failures
	// only). Nil is safe and discards everything.
	Logger Logger

	// StartWithStatistics, if true, is equivalent to calling
	// InitializeStatistics immediately after construction.
	StartWithStatistics bool
}

// Option configures a Config. Follows the teacher's SetOption/TxOption
// functional-option shape (pkg/capacitor/dal.go).
type Option func(*Config)

// DefaultConfig returns the spec's recommended defaults.
func DefaultConfig() Config {
	return Config{
		CleanupInterval:  time.Second,
		ProtectionWindow: DefaultProtectionWindow,
		EvictionStrategy: SmallestFirst,
		SizerOptions:     DefaultSizerOptions(),
		ShardCount:       32,
	}
}

// WithDefaultTTL sets the TTL used when no per-call ttl or Nuances override
// is supplied.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *Config) { c.DefaultTTL = ttl }
}

// WithCleanupInterval sets the C7 periodic tick interval.
func WithCleanupInterval(d time.Duration) Option {
	return func(c *Config) { c.CleanupInterval = d }
}

// WithProtectionWindow sets the minimum KeyMutex idle age before sweep.
func WithProtectionWindow(d time.Duration) Option {
	return func(c *Config) { c.ProtectionWindow = d }
}

// WithMaxTopSlowest bounds the top-slowest-producer tracker.
func WithMaxTopSlowest(n int) Option {
	return func(c *Config) { c.MaxTopSlowest = n }
}

// WithMaxTopHeaviest bounds the top-heaviest-entry tracker.
func WithMaxTopHeaviest(n int) Option {
	return func(c *Config) { c.MaxTopHeaviest = n }
}

// WithMaxCacheSizeBytes enables the capacity enforcer.
func WithMaxCacheSizeBytes(n int64) Option {
	return func(c *Config) { c.MaxCacheSizeBytes = n }
}

// WithEvictionStrategy selects the capacity-eviction order.
func WithEvictionStrategy(s EvictionStrategy) Option {
	return func(c *Config) { c.EvictionStrategy = s }
}

// WithValueSizer overrides the default ValueSizer.
func WithValueSizer(s ValueSizer) Option {
	return func(c *Config) { c.Sizer = s }
}

// WithSizerOptions configures the default ValueSizer's traversal limits.
func WithSizerOptions(opts SizerOptions) Option {
	return func(c *Config) { c.SizerOptions = opts }
}

// WithShardCount sets the entry-store shard count.
func WithShardCount(n int) Option {
	return func(c *Config) { c.ShardCount = n }
}

// WithLogger wires an internal diagnostics sink.
func WithLogger(l Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithStatisticsEnabled starts the cache with statistics already
// initialized, equivalent to calling InitializeStatistics immediately.
func WithStatisticsEnabled() Option {
	return func(c *Config) { c.StartWithStatistics = true }
}
