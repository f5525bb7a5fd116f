package blitzcache

import "time"

// Nuances is a scratch object a producer may optionally accept. Through it,
// the producer can override the TTL of the entry it is about to create,
// independent of the ttl argument passed to Get/Update or the cache's
// default TTL. See spec.md §3 ("Nuances") and §4.6.1 step 5.
type Nuances struct {
	// cacheRetention is the caller-set override, in milliseconds. It applies
	// only when set is true (a zero or negative value then means "do not
	// cache"); while set is false the coordinator falls back to the ttl
	// argument, then to the cache's default TTL.
	cacheRetention int64
	set            bool
}

// SetCacheRetention records the desired TTL, in milliseconds, for the entry
// about to be produced. A value <= 0 is a valid, deliberate "do not cache"
// signal (see spec.md §8, "zero timeout means do not cache").
func (n *Nuances) SetCacheRetention(ttl time.Duration) {
	n.cacheRetention = ttl.Milliseconds()
	n.set = true
}

// cacheRetentionDuration returns the override and whether one was set.
func (n *Nuances) cacheRetentionDuration() (time.Duration, bool) {
	if n == nil || !n.set {
		return 0, false
	}
	return time.Duration(n.cacheRetention) * time.Millisecond, true
}
