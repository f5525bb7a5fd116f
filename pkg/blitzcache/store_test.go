package blitzcache

import (
	"testing"
	"time"
)

func TestEntryStore_SetAndGet(t *testing.T) {
	s := newEntryStore[string, string](4)
	now := time.Now()

	if err := s.set("k", "v", time.Second, 3, 0, now, func(EvictReason) {}); err != nil {
		t.Fatalf("set: %v", err)
	}

	e, ok := s.tryGet("k", now)
	if !ok {
		t.Fatal("tryGet: expected present")
	}
	if e.value != "v" {
		t.Errorf("value = %q, want v", e.value)
	}
}

func TestEntryStore_RejectsNonPositiveTTL(t *testing.T) {
	s := newEntryStore[string, string](4)
	if err := s.set("k", "v", 0, 0, 0, time.Now(), func(EvictReason) {}); err == nil {
		t.Fatal("expected error for ttl <= 0")
	}
}

func TestEntryStore_ExpiryFiresCallbackOnce(t *testing.T) {
	s := newEntryStore[string, string](4)
	now := time.Now()

	var reasons []EvictReason
	onEvict := func(r EvictReason) { reasons = append(reasons, r) }

	if err := s.set("k", "v", 10*time.Millisecond, 1, 0, now, onEvict); err != nil {
		t.Fatalf("set: %v", err)
	}

	later := now.Add(50 * time.Millisecond)
	if _, ok := s.tryGet("k", later); ok {
		t.Fatal("tryGet after expiry: expected absent")
	}
	// A second access must not re-fire the callback.
	if _, ok := s.tryGet("k", later); ok {
		t.Fatal("second tryGet after expiry: expected absent")
	}

	if len(reasons) != 1 || reasons[0] != EvictExpired {
		t.Errorf("reasons = %v, want [Expired]", reasons)
	}
}

func TestEntryStore_OverwriteFiresOverwritten(t *testing.T) {
	s := newEntryStore[string, string](4)
	now := time.Now()

	var reasons []EvictReason
	onEvict := func(r EvictReason) { reasons = append(reasons, r) }

	if err := s.set("k", "v1", time.Second, 1, 0, now, onEvict); err != nil {
		t.Fatalf("set #1: %v", err)
	}
	if err := s.set("k", "v2", time.Second, 1, 0, now, onEvict); err != nil {
		t.Fatalf("set #2: %v", err)
	}

	if len(reasons) != 1 || reasons[0] != EvictOverwritten {
		t.Errorf("reasons = %v, want [Overwritten]", reasons)
	}

	e, ok := s.tryGet("k", now)
	if !ok || e.value != "v2" {
		t.Errorf("tryGet after overwrite = %v, %v, want v2, true", e, ok)
	}
}

func TestEntryStore_Remove(t *testing.T) {
	s := newEntryStore[string, string](4)
	now := time.Now()

	var reason EvictReason
	fired := false
	onEvict := func(r EvictReason) { reason = r; fired = true }

	if err := s.set("k", "v", time.Second, 1, 0, now, onEvict); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !s.remove("k") {
		t.Fatal("remove: expected true")
	}
	if !fired || reason != EvictManual {
		t.Errorf("fired=%v reason=%v, want true, Manual", fired, reason)
	}
	if s.remove("k") {
		t.Error("second remove: expected false (already absent)")
	}
}

func TestEntryStore_SweepExpired(t *testing.T) {
	s := newEntryStore[string, string](4)
	now := time.Now()

	var evicted int
	onEvict := func(EvictReason) { evicted++ }

	s.set("a", "1", 10*time.Millisecond, 1, 0, now, onEvict)
	s.set("b", "2", time.Hour, 1, 0, now, onEvict)

	s.sweepExpired(now.Add(50 * time.Millisecond))

	if evicted != 1 {
		t.Errorf("evicted = %d, want 1", evicted)
	}
	if s.size(now.Add(50 * time.Millisecond)) != 1 {
		t.Errorf("size = %d, want 1", s.size(now.Add(50*time.Millisecond)))
	}
}

func TestEntryStore_Dispose(t *testing.T) {
	s := newEntryStore[string, string](4)
	now := time.Now()

	var reasons []EvictReason
	onEvict := func(r EvictReason) { reasons = append(reasons, r) }

	s.set("a", "1", time.Hour, 1, 0, now, onEvict)
	s.set("b", "2", time.Hour, 1, 0, now, onEvict)
	s.dispose()

	if len(reasons) != 2 {
		t.Fatalf("reasons = %v, want 2 entries", reasons)
	}
	for _, r := range reasons {
		if r != EvictDisposed {
			t.Errorf("reason = %v, want Disposed", r)
		}
	}

	if err := s.set("c", "3", time.Hour, 1, 0, now, onEvict); !IsDisposed(err) {
		t.Errorf("set after dispose = %v, want ErrDisposed", err)
	}
}

func TestEntryStore_IterSnapshotSkipsExpired(t *testing.T) {
	s := newEntryStore[string, int](4)
	now := time.Now()

	s.set("live", 1, time.Hour, 8, 0, now, func(EvictReason) {})
	s.set("dead", 2, time.Millisecond, 8, 0, now, func(EvictReason) {})

	snap := s.iterSnapshot(now.Add(10 * time.Millisecond))
	if len(snap) != 1 || snap[0].key != "live" {
		t.Errorf("snapshot = %+v, want just [live]", snap)
	}
}
