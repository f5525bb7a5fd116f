package blitzcache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestCleanupLoop_TicksUntilStopped(t *testing.T) {
	var ticks atomic.Int32
	l := startCleanupLoop(func(time.Time) { ticks.Add(1) }, 10*time.Millisecond)

	time.Sleep(55 * time.Millisecond)
	l.stop()

	if got := ticks.Load(); got < 3 {
		t.Errorf("ticks = %d, want >= 3 in 55ms at 10ms interval", got)
	}

	after := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	if ticks.Load() != after {
		t.Error("cleanup loop kept ticking after stop()")
	}
}

func TestCache_CleanupSweepsIdleKeyMutexesAndExpiredEntries(t *testing.T) {
	c, err := New[string, string](
		WithCleanupInterval(10*time.Millisecond),
		WithProtectionWindow(10*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Dispose()

	ctx := context.Background()
	if _, err := c.Get(ctx, "k", Simple(func(context.Context) (string, error) { return "v", nil }), 20*time.Millisecond); err != nil {
		t.Fatalf("Get: %v", err)
	}

	time.Sleep(150 * time.Millisecond)

	if n := c.registry.count(); n != 0 {
		t.Errorf("registry.count() = %d, want 0 after idle sweep", n)
	}
	if n := c.store.size(time.Now()); n != 0 {
		t.Errorf("store.size() = %d, want 0 after TTL sweep", n)
	}
}
