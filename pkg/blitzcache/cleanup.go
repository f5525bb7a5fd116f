package blitzcache

import (
	"sync"
	"time"
)

// cleanupLoop is the C7 periodic tick: a ticker-driven goroutine that
// invokes tick(now) until stop is called. Cancellation-safe per spec.md
// §4.7 — stop() blocks until the goroutine has exited before returning, so
// Dispose can safely tear down C1/C2 immediately after.
type cleanupLoop struct {
	ticker   *time.Ticker
	done     chan struct{}
	exited   chan struct{}
	stopOnce sync.Once
}

// startCleanupLoop starts the tick immediately and returns a handle whose
// stop() halts it. tick is called with the current time on every interval;
// the caller (New) supplies a closure that sweeps C1 and C2.
func startCleanupLoop(tick func(now time.Time), interval time.Duration) *cleanupLoop {
	l := &cleanupLoop{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go func() {
		defer close(l.exited)
		for {
			select {
			case now := <-l.ticker.C:
				tick(now)
			case <-l.done:
				return
			}
		}
	}()
	return l
}

// stop halts the ticker and blocks until the goroutine has exited, so the
// caller can safely tear down C1/C2 immediately afterward.
func (l *cleanupLoop) stop() {
	l.stopOnce.Do(func() {
		l.ticker.Stop()
		close(l.done)
	})
	<-l.exited
}
