package blitzcache

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Cache operations. See §7 of the design spec
// for the full disposition table.
var (
	// ErrArgumentMissing indicates a required argument was missing: Get and
	// Update return it for a nil producer. Keys are not checked; any key
	// value, including the zero value of K, is accepted.
	ErrArgumentMissing = errors.New("blitzcache: required argument missing")

	// ErrDisposed indicates an operation was attempted after Dispose.
	ErrDisposed = errors.New("blitzcache: cache disposed")

	// ErrNotFound indicates the requested key has no live entry.
	ErrNotFound = errors.New("blitzcache: key not found")

	// ErrStatisticsUnavailable indicates Statistics() was called before
	// InitializeStatistics().
	ErrStatisticsUnavailable = errors.New("blitzcache: statistics not initialized")

	// ErrGlobalNotDisposable indicates Dispose was called on the process-wide
	// shared instance, which user code may never tear down.
	ErrGlobalNotDisposable = errors.New("blitzcache: the global instance cannot be disposed")
)

// ProducerError wraps a failure returned by a caller-supplied producer
// function. The coordinator never swallows this: it is returned to the
// caller whose producer failed. Callers queued on the same key do not
// receive it; each re-probes once it holds the key and, finding no entry,
// runs its own producer.
type ProducerError struct {
	Key string
	Err error
}

// Error implements the error interface.
func (e *ProducerError) Error() string {
	return fmt.Sprintf("blitzcache: producer failed for key %q: %v", e.Key, e.Err)
}

// Unwrap returns the underlying error so errors.Is/As reach the producer's
// original error.
func (e *ProducerError) Unwrap() error {
	return e.Err
}

// WrapProducerError wraps err with the key that was being produced. Returns
// nil if err is nil.
func WrapProducerError(key string, err error) error {
	if err == nil {
		return nil
	}
	return &ProducerError{Key: key, Err: err}
}

// SizerError wraps a failure from a pluggable ValueSizer. Sizer failures
// never abort insertion — see §7: a conservative fallback size is used and
// the failure is only logged.
type SizerError struct {
	Err error
}

// Error implements the error interface.
func (e *SizerError) Error() string {
	return fmt.Sprintf("blitzcache: sizer failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *SizerError) Unwrap() error {
	return e.Err
}

// IsDisposed returns true if err is or wraps ErrDisposed.
func IsDisposed(err error) bool {
	return errors.Is(err, ErrDisposed)
}

// IsNotFound returns true if err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsProducerFailure returns true if err is or wraps a ProducerError, and
// returns the wrapped error alongside.
func IsProducerFailure(err error) (*ProducerError, bool) {
	var pe *ProducerError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsArgumentMissing returns true if err is or wraps ErrArgumentMissing.
func IsArgumentMissing(err error) bool {
	return errors.Is(err, ErrArgumentMissing)
}
