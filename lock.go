package neighbor3d

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Locker is satisfied by both the fine-grained spin lock and the no-op
// lock; it is exactly sync.Locker, named locally so callers of this
// package never need to import sync for it.
type Locker = sync.Locker

// spinLock is a one-machine-word mutex: an atomic.Bool acquired with
// compare-and-swap, yielding to the scheduler on contention. Used for the
// per-point neighbor-list locks, which are held for the brief span of a
// single list append and contended across many goroutines, so a spin-yield
// loop beats a heavier sync.Mutex.
type spinLock struct {
	held atomic.Bool
}

func (l *spinLock) Lock() {
	for !l.held.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
}

func (l *spinLock) Unlock() {
	l.held.Store(false)
}

// noopLock is the zero-cost lock selected when the searcher is configured
// for single-threaded use (Options.Workers == 1, or a GOMAXPROCS default of
// 1): there is only ever one
// worker, so mutual exclusion is unnecessary.
type noopLock struct{}

func (noopLock) Lock()   {}
func (noopLock) Unlock() {}

// newLockFactory returns the constructor used to populate a PointSet's
// per-point lock tables: spin locks for concurrent (multi-worker) searchers,
// the no-op lock otherwise.
func newLockFactory(workers int) func() Locker {
	if workers <= 1 {
		return func() Locker { return noopLock{} }
	}

	return func() Locker { return &spinLock{} }
}
