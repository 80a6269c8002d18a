package neighbor3d

import "errors"

// Recoverable error kinds, per spec.md §7. Every other contract violation
// (out-of-range indices, non-positive radius, a ragged activation matrix)
// is a programming error caught by debugAssert, not one of these.
var (
	// ErrAllocFailure is returned when a requested allocation size is
	// rejected outright (an absurd or overflowing point count), standing
	// in for the allocator-induced failures spec.md §7 describes. Go does
	// not recover from true out-of-memory conditions, so this models the
	// cases this package can proactively refuse.
	ErrAllocFailure = errors.New("neighbor3d: allocation failure")

	// ErrInvalidState is returned by ResizePointSet when requiresRefresh
	// is set: the caller must call UpdatePointSets (or let the next
	// FindNeighborsAllPairs(true) do it) before resizing.
	ErrInvalidState = errors.New("neighbor3d: invalid state: refresh required before resize")

	// ErrInvalidOrMissingTable is returned by Sort when Zort has not been
	// run yet, or when the array to reorder is empty.
	ErrInvalidOrMissingTable = errors.New("neighbor3d: sort table missing or array empty")
)

// debugAssert panics with msg when ok is false. It is the package's
// programming-error boundary: callers that trip it have violated a
// documented precondition (bad index, non-positive radius, ...), not
// triggered a recoverable runtime condition.
func debugAssert(ok bool, msg string) {
	if !ok {
		panic("neighbor3d: " + msg)
	}
}

// checkAllocSize guards against absurd or overflowing counts before a make/
// append that would otherwise either panic deep in the runtime or wrap
// around a 32-bit index space.
func checkAllocSize(n uint32) error {
	const maxReasonableCount = 1 << 28

	if n > maxReasonableCount {
		return ErrAllocFailure
	}

	return nil
}
