package neighbor3d

import (
	"sort"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
)

// CellIndex maps cell keys to entry indices. entries is an append-only
// vector of CellEntry; gaps appear only transiently, during
// erase-empty-cell compaction, which immediately renumbers everything.
//
// The hash table itself is keyed by the 64-bit spatial hash of a CellKey
// rather than the CellKey struct, the direct generalization of the
// teacher's own "combine coordinates into one integer, map off of that"
// idiom (calculatePositionKey / sh.buckets). The prime-XOR hash is not
// injective, so each bucket holds a chain of entry indices; getOrCreate and
// lookup walk the chain and compare against CellEntry.Key to disambiguate
// a true hash collision from a cache hit, the same role Key already plays
// during compact's hash-map rewrite.
type CellIndex struct {
	mu sync.RWMutex

	hash    *xsync.Map[uint64, []uint32]
	entries []CellEntry
}

func newCellIndex() *CellIndex {
	return &CellIndex{hash: xsync.NewMap[uint64, []uint32]()}
}

// reset discards all entries and map state; used by Refresh's full rebuild.
func (ci *CellIndex) reset() {
	ci.mu.Lock()
	defer ci.mu.Unlock()

	ci.hash.Clear()
	ci.entries = ci.entries[:0]
}

// getOrCreate returns the entry index for key, appending a new empty entry
// if one doesn't exist yet. Only called from the searcher's single-writer
// maintenance path (never concurrently with a query or with another
// maintenance call).
func (ci *CellIndex) getOrCreate(key CellKey) uint32 {
	ci.mu.Lock()
	defer ci.mu.Unlock()

	h := key.Hash()

	chain, _ := ci.hash.Load(h)

	for _, idx := range chain {
		if ci.entries[idx].Key == key {
			return idx
		}
	}

	idx := uint32(len(ci.entries))

	ci.entries = append(ci.entries, *newCellEntry(key))
	ci.hash.Store(h, append(chain, idx))

	return idx
}

// lookup returns the entry index for key without creating it. Safe for
// concurrent calls during a query: entries/hash are read-only for the
// duration of any query.
func (ci *CellIndex) lookup(key CellKey) (uint32, bool) {
	ci.mu.RLock()
	defer ci.mu.RUnlock()

	chain, _ := ci.hash.Load(key.Hash())

	for _, idx := range chain {
		if ci.entries[idx].Key == key {
			return idx, true
		}
	}

	return 0, false
}

// entry returns a pointer into the entries vector. Valid only between
// maintenance calls (a compaction invalidates all previously returned
// pointers, per spec.md §9's "do not rely on pointer identity across
// compaction").
func (ci *CellIndex) entry(idx uint32) *CellEntry {
	ci.mu.RLock()
	defer ci.mu.RUnlock()

	return &ci.entries[idx]
}

// snapshotLen returns the number of entries, for sizing per-query scratch
// state (visited bitmasks, entry mutexes) before a traversal begins.
func (ci *CellIndex) snapshotLen() int {
	ci.mu.RLock()
	defer ci.mu.RUnlock()

	return len(ci.entries)
}

// scheduleIfEmpty returns idx as a deletion candidate if its entry has no
// members left, for the caller to accumulate into a descending-sorted
// buffer ahead of compact.
func (ci *CellIndex) scheduleIfEmpty(idx uint32) (uint32, bool) {
	ci.mu.RLock()
	defer ci.mu.RUnlock()

	if ci.entries[idx].Empty() {
		return idx, true
	}

	return 0, false
}

// compact removes the entries named in toDelete (in any order; duplicates
// tolerated) and rewrites the hash map so every surviving entry's key maps
// to its new position. Uses stable indices, never pointer identity.
func (ci *CellIndex) compact(toDelete []uint32) {
	if len(toDelete) == 0 {
		return
	}

	ci.mu.Lock()
	defer ci.mu.Unlock()

	sort.Slice(toDelete, func(i, j int) bool { return toDelete[i] < toDelete[j] })

	del := make(map[uint32]struct{}, len(toDelete))
	for _, idx := range toDelete {
		del[idx] = struct{}{}
	}

	survivors := make([]CellEntry, 0, len(ci.entries)-len(del))

	for i := range ci.entries {
		if _, dead := del[uint32(i)]; dead {
			continue
		}

		survivors = append(survivors, ci.entries[i])
	}

	ci.entries = survivors

	// Renumbering invalidates every chain wholesale, so the map is rebuilt
	// from scratch rather than patched entry-by-entry.
	ci.hash.Clear()

	for newIdx := range ci.entries {
		h := ci.entries[newIdx].Key.Hash()
		chain, _ := ci.hash.Load(h)
		ci.hash.Store(h, append(chain, uint32(newIdx)))
	}
}
