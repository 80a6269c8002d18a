package neighbor3d

import (
	"runtime"
	"sort"
)

// Options configures a Searcher at construction time.
type Options struct {
	// EraseEmptyCells, if true, compacts the cell index whenever a cell
	// loses its last member during UpdatePointSets or ResizePointSet.
	EraseEmptyCells bool

	// Workers bounds how many goroutines the two-pass traversal uses. A
	// value of 1 selects single-threaded execution with zero-cost no-op
	// locks; a value <= 0 (including the zero value) defaults to
	// runtime.GOMAXPROCS(0).
	Workers int
}

// Searcher is the central engine: it owns the cutoff radius, the cell
// index, every point set, and the activation matrix, and implements
// Refresh, UpdatePointSets, UpdateActivation, ResizePointSet, Zort and the
// FindNeighbors* query family.
type Searcher[T Float] struct {
	radius    T
	radiusSq  T
	invRadius T

	index *CellIndex
	sets  []*PointSet[T]

	activation    *ActivationMatrix
	oldActivation *ActivationMatrix

	eraseEmptyCells bool
	requiresRefresh bool

	workers     int
	lockFactory func() Locker
}

// NewSearcher constructs a Searcher for the given cutoff radius. Radius
// must be strictly positive; violating that is a programming error
// (debugAssert), not a recoverable one, per spec.md §7.
func NewSearcher[T Float](radius T, opts Options) *Searcher[T] {
	debugAssert(radius > 0, "radius must be positive")

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &Searcher[T]{
		radius:          radius,
		radiusSq:        radius * radius,
		invRadius:       1 / radius,
		index:           newCellIndex(),
		activation:      NewActivationMatrix(),
		oldActivation:   NewActivationMatrix(),
		eraseEmptyCells: opts.EraseEmptyCells,
		requiresRefresh: true,
		workers:         workers,
		lockFactory:     newLockFactory(workers),
	}
}

// Radius returns the current cutoff radius.
func (s *Searcher[T]) Radius() T { return s.radius }

// NumPointSets returns how many point sets have been added.
func (s *Searcher[T]) NumPointSets() int { return len(s.sets) }

// PointSet returns the point set with the given id.
func (s *Searcher[T]) PointSet(id uint32) *PointSet[T] {
	debugAssert(int(id) < len(s.sets), "point set index out of range")

	return s.sets[id]
}

// AddPointSet registers a new point set with the given initial positions,
// point count, dynamic flag (whether positions may move between queries)
// and activation flags, and returns its id. Marks requiresRefresh so the
// next UpdatePointSets (called directly or by FindNeighborsAllPairs(true))
// rebuilds the index to include it.
func (s *Searcher[T]) AddPointSet(positions []Vec3[T], n uint32, dynamic bool, flags ActivationFlags) (uint32, error) {
	if err := checkAllocSize(n); err != nil {
		return 0, err
	}

	ps := newPointSet(positions, n, dynamic, s.lockFactory)
	s.sets = append(s.sets, ps)

	id := s.activation.AddSet(flags)

	for _, other := range s.sets {
		other.ensureOtherSetsCapacity(len(s.sets))
	}

	s.requiresRefresh = true

	return id, nil
}

// SetAllActive sets every activation cell to active.
func (s *Searcher[T]) SetAllActive(active bool) {
	s.activation.SetAll(active)
	s.requiresRefresh = true
}

// SetPair sets a single directed activation i->j.
func (s *Searcher[T]) SetPair(i, j uint32, active bool) {
	s.activation.SetPair(i, j, active)
	s.requiresRefresh = true
}

// SetPairs sets all activations touching point-set i at once (its row,
// column and diagonal).
func (s *Searcher[T]) SetPairs(i uint32, flags ActivationFlags) {
	s.activation.SetPairs(i, flags)
	s.requiresRefresh = true
}

// Refresh discards and rebuilds the cell index from every set's current
// positions, and resizes every set's per-point locks to match its current
// point count. newRadius, if non-nil, replaces the cutoff radius first.
func (s *Searcher[T]) Refresh(newRadius *T) {
	if newRadius != nil {
		debugAssert(*newRadius > 0, "radius must be positive")

		s.radius = *newRadius
		s.radiusSq = s.radius * s.radius
		s.invRadius = 1 / s.radius
	}

	s.index.reset()

	for setID, ps := range s.sets {
		ps.ensureOtherSetsCapacity(len(s.sets))

		searching := s.activation.IsSearching(uint32(setID))

		for i := uint32(0); i < ps.n; i++ {
			key := cellKeyOf(ps.Point(i), s.invRadius)
			ps.keys[i] = key
			ps.oldKeys[i] = key

			idx := s.index.getOrCreate(key)
			s.index.entry(idx).Add(PointID{Set: uint32(setID), Index: i}, searching)
		}

		for j := range ps.locks {
			ps.ensureLocksForSet(uint32(j))
		}
	}

	s.requiresRefresh = false
}

// UpdatePointSets incrementally rehashes every dynamic set's positions
// (refreshing first if requiresRefresh is set) and, if EraseEmptyCells is
// on, compacts cells that lost their last member.
func (s *Searcher[T]) UpdatePointSets() {
	if s.requiresRefresh {
		s.Refresh(nil)
	}

	var toDelete []uint32

	for setID, ps := range s.sets {
		if !ps.dynamic {
			continue
		}

		ps.keys, ps.oldKeys = ps.oldKeys, ps.keys

		for i := uint32(0); i < ps.n; i++ {
			ps.keys[i] = cellKeyOf(ps.Point(i), s.invRadius)
		}

		searching := s.activation.IsSearching(uint32(setID))

		for i := uint32(0); i < ps.n; i++ {
			if ps.keys[i] == ps.oldKeys[i] {
				continue
			}

			pid := PointID{Set: uint32(setID), Index: i}

			newIdx := s.index.getOrCreate(ps.keys[i])
			s.index.entry(newIdx).Add(pid, searching)

			if oldIdx, ok := s.index.lookup(ps.oldKeys[i]); ok {
				s.index.entry(oldIdx).Remove(pid, searching)

				if s.eraseEmptyCells {
					if idx, empty := s.index.scheduleIfEmpty(oldIdx); empty {
						toDelete = append(toDelete, idx)
					}
				}
			}
		}
	}

	if s.eraseEmptyCells {
		s.index.compact(toDelete)
	}
}

// UpdateActivation rebuilds every cell entry's searching_count if the
// activation matrix has changed since the last call, then snapshots the
// matrix into oldActivation.
func (s *Searcher[T]) UpdateActivation() {
	if !s.activation.Equal(s.oldActivation) {
		n := s.index.snapshotLen()

		for idx := uint32(0); idx < uint32(n); idx++ {
			entry := s.index.entry(idx)

			count := 0

			for _, p := range entry.Indices {
				if s.activation.IsSearching(p.Set) {
					count++
				}
			}

			entry.SearchingCount = count
		}
	}

	s.oldActivation = s.activation.Clone()
}

// ResizePointSet trims or extends point set idx to newN points backed by
// newPositions. Fails with ErrInvalidState if requiresRefresh is set
// (the index must be fully rebuilt before a targeted resize can keep it
// consistent).
func (s *Searcher[T]) ResizePointSet(idx uint32, newPositions []Vec3[T], newN uint32) error {
	if s.requiresRefresh {
		return ErrInvalidState
	}

	debugAssert(int(idx) < len(s.sets), "point set index out of range")

	ps := s.sets[idx]
	oldN := ps.n

	searching := s.activation.IsSearching(idx)

	var toDelete []uint32

	if newN < oldN {
		for i := newN; i < oldN; i++ {
			pid := PointID{Set: idx, Index: i}

			if entryIdx, ok := s.index.lookup(ps.keys[i]); ok {
				s.index.entry(entryIdx).Remove(pid, searching)

				if s.eraseEmptyCells {
					if id, empty := s.index.scheduleIfEmpty(entryIdx); empty {
						toDelete = append(toDelete, id)
					}
				}
			}
		}
	}

	if err := ps.Resize(newPositions, newN); err != nil {
		return err
	}

	if newN > oldN {
		for i := oldN; i < newN; i++ {
			key := cellKeyOf(ps.Point(i), s.invRadius)

			ps.keys[i] = key
			ps.oldKeys[i] = key

			entryIdx := s.index.getOrCreate(key)
			s.index.entry(entryIdx).Add(PointID{Set: idx, Index: i}, searching)
		}
	}

	if s.eraseEmptyCells {
		s.index.compact(toDelete)
	}

	return nil
}

// Zort computes, for every set, a Morton-order permutation of its points
// and stores it as that set's sort table. External callers then call Sort
// on any parallel arrays they own to physically reorder them to match.
// Marks requiresRefresh, since point indices have been renumbered and
// every cell membership must be rebuilt.
func (s *Searcher[T]) Zort() {
	for _, ps := range s.sets {
		n := int(ps.n)

		codes := make([]uint64, n)
		table := make([]uint32, n)

		for i := 0; i < n; i++ {
			table[i] = uint32(i)
			codes[i] = mortonEncode(cellKeyOf(ps.Point(uint32(i)), s.invRadius))
		}

		sort.SliceStable(table, func(a, b int) bool {
			return codes[table[a]] < codes[table[b]]
		})

		ps.sortTable = table
	}

	s.requiresRefresh = true
}
