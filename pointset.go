package neighbor3d

// PointSet owns one set's positions, its double-buffered cell keys, the
// per-partner-set neighbor lists the searcher emits into, and the
// fine-grained locks guarding those lists. Created with initial positions;
// mutated by Resize, by external in-place position edits between queries
// (only legal for dynamic sets), and by the searcher's neighbor emission.
type PointSet[T Float] struct {
	positions []Vec3[T]
	n         uint32
	dynamic   bool

	keys    []CellKey
	oldKeys []CellKey

	// neighbors[j][i] is the list of ids in set j that are neighbors of
	// (self, i). Indexed lazily: grown to len(sets) the first time the
	// searcher needs it.
	neighbors [][][]uint32

	// locks[j][i] guards neighbors[j][i].
	locks [][]Locker

	sortTable []uint32

	newLock func() Locker
}

func newPointSet[T Float](positions []Vec3[T], n uint32, dynamic bool, newLock func() Locker) *PointSet[T] {
	keys := make([]CellKey, n)
	oldKeys := make([]CellKey, n)

	for i := range keys {
		keys[i] = sentinelCellKey
		oldKeys[i] = sentinelCellKey
	}

	return &PointSet[T]{
		positions: positions,
		n:         n,
		dynamic:   dynamic,
		keys:      keys,
		oldKeys:   oldKeys,
		newLock:   newLock,
	}
}

// Point returns point i's coordinates.
func (ps *PointSet[T]) Point(i uint32) Vec3[T] {
	debugAssert(i < ps.n, "point index out of range")

	return ps.positions[i]
}

// N returns the point count.
func (ps *PointSet[T]) N() uint32 { return ps.n }

// Dynamic reports whether this set's positions may change between
// refreshes.
func (ps *PointSet[T]) Dynamic() bool { return ps.dynamic }

// NeighborCount returns the number of neighbors point i has in set j.
func (ps *PointSet[T]) NeighborCount(j, i uint32) int {
	debugAssert(i < ps.n, "point index out of range")

	if int(j) >= len(ps.neighbors) || i >= uint32(len(ps.neighbors[j])) {
		return 0
	}

	return len(ps.neighbors[j][i])
}

// FetchNeighbor returns the k-th neighbor of point i in set j.
func (ps *PointSet[T]) FetchNeighbor(j, i uint32, k int) uint32 {
	debugAssert(i < ps.n, "point index out of range")
	debugAssert(int(j) < len(ps.neighbors) && i < uint32(len(ps.neighbors[j])), "neighbor set index out of range")
	debugAssert(k >= 0 && k < len(ps.neighbors[j][i]), "neighbor slot out of range")

	return ps.neighbors[j][i][k]
}

// FetchNeighborList returns an owned copy of point i's neighbor list in
// set j.
func (ps *PointSet[T]) FetchNeighborList(j, i uint32) []uint32 {
	debugAssert(i < ps.n, "point index out of range")

	if int(j) >= len(ps.neighbors) || i >= uint32(len(ps.neighbors[j])) {
		return nil
	}

	src := ps.neighbors[j][i]
	out := make([]uint32, len(src))
	copy(out, src)

	return out
}

// ensureOtherSetsCapacity grows the neighbors/locks outer (partner-set)
// dimension to numSets, lazily, the first time the searcher learns the
// total point-set count. Each new neighbors[j] holds one empty list per
// point; new locks[j] rows stay empty until ensureLocksForSet fills them.
func (ps *PointSet[T]) ensureOtherSetsCapacity(numSets int) {
	for len(ps.neighbors) < numSets {
		ps.neighbors = append(ps.neighbors, make([][]uint32, ps.n))
	}

	for len(ps.locks) < numSets {
		ps.locks = append(ps.locks, nil)
	}
}

// ensureLocksForSet grows locks[j] to the current point count, filling new
// slots with fresh lock instances.
func (ps *PointSet[T]) ensureLocksForSet(j uint32) {
	row := ps.locks[j]

	for uint32(len(row)) < ps.n {
		row = append(row, ps.newLock())
	}

	ps.locks[j] = row
}

// lockFor returns the lock guarding neighbors[j][i].
func (ps *PointSet[T]) lockFor(j, i uint32) Locker {
	return ps.locks[j][i]
}

// Resize trims or extends the point set's per-point arrays to match
// newPositions/newN. Entries up to min(old, new) are preserved; newly
// added keys are sentinel (the caller must rehash them, which the
// searcher does immediately after calling Resize).
func (ps *PointSet[T]) Resize(newPositions []Vec3[T], newN uint32) error {
	if err := checkAllocSize(newN); err != nil {
		return err
	}

	oldN := ps.n

	ps.positions = newPositions
	ps.n = newN

	if newN <= oldN {
		ps.keys = ps.keys[:newN]
		ps.oldKeys = ps.oldKeys[:newN]
	} else {
		for uint32(len(ps.keys)) < newN {
			ps.keys = append(ps.keys, sentinelCellKey)
			ps.oldKeys = append(ps.oldKeys, sentinelCellKey)
		}
	}

	for j := range ps.neighbors {
		if newN <= oldN {
			if uint32(len(ps.neighbors[j])) > newN {
				ps.neighbors[j] = ps.neighbors[j][:newN]
			}

			if uint32(len(ps.locks[j])) > newN {
				ps.locks[j] = ps.locks[j][:newN]
			}
		} else {
			for uint32(len(ps.neighbors[j])) < newN {
				ps.neighbors[j] = append(ps.neighbors[j], nil)
			}

			ps.ensureLocksForSet(uint32(j))
		}
	}

	return nil
}

// SortTable returns the permutation computed by the last Zort call (nil if
// Zort has never run).
func (ps *PointSet[T]) SortTable() []uint32 { return ps.sortTable }

// Sort reorders arr in place according to ps's sort table: arr[i] becomes
// whatever currently sits at arr[sortTable[i]]. Fails with
// ErrInvalidOrMissingTable if Zort has not been run, or arr is empty. This
// is how external callers physically reorder caller-owned parallel arrays
// (e.g. a renderer's vertex buffer) to match the point indices Zort
// renumbered internally.
func Sort[F Float, E any](ps *PointSet[F], arr []E) error {
	if len(ps.sortTable) == 0 || len(arr) == 0 {
		return ErrInvalidOrMissingTable
	}

	debugAssert(len(arr) == len(ps.sortTable), "array length does not match sort table")

	tmp := make([]E, len(arr))
	for i, srcIdx := range ps.sortTable {
		tmp[i] = arr[srcIdx]
	}

	copy(arr, tmp)

	return nil
}
