package neighbor3d

import (
	"sync"

	"github.com/colega/zeropool"
)

// pointIDPool pools the scratch accumulators used by the pooled
// convenience wrappers around the two single-point query variants, the
// same role the teacher's nodePool plays for Search/QueryRect.
var pointIDPool = zeropool.New(func() []PointID { return make([]PointID, 0, 64) })

// neighborListBaselineCap is the capacity reserved for each neighbor list
// at the start of an AllPairs query, to cut down on reallocation during
// emission without over-committing memory for sparse configurations.
const neighborListBaselineCap = 8

// neighborDeltas enumerates the 27 cells of a 3x3x3 block (including the
// center, at index 13) in the order spec.md §4.6 fixes for the visited
// bitmask: linear index d = 9*(dx+1) + 3*(dy+1) + (dz+1).
var neighborDeltas = func() [27][3]int32 {
	var out [27][3]int32

	idx := 0

	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dz := int32(-1); dz <= 1; dz++ {
				out[idx] = [3]int32{dx, dy, dz}
				idx++
			}
		}
	}

	return out
}()

const centerDeltaIndex = 13

// FindNeighborsAllPairs runs the two-pass all-pairs traversal: if
// pointsChanged, it first calls UpdatePointSets, then always calls
// UpdateActivation, then traverses every searching cell and its 26
// neighbors, emitting edges into each point set's neighbor lists per the
// activation matrix.
func (s *Searcher[T]) FindNeighborsAllPairs(pointsChanged bool) {
	if pointsChanged {
		s.UpdatePointSets()
	}

	s.UpdateActivation()

	s.resetNeighborLists()

	n := s.index.snapshotLen()

	entryMu := make([]sync.Mutex, n)
	visited := make([][27]bool, n)

	runChunked(n, s.workers, func(lo, hi int) {
		// Pass A: same-cell pairs.
		for ci := lo; ci < hi; ci++ {
			entry := s.index.entry(uint32(ci))

			if entry.SearchingCount == 0 {
				continue
			}

			members := entry.Indices

			for a := 0; a < len(members); a++ {
				for b := a + 1; b < len(members); b++ {
					s.processPair(members[a], members[b])
				}
			}
		}

		// Pass B: neighbor-cell pairs.
		for ci := lo; ci < hi; ci++ {
			entry := s.index.entry(uint32(ci))

			for d, delta := range neighborDeltas {
				if d == centerDeltaIndex {
					continue
				}

				neighborKey := entry.Key.Add(delta[0], delta[1], delta[2])

				ni, ok := s.index.lookup(neighborKey)
				if !ok {
					continue
				}

				if !markVisited(entryMu, visited, uint32(ci), ni, d) {
					continue
				}

				other := s.index.entry(ni)

				for _, pa := range entry.Indices {
					for _, pb := range other.Indices {
						s.processPair(pa, pb)
					}
				}
			}
		}
	})
}

// markVisited checks and sets the visited bitmask for the unordered pair
// of entries (e, other) under delta d, acquiring both entries' short-lived
// mutexes in ascending index order (spec.md §5's entry lock ordering), and
// reports whether this is the first time this pair has been visited from
// either direction.
func markVisited(entryMu []sync.Mutex, visited [][27]bool, e, other uint32, d int) bool {
	lo, hi := e, other
	if lo > hi {
		lo, hi = hi, lo
	}

	entryMu[lo].Lock()

	if hi != lo {
		entryMu[hi].Lock()
	}

	already := visited[e][d]
	if !already {
		visited[e][d] = true
		visited[other][26-d] = true
	}

	if hi != lo {
		entryMu[hi].Unlock()
	}

	entryMu[lo].Unlock()

	return !already
}

// processPair applies the radius test to (pa, pb) and, for each direction
// whose activation is on, appends the partner id to the owner's neighbor
// list. Locks are acquired in the canonical (Set, Index) order regardless
// of which of pa/pb is "first", so concurrent workers never deadlock.
func (s *Searcher[T]) processPair(pa, pb PointID) {
	xa := s.sets[pa.Set].Point(pa.Index)
	xb := s.sets[pb.Set].Point(pb.Index)

	if xa.DistSq(xb) >= s.radiusSq {
		return
	}

	p1, p2 := canonicalPair(pa, pb)

	lock1 := s.sets[p1.Set].lockFor(p2.Set, p1.Index)
	lock2 := s.sets[p2.Set].lockFor(p1.Set, p2.Index)

	lock1.Lock()
	lock2.Lock()

	if s.activation.IsActive(pa.Set, pb.Set) {
		s.appendNeighbor(pa.Set, pa.Index, pb.Set, pb.Index)
	}

	if s.activation.IsActive(pb.Set, pa.Set) {
		s.appendNeighbor(pb.Set, pb.Index, pa.Set, pa.Index)
	}

	lock2.Unlock()
	lock1.Unlock()
}

func (s *Searcher[T]) appendNeighbor(ownerSet, ownerIdx, partnerSet, partnerIdx uint32) {
	owner := s.sets[ownerSet]
	owner.neighbors[partnerSet][ownerIdx] = append(owner.neighbors[partnerSet][ownerIdx], partnerIdx)
}

// resetNeighborLists prepares every set's neighbor lists for a fresh
// AllPairs query: resized to the current point count, cleared (with a
// baseline capacity reserved) for active pairs, and emptied without
// reserving capacity for inactive ones.
func (s *Searcher[T]) resetNeighborLists() {
	numSets := len(s.sets)

	for i, owner := range s.sets {
		owner.ensureOtherSetsCapacity(numSets)

		n := int(owner.n)

		for j := 0; j < numSets; j++ {
			if len(owner.neighbors[j]) != n {
				owner.neighbors[j] = make([][]uint32, n)
			}

			owner.ensureLocksForSet(uint32(j))

			if !s.activation.IsActive(uint32(i), uint32(j)) {
				for k := range owner.neighbors[j] {
					owner.neighbors[j][k] = owner.neighbors[j][k][:0]
				}

				continue
			}

			for k := range owner.neighbors[j] {
				if owner.neighbors[j][k] == nil {
					owner.neighbors[j][k] = make([]uint32, 0, neighborListBaselineCap)
				} else {
					owner.neighbors[j][k] = owner.neighbors[j][k][:0]
				}
			}
		}
	}
}

// FindNeighborsAtSetPoint scans the cell containing point i of set setID
// and its 26 neighbor cells, appending every point whose squared distance
// is under the radius and whose owning set setID is active toward
// (IsActive(setID, owner)), into out. The query point itself is skipped.
func (s *Searcher[T]) FindNeighborsAtSetPoint(setID, i uint32, out *[]PointID) {
	debugAssert(int(setID) < len(s.sets), "point set index out of range")

	self := PointID{Set: setID, Index: i}
	coord := s.sets[setID].Point(i)

	s.scanCells(coord, func(p PointID) bool {
		if p == self {
			return false
		}

		return s.activation.IsActive(setID, p.Set)
	}, out)
}

// FindNeighborsAtPoint scans the 27 cells centered on an ad-hoc coordinate
// (one not belonging to any point set) and appends every point within the
// radius to out, unconditionally of activation (an ad-hoc query point has
// no set id to test activation against).
func (s *Searcher[T]) FindNeighborsAtPoint(coord Vec3[T], out *[]PointID) {
	s.scanCells(coord, func(PointID) bool { return true }, out)
}

// SearchAtPoint is a pooled convenience wrapper over FindNeighborsAtPoint
// for callers that don't want to own a reusable accumulator: it borrows a
// scratch buffer from pointIDPool and returns a freshly copied result.
func (s *Searcher[T]) SearchAtPoint(coord Vec3[T]) []PointID {
	buf := pointIDPool.Get()
	defer pointIDPool.Put(buf)

	acc := buf[:0]

	s.FindNeighborsAtPoint(coord, &acc)

	out := make([]PointID, len(acc))
	copy(out, acc)

	return out
}

// SearchAtSetPoint is the FindNeighborsAtSetPoint counterpart of
// SearchAtPoint.
func (s *Searcher[T]) SearchAtSetPoint(setID, i uint32) []PointID {
	buf := pointIDPool.Get()
	defer pointIDPool.Put(buf)

	acc := buf[:0]

	s.FindNeighborsAtSetPoint(setID, i, &acc)

	out := make([]PointID, len(acc))
	copy(out, acc)

	return out
}

// scanCells is the shared 27-cell scan used by both single-point query
// variants.
func (s *Searcher[T]) scanCells(coord Vec3[T], accept func(PointID) bool, out *[]PointID) {
	*out = (*out)[:0]

	center := cellKeyOf(coord, s.invRadius)

	for _, delta := range neighborDeltas {
		key := center.Add(delta[0], delta[1], delta[2])

		idx, ok := s.index.lookup(key)
		if !ok {
			continue
		}

		entry := s.index.entry(idx)

		for _, p := range entry.Indices {
			if !accept(p) {
				continue
			}

			if s.sets[p.Set].Point(p.Index).DistSq(coord) >= s.radiusSq {
				continue
			}

			*out = append(*out, p)
		}
	}
}
