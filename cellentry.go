package neighbor3d

// PointID identifies a point by the set it belongs to and its index within
// that set's arrays. Equality is componentwise (plain struct equality).
type PointID struct {
	Set   uint32
	Index uint32
}

// less reports whether p sorts before o in the canonical (Set, Index)
// lexicographic order used for lock acquisition (spec.md §5) and for
// sorting entry members when tests compare index states.
func (p PointID) less(o PointID) bool {
	if p.Set != o.Set {
		return p.Set < o.Set
	}

	return p.Index < o.Index
}

// canonicalPair returns (p1, p2) such that p1 <= p2 in the canonical order,
// for acquiring the two point locks touched by an edge in a fixed order.
func canonicalPair(a, b PointID) (PointID, PointID) {
	if b.less(a) {
		return b, a
	}

	return a, b
}

// CellEntry is the unordered multiset of points currently occupying one
// lattice cell, plus the count of members whose set is "searching"
// (spec.md §3). Duplicates are allowed on Add; Remove is first-match
// swap-remove.
type CellEntry struct {
	// Key is the cell this entry represents, carried on the entry itself
	// (rather than looked up in reverse from the index map) so Pass B can
	// compute neighbor-cell keys and so compaction can rewrite the hash
	// map without a reverse index.
	Key CellKey

	Indices        []PointID
	SearchingCount int
}

// newCellEntry returns an empty entry for the given cell.
func newCellEntry(key CellKey) *CellEntry {
	return &CellEntry{Key: key}
}

// Add appends p to the entry, bumping SearchingCount if p's owning set is
// currently searching. Never dedups.
func (e *CellEntry) Add(p PointID, searching bool) {
	e.Indices = append(e.Indices, p)

	if searching {
		e.SearchingCount++
	}
}

// Remove deletes the first occurrence of p (swap-remove with the last
// element) and decrements SearchingCount if searching is true. Reports
// whether p was found.
func (e *CellEntry) Remove(p PointID, searching bool) bool {
	for i, q := range e.Indices {
		if q == p {
			last := len(e.Indices) - 1

			e.Indices[i] = e.Indices[last]
			e.Indices = e.Indices[:last]

			if searching {
				e.SearchingCount--
			}

			return true
		}
	}

	return false
}

// Empty reports whether the entry has no members left.
func (e *CellEntry) Empty() bool { return len(e.Indices) == 0 }
