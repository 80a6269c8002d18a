package neighbor3d

import "sync"

// ActivationFlags are the two independent bits a new point set contributes
// to the activation matrix when it is added.
type ActivationFlags struct {
	// SearchNeighbors means this set's points are "searching": they
	// contribute to every cell entry's searching_count and fill the new
	// row of the matrix.
	SearchNeighbors bool

	// FindNeighbors means other sets can find this set's points as
	// neighbors: it fills the new column of the matrix.
	FindNeighbors bool
}

// ActivationMatrix is a square, row-major 0/1 adjacency table over
// point-set indices. IsActive(i,j) answers "does set i emit edges toward
// set j". It is safe for concurrent reads; mutation is always
// single-writer (called from the searcher's maintenance path, never from
// a query).
type ActivationMatrix struct {
	mu   sync.RWMutex
	rows [][]bool
}

// NewActivationMatrix returns an empty (0x0) matrix.
func NewActivationMatrix() *ActivationMatrix {
	return &ActivationMatrix{}
}

// Len returns the current number of point sets (N, for an NxN matrix).
func (a *ActivationMatrix) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return len(a.rows)
}

// AddSet grows the matrix from NxN to (N+1)x(N+1) and returns the new
// index N. The new column (existing rows) is filled with flags.FindNeighbors;
// the new row is filled with flags.SearchNeighbors, which also determines
// the new diagonal cell since the diagonal belongs to the new row.
func (a *ActivationMatrix) AddSet(flags ActivationFlags) uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := len(a.rows)

	for i := range a.rows {
		a.rows[i] = append(a.rows[i], flags.FindNeighbors)
	}

	newRow := make([]bool, n+1)
	for j := range newRow {
		newRow[j] = flags.SearchNeighbors
	}

	a.rows = append(a.rows, newRow)

	return uint32(n)
}

// SetAll fills every cell with active.
func (a *ActivationMatrix) SetAll(active bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.rows {
		for j := range a.rows[i] {
			a.rows[i][j] = active
		}
	}
}

// SetPair sets a single directed activation i->j.
func (a *ActivationMatrix) SetPair(i, j uint32, active bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	debugAssert(int(i) < len(a.rows) && int(j) < len(a.rows), "activation index out of range")

	a.rows[i][j] = active
}

// SetPairs sets all activations touching index i at once: column i (for
// every row) takes flags.FindNeighbors, row i takes flags.SearchNeighbors,
// and the diagonal [i][i] — touched by both — takes the conjunction.
func (a *ActivationMatrix) SetPairs(i uint32, flags ActivationFlags) {
	a.mu.Lock()
	defer a.mu.Unlock()

	debugAssert(int(i) < len(a.rows), "activation index out of range")

	for r := range a.rows {
		a.rows[r][i] = flags.FindNeighbors
	}

	for c := range a.rows[i] {
		a.rows[i][c] = flags.SearchNeighbors
	}

	a.rows[i][i] = flags.FindNeighbors && flags.SearchNeighbors
}

// IsActive reports whether directed pair (i,j) is active.
func (a *ActivationMatrix) IsActive(i, j uint32) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	debugAssert(int(i) < len(a.rows) && int(j) < len(a.rows), "activation index out of range")

	return a.rows[i][j]
}

// IsSearching reports whether set i has any active outgoing pair (the OR
// of row i).
func (a *ActivationMatrix) IsSearching(i uint32) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	debugAssert(int(i) < len(a.rows), "activation index out of range")

	for _, v := range a.rows[i] {
		if v {
			return true
		}
	}

	return false
}

// Clone returns an independent deep copy, used to snapshot the matrix into
// old_activation after propagation (spec.md §4.4).
func (a *ActivationMatrix) Clone() *ActivationMatrix {
	a.mu.RLock()
	defer a.mu.RUnlock()

	rows := make([][]bool, len(a.rows))
	for i, row := range a.rows {
		rows[i] = append([]bool(nil), row...)
	}

	return &ActivationMatrix{rows: rows}
}

// Equal reports cell-by-cell equality against another matrix.
func (a *ActivationMatrix) Equal(b *ActivationMatrix) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(a.rows) != len(b.rows) {
		return false
	}

	for i := range a.rows {
		if len(a.rows[i]) != len(b.rows[i]) {
			return false
		}

		for j := range a.rows[i] {
			if a.rows[i][j] != b.rows[i][j] {
				return false
			}
		}
	}

	return true
}
