package neighbor3d

import "math"

// sentinelCellKey is the "not yet placed" marker: an INT32_MIN splat,
// assigned to keys/oldKeys before a point has ever been hashed.
var sentinelCellKey = CellKey{math.MinInt32, math.MinInt32, math.MinInt32}

// CellKey is the integer lattice cell a point is mapped to. Equality is
// componentwise (plain struct equality).
type CellKey struct {
	X, Y, Z int32
}

// Add returns k with each axis offset by the corresponding delta, used to
// walk the 26 neighbor cells during the two-pass traversal.
func (k CellKey) Add(dx, dy, dz int32) CellKey {
	return CellKey{k.X + dx, k.Y + dy, k.Z + dz}
}

// Hash is the 64-bit spatial hash used to key the cell index's concurrent
// map: (73856093*kx) XOR (19349663*ky) XOR (83492791*kz) computed in
// wrapping 64-bit arithmetic and reinterpreted as unsigned.
func (k CellKey) Hash() uint64 {
	const (
		p1 = 73856093
		p2 = 19349663
		p3 = 83492791
	)

	hx := uint64(p1 * int64(k.X))
	hy := uint64(p2 * int64(k.Y))
	hz := uint64(p3 * int64(k.Z))

	return hx ^ hy ^ hz
}

// cellFloor computes floor(c * invCellSize) as a signed 32-bit lattice
// coordinate, implementing true floor (not truncation) for negative inputs.
func cellFloor[T Float](c, invCellSize T) int32 {
	return int32(math.Floor(float64(c) * float64(invCellSize)))
}

// cellKeyOf maps a point to its cell key under the given inverse cell size
// (1/r, since cell size equals the cutoff radius).
func cellKeyOf[T Float](p Vec3[T], invCellSize T) CellKey {
	return CellKey{
		X: cellFloor(p[0], invCellSize),
		Y: cellFloor(p[1], invCellSize),
		Z: cellFloor(p[2], invCellSize),
	}
}
