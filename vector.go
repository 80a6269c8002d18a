package neighbor3d

import "golang.org/x/exp/constraints"

// Float is the type parameter bound for point coordinates: a 32- or 64-bit
// floating type. Positions, radii and distances are all expressed in T.
type Float = constraints.Float

// Vec3 is an ordered 3-tuple of a floating type with indexed and named
// element access. It is the only math container type this package assumes
// about its caller: a bare [3]T, not an interface, since the searcher owns
// point storage directly rather than borrowing caller objects.
type Vec3[T Float] [3]T

// Component returns the i-th element (0=x, 1=y, 2=z).
func (v Vec3[T]) Component(i int) T { return v[i] }

// X returns the first element.
func (v Vec3[T]) X() T { return v[0] }

// Y returns the second element.
func (v Vec3[T]) Y() T { return v[1] }

// Z returns the third element.
func (v Vec3[T]) Z() T { return v[2] }

// Sub returns v - o.
func (v Vec3[T]) Sub(o Vec3[T]) Vec3[T] {
	return Vec3[T]{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// DistSq returns the squared Euclidean distance between v and o.
func (v Vec3[T]) DistSq(o Vec3[T]) T {
	d := v.Sub(o)

	return d[0]*d[0] + d[1]*d[1] + d[2]*d[2]
}
