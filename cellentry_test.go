package neighbor3d

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellEntryAddSearchingCount(t *testing.T) {
	e := newCellEntry(CellKey{0, 0, 0})

	e.Add(PointID{Set: 0, Index: 1}, true)
	e.Add(PointID{Set: 0, Index: 2}, false)
	e.Add(PointID{Set: 1, Index: 0}, true)

	assert.Equal(t, 3, len(e.Indices))
	assert.Equal(t, 2, e.SearchingCount)
}

func TestCellEntryRemoveSwapRemove(t *testing.T) {
	e := newCellEntry(CellKey{0, 0, 0})

	p0 := PointID{Set: 0, Index: 0}
	p1 := PointID{Set: 0, Index: 1}
	p2 := PointID{Set: 0, Index: 2}

	e.Add(p0, true)
	e.Add(p1, true)
	e.Add(p2, true)

	require.True(t, e.Remove(p0, true))
	assert.Equal(t, 2, len(e.Indices))
	assert.Equal(t, 1, e.SearchingCount)

	// p0 is gone, both remaining members are still present (order
	// unspecified after swap-remove).
	assert.ElementsMatch(t, []PointID{p1, p2}, e.Indices)
}

func TestCellEntryRemoveNotFound(t *testing.T) {
	e := newCellEntry(CellKey{0, 0, 0})
	e.Add(PointID{Set: 0, Index: 0}, true)

	assert.False(t, e.Remove(PointID{Set: 9, Index: 9}, true))
	assert.Equal(t, 1, len(e.Indices))
}

func TestCellEntryAddDuplicatesAllowed(t *testing.T) {
	e := newCellEntry(CellKey{0, 0, 0})

	p := PointID{Set: 0, Index: 0}
	e.Add(p, true)
	e.Add(p, true)

	assert.Equal(t, 2, len(e.Indices))
	assert.Equal(t, 2, e.SearchingCount)
}

func TestCellEntryEmpty(t *testing.T) {
	e := newCellEntry(CellKey{0, 0, 0})
	assert.True(t, e.Empty())

	e.Add(PointID{Set: 0, Index: 0}, false)
	assert.False(t, e.Empty())

	e.Remove(PointID{Set: 0, Index: 0}, false)
	assert.True(t, e.Empty())
}

func TestCanonicalPair(t *testing.T) {
	a := PointID{Set: 1, Index: 5}
	b := PointID{Set: 0, Index: 9}

	p1, p2 := canonicalPair(a, b)

	assert.Equal(t, b, p1)
	assert.Equal(t, a, p2)

	// Order must not depend on argument order.
	q1, q2 := canonicalPair(b, a)
	assert.Equal(t, p1, q1)
	assert.Equal(t, p2, q2)
}
