package neighbor3d

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellIndexGetOrCreateIsIdempotent(t *testing.T) {
	ci := newCellIndex()

	k := CellKey{1, 2, 3}

	idx1 := ci.getOrCreate(k)
	idx2 := ci.getOrCreate(k)

	assert.Equal(t, idx1, idx2)
	assert.Equal(t, 1, ci.snapshotLen())
}

func TestCellIndexLookupMiss(t *testing.T) {
	ci := newCellIndex()

	_, ok := ci.lookup(CellKey{9, 9, 9})
	assert.False(t, ok)
}

func TestCellIndexCompactRewritesMap(t *testing.T) {
	ci := newCellIndex()

	k0 := CellKey{0, 0, 0}
	k1 := CellKey{1, 0, 0}
	k2 := CellKey{2, 0, 0}

	i0 := ci.getOrCreate(k0)
	i1 := ci.getOrCreate(k1)
	i2 := ci.getOrCreate(k2)

	require.Equal(t, uint32(0), i0)
	require.Equal(t, uint32(1), i1)
	require.Equal(t, uint32(2), i2)

	ci.compact([]uint32{i1})

	assert.Equal(t, 2, ci.snapshotLen())

	// k0 and k2 must still resolve, to their (possibly renumbered) slots,
	// and k1 must be gone entirely.
	newI0, ok0 := ci.lookup(k0)
	require.True(t, ok0)
	assert.Equal(t, k0, ci.entry(newI0).Key)

	newI2, ok2 := ci.lookup(k2)
	require.True(t, ok2)
	assert.Equal(t, k2, ci.entry(newI2).Key)

	_, ok1 := ci.lookup(k1)
	assert.False(t, ok1)
}

func TestCellIndexReset(t *testing.T) {
	ci := newCellIndex()

	ci.getOrCreate(CellKey{0, 0, 0})
	ci.getOrCreate(CellKey{1, 0, 0})

	ci.reset()

	assert.Equal(t, 0, ci.snapshotLen())

	_, ok := ci.lookup(CellKey{0, 0, 0})
	assert.False(t, ok)
}

func TestCellIndexScheduleIfEmpty(t *testing.T) {
	ci := newCellIndex()

	idx := ci.getOrCreate(CellKey{0, 0, 0})

	_, empty := ci.scheduleIfEmpty(idx)
	assert.True(t, empty, "freshly created entry has no members")

	ci.entry(idx).Add(PointID{Set: 0, Index: 0}, true)

	_, empty = ci.scheduleIfEmpty(idx)
	assert.False(t, empty)
}
