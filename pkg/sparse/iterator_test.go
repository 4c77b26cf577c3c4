package sparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"k3l.io/go-graphblas/pkg/sparse/index"
)

func TestMatrixIterator(t *testing.T) {
	ctx := newTestContext(t, Blocking)
	m := newTestMatrix(t, ctx, 3, 3,
		CooEntry[int32]{2, 1, 3}, CooEntry[int32]{0, 2, 1}, CooEntry[int32]{0, 0, 2})

	it, err := m.Iterator()
	require.NoError(t, err)
	_, err = it.Entry()
	assert.ErrorIs(t, err, ErrIteratorExhausted, "before Next")

	var got []CooEntry[int32]
	for it.Next() {
		e, err := it.Entry()
		require.NoError(t, err)
		got = append(got, e)
	}
	assert.NoError(t, it.Err())
	assert.Equal(t, []CooEntry[int32]{{0, 0, 2}, {0, 2, 1}, {2, 1, 3}}, got)
	assert.False(t, it.Next(), "stays exhausted")
	_, err = it.Entry()
	assert.ErrorIs(t, err, ErrIteratorExhausted)
}

func TestMatrixIteratorInvalidated(t *testing.T) {
	ctx := newTestContext(t, Blocking)
	m := newTestMatrix(t, ctx, 2, 2, CooEntry[float64]{0, 0, 1}, CooEntry[float64]{1, 1, 2})

	it, err := m.Iterator()
	require.NoError(t, err)
	require.True(t, it.Next())
	require.NoError(t, m.SetElement(Coordinate{0, 1}, 5))

	_, err = it.Entry()
	assert.ErrorIs(t, err, ErrIteratorInvalidated)
	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Err(), ErrIteratorInvalidated)
	assert.NotErrorIs(t, it.Err(), ErrIteratorExhausted)

	// Removing an element that is not stored is not a mutation.
	it, err = m.Iterator()
	require.NoError(t, err)
	require.NoError(t, m.RemoveElement(Coordinate{1, 0}))
	n := 0
	for it.Next() {
		n++
	}
	assert.NoError(t, it.Err())
	assert.Equal(t, 3, n)
}

func TestMatrixSequences(t *testing.T) {
	ctx := newTestContext(t, Blocking)
	m := newTestMatrix(t, ctx, 2, 4, CooEntry[uint8]{1, 3, 7}, CooEntry[uint8]{0, 1, 9})

	for range 2 {
		var coords []Coordinate
		var values []uint8
		for c, v := range m.All() {
			coords = append(coords, c)
			values = append(values, v)
		}
		assert.Equal(t, []Coordinate{{0, 1}, {1, 3}}, coords)
		assert.Equal(t, []uint8{9, 7}, values)
	}

	var first []uint8
	for v := range m.Values() {
		first = append(first, v)
		break
	}
	assert.Equal(t, []uint8{9}, first)

	empty := newTestMatrix[uint8](t, ctx, 5, 5)
	for range empty.All() {
		t.Fatal("empty matrix yielded an element")
	}
}

func TestVectorIterator(t *testing.T) {
	ctx := newTestContext(t, Blocking)
	v := newTestVector(t, ctx, 1<<50, Entry[bool]{1 << 49, true}, Entry[bool]{3, false})

	it, err := v.Iterator()
	require.NoError(t, err)
	var got []Entry[bool]
	for it.Next() {
		e, err := it.Entry()
		require.NoError(t, err)
		got = append(got, e)
	}
	assert.NoError(t, it.Err())
	assert.Equal(t, []Entry[bool]{{3, false}, {1 << 49, true}}, got)

	var indices []index.Index
	for i := range v.All() {
		indices = append(indices, i)
		require.NoError(t, v.RemoveElement(i))
	}
	assert.Equal(t, []index.Index{3}, indices, "mutation stops the sequence")
	assert.Equal(t, 1, v.NNZ())

	v.Free()
	_, err = v.Iterator()
	assert.ErrorIs(t, err, ErrUninitialized)
}
