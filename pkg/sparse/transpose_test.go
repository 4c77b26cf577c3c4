package sparse

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"k3l.io/go-graphblas/pkg/sparse/op"
	spopt "k3l.io/go-graphblas/pkg/sparse/option"
)

func TestTranspose(t *testing.T) {
	ctx := newTestContext(t, Blocking)
	a := newTestMatrix(t, ctx, 2, 3, CooEntry[int16]{0, 2, 1}, CooEntry[int16]{1, 0, 2}, CooEntry[int16]{1, 2, 3})

	out := newTestMatrix[int16](t, ctx, 3, 2)
	require.NoError(t, Transpose(out, nil, noAccum[int16](), a))
	assert.Equal(t, []CooEntry[int16]{{0, 1, 2}, {2, 0, 1}, {2, 1, 3}}, cooOf(t, out))

	mask := newTestMatrix(t, ctx, 3, 2, CooEntry[int16]{2, 1, 1})
	require.NoError(t, Transpose(out, mask, op.Plus[int16](), a))
	assert.Equal(t, []CooEntry[int16]{{0, 1, 2}, {2, 0, 1}, {2, 1, 6}}, cooOf(t, out))

	same := newTestMatrix[int16](t, ctx, 2, 3)
	require.NoError(t, Transpose(same, nil, noAccum[int16](), a, spopt.TransposeFirst))
	assert.Equal(t, cooOf(t, a), cooOf(t, same))

	assert.ErrorIs(t, Transpose(same, nil, noAccum[int16](), a), ErrDimensionMismatch)
}

func TestTransposeInPlace(t *testing.T) {
	ctx := newTestContext(t, Blocking)
	a := newTestMatrix(t, ctx, 2, 2, CooEntry[uint8]{0, 1, 1}, CooEntry[uint8]{1, 1, 2})
	require.NoError(t, Transpose(a, nil, noAccum[uint8](), a))
	assert.Equal(t, []CooEntry[uint8]{{1, 0, 1}, {1, 1, 2}}, cooOf(t, a))
}

func TestKronecker(t *testing.T) {
	ctx := newTestContext(t, Blocking)
	a := newTestMatrix(t, ctx, 2, 2, CooEntry[int64]{0, 0, 1}, CooEntry[int64]{1, 1, 2})
	b := newTestMatrix(t, ctx, 2, 3, CooEntry[int64]{0, 2, 3}, CooEntry[int64]{1, 0, 4})

	out := newTestMatrix[int64](t, ctx, 4, 6)
	require.NoError(t, Kronecker(out, nil, noAccum[int64](), op.Times[int64](), a, b))
	assert.Equal(t, []CooEntry[int64]{{0, 2, 3}, {1, 0, 4}, {2, 5, 6}, {3, 3, 8}}, cooOf(t, out))

	wrong := newTestMatrix[int64](t, ctx, 4, 4)
	assert.ErrorIs(t, Kronecker(wrong, nil, noAccum[int64](), op.Times[int64](), a, b), ErrDimensionMismatch)

	big, err := NewMatrix[int64](ctx, Size{Rows: 1 << 33, Columns: 1})
	require.NoError(t, err)
	assert.ErrorIs(t, Kronecker(wrong, nil, noAccum[int64](), op.Times[int64](), big, big), ErrIndexOverflow)
}

func TestMatrixDiag(t *testing.T) {
	ctx := newTestContext(t, Blocking)
	v := newTestVector(t, ctx, 3, Entry[float32]{0, 1}, Entry[float32]{2, 3})
	tests := []struct {
		name string
		k    int64
		size Size
		want []CooEntry[float32]
	}{
		{"Main", 0, Size{Rows: 3, Columns: 3}, []CooEntry[float32]{{0, 0, 1}, {2, 2, 3}}},
		{"Above", 2, Size{Rows: 5, Columns: 5}, []CooEntry[float32]{{0, 2, 1}, {2, 4, 3}}},
		{"Below", -1, Size{Rows: 4, Columns: 4}, []CooEntry[float32]{{1, 0, 1}, {3, 2, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := MatrixDiag(v, tt.k)
			require.NoError(t, err)
			assert.Equal(t, tt.size, m.Size())
			assert.Equal(t, tt.want, cooOf(t, m))
		})
	}

	huge, err := NewVector[float32](ctx, math.MaxUint64)
	require.NoError(t, err)
	_, err = MatrixDiag(huge, 1)
	assert.ErrorIs(t, err, ErrIndexOverflow)
}
