package sparse

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"k3l.io/go-graphblas/pkg/sparse/index"
	"k3l.io/go-graphblas/pkg/sparse/op"
	"k3l.io/go-graphblas/pkg/sparse/value"
)

func newTestContext(t *testing.T, mode Mode, opts ...ContextOpt) *Context {
	t.Helper()
	ctx, err := Init(mode, opts...)
	require.NoError(t, err)
	return ctx
}

func newTestMatrix[T value.Value](
	t *testing.T, ctx *Context, rows, cols index.Index, entries ...CooEntry[T],
) *Matrix[T] {
	t.Helper()
	m, err := NewMatrixFromElements(ctx, Size{Rows: rows, Columns: cols},
		entries, op.BinaryOperator[T]{})
	require.NoError(t, err)
	return m
}

func newTestVector[T value.Value](
	t *testing.T, ctx *Context, n index.Index, entries ...Entry[T],
) *Vector[T] {
	t.Helper()
	v, err := NewVectorFromElements(ctx, n, entries, op.BinaryOperator[T]{})
	require.NoError(t, err)
	return v
}

// cooOf returns the elements of m in row-major order.
func cooOf[T value.Value](t *testing.T, m *Matrix[T]) []CooEntry[T] {
	t.Helper()
	entries, err := m.CooEntries()
	require.NoError(t, err)
	sort.Sort(CSREntriesSort[T](entries))
	return entries
}

// entriesOf returns the elements of v in index order.
func entriesOf[T value.Value](t *testing.T, v *Vector[T]) []Entry[T] {
	t.Helper()
	entries, err := v.Entries()
	require.NoError(t, err)
	sort.Sort(EntriesByIndex[T](entries))
	return entries
}

// noAccum is the "overwrite" accumulator.
func noAccum[T value.Value]() op.BinaryOperator[T] { return op.BinaryOperator[T]{} }
