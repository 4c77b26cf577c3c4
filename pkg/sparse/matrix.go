package sparse

import (
	"runtime"
	"sync"

	"k3l.io/go-graphblas/pkg/sparse/index"
	"k3l.io/go-graphblas/pkg/sparse/op"
	"k3l.io/go-graphblas/pkg/sparse/value"
)

// Matrix is a sparse matrix of values of type T.
//
// A Matrix exclusively owns its storage: Clone makes an independent deep
// copy.  Its registration with the Context is released exactly once,
// by Free or by the garbage collector, whichever comes first.
//
// A Matrix is not safe for concurrent mutation.
type Matrix[T value.Value] struct {
	ctx     *Context
	g       *grid[T]
	release sync.Once
}

// NewMatrix creates an empty matrix of the given size.
func NewMatrix[T value.Value](ctx *Context, size Size) (*Matrix[T], error) {
	if err := ctx.check("NewMatrix"); err != nil {
		return nil, err
	}
	return newMatrix(ctx, newGrid[T](size)), nil
}

func newMatrix[T value.Value](ctx *Context, g *grid[T]) *Matrix[T] {
	m := &Matrix[T]{ctx: ctx, g: g}
	ctx.register()
	runtime.SetFinalizer(m, (*Matrix[T]).finalize)
	return m
}

// NewMatrixFromElements creates a matrix of the given size
// holding the given elements.
//
// Elements given more than once at the same coordinate are merged with dup,
// left to right in input order; with a zero-value dup, duplicates fail
// with ErrDuplicateIndex.  Out-of-bounds coordinates fail with
// IndexOutOfBoundsError.
func NewMatrixFromElements[T value.Value](
	ctx *Context, size Size, entries []CooEntry[T], dup op.BinaryOperator[T],
) (m *Matrix[T], err error) {
	err = ctx.run("NewMatrixFromElements", func() error {
		g, err := gridFromCoo(size, entries, dup)
		if err != nil {
			return err
		}
		m = newMatrix(ctx, g)
		return nil
	})
	return
}

func (m *Matrix[T]) finalize() {
	m.release.Do(m.ctx.unregister)
}

// Free releases the matrix.  Any later use fails with ErrUninitialized.
func (m *Matrix[T]) Free() {
	if m == nil {
		return
	}
	runtime.SetFinalizer(m, nil)
	m.release.Do(m.ctx.unregister)
	if m.g != nil {
		m.g.touch()
		m.g = nil
	}
}

func (m *Matrix[T]) context() *Context {
	if m == nil {
		return nil
	}
	return m.ctx
}

// storage returns the live grid, or an error if m is nil or freed.
func (m *Matrix[T]) storage() (*grid[T], error) {
	if m == nil || m.g == nil {
		return nil, uninitialized("matrix")
	}
	if err := m.ctx.check("matrix"); err != nil {
		return nil, err
	}
	return m.g, nil
}

// Context returns the context the matrix was created under.
func (m *Matrix[T]) Context() *Context { return m.ctx }

// Size returns the matrix shape.  A freed matrix has size 0x0.
func (m *Matrix[T]) Size() Size {
	if m == nil || m.g == nil {
		return Size{}
	}
	return m.g.size
}

// Rows returns the number of rows.
func (m *Matrix[T]) Rows() index.Index { return m.Size().Rows }

// Columns returns the number of columns.
func (m *Matrix[T]) Columns() index.Index { return m.Size().Columns }

// Resize grows/shrinks the matrix in-place.
// Elements outside the new bounds are dropped; others are unchanged.
func (m *Matrix[T]) Resize(size Size) error {
	g, err := m.storage()
	if err != nil {
		return err
	}
	g.resize(size)
	return nil
}

func (m *Matrix[T]) checkCoordinate(c Coordinate) (*grid[T], error) {
	g, err := m.storage()
	if err != nil {
		return nil, err
	}
	if err := checkBound("row", c.Row, g.size.Rows); err != nil {
		return nil, err
	}
	if err := checkBound("column", c.Column, g.size.Columns); err != nil {
		return nil, err
	}
	return g, nil
}

// SetElement stores v at c, overwriting any stored value.
func (m *Matrix[T]) SetElement(c Coordinate, v T) error {
	g, err := m.checkCoordinate(c)
	if err != nil {
		return err
	}
	g.set(c.Row, c.Column, v)
	return nil
}

// RemoveElement removes the element stored at c; no-op if there is none.
func (m *Matrix[T]) RemoveElement(c Coordinate) error {
	g, err := m.checkCoordinate(c)
	if err != nil {
		return err
	}
	g.remove(c.Row, c.Column)
	return nil
}

// ElementValue returns the value stored at c.
// ok is false if c holds no stored element (a structural zero).
func (m *Matrix[T]) ElementValue(c Coordinate) (v T, ok bool, err error) {
	g, err := m.checkCoordinate(c)
	if err != nil {
		return v, false, err
	}
	v, ok = g.get(c.Row, c.Column)
	return v, ok, nil
}

// ElementValueOrDefault returns the value stored at c,
// or the zero value of T if there is none.
func (m *Matrix[T]) ElementValueOrDefault(c Coordinate) (T, error) {
	v, _, err := m.ElementValue(c)
	return v, err
}

// NNZ returns the number of stored elements, including stored zeros.
func (m *Matrix[T]) NNZ() int {
	if m == nil || m.g == nil {
		return 0
	}
	return m.g.nnz()
}

// CooEntries returns all stored elements.
// Callers must not depend on their order.
func (m *Matrix[T]) CooEntries() ([]CooEntry[T], error) {
	g, err := m.storage()
	if err != nil {
		return nil, err
	}
	return g.coo(), nil
}

// Clone returns an independent deep copy.
func (m *Matrix[T]) Clone() (*Matrix[T], error) {
	g, err := m.storage()
	if err != nil {
		return nil, err
	}
	return newMatrix(m.ctx, g.clone()), nil
}

// Clear removes all stored elements, keeping the size.
func (m *Matrix[T]) Clear() error {
	g, err := m.storage()
	if err != nil {
		return err
	}
	g.clear()
	return nil
}

// Row returns a copy of the given row as a vector.
func (m *Matrix[T]) Row(i index.Index) (*Vector[T], error) {
	g, err := m.storage()
	if err != nil {
		return nil, err
	}
	if err := checkBound("row", i, g.size.Rows); err != nil {
		return nil, err
	}
	vg := newGrid[T](Size{Rows: 1, Columns: g.size.Columns})
	var b rowBuilder[T]
	b.add(0, cloneEntries(g.row(i)))
	vg.spans = b.spans
	return newVector(m.ctx, vg), nil
}

func cloneEntries[T value.Value](entries []Entry[T]) []Entry[T] {
	if len(entries) == 0 {
		return nil
	}
	return append(entries[:0:0], entries...)
}
