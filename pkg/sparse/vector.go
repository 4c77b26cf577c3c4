package sparse

import (
	"runtime"
	"sync"

	"k3l.io/go-graphblas/pkg/sparse/index"
	"k3l.io/go-graphblas/pkg/sparse/op"
	"k3l.io/go-graphblas/pkg/sparse/value"
)

// Vector is a sparse vector of values of type T.
//
// Ownership and lifetime follow Matrix.
type Vector[T value.Value] struct {
	ctx     *Context
	g       *grid[T] // a single row (row 0)
	release sync.Once
}

func vectorSize(n index.Index) Size { return Size{Rows: 1, Columns: n} }

// NewVector creates an empty vector of the given length.
func NewVector[T value.Value](ctx *Context, n index.Index) (*Vector[T], error) {
	if err := ctx.check("NewVector"); err != nil {
		return nil, err
	}
	return newVector(ctx, newGrid[T](vectorSize(n))), nil
}

func newVector[T value.Value](ctx *Context, g *grid[T]) *Vector[T] {
	g.vector = true
	v := &Vector[T]{ctx: ctx, g: g}
	ctx.register()
	runtime.SetFinalizer(v, (*Vector[T]).finalize)
	return v
}

// NewVectorFromElements creates a vector of the given length
// holding the given elements; duplicates are handled as in
// NewMatrixFromElements.
func NewVectorFromElements[T value.Value](
	ctx *Context, n index.Index, entries []Entry[T], dup op.BinaryOperator[T],
) (v *Vector[T], err error) {
	err = ctx.run("NewVectorFromElements", func() error {
		coo := make([]CooEntry[T], len(entries))
		for i, e := range entries {
			if err := checkBound("index", e.Index, n); err != nil {
				return err
			}
			coo[i] = CooEntry[T]{Column: e.Index, Value: e.Value}
		}
		g, err := gridFromCoo(vectorSize(n), coo, dup)
		if err != nil {
			return err
		}
		v = newVector(ctx, g)
		return nil
	})
	return
}

func (v *Vector[T]) finalize() {
	v.release.Do(v.ctx.unregister)
}

// Free releases the vector.  Any later use fails with ErrUninitialized.
func (v *Vector[T]) Free() {
	if v == nil {
		return
	}
	runtime.SetFinalizer(v, nil)
	v.release.Do(v.ctx.unregister)
	if v.g != nil {
		v.g.touch()
		v.g = nil
	}
}

func (v *Vector[T]) context() *Context {
	if v == nil {
		return nil
	}
	return v.ctx
}

func (v *Vector[T]) storage() (*grid[T], error) {
	if v == nil || v.g == nil {
		return nil, uninitialized("vector")
	}
	if err := v.ctx.check("vector"); err != nil {
		return nil, err
	}
	return v.g, nil
}

// Context returns the context the vector was created under.
func (v *Vector[T]) Context() *Context { return v.ctx }

// Len returns the vector length.  A freed vector has length 0.
func (v *Vector[T]) Len() index.Index {
	if v == nil || v.g == nil {
		return 0
	}
	return v.g.size.Columns
}

// Resize grows/shrinks the vector in-place.
func (v *Vector[T]) Resize(n index.Index) error {
	g, err := v.storage()
	if err != nil {
		return err
	}
	g.resize(vectorSize(n))
	return nil
}

func (v *Vector[T]) checkIndex(i index.Index) (*grid[T], error) {
	g, err := v.storage()
	if err != nil {
		return nil, err
	}
	if err := checkBound("index", i, g.size.Columns); err != nil {
		return nil, err
	}
	return g, nil
}

// SetElement stores x at i, overwriting any stored value.
func (v *Vector[T]) SetElement(i index.Index, x T) error {
	g, err := v.checkIndex(i)
	if err != nil {
		return err
	}
	g.set(0, i, x)
	return nil
}

// RemoveElement removes the element stored at i; no-op if there is none.
func (v *Vector[T]) RemoveElement(i index.Index) error {
	g, err := v.checkIndex(i)
	if err != nil {
		return err
	}
	g.remove(0, i)
	return nil
}

// ElementValue returns the value stored at i;
// ok is false for a structural zero.
func (v *Vector[T]) ElementValue(i index.Index) (x T, ok bool, err error) {
	g, err := v.checkIndex(i)
	if err != nil {
		return x, false, err
	}
	x, ok = g.get(0, i)
	return x, ok, nil
}

// ElementValueOrDefault returns the value stored at i,
// or the zero value of T if there is none.
func (v *Vector[T]) ElementValueOrDefault(i index.Index) (T, error) {
	x, _, err := v.ElementValue(i)
	return x, err
}

// NNZ returns the number of stored elements, including stored zeros.
func (v *Vector[T]) NNZ() int {
	if v == nil || v.g == nil {
		return 0
	}
	return v.g.nnz()
}

// Entries returns all stored elements.
// Callers must not depend on their order.
func (v *Vector[T]) Entries() ([]Entry[T], error) {
	g, err := v.storage()
	if err != nil {
		return nil, err
	}
	return cloneEntries(g.row(0)), nil
}

// Clone returns an independent deep copy.
func (v *Vector[T]) Clone() (*Vector[T], error) {
	g, err := v.storage()
	if err != nil {
		return nil, err
	}
	return newVector(v.ctx, g.clone()), nil
}

// Clear removes all stored elements, keeping the length.
func (v *Vector[T]) Clear() error {
	g, err := v.storage()
	if err != nil {
		return err
	}
	g.clear()
	return nil
}

// entries returns the shared, sorted entry slice of a vector grid.
func (g *grid[T]) entries() []Entry[T] { return g.row(0) }

// vectorGrid wraps sorted entries as a vector grid of length n.
func vectorGrid[T value.Value](n index.Index, entries []Entry[T]) *grid[T] {
	var b rowBuilder[T]
	b.add(0, entries)
	return b.grid(vectorSize(n))
}
