package sparse

import (
	"github.com/viterin/vek"
	"github.com/viterin/vek/vek32"

	"k3l.io/go-graphblas/pkg/sparse/op"
	spopt "k3l.io/go-graphblas/pkg/sparse/option"
	"k3l.io/go-graphblas/pkg/sparse/value"
)

// ReduceToVector computes out<mask> = accum(out, ⊕_j a(i, j)), folding
// every row of a with the monoid m (every column under TransposeFirst).
// Rows with no stored element produce no output element.
func ReduceToVector[T value.Value](
	out *Vector[T], mask Mask, accum op.BinaryOperator[T],
	m op.Monoid[T], a *Matrix[T], opts ...spopt.Option,
) error {
	return out.context().run("ReduceToVector", func() error {
		o := spopt.New(opts...)
		og, err := out.storage()
		if err != nil {
			return err
		}
		ag, err := operand(a, o.TransposeFirst)
		if err != nil {
			return err
		}
		if og.size.Columns != ag.size.Rows {
			return dimensionMismatch("reduction has length %d, output has %d",
				ag.size.Rows, og.size.Columns)
		}
		entries := make([]Entry[T], 0, len(ag.spans))
		for _, s := range ag.spans {
			entries = append(entries,
				Entry[T]{Index: s.Major, Value: foldEntries(m, s.Entries)})
		}
		return writeMasked(og, vectorGrid(ag.size.Rows, entries), mask, accum, o)
	})
}

// ReduceMatrixToScalar folds every stored element of a into out with the
// monoid m; an empty matrix folds to the identity of m.  If accum
// accumulates and out holds a value, out becomes accum(out, result).
func ReduceMatrixToScalar[T value.Value](
	out *Scalar[T], accum op.BinaryOperator[T], m op.Monoid[T], a *Matrix[T],
) error {
	return out.context().run("ReduceMatrixToScalar", func() error {
		if err := out.live(); err != nil {
			return err
		}
		ag, err := a.storage()
		if err != nil {
			return err
		}
		out.accumulate(accum, foldGrid(m, ag))
		return nil
	})
}

// ReduceVectorToScalar is ReduceMatrixToScalar for vectors.
func ReduceVectorToScalar[T value.Value](
	out *Scalar[T], accum op.BinaryOperator[T], m op.Monoid[T], u *Vector[T],
) error {
	return out.context().run("ReduceVectorToScalar", func() error {
		if err := out.live(); err != nil {
			return err
		}
		ug, err := u.storage()
		if err != nil {
			return err
		}
		out.accumulate(accum, foldGrid(m, ug))
		return nil
	})
}

// ReduceMatrix folds every stored element of a with the monoid m.
func ReduceMatrix[T value.Value](m op.Monoid[T], a *Matrix[T]) (r T, err error) {
	err = a.context().run("ReduceMatrix", func() error {
		ag, err := a.storage()
		if err != nil {
			return err
		}
		r = foldGrid(m, ag)
		return nil
	})
	return
}

// ReduceVector folds every stored element of u with the monoid m.
func ReduceVector[T value.Value](m op.Monoid[T], u *Vector[T]) (r T, err error) {
	err = u.context().run("ReduceVector", func() error {
		ug, err := u.storage()
		if err != nil {
			return err
		}
		r = foldGrid(m, ug)
		return nil
	})
	return
}

func (s *Scalar[T]) accumulate(accum op.BinaryOperator[T], v T) {
	if s.ok && accum.Accumulates() {
		v = accum.Apply(s.v, v)
	}
	s.v, s.ok = v, true
}

func foldGrid[T value.Value](m op.Monoid[T], g *grid[T]) T {
	values := make([]T, 0, g.nnz())
	for _, s := range g.spans {
		for _, e := range s.Entries {
			values = append(values, e.Value)
		}
	}
	return fold(m, values)
}

func foldEntries[T value.Value](m op.Monoid[T], entries []Entry[T]) T {
	values := make([]T, len(entries))
	for i, e := range entries {
		values[i] = e.Value
	}
	return fold(m, values)
}

// fold folds values with m.  Floating-point sums use vectorized kernels.
func fold[T value.Value](m op.Monoid[T], values []T) T {
	if len(values) == 0 || !m.Operator().IsBuiltin() || m.Name() != "plus" {
		return m.Fold(values)
	}
	switch vs := any(values).(type) {
	case []float64:
		return m.Apply(m.Identity(), any(vek.Sum(vs)).(T))
	case []float32:
		return m.Apply(m.Identity(), any(vek32.Sum(vs)).(T))
	}
	return m.Fold(values)
}
