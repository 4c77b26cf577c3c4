package sparse

import (
	"github.com/go-faster/errors"

	"k3l.io/go-graphblas/pkg/sparse/index"
	"k3l.io/go-graphblas/pkg/sparse/op"
	spopt "k3l.io/go-graphblas/pkg/sparse/option"
	"k3l.io/go-graphblas/pkg/sparse/value"
)

// SelectMatrix computes out<mask> = accum(out, a(keep)), keeping the
// stored elements of a for which f(value, row, col, arg) holds.
//
// arg may be of any value kind; it is converted to the argument type A
// of f, failing with a ConversionError if it does not fit.
func SelectMatrix[T value.Value, A value.Value, S value.Value](
	out *Matrix[T], mask Mask, accum op.BinaryOperator[T],
	f op.IndexUnaryOperator[T, A], a *Matrix[T], arg S, opts ...spopt.Option,
) error {
	return out.context().run("SelectMatrix", func() error {
		converted, err := value.Convert[S, A](arg)
		if err != nil {
			return err
		}
		return selectMatrix(out, mask, accum, f, a, converted, opts)
	})
}

// SelectMatrixWithScalar is SelectMatrix with the argument held in a
// sparse scalar; an empty scalar fails with ErrEmptyScalar.
func SelectMatrixWithScalar[T value.Value, A value.Value, S value.Value](
	out *Matrix[T], mask Mask, accum op.BinaryOperator[T],
	f op.IndexUnaryOperator[T, A], a *Matrix[T], arg *Scalar[S], opts ...spopt.Option,
) error {
	return out.context().run("SelectMatrixWithScalar", func() error {
		converted, err := scalarArgument[S, A](arg)
		if err != nil {
			return err
		}
		return selectMatrix(out, mask, accum, f, a, converted, opts)
	})
}

// SelectVector is SelectMatrix for vectors: f sees (value, index, 0, arg).
func SelectVector[T value.Value, A value.Value, S value.Value](
	out *Vector[T], mask Mask, accum op.BinaryOperator[T],
	f op.IndexUnaryOperator[T, A], u *Vector[T], arg S, opts ...spopt.Option,
) error {
	return out.context().run("SelectVector", func() error {
		converted, err := value.Convert[S, A](arg)
		if err != nil {
			return err
		}
		return selectVector(out, mask, accum, f, u, converted, opts)
	})
}

// SelectVectorWithScalar is SelectVector with the argument held in a
// sparse scalar.
func SelectVectorWithScalar[T value.Value, A value.Value, S value.Value](
	out *Vector[T], mask Mask, accum op.BinaryOperator[T],
	f op.IndexUnaryOperator[T, A], u *Vector[T], arg *Scalar[S], opts ...spopt.Option,
) error {
	return out.context().run("SelectVectorWithScalar", func() error {
		converted, err := scalarArgument[S, A](arg)
		if err != nil {
			return err
		}
		return selectVector(out, mask, accum, f, u, converted, opts)
	})
}

func scalarArgument[S, A value.Value](s *Scalar[S]) (A, error) {
	var zero A
	if err := s.live(); err != nil {
		return zero, err
	}
	v, ok := s.Value()
	if !ok {
		return zero, errors.Wrap(ErrEmptyScalar, "select argument")
	}
	return value.Convert[S, A](v)
}

func selectMatrix[T, A value.Value](
	out *Matrix[T], mask Mask, accum op.BinaryOperator[T],
	f op.IndexUnaryOperator[T, A], a *Matrix[T], arg A, opts []spopt.Option,
) error {
	o := spopt.New(opts...)
	og, err := out.storage()
	if err != nil {
		return err
	}
	ag, err := operand(a, o.TransposeFirst)
	if err != nil {
		return err
	}
	if og.size != ag.size {
		return dimensionMismatch("input is %dx%d, output is %dx%d",
			ag.size.Rows, ag.size.Columns, og.size.Rows, og.size.Columns)
	}
	t, err := filterMap(ag, ag.size, func(row, col index.Index, v T) (T, bool, error) {
		return v, f.Apply(v, row, col, arg), nil
	})
	if err != nil {
		return err
	}
	return writeMasked(og, t, mask, accum, o)
}

func selectVector[T, A value.Value](
	out *Vector[T], mask Mask, accum op.BinaryOperator[T],
	f op.IndexUnaryOperator[T, A], u *Vector[T], arg A, opts []spopt.Option,
) error {
	o := spopt.New(opts...)
	og, err := out.storage()
	if err != nil {
		return err
	}
	ug, err := u.storage()
	if err != nil {
		return err
	}
	if og.size != ug.size {
		return dimensionMismatch("input has length %d, output has %d",
			ug.size.Columns, og.size.Columns)
	}
	t, err := filterMap(ug, ug.size, func(_, i index.Index, v T) (T, bool, error) {
		return v, f.Apply(v, i, 0, arg), nil
	})
	if err != nil {
		return err
	}
	return writeMasked(og, t, mask, accum, o)
}
