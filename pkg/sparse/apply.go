package sparse

import (
	"k3l.io/go-graphblas/pkg/sparse/index"
	"k3l.io/go-graphblas/pkg/sparse/op"
	spopt "k3l.io/go-graphblas/pkg/sparse/option"
	"k3l.io/go-graphblas/pkg/sparse/value"
)

// ApplyMatrix computes out<mask> = accum(out, f(a)) over the stored
// elements of a (of its transpose under TransposeFirst).
func ApplyMatrix[T value.Value](
	out *Matrix[T], mask Mask, accum op.BinaryOperator[T],
	f op.UnaryOperator[T], a *Matrix[T], opts ...spopt.Option,
) error {
	return mapMatrix("ApplyMatrix", out, mask, accum, a, opts,
		func(v T) (T, error) { return f.Apply(v), nil })
}

// ApplyVector computes out<mask> = accum(out, f(u)).
func ApplyVector[T value.Value](
	out *Vector[T], mask Mask, accum op.BinaryOperator[T],
	f op.UnaryOperator[T], u *Vector[T], opts ...spopt.Option,
) error {
	return mapVector("ApplyVector", out, mask, accum, u, opts,
		func(v T) (T, error) { return f.Apply(v), nil })
}

// ApplyBinaryLeftMatrix computes out<mask> = accum(out, f(x, a)),
// binding x, converted to T, as the first operand of f.
func ApplyBinaryLeftMatrix[T, S value.Value](
	out *Matrix[T], mask Mask, accum op.BinaryOperator[T],
	f op.BinaryOperator[T], x S, a *Matrix[T], opts ...spopt.Option,
) error {
	return out.context().run("ApplyBinaryLeftMatrix", func() error {
		bound, err := value.Convert[S, T](x)
		if err != nil {
			return err
		}
		return mapMatrix("", out, mask, accum, a, opts,
			func(v T) (T, error) { return f.Apply(bound, v), nil })
	})
}

// ApplyBinaryRightMatrix computes out<mask> = accum(out, f(a, y)),
// binding y, converted to T, as the second operand of f.
func ApplyBinaryRightMatrix[T, S value.Value](
	out *Matrix[T], mask Mask, accum op.BinaryOperator[T],
	f op.BinaryOperator[T], a *Matrix[T], y S, opts ...spopt.Option,
) error {
	return out.context().run("ApplyBinaryRightMatrix", func() error {
		bound, err := value.Convert[S, T](y)
		if err != nil {
			return err
		}
		return mapMatrix("", out, mask, accum, a, opts,
			func(v T) (T, error) { return f.Apply(v, bound), nil })
	})
}

// ApplyBinaryLeftVector computes out<mask> = accum(out, f(x, u)).
func ApplyBinaryLeftVector[T, S value.Value](
	out *Vector[T], mask Mask, accum op.BinaryOperator[T],
	f op.BinaryOperator[T], x S, u *Vector[T], opts ...spopt.Option,
) error {
	return out.context().run("ApplyBinaryLeftVector", func() error {
		bound, err := value.Convert[S, T](x)
		if err != nil {
			return err
		}
		return mapVector("", out, mask, accum, u, opts,
			func(v T) (T, error) { return f.Apply(bound, v), nil })
	})
}

// ApplyBinaryRightVector computes out<mask> = accum(out, f(u, y)).
func ApplyBinaryRightVector[T, S value.Value](
	out *Vector[T], mask Mask, accum op.BinaryOperator[T],
	f op.BinaryOperator[T], u *Vector[T], y S, opts ...spopt.Option,
) error {
	return out.context().run("ApplyBinaryRightVector", func() error {
		bound, err := value.Convert[S, T](y)
		if err != nil {
			return err
		}
		return mapVector("", out, mask, accum, u, opts,
			func(v T) (T, error) { return f.Apply(v, bound), nil })
	})
}

// ConvertMatrix computes out<mask> = accum(out, B(a)), converting every
// stored element of a to B.  A value B cannot represent fails the whole
// operation with a ConversionError, leaving out unchanged.
func ConvertMatrix[A, B value.Value](
	out *Matrix[B], mask Mask, accum op.BinaryOperator[B],
	a *Matrix[A], opts ...spopt.Option,
) error {
	return mapMatrix("ConvertMatrix", out, mask, accum, a, opts, value.Convert[A, B])
}

// ConvertVector is ConvertMatrix for vectors.
func ConvertVector[A, B value.Value](
	out *Vector[B], mask Mask, accum op.BinaryOperator[B],
	u *Vector[A], opts ...spopt.Option,
) error {
	return mapVector("ConvertVector", out, mask, accum, u, opts, value.Convert[A, B])
}

// mapMatrix writes fn of every stored element of a into out.
// An empty name runs inline, inside an operation already in progress.
func mapMatrix[S, T value.Value](
	name string, out *Matrix[T], mask Mask, accum op.BinaryOperator[T],
	a *Matrix[S], opts []spopt.Option, fn func(S) (T, error),
) error {
	body := func() error {
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
		t, err := filterMap(ag, ag.size, mapAll(fn))
		if err != nil {
			return err
		}
		return writeMasked(og, t, mask, accum, o)
	}
	if name == "" {
		return body()
	}
	return out.context().run(name, body)
}

func mapVector[S, T value.Value](
	name string, out *Vector[T], mask Mask, accum op.BinaryOperator[T],
	u *Vector[S], opts []spopt.Option, fn func(S) (T, error),
) error {
	body := func() error {
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
		t, err := filterMap(ug, ug.size, mapAll(fn))
		if err != nil {
			return err
		}
		return writeMasked(og, t, mask, accum, o)
	}
	if name == "" {
		return body()
	}
	return out.context().run(name, body)
}

func mapAll[S, T value.Value](
	fn func(S) (T, error),
) func(row, col index.Index, v S) (T, bool, error) {
	return func(_, _ index.Index, v S) (T, bool, error) {
		t, err := fn(v)
		return t, err == nil, err
	}
}
