package sparse

import (
	"k3l.io/go-graphblas/pkg/sparse/index"
	"k3l.io/go-graphblas/pkg/sparse/op"
	spopt "k3l.io/go-graphblas/pkg/sparse/option"
	"k3l.io/go-graphblas/pkg/sparse/value"
)

// EWiseAddMatrix computes out<mask> = accum(out, a ∪ b): every position
// stored in either input; f(a, b) where both are stored, otherwise the
// value of the side that is.
//
// TransposeFirst and TransposeSecond use the transpose of a and b.
func EWiseAddMatrix[T value.Value](
	out *Matrix[T], mask Mask, accum op.BinaryOperator[T],
	f op.BinaryOperator[T], a, b *Matrix[T], opts ...spopt.Option,
) error {
	return ewiseMatrix("EWiseAddMatrix", true, out, mask, accum, f, a, b, opts)
}

// EWiseMultMatrix computes out<mask> = accum(out, a ∩ b): f(a, b) at
// every position stored in both inputs.
//
// TransposeFirst and TransposeSecond use the transpose of a and b.
func EWiseMultMatrix[T value.Value](
	out *Matrix[T], mask Mask, accum op.BinaryOperator[T],
	f op.BinaryOperator[T], a, b *Matrix[T], opts ...spopt.Option,
) error {
	return ewiseMatrix("EWiseMultMatrix", false, out, mask, accum, f, a, b, opts)
}

// EWiseAddVector is EWiseAddMatrix for vectors.
func EWiseAddVector[T value.Value](
	out *Vector[T], mask Mask, accum op.BinaryOperator[T],
	f op.BinaryOperator[T], u, v *Vector[T], opts ...spopt.Option,
) error {
	return ewiseVector("EWiseAddVector", true, out, mask, accum, f, u, v, opts)
}

// EWiseMultVector is EWiseMultMatrix for vectors.
func EWiseMultVector[T value.Value](
	out *Vector[T], mask Mask, accum op.BinaryOperator[T],
	f op.BinaryOperator[T], u, v *Vector[T], opts ...spopt.Option,
) error {
	return ewiseVector("EWiseMultVector", false, out, mask, accum, f, u, v, opts)
}

func ewiseMatrix[T value.Value](
	name string, union bool,
	out *Matrix[T], mask Mask, accum op.BinaryOperator[T],
	f op.BinaryOperator[T], a, b *Matrix[T], opts []spopt.Option,
) error {
	return out.context().run(name, func() error {
		o := spopt.New(opts...)
		og, err := out.storage()
		if err != nil {
			return err
		}
		ag, err := operand(a, o.TransposeFirst)
		if err != nil {
			return err
		}
		bg, err := operand(b, o.TransposeSecond)
		if err != nil {
			return err
		}
		if ag.size != bg.size || og.size != ag.size {
			return dimensionMismatch("operands are %dx%d and %dx%d, output is %dx%d",
				ag.size.Rows, ag.size.Columns, bg.size.Rows, bg.size.Columns,
				og.size.Rows, og.size.Columns)
		}
		return writeMasked(og, ewise(ag, bg, f, union), mask, accum, o)
	})
}

func ewiseVector[T value.Value](
	name string, union bool,
	out *Vector[T], mask Mask, accum op.BinaryOperator[T],
	f op.BinaryOperator[T], u, v *Vector[T], opts []spopt.Option,
) error {
	return out.context().run(name, func() error {
		o := spopt.New(opts...)
		og, err := out.storage()
		if err != nil {
			return err
		}
		ug, err := u.storage()
		if err != nil {
			return err
		}
		vg, err := v.storage()
		if err != nil {
			return err
		}
		if ug.size != vg.size || og.size != ug.size {
			return dimensionMismatch("operands have lengths %d and %d, output has %d",
				ug.size.Columns, vg.size.Columns, og.size.Columns)
		}
		return writeMasked(og, ewise(ug, vg, f, union), mask, accum, o)
	})
}

// ewise merges a and b row by row; union keeps positions stored in
// either operand, intersection only those stored in both.
func ewise[T value.Value](a, b *grid[T], f op.BinaryOperator[T], union bool) *grid[T] {
	var rb rowBuilder[T]
	ai, bi := 0, 0
	for ai < len(a.spans) || bi < len(b.spans) {
		switch {
		case bi == len(b.spans) ||
			(ai < len(a.spans) && a.spans[ai].Major < b.spans[bi].Major):
			if union {
				rb.add(a.spans[ai].Major, cloneEntries(a.spans[ai].Entries))
			}
			ai++
		case ai == len(a.spans) || b.spans[bi].Major < a.spans[ai].Major:
			if union {
				rb.add(b.spans[bi].Major, cloneEntries(b.spans[bi].Entries))
			}
			bi++
		default:
			rb.add(a.spans[ai].Major,
				ewiseRow(a.spans[ai].Entries, b.spans[bi].Entries, f, union))
			ai++
			bi++
		}
	}
	return rb.grid(a.size)
}

func ewiseRow[T value.Value](x, y []Entry[T], f op.BinaryOperator[T], union bool) []Entry[T] {
	var out []Entry[T]
	if union {
		out = make([]Entry[T], 0, len(x)+len(y))
	}
	emit := func(i index.Index, v T) { out = append(out, Entry[T]{Index: i, Value: v}) }
	for len(x) > 0 || len(y) > 0 {
		switch {
		case len(y) == 0 || (len(x) > 0 && x[0].Index < y[0].Index):
			if union {
				emit(x[0].Index, x[0].Value)
			}
			x = x[1:]
		case len(x) == 0 || y[0].Index < x[0].Index:
			if union {
				emit(y[0].Index, y[0].Value)
			}
			y = y[1:]
		default:
			emit(x[0].Index, f.Apply(x[0].Value, y[0].Value))
			x, y = x[1:], y[1:]
		}
	}
	return out
}
