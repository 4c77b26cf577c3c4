package sparse

import (
	"math"

	"github.com/go-faster/errors"

	"k3l.io/go-graphblas/pkg/sparse/index"
	"k3l.io/go-graphblas/pkg/sparse/op"
	spopt "k3l.io/go-graphblas/pkg/sparse/option"
	"k3l.io/go-graphblas/pkg/sparse/value"
)

// Transpose computes out<mask> = accum(out, aᵀ).
//
// TransposeFirst transposes the input once more, making this a masked
// copy of a.
func Transpose[T value.Value](
	out *Matrix[T], mask Mask, accum op.BinaryOperator[T],
	a *Matrix[T], opts ...spopt.Option,
) error {
	return out.context().run("Transpose", func() error {
		o := spopt.New(opts...)
		og, err := out.storage()
		if err != nil {
			return err
		}
		ag, err := operand(a, !o.TransposeFirst)
		if err != nil {
			return err
		}
		if og.size != ag.size {
			return dimensionMismatch("result is %dx%d, output is %dx%d",
				ag.size.Rows, ag.size.Columns, og.size.Rows, og.size.Columns)
		}
		return writeMasked(og, ag, mask, accum, o)
	})
}

// Kronecker computes out<mask> = accum(out, a ⊗ b): for every pair of
// stored elements a(i1, j1) and b(i2, j2), position
// (i1·rows(b) + i2, j1·cols(b) + j2) holds f(a(i1, j1), b(i2, j2)).
//
// The output size is the element-wise product of the input sizes;
// one that does not fit an index fails with ErrIndexOverflow.
// TransposeFirst and TransposeSecond use the transpose of a and b.
func Kronecker[T value.Value](
	out *Matrix[T], mask Mask, accum op.BinaryOperator[T],
	f op.BinaryOperator[T], a, b *Matrix[T], opts ...spopt.Option,
) error {
	return out.context().run("Kronecker", func() error {
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
		rows, err := index.Checked(ag.size.Rows, bg.size.Rows)
		if err != nil {
			return err
		}
		cols, err := index.Checked(ag.size.Columns, bg.size.Columns)
		if err != nil {
			return err
		}
		size := Size{Rows: rows, Columns: cols}
		if og.size != size {
			return dimensionMismatch("product is %dx%d, output is %dx%d",
				size.Rows, size.Columns, og.size.Rows, og.size.Columns)
		}
		return writeMasked(og, kronecker(ag, bg, f, size), mask, accum, o)
	})
}

func kronecker[T value.Value](a, b *grid[T], f op.BinaryOperator[T], size Size) *grid[T] {
	var rb rowBuilder[T]
	for _, as := range a.spans {
		for _, bs := range b.spans {
			entries := make([]Entry[T], 0, len(as.Entries)*len(bs.Entries))
			for _, ae := range as.Entries {
				for _, be := range bs.Entries {
					entries = append(entries, Entry[T]{
						Index: ae.Index*b.size.Columns + be.Index,
						Value: f.Apply(ae.Value, be.Value),
					})
				}
			}
			rb.add(as.Major*b.size.Rows+bs.Major, entries)
		}
	}
	return rb.grid(size)
}

// MatrixDiag returns a square matrix holding v on diagonal k:
// v(i) is stored at (i, i+k) for k >= 0 and at (i-k, i) for k < 0.
// The matrix has len(v)+|k| rows and columns.
func MatrixDiag[T value.Value](v *Vector[T], k int64) (m *Matrix[T], err error) {
	ctx := v.context()
	err = ctx.run("MatrixDiag", func() error {
		vg, err := v.storage()
		if err != nil {
			return err
		}
		var offset index.Index
		if k == math.MinInt64 {
			offset = index.Index(1) << 63
		} else {
			offset = index.Index(max(k, -k))
		}
		n := vg.size.Columns + offset
		if n < offset {
			return errors.Wrapf(ErrIndexOverflow, "%d + |%d|", vg.size.Columns, k)
		}
		var rb rowBuilder[T]
		for _, e := range vg.entries() {
			row, col := e.Index, e.Index
			if k >= 0 {
				col += offset
			} else {
				row += offset
			}
			rb.add(row, []Entry[T]{{Index: col, Value: e.Value}})
		}
		m = newMatrix(ctx, rb.grid(Size{Rows: n, Columns: n}))
		return nil
	})
	return
}
