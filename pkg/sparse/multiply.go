package sparse

import (
	"slices"

	"k3l.io/go-graphblas/pkg/sparse/index"
	"k3l.io/go-graphblas/pkg/sparse/op"
	spopt "k3l.io/go-graphblas/pkg/sparse/option"
	"k3l.io/go-graphblas/pkg/sparse/value"
)

// denseAccumulatorLimit is the widest output row that gets a dense
// row accumulator; wider (hypersparse) rows use a map.
const denseAccumulatorLimit = 1 << 16

// operand returns the storage of m, transposed if requested.
func operand[T value.Value](m *Matrix[T], transpose bool) (*grid[T], error) {
	g, err := m.storage()
	if err != nil {
		return nil, err
	}
	if transpose {
		return g.transposed(), nil
	}
	return g, nil
}

// MxM computes out<mask> = accum(out, a ⊕.⊗ b) over the semiring s.
//
// TransposeFirst and TransposeSecond multiply by the transpose of a and b.
func MxM[T value.Value](
	out *Matrix[T], mask Mask, accum op.BinaryOperator[T],
	s op.Semiring[T], a, b *Matrix[T], opts ...spopt.Option,
) error {
	ctx := out.context()
	return ctx.run("MxM", func() error {
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
		if ag.size.Columns != bg.size.Rows {
			return dimensionMismatch("cannot multiply %dx%d by %dx%d",
				ag.size.Rows, ag.size.Columns, bg.size.Rows, bg.size.Columns)
		}
		size := Size{Rows: ag.size.Rows, Columns: bg.size.Columns}
		if og.size != size {
			return dimensionMismatch("product is %dx%d, output is %dx%d",
				size.Rows, size.Columns, og.size.Rows, og.size.Columns)
		}
		t, err := mxm(ctx, ag, bg, s)
		if err != nil {
			return err
		}
		return writeMasked(og, t, mask, accum, o)
	})
}

// MxV computes out<mask> = accum(out, a ⊕.⊗ u) over the semiring s.
//
// TransposeFirst multiplies by the transpose of a.
func MxV[T value.Value](
	out *Vector[T], mask Mask, accum op.BinaryOperator[T],
	s op.Semiring[T], a *Matrix[T], u *Vector[T], opts ...spopt.Option,
) error {
	ctx := out.context()
	return ctx.run("MxV", func() error {
		o := spopt.New(opts...)
		og, err := out.storage()
		if err != nil {
			return err
		}
		ag, err := operand(a, o.TransposeFirst)
		if err != nil {
			return err
		}
		ug, err := u.storage()
		if err != nil {
			return err
		}
		if ag.size.Columns != ug.size.Columns {
			return dimensionMismatch("cannot multiply %dx%d by vector of %d",
				ag.size.Rows, ag.size.Columns, ug.size.Columns)
		}
		if og.size.Columns != ag.size.Rows {
			return dimensionMismatch("product has length %d, output has %d",
				ag.size.Rows, og.size.Columns)
		}
		t, err := mxv(ctx, ag, ug.entries(), s)
		if err != nil {
			return err
		}
		return writeMasked(og, t, mask, accum, o)
	})
}

// VxM computes out<mask> = accum(out, u ⊕.⊗ b) over the semiring s.
//
// TransposeSecond multiplies by the transpose of b.
func VxM[T value.Value](
	out *Vector[T], mask Mask, accum op.BinaryOperator[T],
	s op.Semiring[T], u *Vector[T], b *Matrix[T], opts ...spopt.Option,
) error {
	ctx := out.context()
	return ctx.run("VxM", func() error {
		o := spopt.New(opts...)
		og, err := out.storage()
		if err != nil {
			return err
		}
		ug, err := u.storage()
		if err != nil {
			return err
		}
		bg, err := operand(b, o.TransposeSecond)
		if err != nil {
			return err
		}
		if ug.size.Columns != bg.size.Rows {
			return dimensionMismatch("cannot multiply vector of %d by %dx%d",
				ug.size.Columns, bg.size.Rows, bg.size.Columns)
		}
		if og.size.Columns != bg.size.Columns {
			return dimensionMismatch("product has length %d, output has %d",
				bg.size.Columns, og.size.Columns)
		}
		// u is already a 1-row grid: a 1xk by kxn product.
		t, err := mxm(ctx, ug, bg, s)
		if err != nil {
			return err
		}
		return writeMasked(og, t, mask, accum, o)
	})
}

// mxm is the row-wise (Gustavson) product of a and b.
func mxm[T value.Value](
	ctx *Context, a, b *grid[T], s op.Semiring[T],
) (*grid[T], error) {
	size := Size{Rows: a.size.Rows, Columns: b.size.Columns}
	rows := make([][]Entry[T], len(a.spans))
	ranges := chunks(len(a.spans), ctx.workers*4)
	err := ctx.parallel(len(ranges), func(c int) error {
		acc := newRowAccumulator(s, size.Columns)
		for i := ranges[c][0]; i < ranges[c][1]; i++ {
			for _, aik := range a.spans[i].Entries {
				for _, bkj := range b.row(aik.Index) {
					acc.scatter(bkj.Index, s.Multiply().Apply(aik.Value, bkj.Value))
				}
			}
			rows[i] = acc.gather()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	var rb rowBuilder[T]
	for i, entries := range rows {
		rb.add(a.spans[i].Major, entries)
	}
	return rb.grid(size), nil
}

// mxv computes every row of a dotted with the sparse vector u.
func mxv[T value.Value](
	ctx *Context, a *grid[T], u []Entry[T], s op.Semiring[T],
) (*grid[T], error) {
	type dot struct {
		v  T
		ok bool
	}
	dots := make([]dot, len(a.spans))
	ranges := chunks(len(a.spans), ctx.workers*4)
	err := ctx.parallel(len(ranges), func(c int) error {
		for i := ranges[c][0]; i < ranges[c][1]; i++ {
			dots[i].v, dots[i].ok = sparseDot(a.spans[i].Entries, u, s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	entries := make([]Entry[T], 0, len(dots))
	for i, d := range dots {
		if d.ok {
			entries = append(entries, Entry[T]{Index: a.spans[i].Major, Value: d.v})
		}
	}
	return vectorGrid(a.size.Rows, entries), nil
}

// sparseDot reduces x[k] ⊗ y[k] over the indices k stored in both x and y.
// ok is false if there are none.
func sparseDot[T value.Value](x, y []Entry[T], s op.Semiring[T]) (v T, ok bool) {
	add, mul := s.Add(), s.Multiply()
	for len(x) > 0 && len(y) > 0 {
		switch {
		case x[0].Index < y[0].Index:
			x = x[1:]
		case y[0].Index < x[0].Index:
			y = y[1:]
		default:
			p := mul.Apply(x[0].Value, y[0].Value)
			if ok {
				v = add.Apply(v, p)
			} else {
				v, ok = p, true
			}
			x, y = x[1:], y[1:]
		}
	}
	return
}

// rowAccumulator gathers the partial products of one output row.
type rowAccumulator[T value.Value] struct {
	add     op.Monoid[T]
	dense   []T
	seen    []bool
	sparse  map[index.Index]T
	touched []index.Index
}

func newRowAccumulator[T value.Value](
	s op.Semiring[T], cols index.Index,
) *rowAccumulator[T] {
	acc := &rowAccumulator[T]{add: s.Add()}
	if cols <= denseAccumulatorLimit {
		acc.dense = make([]T, cols)
		acc.seen = make([]bool, cols)
	} else {
		acc.sparse = make(map[index.Index]T)
	}
	return acc
}

func (acc *rowAccumulator[T]) scatter(j index.Index, v T) {
	if acc.sparse != nil {
		if old, ok := acc.sparse[j]; ok {
			acc.sparse[j] = acc.add.Apply(old, v)
		} else {
			acc.sparse[j] = v
			acc.touched = append(acc.touched, j)
		}
		return
	}
	if acc.seen[j] {
		acc.dense[j] = acc.add.Apply(acc.dense[j], v)
		return
	}
	acc.seen[j] = true
	acc.dense[j] = v
	acc.touched = append(acc.touched, j)
}

// gather returns the accumulated row sorted by column and resets acc.
func (acc *rowAccumulator[T]) gather() []Entry[T] {
	if len(acc.touched) == 0 {
		return nil
	}
	slices.Sort(acc.touched)
	entries := make([]Entry[T], len(acc.touched))
	for n, j := range acc.touched {
		if acc.sparse != nil {
			entries[n] = Entry[T]{Index: j, Value: acc.sparse[j]}
			delete(acc.sparse, j)
		} else {
			entries[n] = Entry[T]{Index: j, Value: acc.dense[j]}
			acc.seen[j] = false
		}
	}
	acc.touched = acc.touched[:0]
	return entries
}
