package sparse

import (
	"github.com/go-faster/errors"

	"k3l.io/go-graphblas/pkg/sparse/index"
	"k3l.io/go-graphblas/pkg/sparse/op"
	spopt "k3l.io/go-graphblas/pkg/sparse/option"
	"k3l.io/go-graphblas/pkg/sparse/value"
)

// Two insertion families are provided.
//
// Assign (GrB_assign) computes out(rows, cols)<mask> = accum(out(rows, cols), a)
// with a mask the size of out.  Positions outside the window are not
// written, but the mask still applies to them: under Replace, positions
// outside the window where the mask does not allow writing are cleared.
//
// SubAssign (GxB_subassign) computes out(rows, cols)<mask> = accum(...)
// with a mask the size of the window.  Nothing outside the window ever
// changes, Replace included.
//
// In both families explicit selectors must not list an index twice
// (ErrDuplicateIndex), and without an accumulator, window positions
// where a stores no element are deleted.

// AssignMatrix assigns a to the window out(rows, cols).
// TransposeFirst assigns the transpose of a.
func AssignMatrix[T value.Value](
	out *Matrix[T], mask Mask, accum op.BinaryOperator[T],
	a *Matrix[T], rows, cols index.Selector, opts ...spopt.Option,
) error {
	return out.context().run("AssignMatrix", func() error {
		o := spopt.New(opts...)
		og, err := out.storage()
		if err != nil {
			return err
		}
		ag, err := operand(a, o.TransposeFirst)
		if err != nil {
			return err
		}
		if err := checkWindow(og.size, ag.size, rows, cols); err != nil {
			return err
		}
		return assign(og, ag, mask, accum, rows, cols, o)
	})
}

// AssignVector assigns u to the window out(indices).
func AssignVector[T value.Value](
	out *Vector[T], mask Mask, accum op.BinaryOperator[T],
	u *Vector[T], indices index.Selector, opts ...spopt.Option,
) error {
	return out.context().run("AssignVector", func() error {
		o := spopt.New(opts...)
		og, err := out.storage()
		if err != nil {
			return err
		}
		ug, err := u.storage()
		if err != nil {
			return err
		}
		if err := checkWindow(og.size, ug.size, index.All(), indices); err != nil {
			return err
		}
		return assign(og, ug, mask, accum, index.All(), indices, o)
	})
}

// AssignMatrixScalar assigns x, converted to T, to every position of the
// window out(rows, cols).
func AssignMatrixScalar[T, S value.Value](
	out *Matrix[T], mask Mask, accum op.BinaryOperator[T],
	x S, rows, cols index.Selector, opts ...spopt.Option,
) error {
	return out.context().run("AssignMatrixScalar", func() error {
		o := spopt.New(opts...)
		og, err := out.storage()
		if err != nil {
			return err
		}
		v, err := value.Convert[S, T](x)
		if err != nil {
			return err
		}
		window := Size{Rows: rows.Count(og.size.Rows), Columns: cols.Count(og.size.Columns)}
		if err := checkWindow(og.size, window, rows, cols); err != nil {
			return err
		}
		filled, err := filledGrid(window, v)
		if err != nil {
			return err
		}
		return assign(og, filled, mask, accum, rows, cols, o)
	})
}

// AssignVectorScalar assigns x, converted to T, to every position of the
// window out(indices).
func AssignVectorScalar[T, S value.Value](
	out *Vector[T], mask Mask, accum op.BinaryOperator[T],
	x S, indices index.Selector, opts ...spopt.Option,
) error {
	return out.context().run("AssignVectorScalar", func() error {
		o := spopt.New(opts...)
		og, err := out.storage()
		if err != nil {
			return err
		}
		v, err := value.Convert[S, T](x)
		if err != nil {
			return err
		}
		window := vectorSize(indices.Count(og.size.Columns))
		if err := checkWindow(og.size, window, index.All(), indices); err != nil {
			return err
		}
		filled, err := filledGrid(window, v)
		if err != nil {
			return err
		}
		return assign(og, filled, mask, accum, index.All(), indices, o)
	})
}

// SubAssignMatrix assigns a to the window out(rows, cols) under a mask
// the size of the window.  TransposeFirst assigns the transpose of a.
func SubAssignMatrix[T value.Value](
	out *Matrix[T], mask Mask, accum op.BinaryOperator[T],
	a *Matrix[T], rows, cols index.Selector, opts ...spopt.Option,
) error {
	return out.context().run("SubAssignMatrix", func() error {
		o := spopt.New(opts...)
		og, err := out.storage()
		if err != nil {
			return err
		}
		ag, err := operand(a, o.TransposeFirst)
		if err != nil {
			return err
		}
		if err := checkWindow(og.size, ag.size, rows, cols); err != nil {
			return err
		}
		return subAssign(og, ag, mask, accum, rows, cols, o)
	})
}

// SubAssignVector assigns u to the window out(indices) under a mask
// the size of the window.
func SubAssignVector[T value.Value](
	out *Vector[T], mask Mask, accum op.BinaryOperator[T],
	u *Vector[T], indices index.Selector, opts ...spopt.Option,
) error {
	return out.context().run("SubAssignVector", func() error {
		o := spopt.New(opts...)
		og, err := out.storage()
		if err != nil {
			return err
		}
		ug, err := u.storage()
		if err != nil {
			return err
		}
		if err := checkWindow(og.size, ug.size, index.All(), indices); err != nil {
			return err
		}
		return subAssign(og, ug, mask, accum, index.All(), indices, o)
	})
}

// checkWindow validates the selectors against the output size and the
// source size against the window they select.
func checkWindow(out, src Size, rows, cols index.Selector) error {
	if err := validateSelector("row", rows, out.Rows); err != nil {
		return err
	}
	if err := validateSelector("column", cols, out.Columns); err != nil {
		return err
	}
	if !rows.Unique() {
		return errors.Wrap(ErrDuplicateIndex, "row selector")
	}
	if !cols.Unique() {
		return errors.Wrap(ErrDuplicateIndex, "column selector")
	}
	window := Size{Rows: rows.Count(out.Rows), Columns: cols.Count(out.Columns)}
	if src != window {
		return dimensionMismatch("source is %dx%d, window is %dx%d",
			src.Rows, src.Columns, window.Rows, window.Columns)
	}
	return nil
}

// filledGrid returns a grid of the given size storing v everywhere.
func filledGrid[T value.Value](size Size, v T) (*grid[T], error) {
	cells, err := size.Cells()
	if err != nil {
		return nil, err
	}
	if _, err := cells.Int(); err != nil {
		return nil, err
	}
	var rb rowBuilder[T]
	for r := index.Index(0); r < size.Rows; r++ {
		entries := make([]Entry[T], size.Columns)
		for c := range entries {
			entries[c] = Entry[T]{Index: index.Index(c), Value: v}
		}
		rb.add(r, entries)
	}
	return rb.grid(size), nil
}

func assign[T value.Value](
	c, a *grid[T], mask Mask, accum op.BinaryOperator[T],
	rows, cols index.Selector, o *spopt.Set,
) error {
	placed, err := scatterWindow(c.size, a, rows, cols)
	if err != nil {
		return err
	}
	z := c
	merge := accum
	if !accum.Accumulates() {
		z = withoutWindow(c, rows, cols)
		merge = op.Second[T]()
	}
	z = ewise(z, placed, merge, true)
	return writeMasked(c, z, mask, op.BinaryOperator[T]{}, o)
}

func subAssign[T value.Value](
	c, a *grid[T], mask Mask, accum op.BinaryOperator[T],
	rows, cols index.Selector, o *spopt.Set,
) error {
	s := extract(c, rows, cols)
	s.vector = c.vector
	if err := writeMasked(s, a, mask, accum, o); err != nil {
		return err
	}
	placed, err := scatterWindow(c.size, s, rows, cols)
	if err != nil {
		return err
	}
	z := ewise(withoutWindow(c, rows, cols), placed, op.Second[T](), true)
	c.spans = z.spans
	c.touch()
	return nil
}

// scatterWindow maps the elements of src, a window-sized grid, onto the
// window positions of a grid of the given size.
func scatterWindow[T value.Value](
	size Size, src *grid[T], rows, cols index.Selector,
) (*grid[T], error) {
	if rows.IsAll() && cols.IsAll() {
		return &grid[T]{size: size, spans: src.spans}, nil
	}
	entries := make([]CooEntry[T], 0, src.nnz())
	src.forEach(func(r, col index.Index, v T) {
		entries = append(entries, CooEntry[T]{Row: rows.At(r), Column: cols.At(col), Value: v})
	})
	return gridFromCoo(size, entries, op.BinaryOperator[T]{})
}

// withoutWindow returns g with the elements inside the window removed.
func withoutWindow[T value.Value](g *grid[T], rows, cols index.Selector) *grid[T] {
	inRows := rows.Inverse(g.size.Rows)
	inCols := cols.Inverse(g.size.Columns)
	var rb rowBuilder[T]
	for _, s := range g.spans {
		if _, ok := inRows(s.Major); !ok {
			rb.add(s.Major, s.Entries)
			continue
		}
		if cols.IsAll() {
			continue
		}
		kept := make([]Entry[T], 0, len(s.Entries))
		for _, e := range s.Entries {
			if _, ok := inCols(e.Index); !ok {
				kept = append(kept, e)
			}
		}
		rb.add(s.Major, kept)
	}
	return rb.grid(g.size)
}
