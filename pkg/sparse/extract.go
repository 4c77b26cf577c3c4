package sparse

import (
	"slices"

	"github.com/go-faster/errors"

	"k3l.io/go-graphblas/pkg/sparse/index"
	"k3l.io/go-graphblas/pkg/sparse/op"
	spopt "k3l.io/go-graphblas/pkg/sparse/option"
	"k3l.io/go-graphblas/pkg/sparse/value"
)

// ExtractMatrix computes out<mask> = accum(out, a(rows, cols)).
//
// Position (r, c) of the extracted matrix is a(rows.At(r), cols.At(c)),
// so out must be rows.Count() x cols.Count().  Explicit selectors may list
// an index more than once.  TransposeFirst extracts from the transpose of a.
func ExtractMatrix[T value.Value](
	out *Matrix[T], mask Mask, accum op.BinaryOperator[T],
	a *Matrix[T], rows, cols index.Selector, opts ...spopt.Option,
) error {
	return out.context().run("ExtractMatrix", func() error {
		o := spopt.New(opts...)
		og, err := out.storage()
		if err != nil {
			return err
		}
		ag, err := operand(a, o.TransposeFirst)
		if err != nil {
			return err
		}
		if err := validateSelector("row", rows, ag.size.Rows); err != nil {
			return err
		}
		if err := validateSelector("column", cols, ag.size.Columns); err != nil {
			return err
		}
		size := Size{Rows: rows.Count(ag.size.Rows), Columns: cols.Count(ag.size.Columns)}
		if og.size != size {
			return dimensionMismatch("selection is %dx%d, output is %dx%d",
				size.Rows, size.Columns, og.size.Rows, og.size.Columns)
		}
		return writeMasked(og, extract(ag, rows, cols), mask, accum, o)
	})
}

// ExtractColumn computes out<mask> = accum(out, a(rows, col)):
// the selected rows of column col.  Under TransposeFirst it extracts
// from the transpose of a, i.e. from row col of a.
func ExtractColumn[T value.Value](
	out *Vector[T], mask Mask, accum op.BinaryOperator[T],
	a *Matrix[T], rows index.Selector, col index.Index, opts ...spopt.Option,
) error {
	return out.context().run("ExtractColumn", func() error {
		o := spopt.New(opts...)
		og, err := out.storage()
		if err != nil {
			return err
		}
		ag, err := a.storage()
		if err != nil {
			return err
		}
		// line is the source line as a vector grid.
		var line *grid[T]
		if o.TransposeFirst {
			if err := checkBound("row", col, ag.size.Rows); err != nil {
				return err
			}
			line = vectorGrid(ag.size.Columns, ag.row(col))
		} else {
			if err := checkBound("column", col, ag.size.Columns); err != nil {
				return err
			}
			line = vectorGrid(ag.size.Rows, column(ag, col))
		}
		if err := validateSelector("index", rows, line.size.Columns); err != nil {
			return err
		}
		if n := rows.Count(line.size.Columns); og.size.Columns != n {
			return dimensionMismatch("selection has length %d, output has %d",
				n, og.size.Columns)
		}
		return writeMasked(og, extract(line, index.All(), rows), mask, accum, o)
	})
}

// ExtractVector computes out<mask> = accum(out, u(indices)).
func ExtractVector[T value.Value](
	out *Vector[T], mask Mask, accum op.BinaryOperator[T],
	u *Vector[T], indices index.Selector, opts ...spopt.Option,
) error {
	return out.context().run("ExtractVector", func() error {
		o := spopt.New(opts...)
		og, err := out.storage()
		if err != nil {
			return err
		}
		ug, err := u.storage()
		if err != nil {
			return err
		}
		if err := validateSelector("index", indices, ug.size.Columns); err != nil {
			return err
		}
		if n := indices.Count(ug.size.Columns); og.size.Columns != n {
			return dimensionMismatch("selection has length %d, output has %d",
				n, og.size.Columns)
		}
		return writeMasked(og, extract(ug, index.All(), indices), mask, accum, o)
	})
}

func validateSelector(axis string, s index.Selector, dim index.Index) error {
	var oob index.OutOfBoundsError
	if err := s.Validate(dim); errors.As(err, &oob) {
		return IndexOutOfBoundsError{Axis: axis, OutOfBoundsError: oob}
	} else if err != nil {
		return err
	}
	return nil
}

// column returns the entries of column col, indexed by row.
func column[T value.Value](g *grid[T], col index.Index) []Entry[T] {
	var entries []Entry[T]
	for _, s := range g.spans {
		if v, ok := rowValue(s.Entries, col); ok {
			entries = append(entries, Entry[T]{Index: s.Major, Value: v})
		}
	}
	return entries
}

func rowValue[T value.Value](entries []Entry[T], col index.Index) (v T, ok bool) {
	pos, ok := slices.BinarySearchFunc(entries, col, compareEntry[T])
	if ok {
		v = entries[pos].Value
	}
	return
}

// extract returns g(rows, cols) as a new rows.Count x cols.Count grid.
func extract[T value.Value](g *grid[T], rows, cols index.Selector) *grid[T] {
	size := Size{Rows: rows.Count(g.size.Rows), Columns: cols.Count(g.size.Columns)}
	// Source column -> every output position selecting it.
	var positions map[index.Index][]index.Index
	if !cols.IsAll() {
		positions = make(map[index.Index][]index.Index)
		for pos, src := range cols.Indices() {
			positions[src] = append(positions[src], index.Index(pos))
		}
	}
	pick := func(entries []Entry[T]) []Entry[T] {
		if positions == nil {
			return cloneEntries(entries)
		}
		var out []Entry[T]
		for _, e := range entries {
			for _, pos := range positions[e.Index] {
				out = append(out, Entry[T]{Index: pos, Value: e.Value})
			}
		}
		slices.SortFunc(out, func(x, y Entry[T]) int { return compareEntry(x, y.Index) })
		return out
	}
	var rb rowBuilder[T]
	if rows.IsAll() {
		for _, s := range g.spans {
			rb.add(s.Major, pick(s.Entries))
		}
	} else {
		for pos, src := range rows.Indices() {
			rb.add(index.Index(pos), pick(g.row(src)))
		}
	}
	return rb.grid(size)
}
