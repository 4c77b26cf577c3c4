package sparse

import (
	"sort"

	"k3l.io/go-graphblas/pkg/sparse/index"
	"k3l.io/go-graphblas/pkg/sparse/op"
	spopt "k3l.io/go-graphblas/pkg/sparse/option"
	"k3l.io/go-graphblas/pkg/sparse/value"
)

// SortMatrix sorts every row of a (every column under TransposeFirst)
// by the ordering less, where less(x, y) is truthy iff x goes before y;
// e.g. op.IsGreaterThan sorts in descending order.  Ties keep their
// original order.
//
// The k-th sorted element of a row is stored at position k of the same
// row of values, and its original column index at position k of perm.
// Either output may be nil; values and perm are overwritten, not masked.
// Non-nil outputs must have the size of a.
func SortMatrix[T value.Value](
	values *Matrix[T], perm *Matrix[uint64],
	less op.BinaryOperator[T], a *Matrix[T], opts ...spopt.Option,
) error {
	if values == nil && perm == nil {
		return nil
	}
	return a.context().run("SortMatrix", func() error {
		o := spopt.New(opts...)
		ag, err := operand(a, o.TransposeFirst)
		if err != nil {
			return err
		}
		var vg *grid[T]
		var pg *grid[uint64]
		size := ag.size
		if o.TransposeFirst {
			size = size.Transposed()
		}
		if values != nil {
			if vg, err = values.storage(); err != nil {
				return err
			}
			if vg.size != size {
				return dimensionMismatch("input is %dx%d, values output is %dx%d",
					size.Rows, size.Columns, vg.size.Rows, vg.size.Columns)
			}
		}
		if perm != nil {
			if pg, err = perm.storage(); err != nil {
				return err
			}
			if pg.size != size {
				return dimensionMismatch("input is %dx%d, permutation output is %dx%d",
					size.Rows, size.Columns, pg.size.Rows, pg.size.Columns)
			}
		}
		sorted, witness := sortRows(ag, less)
		if o.TransposeFirst {
			sorted, witness = sorted.transposed(), witness.transposed()
		}
		if vg != nil {
			vg.spans = sorted.spans
			vg.touch()
		}
		if pg != nil {
			pg.spans = witness.spans
			pg.touch()
		}
		return nil
	})
}

// SortVector sorts the elements of u by less, as SortMatrix does a row.
func SortVector[T value.Value](
	values *Vector[T], perm *Vector[uint64],
	less op.BinaryOperator[T], u *Vector[T],
) error {
	if values == nil && perm == nil {
		return nil
	}
	return u.context().run("SortVector", func() error {
		ug, err := u.storage()
		if err != nil {
			return err
		}
		var vg *grid[T]
		var pg *grid[uint64]
		if values != nil {
			if vg, err = values.storage(); err != nil {
				return err
			}
			if vg.size != ug.size {
				return dimensionMismatch("input has length %d, values output has %d",
					ug.size.Columns, vg.size.Columns)
			}
		}
		if perm != nil {
			if pg, err = perm.storage(); err != nil {
				return err
			}
			if pg.size != ug.size {
				return dimensionMismatch("input has length %d, permutation output has %d",
					ug.size.Columns, pg.size.Columns)
			}
		}
		sorted, witness := sortRows(ug, less)
		if vg != nil {
			vg.spans = sorted.spans
			vg.touch()
		}
		if pg != nil {
			pg.spans = witness.spans
			pg.touch()
		}
		return nil
	})
}

// sortRows returns the rows of g stably sorted by less and packed to the
// front, together with the original column of every sorted element.
func sortRows[T value.Value](
	g *grid[T], less op.BinaryOperator[T],
) (*grid[T], *grid[uint64]) {
	var sorted rowBuilder[T]
	var witness rowBuilder[uint64]
	for _, s := range g.spans {
		entries := cloneEntries(s.Entries)
		sort.SliceStable(entries, func(i, j int) bool {
			return value.Truthy(less.Apply(entries[i].Value, entries[j].Value))
		})
		origins := make([]Entry[uint64], len(entries))
		for k := range entries {
			origins[k] = Entry[uint64]{Index: index.Index(k), Value: uint64(entries[k].Index)}
			entries[k].Index = index.Index(k)
		}
		sorted.add(s.Major, entries)
		witness.add(s.Major, origins)
	}
	return sorted.grid(g.size), witness.grid(g.size)
}
