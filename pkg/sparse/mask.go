package sparse

import (
	"k3l.io/go-graphblas/pkg/sparse/index"
	"k3l.io/go-graphblas/pkg/sparse/op"
	spopt "k3l.io/go-graphblas/pkg/sparse/option"
	"k3l.io/go-graphblas/pkg/sparse/value"
)

// Mask gates which output positions an operation may write.
//
// Any *Matrix or *Vector, of any value type, is a Mask.  A mask position is
// set if an element is stored there and its value is truthy (non-zero);
// under spopt.StructureOnlyMask, every stored element sets its position.
// A nil Mask (or a nil *Matrix/*Vector) sets every position.
type Mask interface {
	maskView(structureOnly bool) *maskView
}

// maskView is the value-type-independent reading of a mask.
type maskView struct {
	size   Size
	vector bool
	// row returns the sorted positions set in the given row.
	row func(major index.Index) []index.Index
}

func maskViewOf[M value.Value](g *grid[M], structureOnly bool) *maskView {
	return &maskView{
		size:   g.size,
		vector: g.vector,
		row: func(major index.Index) []index.Index {
			entries := g.row(major)
			set := make([]index.Index, 0, len(entries))
			for _, e := range entries {
				if structureOnly || value.Truthy(e.Value) {
					set = append(set, e.Index)
				}
			}
			return set
		},
	}
}

func (m *Matrix[T]) maskView(structureOnly bool) *maskView {
	if m == nil || m.g == nil {
		return nil
	}
	return maskViewOf(m.g, structureOnly)
}

func (v *Vector[T]) maskView(structureOnly bool) *maskView {
	if v == nil || v.g == nil {
		return nil
	}
	return maskViewOf(v.g, structureOnly)
}

// resolveMask reads the mask and checks it against the output shape:
// a vector output takes a vector mask and a matrix output a matrix mask,
// both of the output size.
func resolveMask[T value.Value](mask Mask, out *grid[T], o *spopt.Set) (*maskView, error) {
	if mask == nil {
		return nil, nil
	}
	mv := mask.maskView(o.StructureOnlyMask)
	if mv == nil {
		return nil, nil
	}
	size := out.size
	if mv.vector != out.vector {
		return nil, dimensionMismatch("%s mask for a %s output",
			shapeName(mv.vector), shapeName(out.vector))
	}
	if mv.size != size {
		return nil, dimensionMismatch("mask is %dx%d, output is %dx%d",
			mv.size.Rows, mv.size.Columns, size.Rows, size.Columns)
	}
	return mv, nil
}

func shapeName(vector bool) string {
	if vector {
		return "vector"
	}
	return "matrix"
}

// maskWriter applies the mask/accumulate/replace rule to one output.
//
// For every output position p, with c the stored output and t the
// computed result:
//
//   - if the mask allows p and t has a value there, p becomes
//     accum(c, t) when c is stored and accum accumulates, otherwise t;
//   - if the mask allows p and t has no value there, p keeps c when
//     accum accumulates, otherwise p is deleted;
//   - if the mask does not allow p, p is deleted under Replace,
//     otherwise it keeps c.
type maskWriter[T value.Value] struct {
	mask       *maskView
	complement bool
	replace    bool
	accum      op.BinaryOperator[T]
	accumulate bool
}

func newMaskWriter[T value.Value](
	mask *maskView, accum op.BinaryOperator[T], o *spopt.Set,
) *maskWriter[T] {
	return &maskWriter[T]{
		mask:       mask,
		complement: o.StructuralComplement,
		replace:    o.Replace,
		accum:      accum,
		accumulate: accum.Accumulates(),
	}
}

// write merges t into c under the rule above, replacing c's storage.
// c is left unchanged if an accumulator panics.
func (w *maskWriter[T]) write(c, t *grid[T]) {
	var b rowBuilder[T]
	ci, ti := 0, 0
	for ci < len(c.spans) || ti < len(t.spans) {
		var major index.Index
		var cRow, tRow []Entry[T]
		switch {
		case ti == len(t.spans) ||
			(ci < len(c.spans) && c.spans[ci].Major < t.spans[ti].Major):
			major, cRow = c.spans[ci].Major, c.spans[ci].Entries
			ci++
		case ci == len(c.spans) || t.spans[ti].Major < c.spans[ci].Major:
			major, tRow = t.spans[ti].Major, t.spans[ti].Entries
			ti++
		default:
			major = c.spans[ci].Major
			cRow, tRow = c.spans[ci].Entries, t.spans[ti].Entries
			ci++
			ti++
		}
		b.add(major, w.mergeRow(major, cRow, tRow))
	}
	c.spans = b.spans
	c.touch()
}

func (w *maskWriter[T]) mergeRow(
	major index.Index, cRow, tRow []Entry[T],
) []Entry[T] {
	var set []index.Index
	if w.mask != nil {
		set = w.mask.row(major)
	}
	allowed := func(i index.Index) bool {
		if w.mask == nil {
			return !w.complement
		}
		for len(set) > 0 && set[0] < i {
			set = set[1:]
		}
		return (len(set) > 0 && set[0] == i) != w.complement
	}
	out := make([]Entry[T], 0, max(len(cRow), len(tRow)))
	for len(cRow) > 0 || len(tRow) > 0 {
		var i index.Index
		var cv, tv T
		var cok, tok bool
		switch {
		case len(tRow) == 0 || (len(cRow) > 0 && cRow[0].Index < tRow[0].Index):
			i, cv, cok = cRow[0].Index, cRow[0].Value, true
			cRow = cRow[1:]
		case len(cRow) == 0 || tRow[0].Index < cRow[0].Index:
			i, tv, tok = tRow[0].Index, tRow[0].Value, true
			tRow = tRow[1:]
		default:
			i, cv, tv, cok, tok = cRow[0].Index, cRow[0].Value, tRow[0].Value, true, true
			cRow, tRow = cRow[1:], tRow[1:]
		}
		var v T
		var keep bool
		switch {
		case !allowed(i):
			v, keep = cv, cok && !w.replace
		case tok && cok && w.accumulate:
			v, keep = w.accum.Apply(cv, tv), true
		case tok:
			v, keep = tv, true
		default:
			v, keep = cv, cok && w.accumulate
		}
		if keep {
			out = append(out, Entry[T]{Index: i, Value: v})
		}
	}
	return out
}

// writeMasked validates the mask against c and merges t into c.
func writeMasked[T value.Value](
	c, t *grid[T], mask Mask, accum op.BinaryOperator[T], o *spopt.Set,
) error {
	mv, err := resolveMask(mask, c, o)
	if err != nil {
		return err
	}
	newMaskWriter(mv, accum, o).write(c, t)
	return nil
}
