package sparse

import (
	"cmp"
	"slices"
	"sort"

	"github.com/go-faster/errors"
	"github.com/mohae/deepcopy"

	"k3l.io/go-graphblas/pkg/sparse/index"
	"k3l.io/go-graphblas/pkg/sparse/op"
	"k3l.io/go-graphblas/pkg/sparse/value"
)

// span is one non-empty row of a grid.
type span[T value.Value] struct {
	Major   index.Index
	Entries []Entry[T]
}

// grid is hypersparse compressed-row storage shared by matrices and
// vectors (a vector is a 1-row grid).  Only non-empty rows are kept,
// sorted by row index; each row's entries are sorted by column index.
//
// version changes on every mutation; iterators use it to detect
// concurrent modification.
type grid[T value.Value] struct {
	size    Size
	spans   []span[T]
	version uint64
	// vector marks the storage of a Vector.
	vector bool
}

func newGrid[T value.Value](size Size) *grid[T] {
	return &grid[T]{size: size}
}

func compareSpan[T value.Value](s span[T], major index.Index) int {
	return cmp.Compare(s.Major, major)
}

func compareEntry[T value.Value](e Entry[T], minor index.Index) int {
	return cmp.Compare(e.Index, minor)
}

func (g *grid[T]) touch() { g.version++ }

func (g *grid[T]) findSpan(major index.Index) (int, bool) {
	return slices.BinarySearchFunc(g.spans, major, compareSpan[T])
}

// row returns the entries of the given row, nil if it is empty.
// The returned slice is shared with the grid.
func (g *grid[T]) row(major index.Index) []Entry[T] {
	if pos, ok := g.findSpan(major); ok {
		return g.spans[pos].Entries
	}
	return nil
}

func (g *grid[T]) get(row, col index.Index) (v T, ok bool) {
	entries := g.row(row)
	pos, ok := slices.BinarySearchFunc(entries, col, compareEntry[T])
	if ok {
		v = entries[pos].Value
	}
	return
}

func (g *grid[T]) set(row, col index.Index, v T) {
	defer g.touch()
	pos, ok := g.findSpan(row)
	if !ok {
		g.spans = slices.Insert(g.spans, pos, span[T]{
			Major:   row,
			Entries: []Entry[T]{{Index: col, Value: v}},
		})
		return
	}
	entries := g.spans[pos].Entries
	epos, found := slices.BinarySearchFunc(entries, col, compareEntry[T])
	if found {
		entries[epos].Value = v
		return
	}
	g.spans[pos].Entries = slices.Insert(entries, epos,
		Entry[T]{Index: col, Value: v})
}

func (g *grid[T]) remove(row, col index.Index) {
	pos, ok := g.findSpan(row)
	if !ok {
		return
	}
	entries := g.spans[pos].Entries
	epos, found := slices.BinarySearchFunc(entries, col, compareEntry[T])
	if !found {
		return
	}
	defer g.touch()
	entries = slices.Delete(entries, epos, epos+1)
	if len(entries) == 0 {
		g.spans = slices.Delete(g.spans, pos, pos+1)
		return
	}
	g.spans[pos].Entries = entries
}

func (g *grid[T]) nnz() (nnz int) {
	for _, s := range g.spans {
		nnz += len(s.Entries)
	}
	return
}

func (g *grid[T]) clear() {
	g.spans = nil
	g.touch()
}

// resize grows/shrinks the grid in-place; elements outside the new bounds
// are dropped.
func (g *grid[T]) resize(size Size) {
	defer g.touch()
	if size.Rows < g.size.Rows {
		end := sort.Search(len(g.spans),
			func(i int) bool { return g.spans[i].Major >= size.Rows })
		g.spans = g.spans[:end]
	}
	if size.Columns < g.size.Columns {
		kept := g.spans[:0]
		for _, s := range g.spans {
			entries := s.Entries
			end := sort.Search(len(entries),
				func(i int) bool { return entries[i].Index >= size.Columns })
			if end > 0 {
				kept = append(kept, span[T]{Major: s.Major, Entries: entries[:end]})
			}
		}
		clear(g.spans[len(kept):])
		g.spans = kept
	}
	g.size = size
}

// clone returns a deep copy, sharing no storage with the receiver.
func (g *grid[T]) clone() *grid[T] {
	return &grid[T]{
		size:   g.size,
		spans:  deepcopy.Copy(g.spans).([]span[T]),
		vector: g.vector,
	}
}

func (g *grid[T]) forEach(fn func(row, col index.Index, v T)) {
	for _, s := range g.spans {
		for _, e := range s.Entries {
			fn(s.Major, e.Index, e.Value)
		}
	}
}

func (g *grid[T]) coo() []CooEntry[T] {
	entries := make([]CooEntry[T], 0, g.nnz())
	g.forEach(func(row, col index.Index, v T) {
		entries = append(entries, CooEntry[T]{Row: row, Column: col, Value: v})
	})
	return entries
}

// filterMap builds a new grid of the given size from the stored elements
// for which fn returns ok, with the values fn returns.
func filterMap[S, T value.Value](
	g *grid[S], size Size, fn func(row, col index.Index, v S) (T, bool, error),
) (*grid[T], error) {
	out := newGrid[T](size)
	for _, s := range g.spans {
		var entries []Entry[T]
		for _, e := range s.Entries {
			v, ok, err := fn(s.Major, e.Index, e.Value)
			if err != nil {
				return nil, err
			}
			if ok {
				entries = append(entries, Entry[T]{Index: e.Index, Value: v})
			}
		}
		if len(entries) > 0 {
			out.spans = append(out.spans, span[T]{Major: s.Major, Entries: entries})
		}
	}
	return out, nil
}

// transposed returns a new grid holding the transpose.
//
// Columns are counted first so that every output row is allocated once;
// a map keeps this proportional to the number of stored elements
// even for hypersparse column ranges.
func (g *grid[T]) transposed() *grid[T] {
	nnzs := make(map[index.Index]int)
	for _, s := range g.spans {
		for _, e := range s.Entries {
			nnzs[e.Index]++
		}
	}
	cols := make([]index.Index, 0, len(nnzs))
	for col := range nnzs {
		cols = append(cols, col)
	}
	slices.Sort(cols)
	spans := make([]span[T], len(cols))
	pos := make(map[index.Index]int, len(cols))
	for i, col := range cols {
		spans[i] = span[T]{Major: col, Entries: make([]Entry[T], 0, nnzs[col])}
		pos[col] = i
	}
	for _, s := range g.spans {
		for _, e := range s.Entries {
			i := pos[e.Index]
			spans[i].Entries = append(spans[i].Entries,
				Entry[T]{Index: s.Major, Value: e.Value})
		}
	}
	return &grid[T]{size: g.size.Transposed(), spans: spans}
}

// gridFromCoo builds a grid from coordinate-format entries.
// Duplicates are merged left to right in input order with dup;
// a zero-value dup rejects them with ErrDuplicateIndex.
func gridFromCoo[T value.Value](
	size Size, entries []CooEntry[T], dup op.BinaryOperator[T],
) (*grid[T], error) {
	for _, e := range entries {
		if err := checkBound("row", e.Row, size.Rows); err != nil {
			return nil, err
		}
		if err := checkBound("column", e.Column, size.Columns); err != nil {
			return nil, err
		}
	}
	sorted := slices.Clone(entries)
	sort.Stable(CSREntriesSort[T](sorted))
	g := newGrid[T](size)
	for i := 0; i < len(sorted); {
		row := sorted[i].Row
		var rowEntries []Entry[T]
		for ; i < len(sorted) && sorted[i].Row == row; i++ {
			e := sorted[i]
			last := len(rowEntries) - 1
			if last < 0 || rowEntries[last].Index != e.Column {
				rowEntries = append(rowEntries,
					Entry[T]{Index: e.Column, Value: e.Value})
				continue
			}
			if dup.IsZero() {
				return nil, errors.Wrapf(ErrDuplicateIndex,
					"element (%d, %d) given more than once", e.Row, e.Column)
			}
			rowEntries[last].Value = dup.Apply(rowEntries[last].Value, e.Value)
		}
		g.spans = append(g.spans, span[T]{Major: row, Entries: rowEntries})
	}
	return g, nil
}

// rowBuilder collects output rows in increasing row order.
type rowBuilder[T value.Value] struct {
	spans []span[T]
}

func (b *rowBuilder[T]) add(major index.Index, entries []Entry[T]) {
	if len(entries) > 0 {
		b.spans = append(b.spans, span[T]{Major: major, Entries: entries})
	}
}

func (b *rowBuilder[T]) grid(size Size) *grid[T] {
	return &grid[T]{size: size, spans: b.spans}
}

// chunks splits [0, n) into at most k contiguous ranges of similar size.
func chunks(n, k int) [][2]int {
	if n == 0 {
		return nil
	}
	k = max(1, min(k, n))
	ranges := make([][2]int, 0, k)
	for i := 0; i < k; i++ {
		ranges = append(ranges, [2]int{i * n / k, (i + 1) * n / k})
	}
	return ranges
}
