package sparse

import (
	"k3l.io/go-graphblas/pkg/sparse/index"
	"k3l.io/go-graphblas/pkg/sparse/value"
)

// Entry is a stored element of a sparse vector, or of one matrix row.
type Entry[T value.Value] struct {
	// Index is the index of the entry.
	// Context decides the meaning: it is a column index within a matrix row.
	Index index.Index

	// Value is the stored value.  A stored zero is distinct from absence.
	Value T
}

// CooEntry is a sparse matrix coordinate-format ("Coo") entry.
// Used as an input to a sparse matrix builder.
type CooEntry[T value.Value] struct {
	Row, Column index.Index
	Value       T
}

// Coordinate addresses one matrix cell.
type Coordinate struct {
	Row, Column index.Index
}

// Size is the shape of a matrix.
type Size struct {
	Rows, Columns index.Index
}

// Cells returns the number of cells, Rows*Columns,
// or ErrIndexOverflow if it does not fit in an Index.
func (s Size) Cells() (index.Index, error) {
	return index.Checked(s.Rows, s.Columns)
}

// Transposed returns the size with rows and columns swapped.
func (s Size) Transposed() Size { return Size{Rows: s.Columns, Columns: s.Rows} }

// CSREntriesSort sorts CooEntry objects by (row, column) key.
type CSREntriesSort[T value.Value] []CooEntry[T]

func (a CSREntriesSort[T]) Len() int      { return len(a) }
func (a CSREntriesSort[T]) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a CSREntriesSort[T]) Less(i, j int) bool {
	switch {
	case a[i].Row < a[j].Row:
		return true
	case a[i].Row > a[j].Row:
		return false
	case a[i].Column < a[j].Column:
		return true
	}
	return false
}

// EntriesByIndex sorts Entry objects by index.
type EntriesByIndex[T value.Value] []Entry[T]

func (a EntriesByIndex[T]) Len() int           { return len(a) }
func (a EntriesByIndex[T]) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a EntriesByIndex[T]) Less(i, j int) bool { return a[i].Index < a[j].Index }
