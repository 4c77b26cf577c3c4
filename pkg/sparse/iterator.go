package sparse

import (
	"iter"

	"k3l.io/go-graphblas/pkg/sparse/index"
	"k3l.io/go-graphblas/pkg/sparse/value"
)

type iteratorState int

const (
	notStarted iteratorState = iota
	inProgress
	exhausted
)

// cursor walks the stored elements of a grid in row-major order.
type cursor[T value.Value] struct {
	g       *grid[T]
	version uint64
	state   iteratorState
	si, ei  int
	err     error
}

func newCursor[T value.Value](g *grid[T]) cursor[T] {
	return cursor[T]{g: g, version: g.version}
}

func (c *cursor[T]) next() bool {
	switch c.state {
	case exhausted:
		return false
	case notStarted:
		c.state = inProgress
	case inProgress:
		c.ei++
	}
	if c.g.version != c.version {
		c.err = ErrIteratorInvalidated
		c.state = exhausted
		return false
	}
	spans := c.g.spans
	for c.si < len(spans) && c.ei >= len(spans[c.si].Entries) {
		c.si++
		c.ei = 0
	}
	if c.si >= len(spans) {
		c.state = exhausted
		return false
	}
	return true
}

func (c *cursor[T]) current() (major index.Index, e Entry[T], err error) {
	switch {
	case c.state != inProgress:
		return 0, e, ErrIteratorExhausted
	case c.g.version != c.version:
		return 0, e, ErrIteratorInvalidated
	}
	s := c.g.spans[c.si]
	return s.Major, s.Entries[c.ei], nil
}

// MatrixIterator iterates over the stored elements of a matrix
// in row-major order.
//
//	it := m.Iterator()
//	for it.Next() {
//		e, _ := it.Entry()
//		...
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
//
// Next returning false with a nil Err means the elements are exhausted.
// Mutating the matrix during iteration makes Next return false and Err
// return ErrIteratorInvalidated.  An iterator must not be shared between
// goroutines.
type MatrixIterator[T value.Value] struct {
	c cursor[T]
}

// Iterator returns a new iterator positioned before the first element.
func (m *Matrix[T]) Iterator() (*MatrixIterator[T], error) {
	g, err := m.storage()
	if err != nil {
		return nil, err
	}
	return &MatrixIterator[T]{newCursor(g)}, nil
}

// Next advances to the next element, reporting whether there is one.
func (it *MatrixIterator[T]) Next() bool { return it.c.next() }

// Entry returns the current element.  It fails with ErrIteratorExhausted
// outside of an element, and with ErrIteratorInvalidated after mutation.
func (it *MatrixIterator[T]) Entry() (CooEntry[T], error) {
	row, e, err := it.c.current()
	if err != nil {
		return CooEntry[T]{}, err
	}
	return CooEntry[T]{Row: row, Column: e.Index, Value: e.Value}, nil
}

// Err returns the error that ended the iteration, nil on exhaustion.
func (it *MatrixIterator[T]) Err() error { return it.c.err }

// All returns a restartable sequence of the stored elements.
// A sequence stops early if the matrix is mutated during iteration;
// use Iterator to observe that condition.
func (m *Matrix[T]) All() iter.Seq2[Coordinate, T] {
	return func(yield func(Coordinate, T) bool) {
		it, err := m.Iterator()
		if err != nil {
			return
		}
		for it.Next() {
			e, err := it.Entry()
			if err != nil || !yield(Coordinate{e.Row, e.Column}, e.Value) {
				return
			}
		}
	}
}

// Values returns a restartable sequence of the stored values.
func (m *Matrix[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range m.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// VectorIterator iterates over the stored elements of a vector
// in index order.  It follows the MatrixIterator contract.
type VectorIterator[T value.Value] struct {
	c cursor[T]
}

// Iterator returns a new iterator positioned before the first element.
func (v *Vector[T]) Iterator() (*VectorIterator[T], error) {
	g, err := v.storage()
	if err != nil {
		return nil, err
	}
	return &VectorIterator[T]{newCursor(g)}, nil
}

// Next advances to the next element, reporting whether there is one.
func (it *VectorIterator[T]) Next() bool { return it.c.next() }

// Entry returns the current element.
func (it *VectorIterator[T]) Entry() (Entry[T], error) {
	_, e, err := it.c.current()
	return e, err
}

// Err returns the error that ended the iteration, nil on exhaustion.
func (it *VectorIterator[T]) Err() error { return it.c.err }

// All returns a restartable sequence of the stored elements.
func (v *Vector[T]) All() iter.Seq2[index.Index, T] {
	return func(yield func(index.Index, T) bool) {
		it, err := v.Iterator()
		if err != nil {
			return
		}
		for it.Next() {
			e, err := it.Entry()
			if err != nil || !yield(e.Index, e.Value) {
				return
			}
		}
	}
}

// Values returns a restartable sequence of the stored values.
func (v *Vector[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, x := range v.All() {
			if !yield(x) {
				return
			}
		}
	}
}
