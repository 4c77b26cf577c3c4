// Package index defines element indices and index-set selectors
// used to address matrix rows/columns and vector positions.
package index

import (
	"fmt"
	"math"
	"math/bits"
	"slices"

	"github.com/go-faster/errors"
)

// ErrOverflow signals that an index or size value cannot be represented
// in the native index width (or in the host int, when converting back).
var ErrOverflow = errors.New("index overflow")

// Index is a platform-independent row, column, or vector position.
type Index uint64

// FromInt converts a host-native size/index into an Index.
func FromInt(i int) (Index, error) {
	if i < 0 {
		return 0, errors.Wrapf(ErrOverflow, "negative index %d", i)
	}
	return Index(i), nil
}

// Int converts the index into a host-native int.
func (i Index) Int() (int, error) {
	if uint64(i) > math.MaxInt {
		return 0, errors.Wrapf(ErrOverflow, "index %d exceeds host int", i)
	}
	return int(i), nil
}

// Checked returns a*b, or ErrOverflow if the product does not fit.
func Checked(a, b Index) (Index, error) {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 {
		return 0, errors.Wrapf(ErrOverflow, "%d * %d", a, b)
	}
	return Index(lo), nil
}

// OutOfBoundsError is returned when an index lies outside [0, Bound).
type OutOfBoundsError struct {
	Index Index
	Bound Index
}

func (e OutOfBoundsError) Error() string {
	return fmt.Sprintf("index %d out of bounds 0 <= index < %d",
		e.Index, e.Bound)
}

// Selector selects a set of indices along one dimension.
//
// The zero value selects all indices.
type Selector struct {
	explicit []Index
	isList   bool
}

// All selects every index of the dimension, in order.
func All() Selector { return Selector{} }

// Explicit selects the given indices, in the given order.
// The i-th listed index maps onto position i of the selection.
func Explicit(indices ...Index) Selector {
	return Selector{explicit: slices.Clone(indices), isList: true}
}

// IsAll returns whether the selector selects all indices.
func (s Selector) IsAll() bool { return !s.isList }

// Indices returns (a copy of) the explicit index list; nil for All.
func (s Selector) Indices() []Index { return slices.Clone(s.explicit) }

// Count returns the number of selected elements
// for a dimension of the given size.
func (s Selector) Count(dim Index) Index {
	if !s.isList {
		return dim
	}
	return Index(len(s.explicit))
}

// At maps position i of the selection onto the source index.
func (s Selector) At(i Index) Index {
	if !s.isList {
		return i
	}
	return s.explicit[i]
}

// Validate checks every explicit index against the dimension size.
func (s Selector) Validate(dim Index) error {
	for _, i := range s.explicit {
		if i >= dim {
			return OutOfBoundsError{Index: i, Bound: dim}
		}
	}
	return nil
}

// Unique reports whether no explicit index is listed twice.
func (s Selector) Unique() bool {
	if !s.isList {
		return true
	}
	seen := make(map[Index]struct{}, len(s.explicit))
	for _, i := range s.explicit {
		if _, ok := seen[i]; ok {
			return false
		}
		seen[i] = struct{}{}
	}
	return true
}

// Inverse returns a source-index to selection-position lookup.
// For All, the returned function is the identity within dim.
func (s Selector) Inverse(dim Index) func(Index) (Index, bool) {
	if !s.isList {
		return func(i Index) (Index, bool) { return i, i < dim }
	}
	positions := make(map[Index]Index, len(s.explicit))
	for pos, i := range s.explicit {
		if _, ok := positions[i]; !ok {
			positions[i] = Index(pos)
		}
	}
	return func(i Index) (Index, bool) {
		pos, ok := positions[i]
		return pos, ok
	}
}
