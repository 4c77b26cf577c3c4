package op

import (
	"k3l.io/go-graphblas/pkg/sparse/index"
	"k3l.io/go-graphblas/pkg/sparse/value"
)

// IndexUnaryOperator decides, from a stored value, its position, and an
// auxiliary argument of type A, whether the element is kept by a select.
//
// Vector elements are presented as (value, index, 0, arg).
type IndexUnaryOperator[T value.Value, A any] struct {
	name string
	fn   func(x T, row, col index.Index, arg A) bool
}

// NewIndexUnary wraps a user-supplied predicate as an index-unary operator.
func NewIndexUnary[T value.Value, A any](
	name string, fn func(x T, row, col index.Index, arg A) bool,
) IndexUnaryOperator[T, A] {
	return IndexUnaryOperator[T, A]{name: name, fn: fn}
}

func (o IndexUnaryOperator[T, A]) Name() string   { return o.name }
func (o IndexUnaryOperator[T, A]) IsZero() bool   { return o.fn == nil }
func (o IndexUnaryOperator[T, A]) String() string { return o.name }

// Apply evaluates the predicate.
func (o IndexUnaryOperator[T, A]) Apply(x T, row, col index.Index, arg A) bool {
	return o.fn(x, row, col, arg)
}

// diagonal returns col - row as a signed offset, saturating
// at the int64 range so that huge dimensions do not wrap.
func diagonal(row, col index.Index) (d int64, ok bool) {
	if col >= row {
		diff := uint64(col - row)
		if diff > 1<<63-1 {
			return 0, false
		}
		return int64(diff), true
	}
	diff := uint64(row - col)
	if diff > 1<<63 {
		return 0, false
	}
	return -int64(diff-1) - 1, true
}

// compareOffset compares the diagonal offset of (row, col) against k;
// it returns -1, 0, or +1 like cmp.Compare(col-row, k).
func compareOffset(row, col index.Index, k int64) int {
	d, ok := diagonal(row, col)
	if !ok {
		if col > row {
			return 1
		}
		return -1
	}
	switch {
	case d < k:
		return -1
	case d > k:
		return 1
	}
	return 0
}

// compareIndex compares an index against a signed bound like cmp.Compare.
func compareIndex(i index.Index, k int64) int {
	if k < 0 {
		return 1
	}
	switch bound := index.Index(k); {
	case i < bound:
		return -1
	case i > bound:
		return 1
	}
	return 0
}

// IsOnDiagonal keeps elements with col == row + k.
func IsOnDiagonal[T value.Value]() IndexUnaryOperator[T, int64] {
	return NewIndexUnary("diag",
		func(_ T, row, col index.Index, k int64) bool {
			return compareOffset(row, col, k) == 0
		})
}

// IsOffDiagonal keeps elements with col != row + k.
func IsOffDiagonal[T value.Value]() IndexUnaryOperator[T, int64] {
	return NewIndexUnary("offdiag",
		func(_ T, row, col index.Index, k int64) bool {
			return compareOffset(row, col, k) != 0
		})
}

// IsOnOrAboveDiagonal keeps elements with col >= row + k (upper triangle).
func IsOnOrAboveDiagonal[T value.Value]() IndexUnaryOperator[T, int64] {
	return NewIndexUnary("triu",
		func(_ T, row, col index.Index, k int64) bool {
			return compareOffset(row, col, k) >= 0
		})
}

// IsOnOrBelowDiagonal keeps elements with col <= row + k (lower triangle).
func IsOnOrBelowDiagonal[T value.Value]() IndexUnaryOperator[T, int64] {
	return NewIndexUnary("tril",
		func(_ T, row, col index.Index, k int64) bool {
			return compareOffset(row, col, k) <= 0
		})
}

// RowIndexLessOrEqual keeps elements with row <= k.
func RowIndexLessOrEqual[T value.Value]() IndexUnaryOperator[T, int64] {
	return NewIndexUnary("rowle",
		func(_ T, row, _ index.Index, k int64) bool {
			return compareIndex(row, k) <= 0
		})
}

// RowIndexGreater keeps elements with row > k.
func RowIndexGreater[T value.Value]() IndexUnaryOperator[T, int64] {
	return NewIndexUnary("rowgt",
		func(_ T, row, _ index.Index, k int64) bool {
			return compareIndex(row, k) > 0
		})
}

// ColumnIndexLessOrEqual keeps elements with col <= k.
func ColumnIndexLessOrEqual[T value.Value]() IndexUnaryOperator[T, int64] {
	return NewIndexUnary("colle",
		func(_ T, _, col index.Index, k int64) bool {
			return compareIndex(col, k) <= 0
		})
}

// ColumnIndexGreater keeps elements with col > k.
func ColumnIndexGreater[T value.Value]() IndexUnaryOperator[T, int64] {
	return NewIndexUnary("colgt",
		func(_ T, _, col index.Index, k int64) bool {
			return compareIndex(col, k) > 0
		})
}

func valuePredicate[T value.Value](
	name string, pred func(x, y T) bool,
) IndexUnaryOperator[T, T] {
	return NewIndexUnary(name, func(x T, _, _ index.Index, y T) bool {
		return pred(x, y)
	})
}

// IsValueEqualTo keeps elements whose value equals the argument.
func IsValueEqualTo[T value.Value]() IndexUnaryOperator[T, T] {
	return valuePredicate("valueeq", func(x, y T) bool { return x == y })
}

// IsValueNotEqualTo keeps elements whose value differs from the argument.
func IsValueNotEqualTo[T value.Value]() IndexUnaryOperator[T, T] {
	return valuePredicate("valuene", func(x, y T) bool { return x != y })
}

// IsValueGreaterThan keeps elements whose value exceeds the argument.
func IsValueGreaterThan[T value.Value]() IndexUnaryOperator[T, T] {
	return valuePredicate("valuegt", func(x, y T) bool {
		return value.Less(y, x)
	})
}

// IsValueLessThan keeps elements whose value is below the argument.
func IsValueLessThan[T value.Value]() IndexUnaryOperator[T, T] {
	return valuePredicate("valuelt", value.Less[T])
}

// IsValueGreaterThanOrEqualTo keeps elements with value >= argument.
func IsValueGreaterThanOrEqualTo[T value.Value]() IndexUnaryOperator[T, T] {
	return valuePredicate("valuege", func(x, y T) bool {
		return x == y || value.Less(y, x)
	})
}

// IsValueLessThanOrEqualTo keeps elements with value <= argument.
func IsValueLessThanOrEqualTo[T value.Value]() IndexUnaryOperator[T, T] {
	return valuePredicate("valuele", func(x, y T) bool {
		return x == y || value.Less(x, y)
	})
}
