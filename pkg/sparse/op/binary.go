package op

import (
	"math"

	"k3l.io/go-graphblas/pkg/sparse/value"
)

// BinaryOperator combines two values of the same type.
//
// Used as an accumulator, it computes accumulate(existing, computed);
// its zero value and Assignment both mean "overwrite, no accumulation".
type BinaryOperator[T value.Value] struct {
	name    string
	fn      func(x, y T) T
	assign  bool
	builtin bool
}

// NewBinary wraps a user-supplied function as a binary operator.
func NewBinary[T value.Value](name string, fn func(x, y T) T) BinaryOperator[T] {
	return BinaryOperator[T]{name: name, fn: fn}
}

func newBuiltin[T value.Value](name string, fn func(x, y T) T) BinaryOperator[T] {
	return BinaryOperator[T]{name: name, fn: fn, builtin: true}
}

func (o BinaryOperator[T]) Name() string       { return o.name }
func (o BinaryOperator[T]) Apply(x, y T) T     { return o.fn(x, y) }
func (o BinaryOperator[T]) IsZero() bool       { return o.fn == nil }
func (o BinaryOperator[T]) String() string     { return o.name }
func (o BinaryOperator[T]) IsAssignment() bool { return o.assign }
func (o BinaryOperator[T]) IsBuiltin() bool    { return o.builtin }

// Accumulates reports whether o, used as an accumulator,
// merges computed values into existing ones instead of overwriting them.
func (o BinaryOperator[T]) Accumulates() bool {
	return o.fn != nil && !o.assign
}

// First returns x.
func First[T value.Value]() BinaryOperator[T] {
	return newBuiltin("first", func(x, _ T) T { return x })
}

// Second returns y.
func Second[T value.Value]() BinaryOperator[T] {
	return newBuiltin("second", func(_, y T) T { return y })
}

// Assignment keeps y; as an accumulator it means "no accumulation".
func Assignment[T value.Value]() BinaryOperator[T] {
	o := newBuiltin("assign", func(_, y T) T { return y })
	o.assign = true
	return o
}

// Any returns either operand; this implementation returns x.
func Any[T value.Value]() BinaryOperator[T] {
	return newBuiltin("any", func(x, _ T) T { return x })
}

// Pair returns 1 (true) regardless of operands.
func Pair[T value.Value]() BinaryOperator[T] {
	one := value.One[T]()
	return newBuiltin("pair", func(_, _ T) T { return one })
}

// Plus returns x+y; logical or on bool.
func Plus[T value.Value]() BinaryOperator[T] {
	return newBuiltin("plus", binaryFor[T](binaryDomains{
		b: func(x, y bool) bool { return x || y },
		i: func(x, y int64) int64 { return x + y },
		u: func(x, y uint64) uint64 { return x + y },
		f: func(x, y float64) float64 { return x + y },
	}))
}

// Minus returns x-y; exclusive or on bool.
func Minus[T value.Value]() BinaryOperator[T] {
	return newBuiltin("minus", binaryFor[T](binaryDomains{
		b: func(x, y bool) bool { return x != y },
		i: func(x, y int64) int64 { return x - y },
		u: func(x, y uint64) uint64 { return x - y },
		f: func(x, y float64) float64 { return x - y },
	}))
}

// Times returns x*y; logical and on bool.
func Times[T value.Value]() BinaryOperator[T] {
	return newBuiltin("times", binaryFor[T](binaryDomains{
		b: func(x, y bool) bool { return x && y },
		i: func(x, y int64) int64 { return x * y },
		u: func(x, y uint64) uint64 { return x * y },
		f: func(x, y float64) float64 { return x * y },
	}))
}

// Divide returns x/y; returns x on bool.
//
// Integer division by zero does not fail: 0/0 is 0,
// positive/0 is the largest value of T, negative/0 the smallest.
func Divide[T value.Value]() BinaryOperator[T] {
	fn := binaryFor[T](binaryDomains{
		b: func(x, _ bool) bool { return x },
		i: func(x, y int64) int64 { return x / y },
		u: func(x, y uint64) uint64 { return x / y },
		f: func(x, y float64) float64 { return x / y },
	})
	if value.KindOf[T]().IsInteger() {
		zero := value.Zero[T]()
		maxV, minV := value.MaxValue[T](), value.MinValue[T]()
		quotient := fn
		fn = func(x, y T) T {
			if y != zero {
				return quotient(x, y)
			}
			switch {
			case x == zero:
				return zero
			case value.Less(zero, x):
				return maxV
			default:
				return minV
			}
		}
	}
	return newBuiltin("div", fn)
}

// Min returns the lesser operand; logical and on bool.
// A NaN operand yields the other operand.
func Min[T value.Value]() BinaryOperator[T] {
	return newBuiltin("min", binaryFor[T](binaryDomains{
		b: func(x, y bool) bool { return x && y },
		i: func(x, y int64) int64 { return min(x, y) },
		u: func(x, y uint64) uint64 { return min(x, y) },
		f: func(x, y float64) float64 {
			switch {
			case math.IsNaN(x):
				return y
			case math.IsNaN(y):
				return x
			}
			return math.Min(x, y)
		},
	}))
}

// Max returns the greater operand; logical or on bool.
// A NaN operand yields the other operand.
func Max[T value.Value]() BinaryOperator[T] {
	return newBuiltin("max", binaryFor[T](binaryDomains{
		b: func(x, y bool) bool { return x || y },
		i: func(x, y int64) int64 { return max(x, y) },
		u: func(x, y uint64) uint64 { return max(x, y) },
		f: func(x, y float64) float64 {
			switch {
			case math.IsNaN(x):
				return y
			case math.IsNaN(y):
				return x
			}
			return math.Max(x, y)
		},
	}))
}

// LogicalOr returns 1 (true) if either operand is nonzero.
func LogicalOr[T value.Value]() BinaryOperator[T] {
	return newBuiltin("lor", comparison(func(x, y T) bool {
		return value.Truthy(x) || value.Truthy(y)
	}))
}

// LogicalAnd returns 1 (true) if both operands are nonzero.
func LogicalAnd[T value.Value]() BinaryOperator[T] {
	return newBuiltin("land", comparison(func(x, y T) bool {
		return value.Truthy(x) && value.Truthy(y)
	}))
}

// LogicalXor returns 1 (true) if exactly one operand is nonzero.
func LogicalXor[T value.Value]() BinaryOperator[T] {
	return newBuiltin("lxor", comparison(func(x, y T) bool {
		return value.Truthy(x) != value.Truthy(y)
	}))
}

// IsEqualTo returns 1 (true) if x == y, else 0 (false).
func IsEqualTo[T value.Value]() BinaryOperator[T] {
	return newBuiltin("iseq", comparison(func(x, y T) bool { return x == y }))
}

// IsNotEqualTo returns 1 (true) if x != y, else 0 (false).
func IsNotEqualTo[T value.Value]() BinaryOperator[T] {
	return newBuiltin("isne", comparison(func(x, y T) bool { return x != y }))
}

// IsGreaterThan returns 1 (true) if x > y, else 0 (false).
func IsGreaterThan[T value.Value]() BinaryOperator[T] {
	return newBuiltin("isgt", comparison(func(x, y T) bool {
		return value.Less(y, x)
	}))
}

// IsLessThan returns 1 (true) if x < y, else 0 (false).
func IsLessThan[T value.Value]() BinaryOperator[T] {
	return newBuiltin("islt", comparison(value.Less[T]))
}

// IsGreaterThanOrEqualTo returns 1 (true) if x >= y, else 0 (false).
func IsGreaterThanOrEqualTo[T value.Value]() BinaryOperator[T] {
	return newBuiltin("isge", comparison(func(x, y T) bool {
		return x == y || value.Less(y, x)
	}))
}

// IsLessThanOrEqualTo returns 1 (true) if x <= y, else 0 (false).
func IsLessThanOrEqualTo[T value.Value]() BinaryOperator[T] {
	return newBuiltin("isle", comparison(func(x, y T) bool {
		return x == y || value.Less(x, y)
	}))
}
