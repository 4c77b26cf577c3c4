package op

import (
	"math"

	"k3l.io/go-graphblas/pkg/sparse/value"
)

// UnaryOperator transforms one stored value.
type UnaryOperator[T value.Value] struct {
	name string
	fn   func(T) T
}

// NewUnary wraps a user-supplied function as a unary operator.
func NewUnary[T value.Value](name string, fn func(T) T) UnaryOperator[T] {
	return UnaryOperator[T]{name: name, fn: fn}
}

func (o UnaryOperator[T]) Name() string   { return o.name }
func (o UnaryOperator[T]) Apply(x T) T    { return o.fn(x) }
func (o UnaryOperator[T]) IsZero() bool   { return o.fn == nil }
func (o UnaryOperator[T]) String() string { return o.name }

// Identity returns x.
func Identity[T value.Value]() UnaryOperator[T] {
	return NewUnary("identity", func(x T) T { return x })
}

// AdditiveInverse returns -x; identity on bool.
func AdditiveInverse[T value.Value]() UnaryOperator[T] {
	return NewUnary("ainv", unaryFor[T](unaryDomains{
		b: func(x bool) bool { return x },
		i: func(x int64) int64 { return -x },
		u: func(x uint64) uint64 { return -x },
		f: func(x float64) float64 { return -x },
	}))
}

// MultiplicativeInverse returns 1/x, with integer division by zero
// handled as in Divide; identity on bool.
func MultiplicativeInverse[T value.Value]() UnaryOperator[T] {
	div := Divide[T]()
	one := value.One[T]()
	if value.KindOf[T]().IsBool() {
		return NewUnary("minv", func(x T) T { return x })
	}
	return NewUnary("minv", func(x T) T { return div.Apply(one, x) })
}

// AbsoluteValue returns |x|; identity on bool and unsigned kinds.
func AbsoluteValue[T value.Value]() UnaryOperator[T] {
	return NewUnary("abs", unaryFor[T](unaryDomains{
		b: func(x bool) bool { return x },
		i: func(x int64) int64 {
			if x < 0 {
				return -x
			}
			return x
		},
		u: func(x uint64) uint64 { return x },
		f: math.Abs,
	}))
}

// One returns 1 (true) regardless of x.
func One[T value.Value]() UnaryOperator[T] {
	one := value.One[T]()
	return NewUnary("one", func(T) T { return one })
}

// LogicalNot returns 1 (true) if x is zero (false), else 0 (false).
func LogicalNot[T value.Value]() UnaryOperator[T] {
	one, zero := value.One[T](), value.Zero[T]()
	return NewUnary("lnot", func(x T) T {
		if value.Truthy(x) {
			return zero
		}
		return one
	})
}
