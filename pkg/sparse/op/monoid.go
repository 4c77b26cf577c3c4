package op

import "k3l.io/go-graphblas/pkg/sparse/value"

// Monoid is an associative binary operator with an identity value.
type Monoid[T value.Value] struct {
	op       BinaryOperator[T]
	identity T
}

// NewMonoid pairs an associative operator with its identity.
// The caller vouches for associativity (and commutativity,
// since reductions may combine values in any order).
func NewMonoid[T value.Value](op BinaryOperator[T], identity T) Monoid[T] {
	return Monoid[T]{op: op, identity: identity}
}

func (m Monoid[T]) Name() string                { return m.op.Name() }
func (m Monoid[T]) String() string              { return m.op.Name() }
func (m Monoid[T]) Operator() BinaryOperator[T] { return m.op }
func (m Monoid[T]) Identity() T                 { return m.identity }
func (m Monoid[T]) Apply(x, y T) T              { return m.op.Apply(x, y) }
func (m Monoid[T]) IsZero() bool                { return m.op.IsZero() }

// Fold combines the identity with every given value, left to right.
func (m Monoid[T]) Fold(values []T) T {
	acc := m.identity
	for _, v := range values {
		acc = m.op.Apply(acc, v)
	}
	return acc
}

// PlusMonoid is (Plus, 0); (or, false) on bool.
func PlusMonoid[T value.Value]() Monoid[T] {
	return NewMonoid(Plus[T](), value.Zero[T]())
}

// TimesMonoid is (Times, 1); (and, true) on bool.
func TimesMonoid[T value.Value]() Monoid[T] {
	return NewMonoid(Times[T](), value.One[T]())
}

// MinMonoid is (Min, largest value of T).
func MinMonoid[T value.Value]() Monoid[T] {
	return NewMonoid(Min[T](), value.MaxValue[T]())
}

// MaxMonoid is (Max, smallest value of T).
func MaxMonoid[T value.Value]() Monoid[T] {
	return NewMonoid(Max[T](), value.MinValue[T]())
}

// AnyMonoid is (Any, 0): it keeps one of the combined values.
func AnyMonoid[T value.Value]() Monoid[T] {
	return NewMonoid(Any[T](), value.Zero[T]())
}

// LogicalOrMonoid is (LogicalOr, 0).
func LogicalOrMonoid[T value.Value]() Monoid[T] {
	return NewMonoid(LogicalOr[T](), value.Zero[T]())
}

// LogicalAndMonoid is (LogicalAnd, 1).
func LogicalAndMonoid[T value.Value]() Monoid[T] {
	return NewMonoid(LogicalAnd[T](), value.One[T]())
}

// LogicalXorMonoid is (LogicalXor, 0).
func LogicalXorMonoid[T value.Value]() Monoid[T] {
	return NewMonoid(LogicalXor[T](), value.Zero[T]())
}
