package op

import "k3l.io/go-graphblas/pkg/sparse/value"

// Semiring pairs an additive monoid with a multiplicative operator;
// it parameterizes matrix/vector multiplication.
type Semiring[T value.Value] struct {
	add Monoid[T]
	mul BinaryOperator[T]
}

// NewSemiring pairs an additive monoid with a multiplicative operator.
func NewSemiring[T value.Value](
	add Monoid[T], mul BinaryOperator[T],
) Semiring[T] {
	return Semiring[T]{add: add, mul: mul}
}

func (s Semiring[T]) Add() Monoid[T]              { return s.add }
func (s Semiring[T]) Multiply() BinaryOperator[T] { return s.mul }
func (s Semiring[T]) IsZero() bool                { return s.add.IsZero() || s.mul.IsZero() }
func (s Semiring[T]) Name() string                { return s.add.Name() + "-" + s.mul.Name() }
func (s Semiring[T]) String() string              { return s.Name() }

// PlusTimes is the conventional arithmetic semiring.
func PlusTimes[T value.Value]() Semiring[T] {
	return NewSemiring(PlusMonoid[T](), Times[T]())
}

// MinPlus is the tropical (shortest path) semiring.
func MinPlus[T value.Value]() Semiring[T] {
	return NewSemiring(MinMonoid[T](), Plus[T]())
}

// MaxPlus is the max-plus (longest path) semiring.
func MaxPlus[T value.Value]() Semiring[T] {
	return NewSemiring(MaxMonoid[T](), Plus[T]())
}

// MaxTimes is the max-times (most reliable path) semiring.
func MaxTimes[T value.Value]() Semiring[T] {
	return NewSemiring(MaxMonoid[T](), Times[T]())
}

// MinTimes is the min-times semiring.
func MinTimes[T value.Value]() Semiring[T] {
	return NewSemiring(MinMonoid[T](), Times[T]())
}

// PlusFirst sums the left operands of matching pairs.
func PlusFirst[T value.Value]() Semiring[T] {
	return NewSemiring(PlusMonoid[T](), First[T]())
}

// PlusSecond sums the right operands of matching pairs.
func PlusSecond[T value.Value]() Semiring[T] {
	return NewSemiring(PlusMonoid[T](), Second[T]())
}

// AnyPair yields 1 wherever any pair matches (structural product).
func AnyPair[T value.Value]() Semiring[T] {
	return NewSemiring(AnyMonoid[T](), Pair[T]())
}

// LogicalOrAnd is the boolean semiring (reachability).
func LogicalOrAnd[T value.Value]() Semiring[T] {
	return NewSemiring(LogicalOrMonoid[T](), LogicalAnd[T]())
}
