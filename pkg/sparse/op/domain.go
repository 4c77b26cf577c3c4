// Package op is the operator catalog: unary and binary operators, monoids,
// semirings, and index-unary predicates, per value type.
//
// Operators are immutable value objects; copy and share them freely.
// Built-ins are evaluated in one of four domains (bool, int64, uint64,
// float64) chosen by the kind of T, then narrowed back into T with the
// wrap-around semantics of Go's native fixed-width arithmetic.
package op

import "k3l.io/go-graphblas/pkg/sparse/value"

type unaryDomains struct {
	b func(x bool) bool
	i func(x int64) int64
	u func(x uint64) uint64
	f func(x float64) float64
}

func unaryFor[T value.Value](d unaryDomains) func(T) T {
	switch k := value.KindOf[T](); {
	case k.IsBool():
		return func(x T) T {
			return value.FromBool[T](d.b(value.AsBool(x)))
		}
	case k.IsSigned():
		return func(x T) T {
			return value.FromInt64[T](d.i(value.AsInt64(x)))
		}
	case k.IsUnsigned():
		return func(x T) T {
			return value.FromUint64[T](d.u(value.AsUint64(x)))
		}
	default:
		return func(x T) T {
			return value.FromFloat64[T](d.f(value.AsFloat64(x)))
		}
	}
}

type binaryDomains struct {
	b func(x, y bool) bool
	i func(x, y int64) int64
	u func(x, y uint64) uint64
	f func(x, y float64) float64
}

func binaryFor[T value.Value](d binaryDomains) func(T, T) T {
	switch k := value.KindOf[T](); {
	case k.IsBool():
		return func(x, y T) T {
			return value.FromBool[T](d.b(value.AsBool(x), value.AsBool(y)))
		}
	case k.IsSigned():
		return func(x, y T) T {
			return value.FromInt64[T](d.i(value.AsInt64(x), value.AsInt64(y)))
		}
	case k.IsUnsigned():
		return func(x, y T) T {
			return value.FromUint64[T](
				d.u(value.AsUint64(x), value.AsUint64(y)))
		}
	default:
		return func(x, y T) T {
			return value.FromFloat64[T](
				d.f(value.AsFloat64(x), value.AsFloat64(y)))
		}
	}
}

// comparison builds a 1/0-valued binary function from a predicate on T.
func comparison[T value.Value](pred func(x, y T) bool) func(T, T) T {
	one, zero := value.One[T](), value.Zero[T]()
	return func(x, y T) T {
		if pred(x, y) {
			return one
		}
		return zero
	}
}
