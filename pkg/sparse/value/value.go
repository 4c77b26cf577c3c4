// Package value defines the closed set of scalar value kinds
// stored in sparse containers, and the checked conversions between them.
package value

import (
	"math"
	"strings"

	"github.com/go-faster/errors"
)

// Value is the set of supported scalar value types.
type Value interface {
	bool |
		int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 |
		float32 | float64
}

// Kind tags a value type.
type Kind uint8

const (
	Invalid Kind = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
)

var kindNames = [...]string{
	Invalid: "invalid",
	Bool:    "bool",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Uint8:   "uint8",
	Uint16:  "uint16",
	Uint32:  "uint32",
	Uint64:  "uint64",
	Float32: "float32",
	Float64: "float64",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[Invalid]
}

// ParseKind returns the kind with the given name (as returned by String).
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if k != int(Invalid) && n == name {
			return Kind(k), nil
		}
	}
	return Invalid, errors.Errorf("unknown value kind %q", name)
}

// Kinds returns all valid kinds.
func Kinds() []Kind {
	return []Kind{
		Bool, Int8, Int16, Int32, Int64,
		Uint8, Uint16, Uint32, Uint64, Float32, Float64,
	}
}

func (k Kind) IsBool() bool     { return k == Bool }
func (k Kind) IsSigned() bool   { return k >= Int8 && k <= Int64 }
func (k Kind) IsUnsigned() bool { return k >= Uint8 && k <= Uint64 }
func (k Kind) IsFloat() bool    { return k == Float32 || k == Float64 }
func (k Kind) IsInteger() bool  { return k.IsSigned() || k.IsUnsigned() }

// Bits returns the storage width of the kind; bool counts as 1.
func (k Kind) Bits() int {
	switch k {
	case Bool:
		return 1
	case Int8, Uint8:
		return 8
	case Int16, Uint16:
		return 16
	case Int32, Uint32, Float32:
		return 32
	case Int64, Uint64, Float64:
		return 64
	}
	return 0
}

// KindOf returns the kind of T.
func KindOf[T Value]() Kind {
	var zero T
	switch any(zero).(type) {
	case bool:
		return Bool
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	case uint16:
		return Uint16
	case uint32:
		return Uint32
	case uint64:
		return Uint64
	case float32:
		return Float32
	case float64:
		return Float64
	}
	return Invalid
}

// Zero returns the zero (default) value of T.
func Zero[T Value]() (zero T) { return }

// One returns the multiplicative identity of T (true for bool).
func One[T Value]() T { return FromInt64[T](1) }

// Truthy returns whether v counts as true: bool values as-is,
// numeric values if nonzero.
func Truthy[T Value](v T) bool {
	switch x := any(v).(type) {
	case bool:
		return x
	case int8:
		return x != 0
	case int16:
		return x != 0
	case int32:
		return x != 0
	case int64:
		return x != 0
	case uint8:
		return x != 0
	case uint16:
		return x != 0
	case uint32:
		return x != 0
	case uint64:
		return x != 0
	case float32:
		return x != 0
	case float64:
		return x != 0
	}
	return false
}

// MaxValue returns the largest value of T (+Inf for floats, true for bool).
func MaxValue[T Value]() T {
	switch k := KindOf[T](); {
	case k.IsFloat():
		return FromFloat64[T](math.Inf(1))
	case k.IsSigned():
		return FromInt64[T](int64(1)<<(k.Bits()-1) - 1)
	case k.IsUnsigned():
		return FromUint64[T](math.MaxUint64 >> (64 - k.Bits()))
	}
	return FromBool[T](true)
}

// MinValue returns the smallest value of T (-Inf for floats, false for bool).
func MinValue[T Value]() T {
	switch k := KindOf[T](); {
	case k.IsFloat():
		return FromFloat64[T](math.Inf(-1))
	case k.IsSigned():
		return FromInt64[T](-(int64(1) << (k.Bits() - 1)))
	}
	return Zero[T]()
}

// Less orders values of T; false < true for bool, NaN is never less.
func Less[T Value](x, y T) bool {
	switch k := KindOf[T](); {
	case k.IsBool():
		return !AsBool(x) && AsBool(y)
	case k.IsSigned():
		return AsInt64(x) < AsInt64(y)
	case k.IsUnsigned():
		return AsUint64(x) < AsUint64(y)
	}
	return AsFloat64(x) < AsFloat64(y)
}
