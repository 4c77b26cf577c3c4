package value

import (
	"fmt"
	"math"

	"github.com/go-faster/errors"
)

// ErrConversion signals that a value cannot be represented in a target kind.
var ErrConversion = errors.New("conversion error")

// ConversionError describes a failed checked conversion.
type ConversionError struct {
	From, To Kind
	Value    string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %s %s to %s without loss",
		e.From, e.Value, e.To)
}

func (e *ConversionError) Is(target error) bool { return target == ErrConversion }

// Convert converts a into B, failing if a is not representable in B:
// out-of-range integers, sign loss, non-integral/NaN/infinite floats into
// integers, finite float64 values beyond float32 range,
// and numbers other than 0/1 into bool.
//
// Precision loss of int -> float and float64 -> float32 rounding is allowed.
func Convert[A, B Value](a A) (B, error) {
	src, dst := KindOf[A](), KindOf[B]()
	if src == dst {
		return any(a).(B), nil
	}
	fail := func() (B, error) {
		return Zero[B](), &ConversionError{
			From: src, To: dst, Value: Format(a),
		}
	}
	switch {
	case src.IsBool():
		return FromBool[B](any(a).(bool)), nil
	case src.IsSigned():
		x := AsInt64(a)
		if !fitsInt64(dst, x) {
			return fail()
		}
		return FromInt64[B](x), nil
	case src.IsUnsigned():
		x := AsUint64(a)
		if !fitsUint64(dst, x) {
			return fail()
		}
		return FromUint64[B](x), nil
	default:
		x := AsFloat64(a)
		if !fitsFloat64(dst, x) {
			return fail()
		}
		return FromFloat64[B](x), nil
	}
}

// MustConvert is Convert that panics on failure; for constants in tests
// and operator construction.
func MustConvert[A, B Value](a A) B {
	b, err := Convert[A, B](a)
	if err != nil {
		panic(err)
	}
	return b
}

func signedRange(k Kind) (lo, hi int64) {
	bits := k.Bits()
	return -(int64(1) << (bits - 1)), int64(1)<<(bits-1) - 1
}

func unsignedMax(k Kind) uint64 {
	return math.MaxUint64 >> (64 - k.Bits())
}

func fitsInt64(dst Kind, x int64) bool {
	switch {
	case dst.IsBool():
		return x == 0 || x == 1
	case dst.IsSigned():
		lo, hi := signedRange(dst)
		return lo <= x && x <= hi
	case dst.IsUnsigned():
		return x >= 0 && uint64(x) <= unsignedMax(dst)
	}
	return true
}

func fitsUint64(dst Kind, x uint64) bool {
	switch {
	case dst.IsBool():
		return x <= 1
	case dst.IsSigned():
		_, hi := signedRange(dst)
		return x <= uint64(hi)
	case dst.IsUnsigned():
		return x <= unsignedMax(dst)
	}
	return true
}

func fitsFloat64(dst Kind, x float64) bool {
	switch {
	case dst == Float32:
		return math.IsNaN(x) || math.IsInf(x, 0) ||
			math.Abs(x) <= math.MaxFloat32
	case dst.IsFloat():
		return true
	case math.IsNaN(x) || math.IsInf(x, 0) || x != math.Trunc(x):
		return false
	case dst.IsBool():
		return x == 0 || x == 1
	case dst.IsSigned():
		if dst == Int64 {
			// float64(math.MaxInt64) rounds up to 2^63.
			return x >= -(1<<63) && x < (1<<63)
		}
		lo, hi := signedRange(dst)
		return float64(lo) <= x && x <= float64(hi)
	case dst.IsUnsigned():
		if dst == Uint64 {
			return x >= 0 && x < (1<<64)
		}
		return x >= 0 && x <= float64(unsignedMax(dst))
	}
	return false
}
