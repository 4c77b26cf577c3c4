package value

// Unchecked conversions into and out of the three evaluation domains
// (int64 for signed kinds, uint64 for unsigned kinds, float64 for floats).
// Narrowing wraps exactly like Go's native fixed-width conversions.

// AsBool returns v as a bool; same as Truthy.
func AsBool[T Value](v T) bool { return Truthy(v) }

// AsInt64 converts v into int64 without range checks.
func AsInt64[T Value](v T) int64 {
	switch x := any(v).(type) {
	case bool:
		if x {
			return 1
		}
		return 0
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	case float32:
		return int64(x)
	case float64:
		return int64(x)
	}
	return 0
}

// AsUint64 converts v into uint64 without range checks.
func AsUint64[T Value](v T) uint64 {
	switch x := any(v).(type) {
	case bool:
		if x {
			return 1
		}
		return 0
	case int8:
		return uint64(x)
	case int16:
		return uint64(x)
	case int32:
		return uint64(x)
	case int64:
		return uint64(x)
	case uint8:
		return uint64(x)
	case uint16:
		return uint64(x)
	case uint32:
		return uint64(x)
	case uint64:
		return x
	case float32:
		return uint64(x)
	case float64:
		return uint64(x)
	}
	return 0
}

// AsFloat64 converts v into float64.
func AsFloat64[T Value](v T) float64 {
	switch x := any(v).(type) {
	case bool:
		if x {
			return 1
		}
		return 0
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case float32:
		return float64(x)
	case float64:
		return x
	}
	return 0
}

// FromBool converts b into T (1/0 for numeric kinds).
func FromBool[T Value](b bool) T {
	if b {
		return FromInt64[T](1)
	}
	return Zero[T]()
}

// FromInt64 converts v into T, wrapping on overflow.
func FromInt64[T Value](v int64) T {
	var out T
	switch p := any(&out).(type) {
	case *bool:
		*p = v != 0
	case *int8:
		*p = int8(v)
	case *int16:
		*p = int16(v)
	case *int32:
		*p = int32(v)
	case *int64:
		*p = v
	case *uint8:
		*p = uint8(v)
	case *uint16:
		*p = uint16(v)
	case *uint32:
		*p = uint32(v)
	case *uint64:
		*p = uint64(v)
	case *float32:
		*p = float32(v)
	case *float64:
		*p = float64(v)
	}
	return out
}

// FromUint64 converts v into T, wrapping on overflow.
func FromUint64[T Value](v uint64) T {
	var out T
	switch p := any(&out).(type) {
	case *bool:
		*p = v != 0
	case *int8:
		*p = int8(v)
	case *int16:
		*p = int16(v)
	case *int32:
		*p = int32(v)
	case *int64:
		*p = int64(v)
	case *uint8:
		*p = uint8(v)
	case *uint16:
		*p = uint16(v)
	case *uint32:
		*p = uint32(v)
	case *uint64:
		*p = v
	case *float32:
		*p = float32(v)
	case *float64:
		*p = float64(v)
	}
	return out
}

// FromFloat64 converts v into T; integer kinds truncate toward zero.
func FromFloat64[T Value](v float64) T {
	var out T
	switch p := any(&out).(type) {
	case *bool:
		*p = v != 0
	case *int8:
		*p = int8(v)
	case *int16:
		*p = int16(v)
	case *int32:
		*p = int32(v)
	case *int64:
		*p = int64(v)
	case *uint8:
		*p = uint8(v)
	case *uint16:
		*p = uint16(v)
	case *uint32:
		*p = uint32(v)
	case *uint64:
		*p = uint64(v)
	case *float32:
		*p = float32(v)
	case *float64:
		*p = v
	}
	return out
}
