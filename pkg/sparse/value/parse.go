package value

import (
	"strconv"
	"strings"

	"github.com/go-faster/errors"
)

// Parse parses a textual value of kind T.
// Integers accept Go literal prefixes (0x, 0o, 0b).
func Parse[T Value](s string) (T, error) {
	s = strings.TrimSpace(s)
	k := KindOf[T]()
	var err error
	switch {
	case k.IsBool():
		var b bool
		if b, err = strconv.ParseBool(s); err == nil {
			return FromBool[T](b), nil
		}
	case k.IsSigned():
		var i int64
		if i, err = strconv.ParseInt(s, 0, k.Bits()); err == nil {
			return FromInt64[T](i), nil
		}
	case k.IsUnsigned():
		var u uint64
		if u, err = strconv.ParseUint(s, 0, k.Bits()); err == nil {
			return FromUint64[T](u), nil
		}
	default:
		var f float64
		if f, err = strconv.ParseFloat(s, k.Bits()); err == nil {
			return FromFloat64[T](f), nil
		}
	}
	return Zero[T](), errors.Wrapf(err, "invalid %s value %q", k, s)
}

// Format returns the shortest textual form of v that Parse reads back.
func Format[T Value](v T) string {
	switch x := any(v).(type) {
	case bool:
		return strconv.FormatBool(x)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	if KindOf[T]().IsSigned() {
		return strconv.FormatInt(AsInt64(v), 10)
	}
	return strconv.FormatUint(AsUint64(v), 10)
}
