package op

import (
	"sort"
	"strings"

	"github.com/go-faster/errors"

	"k3l.io/go-graphblas/pkg/sparse/value"
)

// ErrUnknownOperator is returned by the ByName lookups.
var ErrUnknownOperator = errors.New("unknown operator")

func unknown(kind, name string, known []string) error {
	sort.Strings(known)
	return errors.Wrapf(ErrUnknownOperator, "%s %q (known: %s)",
		kind, name, strings.Join(known, ", "))
}

func lookup[V any](kind, name string, table map[string]func() V) (V, error) {
	if f, ok := table[strings.ToLower(name)]; ok {
		return f(), nil
	}
	known := make([]string, 0, len(table))
	for k := range table {
		known = append(known, k)
	}
	var zero V
	return zero, unknown(kind, name, known)
}

// UnaryByName looks up a built-in unary operator.
func UnaryByName[T value.Value](name string) (UnaryOperator[T], error) {
	return lookup("unary operator", name, map[string]func() UnaryOperator[T]{
		"identity": Identity[T],
		"ainv":     AdditiveInverse[T],
		"minv":     MultiplicativeInverse[T],
		"abs":      AbsoluteValue[T],
		"one":      One[T],
		"lnot":     LogicalNot[T],
	})
}

// BinaryByName looks up a built-in binary operator.
func BinaryByName[T value.Value](name string) (BinaryOperator[T], error) {
	return lookup("binary operator", name, map[string]func() BinaryOperator[T]{
		"first":  First[T],
		"second": Second[T],
		"assign": Assignment[T],
		"any":    Any[T],
		"pair":   Pair[T],
		"plus":   Plus[T],
		"minus":  Minus[T],
		"times":  Times[T],
		"div":    Divide[T],
		"min":    Min[T],
		"max":    Max[T],
		"lor":    LogicalOr[T],
		"land":   LogicalAnd[T],
		"lxor":   LogicalXor[T],
		"iseq":   IsEqualTo[T],
		"isne":   IsNotEqualTo[T],
		"isgt":   IsGreaterThan[T],
		"islt":   IsLessThan[T],
		"isge":   IsGreaterThanOrEqualTo[T],
		"isle":   IsLessThanOrEqualTo[T],
	})
}

// MonoidByName looks up a built-in monoid by its operator name.
func MonoidByName[T value.Value](name string) (Monoid[T], error) {
	return lookup("monoid", name, map[string]func() Monoid[T]{
		"plus":  PlusMonoid[T],
		"times": TimesMonoid[T],
		"min":   MinMonoid[T],
		"max":   MaxMonoid[T],
		"any":   AnyMonoid[T],
		"lor":   LogicalOrMonoid[T],
		"land":  LogicalAndMonoid[T],
		"lxor":  LogicalXorMonoid[T],
	})
}

// SemiringByName looks up a semiring written as "add-multiply",
// e.g. "plus-times" or "min-plus".
// Any monoid may be combined with any binary operator.
func SemiringByName[T value.Value](name string) (Semiring[T], error) {
	add, mul, ok := strings.Cut(name, "-")
	if !ok {
		return Semiring[T]{}, errors.Wrapf(ErrUnknownOperator,
			"semiring %q is not of the form add-multiply", name)
	}
	m, err := MonoidByName[T](add)
	if err != nil {
		return Semiring[T]{}, errors.Wrapf(err, "semiring %q", name)
	}
	b, err := BinaryByName[T](mul)
	if err != nil {
		return Semiring[T]{}, errors.Wrapf(err, "semiring %q", name)
	}
	return NewSemiring(m, b), nil
}

// PositionalSelectorByName looks up a built-in positional select predicate.
func PositionalSelectorByName[T value.Value](
	name string,
) (IndexUnaryOperator[T, int64], error) {
	return lookup("positional selector", name,
		map[string]func() IndexUnaryOperator[T, int64]{
			"diag":    IsOnDiagonal[T],
			"offdiag": IsOffDiagonal[T],
			"triu":    IsOnOrAboveDiagonal[T],
			"tril":    IsOnOrBelowDiagonal[T],
			"rowle":   RowIndexLessOrEqual[T],
			"rowgt":   RowIndexGreater[T],
			"colle":   ColumnIndexLessOrEqual[T],
			"colgt":   ColumnIndexGreater[T],
		})
}

// ValueSelectorByName looks up a built-in value select predicate.
func ValueSelectorByName[T value.Value](
	name string,
) (IndexUnaryOperator[T, T], error) {
	return lookup("value selector", name,
		map[string]func() IndexUnaryOperator[T, T]{
			"valueeq": IsValueEqualTo[T],
			"valuene": IsValueNotEqualTo[T],
			"valuegt": IsValueGreaterThan[T],
			"valuelt": IsValueLessThan[T],
			"valuege": IsValueGreaterThanOrEqualTo[T],
			"valuele": IsValueLessThanOrEqualTo[T],
		})
}
