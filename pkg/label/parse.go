package label

import (
	"strconv"

	"k3l.io/go-graphblas/pkg/sparse/index"
)

// Parse turns the given label into an index.
//
// If m is not nil, l is looked up therein;
// otherwise, l is parsed as a non-negative integer literal.
// If alloc is true, missing labels are allocated new indices in m;
// otherwise, missing labels are reported as an error.
func Parse(l string, m *Map, alloc bool) (index.Index, error) {
	if m == nil {
		i, err := strconv.ParseUint(l, 10, 64)
		if err != nil {
			return 0, InvalidIndexLiteral{l, err}
		}
		return index.Index(i), nil
	}
	if alloc {
		return m.Allocate(l), nil
	}
	i, found := m.Index(l)
	if !found {
		return 0, NoSuchLabel{l}
	}
	return i, nil
}

// Format turns the given index back into a label.
func Format(i index.Index, m *Map) (string, error) {
	if m == nil {
		return strconv.FormatUint(uint64(i), 10), nil
	}
	l, ok := m.Label(i)
	if !ok {
		return "", NoSuchIndex{i}
	}
	return l, nil
}
