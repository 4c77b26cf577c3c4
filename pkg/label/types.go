// Package label maps external string labels onto container indices
// and back, for CSV axes whose coordinates are names rather than numbers.
package label

import (
	"fmt"

	"k3l.io/go-graphblas/pkg/sparse/index"
)

// NoSuchIndex is returned when an index has no label assigned.
type NoSuchIndex struct {
	Value index.Index
}

func (e NoSuchIndex) Error() string {
	return fmt.Sprintf("no label for index %d", e.Value)
}

// NoSuchLabel is returned when a label is not in a non-allocating map.
type NoSuchLabel struct {
	Value string
}

func (e NoSuchLabel) Error() string {
	return fmt.Sprintf("no such label %#v", e.Value)
}

// InvalidIndexLiteral is returned when an unmapped label
// does not parse as a non-negative integer index.
type InvalidIndexLiteral struct {
	Value string
	Err   error
}

func (e InvalidIndexLiteral) Error() string {
	return fmt.Sprintf("invalid index literal %#v: %v", e.Value, e.Err)
}

func (e InvalidIndexLiteral) Unwrap() error { return e.Err }
