package sparse

import (
	"fmt"

	"github.com/go-faster/errors"

	"k3l.io/go-graphblas/pkg/sparse/index"
	"k3l.io/go-graphblas/pkg/sparse/value"
)

var (
	// ErrIndexOverflow signals an index or size value that cannot be
	// represented in the index width (or in the host int).
	ErrIndexOverflow = index.ErrOverflow

	// ErrDimensionMismatch signals operand shapes that are structurally
	// incompatible for the requested operation.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrConversion signals a scalar that cannot be converted
	// into an operation's value type without loss.
	ErrConversion = value.ErrConversion

	// ErrEngine signals a failure inside an operation,
	// e.g. a panicking user-supplied operator.  See EngineError.
	ErrEngine = errors.New("engine error")

	// ErrIteratorExhausted is the normal end-of-sequence condition.
	// Iterators never report it from Err(); it is returned by
	// Iterator.Entry when called outside of an element.
	ErrIteratorExhausted = errors.New("iterator exhausted")

	// ErrIteratorInvalidated signals that the container was mutated
	// while an iterator over it was in progress.
	ErrIteratorInvalidated = errors.New("iterator invalidated by mutation")

	// ErrIndexOutOfBounds signals an addressed element outside the
	// container bounds.  See IndexOutOfBoundsError.
	ErrIndexOutOfBounds = errors.New("index out of bounds")

	// ErrDuplicateIndex signals a duplicate coordinate where duplicates
	// cannot be resolved: construction without a duplicate operator,
	// or an assignment selector listing an index twice.
	ErrDuplicateIndex = errors.New("duplicate index")

	// ErrEmptyScalar signals a sparse scalar argument with no value.
	ErrEmptyScalar = errors.New("empty scalar")

	// ErrUninitialized signals use of a shut-down context
	// or a freed container.
	ErrUninitialized = errors.New("uninitialized")
)

// IndexOutOfBoundsError is returned when an addressed element
// lies outside the container bounds.
type IndexOutOfBoundsError struct {
	Axis string // "row", "column", or "index"
	index.OutOfBoundsError
}

func (e IndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("%s %s", e.Axis, e.OutOfBoundsError.Error())
}

func (e IndexOutOfBoundsError) Is(target error) bool {
	return target == ErrIndexOutOfBounds
}

func checkBound(axis string, i, bound index.Index) error {
	if i >= bound {
		return IndexOutOfBoundsError{
			Axis:             axis,
			OutOfBoundsError: index.OutOfBoundsError{Index: i, Bound: bound},
		}
	}
	return nil
}

// EngineError is an operation failure not attributable to its arguments.
//
// Under a Blocking context, Op and Detail name the failed operation and
// the cause.  Under a NonBlocking context, only a coarse Status and the
// last operation known to have succeeded (LastGood) are reported.
type EngineError struct {
	Status   string
	Op       string
	Detail   string
	LastGood string
}

func (e *EngineError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Status, e.Op, e.Detail)
	}
	if e.LastGood != "" {
		return fmt.Sprintf("%s (last successful operation: %s)",
			e.Status, e.LastGood)
	}
	return e.Status
}

func (e *EngineError) Is(target error) bool { return target == ErrEngine }

// panicError carries a recovered panic out of a worker goroutine.
type panicError struct {
	value any
}

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.value) }

func dimensionMismatch(what string, args ...any) error {
	return errors.Wrapf(ErrDimensionMismatch, what, args...)
}
