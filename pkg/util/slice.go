// Package util contains various utilities used by go-graphblas.
package util

import (
	"context"
	"fmt"
	"iter"
	"slices"
)

// ShrinkWrap shrink-wraps the slice, i.e. leaves no excess capacity.
// Identical to slices.Clip, except it coerces zero-length slice into nil.
func ShrinkWrap[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return slices.Clip(s)
}

// ElementAtWithErr returns the element at the given index.
func ElementAtWithErr[T any](s []T, i int) (elem T, err error) {
	if i >= 0 && i < len(s) {
		elem = s[i]
	} else {
		err = IndexOutOfBoundsError{i, len(s)}
	}
	return
}

// ElementAtWithErrFn returns a function that returns the element at the given index.
func ElementAtWithErrFn[T any](s []T) func(int) (T, error) {
	return func(i int) (elem T, err error) { return ElementAtWithErr(s, i) }
}

// Map applies a function to each slice element and returns results as a slice.
func Map[S any, T any](s []S, f func(S) T) (t []T) {
	for _, v := range s {
		t = append(t, f(v))
	}
	return
}

// MapWithErr applies a function to each slice element
// and returns results as a slice, stopping at the first error return.
//
// len(t) < len(s) iff err != nil; in this case, err is from the function
// called with s[len(t)].
func MapWithErr[S any, T any](
	s []S, f func(S) (T, error),
) (t []T, err error) {
	t = make([]T, 0, len(s))
	var tv T
	for _, sv := range s {
		tv, err = f(sv)
		if err != nil {
			return
		}
		t = append(t, tv)
	}
	return
}

// IndexOutOfBoundsError is returned when the requested index is out of bounds.
type IndexOutOfBoundsError struct {
	Index int
	Bound int
}

func (e IndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("index %d out of bounds 0 <= index < %d", e.Index,
		e.Bound)
}

// SendSeq2 sends f(k, v) for every pair of the given sequence to a channel.
func SendSeq2[K, V, T any](
	ctx context.Context, seq iter.Seq2[K, V], ch chan<- T, f func(K, V) T,
) error {
	for k, v := range seq {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ch <- f(k, v):
		}
	}
	return nil
}

// ReceiveElements receives all elements of the given slice into a channel.
func ReceiveElements[T any](
	ctx context.Context, ch <-chan T,
) (s []T, err error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case v, ok := <-ch:
			if !ok {
				return s, nil
			}
			s = append(s, v)
		}
	}
}
