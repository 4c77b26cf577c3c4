package sparse

import (
	"runtime"
	"sync"

	"k3l.io/go-graphblas/pkg/sparse/value"
)

// Scalar is a sparse scalar: either empty or holding one value.
//
// Ownership and lifetime follow Matrix.
type Scalar[T value.Value] struct {
	ctx     *Context
	v       T
	ok      bool
	freed   bool
	release sync.Once
}

// NewScalar creates an empty scalar.
func NewScalar[T value.Value](ctx *Context) (*Scalar[T], error) {
	if err := ctx.check("NewScalar"); err != nil {
		return nil, err
	}
	s := &Scalar[T]{ctx: ctx}
	ctx.register()
	runtime.SetFinalizer(s, (*Scalar[T]).finalize)
	return s, nil
}

// NewScalarWithValue creates a scalar holding v.
func NewScalarWithValue[T value.Value](ctx *Context, v T) (*Scalar[T], error) {
	s, err := NewScalar[T](ctx)
	if err != nil {
		return nil, err
	}
	s.v, s.ok = v, true
	return s, nil
}

func (s *Scalar[T]) finalize() {
	s.release.Do(s.ctx.unregister)
}

// Free releases the scalar.  Any later use fails with ErrUninitialized.
func (s *Scalar[T]) Free() {
	if s == nil {
		return
	}
	runtime.SetFinalizer(s, nil)
	s.release.Do(s.ctx.unregister)
	s.freed = true
}

func (s *Scalar[T]) context() *Context {
	if s == nil {
		return nil
	}
	return s.ctx
}

func (s *Scalar[T]) live() error {
	if s == nil || s.freed {
		return uninitialized("scalar")
	}
	return s.ctx.check("scalar")
}

// Context returns the context the scalar was created under.
func (s *Scalar[T]) Context() *Context { return s.ctx }

// Set stores v.
func (s *Scalar[T]) Set(v T) error {
	if err := s.live(); err != nil {
		return err
	}
	s.v, s.ok = v, true
	return nil
}

// Clear empties the scalar.
func (s *Scalar[T]) Clear() error {
	if err := s.live(); err != nil {
		return err
	}
	s.v, s.ok = value.Zero[T](), false
	return nil
}

// Value returns the stored value; ok is false if the scalar is empty.
func (s *Scalar[T]) Value() (v T, ok bool) {
	if s == nil || s.freed {
		return v, false
	}
	return s.v, s.ok
}

// NNZ returns 1 if the scalar holds a value, 0 otherwise.
func (s *Scalar[T]) NNZ() int {
	if _, ok := s.Value(); ok {
		return 1
	}
	return 0
}

// Clone returns an independent copy.
func (s *Scalar[T]) Clone() (*Scalar[T], error) {
	if err := s.live(); err != nil {
		return nil, err
	}
	c, err := NewScalar[T](s.ctx)
	if err != nil {
		return nil, err
	}
	c.v, c.ok = s.v, s.ok
	return c, nil
}
