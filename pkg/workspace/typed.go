package workspace

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"k3l.io/go-graphblas/pkg/snapshot"
	"k3l.io/go-graphblas/pkg/sparse"
	"k3l.io/go-graphblas/pkg/sparse/index"
	"k3l.io/go-graphblas/pkg/sparse/value"
)

// PutMatrix stores m under name, taking ownership of it.
func PutMatrix[T value.Value](ctx context.Context, ws *Workspace, name string, m *sparse.Matrix[T]) (created bool, err error) {
	return ws.Put(ctx, name, snapshot.MatrixObject(m))
}

// PutVector stores u under name, taking ownership of it.
func PutVector[T value.Value](ctx context.Context, ws *Workspace, name string, u *sparse.Vector[T]) (created bool, err error) {
	return ws.Put(ctx, name, snapshot.VectorObject(u))
}

// CreateMatrix stores a new empty matrix under name
// (a random one if name is empty) and returns the name.
func CreateMatrix[T value.Value](ctx context.Context, ws *Workspace, name string, size sparse.Size) (string, error) {
	m, err := sparse.NewMatrix[T](ws.ctx, size)
	if err != nil {
		return "", err
	}
	return ws.create(ctx, name, snapshot.MatrixObject(m))
}

// CreateVector stores a new empty vector under name
// (a random one if name is empty) and returns the name.
func CreateVector[T value.Value](ctx context.Context, ws *Workspace, name string, n index.Index) (string, error) {
	u, err := sparse.NewVector[T](ws.ctx, n)
	if err != nil {
		return "", err
	}
	return ws.create(ctx, name, snapshot.VectorObject(u))
}

func (ws *Workspace) create(ctx context.Context, name string, obj snapshot.Object) (string, error) {
	var err error
	if name == "" {
		name, err = ws.AddUnnamed(ctx, obj)
	} else {
		err = ws.Add(ctx, name, obj)
	}
	if err != nil {
		obj.Free()
		return "", err
	}
	return name, nil
}

// WithMatrix calls f with the matrix of value type T stored under name,
// holding its lock.  Success marks the container modified.
func WithMatrix[T value.Value](
	ctx context.Context, ws *Workspace, name string, f func(m *sparse.Matrix[T]) error,
) error {
	return ws.LockAndRun(ctx, name, func(obj *snapshot.Object, modified *time.Time) error {
		m, ok := obj.Value.(*sparse.Matrix[T])
		if !ok {
			return errors.Errorf("%w: %q holds %s, not a matrix of %s",
				ErrKindMismatch, name, obj.Header, value.KindOf[T]())
		}
		if err := f(m); err != nil {
			return err
		}
		*modified = ws.now()
		return nil
	})
}

// WithVector calls f with the vector of value type T stored under name,
// holding its lock.  Success marks the container modified.
func WithVector[T value.Value](
	ctx context.Context, ws *Workspace, name string, f func(u *sparse.Vector[T]) error,
) error {
	return ws.LockAndRun(ctx, name, func(obj *snapshot.Object, modified *time.Time) error {
		u, ok := obj.Value.(*sparse.Vector[T])
		if !ok {
			return errors.Errorf("%w: %q holds %s, not a vector of %s",
				ErrKindMismatch, name, obj.Header, value.KindOf[T]())
		}
		if err := f(u); err != nil {
			return err
		}
		*modified = ws.now()
		return nil
	})
}
