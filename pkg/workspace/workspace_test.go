package workspace

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"k3l.io/go-graphblas/pkg/snapshot"
	"k3l.io/go-graphblas/pkg/sparse"
	"k3l.io/go-graphblas/pkg/sparse/value"
)

var at = sparse.Coordinate{Row: 1, Column: 2}

func newWorkspace(t *testing.T, opts ...Option) *Workspace {
	t.Helper()
	sctx, err := sparse.Init(sparse.Blocking)
	require.NoError(t, err)
	ws, err := NewWithMeter(sctx, noop.NewMeterProvider().Meter("test"), opts...)
	require.NoError(t, err)
	return ws
}

func TestCreateAndAccess(t *testing.T) {
	ctx := context.Background()
	clock := time.Unix(1700000000, 0)
	ws := newWorkspace(t, WithClock(func() time.Time { return clock }))

	name, err := CreateMatrix[float64](ctx, ws, "a", sparse.Size{Rows: 3, Columns: 3})
	require.NoError(t, err)
	assert.Equal(t, "a", name)

	clock = clock.Add(time.Minute)
	require.NoError(t, WithMatrix(ctx, ws, "a", func(m *sparse.Matrix[float64]) error {
		return m.SetElement(at, 0.5)
	}))
	info, err := ws.Info(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, Info{
		Name:     "a",
		Header:   snapshot.Header{Shape: snapshot.ShapeMatrix, Kind: value.Float64, Size: sparse.Size{Rows: 3, Columns: 3}},
		NNZ:      1,
		Modified: clock,
	}, info)

	err = WithVector(ctx, ws, "a", func(*sparse.Vector[float64]) error { return nil })
	assert.ErrorIs(t, err, ErrKindMismatch)
	err = WithMatrix(ctx, ws, "a", func(*sparse.Matrix[int32]) error { return nil })
	assert.ErrorIs(t, err, ErrKindMismatch)

	live := ws.Context().Live()
	_, err = CreateVector[int8](ctx, ws, "a", 4)
	assert.ErrorIs(t, err, ErrExists)
	assert.Equal(t, live, ws.Context().Live())

	_, err = CreateVector[int8](ctx, ws, "/bad", 4)
	var ine snapshot.InvalidNameError
	assert.ErrorAs(t, err, &ine)

	name, err = CreateVector[int8](ctx, ws, "", 4)
	require.NoError(t, err)
	_, err = uuid.Parse(name)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", name}, ws.Names())
}

func TestResizeRefreshesHeader(t *testing.T) {
	ctx := context.Background()
	ws := newWorkspace(t)
	_, err := CreateVector[uint32](ctx, ws, "v", 2)
	require.NoError(t, err)
	require.NoError(t, WithVector(ctx, ws, "v", func(u *sparse.Vector[uint32]) error {
		return u.Resize(10)
	}))
	info, err := ws.Info(ctx, "v")
	require.NoError(t, err)
	assert.Equal(t, sparse.Size{Rows: 1, Columns: 10}, info.Size)
}

func TestPutReplacesAndFrees(t *testing.T) {
	ctx := context.Background()
	ws := newWorkspace(t)
	old, err := sparse.NewMatrix[int64](ws.Context(), sparse.Size{Rows: 2, Columns: 3})
	require.NoError(t, err)
	created, err := PutMatrix(ctx, ws, "m", old)
	require.NoError(t, err)
	assert.True(t, created)

	u, err := sparse.NewVector[int64](ws.Context(), 5)
	require.NoError(t, err)
	created, err = PutVector(ctx, ws, "m", u)
	require.NoError(t, err)
	assert.False(t, created)
	assert.ErrorIs(t, old.SetElement(sparse.Coordinate{}, 1), sparse.ErrUninitialized)
	assert.NoError(t, WithVector(ctx, ws, "m", func(*sparse.Vector[int64]) error { return nil }))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	ws := newWorkspace(t)
	live := ws.Context().Live()
	_, err := CreateMatrix[bool](ctx, ws, "b", sparse.Size{Rows: 1, Columns: 1})
	require.NoError(t, err)
	_, err = CreateMatrix[bool](ctx, ws, "a", sparse.Size{Rows: 1, Columns: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ws.Names())

	assert.True(t, ws.Delete(ctx, "a"))
	assert.False(t, ws.Delete(ctx, "a"))
	err = WithMatrix(ctx, ws, "a", func(*sparse.Matrix[bool]) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)

	ws.Close(ctx)
	assert.Empty(t, ws.Names())
	assert.Equal(t, live, ws.Context().Live())
}

func TestConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	ws := newWorkspace(t)
	_, err := CreateMatrix[int32](ctx, ws, "counter", sparse.Size{Rows: 2, Columns: 3})
	require.NoError(t, err)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				assert.NoError(t, WithMatrix(ctx, ws, "counter", func(m *sparse.Matrix[int32]) error {
					x, err := m.ElementValueOrDefault(at)
					if err != nil {
						return err
					}
					return m.SetElement(at, x+1)
				}))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, WithMatrix(ctx, ws, "counter", func(m *sparse.Matrix[int32]) error {
		x, err := m.ElementValueOrDefault(at)
		assert.Equal(t, int32(800), x)
		return err
	}))
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	store, err := snapshot.OpenBadgerStore(snapshot.BadgerOptions{InMemory: true})
	require.NoError(t, err)
	defer func() { assert.NoError(t, store.Close()) }()
	ws := newWorkspace(t, WithStore(store))

	_, err = CreateMatrix[uint8](ctx, ws, "m", sparse.Size{Rows: 2, Columns: 3})
	require.NoError(t, err)
	require.NoError(t, WithMatrix(ctx, ws, "m", func(m *sparse.Matrix[uint8]) error {
		return m.SetElement(at, 200)
	}))
	require.NoError(t, ws.Save(ctx, "m"))
	assert.ErrorIs(t, ws.Save(ctx, "nope"), ErrNotFound)

	assert.True(t, ws.Delete(ctx, "m"))
	created, err := ws.Load(ctx, "m")
	require.NoError(t, err)
	assert.True(t, created)
	require.NoError(t, WithMatrix(ctx, ws, "m", func(m *sparse.Matrix[uint8]) error {
		x, ok, err := m.ElementValue(at)
		assert.True(t, ok)
		assert.Equal(t, uint8(200), x)
		return err
	}))

	_, err = ws.Load(ctx, "missing")
	assert.ErrorIs(t, err, snapshot.ErrNotFound)

	bare := newWorkspace(t)
	assert.ErrorIs(t, bare.Save(ctx, "m"), ErrNoStore)
	_, err = bare.Load(ctx, "m")
	assert.ErrorIs(t, err, ErrNoStore)
}
