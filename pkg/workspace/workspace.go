// Package workspace keeps named sparse containers for concurrent callers.
//
// Every container access goes through a per-name lock;
// containers can be saved to and loaded from a snapshot store.
package workspace

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"k3l.io/go-graphblas/pkg/snapshot"
	"k3l.io/go-graphblas/pkg/sparse"
	"k3l.io/go-graphblas/pkg/util"
)

const instrumentationName = "k3l.io/go-graphblas/pkg/workspace"

var (
	// ErrNotFound signals a name with no container.
	ErrNotFound = errors.New("no such container")

	// ErrExists signals a name already in use.
	ErrExists = errors.New("container already exists")

	// ErrKindMismatch signals a container of another shape or value type
	// than the one requested.
	ErrKindMismatch = snapshot.ErrKindMismatch

	// ErrNoStore signals Save/Load on a workspace without a store.
	ErrNoStore = errors.New("no snapshot store configured")
)

// Info describes a stored container.
type Info struct {
	Name string
	snapshot.Header
	NNZ      int
	Modified time.Time
}

// entry is a container guarded by a mutex.
// A freed entry has a zero obj.Value.
type entry struct {
	obj      snapshot.Object
	modified time.Time
	mutex    sync.Mutex
}

func (e *entry) lockAndRun(f func(obj *snapshot.Object, modified *time.Time) error) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if e.obj.Value == nil {
		return ErrNotFound
	}
	return f(&e.obj, &e.modified)
}

func (e *entry) free() {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.obj.Free()
	e.obj = snapshot.Object{}
}

// Workspace is a set of named containers sharing one engine context.
type Workspace struct {
	ctx     *sparse.Context
	entries util.SyncMap[string, *entry]
	store   snapshot.Store
	now     func() time.Time

	tracer     trace.Tracer
	operations metric.Int64Counter
	live       metric.Int64UpDownCounter
}

// Option configures a Workspace.
type Option func(ws *Workspace)

// WithStore sets the snapshot store used by Save and Load.
func WithStore(store snapshot.Store) Option {
	return func(ws *Workspace) { ws.store = store }
}

// WithClock sets the clock for modification times.
func WithClock(now func() time.Time) Option {
	return func(ws *Workspace) { ws.now = now }
}

// WithTracerProvider sets the trace provider (default: the global one).
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(ws *Workspace) { ws.tracer = tp.Tracer(instrumentationName) }
}

// New returns an empty workspace over ctx.
func New(ctx *sparse.Context, opts ...Option) (*Workspace, error) {
	return NewWithMeter(ctx, otel.Meter(instrumentationName), opts...)
}

// NewWithMeter is New with an explicit meter.
func NewWithMeter(ctx *sparse.Context, meter metric.Meter, opts ...Option) (*Workspace, error) {
	ws := &Workspace{
		ctx:    ctx,
		now:    time.Now,
		tracer: otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(ws)
	}
	var err error
	ws.operations, err = meter.Int64Counter("graphblas.workspace.operations",
		metric.WithDescription("Workspace operations by kind and outcome"))
	if err != nil {
		return nil, errors.Wrap(err, "cannot create operation counter")
	}
	ws.live, err = meter.Int64UpDownCounter("graphblas.workspace.containers",
		metric.WithDescription("Containers held in the workspace"))
	if err != nil {
		return nil, errors.Wrap(err, "cannot create container gauge")
	}
	return ws, nil
}

// Context returns the engine context of the workspace.
func (ws *Workspace) Context() *sparse.Context { return ws.ctx }

func (ws *Workspace) start(
	ctx context.Context, op, name string,
) (context.Context, trace.Span) {
	return ws.tracer.Start(ctx, "workspace."+op,
		trace.WithAttributes(attribute.String("name", name)))
}

func (ws *Workspace) finish(ctx context.Context, span trace.Span, op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, op+" failed")
	}
	ws.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op), attribute.String("outcome", outcome)))
	span.End()
}

// put stores obj under name, taking ownership of it.
// With replace false an existing name fails with ErrExists.
func (ws *Workspace) put(ctx context.Context, name string, obj snapshot.Object, replace bool) (created bool, err error) {
	if err := snapshot.CheckName(name); err != nil {
		return false, err
	}
	e := &entry{obj: obj, modified: ws.now()}
	if !replace {
		if _, loaded := ws.entries.LoadOrStore(name, e); loaded {
			return false, errors.Wrapf(ErrExists, "%q", name)
		}
		ws.live.Add(ctx, 1)
		return true, nil
	}
	old, loaded := ws.entries.Swap(name, e)
	if loaded {
		old.free()
	} else {
		ws.live.Add(ctx, 1)
	}
	return !loaded, nil
}

// Put stores obj under name, replacing (and freeing) any previous
// container.  It takes ownership of obj; caller must not use it anymore.
func (ws *Workspace) Put(ctx context.Context, name string, obj snapshot.Object) (created bool, err error) {
	ctx, span := ws.start(ctx, "Put", name)
	defer func() { ws.finish(ctx, span, "put", err) }()
	return ws.put(ctx, name, obj, true)
}

// Add stores obj under a new name, failing with ErrExists if in use.
// It takes ownership of obj on success.
func (ws *Workspace) Add(ctx context.Context, name string, obj snapshot.Object) (err error) {
	ctx, span := ws.start(ctx, "Add", name)
	defer func() { ws.finish(ctx, span, "add", err) }()
	_, err = ws.put(ctx, name, obj, false)
	return err
}

// AddUnnamed stores obj under a random unused name and returns the name.
// It takes ownership of obj.
func (ws *Workspace) AddUnnamed(ctx context.Context, obj snapshot.Object) (name string, err error) {
	for {
		name = uuid.NewString()
		err = ws.Add(ctx, name, obj)
		if !errors.Is(err, ErrExists) {
			return name, err
		}
		zerolog.Ctx(ctx).Debug().Str("name", name).Msg("generated name in use, retrying")
	}
}

// LockAndRun calls f with the container stored under name, holding its lock.
// f may mutate or resize the container and should update *modified
// if it does.
func (ws *Workspace) LockAndRun(
	ctx context.Context, name string,
	f func(obj *snapshot.Object, modified *time.Time) error,
) (err error) {
	_, span := ws.start(ctx, "LockAndRun", name)
	defer func() { ws.finish(ctx, span, "run", err) }()
	e, ok := ws.entries.Load(name)
	if !ok {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	err = e.lockAndRun(func(obj *snapshot.Object, modified *time.Time) error {
		defer obj.Refresh()
		return f(obj, modified)
	})
	if errors.Is(err, ErrNotFound) {
		err = errors.Wrapf(err, "%q", name)
	}
	return err
}

// Delete frees and forgets the container stored under name.
func (ws *Workspace) Delete(ctx context.Context, name string) (deleted bool) {
	_, span := ws.start(ctx, "Delete", name)
	defer func() { ws.finish(ctx, span, "delete", nil) }()
	e, deleted := ws.entries.LoadAndDelete(name)
	if deleted {
		e.free()
		ws.live.Add(ctx, -1)
	}
	span.SetAttributes(attribute.Bool("deleted", deleted))
	return deleted
}

// Names returns the stored names in ascending order.
func (ws *Workspace) Names() []string {
	names := ws.entries.Keys()
	slices.Sort(names)
	return names
}

// Info describes the container stored under name.
func (ws *Workspace) Info(ctx context.Context, name string) (info Info, err error) {
	err = ws.LockAndRun(ctx, name, func(obj *snapshot.Object, modified *time.Time) error {
		info = Info{Name: name, Header: obj.Header, NNZ: nnz(obj.Value), Modified: *modified}
		return nil
	})
	return info, err
}

func nnz(v any) int {
	if c, ok := v.(interface{ NNZ() int }); ok {
		return c.NNZ()
	}
	return 0
}

// Save writes the container stored under name into the snapshot store,
// under the same name.
func (ws *Workspace) Save(ctx context.Context, name string) (err error) {
	ctx, span := ws.start(ctx, "Save", name)
	defer func() { ws.finish(ctx, span, "save", err) }()
	if ws.store == nil {
		return ErrNoStore
	}
	e, ok := ws.entries.Load(name)
	if !ok {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	err = e.lockAndRun(func(obj *snapshot.Object, _ *time.Time) error {
		return snapshot.Save(ctx, ws.store, name, obj.Write)
	})
	if err == nil {
		zerolog.Ctx(ctx).Debug().Str("name", name).Msg("saved container")
	}
	return err
}

// Load reads the snapshot stored under name into the workspace,
// replacing any container of the same name.
func (ws *Workspace) Load(ctx context.Context, name string) (created bool, err error) {
	ctx, span := ws.start(ctx, "Load", name)
	defer func() { ws.finish(ctx, span, "load", err) }()
	if ws.store == nil {
		return false, ErrNoStore
	}
	obj, err := snapshot.Load(ctx, ws.ctx, ws.store, name)
	if err != nil {
		return false, err
	}
	span.SetAttributes(attribute.String("header", obj.Header.String()))
	zerolog.Ctx(ctx).Debug().Str("name", name).Stringer("header", obj.Header).Msg("loaded container")
	return ws.put(ctx, name, obj, true)
}

// Close frees every container.  The store is not closed.
func (ws *Workspace) Close(ctx context.Context) {
	for _, name := range ws.entries.Keys() {
		ws.Delete(ctx, name)
	}
}
