package snapshot

import (
	"bytes"
	"context"
	"io"
	"math"
	"sort"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"k3l.io/go-graphblas/pkg/sparse"
	"k3l.io/go-graphblas/pkg/sparse/index"
	"k3l.io/go-graphblas/pkg/sparse/op"
	"k3l.io/go-graphblas/pkg/sparse/value"
)

func newContext(t *testing.T) *sparse.Context {
	t.Helper()
	ctx, err := sparse.Init(sparse.Blocking)
	require.NoError(t, err)
	return ctx
}

func compressed(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestMatrixRoundTrip(t *testing.T) {
	sctx := newContext(t)
	m, err := sparse.NewMatrixFromElements(sctx, sparse.Size{Rows: 3, Columns: 1 << 40},
		[]sparse.CooEntry[float64]{
			{Row: 2, Column: 1 << 39, Value: math.Inf(1)},
			{Row: 0, Column: 0, Value: -0.5},
			{Row: 0, Column: 5, Value: 0},
			{Row: 1, Column: 1, Value: math.NaN()},
		}, op.BinaryOperator[float64]{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteMatrix(&buf, m))
	back, err := DecodeMatrix[float64](sctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, m.Size(), back.Size())

	entries, err := back.CooEntries()
	require.NoError(t, err)
	sort.Sort(sparse.CSREntriesSort[float64](entries))
	require.Len(t, entries, 4)
	assert.Equal(t, sparse.CooEntry[float64]{Row: 0, Column: 0, Value: -0.5}, entries[0])
	assert.Equal(t, sparse.CooEntry[float64]{Row: 0, Column: 5, Value: 0}, entries[1])
	assert.True(t, math.IsNaN(entries[2].Value))
	assert.Equal(t, sparse.CooEntry[float64]{Row: 2, Column: 1 << 39, Value: math.Inf(1)}, entries[3])

	obj, err := Decode(sctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "matrix[3x1099511627776] of float64", obj.Header.String())
	obj.Free()
}

func vectorRoundTrip[T int8 | uint64 | bool | float32](
	t *testing.T, sctx *sparse.Context, n int, entries []sparse.Entry[T],
) {
	t.Helper()
	u, err := sparse.NewVectorFromElements(sctx, index.Index(n), entries, op.BinaryOperator[T]{})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteVector(&buf, u))
	back, err := DecodeVector[T](sctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, u.Len(), back.Len())
	got, err := back.Entries()
	require.NoError(t, err)
	want, err := u.Entries()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestVectorRoundTrip(t *testing.T) {
	sctx := newContext(t)
	vectorRoundTrip(t, sctx, 4, []sparse.Entry[int8]{{Index: 0, Value: -128}, {Index: 3, Value: 127}})
	vectorRoundTrip(t, sctx, 2, []sparse.Entry[uint64]{{Index: 1, Value: math.MaxUint64}})
	vectorRoundTrip(t, sctx, 3, []sparse.Entry[bool]{{Index: 0, Value: false}, {Index: 2, Value: true}})
	vectorRoundTrip(t, sctx, 5, []sparse.Entry[float32]{{Index: 1, Value: 0.1}, {Index: 4, Value: -math.MaxFloat32}})
	vectorRoundTrip(t, sctx, 0, []sparse.Entry[float32]{})
}

func TestKindMismatch(t *testing.T) {
	sctx := newContext(t)
	m, err := sparse.NewMatrix[float64](sctx, sparse.Size{Rows: 1, Columns: 1})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteMatrix(&buf, m))
	live := sctx.Live()

	_, err = DecodeMatrix[int32](sctx, bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, ErrKindMismatch)
	_, err = DecodeVector[float64](sctx, bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, ErrKindMismatch)
	assert.Equal(t, live, sctx.Live())
}

func TestDecodeErrors(t *testing.T) {
	sctx := newContext(t)
	tests := []struct {
		name   string
		input  string
		target error
	}{
		{"Version", `{"format":2,"shape":"vector","kind":"int8","length":1,"entries":[]}`, ErrFormat},
		{"Shape", `{"format":1,"shape":"tensor","kind":"int8","length":1,"entries":[]}`, ErrFormat},
		{"NoKind", `{"format":1,"shape":"vector","length":1,"entries":[]}`, ErrFormat},
		{"NoEntries", `{"format":1,"shape":"vector","kind":"int8","length":1}`, ErrFormat},
		{"FieldAfterEntries", `{"format":1,"shape":"vector","kind":"int8","entries":[],"length":1}`, ErrFormat},
		{"ShortEntry", `{"format":1,"shape":"matrix","kind":"int8","rows":1,"columns":1,"entries":[[0,0]]}`, ErrFormat},
		{"LongEntry", `{"format":1,"shape":"vector","kind":"int8","length":1,"entries":[[0,1,2]]}`, ErrFormat},
		{"OutOfBounds", `{"format":1,"shape":"vector","kind":"int8","length":1,"entries":[[1,1]]}`, sparse.ErrIndexOutOfBounds},
		{"Duplicate", `{"format":1,"shape":"vector","kind":"int8","length":2,"entries":[[1,1],[1,2]]}`, sparse.ErrDuplicateIndex},
		{"Overflow", `{"format":1,"shape":"vector","kind":"uint8","length":1,"entries":[[0,300]]}`, sparse.ErrConversion},
		{"Float32Overflow", `{"format":1,"shape":"vector","kind":"float32","length":1,"entries":[[0,1e300]]}`, sparse.ErrConversion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(sctx, bytes.NewReader(compressed(t, tt.input)))
			assert.ErrorIs(t, err, tt.target)
		})
	}

	_, err := Decode(sctx, bytes.NewReader([]byte("not zstd")))
	assert.Error(t, err)

	obj, err := Decode(sctx, bytes.NewReader(compressed(t,
		`{"format":1,"shape":"vector","kind":"float64","length":2,"note":{"x":[1]},"entries":[[1,"-Inf"]]}`)))
	require.NoError(t, err)
	u := obj.Value.(*sparse.Vector[float64])
	x, ok, err := u.ElementValue(1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, math.IsInf(x, -1))
}

func TestBadgerStore(t *testing.T) {
	ctx := context.Background()
	sctx := newContext(t)
	s, err := OpenBadgerStore(BadgerOptions{InMemory: true})
	require.NoError(t, err)
	defer func() { assert.NoError(t, s.Close()) }()

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	u, err := sparse.NewVectorFromElements(sctx, 3, []sparse.Entry[int32]{{Index: 2, Value: 9}}, op.BinaryOperator[int32]{})
	require.NoError(t, err)
	for _, name := range []string{"trust/b", "trust/a", "peers"} {
		require.NoError(t, Save(ctx, s, name, func(w io.Writer) error { return WriteVector(w, u) }))
	}
	names, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"peers", "trust/a", "trust/b"}, names)

	obj, err := Load(ctx, sctx, s, "trust/a")
	require.NoError(t, err)
	assert.Equal(t, Header{Shape: ShapeVector, Kind: value.Int32, Size: sparse.Size{Rows: 1, Columns: 3}}, obj.Header)
	got, ok, err := obj.Value.(*sparse.Vector[int32]).ElementValue(2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(9), got)

	require.NoError(t, s.Delete(ctx, "trust/a"))
	require.NoError(t, s.Delete(ctx, "trust/a"))
	_, err = Load(ctx, sctx, s, "trust/a")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Put(ctx, "junk", []byte("junk")))
	_, err = Load(ctx, sctx, s, "junk")
	assert.ErrorContains(t, err, `"junk"`)
	assert.Error(t, s.Put(ctx, "", nil))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = s.Get(cancelled, "peers")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestS3StoreKeys(t *testing.T) {
	client := s3.New(s3.Options{Region: "us-east-1"})
	s := NewS3Store(client, "bucket", "/snapshots/")
	assert.Equal(t, "snapshots/trust/a", s.key("trust/a"))
	assert.Equal(t, "trust/a", s.name("snapshots/trust/a"))

	s = NewS3Store(client, "bucket", "")
	assert.Equal(t, "x", s.key("x"))
	assert.Equal(t, "x", s.name("x"))
	assert.NoError(t, s.Close())
}

func TestCheckName(t *testing.T) {
	assert.NoError(t, CheckName("a/b.c"))
	for _, name := range []string{"", "/abs", "tab\there"} {
		var ine InvalidNameError
		assert.ErrorAs(t, CheckName(name), &ine, name)
	}
}

func TestObject(t *testing.T) {
	sctx := newContext(t)
	m, err := sparse.NewMatrix[uint16](sctx, sparse.Size{Rows: 2, Columns: 2})
	require.NoError(t, err)
	require.NoError(t, m.SetElement(sparse.Coordinate{Row: 1, Column: 0}, 7))
	obj := MatrixObject(m)
	require.NoError(t, m.Resize(sparse.Size{Rows: 4, Columns: 2}))
	obj.Refresh()
	assert.Equal(t, sparse.Size{Rows: 4, Columns: 2}, obj.Size)

	var buf bytes.Buffer
	require.NoError(t, obj.Write(&buf))
	back, err := Decode(sctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, obj.Header, back.Header)
	n, err := back.Value.(*sparse.Matrix[uint16]).ElementValueOrDefault(sparse.Coordinate{Row: 1, Column: 0})
	require.NoError(t, err)
	assert.Equal(t, uint16(7), n)

	assert.Error(t, Object{}.Write(&buf))
}
