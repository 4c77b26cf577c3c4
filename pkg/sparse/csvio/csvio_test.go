package csvio

import (
	"bytes"
	"context"
	"encoding/csv"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"k3l.io/go-graphblas/pkg/label"
	"k3l.io/go-graphblas/pkg/sparse"
	"k3l.io/go-graphblas/pkg/sparse/op"
	spopt "k3l.io/go-graphblas/pkg/sparse/option"
)

func newContext(t *testing.T) *sparse.Context {
	t.Helper()
	ctx, err := sparse.Init(sparse.Blocking)
	require.NoError(t, err)
	return ctx
}

func reader(s string) *csv.Reader {
	r := csv.NewReader(strings.NewReader(s))
	r.FieldsPerRecord = -1
	return r
}

func sortedCoo[T int32 | float64 | uint8](t *testing.T, m *sparse.Matrix[T]) []sparse.CooEntry[T] {
	t.Helper()
	entries, err := m.CooEntries()
	require.NoError(t, err)
	sort.Sort(sparse.CSREntriesSort[T](entries))
	return entries
}

func TestReadMatrix(t *testing.T) {
	sctx := newContext(t)
	tests := []struct {
		name    string
		input   string
		opts    []spopt.Option
		size    sparse.Size
		want    []sparse.CooEntry[float64]
		wantErr bool
	}{
		{
			name:  "Grow",
			input: "i,j,v\n0,2,0.5\n3,0,1.5\n",
			size:  sparse.Size{Rows: 4, Columns: 3},
			want:  []sparse.CooEntry[float64]{{Row: 0, Column: 2, Value: 0.5}, {Row: 3, Column: 0, Value: 1.5}},
		},
		{
			name:  "FieldOrderAndExtras",
			input: "v,note,j,i\n2,x,1,1\n",
			opts:  []spopt.Option{spopt.MinDim(5, 5)},
			size:  sparse.Size{Rows: 5, Columns: 5},
			want:  []sparse.CooEntry[float64]{{Row: 1, Column: 1, Value: 2}},
		},
		{
			name:  "LastRecordWins",
			input: "i,j,v\n0,0,1\n0,0,7\n",
			size:  sparse.Size{Rows: 1, Columns: 1},
			want:  []sparse.CooEntry[float64]{{Row: 0, Column: 0, Value: 7}},
		},
		{
			name:  "ExcludeZero",
			input: "i,j,v\n0,0,0\n1,1,2\n",
			opts:  []spopt.Option{spopt.ExcludeZero},
			size:  sparse.Size{Rows: 2, Columns: 2},
			want:  []sparse.CooEntry[float64]{{Row: 1, Column: 1, Value: 2}},
		},
		{
			name:  "StoredZero",
			input: "i,j,v\n0,0,0\n",
			size:  sparse.Size{Rows: 1, Columns: 1},
			want:  []sparse.CooEntry[float64]{{Row: 0, Column: 0, Value: 0}},
		},
		{
			name:  "Transposed",
			input: "i,j,v\n0,2,0.5\n",
			opts:  []spopt.Option{spopt.TransposeFirst},
			size:  sparse.Size{Rows: 3, Columns: 1},
			want:  []sparse.CooEntry[float64]{{Row: 2, Column: 0, Value: 0.5}},
		},
		{name: "Negative", input: "i,j,v\n0,0,-1\n", opts: []spopt.Option{spopt.DisallowNegative}, wantErr: true},
		{name: "OutOfFixedDim", input: "i,j,v\n0,2,1\n", opts: []spopt.Option{spopt.FixedDim(2, 2)}, wantErr: true},
		{name: "BadValue", input: "i,j,v\n0,0,x\n", wantErr: true},
		{name: "BadIndex", input: "i,j,v\n-1,0,1\n", wantErr: true},
		{name: "MissingField", input: "i,v\n0,1\n", wantErr: true},
		{name: "ShortRecord", input: "i,j,v\n0,1\n", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ReadMatrix[float64](context.Background(), sctx, reader(tt.input), tt.opts...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.size, m.Size())
			assert.Equal(t, tt.want, sortedCoo(t, m))
		})
	}
}

func TestReadMatrixErrors(t *testing.T) {
	sctx := newContext(t)
	_, err := ReadMatrix[float64](context.Background(), sctx, reader("i,j,v\n0,0,1\n0,0,-1\n"),
		spopt.DisallowNegative)
	var re RecordError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 3, re.Record)
	var ne NegativeValueError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, "-1", ne.Value)

	_, err = ReadMatrix[float64](context.Background(), sctx, reader("i,j,v\n0,2,1\n"), spopt.FixedDim(2, 2))
	assert.ErrorIs(t, err, sparse.ErrIndexOutOfBounds)

	_, err = ReadMatrix[uint8](context.Background(), sctx, reader("i,j,v\n0,0,256\n"))
	assert.ErrorAs(t, err, &re)
}

func TestReadMatrixLabels(t *testing.T) {
	sctx := newContext(t)
	labels := label.MapWithLabels("alice")
	m, err := ReadMatrix[int32](context.Background(), sctx,
		reader("from,to,weight\nbob,alice,3\nalice,carol,-2\n"),
		spopt.RowIndexNamed("from"), spopt.ColumnIndexNamed("to"), spopt.ValueNamed("weight"),
		spopt.LabelsInto(labels))
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, labels.Labels())
	assert.Equal(t, sparse.Size{Rows: 2, Columns: 3}, m.Size())
	assert.Equal(t, []sparse.CooEntry[int32]{{Row: 0, Column: 2, Value: -2}, {Row: 1, Column: 0, Value: 3}}, sortedCoo(t, m))

	_, err = ReadMatrix[int32](context.Background(), sctx,
		reader("i,j,v\nalice,dave,1\n"), spopt.LabelsIn(labels))
	var nsl label.NoSuchLabel
	require.ErrorAs(t, err, &nsl)
	assert.Equal(t, "dave", nsl.Value)
}

func TestWriteMatrix(t *testing.T) {
	sctx := newContext(t)
	m, err := sparse.NewMatrixFromElements(sctx, sparse.Size{Rows: 3, Columns: 3},
		[]sparse.CooEntry[float64]{{Row: 2, Column: 0, Value: 1.5}, {Row: 0, Column: 1, Value: 0}, {Row: 0, Column: 0, Value: -2}}, op.BinaryOperator[float64]{})
	require.NoError(t, err)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, WriteMatrix(context.Background(), w, m))
	w.Flush()
	assert.Equal(t, "i,j,v\n0,0,-2\n0,1,0\n2,0,1.5\n", buf.String())

	buf.Reset()
	labels := label.MapWithLabels("a", "b", "c")
	require.NoError(t, WriteMatrix(context.Background(), w, m,
		spopt.ExcludeZero, spopt.LabelsIn(labels), spopt.TransposeFirst))
	w.Flush()
	assert.Equal(t, "i,j,v\na,a,-2\na,c,1.5\n", buf.String())

	// Reading the output back with the same options restores the matrix.
	back, err := ReadMatrix[float64](context.Background(), sctx, reader(buf.String()),
		spopt.LabelsIn(labels), spopt.TransposeFirst, spopt.FixedDim(3, 3))
	require.NoError(t, err)
	assert.Equal(t, []sparse.CooEntry[float64]{{Row: 0, Column: 0, Value: -2}, {Row: 2, Column: 0, Value: 1.5}}, sortedCoo(t, back))

	err = WriteMatrix(context.Background(), w, m, spopt.LabelsIn(label.MapWithLabels("a")))
	assert.Error(t, err)
}

func TestVectorRoundTrip(t *testing.T) {
	sctx := newContext(t)
	u, err := ReadVector[int32](context.Background(), sctx,
		reader("i,v\n4,7\n1,-3\n"), spopt.MinRows(10))
	require.NoError(t, err)
	assert.Equal(t, uint64(10), uint64(u.Len()))

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, WriteVector(context.Background(), w, u, spopt.IndexNamed("peer"), spopt.ValueNamed("trust")))
	w.Flush()
	assert.Equal(t, "peer,trust\n1,-3\n4,7\n", buf.String())

	_, err = ReadVector[int32](context.Background(), sctx, reader("i,v\n4,7\n"), spopt.FixedRows(4))
	assert.ErrorIs(t, err, sparse.ErrIndexOutOfBounds)
}

func TestReadCancelled(t *testing.T) {
	sctx := newContext(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ReadVector[int32](ctx, sctx, reader("i,v\n4,7\n"))
	assert.ErrorIs(t, err, context.Canceled)
}
