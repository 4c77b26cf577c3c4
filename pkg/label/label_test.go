package label

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"k3l.io/go-graphblas/pkg/sparse/index"
)

func TestMap_Allocate(t *testing.T) {
	m := MapWithLabels("alice", "bob", "alice")
	assert.Equal(t, index.Index(2), m.Len())
	assert.Equal(t, index.Index(2), m.Allocate("carol"))
	assert.Equal(t, index.Index(1), m.Allocate("bob"))
	i, ok := m.Index("carol")
	assert.True(t, ok)
	assert.Equal(t, index.Index(2), i)
	l, ok := m.Label(0)
	assert.True(t, ok)
	assert.Equal(t, "alice", l)
	_, ok = m.Label(3)
	assert.False(t, ok)
	assert.Equal(t, []string{"alice", "bob", "carol"}, m.Labels())
	m.Clear()
	assert.Equal(t, index.Index(0), m.Len())
	assert.Equal(t, index.Index(0), m.Allocate("dave"))
}

func TestMap_Copies(t *testing.T) {
	m := MapWithLabels("a")
	labels := m.Labels()
	labels[0] = "z"
	indices := m.Indices()
	indices["y"] = 9
	assert.Equal(t, []string{"a"}, m.Labels())
	_, ok := m.Index("y")
	assert.False(t, ok)
}

func TestMapWithLabelChan(t *testing.T) {
	ch := make(chan string, 3)
	ch <- "x"
	ch <- "y"
	ch <- "x"
	close(ch)
	m, err := MapWithLabelChan(context.Background(), ch)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, m.Labels())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = MapWithLabelChan(ctx, make(chan string))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMapWithLabelReader_RoundTrip(t *testing.T) {
	m, err := MapWithLabelReader(strings.NewReader("p\nq\nr\n"))
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, "p\nq\nr\n", buf.String())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		m       *Map
		alloc   bool
		want    index.Index
		wantErr any
	}{
		{"Literal", "42", nil, false, 42, nil},
		{"NegativeLiteral", "-1", nil, false, 0, &InvalidIndexLiteral{}},
		{"GarbageLiteral", "x", nil, false, 0, &InvalidIndexLiteral{}},
		{"Known", "b", MapWithLabels("a", "b"), false, 1, nil},
		{"Unknown", "c", MapWithLabels("a", "b"), false, 0, &NoSuchLabel{}},
		{"Allocated", "c", MapWithLabels("a", "b"), true, 2, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.label, tt.m, tt.alloc)
			switch target := tt.wantErr.(type) {
			case nil:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			case *InvalidIndexLiteral:
				assert.ErrorAs(t, err, target)
			case *NoSuchLabel:
				assert.ErrorAs(t, err, target)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	s, err := Format(7, nil)
	require.NoError(t, err)
	assert.Equal(t, "7", s)
	s, err = Format(1, MapWithLabels("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, "b", s)
	_, err = Format(5, MapWithLabels("a"))
	var noSuch NoSuchIndex
	assert.ErrorAs(t, err, &noSuch)
	assert.Equal(t, index.Index(5), noSuch.Value)
}
