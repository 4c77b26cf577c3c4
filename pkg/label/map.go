package label

import (
	"bufio"
	"context"
	"io"
	"maps"
	"os"
	"slices"

	"k3l.io/go-graphblas/pkg/sparse/index"
	"k3l.io/go-graphblas/pkg/util"
)

// Map is a bidirectional map between string labels and indices,
// with support for allocation.  Indices are allocated densely from 0.
//
// Map is not safe for concurrent use.
type Map struct {
	indices map[string]index.Index
	labels  []string
}

// NewMap returns a new, empty label map.
func NewMap() *Map {
	return &Map{indices: make(map[string]index.Index)}
}

// MapWithLabels returns a new map initialized with the given labels,
// sequentially assigning indices to them.
func MapWithLabels(labels ...string) *Map {
	m := NewMap()
	for _, l := range labels {
		_ = m.Allocate(l)
	}
	return m
}

// MapWithLabelChan returns a new map initialized with the labels
// taken from the given channel, sequentially assigning indices to them.
func MapWithLabelChan(ctx context.Context, ch <-chan string) (*Map, error) {
	m := NewMap()
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case l, ok := <-ch:
			if !ok {
				return m, nil
			}
			_ = m.Allocate(l)
		}
	}
}

// MapWithLabelReader returns a new map initialized with the labels
// read from the given plaintext reader, one per line.
func MapWithLabelReader(r io.Reader) (*Map, error) {
	m := NewMap()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		_ = m.Allocate(scanner.Text())
	}
	return m, scanner.Err()
}

// MapWithLabelFile returns a new map initialized with the labels
// read from the given file, one per line.
func MapWithLabelFile(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer util.Close(f)
	return MapWithLabelReader(f)
}

// Allocate returns the index for the given label, allocating one if needed.
func (m *Map) Allocate(l string) index.Index {
	i, ok := m.indices[l]
	if !ok {
		i = index.Index(len(m.labels))
		m.labels = append(m.labels, l)
		m.indices[l] = i
	}
	return i
}

// Index returns the index for the given label.
func (m *Map) Index(l string) (i index.Index, ok bool) {
	i, ok = m.indices[l]
	return
}

// Label returns the label for the given index.
func (m *Map) Label(i index.Index) (l string, ok bool) {
	if ok = i < index.Index(len(m.labels)); ok {
		l = m.labels[i]
	}
	return
}

// Clear clears the map.  Subsequent allocation starts from index 0 again.
func (m *Map) Clear() {
	clear(m.indices)
	m.labels = nil
}

// Labels returns (a copy of) the index-to-label array.
func (m *Map) Labels() []string { return slices.Clone(m.labels) }

// Indices returns (a copy of) the label-to-index map.
func (m *Map) Indices() map[string]index.Index { return maps.Clone(m.indices) }

// Len returns the number of labels, which is also the next allocated index.
func (m *Map) Len() index.Index { return index.Index(len(m.labels)) }

// WriteTo writes the labels, one per line, in index order.
func (m *Map) WriteTo(w io.Writer) (n int64, err error) {
	bw := bufio.NewWriter(w)
	for _, l := range m.labels {
		written, err := bw.WriteString(l + "\n")
		n += int64(written)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}
