// Package csvio reads and writes sparse containers as CSV.
//
// A matrix file has a header row naming the row, column and value fields
// ("i", "j", "v" by default); a vector file names the index and value
// fields ("i", "v").  Extra fields are ignored and fields may come in any
// order.  Coordinates are integer literals unless a label map is given
// through spopt.LabelsIn / spopt.LabelsInto.
package csvio

import (
	"context"
	"fmt"
	"io"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"

	"k3l.io/go-graphblas/pkg/label"
	"k3l.io/go-graphblas/pkg/sparse"
	"k3l.io/go-graphblas/pkg/sparse/index"
	"k3l.io/go-graphblas/pkg/sparse/op"
	spopt "k3l.io/go-graphblas/pkg/sparse/option"
	"k3l.io/go-graphblas/pkg/sparse/value"
	"k3l.io/go-graphblas/pkg/util"
)

// NegativeValueError signals a negative-valued entry was encountered
// where disallowed.
type NegativeValueError struct {
	Value string
}

func (e NegativeValueError) Error() string {
	return fmt.Sprintf("negative value %s not allowed", e.Value)
}

// RecordError locates a malformed CSV record.
// Record 1 is the header.
type RecordError struct {
	Record int
	Err    error
}

func (e RecordError) Error() string {
	return fmt.Sprintf("CSV record #%d: %v", e.Record, e.Err)
}

func (e RecordError) Unwrap() error { return e.Err }

// ReadMatrix reads a matrix from CSV records.
//
// Row and column dimensions follow the axis options: by default they grow
// to fit the largest index read; spopt.FixedDim makes out-of-range
// coordinates an error.  A coordinate appearing more than once keeps the
// value of its last record.  Under TransposeFirst the row field feeds
// matrix columns and vice versa.
func ReadMatrix[T value.Value](
	ctx context.Context, sctx *sparse.Context, r util.CSVReader,
	opts ...spopt.Option,
) (*sparse.Matrix[T], error) {
	o := spopt.New(opts...)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ch := make(chan sparse.CooEntry[T])
	sendErr := make(chan error, 1)
	go func() {
		defer close(ch)
		defer close(sendErr)
		sendErr <- SendCooEntries(ctx, r, ch, opts...)
	}()
	entries, err := util.ReceiveElements(ctx, ch)
	if err == nil {
		err = util.ErrFromCh(ctx, sendErr)
	}
	if err != nil {
		return nil, err
	}
	rowAxis, colAxis := o.Axes()
	size := sparse.Size{Rows: rowAxis.Dim, Columns: colAxis.Dim}
	for _, e := range entries {
		if rowAxis.Grow && e.Row >= size.Rows {
			size.Rows = e.Row + 1
		}
		if colAxis.Grow && e.Column >= size.Columns {
			size.Columns = e.Column + 1
		}
	}
	zerolog.Ctx(ctx).Debug().
		Int("entries", len(entries)).
		Uint64("rows", uint64(size.Rows)).
		Uint64("columns", uint64(size.Columns)).
		Msg("read matrix from CSV")
	return sparse.NewMatrixFromElements(sctx, size, entries, op.Second[T]())
}

// SendCooEntries parses CSV records into matrix entries sent to ch.
// It does not close ch.
func SendCooEntries[T value.Value](
	ctx context.Context, r util.CSVReader, ch chan<- sparse.CooEntry[T],
	opts ...spopt.Option,
) error {
	o := spopt.New(opts...)
	rowAxis, colAxis := o.Axes()
	header, err := r.Read()
	if err != nil {
		return errors.Wrap(err, "cannot read CSV header")
	}
	fe, err := util.NewCSVFieldExtractor(header,
		rowAxis.Name, colAxis.Name, o.Value.Name)
	if err != nil {
		return err
	}
	return readRecords(ctx, r, func(fields []string) error {
		f, err := fe.ExtractAll(fields)
		if err != nil {
			return err
		}
		row, err := label.Parse(f[0], rowAxis.Labels, rowAxis.Alloc)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", rowAxis.Name)
		}
		col, err := label.Parse(f[1], colAxis.Labels, colAxis.Alloc)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", colAxis.Name)
		}
		v, keep, err := parseValue[T](f[2], o.Value)
		if err != nil || !keep {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ch <- sparse.CooEntry[T]{Row: row, Column: col, Value: v}:
		}
		return nil
	})
}

// ReadVector reads a vector from CSV records, using the row axis options
// for the index field.
func ReadVector[T value.Value](
	ctx context.Context, sctx *sparse.Context, r util.CSVReader,
	opts ...spopt.Option,
) (*sparse.Vector[T], error) {
	o := spopt.New(opts...)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ch := make(chan sparse.Entry[T])
	sendErr := make(chan error, 1)
	go func() {
		defer close(ch)
		defer close(sendErr)
		sendErr <- SendEntries(ctx, r, ch, opts...)
	}()
	entries, err := util.ReceiveElements(ctx, ch)
	if err == nil {
		err = util.ErrFromCh(ctx, sendErr)
	}
	if err != nil {
		return nil, err
	}
	n := o.Row.Dim
	for _, e := range entries {
		if o.Row.Grow && e.Index >= n {
			n = e.Index + 1
		}
	}
	zerolog.Ctx(ctx).Debug().
		Int("entries", len(entries)).
		Uint64("length", uint64(n)).
		Msg("read vector from CSV")
	return sparse.NewVectorFromElements(sctx, n, entries, op.Second[T]())
}

// SendEntries parses CSV records into vector entries sent to ch.
// It does not close ch.
func SendEntries[T value.Value](
	ctx context.Context, r util.CSVReader, ch chan<- sparse.Entry[T],
	opts ...spopt.Option,
) error {
	o := spopt.New(opts...)
	header, err := r.Read()
	if err != nil {
		return errors.Wrap(err, "cannot read CSV header")
	}
	fe, err := util.NewCSVFieldExtractor(header, o.Row.Name, o.Value.Name)
	if err != nil {
		return err
	}
	return readRecords(ctx, r, func(fields []string) error {
		f, err := fe.ExtractAll(fields)
		if err != nil {
			return err
		}
		i, err := label.Parse(f[0], o.Row.Labels, o.Row.Alloc)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", o.Row.Name)
		}
		v, keep, err := parseValue[T](f[1], o.Value)
		if err != nil || !keep {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ch <- sparse.Entry[T]{Index: i, Value: v}:
		}
		return nil
	})
}

func readRecords(
	ctx context.Context, r util.CSVReader,
	parse func(fields []string) error,
) error {
	record := 1
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fields, err := r.Read()
		record++
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return RecordError{record, err}
		}
		if err := parse(fields); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			return RecordError{record, err}
		}
	}
}

func parseValue[T value.Value](
	s string, o *spopt.Value,
) (v T, keep bool, err error) {
	v, err = value.Parse[T](s)
	switch {
	case err != nil:
		return v, false, err
	case v == value.Zero[T]() && !o.IncludeZero:
		return v, false, nil
	case !o.AllowNegative && value.Less(v, value.Zero[T]()):
		return v, false, NegativeValueError{s}
	}
	return v, true, nil
}

// WriteMatrix writes the header and the stored elements of m in
// row-major order.  Under TransposeFirst, aᵀ is written.
// The caller flushes w.
func WriteMatrix[T value.Value](
	ctx context.Context, w util.CSVWriter, m *sparse.Matrix[T],
	opts ...spopt.Option,
) error {
	o := spopt.New(opts...)
	rowAxis, colAxis := o.Axes()
	if err := w.Write([]string{o.Row.Name, o.Column.Name, o.Value.Name}); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ch := make(chan sparse.CooEntry[T])
	sendErr := make(chan error, 1)
	go func() {
		defer close(ch)
		defer close(sendErr)
		sendErr <- util.SendSeq2(ctx, m.All(), ch,
			func(c sparse.Coordinate, v T) sparse.CooEntry[T] {
				return sparse.CooEntry[T]{Row: c.Row, Column: c.Column, Value: v}
			})
	}()
	written := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-ch:
			if !ok {
				zerolog.Ctx(ctx).Debug().Int("entries", written).
					Msg("wrote matrix to CSV")
				return util.ErrFromCh(ctx, sendErr)
			}
			if e.Value == value.Zero[T]() && !o.Value.IncludeZero {
				continue
			}
			// The matrix row is written through the axis it was read from.
			i, err := label.Format(e.Row, rowAxis.Labels)
			if err != nil {
				return err
			}
			j, err := label.Format(e.Column, colAxis.Labels)
			if err != nil {
				return err
			}
			fields := []string{i, j, value.Format(e.Value)}
			if o.TransposeFirst {
				fields[0], fields[1] = fields[1], fields[0]
			}
			if err := w.Write(fields); err != nil {
				return err
			}
			written++
		}
	}
}

// WriteVector writes the header and the stored elements of u
// in index order.
func WriteVector[T value.Value](
	ctx context.Context, w util.CSVWriter, u *sparse.Vector[T],
	opts ...spopt.Option,
) error {
	o := spopt.New(opts...)
	if err := w.Write([]string{o.Row.Name, o.Value.Name}); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ch := make(chan sparse.Entry[T])
	sendErr := make(chan error, 1)
	go func() {
		defer close(ch)
		defer close(sendErr)
		sendErr <- util.SendSeq2(ctx, u.All(), ch,
			func(i index.Index, v T) sparse.Entry[T] {
				return sparse.Entry[T]{Index: i, Value: v}
			})
	}()
	entries, err := util.ReceiveElements(ctx, ch)
	if err == nil {
		err = util.ErrFromCh(ctx, sendErr)
	}
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Value == value.Zero[T]() && !o.Value.IncludeZero {
			continue
		}
		i, err := label.Format(e.Index, o.Row.Labels)
		if err != nil {
			return err
		}
		if err := w.Write([]string{i, value.Format(e.Value)}); err != nil {
			return err
		}
	}
	zerolog.Ctx(ctx).Debug().Int("entries", len(entries)).
		Msg("wrote vector to CSV")
	return nil
}
