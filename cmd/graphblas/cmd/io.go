package cmd

import (
	"context"
	"encoding/csv"

	"github.com/go-faster/errors"

	"k3l.io/go-graphblas/pkg/sparse"
	"k3l.io/go-graphblas/pkg/sparse/csvio"
	spopt "k3l.io/go-graphblas/pkg/sparse/option"
	"k3l.io/go-graphblas/pkg/sparse/value"
	"k3l.io/go-graphblas/pkg/util"
)

func readMatrix[T value.Value](
	ctx context.Context, filename string, opts ...spopt.Option,
) (*sparse.Matrix[T], error) {
	f, err := util.OpenInputFile(filename)
	if err != nil {
		return nil, err
	}
	defer util.Close(f)
	m, err := csvio.ReadMatrix[T](ctx, sctx, csv.NewReader(f), opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read matrix from %q", filename)
	}
	return m, nil
}

func readVector[T value.Value](
	ctx context.Context, filename string, opts ...spopt.Option,
) (*sparse.Vector[T], error) {
	f, err := util.OpenInputFile(filename)
	if err != nil {
		return nil, err
	}
	defer util.Close(f)
	u, err := csvio.ReadVector[T](ctx, sctx, csv.NewReader(f), opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read vector from %q", filename)
	}
	return u, nil
}

// writeCSV opens filename for output and lets write fill it in.
func writeCSV(filename string, write func(w *csv.Writer) error) (err error) {
	f, err := util.OpenOutputFile(filename)
	if err != nil {
		return err
	}
	defer func() {
		if err2 := f.Close(); err == nil {
			err = err2
		}
	}()
	w := csv.NewWriter(f)
	if err := write(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func writeMatrix[T value.Value](
	ctx context.Context, filename string, m *sparse.Matrix[T],
	opts ...spopt.Option,
) error {
	return writeCSV(filename, func(w *csv.Writer) error {
		return csvio.WriteMatrix(ctx, w, m, opts...)
	})
}

func writeVector[T value.Value](
	ctx context.Context, filename string, u *sparse.Vector[T],
	opts ...spopt.Option,
) error {
	return writeCSV(filename, func(w *csv.Writer) error {
		return csvio.WriteVector(ctx, w, u, opts...)
	})
}
