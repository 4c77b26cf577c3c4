package util

import (
	"slices"

	"github.com/go-faster/errors"
)

// CSVFieldExtractor picks named fields out of CSV records,
// by their position in the header record.
type CSVFieldExtractor struct {
	Names   []string
	Indices []int
}

// NewCSVFieldExtractor locates the given field names in header.
// Every name must be present.
func NewCSVFieldExtractor(
	header []string, names ...string,
) (*CSVFieldExtractor, error) {
	indices := Map(names, func(name string) int {
		return slices.Index(header, name)
	})
	if x := slices.Index(indices, -1); x != -1 {
		return nil, errors.Errorf("field %#v not in CSV header %#v",
			names[x], header)
	}
	return &CSVFieldExtractor{Names: slices.Clone(names), Indices: indices}, nil
}

func wrapOOB(fields []string, err error) error {
	var oob IndexOutOfBoundsError
	if errors.As(err, &oob) {
		err = errors.Wrapf(err, "too few fields in CSV record %#v", fields)
	}
	return err
}

// ExtractAll returns the named fields of a record, in name order.
func (s *CSVFieldExtractor) ExtractAll(fields []string) ([]string, error) {
	extracted, err := MapWithErr(s.Indices,
		ElementAtWithErrFn(fields))
	return extracted, wrapOOB(fields, err)
}

// Extract returns the n-th named field of a record.
func (s *CSVFieldExtractor) Extract(
	n int, fields []string,
) (string, error) {
	i, err := ElementAtWithErr(s.Indices, n)
	if err != nil {
		return "", err
	}
	extracted, err := ElementAtWithErr(fields, i)
	return extracted, wrapOOB(fields, err)
}

// CSVReader reads from a CSV file.
type CSVReader interface {
	Read() (fields []string, err error)
}

// CSVWriter writes into a CSV file.
type CSVWriter interface {
	Write(fields []string) error
}
