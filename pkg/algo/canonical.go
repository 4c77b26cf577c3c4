// Package algo implements the EigenTrust algorithm on sparse containers.
package algo

import (
	"github.com/go-faster/errors"

	"k3l.io/go-graphblas/pkg/sparse"
	"k3l.io/go-graphblas/pkg/sparse/index"
	"k3l.io/go-graphblas/pkg/sparse/op"
	spopt "k3l.io/go-graphblas/pkg/sparse/option"
)

// ErrZeroSum signals a vector whose elements sum to zero.
var ErrZeroSum = errors.New("zero sum")

// noAccum overwrites the output instead of accumulating into it.
var noAccum op.BinaryOperator[float64]

// Canonicalize scales u in place so that its elements sum to one.
//
// If the elements sum to zero, Canonicalize returns ErrZeroSum.
func Canonicalize(u *sparse.Vector[float64]) error {
	s := SumValues(u.Values())
	if s == 0 {
		return ErrZeroSum
	}
	return sparse.ApplyBinaryRightVector(u, nil, noAccum, op.Divide[float64](), u, s)
}

// CanonicalizeTrustVector canonicalizes u in place,
// or makes it a uniform vector summing to one if u sums to zero.
func CanonicalizeTrustVector(u *sparse.Vector[float64]) error {
	err := Canonicalize(u)
	if !errors.Is(err, ErrZeroSum) {
		return err
	}
	n := u.Len()
	if n == 0 {
		return errors.New("cannot canonicalize an empty trust vector")
	}
	return sparse.AssignVectorScalar(u, nil, noAccum, 1/float64(n), index.All())
}

func squareDim(c *sparse.Matrix[float64]) (index.Index, error) {
	size := c.Size()
	if size.Rows != size.Columns {
		return 0, errors.Wrapf(sparse.ErrDimensionMismatch,
			"local trust is %dx%d, not square", size.Rows, size.Columns)
	}
	return size.Rows, nil
}

// CanonicalizeLocalTrust canonicalizes c in place,
// i.e. scales each row so that its entries sum to one.
//
// If p is not nil, it replaces the rows of c that sum to zero,
// i.e. p serves as the default outbound trust of peers
// without trust opinions.  Otherwise such rows are left as they are.
//
// If p is not nil, it must have the same dimension as c.
func CanonicalizeLocalTrust(c *sparse.Matrix[float64], p *sparse.Vector[float64]) error {
	n, err := squareDim(c)
	if err != nil {
		return err
	}
	if p != nil && p.Len() != n {
		return errors.Wrapf(sparse.ErrDimensionMismatch,
			"pre-trust has %d elements, local trust %d", p.Len(), n)
	}
	ctx := c.Context()
	sums, err := sparse.NewVector[float64](ctx, n)
	if err != nil {
		return err
	}
	defer sums.Free()
	if err := sparse.ReduceToVector(sums, nil, noAccum, op.PlusMonoid[float64](), c); err != nil {
		return err
	}
	if err := sparse.SelectVector(sums, nil, noAccum, op.IsValueNotEqualTo[float64](), sums, 0.0); err != nil {
		return err
	}
	if err := sparse.ApplyVector(sums, nil, noAccum, op.MultiplicativeInverse[float64](), sums); err != nil {
		return err
	}
	scale, err := sparse.MatrixDiag(sums, 0)
	if err != nil {
		return err
	}
	defer scale.Free()
	if p == nil {
		// Second keeps the old value where the scaled product has none.
		return sparse.MxM(c, nil, op.Second[float64](), op.PlusTimes[float64](), scale, c)
	}
	if err := sparse.MxM(c, nil, noAccum, op.PlusTimes[float64](), scale, c); err != nil {
		return err
	}
	dangling, err := sparse.NewVector[float64](ctx, n)
	if err != nil {
		return err
	}
	defer dangling.Free()
	err = sparse.AssignVectorScalar(dangling, sums, noAccum, 1.0, index.All(),
		spopt.StructuralComplement, spopt.StructureOnlyMask)
	if err != nil || dangling.NNZ() == 0 {
		return err
	}
	column, err := columnMatrix(dangling)
	if err != nil {
		return err
	}
	defer column.Free()
	row, err := rowMatrix(p)
	if err != nil {
		return err
	}
	defer row.Free()
	// Rows of dangling peers are empty in c, so Plus only fills them in.
	return sparse.Kronecker(c, nil, op.Plus[float64](), op.Times[float64](), column, row)
}

// columnMatrix returns u as an n x 1 matrix.
func columnMatrix(u *sparse.Vector[float64]) (*sparse.Matrix[float64], error) {
	var entries []sparse.CooEntry[float64]
	for i, x := range u.All() {
		entries = append(entries, sparse.CooEntry[float64]{Row: i, Value: x})
	}
	return sparse.NewMatrixFromElements(u.Context(),
		sparse.Size{Rows: u.Len(), Columns: 1}, entries, op.BinaryOperator[float64]{})
}

// rowMatrix returns u as a 1 x n matrix.
func rowMatrix(u *sparse.Vector[float64]) (*sparse.Matrix[float64], error) {
	var entries []sparse.CooEntry[float64]
	for i, x := range u.All() {
		entries = append(entries, sparse.CooEntry[float64]{Column: i, Value: x})
	}
	return sparse.NewMatrixFromElements(u.Context(),
		sparse.Size{Rows: 1, Columns: u.Len()}, entries, op.BinaryOperator[float64]{})
}

// ExtractDistrust extracts negative local trust from c,
// leaving only non-negative values in c.
// Extracted values are sign reversed, i.e. they are positive.
func ExtractDistrust(c *sparse.Matrix[float64]) (*sparse.Matrix[float64], error) {
	d, err := sparse.NewMatrix[float64](c.Context(), c.Size())
	if err != nil {
		return nil, err
	}
	err = sparse.SelectMatrix(d, nil, noAccum, op.IsValueLessThan[float64](), c, 0.0)
	if err == nil {
		err = sparse.ApplyMatrix(d, nil, noAccum, op.AdditiveInverse[float64](), d)
	}
	if err == nil {
		err = sparse.SelectMatrix(c, nil, noAccum, op.IsValueGreaterThanOrEqualTo[float64](), c, 0.0)
	}
	if err != nil {
		d.Free()
		return nil, err
	}
	return d, nil
}
