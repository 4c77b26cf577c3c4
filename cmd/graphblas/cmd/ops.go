package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"k3l.io/go-graphblas/pkg/sparse"
	"k3l.io/go-graphblas/pkg/sparse/index"
	"k3l.io/go-graphblas/pkg/sparse/op"
	spopt "k3l.io/go-graphblas/pkg/sparse/option"
	"k3l.io/go-graphblas/pkg/util"
)

// opFlags are the output, mask and descriptor flags
// shared by the operation subcommands.
type opFlags struct {
	output     string
	mask       string
	accum      string
	complement bool
	structure  bool
	replace    bool
	transposeA bool
	transposeB bool
}

func (f *opFlags) register(cmd *cobra.Command, transposes int) {
	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", "-", "output CSV file (- means stdout)")
	flags.StringVar(&f.mask, "mask", "", "mask CSV file")
	flags.StringVar(&f.accum, "accum", "", "accumulator binary operator (default: none)")
	flags.BoolVar(&f.complement, "complement", false, "use the structural complement of the mask")
	flags.BoolVar(&f.structure, "structure", false, "use only the structure of the mask")
	flags.BoolVar(&f.replace, "replace", false, "clear output positions the mask does not allow")
	if transposes > 0 {
		flags.BoolVar(&f.transposeA, "transpose-a", false, "transpose the first input")
	}
	if transposes > 1 {
		flags.BoolVar(&f.transposeB, "transpose-b", false, "transpose the second input")
	}
}

func (f *opFlags) options() []spopt.Option {
	return []spopt.Option{
		spopt.StructuralComplementSetTo(f.complement),
		spopt.StructureOnlyMaskSetTo(f.structure),
		spopt.ReplaceSetTo(f.replace),
		spopt.TransposeFirstSetTo(f.transposeA),
		spopt.TransposeSecondSetTo(f.transposeB),
	}
}

func (f *opFlags) accumulator() (op.BinaryOperator[float64], error) {
	if f.accum == "" {
		return op.BinaryOperator[float64]{}, nil
	}
	return op.BinaryByName[float64](f.accum)
}

// matrixMask reads the mask file, if any, fixed to the output size.
// The returned free function is always safe to call.
func (f *opFlags) matrixMask(ctx context.Context, size sparse.Size) (sparse.Mask, func(), error) {
	if f.mask == "" {
		return nil, func() {}, nil
	}
	m, err := readMatrix[float64](ctx, f.mask, spopt.FixedDim(size.Rows, size.Columns))
	if err != nil {
		return nil, nil, err
	}
	return m, m.Free, nil
}

func (f *opFlags) vectorMask(ctx context.Context, n index.Index) (sparse.Mask, func(), error) {
	if f.mask == "" {
		return nil, func() {}, nil
	}
	u, err := readVector[float64](ctx, f.mask, spopt.FixedRows(n))
	if err != nil {
		return nil, nil, err
	}
	return u, u.Free, nil
}

func transposed(size sparse.Size, t bool) sparse.Size {
	if t {
		return sparse.Size{Rows: size.Columns, Columns: size.Rows}
	}
	return size
}

// growTo grows m, as seen through an optional transpose, to at least
// the given size.  CSV input is only as large as its largest index,
// so operands are aligned this way.
func growTo(m *sparse.Matrix[float64], size sparse.Size, t bool) error {
	size = transposed(size, t)
	cur := m.Size()
	size.Rows, size.Columns = max(size.Rows, cur.Rows), max(size.Columns, cur.Columns)
	if size == cur {
		return nil
	}
	return m.Resize(size)
}

// readOperands reads the matrix CSV files named in args.
func readOperands(ctx context.Context, args []string) ([]*sparse.Matrix[float64], func(), error) {
	var ms []*sparse.Matrix[float64]
	free := func() {
		for _, m := range ms {
			m.Free()
		}
	}
	for _, filename := range args {
		m, err := readMatrix[float64](ctx, filename)
		if err != nil {
			free()
			return nil, nil, err
		}
		ms = append(ms, m)
	}
	return ms, free, nil
}

// runMatrixOp reads the operands, computes the output of the given size
// through compute, and writes it.
func runMatrixOp(
	cmd *cobra.Command, args []string, f *opFlags,
	size func(ms []*sparse.Matrix[float64]) (sparse.Size, error),
	compute func(out *sparse.Matrix[float64], mask sparse.Mask, accum op.BinaryOperator[float64], ms []*sparse.Matrix[float64]) error,
) error {
	ctx := cmd.Context()
	tl := util.NewWallTimeLogger(logger)
	ms, free, err := readOperands(ctx, args)
	if err != nil {
		return err
	}
	defer free()
	tl.Log("read inputs")
	outSize, err := size(ms)
	if err != nil {
		return err
	}
	mask, freeMask, err := f.matrixMask(ctx, outSize)
	if err != nil {
		return err
	}
	defer freeMask()
	accum, err := f.accumulator()
	if err != nil {
		return err
	}
	out, err := sparse.NewMatrix[float64](sctx, outSize)
	if err != nil {
		return err
	}
	defer out.Free()
	if err := compute(out, mask, accum, ms); err != nil {
		return err
	}
	if err := sctx.Wait(); err != nil {
		return err
	}
	tl.Log("compute")
	if err := writeMatrix(ctx, f.output, out); err != nil {
		return err
	}
	tl.Log("write output")
	return nil
}

var (
	mxmFlags     opFlags
	mxmSemiring  string
	ewiseFlags   opFlags
	ewiseOp      string
	ewiseMult    bool
	reduceFlags  opFlags
	reduceMonoid string
	reduceScalar bool
	selectFlags  opFlags
	selectOp     string
	selectArg    string
	transFlags   opFlags
	sortOutput   string
	sortPerm     string
	sortDesc     bool
	kronFlags    opFlags
	kronOp       string

	mxmCmd = &cobra.Command{
		Use:   "mxm A.csv B.csv",
		Short: "Multiply two matrices over a semiring",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := op.SemiringByName[float64](mxmSemiring)
			if err != nil {
				return err
			}
			return runMatrixOp(cmd, args, &mxmFlags,
				func(ms []*sparse.Matrix[float64]) (sparse.Size, error) {
					a := transposed(ms[0].Size(), mxmFlags.transposeA)
					b := transposed(ms[1].Size(), mxmFlags.transposeB)
					inner := max(a.Columns, b.Rows)
					a.Columns, b.Rows = inner, inner
					if err := growTo(ms[0], a, mxmFlags.transposeA); err != nil {
						return sparse.Size{}, err
					}
					if err := growTo(ms[1], b, mxmFlags.transposeB); err != nil {
						return sparse.Size{}, err
					}
					return sparse.Size{Rows: a.Rows, Columns: b.Columns}, nil
				},
				func(out *sparse.Matrix[float64], mask sparse.Mask, accum op.BinaryOperator[float64], ms []*sparse.Matrix[float64]) error {
					return sparse.MxM(out, mask, accum, s, ms[0], ms[1], mxmFlags.options()...)
				})
		},
	}

	ewiseCmd = &cobra.Command{
		Use:   "ewise A.csv B.csv",
		Short: "Combine two matrices element-wise",
		Long: `Combine two matrices element-wise: over the union of their
structures (default), or over the intersection with --mult.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := op.BinaryByName[float64](ewiseOp)
			if err != nil {
				return err
			}
			ewise := sparse.EWiseAddMatrix[float64]
			if ewiseMult {
				ewise = sparse.EWiseMultMatrix[float64]
			}
			return runMatrixOp(cmd, args, &ewiseFlags,
				func(ms []*sparse.Matrix[float64]) (sparse.Size, error) {
					a := transposed(ms[0].Size(), ewiseFlags.transposeA)
					b := transposed(ms[1].Size(), ewiseFlags.transposeB)
					size := sparse.Size{Rows: max(a.Rows, b.Rows), Columns: max(a.Columns, b.Columns)}
					if err := growTo(ms[0], size, ewiseFlags.transposeA); err != nil {
						return sparse.Size{}, err
					}
					return size, growTo(ms[1], size, ewiseFlags.transposeB)
				},
				func(out *sparse.Matrix[float64], mask sparse.Mask, accum op.BinaryOperator[float64], ms []*sparse.Matrix[float64]) error {
					return ewise(out, mask, accum, f, ms[0], ms[1], ewiseFlags.options()...)
				})
		},
	}

	transposeCmd = &cobra.Command{
		Use:   "transpose A.csv",
		Short: "Transpose a matrix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatrixOp(cmd, args, &transFlags,
				func(ms []*sparse.Matrix[float64]) (sparse.Size, error) {
					return transposed(ms[0].Size(), true), nil
				},
				func(out *sparse.Matrix[float64], mask sparse.Mask, accum op.BinaryOperator[float64], ms []*sparse.Matrix[float64]) error {
					return sparse.Transpose(out, mask, accum, ms[0], transFlags.options()...)
				})
		},
	}

	kronCmd = &cobra.Command{
		Use:   "kron A.csv B.csv",
		Short: "Kronecker product of two matrices",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := op.BinaryByName[float64](kronOp)
			if err != nil {
				return err
			}
			return runMatrixOp(cmd, args, &kronFlags,
				func(ms []*sparse.Matrix[float64]) (sparse.Size, error) {
					a := transposed(ms[0].Size(), kronFlags.transposeA)
					b := transposed(ms[1].Size(), kronFlags.transposeB)
					rows, err := index.Checked(a.Rows, b.Rows)
					if err != nil {
						return sparse.Size{}, err
					}
					columns, err := index.Checked(a.Columns, b.Columns)
					return sparse.Size{Rows: rows, Columns: columns}, err
				},
				func(out *sparse.Matrix[float64], mask sparse.Mask, accum op.BinaryOperator[float64], ms []*sparse.Matrix[float64]) error {
					return sparse.Kronecker(out, mask, accum, f, ms[0], ms[1], kronFlags.options()...)
				})
		},
	}

	selectCmd = &cobra.Command{
		Use:   "select A.csv",
		Short: "Keep the matrix elements satisfying a predicate",
		Long: `Keep the matrix elements satisfying a predicate.

Positional predicates (diag, offdiag, triu, tril, rowle, rowgt, colle, colgt)
take an integer --arg (diagonal offset or index bound); value predicates
(valueeq, valuene, valuegt, valuelt, valuege, valuele) take a number.`,
		Args: cobra.ExactArgs(1),
		RunE: runSelect,
	}

	reduceCmd = &cobra.Command{
		Use:   "reduce A.csv",
		Short: "Reduce matrix rows (or the whole matrix) with a monoid",
		Args:  cobra.ExactArgs(1),
		RunE:  runReduce,
	}

	sortCmd = &cobra.Command{
		Use:   "sort U.csv",
		Short: "Sort vector elements by value",
		Args:  cobra.ExactArgs(1),
		RunE:  runSort,
	}
)

func runSelect(cmd *cobra.Command, args []string) error {
	options := selectFlags.options()
	size := func(ms []*sparse.Matrix[float64]) (sparse.Size, error) {
		return transposed(ms[0].Size(), selectFlags.transposeA), nil
	}
	if f, err := op.PositionalSelectorByName[float64](selectOp); err == nil {
		arg, err := strconv.ParseInt(selectArg, 0, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid positional argument %q", selectArg)
		}
		return runMatrixOp(cmd, args, &selectFlags, size,
			func(out *sparse.Matrix[float64], mask sparse.Mask, accum op.BinaryOperator[float64], ms []*sparse.Matrix[float64]) error {
				return sparse.SelectMatrix(out, mask, accum, f, ms[0], arg, options...)
			})
	}
	f, err := op.ValueSelectorByName[float64](selectOp)
	if err != nil {
		return err
	}
	arg, err := strconv.ParseFloat(selectArg, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid value argument %q", selectArg)
	}
	return runMatrixOp(cmd, args, &selectFlags, size,
		func(out *sparse.Matrix[float64], mask sparse.Mask, accum op.BinaryOperator[float64], ms []*sparse.Matrix[float64]) error {
			return sparse.SelectMatrix(out, mask, accum, f, ms[0], arg, options...)
		})
}

func runReduce(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	m, err := op.MonoidByName[float64](reduceMonoid)
	if err != nil {
		return err
	}
	a, err := readMatrix[float64](ctx, args[0])
	if err != nil {
		return err
	}
	defer a.Free()
	if reduceScalar {
		r, err := sparse.ReduceMatrix(m, a)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(r, 'g', -1, 64))
		return err
	}
	size := transposed(a.Size(), reduceFlags.transposeA)
	mask, freeMask, err := reduceFlags.vectorMask(ctx, size.Rows)
	if err != nil {
		return err
	}
	defer freeMask()
	accum, err := reduceFlags.accumulator()
	if err != nil {
		return err
	}
	out, err := sparse.NewVector[float64](sctx, size.Rows)
	if err != nil {
		return err
	}
	defer out.Free()
	if err := sparse.ReduceToVector(out, mask, accum, m, a, reduceFlags.options()...); err != nil {
		return err
	}
	if err := sctx.Wait(); err != nil {
		return err
	}
	return writeVector(ctx, reduceFlags.output, out)
}

func runSort(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	u, err := readVector[float64](ctx, args[0])
	if err != nil {
		return err
	}
	defer u.Free()
	less := op.IsLessThan[float64]()
	if sortDesc {
		less = op.IsGreaterThan[float64]()
	}
	var (
		values *sparse.Vector[float64]
		perm   *sparse.Vector[uint64]
	)
	if sortOutput != "" {
		if values, err = sparse.NewVector[float64](sctx, u.Len()); err != nil {
			return err
		}
		defer values.Free()
	}
	if sortPerm != "" {
		if perm, err = sparse.NewVector[uint64](sctx, u.Len()); err != nil {
			return err
		}
		defer perm.Free()
	}
	if err := sparse.SortVector(values, perm, less, u); err != nil {
		return err
	}
	if values != nil {
		if err := writeVector(ctx, sortOutput, values); err != nil {
			return err
		}
	}
	if perm != nil {
		return writeVector(ctx, sortPerm, perm)
	}
	return nil
}

func init() {
	mxmFlags.register(mxmCmd, 2)
	mxmCmd.Flags().StringVarP(&mxmSemiring, "semiring", "s", "plus-times",
		"semiring as add-multiply, e.g. plus-times or min-plus")

	ewiseFlags.register(ewiseCmd, 2)
	ewiseCmd.Flags().StringVar(&ewiseOp, "op", "plus", "binary operator")
	ewiseCmd.Flags().BoolVar(&ewiseMult, "mult", false,
		"combine over the intersection of structures")

	transFlags.register(transposeCmd, 0)

	kronFlags.register(kronCmd, 2)
	kronCmd.Flags().StringVar(&kronOp, "op", "times", "binary operator")

	selectFlags.register(selectCmd, 1)
	selectCmd.Flags().StringVar(&selectOp, "op", "valuene", "select predicate")
	selectCmd.Flags().StringVar(&selectArg, "arg", "0", "predicate argument")

	reduceFlags.register(reduceCmd, 1)
	reduceCmd.Flags().StringVarP(&reduceMonoid, "monoid", "m", "plus", "monoid")
	reduceCmd.Flags().BoolVar(&reduceScalar, "scalar", false,
		"reduce the whole matrix and print the scalar")

	sortCmd.Flags().StringVarP(&sortOutput, "output", "o", "-",
		"sorted values CSV file (empty to skip)")
	sortCmd.Flags().StringVar(&sortPerm, "perm", "",
		"permutation CSV file: position to source index")
	sortCmd.Flags().BoolVar(&sortDesc, "desc", false, "sort in descending order")

	rootCmd.AddCommand(mxmCmd, ewiseCmd, transposeCmd, kronCmd,
		selectCmd, reduceCmd, sortCmd)
}
