package cmd

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/spf13/cobra"

	"k3l.io/go-graphblas/pkg/algo"
	"k3l.io/go-graphblas/pkg/label"
	"k3l.io/go-graphblas/pkg/sparse"
	spopt "k3l.io/go-graphblas/pkg/sparse/option"
	"k3l.io/go-graphblas/pkg/util"
)

var (
	eigentrustCmd = &cobra.Command{
		Use:   "eigentrust LOCALTRUST.csv",
		Short: "Compute EigenTrust scores",
		Long: `Compute EigenTrust scores from a local trust matrix
(CSV "i,j,v": truster, trustee, trust level) and an optional pre-trust
vector (CSV "i,v").  Negative local trust is taken as distrust and,
with --discount, subtracted from the scores.`,
		Args: cobra.ExactArgs(1),
		RunE: runEigenTrust,
	}
	preTrustFile          string
	labelsFile            string
	alpha                 float64
	epsilon               float64
	flatTail              int
	numLeaders            int
	maxIterations         int
	discount              bool
	outputFilename        string
	flatTailStatsFilename string
)

// trustInputs are the canonicalized local trust, distrust and pre-trust.
type trustInputs struct {
	c, d *sparse.Matrix[float64]
	p    *sparse.Vector[float64]
}

func (in *trustInputs) Free() {
	for _, m := range []*sparse.Matrix[float64]{in.c, in.d} {
		if m != nil {
			m.Free()
		}
	}
	if in.p != nil {
		in.p.Free()
	}
}

func readTrustInputs(
	ctx context.Context, localTrustFile string, labels *label.Map,
) (in *trustInputs, err error) {
	in = &trustInputs{}
	defer func() {
		if err != nil {
			in.Free()
		}
	}()
	var ltOpts, ptOpts []spopt.Option
	if labels != nil {
		ltOpts = append(ltOpts, spopt.LabelsInto(labels))
		ptOpts = append(ptOpts, spopt.LabelsIn(labels))
	}
	if in.c, err = readMatrix[float64](ctx, localTrustFile, ltOpts...); err != nil {
		return nil, err
	}
	n := max(in.c.Rows(), in.c.Columns())
	if preTrustFile != "" {
		if in.p, err = readVector[float64](ctx, preTrustFile, ptOpts...); err != nil {
			return nil, err
		}
		n = max(n, in.p.Len())
	} else if in.p, err = sparse.NewVector[float64](sctx, n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, errors.New("empty local trust")
	}
	if err = in.c.Resize(sparse.Size{Rows: n, Columns: n}); err != nil {
		return nil, err
	}
	if err = in.p.Resize(n); err != nil {
		return nil, err
	}
	if in.d, err = algo.ExtractDistrust(in.c); err != nil {
		return nil, err
	}
	if err = algo.CanonicalizeTrustVector(in.p); err != nil {
		return nil, err
	}
	if err = algo.CanonicalizeLocalTrust(in.c, in.p); err != nil {
		return nil, err
	}
	if err = algo.CanonicalizeLocalTrust(in.d, nil); err != nil {
		return nil, err
	}
	return in, nil
}

func runEigenTrust(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	tl := util.NewWallTimeLogger(logger)
	var labels *label.Map
	if labelsFile != "" {
		var err error
		if labels, err = label.MapWithLabelFile(labelsFile); err != nil {
			return err
		}
	}
	in, err := readTrustInputs(ctx, args[0], labels)
	if err != nil {
		return err
	}
	defer in.Free()
	tl.Log("read and canonicalize inputs")
	var stats algo.FlatTailStats
	opts := []algo.ComputeOpt{
		algo.WithFlatTail(flatTail),
		algo.WithFlatTailNumLeaders(numLeaders),
		algo.WithFlatTailStats(&stats),
		algo.WithMaxIterations(maxIterations),
	}
	t, err := algo.Compute(ctx, in.c, in.p, alpha, epsilon, opts...)
	if err != nil {
		return err
	}
	defer t.Free()
	if discount {
		if err := algo.DiscountTrustVector(t, in.d); err != nil {
			return err
		}
	}
	tl.Log("compute")
	var outOpts []spopt.Option
	if labels != nil {
		outOpts = append(outOpts, spopt.LabelsIn(labels))
	}
	if err := writeVector(ctx, outputFilename, t, outOpts...); err != nil {
		return err
	}
	if flatTailStatsFilename != "" {
		if err := writeFlatTailStats(flatTailStatsFilename, &stats, labels); err != nil {
			return err
		}
	}
	tl.Log("write output")
	return nil
}

// writeFlatTailStats writes the stats as one JSON object,
// with ranking entries as labels if a label map is given.
func writeFlatTailStats(filename string, stats *algo.FlatTailStats, labels *label.Map) (err error) {
	f, err := util.OpenOutputFile(filename)
	if err != nil {
		return err
	}
	defer func() {
		if err2 := f.Close(); err == nil {
			err = err2
		}
	}()
	e := jx.NewStreamingEncoder(f, -1)
	e.ObjStart()
	e.Field("length", func(e *jx.Encoder) { e.Int(stats.Length) })
	e.Field("threshold", func(e *jx.Encoder) { e.Int(stats.Threshold) })
	e.Field("deltaNorm", func(e *jx.Encoder) { e.Float64(stats.DeltaNorm) })
	e.FieldStart("ranking")
	e.ArrStart()
	for _, i := range stats.Ranking {
		if labels == nil {
			e.UInt64(uint64(i))
			continue
		}
		l, err := label.Format(i, labels)
		if err != nil {
			return err
		}
		e.Str(l)
	}
	e.ArrEnd()
	e.ObjEnd()
	return e.Close()
}

func init() {
	flags := eigentrustCmd.Flags()
	flags.StringVarP(&preTrustFile, "pre-trust", "p", "",
		"pre-trust vector CSV file (default: uniform)")
	flags.StringVarP(&labelsFile, "labels", "l", "",
		"peer label file, one label per line; CSV coordinates are labels")
	flags.Float64VarP(&alpha, "alpha", "a", 0.5, "pre-trust strength")
	flags.Float64VarP(&epsilon, "epsilon", "e", 1e-6, "convergence threshold")
	flags.IntVar(&flatTail, "flat-tail", 0,
		"ranking stability threshold in iterations (0 disables)")
	flags.IntVar(&numLeaders, "num-leaders", 0,
		"number of top ranks to check for a flat tail (0 means all)")
	flags.IntVar(&maxIterations, "max-iterations", 0,
		"maximum number of iterations (0 means unlimited)")
	flags.BoolVar(&discount, "discount", false,
		"subtract distrust from the scores")
	flags.StringVarP(&outputFilename, "output", "o", "-",
		"trust scores CSV file (- means stdout)")
	flags.StringVar(&flatTailStatsFilename, "flat-tail-stats", "",
		"flat-tail stats JSON file")
	rootCmd.AddCommand(eigentrustCmd)
}
