package algo

import (
	"context"
	"math"
	"slices"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"

	"k3l.io/go-graphblas/pkg/sparse"
	"k3l.io/go-graphblas/pkg/sparse/index"
	"k3l.io/go-graphblas/pkg/sparse/op"
	"k3l.io/go-graphblas/pkg/util"
)

// DeltaNorm returns the Frobenius norm of t1 - t0.
func DeltaNorm(t1, t0 *sparse.Vector[float64]) (float64, error) {
	td, err := sparse.NewVector[float64](t1.Context(), t1.Len())
	if err != nil {
		return 0, err
	}
	defer td.Free()
	// Elements only in t0 come out with the wrong sign; squaring fixes that.
	if err := sparse.EWiseAddVector(td, nil, noAccum, op.Minus[float64](), t1, t0); err != nil {
		return 0, err
	}
	if err := sparse.EWiseMultVector(td, nil, noAccum, op.Times[float64](), td, td); err != nil {
		return 0, err
	}
	sum, err := sparse.ReduceVector(op.PlusMonoid[float64](), td)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(sum), nil
}

// Ranking returns the indices of the top n elements of t, highest first.
// Ties rank the lower index first.
func Ranking(t *sparse.Vector[float64], n int) ([]index.Index, error) {
	perm, err := sparse.NewVector[uint64](t.Context(), t.Len())
	if err != nil {
		return nil, err
	}
	defer perm.Free()
	if err := sparse.SortVector(nil, perm, op.IsGreaterThan[float64](), t); err != nil {
		return nil, err
	}
	sorted, err := perm.Entries()
	if err != nil {
		return nil, err
	}
	ranking := make([]index.Index, 0, min(n, len(sorted)))
	for _, e := range sorted {
		if len(ranking) == n {
			break
		}
		ranking = append(ranking, index.Index(e.Value))
	}
	return util.ShrinkWrap(ranking), nil
}

// exitTest decides when power iteration may stop:
// the delta from the previously checked vector is at most epsilon,
// and the top ranking has held for at least flatTail checks.
type exitTest struct {
	prev       *sparse.Vector[float64]
	delta      float64
	epsilon    float64
	flatTail   int
	numLeaders int
	stats      *FlatTailStats
	checks     int
	logger     *zerolog.Logger
}

func newExitTest(s *settings, epsilon float64, logger *zerolog.Logger) (*exitTest, error) {
	prev, err := s.t0.Clone()
	if err != nil {
		return nil, err
	}
	*s.stats = FlatTailStats{Threshold: 1, DeltaNorm: 1}
	return &exitTest{
		prev:       prev,
		delta:      2 * epsilon,
		epsilon:    epsilon,
		flatTail:   s.flatTail,
		numLeaders: s.numLeaders,
		stats:      s.stats,
		logger:     logger,
	}, nil
}

func (x *exitTest) Free() { x.prev.Free() }

// done checks t against the vector seen by the previous check.
func (x *exitTest) done(t *sparse.Vector[float64]) (bool, error) {
	d, err := DeltaNorm(t, x.prev)
	if err != nil {
		return false, err
	}
	x.logger.Trace().
		Int("check", x.checks).
		Float64("delta", d).
		Float64("log10Progress", math.Log10(d/x.delta)).
		Float64("log10ToGo", math.Log10(d/x.epsilon)).
		Msg("checked delta")
	// No mask and no accumulator: prev becomes an exact copy of t.
	if err := sparse.AssignVector(x.prev, nil, noAccum, t, index.All()); err != nil {
		return false, err
	}
	x.delta = d
	x.checks++
	ranking, err := Ranking(t, x.numLeaders)
	if err != nil {
		return false, err
	}
	x.track(ranking, d)
	return x.delta <= x.epsilon && x.stats.Length >= x.flatTail, nil
}

// track extends the current flat tail if the ranking held,
// or starts a new one.
func (x *exitTest) track(ranking []index.Index, d float64) {
	s := x.stats
	if slices.Equal(ranking, s.Ranking) {
		s.Length++
		return
	}
	if s.Length > 0 {
		x.logger.Trace().Int("length", s.Length).Msg("ranking changed, flat tail reset")
	}
	s.Threshold = max(s.Threshold, s.Length+1)
	s.Length, s.DeltaNorm, s.Ranking = 0, d, ranking
}

// step advances t to (1-a)·Cᵀt + ap in place.
func step(c *sparse.Matrix[float64], t, ap *sparse.Vector[float64], a float64) error {
	if err := sparse.VxM(t, nil, noAccum, op.PlusTimes[float64](), t, c); err != nil {
		return err
	}
	if err := sparse.ApplyBinaryLeftVector(t, nil, noAccum, op.Times[float64](), 1-a, t); err != nil {
		return err
	}
	return sparse.EWiseAddVector(t, nil, noAccum, op.Plus[float64](), t, ap)
}

// Compute runs EigenTrust power iteration and returns the global trust
// vector.  c is the local trust matrix and p the pre-trust vector,
// both canonicalized; a is the weight of pre-trust in each step
// and e the convergence threshold on the delta norm between checks.
//
// Iteration starts from p (or WithInitialTrust) and stops once both
// exit criteria hold: convergence within e, and a ranking that stayed the
// same for WithFlatTail checks.  WithMinIterations, WithCheckFreq and
// WithMaxIterations control when the criteria are checked.
func Compute(
	ctx context.Context, c *sparse.Matrix[float64], p *sparse.Vector[float64],
	a float64, e float64,
	opts ...ComputeOpt,
) (*sparse.Vector[float64], error) {
	logger := zerolog.Ctx(ctx)
	tl := util.NewWallTimeLogger(*logger)
	n, err := squareDim(c)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, errors.New("local trust has no peers")
	}
	if a < 0 || a > 1 {
		return nil, errors.Errorf("alpha %v is not within [0, 1]", a)
	}
	if !(e > 0) {
		return nil, errors.Errorf("epsilon %v is not positive", e)
	}
	s, err := newSettings(n, p, opts)
	if err != nil {
		return nil, err
	}

	t, err := s.t0.Clone()
	if err != nil {
		return nil, err
	}
	keep := false
	defer func() {
		if !keep {
			t.Free()
		}
	}()
	ap, err := sparse.NewVector[float64](c.Context(), n)
	if err != nil {
		return nil, err
	}
	defer ap.Free()
	if err := sparse.ApplyBinaryLeftVector(ap, nil, noAccum, op.Times[float64](), a, p); err != nil {
		return nil, err
	}
	exit, err := newExitTest(&s, e, logger)
	if err != nil {
		return nil, err
	}
	defer exit.Free()
	tl.Log("prepare")

	iter := 0
	for ; iter < s.maxIters; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.due(iter) {
			done, err := exit.done(t)
			if err != nil {
				return nil, err
			}
			if done {
				break
			}
		}
		if err := step(c, t, ap, a); err != nil {
			return nil, err
		}
	}
	tl.Log("iterate")
	logger.Debug().
		Uint64("peers", uint64(n)).
		Int("nnz", c.NNZ()).
		Float64("alpha", a).
		Float64("epsilon", e).
		Int("iterations", iter).
		Int("checks", exit.checks).
		Float64("delta", exit.delta).
		Int("flatTailLength", s.stats.Length).
		Int("flatTailThreshold", s.stats.Threshold).
		Msg("computed global trust")
	if s.out == nil {
		keep = true
		return t, nil
	}
	if err := sparse.AssignVector(s.out, nil, noAccum, t, index.All()); err != nil {
		return nil, err
	}
	return s.out, nil
}

// DiscountTrustVector adjusts the global trust vector t
// by the negative trust given in the discounts matrix:
// it subtracts every distruster's discount row,
// scaled by the distruster's own trust score.
//
// The caller shall ensure that the discounts matrix is canonicalized.
func DiscountTrustVector(t *sparse.Vector[float64], discounts *sparse.Matrix[float64]) error {
	r, err := sparse.NewVector[float64](t.Context(), t.Len())
	if err != nil {
		return err
	}
	defer r.Free()
	if err := sparse.VxM(r, nil, noAccum, op.PlusTimes[float64](), t, discounts); err != nil {
		return err
	}
	if err := sparse.ApplyVector(r, nil, noAccum, op.AdditiveInverse[float64](), r); err != nil {
		return err
	}
	return sparse.EWiseAddVector(t, nil, noAccum, op.Plus[float64](), t, r)
}
