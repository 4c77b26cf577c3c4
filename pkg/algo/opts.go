package algo

import (
	"math"

	"github.com/go-faster/errors"

	"k3l.io/go-graphblas/pkg/sparse"
	"k3l.io/go-graphblas/pkg/sparse/index"
)

// ComputeOpts contains options for the Compute function.
type ComputeOpts struct {
	t0             *sparse.Vector[float64]
	t              *sparse.Vector[float64]
	flatTailLength int
	numLeaders     int
	flatTailStats  *FlatTailStats
	maxIterations  *int
	minIterations  *int
	checkFreq      *int
}

// ComputeOpt is one Compute option.
type ComputeOpt func(*ComputeOpts)

// WithInitialTrust tells Compute to start iteration at the given trust
// vector instead of the pre-trust vector.
func WithInitialTrust(t0 *sparse.Vector[float64]) ComputeOpt {
	return func(o *ComputeOpts) { o.t0 = t0 }
}

// WithResultIn tells Compute to store the result in the given vector
// instead of allocating one.
func WithResultIn(t *sparse.Vector[float64]) ComputeOpt {
	return func(o *ComputeOpts) { o.t = t }
}

// WithFlatTail enables the flat-tail ranking stability check:
// Compute iterates until the trust ranking stays the same
// for l+1 iterations, in addition to the epsilon criterion.
// Iteration terminates only when both criteria are met.
func WithFlatTail(l int) ComputeOpt {
	return func(o *ComputeOpts) { o.flatTailLength = l }
}

// WithFlatTailNumLeaders limits the ranking stability check
// to the top n peers.
func WithFlatTailNumLeaders(n int) ComputeOpt {
	return func(o *ComputeOpts) { o.numLeaders = n }
}

// WithFlatTailStats tells Compute to populate stats upon completion.
func WithFlatTailStats(stats *FlatTailStats) ComputeOpt {
	return func(o *ComputeOpts) { o.flatTailStats = stats }
}

// WithMaxIterations caps the number of iterations; 0 means unlimited.
func WithMaxIterations(n int) ComputeOpt {
	return func(o *ComputeOpts) { o.maxIterations = &n }
}

// WithMinIterations sets the iteration of the first termination check.
// Default: the check frequency.
func WithMinIterations(n int) ComputeOpt {
	return func(o *ComputeOpts) { o.minIterations = &n }
}

// WithCheckFreq sets how often (in iterations) termination is checked.
func WithCheckFreq(n int) ComputeOpt {
	return func(o *ComputeOpts) { o.checkFreq = &n }
}

// FlatTailStats describes the ranking stability seen by Compute.
type FlatTailStats struct {
	// Length is the number of iterations the ranking has stayed the same.
	Length int

	// Threshold is the minimum flat-tail length that would not have been
	// a false positive in this run.
	Threshold int

	// DeltaNorm is the delta norm at the start of the flat tail.
	DeltaNorm float64

	// Ranking is the top of the ranking (peer indices, best first).
	Ranking []index.Index
}

// settings are the options of one Compute call, defaulted and validated.
type settings struct {
	t0, out    *sparse.Vector[float64]
	flatTail   int
	numLeaders int
	stats      *FlatTailStats
	checkFreq  int
	minIters   int
	maxIters   int
}

func newSettings(n index.Index, p *sparse.Vector[float64], opts []ComputeOpt) (settings, error) {
	var o ComputeOpts
	for _, opt := range opts {
		opt(&o)
	}
	s := settings{
		t0:         o.t0,
		out:        o.t,
		flatTail:   o.flatTailLength,
		numLeaders: o.numLeaders,
		stats:      o.flatTailStats,
		checkFreq:  1,
	}
	if s.t0 == nil {
		s.t0 = p
	}
	for _, u := range []*sparse.Vector[float64]{p, s.t0, s.out} {
		if u != nil && u.Len() != n {
			return s, errors.Wrapf(sparse.ErrDimensionMismatch,
				"trust vector of length %d for %d peers", u.Len(), n)
		}
	}
	if s.numLeaders <= 0 {
		s.numLeaders = math.MaxInt
	}
	if s.stats == nil {
		s.stats = &FlatTailStats{}
	}
	if o.checkFreq != nil {
		s.checkFreq = *o.checkFreq
	}
	if s.checkFreq < 1 {
		return s, errors.Errorf("check frequency %d is not positive", s.checkFreq)
	}
	s.minIters = s.checkFreq
	if o.minIterations != nil {
		s.minIters = *o.minIterations
	}
	if s.minIters < 1 {
		return s, errors.Errorf("minimum iterations %d is not positive", s.minIters)
	}
	if o.maxIterations != nil {
		s.maxIters = *o.maxIterations
	}
	switch {
	case s.maxIters < 0:
		return s, errors.Errorf("maximum iterations %d is negative", s.maxIters)
	case s.maxIters == 0:
		s.maxIters = math.MaxInt
	}
	return s, nil
}

// due reports whether the exit criteria are checked before iteration iter:
// first at minIters, then every checkFreq iterations.
func (s *settings) due(iter int) bool {
	return iter >= s.minIters && (iter-s.minIters)%s.checkFreq == 0
}
