package algo

import (
	"iter"
	"math"
)

// KBNSummer is the Kahan-Babushka-Neumaier compensated summation algorithm.
type KBNSummer struct {
	sum, compensation float64
}

func (s *KBNSummer) Add(value float64) {
	moreSig, lessSig := s.sum, value
	if math.Abs(moreSig) < math.Abs(lessSig) {
		moreSig, lessSig = lessSig, moreSig
	}
	s.sum += value
	// lessSig lost its low-order bits when brought up to moreSig's exponent;
	// recover the truncated part and keep it as compensation.
	truncatedLessSig := s.sum - moreSig
	s.compensation += lessSig - truncatedLessSig
}

func (s *KBNSummer) Sum() float64 {
	return s.sum + s.compensation
}

// SumValues returns the compensated sum of the given values.
func SumValues(values iter.Seq[float64]) float64 {
	var s KBNSummer
	for v := range values {
		s.Add(v)
	}
	return s.Sum()
}
