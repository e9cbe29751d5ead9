package valueobject

import (
	"fmt"
	"math"
)

// ProbabilityTolerance is the allowed drift of a probability distribution's
// sum from 1.
const ProbabilityTolerance = 1e-6

// ClassProbabilities is an ordered probability distribution over model classes.
type ClassProbabilities struct {
	values []float64
}

// NewClassProbabilities validates and copies a class probability distribution.
func NewClassProbabilities(values []float64) (ClassProbabilities, error) {
	if len(values) < 2 {
		return ClassProbabilities{}, fmt.Errorf("at least two class probabilities are required, got %d", len(values))
	}

	sum := 0.0
	for i, p := range values {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return ClassProbabilities{}, fmt.Errorf("probability %d out of range: %v", i, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > ProbabilityTolerance {
		return ClassProbabilities{}, fmt.Errorf("probabilities must sum to 1, got %v", sum)
	}

	v := make([]float64, len(values))
	copy(v, values)
	return ClassProbabilities{values: v}, nil
}

// Values returns a copy of the probabilities in class order.
func (c ClassProbabilities) Values() []float64 {
	v := make([]float64, len(c.values))
	copy(v, c.values)
	return v
}

// Len returns the number of classes.
func (c ClassProbabilities) Len() int {
	return len(c.values)
}

// Sum returns the total probability mass.
func (c ClassProbabilities) Sum() float64 {
	sum := 0.0
	for _, p := range c.values {
		sum += p
	}
	return sum
}

// ArgMax returns the index of the most probable class. Ties resolve to the
// lowest index.
func (c ClassProbabilities) ArgMax() int {
	best := 0
	for i := 1; i < len(c.values); i++ {
		if c.values[i] > c.values[best] {
			best = i
		}
	}
	return best
}

// IsZero returns true if the distribution has not been set.
func (c ClassProbabilities) IsZero() bool {
	return len(c.values) == 0
}
