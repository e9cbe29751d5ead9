package valueobject

// FeatureVector is an ordered, immutable sequence of numeric model inputs.
type FeatureVector struct {
	values []float64
}

// NewFeatureVector copies values into a FeatureVector.
func NewFeatureVector(values []float64) FeatureVector {
	v := make([]float64, len(values))
	copy(v, values)
	return FeatureVector{values: v}
}

// Len returns the number of features.
func (f FeatureVector) Len() int {
	return len(f.values)
}

// At returns the feature at position i.
func (f FeatureVector) At(i int) float64 {
	return f.values[i]
}

// Values returns a copy of the underlying values.
func (f FeatureVector) Values() []float64 {
	v := make([]float64, len(f.values))
	copy(v, f.values)
	return v
}

// Equal reports whether both vectors hold the same values in the same order.
func (f FeatureVector) Equal(other FeatureVector) bool {
	if len(f.values) != len(other.values) {
		return false
	}
	for i := range f.values {
		if f.values[i] != other.values[i] {
			return false
		}
	}
	return true
}
