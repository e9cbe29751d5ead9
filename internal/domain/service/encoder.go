package service

import (
	"github.com/bibbank/bib/services/propensity-service/internal/domain/model"
	"github.com/bibbank/bib/services/propensity-service/internal/domain/valueobject"
)

// EncodeReport lists the categorical fields whose value had no column and was
// not the field's reference category. Such values encode exactly like the
// reference category.
type EncodeReport struct {
	Unrecognized []string
}

// HasUnrecognized reports whether any field fell through to all-zero without
// being a known reference category.
func (r EncodeReport) HasUnrecognized() bool {
	return len(r.Unrecognized) > 0
}

// Encoder turns a customer profile into the model's feature vector. It holds
// no state and is safe for concurrent use.
type Encoder struct{}

// NewEncoder creates an Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Columns returns the names of the encoded columns in order.
func (e *Encoder) Columns() []string {
	return FeatureColumns()
}

// Encode maps profile to a FeatureVector of FeatureCount values.
func (e *Encoder) Encode(profile model.CustomerProfile) valueobject.FeatureVector {
	vec, _ := e.EncodeWithReport(profile)
	return vec
}

// EncodeWithReport encodes profile and also reports the unrecognized
// categorical values. The vector is identical to the one Encode returns.
func (e *Encoder) EncodeWithReport(profile model.CustomerProfile) (valueobject.FeatureVector, EncodeReport) {
	values := make([]float64, FeatureCount)
	copy(values, numericValues(profile))

	var report EncodeReport
	for _, f := range categoricalFields {
		v := f.value(profile)
		if pos, ok := columnIndex[f.Name][v]; ok {
			values[pos] = 1
			continue
		}
		if v != f.Reference {
			report.Unrecognized = append(report.Unrecognized, f.Name)
		}
	}

	return valueobject.NewFeatureVector(values), report
}
