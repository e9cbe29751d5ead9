package ml

import (
	"fmt"
	"math"
)

// LogisticRegression is a binary linear classifier.
type LogisticRegression struct {
	version      string
	featureNames []string
	classes      []int
	coef         []float64
	intercept    float64
}

// NewLogisticRegression validates a logistic regression artifact.
func NewLogisticRegression(a *Artifact) (*LogisticRegression, error) {
	if err := a.validateCommon(); err != nil {
		return nil, err
	}
	if len(a.Coef) != a.NFeatures {
		return nil, invalid("coef has %d entries, n_features is %d", len(a.Coef), a.NFeatures)
	}
	for i, c := range a.Coef {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, invalid("coef %d is not finite", i)
		}
	}
	return &LogisticRegression{
		version:      a.Version,
		featureNames: a.FeatureNames,
		classes:      a.Classes,
		coef:         a.Coef,
		intercept:    a.Intercept,
	}, nil
}

// Predict returns [1-p, p] where p is the positive class probability.
func (lr *LogisticRegression) Predict(x []float64) (int, []float64, error) {
	if len(x) != len(lr.coef) {
		return 0, nil, fmt.Errorf("logistic regression expects %d features, got %d", len(lr.coef), len(x))
	}

	z := lr.intercept
	for i, c := range lr.coef {
		z += c * x[i]
	}
	if math.IsNaN(z) {
		return 0, nil, fmt.Errorf("decision function is NaN")
	}

	p := sigmoid(z)
	proba := []float64{1 - p, p}
	return lr.classes[argmax(proba)], proba, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func (lr *LogisticRegression) NumFeatures() int       { return len(lr.coef) }
func (lr *LogisticRegression) FeatureNames() []string { return copyStrings(lr.featureNames) }
func (lr *LogisticRegression) Classes() []int         { return append([]int(nil), lr.classes...) }
func (lr *LogisticRegression) Version() string        { return lr.version }
