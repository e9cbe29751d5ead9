package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bibbank/bib/services/propensity-service/internal/domain/port"
	"github.com/bibbank/bib/services/propensity-service/internal/domain/valueobject"
)

// ErrFeatureCountMismatch is returned when a vector's length differs from the
// classifier's input width.
var ErrFeatureCountMismatch = errors.New("feature count mismatch")

// ErrUnsupportedClasses is returned for a classifier that is not a 0/1
// binary model.
var ErrUnsupportedClasses = errors.New("classifier classes must be [0 1]")

// Outcome is the classifier's verdict for one feature vector.
type Outcome struct {
	Probabilities valueobject.ClassProbabilities
	Label         int
}

// Predictor scores feature vectors with a single classifier loaded at
// startup. It holds no mutable state.
type Predictor struct {
	classifier port.Classifier
}

// NewPredictor wraps classifier. It fails when the classifier's inputs do not
// line up with the encoder's columns.
func NewPredictor(classifier port.Classifier) (*Predictor, error) {
	if classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	if err := VerifySchema(classifier.NumFeatures(), classifier.FeatureNames()); err != nil {
		return nil, fmt.Errorf("classifier schema: %w", err)
	}
	if classes := classifier.Classes(); len(classes) != 2 || classes[0] != 0 || classes[1] != 1 {
		return nil, fmt.Errorf("%w, got %v", ErrUnsupportedClasses, classes)
	}
	return &Predictor{classifier: classifier}, nil
}

// Predict returns the classifier's label and class probabilities for vec,
// unchanged and unrounded.
func (p *Predictor) Predict(ctx context.Context, vec valueobject.FeatureVector) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	if vec.Len() != p.classifier.NumFeatures() {
		return Outcome{}, fmt.Errorf("%w: got %d, model expects %d",
			ErrFeatureCountMismatch, vec.Len(), p.classifier.NumFeatures())
	}

	label, proba, err := p.classifier.Predict(vec.Values())
	if err != nil {
		return Outcome{}, fmt.Errorf("classifier predict: %w", err)
	}

	probs, err := valueobject.NewClassProbabilities(proba)
	if err != nil {
		return Outcome{}, fmt.Errorf("classifier output: %w", err)
	}

	return Outcome{Label: label, Probabilities: probs}, nil
}

// FeatureNames returns the classifier's recorded input names, falling back to
// the encoder's columns when the model carries none.
func (p *Predictor) FeatureNames() []string {
	if names := p.classifier.FeatureNames(); len(names) > 0 {
		out := make([]string, len(names))
		copy(out, names)
		return out
	}
	return FeatureColumns()
}

// ModelVersion returns the loaded model's version string.
func (p *Predictor) ModelVersion() string {
	return p.classifier.Version()
}
