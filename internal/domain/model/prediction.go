package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/bib/services/propensity-service/internal/domain/event"
	"github.com/bibbank/bib/services/propensity-service/internal/domain/valueobject"
	"github.com/bibbank/bib/services/propensity-service/pkg/events"
)

// ErrPredictionNotFound is returned when no stored prediction has the
// requested id.
var ErrPredictionNotFound = errors.New("prediction not found")

// Prediction is the aggregate root for one scored customer profile.
type Prediction struct {
	createdAt     time.Time
	modelVersion  string
	profile       CustomerProfile
	probabilities valueobject.ClassProbabilities
	events.EventCollector
	label int
	id    uuid.UUID
}

// NewPrediction records the classifier outcome for profile and emits a
// PredictionCompleted event. The label must index into probabilities.
func NewPrediction(
	profile CustomerProfile,
	label int,
	probabilities valueobject.ClassProbabilities,
	modelVersion string,
) (*Prediction, error) {
	if probabilities.IsZero() {
		return nil, fmt.Errorf("probabilities are required")
	}
	if label < 0 || label >= probabilities.Len() {
		return nil, fmt.Errorf("label %d out of range for %d classes", label, probabilities.Len())
	}

	p := &Prediction{
		id:            uuid.New(),
		profile:       profile,
		label:         label,
		probabilities: probabilities,
		modelVersion:  modelVersion,
		createdAt:     time.Now().UTC(),
	}

	p.Record(event.NewPredictionCompleted(
		p.id, p.label, p.probabilities.Values(), p.modelVersion, p.createdAt,
	))

	return p, nil
}

// Reconstruct rebuilds a Prediction from persisted data (no validation, no events).
func Reconstruct(
	id uuid.UUID,
	profile CustomerProfile,
	label int,
	probabilities valueobject.ClassProbabilities,
	modelVersion string,
	createdAt time.Time,
) *Prediction {
	return &Prediction{
		id:            id,
		profile:       profile,
		label:         label,
		probabilities: probabilities,
		modelVersion:  modelVersion,
		createdAt:     createdAt,
	}
}

func (p *Prediction) ID() uuid.UUID                                 { return p.id }
func (p *Prediction) Profile() CustomerProfile                      { return p.profile }
func (p *Prediction) Label() int                                    { return p.label }
func (p *Prediction) Probabilities() valueobject.ClassProbabilities { return p.probabilities }
func (p *Prediction) ModelVersion() string                          { return p.modelVersion }
func (p *Prediction) CreatedAt() time.Time                          { return p.createdAt }
