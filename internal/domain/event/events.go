package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/bib/services/propensity-service/pkg/events"
)

const (
	// EventTypePredictionCompleted is emitted when a customer profile has been scored.
	EventTypePredictionCompleted = "propensity.prediction.completed"

	// AggregateTypePrediction names the aggregate that emits prediction events.
	AggregateTypePrediction = "prediction"
)

// PredictionCompleted is published after a successful prediction.
type PredictionCompleted struct {
	events.Envelope
	PredictionID  uuid.UUID `json:"prediction_id"`
	ModelVersion  string    `json:"model_version"`
	Probabilities []float64 `json:"probabilities"`
	Label         int       `json:"label"`
	PredictedAt   time.Time `json:"predicted_at"`
}

// NewPredictionCompleted builds the event for prediction id.
func NewPredictionCompleted(
	predictionID uuid.UUID,
	label int,
	probabilities []float64,
	modelVersion string,
	predictedAt time.Time,
) PredictionCompleted {
	probs := make([]float64, len(probabilities))
	copy(probs, probabilities)
	return PredictionCompleted{
		Envelope:      events.NewEnvelope(EventTypePredictionCompleted, predictionID, AggregateTypePrediction),
		PredictionID:  predictionID,
		Label:         label,
		Probabilities: probs,
		ModelVersion:  modelVersion,
		PredictedAt:   predictedAt,
	}
}
