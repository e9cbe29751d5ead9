package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/bibbank/bib/services/propensity-service/internal/domain/model"
)

// PredictionRepository persists completed predictions for audit.
type PredictionRepository interface {
	Save(ctx context.Context, prediction *model.Prediction) error
}

// PredictionFinder reads audited predictions back. FindByID wraps
// model.ErrPredictionNotFound for an unknown id.
type PredictionFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Prediction, error)
}
