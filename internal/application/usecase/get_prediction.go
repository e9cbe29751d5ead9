package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bibbank/bib/services/propensity-service/internal/application/dto"
	"github.com/bibbank/bib/services/propensity-service/internal/domain/port"
)

// GetPrediction is the use case for reading back an audited prediction.
type GetPrediction struct {
	finder port.PredictionFinder
}

// NewGetPrediction creates a new GetPrediction use case.
func NewGetPrediction(finder port.PredictionFinder) *GetPrediction {
	return &GetPrediction{finder: finder}
}

// Execute retrieves a prediction by ID. An unknown id yields an error
// wrapping model.ErrPredictionNotFound.
func (uc *GetPrediction) Execute(ctx context.Context, id uuid.UUID) (dto.PredictionRecordResponse, error) {
	prediction, err := uc.finder.FindByID(ctx, id)
	if err != nil {
		return dto.PredictionRecordResponse{}, fmt.Errorf("failed to find prediction: %w", err)
	}

	return dto.RecordFromModel(prediction), nil
}
