package usecase

import (
	"context"

	"github.com/bibbank/bib/services/propensity-service/internal/application/dto"
	"github.com/bibbank/bib/services/propensity-service/internal/domain/service"
)

// ListFeatures returns the model's input columns in order.
type ListFeatures struct {
	predictor *service.Predictor
}

// NewListFeatures creates a new ListFeatures use case.
func NewListFeatures(predictor *service.Predictor) *ListFeatures {
	return &ListFeatures{predictor: predictor}
}

// Execute returns the feature names reported by the loaded model, or the
// encoder's columns when the model does not carry names.
func (uc *ListFeatures) Execute(_ context.Context) dto.FeaturesResponse {
	return dto.FeaturesResponse{ModelFeatures: uc.predictor.FeatureNames()}
}
