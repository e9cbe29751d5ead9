package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/bib/services/propensity-service/internal/application/dto"
	"github.com/bibbank/bib/services/propensity-service/internal/application/usecase"
)

// Compile-time assertion that PropensityServiceHandler implements PropensityServiceServer.
var _ PropensityServiceServer = (*PropensityServiceHandler)(nil)

// PropensityServiceHandler implements the gRPC PropensityServiceServer interface.
type PropensityServiceHandler struct {
	UnimplementedPropensityServiceServer
	predict      *usecase.Predict
	listFeatures *usecase.ListFeatures
	logger       *slog.Logger
}

// NewPropensityServiceHandler creates a new gRPC handler.
func NewPropensityServiceHandler(
	predict *usecase.Predict,
	listFeatures *usecase.ListFeatures,
	logger *slog.Logger,
) *PropensityServiceHandler {
	return &PropensityServiceHandler{
		predict:      predict,
		listFeatures: listFeatures,
		logger:       logger,
	}
}

// Predict scores one customer record.
func (h *PropensityServiceHandler) Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	resp, err := h.predict.Execute(ctx, toDTO(req))
	if err != nil {
		var verr *dto.ValidationError
		if errors.As(err, &verr) {
			return nil, status.Errorf(codes.InvalidArgument, "%s: %s", verr.Reason, strings.Join(verr.Fields, ", "))
		}
		h.logger.ErrorContext(ctx, "prediction failed", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &PredictResponse{
		Prediction:  int32(resp.Prediction),
		Probability: resp.Probability,
	}, nil
}

// ListFeatures returns the model's input columns in order.
func (h *PropensityServiceHandler) ListFeatures(ctx context.Context, _ *ListFeaturesRequest) (*ListFeaturesResponse, error) {
	resp := h.listFeatures.Execute(ctx)
	return &ListFeaturesResponse{ModelFeatures: resp.ModelFeatures}, nil
}

func toDTO(req *PredictRequest) dto.PredictRequest {
	return dto.PredictRequest{
		Age:       intPtr(req.Age),
		Job:       req.Job,
		Marital:   req.Marital,
		Education: req.Education,
		Default:   req.Default,
		Balance:   req.Balance,
		Housing:   req.Housing,
		Loan:      req.Loan,
		Contact:   req.Contact,
		Day:       intPtr(req.Day),
		Month:     req.Month,
		Campaign:  intPtr(req.Campaign),
		Pdays:     intPtr(req.Pdays),
		Previous:  intPtr(req.Previous),
		Poutcome:  req.Poutcome,
	}
}

func intPtr(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}
