package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/bibbank/bib/services/propensity-service/internal/application/dto"
	"github.com/bibbank/bib/services/propensity-service/internal/domain/model"
	"github.com/bibbank/bib/services/propensity-service/internal/domain/port"
	"github.com/bibbank/bib/services/propensity-service/internal/domain/service"
)

const tracerName = "github.com/bibbank/bib/services/propensity-service/internal/application/usecase"

// DefaultSinkTimeout bounds audit and event delivery after a prediction.
const DefaultSinkTimeout = 2 * time.Second

// Predict is the use case for scoring one customer profile.
type Predict struct {
	repo        port.PredictionRepository
	publisher   port.EventPublisher
	metrics     port.PredictionMetrics
	encoder     *service.Encoder
	predictor   *service.Predictor
	logger      *slog.Logger
	deliveries  sync.WaitGroup
	sinkTimeout time.Duration
}

// NewPredict creates a new Predict use case. repo may be nil, in which case
// predictions are not audited.
func NewPredict(
	encoder *service.Encoder,
	predictor *service.Predictor,
	repo port.PredictionRepository,
	publisher port.EventPublisher,
	metrics port.PredictionMetrics,
	logger *slog.Logger,
	sinkTimeout time.Duration,
) *Predict {
	if sinkTimeout <= 0 {
		sinkTimeout = DefaultSinkTimeout
	}
	return &Predict{
		encoder:     encoder,
		predictor:   predictor,
		repo:        repo,
		publisher:   publisher,
		metrics:     metrics,
		logger:      logger,
		sinkTimeout: sinkTimeout,
	}
}

// Execute validates the request, encodes and scores it, then hands the
// prediction to the audit and event sinks in the background. Sink latency and
// failures never reach the caller.
func (uc *Predict) Execute(ctx context.Context, req dto.PredictRequest) (dto.PredictResponse, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "Predict.Execute")
	defer span.End()

	if err := req.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return dto.PredictResponse{}, err
	}

	profile := req.Profile()
	start := time.Now()

	vec, report := uc.encoder.EncodeWithReport(profile)
	for _, field := range report.Unrecognized {
		uc.metrics.RecordUnrecognized(ctx, field)
	}
	if report.HasUnrecognized() {
		uc.logger.WarnContext(ctx, "unrecognized categories encoded as reference",
			slog.Any("fields", report.Unrecognized),
		)
	}

	outcome, err := uc.predictor.Predict(ctx, vec)
	if err != nil {
		uc.metrics.RecordFailure(ctx, "scoring")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return dto.PredictResponse{}, fmt.Errorf("prediction failed: %w", err)
	}

	prediction, err := model.NewPrediction(profile, outcome.Label, outcome.Probabilities, uc.predictor.ModelVersion())
	if err != nil {
		uc.metrics.RecordFailure(ctx, "result")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return dto.PredictResponse{}, fmt.Errorf("prediction failed: %w", err)
	}

	uc.metrics.RecordPrediction(ctx, prediction.Label(), time.Since(start))
	span.SetAttributes(
		attribute.String("prediction.id", prediction.ID().String()),
		attribute.Int("prediction.label", prediction.Label()),
		attribute.String("model.version", prediction.ModelVersion()),
	)

	resp := dto.FromModel(prediction)

	uc.deliveries.Add(1)
	go func() {
		defer uc.deliveries.Done()
		uc.deliver(context.WithoutCancel(ctx), prediction)
	}()

	return resp, nil
}

// Wait blocks until every in-flight sink delivery has finished. Each delivery
// is bounded by the sink timeout.
func (uc *Predict) Wait() {
	uc.deliveries.Wait()
}

// deliver persists and publishes a prediction on a context detached from the
// caller's cancellation and bounded by the sink timeout.
func (uc *Predict) deliver(ctx context.Context, prediction *model.Prediction) {
	sinkCtx, cancel := context.WithTimeout(ctx, uc.sinkTimeout)
	defer cancel()

	if uc.repo != nil {
		if err := uc.repo.Save(sinkCtx, prediction); err != nil {
			uc.metrics.RecordSinkFailure(ctx, "audit")
			uc.logger.ErrorContext(ctx, "failed to save prediction audit",
				slog.String("prediction_id", prediction.ID().String()),
				slog.String("error", err.Error()),
			)
		}
	}

	events := prediction.ClearEvents()
	if len(events) == 0 || uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(sinkCtx, events...); err != nil {
		uc.metrics.RecordSinkFailure(ctx, "events")
		uc.logger.ErrorContext(ctx, "failed to publish prediction events",
			slog.String("prediction_id", prediction.ID().String()),
			slog.String("error", err.Error()),
		)
	}
}
