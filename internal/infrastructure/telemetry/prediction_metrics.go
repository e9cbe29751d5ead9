package telemetry

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PredictionMetrics records scoring outcomes as OpenTelemetry instruments.
type PredictionMetrics struct {
	predictions  metric.Int64Counter
	failures     metric.Int64Counter
	unrecognized metric.Int64Counter
	sinkFailures metric.Int64Counter
	latency      metric.Float64Histogram
}

// NewPredictionMetrics creates the instruments on meter.
func NewPredictionMetrics(meter metric.Meter) (*PredictionMetrics, error) {
	predictions, err := meter.Int64Counter("propensity_predictions_total",
		metric.WithDescription("Successful predictions by predicted label."))
	if err != nil {
		return nil, fmt.Errorf("predictions counter: %w", err)
	}

	failures, err := meter.Int64Counter("propensity_prediction_failures_total",
		metric.WithDescription("Predictions that failed during scoring."))
	if err != nil {
		return nil, fmt.Errorf("failures counter: %w", err)
	}

	unrecognized, err := meter.Int64Counter("propensity_unrecognized_categories_total",
		metric.WithDescription("Categorical values with no model column, by field."))
	if err != nil {
		return nil, fmt.Errorf("unrecognized counter: %w", err)
	}

	sinkFailures, err := meter.Int64Counter("propensity_sink_failures_total",
		metric.WithDescription("Audit or event delivery failures, by sink."))
	if err != nil {
		return nil, fmt.Errorf("sink failures counter: %w", err)
	}

	latency, err := meter.Float64Histogram("propensity_scoring_duration_seconds",
		metric.WithDescription("Time spent encoding and scoring one record."),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("latency histogram: %w", err)
	}

	return &PredictionMetrics{
		predictions:  predictions,
		failures:     failures,
		unrecognized: unrecognized,
		sinkFailures: sinkFailures,
		latency:      latency,
	}, nil
}

func (m *PredictionMetrics) RecordPrediction(ctx context.Context, label int, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("label", strconv.Itoa(label)))
	m.predictions.Add(ctx, 1, attrs)
	m.latency.Record(ctx, duration.Seconds(), attrs)
}

func (m *PredictionMetrics) RecordFailure(ctx context.Context, reason string) {
	m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (m *PredictionMetrics) RecordUnrecognized(ctx context.Context, field string) {
	m.unrecognized.Add(ctx, 1, metric.WithAttributes(attribute.String("field", field)))
}

func (m *PredictionMetrics) RecordSinkFailure(ctx context.Context, sink string) {
	m.sinkFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("sink", sink)))
}
