package port

import (
	"context"
	"time"
)

// PredictionMetrics records scoring outcomes.
type PredictionMetrics interface {
	RecordPrediction(ctx context.Context, label int, duration time.Duration)
	RecordFailure(ctx context.Context, reason string)
	RecordUnrecognized(ctx context.Context, field string)
	RecordSinkFailure(ctx context.Context, sink string)
}
