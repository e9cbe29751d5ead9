package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/bib/services/propensity-service/internal/application/dto"
	"github.com/bibbank/bib/services/propensity-service/internal/application/usecase"
	"github.com/bibbank/bib/services/propensity-service/internal/domain/event"
	"github.com/bibbank/bib/services/propensity-service/internal/domain/model"
	"github.com/bibbank/bib/services/propensity-service/internal/domain/port"
	"github.com/bibbank/bib/services/propensity-service/internal/domain/service"
	"github.com/bibbank/bib/services/propensity-service/pkg/events"
)

// --- Mock implementations ---

type mockClassifier struct {
	err       error
	onPredict func()
	names     []string
	proba     []float64
	lastX     []float64
	label     int
}

func (m *mockClassifier) Predict(x []float64) (int, []float64, error) {
	m.lastX = x
	if m.onPredict != nil {
		m.onPredict()
	}
	if m.err != nil {
		return 0, nil, m.err
	}
	return m.label, m.proba, nil
}

func (m *mockClassifier) NumFeatures() int       { return service.FeatureCount }
func (m *mockClassifier) FeatureNames() []string { return m.names }
func (m *mockClassifier) Classes() []int         { return []int{0, 1} }
func (m *mockClassifier) Version() string        { return "rf-test" }

type mockPredictionRepository struct {
	saveFunc func(ctx context.Context, p *model.Prediction) error
	saved    []*model.Prediction
}

func (m *mockPredictionRepository) Save(ctx context.Context, p *model.Prediction) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, p)
	}
	m.saved = append(m.saved, p)
	return nil
}

type mockEventPublisher struct {
	publishFunc func(ctx context.Context, evts ...events.DomainEvent) error
	published   []events.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.published = append(m.published, evts...)
	return nil
}

type mockMetrics struct {
	mu           sync.Mutex
	labels       []int
	failures     []string
	unrecognized []string
	sinks        []string
}

func (m *mockMetrics) RecordPrediction(_ context.Context, label int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.labels = append(m.labels, label)
}

func (m *mockMetrics) RecordFailure(_ context.Context, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, reason)
}

func (m *mockMetrics) RecordUnrecognized(_ context.Context, field string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unrecognized = append(m.unrecognized, field)
}

func (m *mockMetrics) RecordSinkFailure(_ context.Context, sink string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sinks = append(m.sinks, sink)
}

// --- Helpers ---

func ptr[T any](v T) *T { return &v }

func validRequest() dto.PredictRequest {
	return dto.PredictRequest{
		Age:       ptr(40),
		Job:       ptr("management"),
		Marital:   ptr("married"),
		Education: ptr("tertiary"),
		Default:   ptr("no"),
		Balance:   ptr(1500.0),
		Housing:   ptr("yes"),
		Loan:      ptr("no"),
		Contact:   ptr("cellular"),
		Day:       ptr(15),
		Month:     ptr("may"),
		Campaign:  ptr(2),
		Pdays:     ptr(-1),
		Previous:  ptr(0),
		Poutcome:  ptr("unknown"),
	}
}

type fixture struct {
	classifier *mockClassifier
	repo       *mockPredictionRepository
	publisher  *mockEventPublisher
	metrics    *mockMetrics
	uc         *usecase.Predict
}

func newFixture(t *testing.T, withRepo bool) *fixture {
	t.Helper()
	f := &fixture{
		classifier: &mockClassifier{label: 1, proba: []float64{0.35, 0.65}},
		repo:       &mockPredictionRepository{},
		publisher:  &mockEventPublisher{},
		metrics:    &mockMetrics{},
	}
	predictor, err := service.NewPredictor(f.classifier)
	require.NoError(t, err)

	var repo port.PredictionRepository
	if withRepo {
		repo = f.repo
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	f.uc = usecase.NewPredict(service.NewEncoder(), predictor, repo, f.publisher, f.metrics, logger, time.Second)
	return f
}

// --- Tests ---

func TestPredict_Execute(t *testing.T) {
	t.Run("returns classifier output unchanged", func(t *testing.T) {
		f := newFixture(t, true)

		resp, err := f.uc.Execute(context.Background(), validRequest())
		require.NoError(t, err)

		assert.Equal(t, 1, resp.Prediction)
		assert.Equal(t, []float64{0.35, 0.65}, resp.Probability)
		assert.Len(t, f.classifier.lastX, service.FeatureCount)
		assert.Equal(t, 40.0, f.classifier.lastX[0])
		assert.Equal(t, []int{1}, f.metrics.labels)
	})

	t.Run("audits and publishes the prediction", func(t *testing.T) {
		f := newFixture(t, true)

		_, err := f.uc.Execute(context.Background(), validRequest())
		require.NoError(t, err)
		f.uc.Wait()

		require.Len(t, f.repo.saved, 1)
		saved := f.repo.saved[0]
		assert.Equal(t, "rf-test", saved.ModelVersion())
		assert.Equal(t, "management", saved.Profile().Job)

		require.Len(t, f.publisher.published, 1)
		completed, ok := f.publisher.published[0].(event.PredictionCompleted)
		require.True(t, ok)
		assert.Equal(t, saved.ID(), completed.PredictionID)
	})

	t.Run("works without an audit repository", func(t *testing.T) {
		f := newFixture(t, false)

		resp, err := f.uc.Execute(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Prediction)
		f.uc.Wait()
		assert.Len(t, f.publisher.published, 1)
	})

	t.Run("missing fields never reach the classifier", func(t *testing.T) {
		f := newFixture(t, true)
		req := validRequest()
		req.Month = nil
		req.Age = nil

		_, err := f.uc.Execute(context.Background(), req)

		var verr *dto.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"age", "month"}, verr.Fields)
		assert.Nil(t, f.classifier.lastX)
		assert.Empty(t, f.repo.saved)
	})

	t.Run("scoring failure carries the underlying message", func(t *testing.T) {
		f := newFixture(t, true)
		f.classifier.err = errors.New("model exploded")

		_, err := f.uc.Execute(context.Background(), validRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model exploded")
		assert.Equal(t, []string{"scoring"}, f.metrics.failures)
		assert.Empty(t, f.repo.saved)
		assert.Empty(t, f.publisher.published)
	})

	t.Run("unrecognized categories are counted", func(t *testing.T) {
		f := newFixture(t, true)
		req := validRequest()
		req.Job = ptr("astronaut")

		_, err := f.uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, []string{"job"}, f.metrics.unrecognized)
		for i := 6; i <= 16; i++ {
			assert.Equal(t, 0.0, f.classifier.lastX[i])
		}
	})
}

func TestPredict_SinkFailuresDoNotChangeResult(t *testing.T) {
	f := newFixture(t, true)
	f.repo.saveFunc = func(context.Context, *model.Prediction) error {
		return errors.New("database unavailable")
	}
	f.publisher.publishFunc = func(context.Context, ...events.DomainEvent) error {
		return errors.New("broker unavailable")
	}

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Prediction)

	f.uc.Wait()
	assert.Equal(t, []string{"audit", "events"}, f.metrics.sinks)
}

func TestPredict_SlowSinksDoNotDelayResponse(t *testing.T) {
	f := newFixture(t, true)

	release := make(chan struct{})
	f.repo.saveFunc = func(ctx context.Context, _ *model.Prediction) error {
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.publisher.publishFunc = func(ctx context.Context, _ ...events.DomainEvent) error {
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	start := time.Now()
	resp, err := f.uc.Execute(context.Background(), validRequest())
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Prediction)
	assert.Less(t, elapsed, 500*time.Millisecond, "Execute waited on the sinks")

	close(release)
	f.uc.Wait()
	assert.Empty(t, f.metrics.sinks)
}

func TestPredict_SinksOutliveCancelledRequest(t *testing.T) {
	f := newFixture(t, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.classifier.onPredict = cancel

	var sinkErr error
	hasDeadline := false
	f.repo.saveFunc = func(ctx context.Context, _ *model.Prediction) error {
		sinkErr = ctx.Err()
		_, hasDeadline = ctx.Deadline()
		return nil
	}

	_, err := f.uc.Execute(ctx, validRequest())
	require.NoError(t, err)
	f.uc.Wait()

	assert.NoError(t, sinkErr)
	assert.True(t, hasDeadline)
}

func TestListFeatures_Execute(t *testing.T) {
	t.Run("encoder columns when model has no names", func(t *testing.T) {
		predictor, err := service.NewPredictor(&mockClassifier{proba: []float64{1, 0}})
		require.NoError(t, err)

		resp := usecase.NewListFeatures(predictor).Execute(context.Background())
		assert.Equal(t, service.FeatureColumns(), resp.ModelFeatures)
	})

	t.Run("model names when present", func(t *testing.T) {
		predictor, err := service.NewPredictor(&mockClassifier{names: service.FeatureColumns()})
		require.NoError(t, err)

		resp := usecase.NewListFeatures(predictor).Execute(context.Background())
		assert.Len(t, resp.ModelFeatures, service.FeatureCount)
		assert.Equal(t, "poutcome_unknown", resp.ModelFeatures[40])
	})
}
