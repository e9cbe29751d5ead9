package rest_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/bib/services/propensity-service/internal/application/usecase"
	"github.com/bibbank/bib/services/propensity-service/internal/domain/model"
	"github.com/bibbank/bib/services/propensity-service/internal/domain/service"
	"github.com/bibbank/bib/services/propensity-service/internal/infrastructure/messaging"
	"github.com/bibbank/bib/services/propensity-service/internal/presentation/rest"
)

// memoryAudit keeps saved predictions in a map.
type memoryAudit struct {
	err         error
	predictions map[uuid.UUID]*model.Prediction
	mu          sync.Mutex
}

func (m *memoryAudit) Save(_ context.Context, p *model.Prediction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictions[p.ID()] = p
	return nil
}

func (m *memoryAudit) FindByID(_ context.Context, id uuid.UUID) (*model.Prediction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.predictions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrPredictionNotFound, id)
	}
	return p, nil
}

func (m *memoryAudit) only(t *testing.T) uuid.UUID {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.Len(t, m.predictions, 1)
	for id := range m.predictions {
		return id
	}
	return uuid.Nil
}

func newAuditRouter(t *testing.T, audit *memoryAudit) (http.Handler, *usecase.Predict) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	predictor, err := service.NewPredictor(&stubClassifier{label: 1, proba: []float64{0.4, 0.6}})
	require.NoError(t, err)

	predict := usecase.NewPredict(service.NewEncoder(), predictor, audit,
		messaging.NewLogPublisher(logger), noopMetrics{}, logger, time.Second)

	return rest.NewRouter(rest.RouterConfig{
		Health:      rest.NewHealthHandler(logger, nil),
		Predictions: rest.NewPredictionHandler(predict, usecase.NewListFeatures(predictor), logger),
		Audit:       rest.NewAuditHandler(usecase.NewGetPrediction(audit), logger),
		Logger:      logger,
	}), predict
}

func TestAudit_PredictThenLookup(t *testing.T) {
	audit := &memoryAudit{predictions: map[uuid.UUID]*model.Prediction{}}
	h, predict := newAuditRouter(t, audit)

	rec := do(h, http.MethodPost, "/predict", validBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	predict.Wait()

	id := audit.only(t)
	rec = do(h, http.MethodGet, "/predictions/"+id.String(), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, id.String(), body["id"])
	assert.Equal(t, 1.0, body["prediction"])
	assert.Equal(t, []any{0.4, 0.6}, body["probability"])
	assert.Equal(t, "stub", body["model_version"])
	input, ok := body["input"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "management", input["job"])
	assert.Equal(t, 40.0, input["age"])
}

func TestAudit_LookupErrors(t *testing.T) {
	tests := []struct {
		name       string
		storeErr   error
		path       string
		wantStatus int
	}{
		{name: "bad id", path: "/predictions/not-a-uuid", wantStatus: http.StatusBadRequest},
		{name: "unknown id", path: "/predictions/" + uuid.NewString(), wantStatus: http.StatusNotFound},
		{
			name:       "store failure",
			storeErr:   errors.New("connection refused"),
			path:       "/predictions/" + uuid.NewString(),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newAuditRouter(t, &memoryAudit{err: tt.storeErr, predictions: map[uuid.UUID]*model.Prediction{}})

			rec := do(h, http.MethodGet, tt.path, "")
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode(t, rec)["error"])
		})
	}
}

func TestAudit_NotMountedWithoutStore(t *testing.T) {
	h := newRouter(t, &stubClassifier{label: 1, proba: []float64{0.4, 0.6}}, nil, nil)

	rec := do(h, http.MethodGet, "/predictions/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
