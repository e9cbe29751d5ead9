package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/bib/services/propensity-service/internal/domain/service"
	"github.com/bibbank/bib/services/propensity-service/internal/domain/valueobject"
)

type mockClassifier struct {
	err      error
	names    []string
	proba    []float64
	label    int
	classes  []int
	features int
	calls    int
}

func (m *mockClassifier) Predict(x []float64) (int, []float64, error) {
	m.calls++
	if m.err != nil {
		return 0, nil, m.err
	}
	return m.label, m.proba, nil
}

func (m *mockClassifier) NumFeatures() int       { return m.features }
func (m *mockClassifier) FeatureNames() []string { return m.names }
func (m *mockClassifier) Classes() []int         { return m.classes }
func (m *mockClassifier) Version() string        { return "test-v1" }

func newMockClassifier() *mockClassifier {
	return &mockClassifier{features: service.FeatureCount, classes: []int{0, 1}, label: 1, proba: []float64{0.3, 0.7}}
}

func TestNewPredictor(t *testing.T) {
	t.Run("nil classifier", func(t *testing.T) {
		_, err := service.NewPredictor(nil)
		assert.Error(t, err)
	})

	t.Run("wrong width", func(t *testing.T) {
		m := newMockClassifier()
		m.features = 12
		_, err := service.NewPredictor(m)
		var mismatch *service.SchemaMismatchError
		assert.ErrorAs(t, err, &mismatch)
	})

	t.Run("valid", func(t *testing.T) {
		p, err := service.NewPredictor(newMockClassifier())
		require.NoError(t, err)
		assert.Equal(t, "test-v1", p.ModelVersion())
	})
}

func TestNewPredictor_RejectsNonBinaryClasses(t *testing.T) {
	for _, classes := range [][]int{nil, {1, 2}, {1, 0}, {0, 1, 2}} {
		c := newMockClassifier()
		c.classes = classes

		_, err := service.NewPredictor(c)
		assert.ErrorIs(t, err, service.ErrUnsupportedClasses, "classes %v", classes)
	}
}

func TestPredictor_Predict(t *testing.T) {
	m := newMockClassifier()
	p, err := service.NewPredictor(m)
	require.NoError(t, err)

	vec := service.NewEncoder().Encode(sampleProfile())
	out, err := p.Predict(context.Background(), vec)
	require.NoError(t, err)

	assert.Equal(t, 1, out.Label)
	assert.Equal(t, []float64{0.3, 0.7}, out.Probabilities.Values())
	assert.Equal(t, out.Probabilities.ArgMax(), out.Label)
	assert.InDelta(t, 1.0, out.Probabilities.Sum(), valueobject.ProbabilityTolerance)
	assert.Equal(t, 1, m.calls)
}

func TestPredictor_FeatureCountMismatch(t *testing.T) {
	m := newMockClassifier()
	p, err := service.NewPredictor(m)
	require.NoError(t, err)

	_, err = p.Predict(context.Background(), valueobject.NewFeatureVector(make([]float64, 40)))
	assert.ErrorIs(t, err, service.ErrFeatureCountMismatch)
	assert.Zero(t, m.calls)
}

func TestPredictor_ClassifierError(t *testing.T) {
	m := newMockClassifier()
	m.err = errors.New("tree 3 is corrupt")
	p, err := service.NewPredictor(m)
	require.NoError(t, err)

	_, err = p.Predict(context.Background(), service.NewEncoder().Encode(sampleProfile()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tree 3 is corrupt")
}

func TestPredictor_InvalidDistribution(t *testing.T) {
	m := newMockClassifier()
	m.proba = []float64{0.5, 0.7}
	p, err := service.NewPredictor(m)
	require.NoError(t, err)

	_, err = p.Predict(context.Background(), service.NewEncoder().Encode(sampleProfile()))
	assert.Error(t, err)
}

func TestPredictor_CancelledContext(t *testing.T) {
	p, err := service.NewPredictor(newMockClassifier())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Predict(ctx, service.NewEncoder().Encode(sampleProfile()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPredictor_FeatureNames(t *testing.T) {
	t.Run("falls back to encoder columns", func(t *testing.T) {
		p, err := service.NewPredictor(newMockClassifier())
		require.NoError(t, err)
		assert.Equal(t, service.FeatureColumns(), p.FeatureNames())
	})

	t.Run("prefers model names", func(t *testing.T) {
		m := newMockClassifier()
		m.names = service.FeatureColumns()
		p, err := service.NewPredictor(m)
		require.NoError(t, err)
		assert.Equal(t, m.names, p.FeatureNames())
	})
}
