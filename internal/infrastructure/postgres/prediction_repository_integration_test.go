//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/bib/services/propensity-service/internal/domain/model"
	"github.com/bibbank/bib/services/propensity-service/internal/domain/valueobject"
	"github.com/bibbank/bib/services/propensity-service/pkg/testutil"
)

func TestPredictionRepository_Integration(t *testing.T) {
	ctx := context.Background()

	pg := testutil.NewPostgresContainer(ctx, t)
	defer pg.Cleanup(t)
	pg.RunMigrations(t, "migrations")

	repo := NewPredictionRepository(pg.Pool)
	p := newPrediction(t)

	require.NoError(t, repo.Save(ctx, p))
	require.NoError(t, repo.Save(ctx, p), "saving twice is a no-op")

	got, err := repo.FindByID(ctx, p.ID())
	require.NoError(t, err)

	assert.Equal(t, p.ID(), got.ID())
	assert.Equal(t, "management", got.Profile().Job)
	assert.Equal(t, -1, got.Profile().Pdays)
	assert.Equal(t, 1500.257, got.Profile().Balance)
	assert.Equal(t, 0, got.Label())
	assert.Equal(t, []float64{0.8, 0.2}, got.Probabilities().Values())
	assert.Equal(t, "rf-v3", got.ModelVersion())
	assert.WithinDuration(t, p.CreatedAt(), got.CreatedAt(), time.Millisecond)
	assert.Empty(t, got.Events())

	var count int
	require.NoError(t, pg.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM prediction_audit`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestPredictionRepository_IntegrationLargeValues(t *testing.T) {
	ctx := context.Background()

	pg := testutil.NewPostgresContainer(ctx, t)
	defer pg.Cleanup(t)
	pg.RunMigrations(t, "migrations")

	probs, err := valueobject.NewClassProbabilities([]float64{0.5, 0.5})
	require.NoError(t, err)
	p, err := model.NewPrediction(model.CustomerProfile{
		Age: 1 << 40, Job: "retired", Balance: 1.25e17, Pdays: 3_000_000_000,
	}, 1, probs, "rf-v3")
	require.NoError(t, err)

	repo := NewPredictionRepository(pg.Pool)
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.FindByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, 1<<40, got.Profile().Age)
	assert.Equal(t, 3_000_000_000, got.Profile().Pdays)
	assert.Equal(t, 1.25e17, got.Profile().Balance)
}
