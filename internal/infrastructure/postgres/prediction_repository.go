package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/bibbank/bib/services/propensity-service/internal/domain/model"
	"github.com/bibbank/bib/services/propensity-service/internal/domain/valueobject"
	pgpkg "github.com/bibbank/bib/services/propensity-service/pkg/postgres"
)

// PredictionRepository implements port.PredictionRepository and
// port.PredictionFinder using PostgreSQL.
type PredictionRepository struct {
	db pgpkg.Querier
}

// NewPredictionRepository creates a new PostgreSQL-backed prediction audit
// repository. db is usually a *pgxpool.Pool.
func NewPredictionRepository(db pgpkg.Querier) *PredictionRepository {
	return &PredictionRepository{db: db}
}

const insertPrediction = `
	INSERT INTO prediction_audit (
		id, age, job, marital, education, "default", balance,
		housing, loan, contact, day, month, campaign, pdays,
		previous, poutcome, label, probabilities, model_version, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	ON CONFLICT (id) DO NOTHING
`

// Save writes one audit row. Saving the same prediction twice is a no-op.
func (r *PredictionRepository) Save(ctx context.Context, p *model.Prediction) error {
	profile := p.Profile()
	balance := decimal.NewFromFloat(profile.Balance)

	_, err := r.db.Exec(ctx, insertPrediction,
		p.ID(),
		profile.Age,
		profile.Job,
		profile.Marital,
		profile.Education,
		profile.Default,
		balance,
		profile.Housing,
		profile.Loan,
		profile.Contact,
		profile.Day,
		profile.Month,
		profile.Campaign,
		profile.Pdays,
		profile.Previous,
		profile.Poutcome,
		p.Label(),
		p.Probabilities().Values(),
		p.ModelVersion(),
		p.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save prediction: %w", err)
	}
	return nil
}

const selectPrediction = `
	SELECT id, age, job, marital, education, "default", balance,
		housing, loan, contact, day, month, campaign, pdays,
		previous, poutcome, label, probabilities, model_version, created_at
	FROM prediction_audit
	WHERE id = $1
`

// FindByID loads an audited prediction.
func (r *PredictionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Prediction, error) {
	var (
		profile   model.CustomerProfile
		balance   decimal.Decimal
		label     int
		probs     []float64
		version   string
		createdAt time.Time
		rowID     uuid.UUID
	)

	err := r.db.QueryRow(ctx, selectPrediction, id).Scan(
		&rowID,
		&profile.Age,
		&profile.Job,
		&profile.Marital,
		&profile.Education,
		&profile.Default,
		&balance,
		&profile.Housing,
		&profile.Loan,
		&profile.Contact,
		&profile.Day,
		&profile.Month,
		&profile.Campaign,
		&profile.Pdays,
		&profile.Previous,
		&profile.Poutcome,
		&label,
		&probs,
		&version,
		&createdAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", model.ErrPredictionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load prediction: %w", err)
	}

	profile.Balance = balance.InexactFloat64()

	probabilities, err := valueobject.NewClassProbabilities(probs)
	if err != nil {
		return nil, fmt.Errorf("stored prediction %s: %w", id, err)
	}

	return model.Reconstruct(rowID, profile, label, probabilities, version, createdAt), nil
}
