package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/bib/services/propensity-service/internal/domain/model"
	"github.com/bibbank/bib/services/propensity-service/internal/domain/valueobject"
)

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

type fakeQuerier struct {
	execErr  error
	row      pgx.Row
	execSQL  string
	execArgs []any
	queryArg []any
}

func (f *fakeQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	f.queryArg = args
	return f.row
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = sql
	f.execArgs = args
	return pgconn.NewCommandTag("INSERT 0 1"), f.execErr
}

func newPrediction(t *testing.T) *model.Prediction {
	t.Helper()
	probs, err := valueobject.NewClassProbabilities([]float64{0.8, 0.2})
	require.NoError(t, err)
	p, err := model.NewPrediction(model.CustomerProfile{
		Age: 40, Job: "management", Marital: "married", Education: "tertiary",
		Default: "no", Balance: 1500.257, Housing: "yes", Loan: "no",
		Contact: "cellular", Day: 15, Month: "may", Campaign: 2, Pdays: -1,
		Previous: 0, Poutcome: "unknown",
	}, 0, probs, "rf-v3")
	require.NoError(t, err)
	return p
}

func TestNewPredictionRepository(t *testing.T) {
	repo := NewPredictionRepository(nil)
	assert.NotNil(t, repo)
	assert.Nil(t, repo.db)
}

func TestPredictionRepository_Save(t *testing.T) {
	db := &fakeQuerier{}
	repo := NewPredictionRepository(db)
	p := newPrediction(t)

	require.NoError(t, repo.Save(context.Background(), p))

	assert.Contains(t, db.execSQL, "INSERT INTO prediction_audit")
	require.Len(t, db.execArgs, 20)
	assert.Equal(t, p.ID(), db.execArgs[0])
	assert.Equal(t, 40, db.execArgs[1])
	assert.Equal(t, "no", db.execArgs[5])

	balance, ok := db.execArgs[6].(decimal.Decimal)
	require.True(t, ok)
	assert.Equal(t, "1500.257", balance.String())

	assert.Equal(t, 0, db.execArgs[16])
	assert.Equal(t, []float64{0.8, 0.2}, db.execArgs[17])
	assert.Equal(t, "rf-v3", db.execArgs[18])
	assert.Equal(t, p.CreatedAt(), db.execArgs[19])
}

func TestPredictionRepository_SaveKeepsInputsExact(t *testing.T) {
	probs, err := valueobject.NewClassProbabilities([]float64{0.5, 0.5})
	require.NoError(t, err)
	p, err := model.NewPrediction(model.CustomerProfile{
		Age: 1 << 40, Balance: 1.25e17, Day: 15, Campaign: 3_000_000_000,
	}, 0, probs, "rf-v3")
	require.NoError(t, err)

	db := &fakeQuerier{}
	require.NoError(t, NewPredictionRepository(db).Save(context.Background(), p))

	assert.Equal(t, 1<<40, db.execArgs[1])
	assert.Equal(t, 3_000_000_000, db.execArgs[12])
	balance, ok := db.execArgs[6].(decimal.Decimal)
	require.True(t, ok)
	assert.Equal(t, "125000000000000000", balance.String())
}

func TestPredictionRepository_SaveError(t *testing.T) {
	repo := NewPredictionRepository(&fakeQuerier{execErr: errors.New("connection reset")})

	err := repo.Save(context.Background(), newPrediction(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestPredictionRepository_FindByIDNotFound(t *testing.T) {
	db := &fakeQuerier{row: fakeRow{scan: func(...any) error { return pgx.ErrNoRows }}}
	repo := NewPredictionRepository(db)
	id := uuid.New()

	_, err := repo.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, model.ErrPredictionNotFound)
	assert.Equal(t, []any{id}, db.queryArg)
}

func TestPredictionRepository_FindByIDScanError(t *testing.T) {
	db := &fakeQuerier{row: fakeRow{scan: func(...any) error { return errors.New("bad column") }}}
	repo := NewPredictionRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrPredictionNotFound)
	assert.Contains(t, err.Error(), "bad column")
}
