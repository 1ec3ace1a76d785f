package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/amortization-engine/internal/domain"
)

// Repository tests run against a real PostgreSQL named by
// TEST_DATABASE_URL and are skipped without one.
var testDB *sqlx.DB

func TestMain(m *testing.M) {
	if err := setup(); err != nil {
		fmt.Fprintf(os.Stderr, "repository test setup failed: %v\n", err)
		os.Exit(1)
	}
	code := m.Run()
	teardown()
	os.Exit(code)
}

func setup() error {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil
	}

	if err := RunMigrations(dsn); err != nil {
		return err
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return fmt.Errorf("connect to test database: %w", err)
	}
	testDB = db
	return nil
}

func teardown() {
	if testDB != nil {
		cleanupTestData(testDB)
		testDB.Close()
	}
}

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	if testDB == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}
	cleanupTestData(testDB)
	return testDB
}

func cleanupTestData(db *sqlx.DB) {
	db.Exec("DELETE FROM calculations")
}

func newTestCalculation(label string, createdAt time.Time) *domain.Calculation {
	return &domain.Calculation{
		ID:    uuid.New(),
		Label: label,
		LoanTerms: domain.LoanTerms{
			Principal:               decimal.NewFromInt(1200000),
			AnnualRatePercent:       decimal.RequireFromString("9.5"),
			Years:                   15,
			Frequency:               domain.FrequencyMonthly,
			StartDate:               time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			PeriodicFee:             decimal.NewFromInt(1000),
			ExtraPrincipalPerPeriod: decimal.Zero,
		},
		BasePayment:    decimal.RequireFromString("12530.70"),
		PeriodCount:    180,
		TotalInterest:  decimal.RequireFromString("1055525.28"),
		TotalPrincipal: decimal.RequireFromString("1200000.71"),
		TotalFees:      decimal.NewFromInt(180000),
		TotalPaid:      decimal.RequireFromString("2435526.00"),
		CreatedAt:      createdAt,
	}
}

func TestCalculationRepository_CreateAndGetByID(t *testing.T) {
	db := setupTestDB(t)

	repo := NewCalculationRepository(db)
	ctx := context.Background()

	calculation := newTestCalculation("home loan", time.Now().UTC().Truncate(time.Microsecond))

	err := repo.Create(ctx, calculation)
	require.NoError(t, err)

	result, err := repo.GetByID(ctx, calculation.ID)
	require.NoError(t, err)
	assert.Equal(t, calculation.ID, result.ID)
	assert.Equal(t, "home loan", result.Label)
	assert.True(t, calculation.Principal.Equal(result.Principal))
	assert.True(t, calculation.AnnualRatePercent.Equal(result.AnnualRatePercent))
	assert.Equal(t, 15, result.Years)
	assert.Equal(t, domain.FrequencyMonthly, result.Frequency)
	assert.True(t, calculation.StartDate.Equal(result.StartDate))
	assert.True(t, calculation.BasePayment.Equal(result.BasePayment))
	assert.Equal(t, 180, result.PeriodCount)
	assert.True(t, calculation.TotalPaid.Equal(result.TotalPaid))
	assert.True(t, calculation.CreatedAt.Equal(result.CreatedAt))
}

func TestCalculationRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)

	repo := NewCalculationRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCalculationRepository_List(t *testing.T) {
	db := setupTestDB(t)

	repo := NewCalculationRepository(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	oldest := newTestCalculation("oldest", now.Add(-2*time.Hour))
	middle := newTestCalculation("middle", now.Add(-time.Hour))
	newest := newTestCalculation("newest", now)
	for _, c := range []*domain.Calculation{middle, oldest, newest} {
		require.NoError(t, repo.Create(ctx, c))
	}

	page, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "newest", page[0].Label)
	assert.Equal(t, "middle", page[1].Label)

	page, err = repo.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "oldest", page[0].Label)

	page, err = repo.List(ctx, 2, 10)
	require.NoError(t, err)
	assert.NotNil(t, page)
	assert.Empty(t, page)
}

func TestCalculationRepository_DeleteOlderThan(t *testing.T) {
	db := setupTestDB(t)

	repo := NewCalculationRepository(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	stale := newTestCalculation("stale", now.Add(-48*time.Hour))
	fresh := newTestCalculation("fresh", now)
	require.NoError(t, repo.Create(ctx, stale))
	require.NoError(t, repo.Create(ctx, fresh))

	deleted, err := repo.DeleteOlderThan(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.GetByID(ctx, stale.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, err = repo.GetByID(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestCalculationRepository_Ping(t *testing.T) {
	db := setupTestDB(t)

	repo := NewCalculationRepository(db)

	assert.NoError(t, repo.Ping(context.Background()))
}

func TestRunMigrations_Idempotent(t *testing.T) {
	setupTestDB(t)

	assert.NoError(t, RunMigrations(os.Getenv("TEST_DATABASE_URL")))
}
