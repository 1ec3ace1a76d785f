package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/amortization-engine/internal/domain"
)

const calculationColumns = `id, label, principal, annual_rate_percent, years, frequency, start_date,
		periodic_fee, extra_principal_per_period, base_payment, period_count,
		total_interest, total_principal, total_fees, total_paid, created_at`

type calculationRepository struct {
	db *sqlx.DB
}

func NewCalculationRepository(db *sqlx.DB) CalculationRepository {
	return &calculationRepository{db: db}
}

func (r *calculationRepository) Create(ctx context.Context, calculation *domain.Calculation) error {
	query := `
		INSERT INTO calculations (` + calculationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.ExecContext(ctx, query,
		calculation.ID,
		calculation.Label,
		calculation.Principal,
		calculation.AnnualRatePercent,
		calculation.Years,
		calculation.Frequency,
		calculation.StartDate,
		calculation.PeriodicFee,
		calculation.ExtraPrincipalPerPeriod,
		calculation.BasePayment,
		calculation.PeriodCount,
		calculation.TotalInterest,
		calculation.TotalPrincipal,
		calculation.TotalFees,
		calculation.TotalPaid,
		calculation.CreatedAt,
	)

	return err
}

func (r *calculationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Calculation, error) {
	query := `
		SELECT ` + calculationColumns + `
		FROM calculations
		WHERE id = $1
	`

	var calculation domain.Calculation
	err := r.db.GetContext(ctx, &calculation, query, id)
	if err != nil {
		return nil, err
	}

	return &calculation, nil
}

func (r *calculationRepository) List(ctx context.Context, limit, offset int) ([]*domain.Calculation, error) {
	query := `
		SELECT ` + calculationColumns + `
		FROM calculations
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`

	calculations := make([]*domain.Calculation, 0)
	err := r.db.SelectContext(ctx, &calculations, query, limit, offset)
	if err != nil {
		return nil, err
	}

	return calculations, nil
}

func (r *calculationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM calculations
		WHERE created_at < $1
	`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *calculationRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
