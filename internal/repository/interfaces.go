package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/amortization-engine/internal/domain"
)

// ErrCacheMiss is returned by ScheduleCache.Get when nothing is cached
var ErrCacheMiss = errors.New("cache miss")

// CalculationRepository defines the interface for stored calculation operations
type CalculationRepository interface {
	// Create stores a new calculation
	Create(ctx context.Context, calculation *domain.Calculation) error

	// GetByID retrieves a calculation, sql.ErrNoRows if it does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Calculation, error)

	// List returns calculations newest first
	List(ctx context.Context, limit, offset int) ([]*domain.Calculation, error)

	// DeleteOlderThan removes calculations created before cutoff and reports how many
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Ping checks database connectivity
	Ping(ctx context.Context) error
}

// ScheduleCache stores computed results keyed by their loan terms
type ScheduleCache interface {
	// Get returns ErrCacheMiss when the terms have no cached result
	Get(ctx context.Context, terms domain.LoanTerms) (*domain.CalculationResult, error)

	Set(ctx context.Context, terms domain.LoanTerms, result *domain.CalculationResult) error

	// Ping checks cache connectivity
	Ping(ctx context.Context) error
}
