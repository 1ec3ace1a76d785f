package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/amortization-engine/internal/amortization"
	"github.com/segyhp/amortization-engine/internal/config"
	"github.com/segyhp/amortization-engine/internal/domain"
	"github.com/segyhp/amortization-engine/internal/repository"
	customError "github.com/segyhp/amortization-engine/pkg/errors"
	"github.com/segyhp/amortization-engine/pkg/utils"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Stored terms keep these scales, so schedules are computed from the same
// values a stored calculation is later regenerated from.
const (
	amountPlaces = 2
	ratePlaces   = 4
)

type CalculatorService struct {
	repo   repository.CalculationRepository
	cache  repository.ScheduleCache
	config *config.Config
	now    func() time.Time
}

// NewCalculatorService wires the service. cache may be nil, in which case
// every schedule is generated on demand.
func NewCalculatorService(
	repo repository.CalculationRepository,
	cache repository.ScheduleCache,
	config *config.Config,
) *CalculatorService {
	return &CalculatorService{
		repo:   repo,
		cache:  cache,
		config: config,
		now:    time.Now,
	}
}

// Preview computes a schedule without storing it
func (s *CalculatorService) Preview(ctx context.Context, request *domain.CalculationRequest) (*domain.CalculationResult, error) {
	terms, err := s.termsFromRequest(request)
	if err != nil {
		return nil, err
	}

	result := s.compute(ctx, terms)
	result.Label = request.Label
	return result, nil
}

// CreateCalculation computes a schedule and stores its terms and totals
func (s *CalculatorService) CreateCalculation(ctx context.Context, request *domain.CalculationRequest) (*domain.CalculationResult, error) {
	terms, err := s.termsFromRequest(request)
	if err != nil {
		return nil, err
	}

	result := s.compute(ctx, terms)

	calculation := &domain.Calculation{
		ID:             uuid.New(),
		Label:          request.Label,
		LoanTerms:      terms,
		BasePayment:    result.BasePayment,
		PeriodCount:    result.PeriodCount,
		TotalInterest:  result.Summary.TotalInterest,
		TotalPrincipal: result.Summary.TotalPrincipal,
		TotalFees:      result.Summary.TotalFees,
		TotalPaid:      result.Summary.TotalPaid,
		CreatedAt:      s.now().UTC(),
	}

	if err := s.repo.Create(ctx, calculation); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	attachCalculation(result, calculation)
	return result, nil
}

// GetCalculation loads a stored calculation and regenerates its schedule
func (s *CalculatorService) GetCalculation(ctx context.Context, id uuid.UUID) (*domain.CalculationResult, error) {
	calculation, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapCalculationNotFound(id.String())
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	result := s.compute(ctx, calculation.LoanTerms)
	attachCalculation(result, calculation)
	return result, nil
}

// ListCalculations returns stored calculations newest first. Out of range
// paging values are clamped rather than rejected.
func (s *CalculatorService) ListCalculations(ctx context.Context, limit, offset int) (*domain.ListCalculationsResponse, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	calculations, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.ListCalculationsResponse{
		Calculations: calculations,
		Limit:        limit,
		Offset:       offset,
	}, nil
}

// QuotePayment returns the fixed periodic payment for a loan without
// building its schedule.
func (s *CalculatorService) QuotePayment(ctx context.Context, request *domain.PaymentQuoteRequest) (*domain.PaymentQuote, error) {
	frequency, err := s.frequencyOrDefault(request.Frequency)
	if err != nil {
		return nil, err
	}
	if err := s.checkYears(request.Years); err != nil {
		return nil, err
	}
	rate := request.AnnualRatePercent.Round(ratePlaces)
	if err := s.checkRate(rate); err != nil {
		return nil, err
	}

	terms := domain.LoanTerms{
		Principal:         request.Principal.Round(amountPlaces),
		AnnualRatePercent: rate,
		Years:             request.Years,
		Frequency:         frequency,
		StartDate:         utils.TruncateToDay(s.now().UTC()),
	}
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	periods := terms.PeriodCount()
	periodRate := amortization.RatePerPeriod(terms.AnnualRatePercent.InexactFloat64(), frequency.PeriodsPerYear())
	payment := utils.RoundCents(amortization.Payment(periodRate, periods, terms.Principal.InexactFloat64()))

	return &domain.PaymentQuote{
		Principal:         terms.Principal,
		AnnualRatePercent: terms.AnnualRatePercent,
		Frequency:         frequency,
		Periods:           periods,
		BasePayment:       payment,
		TotalOfPayments:   payment.Mul(decimal.NewFromInt(int64(periods))),
	}, nil
}

// PurgeExpired deletes calculations older than the configured retention
func (s *CalculatorService) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.Add(-s.config.Scheduler.Retention)

	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	log.Printf("Purged %d calculations created before %s", deleted, cutoff.Format(time.RFC3339))
	return deleted, nil
}

// compute returns the cached result for terms or generates and caches it.
// Cache failures only cost a regeneration, so they are logged and ignored.
func (s *CalculatorService) compute(ctx context.Context, terms domain.LoanTerms) *domain.CalculationResult {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, terms)
		if err == nil {
			return cached
		}
		if !errors.Is(err, repository.ErrCacheMiss) {
			log.Printf("Schedule cache read failed: %v", customError.WrapCacheError(err))
		}
	}

	schedule := amortization.Generate(terms)
	if schedule.Capped {
		log.Printf("Schedule generation stopped at %d periods with balance outstanding", schedule.PeriodCount)
	}

	result := &domain.CalculationResult{
		Terms:       terms,
		BasePayment: schedule.BasePayment,
		PeriodCount: schedule.PeriodCount,
		Capped:      schedule.Capped,
		Summary:     amortization.Summarize(schedule.Rows),
		Yearly:      amortization.YearlyTotals(schedule.Rows),
		Schedule:    schedule.Rows,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, terms, result); err != nil {
			log.Printf("Schedule cache write failed: %v", customError.WrapCacheError(err))
		}
	}

	return result
}

// termsFromRequest fills defaults, finances upfront fees and validates
func (s *CalculatorService) termsFromRequest(request *domain.CalculationRequest) (domain.LoanTerms, error) {
	rate := s.config.GetDefaultInterestRate()
	if request.AnnualRatePercent != nil {
		rate = *request.AnnualRatePercent
	}
	rate = rate.Round(ratePlaces)
	if err := s.checkRate(rate); err != nil {
		return domain.LoanTerms{}, err
	}

	years := request.Years
	if years == 0 {
		years = s.config.Business.DefaultLoanYears
	}
	if err := s.checkYears(years); err != nil {
		return domain.LoanTerms{}, err
	}

	frequency, err := s.frequencyOrDefault(request.Frequency)
	if err != nil {
		return domain.LoanTerms{}, err
	}

	startDate := utils.TruncateToDay(s.now().UTC())
	if request.StartDate != "" {
		startDate, err = utils.ParseDate(request.StartDate)
		if err != nil {
			return domain.LoanTerms{}, customError.WrapInvalidLoanTerms("start_date", "must be formatted as YYYY-MM-DD")
		}
	}

	terms := domain.LoanTerms{
		Principal: amortization.FinancedPrincipal(
			request.LoanAmount,
			request.UpfrontFees,
			request.IncludeGST,
			s.config.GetGSTRate(),
		),
		AnnualRatePercent:       rate,
		Years:                   years,
		Frequency:               frequency,
		StartDate:               startDate,
		PeriodicFee:             request.PeriodicFee.Round(amountPlaces),
		ExtraPrincipalPerPeriod: request.ExtraPrincipalPerPeriod.Round(amountPlaces),
	}

	if err := terms.Validate(); err != nil {
		return domain.LoanTerms{}, err
	}

	return terms, nil
}

func (s *CalculatorService) frequencyOrDefault(value string) (domain.Frequency, error) {
	if value == "" {
		return s.config.GetDefaultFrequency(), nil
	}
	frequency, err := domain.ParseFrequency(value)
	if err != nil {
		return 0, customError.WrapInvalidLoanTerms("frequency", "must be monthly, quarterly or yearly")
	}
	return frequency, nil
}

func (s *CalculatorService) checkYears(years int) error {
	if limit := s.config.Business.MaxLoanYears; limit > 0 && years > limit {
		return customError.WrapInvalidLoanTerms("years", fmt.Sprintf("must not exceed %d", limit))
	}
	return nil
}

// checkRate bounds the rate; past a point the interest swamps every payment
// and schedules run to the iteration cap.
func (s *CalculatorService) checkRate(rate decimal.Decimal) error {
	if limit := s.config.GetMaxAnnualRatePercent(); limit.IsPositive() && rate.GreaterThan(limit) {
		return customError.WrapInvalidLoanTerms("annual_rate_percent", "must not exceed "+limit.String())
	}
	return nil
}

func attachCalculation(result *domain.CalculationResult, calculation *domain.Calculation) {
	id := calculation.ID
	createdAt := calculation.CreatedAt
	result.ID = &id
	result.Label = calculation.Label
	result.CreatedAt = &createdAt
}
