package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	customError "github.com/segyhp/amortization-engine/pkg/errors"
)

// LoanTerms is the full input of one amortization run. Principal already
// includes any upfront fees or taxes the borrower chose to finance.
type LoanTerms struct {
	Principal               decimal.Decimal `json:"principal" db:"principal"`
	AnnualRatePercent       decimal.Decimal `json:"annual_rate_percent" db:"annual_rate_percent"`
	Years                   int             `json:"years" db:"years"`
	Frequency               Frequency       `json:"frequency" db:"frequency"`
	StartDate               time.Time       `json:"start_date" db:"start_date"`
	PeriodicFee             decimal.Decimal `json:"periodic_fee" db:"periodic_fee"`
	ExtraPrincipalPerPeriod decimal.Decimal `json:"extra_principal_per_period" db:"extra_principal_per_period"`
}

// Validate rejects terms the amortization engine would turn into meaningless
// numbers. The engine itself never checks its input.
func (t LoanTerms) Validate() error {
	switch {
	case !t.Principal.IsPositive():
		return customError.WrapInvalidLoanTerms("principal", "must be greater than 0")
	case t.AnnualRatePercent.IsNegative():
		return customError.WrapInvalidLoanTerms("annual_rate_percent", "must not be negative")
	case t.Years <= 0:
		return customError.WrapInvalidLoanTerms("years", "must be greater than 0")
	case !t.Frequency.Valid():
		return customError.WrapInvalidLoanTerms("frequency", "must be monthly, quarterly or yearly")
	case t.StartDate.IsZero():
		return customError.WrapInvalidLoanTerms("start_date", "is required")
	case t.PeriodicFee.IsNegative():
		return customError.WrapInvalidLoanTerms("periodic_fee", "must not be negative")
	case t.ExtraPrincipalPerPeriod.IsNegative():
		return customError.WrapInvalidLoanTerms("extra_principal_per_period", "must not be negative")
	}
	return nil
}

// PeriodCount is the nominal number of periods, before extra payments
// shorten the loan.
func (t LoanTerms) PeriodCount() int {
	return t.Years * t.Frequency.PeriodsPerYear()
}

// Calculation is a stored amortization run. Only the terms and totals are
// kept; the schedule is regenerated from the terms when read.
type Calculation struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	Label          string          `json:"label,omitempty" db:"label"`
	LoanTerms      `json:"terms"`
	BasePayment    decimal.Decimal `json:"base_payment" db:"base_payment"`
	PeriodCount    int             `json:"period_count" db:"period_count"`
	TotalInterest  decimal.Decimal `json:"total_interest" db:"total_interest"`
	TotalPrincipal decimal.Decimal `json:"total_principal" db:"total_principal"`
	TotalFees      decimal.Decimal `json:"total_fees" db:"total_fees"`
	TotalPaid      decimal.Decimal `json:"total_paid" db:"total_paid"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// DTOs for requests and responses

// CalculationRequest describes a loan the way a borrower enters it. Fields
// left empty fall back to configured defaults.
type CalculationRequest struct {
	Label                   string           `json:"label" validate:"max=120"`
	LoanAmount              decimal.Decimal  `json:"loan_amount" validate:"decimal_gt=0"`
	UpfrontFees             decimal.Decimal  `json:"upfront_fees" validate:"decimal_gte=0"`
	IncludeGST              bool             `json:"include_gst"`
	AnnualRatePercent       *decimal.Decimal `json:"annual_rate_percent" validate:"omitempty,decimal_gte=0"`
	Years                   int              `json:"years" validate:"omitempty,gt=0"`
	Frequency               string           `json:"frequency" validate:"omitempty,frequency"`
	StartDate               string           `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	PeriodicFee             decimal.Decimal  `json:"periodic_fee" validate:"decimal_gte=0"`
	ExtraPrincipalPerPeriod decimal.Decimal  `json:"extra_principal_per_period" validate:"decimal_gte=0"`
}

type ListCalculationsResponse struct {
	Calculations []*Calculation `json:"calculations"`
	Limit        int            `json:"limit"`
	Offset       int            `json:"offset"`
}
