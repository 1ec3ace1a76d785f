package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ScheduleRow is one period of an amortization schedule. Money values are
// rounded to 2 decimal places.
type ScheduleRow struct {
	Period              int             `json:"period"`
	Date                time.Time       `json:"date"`
	BasePayment         decimal.Decimal `json:"base_payment"`
	ExtraPayment        decimal.Decimal `json:"extra_payment"`
	TotalPaymentExclFee decimal.Decimal `json:"total_payment_excl_fee"`
	Fee                 decimal.Decimal `json:"fee"`
	TotalPaymentInclFee decimal.Decimal `json:"total_payment_incl_fee"`
	Interest            decimal.Decimal `json:"interest"`
	PrincipalPaid       decimal.Decimal `json:"principal_paid"`
	Balance             decimal.Decimal `json:"balance"`
}

// Schedule is the output of one amortization run.
type Schedule struct {
	Rows        []ScheduleRow
	BasePayment decimal.Decimal
	// PeriodCount is the number of rows actually generated. Extra principal
	// payments can make it smaller than LoanTerms.PeriodCount.
	PeriodCount int
	// Capped reports that generation stopped on the iteration cap rather
	// than on a paid-off balance.
	Capped bool
}

type Summary struct {
	TotalInterest  decimal.Decimal `json:"total_interest"`
	TotalPrincipal decimal.Decimal `json:"total_principal"`
	TotalFees      decimal.Decimal `json:"total_fees"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
}

// YearlyTotal aggregates the rows dated in one calendar year
type YearlyTotal struct {
	Year      int             `json:"year"`
	Interest  decimal.Decimal `json:"interest"`
	Principal decimal.Decimal `json:"principal"`
}

// CalculationResult is what the API returns for a computed schedule. ID and
// CreatedAt are set only for stored calculations.
type CalculationResult struct {
	ID          *uuid.UUID      `json:"id,omitempty"`
	Label       string          `json:"label,omitempty"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
	Terms       LoanTerms       `json:"terms"`
	BasePayment decimal.Decimal `json:"base_payment"`
	PeriodCount int             `json:"period_count"`
	Capped      bool            `json:"capped,omitempty"`
	Summary     Summary         `json:"summary"`
	Yearly      []YearlyTotal   `json:"yearly"`
	Schedule    []ScheduleRow   `json:"schedule"`
}
