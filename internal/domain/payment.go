package domain

import "github.com/shopspring/decimal"

// PaymentQuoteRequest asks for the fixed periodic payment only, without a
// full schedule.
type PaymentQuoteRequest struct {
	Principal         decimal.Decimal `json:"principal" validate:"decimal_gt=0"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent" validate:"decimal_gte=0"`
	Years             int             `json:"years" validate:"required,gt=0"`
	Frequency         string          `json:"frequency" validate:"omitempty,frequency"`
}

type PaymentQuote struct {
	Principal         decimal.Decimal `json:"principal"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	Frequency         Frequency       `json:"frequency"`
	Periods           int             `json:"periods"`
	BasePayment       decimal.Decimal `json:"base_payment"`
	TotalOfPayments   decimal.Decimal `json:"total_of_payments"`
}
