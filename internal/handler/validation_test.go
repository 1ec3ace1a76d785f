package handler

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/segyhp/amortization-engine/internal/domain"
)

func TestValidator_DecimalTags(t *testing.T) {
	v := newValidator()

	type amounts struct {
		Positive    decimal.Decimal  `json:"positive" validate:"decimal_gt=0"`
		NonNegative decimal.Decimal  `json:"non_negative" validate:"decimal_gte=0"`
		Optional    *decimal.Decimal `json:"optional" validate:"omitempty,decimal_gte=10"`
	}

	low := decimal.NewFromInt(9)
	high := decimal.RequireFromString("10.00")

	tests := []struct {
		name    string
		input   amounts
		message string
	}{
		{"valid", amounts{Positive: decimal.RequireFromString("0.01")}, ""},
		{"zero not greater than zero", amounts{Positive: decimal.Zero}, "positive: decimal_gt=0"},
		{"negative", amounts{Positive: decimal.NewFromInt(1), NonNegative: decimal.NewFromInt(-1)}, "non_negative: decimal_gte=0"},
		{"optional absent", amounts{Positive: decimal.NewFromInt(1), Optional: nil}, ""},
		{"optional below threshold", amounts{Positive: decimal.NewFromInt(1), Optional: &low}, "optional: decimal_gte=10"},
		{"optional at threshold", amounts{Positive: decimal.NewFromInt(1), Optional: &high}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.message == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Equal(t, tt.message, validationMessage(err))
		})
	}
}

func TestValidator_CalculationRequest(t *testing.T) {
	v := newValidator()

	valid := domain.CalculationRequest{
		LoanAmount: decimal.NewFromInt(1200000),
		Frequency:  "YEARLY",
		StartDate:  "2024-02-29",
	}
	assert.NoError(t, v.Struct(valid))

	invalid := valid
	invalid.Frequency = "fortnightly"
	invalid.StartDate = "2024-02-30"
	err := v.Struct(invalid)
	assert.Equal(t, "frequency: frequency; start_date: datetime=2006-01-02", validationMessage(err))
}
