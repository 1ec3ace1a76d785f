package amortization

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/amortization-engine/internal/domain"
)

var startDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual),
		append([]interface{}{"expected %s, got %s", expected, actual}, msgAndArgs...)...)
}

func mortgageTerms() domain.LoanTerms {
	return domain.LoanTerms{
		Principal:         decimal.NewFromInt(1200000),
		AnnualRatePercent: dec("9.5"),
		Years:             15,
		Frequency:         domain.FrequencyMonthly,
		StartDate:         startDate,
	}
}

// assertScheduleInvariants checks the properties every generated schedule
// must hold.
func assertScheduleInvariants(t *testing.T, terms domain.LoanTerms, schedule domain.Schedule) {
	t.Helper()

	require.NotEmpty(t, schedule.Rows)
	assert.Equal(t, len(schedule.Rows), schedule.PeriodCount)
	assert.False(t, schedule.Capped)

	previous := terms.Principal
	sumPrincipal := decimal.Zero
	for i, row := range schedule.Rows {
		assert.Equal(t, i+1, row.Period)
		assert.False(t, row.Balance.IsNegative(), "period %d balance negative", row.Period)
		assert.True(t, row.Balance.LessThanOrEqual(previous),
			"period %d balance %s above previous %s", row.Period, row.Balance, previous)
		previous = row.Balance

		if i < len(schedule.Rows)-1 {
			assert.True(t, row.Interest.Add(row.PrincipalPaid).Equal(row.TotalPaymentExclFee),
				"period %d: %s + %s != %s", row.Period, row.Interest, row.PrincipalPaid, row.TotalPaymentExclFee)
		}
		sumPrincipal = sumPrincipal.Add(row.PrincipalPaid)
	}

	last := schedule.Rows[len(schedule.Rows)-1]
	assert.True(t, last.Balance.IsZero(), "last balance should be 0, got %s", last.Balance)

	tolerance := dec("0.01").Mul(decimal.NewFromInt(int64(schedule.PeriodCount)))
	assert.True(t, sumPrincipal.Sub(terms.Principal).Abs().LessThanOrEqual(tolerance),
		"principal paid %s differs from %s by more than %s", sumPrincipal, terms.Principal, tolerance)
}

func TestGenerate_StandardMortgage(t *testing.T) {
	terms := mortgageTerms()

	schedule := Generate(terms)

	assertScheduleInvariants(t, terms, schedule)
	assert.Equal(t, 180, schedule.PeriodCount)
	assertDecimal(t, "12530.70", schedule.BasePayment)

	first := schedule.Rows[0]
	assert.Equal(t, startDate, first.Date)
	assertDecimal(t, "12530.70", first.BasePayment)
	assertDecimal(t, "0", first.ExtraPayment)
	assertDecimal(t, "9500.00", first.Interest)
	assertDecimal(t, "3030.70", first.PrincipalPaid)
	assertDecimal(t, "12530.70", first.TotalPaymentExclFee)
	assertDecimal(t, "12530.70", first.TotalPaymentInclFee)
	assertDecimal(t, "0", first.Fee)
	assertDecimal(t, "1196969.30", first.Balance)

	second := schedule.Rows[1]
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), second.Date)
	assertDecimal(t, "1193914.61", second.Balance)
}

func TestGenerate_DateSpacing(t *testing.T) {
	tests := []struct {
		name      string
		frequency domain.Frequency
		years     int
		offset    int
	}{
		{"monthly", domain.FrequencyMonthly, 2, 30},
		{"quarterly", domain.FrequencyQuarterly, 3, 91},
		{"yearly", domain.FrequencyYearly, 5, 365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := mortgageTerms()
			terms.Frequency = tt.frequency
			terms.Years = tt.years

			schedule := Generate(terms)

			require.Len(t, schedule.Rows, tt.years*tt.frequency.PeriodsPerYear())
			for i, row := range schedule.Rows {
				assert.Equal(t, startDate.AddDate(0, 0, i*tt.offset), row.Date, "period %d", row.Period)
			}
			assertScheduleInvariants(t, terms, schedule)
		})
	}
}

func TestGenerate_ZeroRateSingleYear(t *testing.T) {
	terms := domain.LoanTerms{
		Principal:         decimal.NewFromInt(100000),
		AnnualRatePercent: decimal.Zero,
		Years:             1,
		Frequency:         domain.FrequencyYearly,
		StartDate:         startDate,
	}

	schedule := Generate(terms)

	require.Len(t, schedule.Rows, 1)
	row := schedule.Rows[0]
	assertDecimal(t, "100000", row.PrincipalPaid)
	assertDecimal(t, "0", row.Interest)
	assertDecimal(t, "0", row.Balance)
	assertDecimal(t, "100000", schedule.BasePayment)
	assert.Equal(t, 1, schedule.PeriodCount)
}

func TestGenerate_ExtraPrincipalClampsFinalPeriod(t *testing.T) {
	terms := domain.LoanTerms{
		Principal:               decimal.NewFromInt(120000),
		AnnualRatePercent:       dec("12"),
		Years:                   1,
		Frequency:               domain.FrequencyMonthly,
		StartDate:               startDate,
		ExtraPrincipalPerPeriod: decimal.NewFromInt(50000),
	}

	schedule := Generate(terms)

	require.Len(t, schedule.Rows, 3, "extra payments should shorten the loan to three periods")
	assert.Equal(t, 3, schedule.PeriodCount)
	assertDecimal(t, "10661.85", schedule.BasePayment)

	first := schedule.Rows[0]
	assertDecimal(t, "50000", first.ExtraPayment)
	assertDecimal(t, "60661.85", first.TotalPaymentExclFee)
	assertDecimal(t, "1200.00", first.Interest)
	assertDecimal(t, "59461.85", first.PrincipalPaid)
	assertDecimal(t, "60538.15", first.Balance)

	second := schedule.Rows[1]
	assertDecimal(t, "605.38", second.Interest)
	assertDecimal(t, "60056.47", second.PrincipalPaid)
	assertDecimal(t, "481.67", second.Balance)

	last := schedule.Rows[2]
	assert.True(t, last.PrincipalPaid.Equal(second.Balance),
		"final principal %s should equal previous balance %s", last.PrincipalPaid, second.Balance)
	assertDecimal(t, "4.82", last.Interest)
	assertDecimal(t, "486.49", last.TotalPaymentExclFee)
	assertDecimal(t, "0", last.Balance)

	assertScheduleInvariants(t, terms, schedule)
}

func TestGenerate_ExtraLargerThanPrincipal(t *testing.T) {
	terms := domain.LoanTerms{
		Principal:               decimal.NewFromInt(5000),
		AnnualRatePercent:       dec("10"),
		Years:                   2,
		Frequency:               domain.FrequencyQuarterly,
		StartDate:               startDate,
		ExtraPrincipalPerPeriod: decimal.NewFromInt(10000),
	}

	schedule := Generate(terms)

	require.Len(t, schedule.Rows, 1)
	row := schedule.Rows[0]
	assertDecimal(t, "5000", row.PrincipalPaid)
	assertDecimal(t, "125", row.Interest)
	assertDecimal(t, "5125", row.TotalPaymentExclFee)
	assertDecimal(t, "0", row.Balance)
}

func TestGenerate_PeriodicFee(t *testing.T) {
	terms := mortgageTerms()
	terms.PeriodicFee = decimal.NewFromInt(1000)

	schedule := Generate(terms)

	assertScheduleInvariants(t, terms, schedule)
	for _, row := range schedule.Rows {
		assertDecimal(t, "1000", row.Fee, "period %d", row.Period)
		assert.True(t, row.TotalPaymentInclFee.Sub(row.TotalPaymentExclFee).Sub(row.Fee).Abs().LessThanOrEqual(dec("0.01")),
			"period %d fee not reflected in total", row.Period)
	}
	assertDecimal(t, "13530.70", schedule.Rows[0].TotalPaymentInclFee)

	withoutFee := Generate(mortgageTerms())
	assert.Equal(t, len(withoutFee.Rows), len(schedule.Rows), "fee must not change principal reduction")
	assert.True(t, withoutFee.Rows[90].Balance.Equal(schedule.Rows[90].Balance))
}

func TestGenerate_Idempotent(t *testing.T) {
	terms := mortgageTerms()
	terms.ExtraPrincipalPerPeriod = decimal.NewFromInt(2500)
	terms.PeriodicFee = dec("150.25")

	first := Generate(terms)
	second := Generate(terms)

	assert.Equal(t, first, second)
	assert.Less(t, first.PeriodCount, terms.PeriodCount())
}

func TestGenerate_RowsAreNotShared(t *testing.T) {
	terms := mortgageTerms()

	first := Generate(terms)
	first.Rows[0].Interest = decimal.NewFromInt(-1)

	second := Generate(terms)
	assertDecimal(t, "9500.00", second.Rows[0].Interest)
}

func TestGenerate_IterationCap(t *testing.T) {
	// A negative extra cancelling the base payment never amortizes.
	terms := domain.LoanTerms{
		Principal:               decimal.NewFromInt(1200),
		AnnualRatePercent:       decimal.Zero,
		Years:                   1,
		Frequency:               domain.FrequencyMonthly,
		StartDate:               startDate,
		ExtraPrincipalPerPeriod: decimal.NewFromInt(-100),
	}

	schedule := Generate(terms)

	assert.True(t, schedule.Capped)
	assert.Equal(t, 12000, schedule.PeriodCount)
	assert.Len(t, schedule.Rows, 12000)
	assertDecimal(t, "1200", schedule.Rows[len(schedule.Rows)-1].Balance)
}

func TestGenerate_NoPeriods(t *testing.T) {
	terms := mortgageTerms()
	terms.Years = 0

	schedule := Generate(terms)

	assert.Empty(t, schedule.Rows)
	assert.Equal(t, 0, schedule.PeriodCount)
	assert.True(t, schedule.BasePayment.IsZero())
	assert.True(t, schedule.Capped)
}

func TestGenerate_ConcurrentCalls(t *testing.T) {
	terms := mortgageTerms()
	expected := Generate(terms)

	results := make(chan domain.Schedule, 8)
	for i := 0; i < cap(results); i++ {
		go func() {
			results <- Generate(terms)
		}()
	}
	for i := 0; i < cap(results); i++ {
		assert.Equal(t, expected, <-results)
	}
}
