package amortization

import (
	"time"

	"github.com/segyhp/amortization-engine/internal/domain"
	"github.com/segyhp/amortization-engine/pkg/utils"
)

const (
	// paidOffBalance is the balance at or below which the loan counts as repaid
	paidOffBalance = 1e-6
	// iterationCapFactor bounds generation to iterationCapFactor*n periods
	iterationCapFactor = 1000
)

// Generate builds the period-by-period schedule for terms.
//
// Each period accrues interest on the outstanding balance, then applies the
// base payment plus any extra principal. When that would overpay, the
// period's principal is clamped to the balance and its payment trued up, so
// the balance ends at exactly zero. Generation stops once the balance is
// repaid or after 1000 times the nominal period count.
func Generate(terms domain.LoanTerms) domain.Schedule {
	periodsPerYear := terms.Frequency.PeriodsPerYear()
	n := terms.Years * periodsPerYear
	r := RatePerPeriod(terms.AnnualRatePercent.InexactFloat64(), periodsPerYear)

	principal := terms.Principal.InexactFloat64()
	fee := terms.PeriodicFee.InexactFloat64()
	extra := terms.ExtraPrincipalPerPeriod.InexactFloat64()
	dayOffset := terms.Frequency.DayOffset()

	basePayment := Payment(r, n, principal)

	rows := make([]domain.ScheduleRow, 0, max(n, 0))
	balance := principal
	period := 0

	for balance > paidOffBalance && period < iterationCapFactor*n {
		period++

		interest := balance * r
		principalComponent := (basePayment - interest) + extra
		totalExclFee := basePayment + extra
		clamped := false
		if principalComponent > balance {
			principalComponent = balance
			totalExclFee = interest + principalComponent
			clamped = true
		}
		balance -= principalComponent

		rows = append(rows, periodRow{
			period:        period,
			date:          utils.CalculateDueDate(terms.StartDate, period, dayOffset),
			basePayment:   basePayment,
			extra:         extra,
			totalExclFee:  totalExclFee,
			fee:           fee,
			interest:      interest,
			principalPaid: principalComponent,
			balance:       balance,
			clamped:       clamped,
		}.round())
	}

	return domain.Schedule{
		Rows:        rows,
		BasePayment: utils.RoundCents(basePayment),
		PeriodCount: period,
		Capped:      balance > paidOffBalance,
	}
}

// periodRow holds one period's unrounded figures
type periodRow struct {
	period        int
	date          time.Time
	basePayment   float64
	extra         float64
	totalExclFee  float64
	fee           float64
	interest      float64
	principalPaid float64
	balance       float64
	clamped       bool
}

// round converts to cents. On regular periods principal is the rounded
// payment minus the rounded interest, so the two always add up to the
// payment shown. A clamped period shows the balance it paid off.
func (p periodRow) round() domain.ScheduleRow {
	interest := utils.RoundCents(p.interest)
	totalExclFee := utils.RoundCents(p.totalExclFee)

	principalPaid := totalExclFee.Sub(interest)
	if p.clamped {
		principalPaid = utils.RoundCents(p.principalPaid)
	}

	return domain.ScheduleRow{
		Period:              p.period,
		Date:                p.date,
		BasePayment:         utils.RoundCents(p.basePayment),
		ExtraPayment:        utils.RoundCents(p.extra),
		TotalPaymentExclFee: totalExclFee,
		Fee:                 utils.RoundCents(p.fee),
		TotalPaymentInclFee: utils.RoundCents(p.totalExclFee + p.fee),
		Interest:            interest,
		PrincipalPaid:       principalPaid,
		Balance:             utils.RoundCents(p.balance),
	}
}
