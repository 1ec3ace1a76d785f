package amortization

import (
	"github.com/shopspring/decimal"

	"github.com/segyhp/amortization-engine/internal/domain"
)

// Summarize sums the rounded row values, so totals match what the rows show
func Summarize(rows []domain.ScheduleRow) domain.Summary {
	summary := domain.Summary{
		TotalInterest:  decimal.Zero,
		TotalPrincipal: decimal.Zero,
		TotalFees:      decimal.Zero,
		TotalPaid:      decimal.Zero,
	}
	for _, row := range rows {
		summary.TotalInterest = summary.TotalInterest.Add(row.Interest)
		summary.TotalPrincipal = summary.TotalPrincipal.Add(row.PrincipalPaid)
		summary.TotalFees = summary.TotalFees.Add(row.Fee)
		summary.TotalPaid = summary.TotalPaid.Add(row.TotalPaymentInclFee)
	}
	return summary
}

// YearlyTotals groups interest and principal by the calendar year of each
// row's date, in ascending year order.
func YearlyTotals(rows []domain.ScheduleRow) []domain.YearlyTotal {
	totals := make([]domain.YearlyTotal, 0)
	for _, row := range rows {
		year := row.Date.Year()
		last := len(totals) - 1
		if last < 0 || totals[last].Year != year {
			totals = append(totals, domain.YearlyTotal{
				Year:      year,
				Interest:  decimal.Zero,
				Principal: decimal.Zero,
			})
			last++
		}
		totals[last].Interest = totals[last].Interest.Add(row.Interest)
		totals[last].Principal = totals[last].Principal.Add(row.PrincipalPaid)
	}
	return totals
}

// FinancedPrincipal is the amount actually borrowed: the loan amount plus
// upfront fees rolled into the loan, plus GST at gstRate on those fees when
// includeGST is set. The result is rounded to cents.
func FinancedPrincipal(loanAmount, upfrontFees decimal.Decimal, includeGST bool, gstRate decimal.Decimal) decimal.Decimal {
	principal := loanAmount.Add(upfrontFees)
	if includeGST {
		principal = principal.Add(upfrontFees.Mul(gstRate))
	}
	return principal.Round(2)
}
