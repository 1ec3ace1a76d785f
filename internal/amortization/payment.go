// Package amortization computes fixed-payment loan schedules.
//
// Every function here is pure: nothing is retained between calls and the
// package is safe for concurrent use. Inputs are not validated; callers run
// domain.LoanTerms.Validate first.
package amortization

import "math"

// zeroRateEpsilon is the per-period rate below which the loan is treated as
// interest-free, avoiding a 0/0 in the annuity formula.
const zeroRateEpsilon = 1e-9

// Payment returns the fixed periodic payment that fully amortizes principal
// over periods at ratePerPeriod. It expects a non-negative principal and rate.
func Payment(ratePerPeriod float64, periods int, principal float64) float64 {
	if periods == 0 {
		return 0
	}
	if math.Abs(ratePerPeriod) < zeroRateEpsilon {
		return principal / float64(periods)
	}

	factor := math.Pow(1+ratePerPeriod, float64(periods))
	if math.IsInf(factor, 1) {
		// factor/(factor-1) tends to 1
		return principal * ratePerPeriod
	}
	return principal * ratePerPeriod * factor / (factor - 1)
}

// RatePerPeriod converts an annual percentage rate into the rate applied each
// period, e.g. 9.5 with 12 periods per year gives 0.0079166...
func RatePerPeriod(annualRatePercent float64, periodsPerYear int) float64 {
	if periodsPerYear <= 0 {
		return 0
	}
	return annualRatePercent / 100 / float64(periodsPerYear)
}
