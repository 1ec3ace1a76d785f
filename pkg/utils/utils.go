package utils

import (
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// RoundCents converts a float amount to a decimal rounded to 2 places.
// Rounding works on the exact binary value, ties to even, so 2.675 (stored
// as 2.67499...) gives 2.67. Non-finite values map to zero.
func RoundCents(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.RequireFromString(strconv.FormatFloat(f, 'f', 2, 64))
}

// CalculateDueDate calculates the date of a 1-based period when periods are
// spaced a fixed number of days apart. Period 1 falls on the start date.
func CalculateDueDate(startDate time.Time, period int, offsetDays int) time.Time {
	if period < 1 {
		return startDate
	}
	return startDate.AddDate(0, 0, (period-1)*offsetDays)
}

// TruncateToDay drops the clock part of t, keeping its location
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate parses a calendar date in YYYY-MM-DD form as UTC midnight
func ParseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}
