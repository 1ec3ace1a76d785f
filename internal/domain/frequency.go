package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Frequency is the number of payment periods per year. Interest compounds
// once per payment period.
type Frequency int

const (
	FrequencyYearly    Frequency = 1
	FrequencyQuarterly Frequency = 4
	FrequencyMonthly   Frequency = 12
)

// Fixed spacing between consecutive period dates. These approximate
// calendar months, quarters and years and are not calendar-accurate.
const (
	monthlyDayOffset   = 30
	quarterlyDayOffset = 91
	yearlyDayOffset    = 365
)

// ParseFrequency parses "monthly", "quarterly" or "yearly", ignoring case
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly":
		return FrequencyMonthly, nil
	case "quarterly":
		return FrequencyQuarterly, nil
	case "yearly":
		return FrequencyYearly, nil
	}
	return 0, fmt.Errorf("unknown frequency %q", s)
}

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// PeriodsPerYear returns the number of periods in a year, 0 if f is invalid
func (f Frequency) PeriodsPerYear() int {
	if !f.Valid() {
		return 0
	}
	return int(f)
}

// DayOffset returns the number of days between two consecutive period dates
func (f Frequency) DayOffset() int {
	switch f {
	case FrequencyMonthly:
		return monthlyDayOffset
	case FrequencyQuarterly:
		return quarterlyDayOffset
	case FrequencyYearly:
		return yearlyDayOffset
	}
	return 0
}

func (f Frequency) String() string {
	switch f {
	case FrequencyMonthly:
		return "monthly"
	case FrequencyQuarterly:
		return "quarterly"
	case FrequencyYearly:
		return "yearly"
	}
	return fmt.Sprintf("Frequency(%d)", int(f))
}

func (f Frequency) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid frequency %d", int(f))
	}
	return []byte(f.String()), nil
}

func (f *Frequency) UnmarshalText(text []byte) error {
	parsed, err := ParseFrequency(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Value stores the frequency by name
func (f Frequency) Value() (driver.Value, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("cannot store invalid frequency %d", int(f))
	}
	return f.String(), nil
}

func (f *Frequency) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return f.UnmarshalText([]byte(v))
	case []byte:
		return f.UnmarshalText(v)
	}
	return fmt.Errorf("cannot scan %T into Frequency", src)
}
