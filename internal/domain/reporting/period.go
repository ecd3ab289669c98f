package reporting

import (
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
)

// ErrInvalidPeriod reports a malformed reporting period
var ErrInvalidPeriod = shared.NewFieldError("INVALID_INPUT", "period must be formatted as YYYY-MM", "period")

// Period is a calendar-month reporting window
type Period struct {
	year  int
	month time.Month
}

// NewPeriod creates a period for the given year and month
func NewPeriod(year int, month time.Month) (Period, error) {
	if year < 2017 || year > 9999 || month < time.January || month > time.December {
		return Period{}, ErrInvalidPeriod
	}
	return Period{year: year, month: month}, nil
}

// ParsePeriod parses a YYYY-MM period string
func ParsePeriod(value string) (Period, error) {
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return Period{}, ErrInvalidPeriod
	}
	return NewPeriod(t.Year(), t.Month())
}

// PeriodOf returns the period a timestamp falls in
func PeriodOf(t time.Time) Period {
	return Period{year: t.Year(), month: t.Month()}
}

// String returns the canonical YYYY-MM form
func (p Period) String() string {
	return time.Date(p.year, p.month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// Start returns the first instant of the period (UTC)
func (p Period) Start() time.Time {
	return time.Date(p.year, p.month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first instant of the following period, so the window
// is the half-open interval [Start, End)
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// Contains reports whether the timestamp falls within the period
func (p Period) Contains(t time.Time) bool {
	u := t.UTC()
	return !u.Before(p.Start()) && u.Before(p.End())
}

// IsZero reports whether the period is unset
func (p Period) IsZero() bool {
	return p.year == 0
}
