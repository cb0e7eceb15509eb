package journal

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date. Journal timestamps are kept in UTC, so a Date
// covers the half-open interval [Start, End) in UTC.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the UTC calendar date of t.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{Year: y, Month: m, Day: d}
}

// NewDate builds a Date, normalising out-of-range values the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// ParseDate parses an ISO 8601 date such as "2025-11-17".
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return Date{}, &ValidationError{Field: "date", Reason: fmt.Sprintf("invalid date %q", s)}
	}
	return DateOf(t), nil
}

// Today returns the current UTC date.
func Today() Date {
	return DateOf(now())
}

// Start returns midnight UTC at the beginning of d.
func (d Date) Start() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// End returns midnight UTC at the beginning of the following day.
func (d Date) End() time.Time {
	return d.Start().AddDate(0, 0, 1)
}

// IsZero reports whether d is the zero Date, which names no calendar day.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Contains reports whether t falls on d (calendar-day equality).
func (d Date) Contains(t time.Time) bool {
	return DateOf(t) == d
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Start().AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Start().Before(other.Start())
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d.Start().After(other.Start())
}

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday {
	return d.Start().Weekday()
}

func (d Date) String() string {
	return d.Start().Format(dateLayout)
}

// MarshalText encodes d as "2006-01-02".
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes "2006-01-02".
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// WeekStart returns the Monday of the week containing d.
func WeekStart(d Date) Date {
	// Weekday: Sunday=0 .. Saturday=6
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// WeekEnd returns the Sunday of the week containing d.
func WeekEnd(d Date) Date {
	return WeekStart(d).AddDays(6)
}

// MonthStart returns the first day of the given month.
func MonthStart(year int, month time.Month) Date {
	return NewDate(year, month, 1)
}

// MonthEnd returns the last day of the given month.
func MonthEnd(year int, month time.Month) Date {
	return NewDate(year, month+1, 1).AddDays(-1)
}
