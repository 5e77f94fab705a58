// Package calendar computes month grids and tracks calendar navigation state.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors.
var (
	ErrInvalidDate      = errors.New("invalid calendar date")
	ErrInvalidDirection = errors.New("direction must be +1 or -1")
)

// Year bounds accepted by the engine.
const (
	MinYear = 1
	MaxYear = 9999
)

// Date is a calendar day with no time-of-day component.
// Equality and ordering are purely calendrical.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate creates a Date, returning ErrInvalidDate if the triple is not a real day.
func NewDate(year int, month time.Month, day int) (Date, error) {
	d := Date{Year: year, Month: month, Day: day}
	if err := d.Validate(); err != nil {
		return Date{}, err
	}
	return d, nil
}

// DateOf returns the local calendar date of t.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Validate reports whether d names an existing day.
func (d Date) Validate() error {
	if d.Year < MinYear || d.Year > MaxYear {
		return fmt.Errorf("%w: year %d out of range", ErrInvalidDate, d.Year)
	}
	if d.Month < time.January || d.Month > time.December {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidDate, int(d.Month))
	}
	if n := DaysInMonth(d.Year, d.Month); d.Day < 1 || d.Day > n {
		return fmt.Errorf("%w: day %d outside 1-%d for %s %d", ErrInvalidDate, d.Day, n, d.Month, d.Year)
	}
	return nil
}

// MonthIndex returns the zero-based month (0=January, 11=December).
func (d Date) MonthIndex() int {
	return int(d.Month) - 1
}

// Time returns local midnight of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.Local)
}

// Weekday returns the day of the week (Sunday=0).
func (d Date) Weekday() time.Weekday {
	return d.utc().Weekday()
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.utc().AddDate(0, 0, n))
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(int(d.Month) - int(o.Month))
	default:
		return sign(d.Day - o.Day)
	}
}

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// After reports whether d is strictly after o.
func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

// String formats d as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText implements encoding.TextMarshaler using YYYY-MM-DD.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses YYYY-MM-DD.
func (d *Date) UnmarshalText(b []byte) error {
	t, err := time.Parse("2006-01-02", string(b))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, b)
	}
	*d = DateOf(t)
	return nil
}

// utc is used for arithmetic so DST transitions never shift a day.
func (d Date) utc() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
