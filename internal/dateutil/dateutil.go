// Package dateutil provides date parsing and formatting utilities.
package dateutil

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/javiermolinar/calendo/internal/calendar"
)

// Validation errors.
var (
	ErrInvalidDateFormat  = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidMonthFormat = errors.New("month must be in YYYY-MM format")
	ErrInvalidKey         = errors.New("task key must be in MM-DD-YYYY format")
)

// Layouts.
const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
	KeyLayout   = "01-02-2006"
	TitleLayout = "January 2, 2006"
	ShortLayout = "Jan 2"
)

// weekdayMap maps weekday names to time.Weekday values.
var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// FormatKey returns the task store key of d: zero-padded MM-DD-YYYY.
func FormatKey(d calendar.Date) string {
	return fmt.Sprintf("%02d-%02d-%04d", int(d.Month), d.Day, d.Year)
}

// ParseKey parses a MM-DD-YYYY store key.
func ParseKey(key string) (calendar.Date, error) {
	t, err := time.Parse(KeyLayout, key)
	if err != nil {
		return calendar.Date{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return calendar.DateOf(t), nil
}

// SortKeys orders store keys by the day they name, oldest first. Keys that
// do not parse go last, in text order.
func SortKeys(keys []string) {
	days := make(map[string]calendar.Date, len(keys))
	for _, k := range keys {
		if d, err := ParseKey(k); err == nil {
			days[k] = d
		}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		di, iok := days[keys[i]]
		dj, jok := days[keys[j]]
		switch {
		case iok && jok:
			return di.Before(dj)
		case iok != jok:
			return iok
		default:
			return keys[i] < keys[j]
		}
	})
}

// CellID returns the identity of a rendered day cell: the weekday-inclusive
// date with whitespace removed, e.g. MonJun052023.
func CellID(d calendar.Date) string {
	return fmt.Sprintf("%s%s%02d%04d", d.Weekday().String()[:3], d.Month.String()[:3], d.Day, d.Year)
}

// Title formats d as "January 2, 2006".
func Title(d calendar.Date) string {
	return d.Time().Format(TitleLayout)
}

// Short formats d as "Jan 2".
func Short(d calendar.Date) string {
	return d.Time().Format(ShortLayout)
}

// ParseDate parses a date string in YYYY-MM-DD format.
// If the string is empty, returns today's date.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return TruncateToDay(time.Now()), nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// ParseMonth parses a YYYY-MM string.
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, 0, ErrInvalidMonthFormat
	}
	return t.Year(), t.Month(), nil
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseRelativeDate parses a date string that can be:
//   - Empty string or "today": returns relativeTo date
//   - Absolute date: "2025-01-15" (YYYY-MM-DD)
//   - Store key: "01-15-2025" (MM-DD-YYYY)
//   - Keywords: "tomorrow", "yesterday"
//   - Weekday names: "monday" through "sunday" (next occurrence, always future)
//   - Next prefixed: "next-monday" through "next-sunday", "next-week"
//
// All inputs are case-insensitive. Unlike scheduling, browsing a calendar
// allows dates in the past.
func ParseRelativeDate(s string, relativeTo time.Time) (calendar.Date, error) {
	today := calendar.DateOf(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDays(1), nil
	case "yesterday":
		return today.AddDays(-1), nil
	case "next-week":
		return today.AddDays(7), nil
	}

	if weekdayName, ok := strings.CutPrefix(input, "next-"); ok {
		if targetDay, ok := weekdayMap[weekdayName]; ok {
			return nextWeekday(today, targetDay), nil
		}
		return calendar.Date{}, ErrInvalidDateFormat
	}

	if targetDay, ok := weekdayMap[input]; ok {
		return nextWeekday(today, targetDay), nil
	}

	if d, err := ParseKey(input); err == nil {
		return d, nil
	}

	t, err := time.Parse(DateLayout, input)
	if err != nil {
		return calendar.Date{}, ErrInvalidDateFormat
	}
	return calendar.DateOf(t), nil
}

// nextWeekday returns the next occurrence of the given weekday after today.
// If today is the target weekday, returns one week from today.
func nextWeekday(today calendar.Date, target time.Weekday) calendar.Date {
	daysUntil := int(target) - int(today.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return today.AddDays(daysUntil)
}
