// Package dateutils provides common date and time operations used throughout the application.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Timestamp layout constants for the two known row sources plus generic
// fallbacks. Bank-API rows carry RFC 3339-style timestamps; sheet rows use a
// plain date-time; everything else goes through the ISO fallback list.
const (
	LayoutBankAPI   = "2006-01-02T15:04:05Z07:00"
	LayoutSheet     = "2006-01-02 15:04:05"
	LayoutISODate   = "2006-01-02"
	LayoutSheetDate = "01/02/2006"
)

// fallbackLayouts are tried, in order, after the bank and sheet layouts fail.
var fallbackLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000Z07:00",
	LayoutISODate,
	LayoutSheetDate,
	"01/02/2006 15:04:05",
	"2-Jan-2006",
	"Jan 2, 2006",
}

var spaceRe = regexp.MustCompile(`\s+`)

// CleanTimestamp trims and collapses whitespace in a raw timestamp string.
func CleanTimestamp(raw string) string {
	return spaceRe.ReplaceAllString(strings.TrimSpace(raw), " ")
}

// ParseTimestamp parses a raw timestamp string, trying the bank-API layout,
// the sheet layout, then the generic fallbacks, and normalizes the result
// into the reference timezone. Layouts without a zone indicator are read as
// wall-clock time already in the reference timezone.
func ParseTimestamp(raw string, reference *time.Location) (time.Time, error) {
	if reference == nil {
		reference = time.UTC
	}
	cleaned := CleanTimestamp(raw)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if t, err := time.Parse(LayoutBankAPI, cleaned); err == nil {
		return t.In(reference), nil
	}
	if t, err := time.ParseInLocation(LayoutSheet, cleaned, reference); err == nil {
		return t, nil
	}
	for _, layout := range fallbackLayouts {
		if strings.Contains(layout, "Z07") {
			if t, err := time.Parse(layout, cleaned); err == nil {
				return t.In(reference), nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, cleaned, reference); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", raw)
}

// LoadReferenceLocation resolves a timezone name to a location, falling back
// to UTC for an empty name.
func LoadReferenceLocation(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid reference timezone %q: %w", name, err)
	}
	return loc, nil
}

// CalendarDate truncates a time to its calendar date in the given location.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = t.Location()
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// SameCalendarDate reports whether two instants fall on the same calendar
// date in the given location.
func SameCalendarDate(a, b time.Time, loc *time.Location) bool {
	return CalendarDate(a, loc).Equal(CalendarDate(b, loc))
}

// StartOfWeek returns midnight of the Monday on or before t in t's location.
func StartOfWeek(t time.Time) time.Time {
	day := CalendarDate(t, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WeekWindow returns the [start, end) bounds of the analysis week containing
// t: Monday midnight through the following Monday midnight.
func WeekWindow(t time.Time) (time.Time, time.Time) {
	start := StartOfWeek(t)
	return start, start.AddDate(0, 0, 7)
}

// FormatISODate formats a time as YYYY-MM-DD, the shape the bank API expects
// for date-range queries.
func FormatISODate(t time.Time) string {
	return t.Format(LayoutISODate)
}
