package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Date is a calendar day with no time-of-day or zone attached.
// Its JSON form is the ISO-8601 date "YYYY-MM-DD".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// accepted input layouts, most specific last
var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// NewDate builds a Date, normalizing out-of-range values the way time.Date does
// (e.g. month 13 of 2024 is January 2025).
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses an ISO date ("2025-03-14"), a non-padded date ("2025-3-14")
// or a full timestamp, in which case the date portion as written is kept.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("parse date: empty value")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("parse date %q: unsupported format", s)
}

func (d Date) IsZero() bool { return d == Date{} }

// Time returns midnight of d in loc (UTC when loc is nil).
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) Equal(o Date) bool { return d == o }

func (d Date) Before(o Date) bool { return d.Time(nil).Before(o.Time(nil)) }

func (d Date) AddDays(n int) Date { return NewDate(d.Year, d.Month, d.Day+n) }

func (d Date) Weekday() time.Weekday { return d.Time(nil).Weekday() }

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML renders the date as its ISO string in exports.
func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}
