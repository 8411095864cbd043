// Package dates carries ISO-8601 calendar dates (no time component).
//
// Birth dates, season boundaries, and fee validity windows are all calendar
// dates. Wrapping time.Time keeps comparisons and JSON round-trips uniform
// and avoids accidental time-of-day or timezone drift.
package dates

import (
	"fmt"
	"time"
)

const layout = "2006-01-02"

// Date is a calendar date in UTC with a zero time component.
type Date struct {
	t time.Time
}

// New builds a date from year, month, day.
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Parse reads an ISO-8601 calendar date (YYYY-MM-DD).
func Parse(s string) (Date, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// FromTime truncates a timestamp to its UTC calendar date.
func FromTime(t time.Time) Date {
	u := t.UTC()
	return New(u.Year(), u.Month(), u.Day())
}

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Year() int { return d.t.Year() }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(layout)
}

// Time exposes the underlying UTC midnight instant for storage drivers.
func (d Date) Time() time.Time { return d.t }

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }

// MarshalText renders the date as YYYY-MM-DD; the zero date renders empty.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Window is an optional validity interval. A zero bound is open on that side.
type Window struct {
	From Date `json:"from,omitzero"`
	To   Date `json:"to,omitzero"`
}

// IsOpen reports whether no bounds are set at all.
func (w Window) IsOpen() bool { return w.From.IsZero() && w.To.IsZero() }

// Contains reports whether the date falls inside the window, bounds inclusive.
func (w Window) Contains(d Date) bool {
	if !w.From.IsZero() && d.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && d.After(w.To) {
		return false
	}
	return true
}

// AgeAtSeason computes age as of January 1 of the season year: season year
// minus birth year. This is the age-group convention for sporting seasons,
// not calendar age.
func AgeAtSeason(dob Date, season int) int {
	return season - dob.Year()
}
