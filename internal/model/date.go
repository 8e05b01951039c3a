package model

import (
	"time"
)

// DateLayout is the canonical calendar date format.
const DateLayout = "2006-01-02"

// Date is a calendar date stored as text. Imports may produce values that
// are not canonical, so parsing is deferred to the consumers that need it.
type Date string

// NewDate formats t as a canonical Date.
func NewDate(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Time parses d. ok is false when d is not a canonical YYYY-MM-DD date.
func (d Date) Time() (t time.Time, ok bool) {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// InMonth reports whether d falls within the given calendar month.
// Non-canonical dates are never in any month.
func (d Date) InMonth(month time.Month, year int) bool {
	t, ok := d.Time()
	if !ok {
		return false
	}
	return t.Year() == year && t.Month() == month
}

func (d Date) String() string { return string(d) }
