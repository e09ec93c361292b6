// Canonical purchase dates.
//
// One storage shape only: ISO YYYY-MM-DD, validated strictly. The display
// shape DD/MM/YYYY never leaves the presentation layer, so date keys stay
// sortable and unambiguous.
package core

import (
	"errors"
	"fmt"
	"time"
)

const isoDateLayout = "2006-01-02"

// ErrInvalidDate is returned when an input does not match the canonical
// YYYY-MM-DD shape or is not a constructible calendar date.
var ErrInvalidDate = errors.New("invalid date: expected YYYY-MM-DD")

// Date is a calendar day at UTC midnight.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseISODate parses the canonical storage representation. time.Parse with
// a fixed-width layout rejects both malformed shapes ("29/06/2025",
// "2025-6-9") and impossible dates ("2025-02-30").
func ParseISODate(s string) (Date, error) {
	t, err := time.Parse(isoDateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// ISO returns the canonical storage representation.
func (d Date) ISO() string {
	return d.Format(isoDateLayout)
}

// BR returns the pt-BR display representation (DD/MM/YYYY).
func (d Date) BR() string {
	return d.Format("02/01/2006")
}

// Before reports calendar order, not string order.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}
