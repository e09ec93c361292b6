package core

import (
	"errors"
	"testing"
)

func TestParseISODate(t *testing.T) {
	d, err := ParseISODate("2025-06-29")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2025 || int(d.Month()) != 6 || d.Day() != 29 {
		t.Fatalf("parsed wrong date: %v", d)
	}
	if d.ISO() != "2025-06-29" {
		t.Fatalf("ISO() = %q", d.ISO())
	}
	if d.BR() != "29/06/2025" {
		t.Fatalf("BR() = %q", d.BR())
	}
}

func TestParseISODateRejectsBadShapes(t *testing.T) {
	for _, in := range []string{
		"",
		"29/06/2025", // display shape is not a storage shape
		"2025-6-29",  // not zero-padded
		"2025-02-30", // not a constructible date
		"2025-13-01",
		"yesterday",
	} {
		if _, err := ParseISODate(in); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("ParseISODate(%q) expected ErrInvalidDate, got %v", in, err)
		}
	}
}

func TestDateOrdering(t *testing.T) {
	a := NewDate(2025, 1, 15) // "15/01/2025" sorts after "01/12/2025" as a string
	b := NewDate(2025, 12, 1)
	if !a.Before(b) {
		t.Fatalf("expected %v before %v by calendar order", a, b)
	}
	if !a.Equal(NewDate(2025, 1, 15)) {
		t.Fatalf("expected equality for the same calendar day")
	}
}
