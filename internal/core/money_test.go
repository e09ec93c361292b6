package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"4.69", 469, true},
		{"4,69", 469, true},
		{"12.90", 1290, true},
		{"1234.50", 123450, true},
		{"1.234,50", 123450, true},
		{"1,234.50", 123450, true},
		{"0", 0, true},
		{"0,00", 0, true},
		{"12.345", 1234, true}, // rounds down
		{"12.346", 1235, true}, // rounds up
		{"-4.69", 0, false},
		{"+4.69", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"1.2.3,4", 0, false},
		{"4,6,9", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("ParseDecimalToCents(%q) unexpected error: %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseDecimalToCents(%q) expected error, got %d", tc.in, got)
		}
		if tc.ok && got != tc.want {
			t.Fatalf("ParseDecimalToCents(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatBRL(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{469, "4,69"},
		{123450, "1.234,50"},
		{1290, "12,90"},
		{0, "0,00"},
		{5, "0,05"},
		{100000000, "1.000.000,00"},
		{-469, "-4,69"},
	}
	for _, tc := range cases {
		if got := FormatBRL(tc.cents); got != tc.want {
			t.Fatalf("FormatBRL(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

// Formatting then re-parsing recovers the value to the centavo.
func TestFormatParseRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 469, 1290, 123450, 100000000} {
		s := FormatBRL(cents)
		got, err := ParseDecimalToCents(s)
		if err != nil {
			t.Fatalf("ParseDecimalToCents(%q): %v", s, err)
		}
		if got != cents {
			t.Fatalf("round trip %d -> %q -> %d", cents, s, got)
		}
	}
}

func TestMoneyFromReais(t *testing.T) {
	if got := MoneyFromReais(4.69); got.Cents != 469 {
		t.Fatalf("MoneyFromReais(4.69) = %d cents", got.Cents)
	}
	if got := MoneyFromReais(12.9); got.Cents != 1290 {
		t.Fatalf("MoneyFromReais(12.9) = %d cents", got.Cents)
	}
	if got := MoneyFromReais(0); got.Cents != 0 {
		t.Fatalf("MoneyFromReais(0) = %d cents", got.Cents)
	}
}
