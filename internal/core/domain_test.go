package core

import (
	"errors"
	"testing"
)

func TestPurchaseInputValidate(t *testing.T) {
	good := PurchaseInput{
		Descricao: "LTE DESN JUSSARA 1L",
		SKU:       "7896283800818",
		Preco:     Money{Cents: 469},
		Data:      NewDate(2025, 6, 29),
		Local:     "ASSAÍ - Terminal",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		in   PurchaseInput
		want error
	}{
		{"empty description", PurchaseInput{Preco: Money{Cents: 1}, Data: NewDate(2025, 1, 1)}, ErrEmptyDescription},
		{"negative price", PurchaseInput{Descricao: "x", Preco: Money{Cents: -1}, Data: NewDate(2025, 1, 1)}, ErrNegativeAmount},
	}
	for _, tc := range cases {
		if err := tc.in.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	zeroDate := PurchaseInput{Descricao: "x", Preco: Money{Cents: 1}}
	if err := zeroDate.Validate(); err == nil {
		t.Fatalf("expected error for zero date")
	}
}

func TestPurchaseInputZeroPriceAllowed(t *testing.T) {
	in := PurchaseInput{Descricao: "amostra grátis", Preco: Money{Cents: 0}, Data: NewDate(2025, 1, 1)}
	if err := in.Validate(); err != nil {
		t.Fatalf("zero price should be valid: %v", err)
	}
}

func TestPurchaseInputDefaultsLocal(t *testing.T) {
	in := PurchaseInput{Descricao: "x", Preco: Money{Cents: 100}, Data: NewDate(2025, 1, 1)}
	p, err := in.Purchase("abc")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if p.Local != DefaultLocal {
		t.Fatalf("expected placeholder local, got %q", p.Local)
	}
	if p.ID != "abc" {
		t.Fatalf("expected id to be assigned, got %q", p.ID)
	}
}

func TestPurchaseValidate(t *testing.T) {
	p := Purchase{ID: "1", Descricao: "x", Preco: Money{Cents: 1}, Data: NewDate(2025, 1, 1), Local: "-"}
	if err := p.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	p.ID = ""
	if err := p.Validate(); err == nil {
		t.Fatalf("expected error for missing id")
	}
}
