package memory

import (
	"context"
	"testing"

	"quantofoi/internal/core"
)

func TestListReturnsSeededCopy(t *testing.T) {
	s := NewWithSamples()
	got, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 seeded purchases, got %d", len(got))
	}
	// Mutating the returned slice must not affect the store.
	got[0].Descricao = "mutated"
	again, _ := s.List(context.Background())
	if again[0].Descricao == "mutated" {
		t.Fatalf("List leaked internal state")
	}
}

func TestAppendAssignsID(t *testing.T) {
	s := New(nil)
	in := core.PurchaseInput{
		Descricao: "CAFÉ TORRADO 500G",
		Preco:     core.Money{Cents: 1899},
		Data:      core.NewDate(2025, 7, 1),
	}
	p, err := s.Append(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if p.Local != core.DefaultLocal {
		t.Fatalf("expected placeholder local, got %q", p.Local)
	}
	items, _ := s.List(context.Background())
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New(nil)
	_, err := s.Append(context.Background(), core.PurchaseInput{Preco: core.Money{Cents: 100}, Data: core.NewDate(2025, 1, 1)})
	if err == nil {
		t.Fatalf("expected validation error for empty description")
	}
	items, _ := s.List(context.Background())
	if len(items) != 0 {
		t.Fatalf("invalid input must not be stored")
	}
}

func TestUpdateDescription(t *testing.T) {
	s := NewWithSamples()
	n, err := s.UpdateDescription(context.Background(), "7896283800818", "LEITE DESNATADO JUSSARA 1L")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 records updated, got %d", n)
	}
	items, _ := s.List(context.Background())
	for _, p := range items {
		if p.SKU == "7896283800818" && p.Descricao != "LEITE DESNATADO JUSSARA 1L" {
			t.Fatalf("record %s not updated", p.ID)
		}
	}
}

func TestUpdateDescriptionUnknownSKU(t *testing.T) {
	s := NewWithSamples()
	n, err := s.UpdateDescription(context.Background(), "000", "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 updates for unknown sku, got %d", n)
	}
}
