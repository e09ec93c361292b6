package pricelookup

import (
	"context"
	"errors"
	"testing"
)

func TestLookupBySKU(t *testing.T) {
	s := New(DefaultCatalog())
	r, err := s.Lookup(context.Background(), "", "7896283800818")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Source != SourceCatalog {
		t.Fatalf("source = %q, want catalog hit", r.Source)
	}
	if r.Descricao != "LTE DESN JUSSARA 1L" || r.CurrentPreco.Cents != 489 {
		t.Fatalf("unexpected result: %+v", r)
	}
}

func TestLookupByNameCaseInsensitive(t *testing.T) {
	s := New(DefaultCatalog())
	r, err := s.Lookup(context.Background(), "lte desn jussara 1l", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Source != SourceCatalog || r.SKU != "7896283800818" {
		t.Fatalf("unexpected result: %+v", r)
	}
}

func TestSKUWinsOverName(t *testing.T) {
	s := New(DefaultCatalog())
	// Name matches eggs, SKU matches milk; SKU is the preferred identity.
	r, _ := s.Lookup(context.Background(), "OVO BCO EXTRA 20UN", "7896283800818")
	if r.Descricao != "LTE DESN JUSSARA 1L" {
		t.Fatalf("sku match should win, got %+v", r)
	}
}

func TestLookupEstimatedFallback(t *testing.T) {
	s := New(DefaultCatalog())
	r, err := s.Lookup(context.Background(), "PRODUTO INEXISTENTE", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Source != SourceEstimated {
		t.Fatalf("source = %q, want estimated", r.Source)
	}
	if r.CurrentPreco.Cents < 10000 || r.CurrentPreco.Cents > 99999 {
		t.Fatalf("estimate out of range: %d", r.CurrentPreco.Cents)
	}

	// Deterministic: the same query always estimates the same price.
	again, _ := s.Lookup(context.Background(), "PRODUTO INEXISTENTE", "")
	if again.CurrentPreco != r.CurrentPreco {
		t.Fatalf("estimate not stable: %d vs %d", again.CurrentPreco.Cents, r.CurrentPreco.Cents)
	}
}

func TestLookupEstimatedBySKUOnly(t *testing.T) {
	s := New(DefaultCatalog())
	r, err := s.Lookup(context.Background(), "", "0000000000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Source != SourceEstimated {
		t.Fatalf("source = %q, want estimated", r.Source)
	}
	if r.Descricao != "Produto com SKU: 0000000000000" {
		t.Fatalf("descricao = %q", r.Descricao)
	}
}

func TestLookupRequiresQuery(t *testing.T) {
	s := New(DefaultCatalog())
	if _, err := s.Lookup(context.Background(), "", ""); !errors.Is(err, ErrMissingQuery) {
		t.Fatalf("expected ErrMissingQuery, got %v", err)
	}
}
