// Package memory is the in-memory purchase store: the default backend for
// local runs and the injected fallback dataset for the remote client.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"quantofoi/internal/core"
)

type Store struct {
	mu    sync.Mutex
	items []core.Purchase
}

// New creates a store seeded with the given purchases. The seed slice is
// copied; callers keep ownership of theirs.
func New(seed []core.Purchase) *Store {
	items := make([]core.Purchase, len(seed))
	copy(items, seed)
	return &Store{items: items}
}

// SamplePurchases is the built-in sample dataset (the original app's mock
// records). It doubles as the remote client's fallback payload, so reads
// keep working when the backend is unreachable.
func SamplePurchases() []core.Purchase {
	return []core.Purchase{
		{
			ID:        "01",
			Descricao: "LTE DESN JUSSARA 1L",
			SKU:       "7896283800818",
			Preco:     core.Money{Cents: 469},
			Data:      core.NewDate(2025, 6, 29),
			Local:     "ASSAÍ - Terminal",
		},
		{
			ID:        "03",
			Descricao: "LTE DESN JUSSARA 1L",
			SKU:       "7896283800818",
			Preco:     core.Money{Cents: 469},
			Data:      core.NewDate(2025, 6, 29),
			Local:     "ASSAÍ - Terminal",
		},
		{
			ID:        "02",
			Descricao: "OVO BCO EXTRA 20UN",
			SKU:       "7898936507457",
			Preco:     core.Money{Cents: 1290},
			Data:      core.NewDate(2025, 6, 29),
			Local:     "ASSAÍ - Terminal",
		},
	}
}

// NewWithSamples creates a store seeded with SamplePurchases.
func NewWithSamples() *Store {
	return New(SamplePurchases())
}

// List returns a copy of the collection.
func (s *Store) List(_ context.Context) ([]core.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Purchase, len(s.items))
	copy(out, s.items)
	return out, nil
}

// Append validates and stores the purchase with a fresh uuid.
func (s *Store) Append(_ context.Context, in core.PurchaseInput) (core.Purchase, error) {
	p, err := in.Purchase(uuid.NewString())
	if err != nil {
		return core.Purchase{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, p)
	return p, nil
}

// UpdateDescription rewrites the description of all records with the SKU.
func (s *Store) UpdateDescription(_ context.Context, sku, descricao string) (int, error) {
	sku = strings.TrimSpace(sku)
	descricao = strings.TrimSpace(descricao)
	if sku == "" || descricao == "" {
		return 0, core.ErrEmptyDescription
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := 0
	for i := range s.items {
		if s.items[i].SKU == sku {
			s.items[i].Descricao = descricao
			updated++
		}
	}
	return updated, nil
}
