// Package pricelookup answers "what does this product cost today?".
//
// It matches against a small market catalog, SKU first and product name
// second, and falls back to a deterministic estimated price when nothing
// matches, tagging the result so the UI can say so. Results are cached
// with a short TTL like any other quote provider.
package pricelookup

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"time"

	"quantofoi/internal/cache"
	"quantofoi/internal/core"
)

// ErrMissingQuery is returned when neither a product name nor a SKU is
// provided.
var ErrMissingQuery = errors.New("product name or sku is required")

const (
	// SourceCatalog marks a real catalog hit.
	SourceCatalog = "Market Average"
	// SourceEstimated marks a synthesized placeholder price.
	SourceEstimated = "Estimated"
)

// Result is one current-price answer.
type Result struct {
	Descricao    string
	SKU          string
	CurrentPreco core.Money
	Source       string
}

// Entry is one catalog row.
type Entry struct {
	Descricao string
	SKU       string
	Preco     core.Money
}

// DefaultCatalog is the built-in market catalog.
func DefaultCatalog() []Entry {
	return []Entry{
		{Descricao: "LTE DESN JUSSARA 1L", SKU: "7896283800818", Preco: core.Money{Cents: 489}},
		{Descricao: "OVO BCO EXTRA 20UN", SKU: "7898936507457", Preco: core.Money{Cents: 1349}},
		{Descricao: "CAFÉ TORRADO E MOÍDO 500G", SKU: "7891234500017", Preco: core.Money{Cents: 2190}},
		{Descricao: "ARROZ BRANCO TIPO 1 5KG", SKU: "7891234500024", Preco: core.Money{Cents: 2799}},
		{Descricao: "FEIJÃO CARIOCA 1KG", SKU: "7891234500031", Preco: core.Money{Cents: 899}},
		{Descricao: "AÇÚCAR REFINADO 1KG", SKU: "7891234500048", Preco: core.Money{Cents: 549}},
	}
}

type Service struct {
	catalog []Entry
	cache   *cache.LRUCache[Result]
}

// New creates a lookup service over the given catalog.
func New(catalog []Entry) *Service {
	return &Service{
		catalog: catalog,
		cache:   cache.NewLRUCache[Result](256, time.Minute),
	}
}

// Lookup resolves a current price by SKU first, then product name. An
// unmatched query gets an estimated price derived deterministically from
// the query text, never an error.
func (s *Service) Lookup(_ context.Context, product, sku string) (Result, error) {
	product = strings.TrimSpace(product)
	sku = strings.TrimSpace(sku)
	if product == "" && sku == "" {
		return Result{}, ErrMissingQuery
	}

	key := strings.ToLower(product) + "|" + strings.ToLower(sku)
	if r, ok := s.cache.Get(key); ok {
		return r, nil
	}

	r := s.resolve(product, sku)
	s.cache.Set(key, r)
	return r, nil
}

func (s *Service) resolve(product, sku string) Result {
	if sku != "" {
		for _, e := range s.catalog {
			if strings.EqualFold(e.SKU, sku) {
				return Result{Descricao: e.Descricao, SKU: e.SKU, CurrentPreco: e.Preco, Source: SourceCatalog}
			}
		}
	}
	if product != "" {
		for _, e := range s.catalog {
			if strings.EqualFold(e.Descricao, product) {
				return Result{Descricao: e.Descricao, SKU: e.SKU, CurrentPreco: e.Preco, Source: SourceCatalog}
			}
		}
	}

	descricao := product
	if descricao == "" {
		descricao = "Produto com SKU: " + sku
	}
	return Result{
		Descricao:    descricao,
		SKU:          sku,
		CurrentPreco: estimate(product + "|" + sku),
		Source:       SourceEstimated,
	}
}

// estimate synthesizes a stable placeholder between R$ 100,00 and
// R$ 999,99 from the query text.
func estimate(query string) core.Money {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(query)))
	cents := int64(h.Sum64()%90000) + 10000
	return core.Money{Cents: cents}
}
