// Package aggregate derives grouped views over a purchase snapshot.
//
// All functions are pure: they never mutate their input and assume records
// already passed validation at the store boundary. Product identity is the
// SKU when present, the description otherwise, applied uniformly so that
// grouping, filtering and comparison always agree on what "one product" is.
package aggregate

import (
	"sort"
	"strings"

	"quantofoi/internal/core"
)

// ProductKey identifies a logical product across the whole collection.
type ProductKey string

// KeyFor returns the canonical identity for a purchase: SKU-first, with
// the description as fallback for manual entries without a barcode.
func KeyFor(p core.Purchase) ProductKey {
	if sku := strings.TrimSpace(p.SKU); sku != "" {
		return ProductKey("sku:" + sku)
	}
	return ProductKey("desc:" + strings.TrimSpace(p.Descricao))
}

// ProductGroup is a derived view of all purchases sharing one identity.
// Recomputed on every read, never stored.
type ProductGroup struct {
	Key       ProductKey
	Descricao string // from the first purchase seen for the group
	SKU       string
	Purchases []core.Purchase
}

// Total sums the prices of the group.
func (g ProductGroup) Total() core.Money {
	return Total(g.Purchases)
}

// Total sums the prices of a purchase list.
func Total(ps []core.Purchase) core.Money {
	var cents int64
	for _, p := range ps {
		cents += p.Preco.Cents
	}
	return core.Money{Cents: cents}
}

// GroupByProduct partitions purchases by product identity, preserving
// first-appearance order. Every purchase lands in exactly one group.
func GroupByProduct(purchases []core.Purchase) []ProductGroup {
	index := make(map[ProductKey]int, len(purchases))
	groups := make([]ProductGroup, 0, len(purchases))
	for _, p := range purchases {
		key := KeyFor(p)
		i, ok := index[key]
		if !ok {
			index[key] = len(groups)
			groups = append(groups, ProductGroup{
				Key:       key,
				Descricao: p.Descricao,
				SKU:       p.SKU,
			})
			i = len(groups) - 1
		}
		groups[i].Purchases = append(groups[i].Purchases, p)
	}
	return groups
}

// FilterMode selects which fields a search term matches against.
type FilterMode string

const (
	FilterByName FilterMode = "name"
	FilterBySKU  FilterMode = "sku"
	FilterBoth   FilterMode = "both"
)

// ParseFilterMode maps a query value to a mode, defaulting to both.
func ParseFilterMode(s string) FilterMode {
	switch FilterMode(strings.ToLower(strings.TrimSpace(s))) {
	case FilterByName:
		return FilterByName
	case FilterBySKU:
		return FilterBySKU
	default:
		return FilterBoth
	}
}

// FilterGroups keeps groups whose description or SKU contains the term,
// case-insensitively. An empty term matches everything.
func FilterGroups(groups []ProductGroup, term string, mode FilterMode) []ProductGroup {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return groups
	}
	out := make([]ProductGroup, 0, len(groups))
	for _, g := range groups {
		nameHit := strings.Contains(strings.ToLower(g.Descricao), term)
		skuHit := strings.Contains(strings.ToLower(g.SKU), term)
		switch mode {
		case FilterByName:
			if nameHit {
				out = append(out, g)
			}
		case FilterBySKU:
			if skuHit {
				out = append(out, g)
			}
		default:
			if nameHit || skuHit {
				out = append(out, g)
			}
		}
	}
	return out
}

// GroupByDate buckets purchases by canonical date key (ISO YYYY-MM-DD).
func GroupByDate(purchases []core.Purchase) map[string][]core.Purchase {
	byDate := make(map[string][]core.Purchase)
	for _, p := range purchases {
		key := p.Data.ISO()
		byDate[key] = append(byDate[key], p)
	}
	return byDate
}

// SortedDatesDesc returns the date keys most-recent-first. Keys are parsed
// and compared as calendar dates; the ISO shape happens to sort the same
// lexicographically, but the comparison does not rely on that.
func SortedDatesDesc(byDate map[string][]core.Purchase) []string {
	keys := make([]string, 0, len(byDate))
	for k := range byDate {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		di, erri := core.ParseISODate(keys[i])
		dj, errj := core.ParseISODate(keys[j])
		if erri != nil || errj != nil {
			// Unparseable keys cannot reach here through GroupByDate;
			// fall back to string order rather than panicking.
			return keys[i] > keys[j]
		}
		return dj.Before(di)
	})
	return keys
}

// Stats summarizes the whole collection for the index page.
type Stats struct {
	TotalSpent    core.Money
	PurchaseCount int
	DistinctCount int
	AveragePerBuy core.Money
}

// Summarize computes collection-wide statistics: total spent, number of
// distinct products, and the average paid per purchase (half-up cents).
func Summarize(purchases []core.Purchase) Stats {
	s := Stats{
		TotalSpent:    Total(purchases),
		PurchaseCount: len(purchases),
		DistinctCount: len(GroupByProduct(purchases)),
	}
	if n := int64(len(purchases)); n > 0 {
		s.AveragePerBuy = core.Money{Cents: (s.TotalSpent.Cents + n/2) / n}
	}
	return s
}
