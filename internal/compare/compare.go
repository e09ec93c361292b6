// Package compare computes price statistics for one product's purchase
// history: latest price, average paid, total spent, and a per-purchase
// verdict against the average.
//
// Callers must hand in at least one record; an empty history is a contract
// violation, not a silently handled case.
package compare

import (
	"errors"
	"sort"

	"quantofoi/internal/core"
)

// ErrEmptyHistory is returned when a caller breaks the non-empty contract.
var ErrEmptyHistory = errors.New("empty purchase history")

// Verdict tags one purchase relative to the product's average price.
type Verdict string

const (
	// GoodDeal: paid at or below the average. Inclusive on the cheap side.
	GoodDeal Verdict = "boa_oferta"
	// AbovePrice: paid above the average.
	AbovePrice Verdict = "acima_do_preco"
)

// Latest returns the record with the maximum calendar date. On equal
// dates the later record in input order wins, so the newest append comes
// out on top.
func Latest(purchases []core.Purchase) (core.Purchase, error) {
	if len(purchases) == 0 {
		return core.Purchase{}, ErrEmptyHistory
	}
	latest := purchases[0]
	for _, p := range purchases[1:] {
		if !p.Data.Before(latest.Data) {
			latest = p
		}
	}
	return latest, nil
}

// Average is the arithmetic mean of prices, rounded half-up to the
// centavo. Integer cents keep the inclusive classify boundary exact.
func Average(purchases []core.Purchase) (core.Money, error) {
	if len(purchases) == 0 {
		return core.Money{}, ErrEmptyHistory
	}
	n := int64(len(purchases))
	total := Total(purchases)
	return core.Money{Cents: (total.Cents + n/2) / n}, nil
}

// Total sums the prices of the history.
func Total(purchases []core.Purchase) core.Money {
	var cents int64
	for _, p := range purchases {
		cents += p.Preco.Cents
	}
	return core.Money{Cents: cents}
}

// Classify tags a purchase against the average: preco <= average is a
// good deal, anything above is above price.
func Classify(p core.Purchase, average core.Money) Verdict {
	if p.Preco.Cents <= average.Cents {
		return GoodDeal
	}
	return AbovePrice
}

// DeltaVsAverage returns latest minus average in centavos. Negative or
// zero means the latest purchase was at or below the running average.
func DeltaVsAverage(latest core.Purchase, average core.Money) int64 {
	return latest.Preco.Cents - average.Cents
}

// ClassifiedPurchase pairs a record with its verdict for display.
type ClassifiedPurchase struct {
	Purchase core.Purchase
	Verdict  Verdict
}

// Analysis bundles everything the product panel shows.
type Analysis struct {
	Descricao  string
	SKU        string
	Latest     core.Purchase
	Average    core.Money
	Total      core.Money
	DeltaCents int64 // latest vs average; <= 0 means cheaper or equal
	Cheaper    bool
	History    []ClassifiedPurchase // date-descending
}

// Analyze computes the full comparison for one product's history.
func Analyze(descricao string, purchases []core.Purchase) (Analysis, error) {
	latest, err := Latest(purchases)
	if err != nil {
		return Analysis{}, err
	}
	avg, err := Average(purchases)
	if err != nil {
		return Analysis{}, err
	}

	delta := DeltaVsAverage(latest, avg)
	a := Analysis{
		Descricao:  descricao,
		SKU:        latest.SKU,
		Latest:     latest,
		Average:    avg,
		Total:      Total(purchases),
		DeltaCents: delta,
		Cheaper:    delta <= 0,
	}

	sorted := make([]core.Purchase, len(purchases))
	copy(sorted, purchases)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[j].Data.Before(sorted[i].Data)
	})
	a.History = make([]ClassifiedPurchase, len(sorted))
	for i, p := range sorted {
		a.History[i] = ClassifiedPurchase{Purchase: p, Verdict: Classify(p, avg)}
	}
	return a, nil
}
