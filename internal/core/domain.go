package core

import (
	"errors"
	"strings"
)

// DefaultLocal is the placeholder store name used when a purchase is
// registered without one.
const DefaultLocal = "-"

type (
	// Money is an amount in centavos. All arithmetic happens on integer
	// cents; floats only appear at the wire/display boundary.
	Money struct {
		Cents int64
	}

	// Purchase is one logged buying event. Records are immutable once
	// stored, except for the description pass-through update.
	Purchase struct {
		ID        string
		Descricao string
		SKU       string // barcode; may be empty for manual entries
		Preco     Money
		Data      Date
		Local     string
	}

	// PurchaseInput is the id-less creation payload. The store assigns
	// the id.
	PurchaseInput struct {
		Descricao string
		SKU       string
		Preco     Money
		Data      Date
		Local     string
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrNegativeAmount   = errors.New("negative amount")
	ErrEmptyDescription = errors.New("empty description")
)

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrNegativeAmount
	}
	return nil
}

func (in PurchaseInput) Validate() error {
	if len(strings.TrimSpace(in.Descricao)) == 0 {
		return ErrEmptyDescription
	}
	if len(in.Descricao) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := in.Preco.Validate(); err != nil {
		return err
	}
	return in.Data.Validate()
}

// Purchase builds a validated Purchase with the given id, filling the
// store placeholder when Local is blank.
func (in PurchaseInput) Purchase(id string) (Purchase, error) {
	if err := in.Validate(); err != nil {
		return Purchase{}, err
	}
	local := strings.TrimSpace(in.Local)
	if local == "" {
		local = DefaultLocal
	}
	return Purchase{
		ID:        id,
		Descricao: strings.TrimSpace(in.Descricao),
		SKU:       strings.TrimSpace(in.SKU),
		Preco:     in.Preco,
		Data:      in.Data,
		Local:     local,
	}, nil
}

func (p Purchase) Validate() error {
	if p.ID == "" {
		return errors.New("missing id")
	}
	if len(strings.TrimSpace(p.Descricao)) == 0 {
		return ErrEmptyDescription
	}
	if err := p.Preco.Validate(); err != nil {
		return err
	}
	return p.Data.Validate()
}
