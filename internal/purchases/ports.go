package purchases

import (
	"context"

	"quantofoi/internal/core"
)

// Ports for purchase store backends.
type (
	// Lister returns the full purchase collection.
	Lister interface {
		List(ctx context.Context) ([]core.Purchase, error)
	}

	// Writer appends a new record; the store assigns the id.
	Writer interface {
		Append(ctx context.Context, in core.PurchaseInput) (core.Purchase, error)
	}

	// DescriptionUpdater rewrites the description of every record sharing
	// a SKU. Returns the number of records touched; 0 with a nil error
	// means the SKU is unknown.
	DescriptionUpdater interface {
		UpdateDescription(ctx context.Context, sku, descricao string) (int, error)
	}

	// Store is what a full backend provides.
	Store interface {
		Lister
		Writer
		DescriptionUpdater
	}
)
