// Package storage is the SQLite purchase store: the durable backend for a
// single-user deployment.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"quantofoi/internal/core"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// List implements purchases.Lister. A row whose stored date no longer
// parses is a corruption bug, not something to skip silently, so the
// whole read fails loudly.
func (r *SQLiteRepository) List(ctx context.Context) ([]core.Purchase, error) {
	rows, err := r.queries.ListPurchases(ctx)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	out := make([]core.Purchase, len(rows))
	for i, row := range rows {
		p, err := rowToPurchase(row)
		if err != nil {
			return nil, fmt.Errorf("purchase %s: %w", row.ID, err)
		}
		out[i] = p
	}
	return out, nil
}

// Append implements purchases.Writer.
func (r *SQLiteRepository) Append(ctx context.Context, in core.PurchaseInput) (core.Purchase, error) {
	p, err := in.Purchase(uuid.NewString())
	if err != nil {
		return core.Purchase{}, err
	}

	row, err := r.queries.CreatePurchase(ctx, CreatePurchaseParams{
		ID:         p.ID,
		Descricao:  p.Descricao,
		SKU:        p.SKU,
		PrecoCents: p.Preco.Cents,
		Data:       p.Data.ISO(),
		Local:      p.Local,
	})
	if err != nil {
		return core.Purchase{}, fmt.Errorf("create purchase: %w", err)
	}

	slog.InfoContext(ctx, "Purchase saved to SQLite",
		"id", row.ID,
		"descricao", row.Descricao,
		"sku", row.SKU,
		"preco_cents", row.PrecoCents,
		"data", row.Data)

	return p, nil
}

// UpdateDescription implements purchases.DescriptionUpdater.
func (r *SQLiteRepository) UpdateDescription(ctx context.Context, sku, descricao string) (int, error) {
	n, err := r.queries.UpdateDescriptionBySKU(ctx, sku, descricao)
	if err != nil {
		return 0, fmt.Errorf("update description for sku %s: %w", sku, err)
	}
	return int(n), nil
}

// GetPurchase loads one record by id, for the sync worker.
func (r *SQLiteRepository) GetPurchase(ctx context.Context, id string) (core.Purchase, error) {
	row, err := r.queries.GetPurchase(ctx, id)
	if err != nil {
		return core.Purchase{}, fmt.Errorf("get purchase %s: %w", id, err)
	}
	return rowToPurchase(row)
}

// PendingSyncPurchase is a record not yet exported to the spreadsheet.
type PendingSyncPurchase struct {
	Purchase core.Purchase
}

// GetPendingSyncPurchases returns records with no synced_at, oldest first.
func (r *SQLiteRepository) GetPendingSyncPurchases(ctx context.Context, limit int) ([]PendingSyncPurchase, error) {
	rows, err := r.queries.GetPendingSync(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync purchases: %w", err)
	}
	out := make([]PendingSyncPurchase, len(rows))
	for i, row := range rows {
		p, err := rowToPurchase(row)
		if err != nil {
			return nil, fmt.Errorf("purchase %s: %w", row.ID, err)
		}
		out[i] = PendingSyncPurchase{Purchase: p}
	}
	return out, nil
}

// MarkSynced stamps a record after a successful spreadsheet append.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if err := r.queries.MarkSynced(ctx, id); err != nil {
		return fmt.Errorf("mark purchase %s synced: %w", id, err)
	}
	return nil
}

func rowToPurchase(row PurchaseRow) (core.Purchase, error) {
	data, err := core.ParseISODate(row.Data)
	if err != nil {
		return core.Purchase{}, err
	}
	return core.Purchase{
		ID:        row.ID,
		Descricao: row.Descricao,
		SKU:       row.SKU,
		Preco:     core.Money{Cents: row.PrecoCents},
		Data:      data,
		Local:     row.Local,
	}, nil
}
