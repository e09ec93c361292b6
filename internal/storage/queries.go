package storage

import (
	"context"
	"database/sql"
	"time"
)

// Queries wraps the SQL statements against the purchases table.
type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// PurchaseRow mirrors one purchases row.
type PurchaseRow struct {
	ID         string
	Descricao  string
	SKU        string
	PrecoCents int64
	Data       string // ISO YYYY-MM-DD
	Local      string
	CreatedAt  time.Time
	SyncedAt   sql.NullTime
}

const createPurchase = `
INSERT INTO purchases (id, descricao, sku, preco_cents, data, local)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, descricao, sku, preco_cents, data, local, created_at, synced_at
`

type CreatePurchaseParams struct {
	ID         string
	Descricao  string
	SKU        string
	PrecoCents int64
	Data       string
	Local      string
}

func (q *Queries) CreatePurchase(ctx context.Context, p CreatePurchaseParams) (PurchaseRow, error) {
	row := q.db.QueryRowContext(ctx, createPurchase,
		p.ID, p.Descricao, p.SKU, p.PrecoCents, p.Data, p.Local)
	return scanPurchase(row)
}

const listPurchases = `
SELECT id, descricao, sku, preco_cents, data, local, created_at, synced_at
FROM purchases
ORDER BY created_at, id
`

func (q *Queries) ListPurchases(ctx context.Context) ([]PurchaseRow, error) {
	rows, err := q.db.QueryContext(ctx, listPurchases)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PurchaseRow
	for rows.Next() {
		r, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const getPurchase = `
SELECT id, descricao, sku, preco_cents, data, local, created_at, synced_at
FROM purchases
WHERE id = ?
`

func (q *Queries) GetPurchase(ctx context.Context, id string) (PurchaseRow, error) {
	return scanPurchase(q.db.QueryRowContext(ctx, getPurchase, id))
}

const updateDescriptionBySKU = `
UPDATE purchases SET descricao = ? WHERE sku = ?
`

func (q *Queries) UpdateDescriptionBySKU(ctx context.Context, sku, descricao string) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateDescriptionBySKU, descricao, sku)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const getPendingSync = `
SELECT id, descricao, sku, preco_cents, data, local, created_at, synced_at
FROM purchases
WHERE synced_at IS NULL
ORDER BY created_at, id
LIMIT ?
`

func (q *Queries) GetPendingSync(ctx context.Context, limit int64) ([]PurchaseRow, error) {
	rows, err := q.db.QueryContext(ctx, getPendingSync, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PurchaseRow
	for rows.Next() {
		r, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const markSynced = `
UPDATE purchases SET synced_at = CURRENT_TIMESTAMP WHERE id = ?
`

func (q *Queries) MarkSynced(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, markSynced, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPurchase(s rowScanner) (PurchaseRow, error) {
	var r PurchaseRow
	err := s.Scan(&r.ID, &r.Descricao, &r.SKU, &r.PrecoCents, &r.Data, &r.Local, &r.CreatedAt, &r.SyncedAt)
	return r, err
}
