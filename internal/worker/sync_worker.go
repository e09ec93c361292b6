// Package worker moves saved purchases from SQLite into the Google
// Sheets mirror. It consumes AMQP sync messages and, as a backup for
// lost messages, periodically scans for rows that were never exported.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"quantofoi/internal/amqp"
	"quantofoi/internal/core"
	"quantofoi/internal/storage"
)

// PurchaseStore is the slice of the SQLite repository the worker needs.
type PurchaseStore interface {
	GetPurchase(ctx context.Context, id string) (core.Purchase, error)
	GetPendingSyncPurchases(ctx context.Context, limit int) ([]storage.PendingSyncPurchase, error)
	MarkSynced(ctx context.Context, id string) error
}

// PurchaseExporter appends one purchase row to the spreadsheet.
type PurchaseExporter interface {
	AppendPurchase(ctx context.Context, p core.Purchase) error
}

type SyncWorker struct {
	storage   PurchaseStore
	exporter  PurchaseExporter
	batchSize int
}

func NewSyncWorker(storage PurchaseStore, exporter PurchaseExporter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		exporter:  exporter,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single purchase sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.PurchaseSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID)

	purchase, err := w.storage.GetPurchase(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get purchase from storage: %w", err)
	}

	if err := w.exportPurchase(ctx, purchase); err != nil {
		return fmt.Errorf("export purchase: %w", err)
	}

	return nil
}

// ProcessPendingPurchases exports any purchases that haven't been synced
// yet. This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingPurchases(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncPurchases(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending purchases: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending purchases", "count", len(pending))

	for _, p := range pending {
		if err := w.exportPurchase(ctx, p.Purchase); err != nil {
			slog.ErrorContext(ctx, "Failed to export purchase",
				"id", p.Purchase.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck drains the pending backlog at worker startup, using a
// larger batch than the periodic scan. Useful after worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncPurchases(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending purchases for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending purchases found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending purchases on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, p := range pending {
		if err := w.exportPurchase(ctx, p.Purchase); err != nil {
			slog.ErrorContext(ctx, "Failed to export purchase during startup",
				"id", p.Purchase.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

func (w *SyncWorker) exportPurchase(ctx context.Context, p core.Purchase) error {
	if err := w.exporter.AppendPurchase(ctx, p); err != nil {
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, p.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", p.ID, "error", err)
		// Don't return error here - the export actually worked
	}

	slog.InfoContext(ctx, "Successfully exported purchase",
		"id", p.ID,
		"descricao", p.Descricao,
		"preco_cents", p.Preco.Cents)

	return nil
}
