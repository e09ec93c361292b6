package services

import (
	"context"
	"fmt"
	"log/slog"

	"quantofoi/internal/amqp"
	"quantofoi/internal/core"
	"quantofoi/internal/storage"
)

// PurchaseService orchestrates purchase writes across SQLite and AMQP:
// save locally first, then publish a sync message for the spreadsheet
// export. The local save is the source of truth; a failed publish only
// delays the export until the worker's pending scan picks it up.
type PurchaseService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewPurchaseService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *PurchaseService {
	return &PurchaseService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// List passes through to storage.
func (s *PurchaseService) List(ctx context.Context) ([]core.Purchase, error) {
	return s.storage.List(ctx)
}

// Append saves a purchase locally and publishes a sync message.
func (s *PurchaseService) Append(ctx context.Context, in core.PurchaseInput) (core.Purchase, error) {
	p, err := s.storage.Append(ctx, in)
	if err != nil {
		return core.Purchase{}, fmt.Errorf("save purchase: %w", err)
	}

	if err := s.publishSyncMessage(ctx, p.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", p.ID, "error", err)
		// Don't fail the request - the purchase is saved locally
	}

	return p, nil
}

// UpdateDescription passes through to storage.
func (s *PurchaseService) UpdateDescription(ctx context.Context, sku, descricao string) (int, error) {
	return s.storage.UpdateDescription(ctx, sku, descricao)
}

func (s *PurchaseService) publishSyncMessage(ctx context.Context, id string) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}
	return s.amqpClient.PublishPurchaseSync(ctx, id)
}

// Close closes both storage and AMQP connections.
func (s *PurchaseService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close purchase service: %v", errs)
	}

	return nil
}
