// Package services orchestrates writes across the local database and the
// spreadsheet sync queue.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"nido/internal/core"
	"nido/internal/store"
)

// SyncPublisher queues transactions for the export worker.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id string) error
	PublishTransactionDelete(ctx context.Context, id string) error
	Close() error
}

// LedgerService writes transactions to the store and queues each change
// for the spreadsheet mirror. Queueing is best-effort: the worker's
// periodic catch-up pass picks up anything a failed publish missed.
type LedgerService struct {
	store     store.Store
	publisher SyncPublisher
}

func NewLedgerService(st store.Store, publisher SyncPublisher) *LedgerService {
	return &LedgerService{
		store:     st,
		publisher: publisher,
	}
}

func (s *LedgerService) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	created, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	if err := s.publishSync(ctx, created.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", created.ID, "error", err)
		// The transaction is saved; the catch-up pass will export it.
	}

	return created, nil
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		return err
	}

	if err := s.publishSync(ctx, tx.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", tx.ID, "error", err)
	}
	return nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	if err := s.publishDelete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message",
			"id", id, "error", err)
	}
	return nil
}

func (s *LedgerService) publishSync(ctx context.Context, id string) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Sync publisher not available, skipping sync message")
		return nil
	}
	return s.publisher.PublishTransactionSync(ctx, id)
}

func (s *LedgerService) publishDelete(ctx context.Context, id string) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Sync publisher not available, skipping delete message")
		return nil
	}
	return s.publisher.PublishTransactionDelete(ctx, id)
}

// Close closes the store and the publisher.
func (s *LedgerService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}
