// Package worker mirrors transactions from the local database into the
// shared family spreadsheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"nido/internal/amqp"
	"nido/internal/sheets"
	"nido/internal/storage"
	"nido/internal/store"
)

// SyncWorker exports transactions to the family spreadsheet. It is driven
// two ways: by AMQP messages for near-real-time export, and by a periodic
// pending pass that recovers anything a lost message left behind.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	mirror    sheets.TransactionMirror
	batchSize int
}

func NewSyncWorker(repo *storage.SQLiteRepository, mirror sheets.TransactionMirror, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   repo,
		mirror:    mirror,
		batchSize: batchSize,
	}
}

// HandleMessage processes one queued sync or delete message.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"action", msg.Action)

	switch msg.Action {
	case amqp.ActionDelete:
		return w.handleDelete(ctx, msg.ID)
	default:
		return w.exportTransaction(ctx, msg.ID)
	}
}

func (w *SyncWorker) handleDelete(ctx context.Context, id string) error {
	if err := w.mirror.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete transaction row: %w", err)
	}
	slog.InfoContext(ctx, "Deleted transaction from spreadsheet", "id", id)
	return nil
}

func (w *SyncWorker) exportTransaction(ctx context.Context, id string) error {
	tx, err := w.storage.GetTransaction(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		// Deleted before the message was consumed; nothing to export.
		slog.WarnContext(ctx, "Transaction gone before export, skipping", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	ref, err := w.mirror.Append(ctx, tx)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		// The export itself worked; the pending pass will retry the flag.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Exported transaction",
		"id", id,
		"sheets_ref", ref,
		"amount_cents", tx.Amount.Cents)
	return nil
}

// ProcessPending exports transactions still flagged unsynced. This backs
// up the AMQP path when messages are lost.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.GetPendingTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, p := range pending {
		if err := w.exportTransaction(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to export pending transaction",
				"id", p.ID, "error", err)
		}
	}
	return nil
}

// StartupCheck drains the pending backlog with a larger batch before the
// consumer starts, recovering from worker downtime.
func (w *SyncWorker) StartupCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing",
		"count", len(pending))

	synced := 0
	failed := 0
	for _, p := range pending {
		if err := w.exportTransaction(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction during startup",
				"id", p.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)
	return nil
}
