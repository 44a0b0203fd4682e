// Package services holds the reconciliation orchestrators: backup, restore,
// bulk import, capture review, export and the transaction/account write
// paths. Every service is stateless and request-scoped; the caller identity
// and the persistence collaborator are passed in, never read from globals.
package services

import (
	"context"
	"log/slog"

	"financas/internal/core"
	"financas/internal/storage"
)

// EventPublisher announces completed reconciliation operations. A nil
// publisher disables events without failing any operation.
type EventPublisher interface {
	PublishReconEvent(ctx context.Context, operation, ownerID string, counts map[string]int) error
}

// publishEvent is the nil-safe emit path shared by all services.
func publishEvent(ctx context.Context, pub EventPublisher, operation, ownerID string, counts map[string]int) {
	if pub == nil {
		return
	}
	if err := pub.PublishReconEvent(ctx, operation, ownerID, counts); err != nil {
		// Events are best-effort: the operation already succeeded.
		slog.ErrorContext(ctx, "Failed to publish reconciliation event",
			"operation", operation, "error", err)
	}
}

// queryOwned fetches one owner's rows of a kind as typed records.
func queryOwned[T any](ctx context.Context, store storage.Store, table, ownerID string) ([]T, error) {
	rows, err := store.Query(ctx, table, storage.OwnerFilter(ownerID))
	if err != nil {
		return nil, &core.StorageError{Resource: table, Action: "query", Err: err}
	}
	return storage.DecodeRows[T](rows)
}

// stampOwner sets the owner on every row before a write.
func stampOwner(rows []storage.Row, ownerID string) []storage.Row {
	for _, row := range rows {
		row[storage.FieldOwnerID] = ownerID
	}
	return rows
}
