// Package worker consumes reconciliation events off the broker and keeps a
// running audit trail of what every owner's imports, backups and restores
// moved.
package worker

import (
	"context"
	"fmt"
	"sync"

	"financas/internal/amqp"
	"financas/internal/log"
)

// EventSource is the consuming side of the broker client.
type EventSource interface {
	ConsumeReconEvents(ctx context.Context, handler func(*amqp.ReconEventMessage) error) error
}

// OperationTotals aggregates one operation kind across all processed events.
type OperationTotals struct {
	Events int
	Rows   int
}

// AuditWorker tallies reconciliation events per operation. Handle is safe
// for concurrent delivery.
type AuditWorker struct {
	logger *log.Logger

	mu     sync.Mutex
	totals map[string]OperationTotals
}

// NewAuditWorker creates a worker logging through the given logger.
func NewAuditWorker(logger *log.Logger) *AuditWorker {
	return &AuditWorker{
		logger: logger.WithComponent(log.ComponentWorker),
		totals: make(map[string]OperationTotals),
	}
}

// Handle processes one reconciliation event.
func (w *AuditWorker) Handle(ctx context.Context, msg *amqp.ReconEventMessage) error {
	if msg == nil {
		return fmt.Errorf("nil reconciliation event")
	}
	if msg.Operation == "" || msg.OwnerID == "" {
		return fmt.Errorf("reconciliation event missing operation or owner")
	}

	rows := 0
	for _, n := range msg.Counts {
		rows += n
	}

	w.mu.Lock()
	t := w.totals[msg.Operation]
	t.Events++
	t.Rows += rows
	w.totals[msg.Operation] = t
	w.mu.Unlock()

	w.logger.InfoContext(ctx, "Reconciliation event",
		log.FieldOperation, msg.Operation,
		log.FieldOwnerID, msg.OwnerID,
		log.FieldCount, rows,
		"timestamp", msg.Timestamp)
	return nil
}

// Totals returns a copy of the per-operation tallies.
func (w *AuditWorker) Totals() map[string]OperationTotals {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make(map[string]OperationTotals, len(w.totals))
	for op, t := range w.totals {
		out[op] = t
	}
	return out
}

// Run consumes events until the context ends or the source fails.
func (w *AuditWorker) Run(ctx context.Context, source EventSource) error {
	w.logger.InfoContext(ctx, "Audit worker started")
	return source.ConsumeReconEvents(ctx, func(msg *amqp.ReconEventMessage) error {
		return w.Handle(ctx, msg)
	})
}
