package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rabbitmq/amqp091-go"

	"pairbudget/internal/amqp"
	"pairbudget/internal/log"
	"pairbudget/internal/storage"
)

// EventSource delivers journal events. *amqp.Client satisfies this.
type EventSource interface {
	Consume() (<-chan amqp091.Delivery, error)
}

// AuditWorker consumes journal change events and records them into the
// audit_log table. It is delivery-driven: no polling, one row per event.
type AuditWorker struct {
	source  EventSource
	storage *storage.Repository

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewAuditWorker(source EventSource, storage *storage.Repository) *AuditWorker {
	return &AuditWorker{
		source:  source,
		storage: storage,
	}
}

// Start begins consuming. Returns an error if already running.
func (w *AuditWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("audit worker is already running")
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	deliveries, err := w.source.Consume()
	if err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return fmt.Errorf("start consuming: %w", err)
	}

	go w.runLoop(ctx, deliveries)

	slog.InfoContext(ctx, "Audit worker started")
	return nil
}

// Stop gracefully stops the worker and waits for completion.
func (w *AuditWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)

	select {
	case <-w.doneCh:
		slog.InfoContext(ctx, "Audit worker stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Audit worker stop timed out")
		return ctx.Err()
	}

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	return nil
}

// IsRunning returns whether the worker is currently consuming.
func (w *AuditWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *AuditWorker) runLoop(ctx context.Context, deliveries <-chan amqp091.Delivery) {
	defer close(w.doneCh)

	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case delivery, ok := <-deliveries:
			if !ok {
				slog.WarnContext(ctx, "Delivery channel closed, audit worker exiting")
				return
			}
			w.handle(ctx, delivery)
		}
	}
}

func (w *AuditWorker) handle(ctx context.Context, delivery amqp091.Delivery) {
	event, err := amqp.JournalEventFromJSON(delivery.Body)
	if err == nil {
		err = event.Validate()
	}
	if err != nil {
		// Poison message: drop it, a redelivery would fail the same way.
		slog.ErrorContext(ctx, "Discarding malformed journal event",
			log.FieldComponent, log.ComponentWorker, log.FieldError, err)
		if nackErr := delivery.Nack(false, false); nackErr != nil {
			slog.WarnContext(ctx, "Failed to nack malformed event", log.FieldError, nackErr)
		}
		return
	}

	if err := w.storage.RecordAudit(ctx, event.ExpenseID, event.Operation); err != nil {
		slog.ErrorContext(ctx, "Failed to record audit entry, requeueing",
			log.FieldComponent, log.ComponentWorker,
			log.FieldExpenseID, event.ExpenseID,
			log.FieldOperation, event.Operation,
			log.FieldError, err)
		if nackErr := delivery.Nack(false, true); nackErr != nil {
			slog.WarnContext(ctx, "Failed to nack event", log.FieldError, nackErr)
		}
		return
	}

	if err := delivery.Ack(false); err != nil {
		slog.WarnContext(ctx, "Failed to ack event", log.FieldError, err)
	}

	slog.DebugContext(ctx, "Recorded audit entry",
		log.FieldComponent, log.ComponentWorker,
		log.FieldExpenseID, event.ExpenseID,
		log.FieldOperation, event.Operation)
}
