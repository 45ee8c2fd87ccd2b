package services

import (
	"context"
	"fmt"
	"log/slog"

	"pairbudget/internal/amqp"
	"pairbudget/internal/core"
	"pairbudget/internal/log"
	"pairbudget/internal/storage"
)

// EventPublisher publishes journal change events. *amqp.Client satisfies
// this; a nil publisher disables events entirely.
type EventPublisher interface {
	PublishJournalEvent(ctx context.Context, expenseID, operation string) error
}

// JournalService orchestrates journal writes across SQLite and the
// optional event stream. Publish failures never fail the request: the
// database write is the source of truth, events are best effort.
type JournalService struct {
	storage   *storage.Repository
	publisher EventPublisher
}

func NewJournalService(storage *storage.Repository, publisher EventPublisher) *JournalService {
	return &JournalService{
		storage:   storage,
		publisher: publisher,
	}
}

func (s *JournalService) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	return s.storage.ListExpenses(ctx)
}

func (s *JournalService) CreateExpense(ctx context.Context, e core.Expense) error {
	if err := s.storage.CreateExpense(ctx, e); err != nil {
		return fmt.Errorf("save expense: %w", err)
	}

	s.publish(ctx, e.ID, amqp.OpAdded)
	return nil
}

func (s *JournalService) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := s.storage.UpdateExpense(ctx, e); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}

	s.publish(ctx, e.ID, amqp.OpUpdated)
	return nil
}

func (s *JournalService) DeleteExpense(ctx context.Context, id string) error {
	if err := s.storage.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	s.publish(ctx, id, amqp.OpDeleted)
	return nil
}

func (s *JournalService) ResetExpenses(ctx context.Context) error {
	if err := s.storage.ResetExpenses(ctx); err != nil {
		return fmt.Errorf("reset expenses: %w", err)
	}

	s.publish(ctx, "", amqp.OpReset)
	return nil
}

func (s *JournalService) GetSettings(ctx context.Context) (core.BudgetSettings, error) {
	return s.storage.GetSettings(ctx)
}

func (s *JournalService) SaveSettings(ctx context.Context, settings core.BudgetSettings) error {
	return s.storage.UpsertSettings(ctx, settings)
}

// EnsureSchema idempotently creates the tables.
func (s *JournalService) EnsureSchema(ctx context.Context) error {
	return s.storage.EnsureSchema(ctx)
}

func (s *JournalService) publish(ctx context.Context, expenseID, operation string) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.PublishJournalEvent(ctx, expenseID, operation); err != nil {
		slog.ErrorContext(ctx, "Failed to publish journal event",
			log.FieldComponent, log.ComponentJournal,
			log.FieldExpenseID, expenseID,
			log.FieldOperation, operation,
			log.FieldError, err)
	}
}

// Close closes the underlying storage.
func (s *JournalService) Close() error {
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			return fmt.Errorf("close journal service: %w", err)
		}
	}
	return nil
}
