package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"pairbudget/internal/amqp"
	"pairbudget/internal/core"
	"pairbudget/internal/storage"
)

type recordingPublisher struct {
	events []amqp.JournalEvent
	err    error
}

func (p *recordingPublisher) PublishJournalEvent(ctx context.Context, expenseID, operation string) error {
	p.events = append(p.events, amqp.JournalEvent{ExpenseID: expenseID, Operation: operation})
	return p.err
}

func newTestService(t *testing.T, publisher EventPublisher) *JournalService {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewJournalService(repo, publisher)
}

func serviceExpense(id string) core.Expense {
	return core.Expense{
		ID:        id,
		Amount:    75,
		Payer:     core.PayerPartner,
		Category:  core.CategoryFun,
		Date:      core.NewDate(2025, 6, 15),
		Timestamp: 1750000000000,
	}
}

func TestJournalServicePublishesEvents(t *testing.T) {
	publisher := &recordingPublisher{}
	service := newTestService(t, publisher)
	ctx := context.Background()

	if err := service.CreateExpense(ctx, serviceExpense("e1")); err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	if err := service.UpdateExpense(ctx, serviceExpense("e1")); err != nil {
		t.Fatalf("UpdateExpense: %v", err)
	}
	if err := service.DeleteExpense(ctx, "e1"); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if err := service.ResetExpenses(ctx); err != nil {
		t.Fatalf("ResetExpenses: %v", err)
	}

	want := []amqp.JournalEvent{
		{ExpenseID: "e1", Operation: amqp.OpAdded},
		{ExpenseID: "e1", Operation: amqp.OpUpdated},
		{ExpenseID: "e1", Operation: amqp.OpDeleted},
		{ExpenseID: "", Operation: amqp.OpReset},
	}
	if len(publisher.events) != len(want) {
		t.Fatalf("published %d events, want %d", len(publisher.events), len(want))
	}
	for i, event := range want {
		if publisher.events[i] != event {
			t.Errorf("event[%d] = %+v, want %+v", i, publisher.events[i], event)
		}
	}
}

func TestJournalServiceIgnoresPublishFailures(t *testing.T) {
	publisher := &recordingPublisher{err: errors.New("broker down")}
	service := newTestService(t, publisher)
	ctx := context.Background()

	if err := service.CreateExpense(ctx, serviceExpense("e1")); err != nil {
		t.Fatalf("CreateExpense should succeed despite publish failure: %v", err)
	}

	expenses, err := service.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(expenses) != 1 {
		t.Errorf("expense not persisted: %+v", expenses)
	}
}

func TestJournalServiceWorksWithoutPublisher(t *testing.T) {
	service := newTestService(t, nil)
	ctx := context.Background()

	if err := service.CreateExpense(ctx, serviceExpense("e1")); err != nil {
		t.Fatalf("CreateExpense with nil publisher: %v", err)
	}
	if err := service.ResetExpenses(ctx); err != nil {
		t.Fatalf("ResetExpenses with nil publisher: %v", err)
	}
}

func TestJournalServiceSettings(t *testing.T) {
	service := newTestService(t, nil)
	ctx := context.Background()

	if _, err := service.GetSettings(ctx); !errors.Is(err, storage.ErrNoSettings) {
		t.Fatalf("GetSettings = %v, want ErrNoSettings", err)
	}

	settings := core.DefaultSettings()
	settings.TotalBudget = 12000
	if err := service.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	got, err := service.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if got != settings {
		t.Errorf("got %+v, want %+v", got, settings)
	}
}

func TestJournalServiceCloseWithNilStorage(t *testing.T) {
	service := &JournalService{}
	if err := service.Close(); err != nil {
		t.Errorf("Close with nil storage: %v", err)
	}
}
