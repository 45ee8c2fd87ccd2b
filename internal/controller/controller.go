// Package controller owns the authoritative in-memory copies of the
// expense journal and the budget settings. Every mutation is applied
// locally first, then committed through the persistence gateway; on
// failure the pre-mutation snapshot is restored and a transient
// notification is raised. Individual failures never escalate to a
// global error state.
package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"pairbudget/internal/core"
)

type Phase int

const (
	Uninitialized Phase = iota
	Loading
	Ready
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "uninitialized"
	}
}

var (
	// ErrNotReady is returned by mutations invoked before Load completed.
	ErrNotReady = errors.New("controller is not ready")
	// ErrLoadInFlight is returned when Load is called while already loading.
	ErrLoadInFlight = errors.New("load already in flight")
	// ErrResetDeclined is returned when the reset confirmation was refused.
	ErrResetDeclined = errors.New("reset not confirmed")
)

type NotificationKind int

const (
	NotifySuccess NotificationKind = iota
	NotifyFailure
)

// Notification is a transient user-facing message. It auto-clears after
// the configured delay.
type Notification struct {
	Kind    NotificationKind
	Message string
}

// Store is the persistence gateway contract the controller commits
// through. Reads never fail; writes report the remote outcome.
type Store interface {
	ReadSettings(ctx context.Context) core.BudgetSettings
	WriteSettings(ctx context.Context, settings core.BudgetSettings) error
	ReadExpenses(ctx context.Context) []core.Expense
	AddExpense(ctx context.Context, e core.Expense) error
	UpdateExpense(ctx context.Context, e core.Expense) error
	DeleteExpense(ctx context.Context, id string) error
	ResetAll(ctx context.Context) error
}

// Draft is an expense as collected from the user, before the controller
// synthesizes its identity and creation instant.
type Draft struct {
	Amount   float64
	Payer    core.Payer
	Category core.Category
	Date     core.Date
	Note     string
}

// Config holds controller configuration.
type Config struct {
	// NotificationTTL is how long a notification stays visible.
	NotificationTTL time.Duration

	// Now and NewID are injectable for tests.
	Now   func() time.Time
	NewID func() string
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{
		NotificationTTL: 3 * time.Second,
		Now:             time.Now,
		NewID:           uuid.NewString,
	}
}

type Controller struct {
	store  Store
	config Config

	mu           sync.Mutex
	phase        Phase
	expenses     []core.Expense
	settings     core.BudgetSettings
	notification *Notification
	notifySeq    uint64
	clearTimer   *time.Timer
}

func New(store Store, config Config) *Controller {
	if config.NotificationTTL <= 0 {
		config.NotificationTTL = DefaultConfig().NotificationTTL
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.NewID == nil {
		config.NewID = uuid.NewString
	}
	return &Controller{
		store:    store,
		config:   config,
		settings: core.DefaultSettings(),
	}
}

// Load fetches settings and expenses concurrently and moves the
// controller to Ready. Mutations are rejected until it completes.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.phase == Loading {
		c.mu.Unlock()
		return ErrLoadInFlight
	}
	c.phase = Loading
	c.mu.Unlock()

	var (
		settings core.BudgetSettings
		expenses []core.Expense
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		settings = c.store.ReadSettings(gctx)
		return nil
	})
	g.Go(func() error {
		expenses = c.store.ReadExpenses(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		// Gateway reads never fail, so this only trips on a broken Store
		// implementation.
		c.mu.Lock()
		c.phase = Uninitialized
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.settings = settings
	c.expenses = expenses
	c.phase = Ready
	c.mu.Unlock()

	return nil
}

// AddExpense synthesizes identity and creation instant for the draft,
// applies it optimistically, then commits through the gateway. On
// failure the record is removed again and a failure notification is
// raised.
func (c *Controller) AddExpense(ctx context.Context, draft Draft) (core.Expense, error) {
	expense := core.Expense{
		ID:        c.config.NewID(),
		Amount:    draft.Amount,
		Payer:     draft.Payer,
		Category:  draft.Category,
		Date:      draft.Date,
		Note:      draft.Note,
		Timestamp: c.config.Now().UnixMilli(),
	}
	if err := expense.Validate(); err != nil {
		return core.Expense{}, err
	}

	c.mu.Lock()
	if c.phase != Ready {
		c.mu.Unlock()
		return core.Expense{}, ErrNotReady
	}
	c.expenses = append([]core.Expense{expense}, c.expenses...)
	symbol := c.settings.CurrencySymbol
	c.mu.Unlock()

	if err := c.store.AddExpense(ctx, expense); err != nil {
		c.mu.Lock()
		filtered := c.expenses[:0]
		for _, e := range c.expenses {
			if e.ID != expense.ID {
				filtered = append(filtered, e)
			}
		}
		c.expenses = filtered
		c.notifyLocked(NotifyFailure, "Failed to save to database")
		c.mu.Unlock()
		return core.Expense{}, err
	}

	c.mu.Lock()
	c.notifyLocked(NotifySuccess, "Added "+core.FormatCurrency(expense.Amount, symbol))
	c.mu.Unlock()

	return expense, nil
}

// UpdateExpense replaces the record matching full.ID. On failure the
// entire pre-mutation snapshot is restored, not just the one record.
func (c *Controller) UpdateExpense(ctx context.Context, full core.Expense) error {
	if err := full.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.phase != Ready {
		c.mu.Unlock()
		return ErrNotReady
	}
	snapshot := c.snapshotLocked()
	for i := range c.expenses {
		if c.expenses[i].ID == full.ID {
			c.expenses[i] = full
			break
		}
	}
	c.mu.Unlock()

	if err := c.store.UpdateExpense(ctx, full); err != nil {
		c.mu.Lock()
		c.expenses = snapshot
		c.notifyLocked(NotifyFailure, "Failed to update database")
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.notifyLocked(NotifySuccess, "Updated expense")
	c.mu.Unlock()

	return nil
}

// DeleteExpense removes the record immediately and commits the delete.
// There is no success notification for deletes.
func (c *Controller) DeleteExpense(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.phase != Ready {
		c.mu.Unlock()
		return ErrNotReady
	}
	snapshot := c.snapshotLocked()
	filtered := make([]core.Expense, 0, len(c.expenses))
	for _, e := range c.expenses {
		if e.ID != id {
			filtered = append(filtered, e)
		}
	}
	c.expenses = filtered
	c.mu.Unlock()

	if err := c.store.DeleteExpense(ctx, id); err != nil {
		c.mu.Lock()
		c.expenses = snapshot
		c.notifyLocked(NotifyFailure, "Failed to delete from database")
		c.mu.Unlock()
		return err
	}

	return nil
}

// SaveSettings applies the new settings immediately. The write is fire
// and forget: a failure only raises a notification, the in-memory value
// stays as the user's latest intent.
func (c *Controller) SaveSettings(ctx context.Context, settings core.BudgetSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.phase != Ready {
		c.mu.Unlock()
		return ErrNotReady
	}
	c.settings = settings
	c.mu.Unlock()

	if err := c.store.WriteSettings(ctx, settings); err != nil {
		c.mu.Lock()
		c.notifyLocked(NotifyFailure, "Failed to save settings")
		c.mu.Unlock()
	}

	return nil
}

// ResetMonth clears the whole journal after an explicit confirmation.
// On remote failure the snapshot is restored.
func (c *Controller) ResetMonth(ctx context.Context, confirm func() bool) error {
	if confirm == nil || !confirm() {
		return ErrResetDeclined
	}

	c.mu.Lock()
	if c.phase != Ready {
		c.mu.Unlock()
		return ErrNotReady
	}
	snapshot := c.snapshotLocked()
	c.expenses = []core.Expense{}
	c.mu.Unlock()

	if err := c.store.ResetAll(ctx); err != nil {
		c.mu.Lock()
		c.expenses = snapshot
		c.notifyLocked(NotifyFailure, "Failed to reset database")
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.notifyLocked(NotifySuccess, "Month reset complete")
	c.mu.Unlock()

	return nil
}

// Phase returns the controller's lifecycle phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Expenses returns a copy of the journal.
func (c *Controller) Expenses() []core.Expense {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Settings returns the current settings.
func (c *Controller) Settings() core.BudgetSettings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// Notification returns the pending notification, if any.
func (c *Controller) Notification() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.notification == nil {
		return Notification{}, false
	}
	return *c.notification, true
}

func (c *Controller) snapshotLocked() []core.Expense {
	snapshot := make([]core.Expense, len(c.expenses))
	copy(snapshot, c.expenses)
	return snapshot
}

// notifyLocked replaces the pending notification and schedules its
// auto-clear. A newer notification cancels the older timer implicitly:
// the stale timer finds a different sequence number and does nothing.
func (c *Controller) notifyLocked(kind NotificationKind, message string) {
	c.notifySeq++
	seq := c.notifySeq
	c.notification = &Notification{Kind: kind, Message: message}

	if c.clearTimer != nil {
		c.clearTimer.Stop()
	}
	c.clearTimer = time.AfterFunc(c.config.NotificationTTL, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.notifySeq == seq {
			c.notification = nil
		}
	})
}
