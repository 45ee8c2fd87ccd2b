package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pairbudget/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNoSettings is returned when the singleton settings row has never
// been written.
var ErrNoSettings = errors.New("no settings found")

type Repository struct {
	db *sql.DB
}

// AuditEntry is one row of the audit_log table, written by the event
// worker when AMQP is configured.
type AuditEntry struct {
	ID         int64
	ExpenseID  string
	Operation  string
	RecordedAt time.Time
}

func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dbPath != ":memory:" && dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// EnsureSchema re-applies migrations; safe to call on a live database.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	return RunMigrations(r.db)
}

// ListExpenses returns every expense, most recent timestamp first.
func (r *Repository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount, payer, category, date, COALESCE(note, ''), timestamp
		 FROM expenses ORDER BY timestamp DESC`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		var (
			e       core.Expense
			dateStr string
		)
		if err := rows.Scan(&e.ID, &e.Amount, &e.Payer, &e.Category, &dateStr, &e.Note, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Date, err = core.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("parse expense date %q: %w", dateStr, err)
		}
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, amount, payer, category, date, note, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Amount, string(e.Payer), string(e.Category), e.Date.String(), e.Note, e.Timestamp)
	if err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	return nil
}

// UpdateExpense replaces the mutable fields of the record matching the
// expense ID. The timestamp is immutable and left untouched.
func (r *Repository) UpdateExpense(ctx context.Context, e core.Expense) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET amount = ?, payer = ?, category = ?, date = ?, note = ? WHERE id = ?`,
		e.Amount, string(e.Payer), string(e.Category), e.Date.String(), e.Note, e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

func (r *Repository) DeleteExpense(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

// ResetExpenses clears the whole journal.
func (r *Repository) ResetExpenses(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM expenses`)
	if err != nil {
		return fmt.Errorf("reset expenses: %w", err)
	}
	return nil
}

// GetSettings reads the singleton settings row. Returns ErrNoSettings
// when it was never written.
func (r *Repository) GetSettings(ctx context.Context) (core.BudgetSettings, error) {
	var s core.BudgetSettings
	err := r.db.QueryRowContext(ctx,
		`SELECT total_budget, currency_symbol, partner_name, user_name FROM settings WHERE id = 1`).
		Scan(&s.TotalBudget, &s.CurrencySymbol, &s.PartnerName, &s.UserName)
	if errors.Is(err, sql.ErrNoRows) {
		return core.BudgetSettings{}, ErrNoSettings
	}
	if err != nil {
		return core.BudgetSettings{}, fmt.Errorf("get settings: %w", err)
	}
	return s, nil
}

// UpsertSettings writes the singleton settings row keyed to id=1.
func (r *Repository) UpsertSettings(ctx context.Context, s core.BudgetSettings) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (id, total_budget, currency_symbol, partner_name, user_name)
		 VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE
		 SET total_budget = excluded.total_budget,
		     currency_symbol = excluded.currency_symbol,
		     partner_name = excluded.partner_name,
		     user_name = excluded.user_name`,
		s.TotalBudget, s.CurrencySymbol, s.PartnerName, s.UserName)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

// RecordAudit appends one row to the audit log.
func (r *Repository) RecordAudit(ctx context.Context, expenseID, operation string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (expense_id, operation) VALUES (?, ?)`, expenseID, operation)
	if err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}
	return nil
}

// ListAudit returns the most recent audit entries, newest first.
func (r *Repository) ListAudit(ctx context.Context, limit int) ([]AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, expense_id, operation, recorded_at FROM audit_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var a AuditEntry
		if err := rows.Scan(&a.ID, &a.ExpenseID, &a.Operation, &a.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, a)
	}

	return entries, rows.Err()
}
