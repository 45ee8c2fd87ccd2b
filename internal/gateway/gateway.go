// Package gateway implements the client-side persistence gateway: a
// two-tier store over the remote journal API and a local file cache.
// The remote store is the source of truth when reachable; the cache is a
// best-effort offline mirror. The two tiers are never merged: a read
// prefers the remote copy wholesale and falls back to the cache only
// when the remote is unavailable.
package gateway

import (
	"context"
	"log/slog"

	"pairbudget/internal/core"
	"pairbudget/internal/log"
)

type Gateway struct {
	remote *RemoteStore
	cache  *FileCache
}

func New(remote *RemoteStore, cache *FileCache) *Gateway {
	return &Gateway{
		remote: remote,
		cache:  cache,
	}
}

// ReadSettings fetches settings from the remote store, falling back to
// the local cache and then to hardcoded defaults. It never fails.
func (g *Gateway) ReadSettings(ctx context.Context) core.BudgetSettings {
	settings, err := g.remote.FetchSettings(ctx)
	if err == nil {
		return settings
	}

	slog.WarnContext(ctx, "Remote unavailable, falling back to local cache for settings",
		log.FieldComponent, log.ComponentGateway, log.FieldError, err)
	if cached, ok := g.cache.LoadSettings(); ok {
		return cached
	}

	return core.DefaultSettings()
}

// WriteSettings attempts the remote upsert and unconditionally mirrors
// the value into the local cache, so the cache always reflects the
// latest client-intended state. The returned error is the remote
// outcome.
func (g *Gateway) WriteSettings(ctx context.Context, settings core.BudgetSettings) error {
	remoteErr := g.remote.SaveSettings(ctx, settings)

	if err := g.cache.SaveSettings(settings); err != nil {
		slog.WarnContext(ctx, "Failed to mirror settings into local cache",
			log.FieldComponent, log.ComponentGateway, log.FieldError, err)
	}

	return remoteErr
}

// ReadExpenses fetches the journal from the remote store, falling back
// to the local cache. Absent any data it returns an empty list; it never
// fails.
func (g *Gateway) ReadExpenses(ctx context.Context) []core.Expense {
	expenses, err := g.remote.FetchExpenses(ctx)
	if err == nil {
		if expenses == nil {
			expenses = []core.Expense{}
		}
		return expenses
	}

	slog.WarnContext(ctx, "Remote unavailable, falling back to local cache for expenses",
		log.FieldComponent, log.ComponentGateway, log.FieldError, err)
	return g.cache.LoadExpenses()
}

// AddExpense attempts the remote insert. On failure the record is
// prepended to the cached list (recency-first order) and the remote
// error is returned so the caller can roll back its optimistic copy.
func (g *Gateway) AddExpense(ctx context.Context, e core.Expense) error {
	if err := g.remote.AddExpense(ctx, e); err != nil {
		expenses := g.cache.LoadExpenses()
		expenses = append([]core.Expense{e}, expenses...)
		g.persistCache(ctx, expenses)
		return err
	}
	return nil
}

// UpdateExpense attempts the remote update by ID. On failure the
// matching cached record is replaced (no-op when absent).
func (g *Gateway) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := g.remote.UpdateExpense(ctx, e); err != nil {
		expenses := g.cache.LoadExpenses()
		for i := range expenses {
			if expenses[i].ID == e.ID {
				expenses[i] = e
				g.persistCache(ctx, expenses)
				break
			}
		}
		return err
	}
	return nil
}

// DeleteExpense attempts the remote delete by ID. On failure the cached
// list is filtered instead.
func (g *Gateway) DeleteExpense(ctx context.Context, id string) error {
	if err := g.remote.DeleteExpense(ctx, id); err != nil {
		expenses := g.cache.LoadExpenses()
		filtered := expenses[:0]
		for _, cached := range expenses {
			if cached.ID != id {
				filtered = append(filtered, cached)
			}
		}
		g.persistCache(ctx, filtered)
		return err
	}
	return nil
}

// ResetAll attempts the remote bulk delete. The local cache is cleared
// in every case: on failure as the fallback write, on success so the
// mirror matches the now-empty remote journal.
func (g *Gateway) ResetAll(ctx context.Context) error {
	remoteErr := g.remote.Reset(ctx)
	g.persistCache(ctx, []core.Expense{})
	return remoteErr
}

func (g *Gateway) persistCache(ctx context.Context, expenses []core.Expense) {
	if err := g.cache.SaveExpenses(expenses); err != nil {
		slog.WarnContext(ctx, "Failed to persist local expense cache",
			log.FieldComponent, log.ComponentGateway, log.FieldError, err)
	}
}
