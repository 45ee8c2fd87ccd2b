package gateway

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pairbudget/internal/core"
)

const (
	settingsFile = "budget_settings.json"
	expensesFile = "budget_expenses.json"
)

// FileCache is the device-local fallback store: two JSON blobs, one per
// in-memory shape. It is a best-effort mirror, not a queue; nothing
// written here is ever replayed to the remote store.
type FileCache struct {
	mu  sync.Mutex
	dir string
}

func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &FileCache{dir: dir}, nil
}

// LoadSettings reads the cached settings blob. The second return value is
// false when no usable cached copy exists.
func (c *FileCache) LoadSettings() (core.BudgetSettings, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var settings core.BudgetSettings
	if !c.readLocked(settingsFile, &settings) {
		return core.BudgetSettings{}, false
	}
	return settings, true
}

func (c *FileCache) SaveSettings(settings core.BudgetSettings) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeLocked(settingsFile, settings)
}

// LoadExpenses reads the cached expense list. A missing or unreadable
// blob reads as an empty list.
func (c *FileCache) LoadExpenses() []core.Expense {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expenses []core.Expense
	if !c.readLocked(expensesFile, &expenses) {
		return []core.Expense{}
	}
	return expenses
}

func (c *FileCache) SaveExpenses(expenses []core.Expense) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeLocked(expensesFile, expenses)
}

func (c *FileCache) readLocked(name string, out any) bool {
	data, err := os.ReadFile(filepath.Join(c.dir, name))
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

func (c *FileCache) writeLocked(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache blob %s: %w", name, err)
	}

	path := filepath.Join(c.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write cache blob %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace cache blob %s: %w", name, err)
	}
	return nil
}
