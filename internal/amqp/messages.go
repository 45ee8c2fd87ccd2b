package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Journal event operations.
const (
	OpAdded   = "added"
	OpUpdated = "updated"
	OpDeleted = "deleted"
	OpReset   = "reset"
)

// JournalEvent is published whenever the journal changes. It carries only
// the expense ID and the operation; consumers that need the full record
// fetch it from the database.
type JournalEvent struct {
	ExpenseID string    `json:"expense_id"`
	Operation string    `json:"operation"`
	Timestamp time.Time `json:"timestamp"`
}

// NewJournalEvent creates an event stamped with the current time.
func NewJournalEvent(expenseID, operation string) *JournalEvent {
	return &JournalEvent{
		ExpenseID: expenseID,
		Operation: operation,
		Timestamp: time.Now(),
	}
}

func (e *JournalEvent) Validate() error {
	switch e.Operation {
	case OpAdded, OpUpdated, OpDeleted, OpReset:
	default:
		return fmt.Errorf("unknown journal operation: %s", e.Operation)
	}
	if e.Operation != OpReset && e.ExpenseID == "" {
		return fmt.Errorf("journal event %s requires an expense id", e.Operation)
	}
	return nil
}

// ToJSON converts the event to JSON bytes
func (e *JournalEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// JournalEventFromJSON creates an event from JSON bytes
func JournalEventFromJSON(data []byte) (*JournalEvent, error) {
	var e JournalEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
