package amqp

import (
	"encoding/json"
	"time"

	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventExpenseCreated EventType = "expense.created"
	EventExpenseUpdated EventType = "expense.updated"
	EventExpenseDeleted EventType = "expense.deleted"
	EventPaymentApplied EventType = "payment.applied"
	EventBillsSettled   EventType = "bills.settled"
)

// LedgerEvent notifies consumers of a committed ledger mutation. Expense
// events carry a snapshot so consumers need no database access.
type LedgerEvent struct {
	ID         string          `json:"id"`
	Type       EventType       `json:"type"`
	EntityID   int64           `json:"entity_id"`
	Amount     decimal.Decimal `json:"amount"`
	Expense    *core.Expense   `json:"expense,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewLedgerEvent creates an event with a fresh id and the current time.
func NewLedgerEvent(eventType EventType, entityID int64, amount decimal.Decimal) *LedgerEvent {
	return &LedgerEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		EntityID:   entityID,
		Amount:     amount,
		OccurredAt: time.Now().UTC(),
	}
}

// NewExpenseEvent creates an event carrying a copy of e.
func NewExpenseEvent(eventType EventType, e core.Expense) *LedgerEvent {
	evt := NewLedgerEvent(eventType, e.ID, e.Amount)
	evt.Expense = &e
	return evt
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventFromJSON creates a message from JSON bytes
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
