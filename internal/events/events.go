// Package events defines the notification emitted after each new ledger
// record and the port used to publish it.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gastos/internal/core"
)

// ExpenseRecorded announces that an expense was appended to the ledger.
type ExpenseRecorded struct {
	ID          uuid.UUID `json:"id"`
	RecordedAt  time.Time `json:"recorded_at"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	Category    string    `json:"category"`
}

// NewExpenseRecorded builds the event for e with a fresh id.
func NewExpenseRecorded(e core.Expense) ExpenseRecorded {
	return ExpenseRecorded{
		ID:          uuid.New(),
		RecordedAt:  e.Timestamp,
		Description: e.Description,
		Amount:      core.FormatAmount(e.Amount),
		Category:    e.Category.String(),
	}
}

// Expense converts the event back into a ledger record.
func (m ExpenseRecorded) Expense() (core.Expense, error) {
	amount, err := core.ParseAmount(m.Amount)
	if err != nil {
		return core.Expense{}, err
	}
	e := core.NewExpense(m.RecordedAt, m.Description, amount, core.Category(m.Category))
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

func (m ExpenseRecorded) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseRecordedFromJSON decodes and validates a message body.
func ExpenseRecordedFromJSON(data []byte) (ExpenseRecorded, error) {
	var msg ExpenseRecorded
	if err := json.Unmarshal(data, &msg); err != nil {
		return ExpenseRecorded{}, fmt.Errorf("decode expense event: %w", err)
	}
	if msg.ID == uuid.Nil {
		return ExpenseRecorded{}, errors.New("expense event without id")
	}
	if _, err := msg.Expense(); err != nil {
		return ExpenseRecorded{}, fmt.Errorf("invalid expense event: %w", err)
	}
	return msg, nil
}

// Publisher delivers ExpenseRecorded events to a transport.
type Publisher interface {
	PublishExpenseRecorded(ctx context.Context, evt ExpenseRecorded) error
}

// Multi fans an event out to every publisher. All publishers are attempted;
// their errors are joined.
type Multi []Publisher

func (m Multi) PublishExpenseRecorded(ctx context.Context, evt ExpenseRecorded) error {
	var errs []error
	for _, p := range m {
		if err := p.PublishExpenseRecorded(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards every event.
type Nop struct{}

func (Nop) PublishExpenseRecorded(context.Context, ExpenseRecorded) error { return nil }
