// Package ledger owns the expense sequence: the Store port, the single-writer
// Book on top of it and the aggregation queries answered from its records.
package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"gastos/internal/core"
)

// Book is the only writer of a Store. It serializes the duplicate check and
// the append so that two concurrent submissions of the same entry produce a
// single record.
type Book struct {
	mu    sync.Mutex
	store Store
}

func NewBook(store Store) *Book {
	return &Book{store: store}
}

// Records returns the full ledger.
func (b *Book) Records(ctx context.Context) ([]core.Expense, error) {
	records, err := b.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return records, nil
}

// IsDuplicateOfLast reports whether the most recent record carries the same
// description, amount and category. Only the last record is inspected.
func (b *Book) IsDuplicateOfLast(ctx context.Context, description string, amount decimal.Decimal, category core.Category) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.isDuplicateOfLast(ctx, description, amount, category)
}

func (b *Book) isDuplicateOfLast(ctx context.Context, description string, amount decimal.Decimal, category core.Category) (bool, error) {
	records, err := b.store.ReadAll(ctx)
	if err != nil {
		return false, fmt.Errorf("read ledger: %w", err)
	}
	if len(records) == 0 {
		return false, nil
	}
	return records[len(records)-1].SameEntry(description, amount, category), nil
}

// Record appends e unless it duplicates the last record. It reports whether a
// new record was written.
func (b *Book) Record(ctx context.Context, e core.Expense) (bool, error) {
	if err := e.Validate(); err != nil {
		return false, fmt.Errorf("validate expense: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	dup, err := b.isDuplicateOfLast(ctx, e.Description, e.Amount, e.Category)
	if err != nil {
		return false, err
	}
	if dup {
		return false, nil
	}
	if err := b.store.Append(ctx, e); err != nil {
		return false, fmt.Errorf("append expense: %w", err)
	}
	return true, nil
}

// Ping checks the backing store when it supports it.
func (b *Book) Ping(ctx context.Context) error {
	if p, ok := b.store.(Pinger); ok {
		return p.Ping(ctx)
	}
	_, err := b.store.ReadAll(ctx)
	return err
}
