package ledger

import (
	"context"

	"gastos/internal/core"
)

// Ports for persistence backends.
type (
	// Store is the durable, append-only expense sequence.
	Store interface {
		// ReadAll returns every record in insertion order. A store that has
		// not been created yet is empty, not an error.
		ReadAll(ctx context.Context) ([]core.Expense, error)
		// Append durably adds one record at the end of the sequence.
		Append(ctx context.Context, e core.Expense) error
	}

	// Pinger is implemented by stores that can report backend reachability.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)
