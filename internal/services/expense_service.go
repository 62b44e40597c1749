// Package services orchestrates ledger writes and the events that follow them.
package services

import (
	"context"
	"errors"
	"time"

	"gastos/internal/core"
	"gastos/internal/events"
	"gastos/internal/ledger"
	"gastos/internal/log"
)

const publishTimeout = 5 * time.Second

// ExpenseService records expenses through the Book and announces every new
// record. It satisfies interpreter.Ledger.
type ExpenseService struct {
	book      *ledger.Book
	publisher events.Publisher
	closers   []func() error
	logger    *log.Logger
}

// NewExpenseService wraps book. A nil publisher disables events.
func NewExpenseService(book *ledger.Book, publisher events.Publisher, closers ...func() error) *ExpenseService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &ExpenseService{
		book:      book,
		publisher: publisher,
		closers:   closers,
		logger:    log.WithComponent(log.ComponentEvents),
	}
}

func (s *ExpenseService) Records(ctx context.Context) ([]core.Expense, error) {
	return s.book.Records(ctx)
}

// Record appends e unless it duplicates the last record, then publishes an
// ExpenseRecorded event. Publication failures are logged and never fail the
// call: the record is already durable.
func (s *ExpenseService) Record(ctx context.Context, e core.Expense) (bool, error) {
	recorded, err := s.book.Record(ctx, e)
	if err != nil || !recorded {
		return recorded, err
	}

	evt := events.NewExpenseRecorded(e)
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.PublishExpenseRecorded(pctx, evt); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish expense event",
			log.FieldEventID, evt.ID,
			log.FieldOperation, log.OpPublish,
			log.FieldError, err)
	}
	return true, nil
}

// Ping reports whether the ledger is readable.
func (s *ExpenseService) Ping(ctx context.Context) error {
	return s.book.Ping(ctx)
}

// Close releases the store and the publishers.
func (s *ExpenseService) Close() error {
	var errs []error
	for _, c := range s.closers {
		if c == nil {
			continue
		}
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
