// Package worker mirrors recorded expenses into the spreadsheet.
package worker

import (
	"context"
	"fmt"
	"time"

	"gastos/internal/cache"
	"gastos/internal/events"
	"gastos/internal/log"
	"gastos/internal/sheets"
)

const (
	seenCapacity = 1000
	seenTTL      = 24 * time.Hour
)

// Consumer delivers ExpenseRecorded events until ctx is done.
type Consumer interface {
	ConsumeExpenseRecorded(ctx context.Context, handler func(events.ExpenseRecorded) error) error
}

// MirrorWorker appends each ExpenseRecorded event to the sheet. Event ids
// already mirrored are skipped, so redeliveries do not duplicate rows.
type MirrorWorker struct {
	sheets sheets.ExpenseWriter
	seen   *cache.LRUCache[string]
	logger *log.Logger
}

func NewMirrorWorker(w sheets.ExpenseWriter) *MirrorWorker {
	return &MirrorWorker{
		sheets: w,
		seen:   cache.NewLRUCache[string](seenCapacity, seenTTL),
		logger: log.WithComponent(log.ComponentWorker),
	}
}

// HandleExpenseRecorded mirrors one event. A returned error asks the
// transport to redeliver.
func (w *MirrorWorker) HandleExpenseRecorded(ctx context.Context, evt events.ExpenseRecorded) error {
	id := evt.ID.String()
	if ref, ok := w.seen.Get(id); ok {
		w.logger.InfoContext(ctx, "Event already mirrored, skipping", log.FieldEventID, id, "ref", ref)
		return nil
	}

	e, err := evt.Expense()
	if err != nil {
		return fmt.Errorf("decode event %s: %w", id, err)
	}

	ref, err := w.sheets.Append(ctx, e)
	if err != nil {
		return fmt.Errorf("append to sheet: %w", err)
	}
	w.seen.Set(id, ref)

	w.logger.InfoContext(ctx, "Expense mirrored",
		log.FieldEventID, id,
		log.FieldOperation, log.OpMirror,
		"ref", ref)
	return nil
}

// Run consumes from c until ctx is cancelled.
func (w *MirrorWorker) Run(ctx context.Context, c Consumer) error {
	return c.ConsumeExpenseRecorded(ctx, func(evt events.ExpenseRecorded) error {
		return w.HandleExpenseRecorded(ctx, evt)
	})
}

// Cache exposes the seen-event cache for registration with a cache.Manager.
func (w *MirrorWorker) Cache() cache.Cleaner {
	return w.seen
}
