package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/core"
	"gastos/internal/events"
)

type fakeSheet struct {
	rows []core.Expense
	err  error
}

func (f *fakeSheet) Append(_ context.Context, e core.Expense) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.rows = append(f.rows, e)
	return "Gastos!A2:D2", nil
}

func event() events.ExpenseRecorded {
	return events.NewExpenseRecorded(core.NewExpense(
		time.Date(2025, 10, 5, 20, 0, 0, 0, time.UTC), "Cinema", decimal.RequireFromString("30"), core.Lazer))
}

func TestHandleExpenseRecordedAppendsOnce(t *testing.T) {
	sheet := &fakeSheet{}
	w := NewMirrorWorker(sheet)
	evt := event()
	ctx := context.Background()

	require.NoError(t, w.HandleExpenseRecorded(ctx, evt))
	require.NoError(t, w.HandleExpenseRecorded(ctx, evt))

	require.Len(t, sheet.rows, 1)
	assert.Equal(t, "Cinema", sheet.rows[0].Description)
	assert.Equal(t, core.Lazer, sheet.rows[0].Category)
}

func TestHandleExpenseRecordedSheetFailure(t *testing.T) {
	sheet := &fakeSheet{err: errors.New("quota exceeded")}
	w := NewMirrorWorker(sheet)
	evt := event()

	assert.Error(t, w.HandleExpenseRecorded(context.Background(), evt))

	sheet.err = nil
	require.NoError(t, w.HandleExpenseRecorded(context.Background(), evt))
	assert.Len(t, sheet.rows, 1)
}

type sliceConsumer struct{ evts []events.ExpenseRecorded }

func (s sliceConsumer) ConsumeExpenseRecorded(ctx context.Context, handler func(events.ExpenseRecorded) error) error {
	for _, e := range s.evts {
		if err := handler(e); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func TestRun(t *testing.T) {
	sheet := &fakeSheet{}
	w := NewMirrorWorker(sheet)

	require.NoError(t, w.Run(context.Background(), sliceConsumer{evts: []events.ExpenseRecorded{event(), event()}}))
	assert.Len(t, sheet.rows, 2)
	assert.NotNil(t, w.Cache())
}
