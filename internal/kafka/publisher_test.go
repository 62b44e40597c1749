package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/core"
	"gastos/internal/events"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublishExpenseRecorded(t *testing.T) {
	w := &fakeWriter{}
	p := NewPublisherWithWriter(w, "expense_recorded")
	evt := events.NewExpenseRecorded(core.NewExpense(time.Now(), "Pizza", decimal.NewFromInt(40), core.Alimentacao))

	require.NoError(t, p.PublishExpenseRecorded(context.Background(), evt))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, evt.ID.String(), string(w.msgs[0].Key))

	got, err := events.ExpenseRecordedFromJSON(w.msgs[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "40.00", got.Amount)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishExpenseRecordedWriteError(t *testing.T) {
	boom := errors.New("leader not available")
	p := NewPublisherWithWriter(&fakeWriter{err: boom}, "expense_recorded")
	evt := events.NewExpenseRecorded(core.NewExpense(time.Now(), "Pizza", decimal.NewFromInt(40), core.Alimentacao))

	err := p.PublishExpenseRecorded(context.Background(), evt)
	assert.ErrorIs(t, err, boom)
}
