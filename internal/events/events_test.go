package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/core"
)

func sample() core.Expense {
	return core.NewExpense(time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC), "Netflix", decimal.RequireFromString("55.9"), core.Lazer)
}

func TestExpenseRecordedJSON(t *testing.T) {
	evt := NewExpenseRecorded(sample())
	assert.NotEqual(t, uuid.Nil, evt.ID)
	assert.Equal(t, "55.90", evt.Amount)

	body, err := evt.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(body), `"category":"Lazer"`)

	got, err := ExpenseRecordedFromJSON(body)
	require.NoError(t, err)
	assert.Equal(t, evt.ID, got.ID)

	e, err := got.Expense()
	require.NoError(t, err)
	assert.True(t, e.SameEntry("Netflix", decimal.RequireFromString("55.90"), core.Lazer))
}

func TestExpenseRecordedFromJSONRejects(t *testing.T) {
	bodies := []string{
		`not json`,
		`{"description":"x","amount":"1.00","category":"Outros","recorded_at":"2025-01-01T00:00:00Z"}`,
		`{"id":"` + uuid.NewString() + `","description":"x","amount":"abc","category":"Outros","recorded_at":"2025-01-01T00:00:00Z"}`,
		`{"id":"` + uuid.NewString() + `","description":"x","amount":"1.00","category":"Casa","recorded_at":"2025-01-01T00:00:00Z"}`,
	}
	for _, b := range bodies {
		_, err := ExpenseRecordedFromJSON([]byte(b))
		assert.Error(t, err, b)
	}
}

type recorder struct {
	got []ExpenseRecorded
	err error
}

func (r *recorder) PublishExpenseRecorded(_ context.Context, evt ExpenseRecorded) error {
	r.got = append(r.got, evt)
	return r.err
}

func TestMultiPublishesToAll(t *testing.T) {
	boom := errors.New("broker down")
	a, b := &recorder{err: boom}, &recorder{}
	evt := NewExpenseRecorded(sample())

	err := Multi{a, b}.PublishExpenseRecorded(context.Background(), evt)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)

	assert.NoError(t, Multi{}.PublishExpenseRecorded(context.Background(), evt))
	assert.NoError(t, Nop{}.PublishExpenseRecorded(context.Background(), evt))
}
