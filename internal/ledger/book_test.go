package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/core"
	"gastos/internal/ledger"
	"gastos/internal/ledger/memory"
)

func expense(at time.Time, desc, amount string, cat core.Category) core.Expense {
	return core.NewExpense(at, desc, decimal.RequireFromString(amount), cat)
}

func TestBookRecordSuppressesDuplicateOfLast(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	book := ledger.NewBook(store)
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	ok, err := book.Record(ctx, expense(now, "Café", "10.50", core.Alimentacao))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = book.Record(ctx, expense(now.Add(time.Minute), "Café", "10.5", core.Alimentacao))
	require.NoError(t, err)
	assert.False(t, ok, "same triple right after must be suppressed")
	assert.Equal(t, 1, store.Len())

	ok, err = book.Record(ctx, expense(now, "Uber", "23.90", core.Transporte))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = book.Record(ctx, expense(now, "Café", "10.50", core.Alimentacao))
	require.NoError(t, err)
	assert.True(t, ok, "triple after a different entry is not a duplicate")
	assert.Equal(t, 3, store.Len())
}

func TestBookIsDuplicateOfLast(t *testing.T) {
	ctx := context.Background()
	book := ledger.NewBook(memory.New())

	dup, err := book.IsDuplicateOfLast(ctx, "Café", decimal.RequireFromString("1"), core.Alimentacao)
	require.NoError(t, err)
	assert.False(t, dup, "empty ledger has no last record")

	_, err = book.Record(ctx, expense(time.Now(), "Café", "1", core.Alimentacao))
	require.NoError(t, err)

	dup, err = book.IsDuplicateOfLast(ctx, "Café", decimal.RequireFromString("1.00"), core.Alimentacao)
	require.NoError(t, err)
	assert.True(t, dup)
}

func TestBookConcurrentSameEntryRecordsOnce(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	book := ledger.NewBook(store)
	e := expense(time.Now(), "Pizza", "40.00", core.Alimentacao)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = book.Record(ctx, e)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, store.Len())
}

type failingStore struct {
	readErr, appendErr error
}

func (f failingStore) ReadAll(context.Context) ([]core.Expense, error) { return nil, f.readErr }
func (f failingStore) Append(context.Context, core.Expense) error      { return f.appendErr }

func TestBookPropagatesStoreErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")

	_, err := ledger.NewBook(failingStore{appendErr: boom}).Record(ctx, expense(time.Now(), "a", "1", core.Outros))
	assert.ErrorIs(t, err, boom)

	_, err = ledger.NewBook(failingStore{readErr: boom}).Records(ctx)
	assert.ErrorIs(t, err, boom)

	assert.ErrorIs(t, ledger.NewBook(failingStore{readErr: boom}).Ping(ctx), boom)
}

func TestBookRecordRejectsInvalid(t *testing.T) {
	store := memory.New()
	_, err := ledger.NewBook(store).Record(context.Background(), core.Expense{Timestamp: time.Now()})
	assert.ErrorIs(t, err, core.ErrEmptyDescription)
	assert.Equal(t, 0, store.Len())
}
