package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the on-disk and on-screen format of an expense timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

const (
	Alimentacao Category = "Alimentação"
	Transporte  Category = "Transporte"
	Lazer       Category = "Lazer"
	Moradia     Category = "Moradia"
	Saude       Category = "Saúde"
	Educacao    Category = "Educação"
	Outros      Category = "Outros"
)

type (
	Category string

	// Expense is one logged entry of the ledger. Records are never mutated
	// once appended.
	Expense struct {
		Timestamp   time.Time
		Description string
		Amount      decimal.Decimal
		Category    Category
	}

	// CategoryAmount represents an amount aggregated by category name.
	CategoryAmount struct {
		Category Category
		Amount   decimal.Decimal
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrMissingSeparator = errors.New("missing separator")
	ErrUnknownCategory  = errors.New("unknown category")
)

// Categories lists every category in priority order, fallback last.
func Categories() []Category {
	return []Category{Alimentacao, Transporte, Lazer, Moradia, Saude, Educacao, Outros}
}

func (c Category) String() string {
	return string(c)
}

// IsValid reports whether c belongs to the closed category set.
func (c Category) IsValid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// NewExpense builds a record stamped at now, truncated to the second, with the
// description trimmed and the amount rounded to cents.
func NewExpense(now time.Time, description string, amount decimal.Decimal, category Category) Expense {
	return Expense{
		Timestamp:   now.Truncate(time.Second),
		Description: strings.TrimSpace(description),
		Amount:      amount.Round(2),
		Category:    category,
	}
}

func (e Expense) Validate() error {
	if e.Timestamp.IsZero() {
		return errors.New("timestamp cannot be zero")
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if !e.Category.IsValid() {
		return ErrUnknownCategory
	}
	return nil
}

// SameEntry reports whether two records carry the same description, amount
// and category. Timestamps are ignored.
func (e Expense) SameEntry(description string, amount decimal.Decimal, category Category) bool {
	return e.Description == description &&
		e.Amount.Round(2).Equal(amount.Round(2)) &&
		e.Category == category
}

// FormattedTimestamp renders the timestamp with TimestampLayout.
func (e Expense) FormattedTimestamp() string {
	return e.Timestamp.Format(TimestampLayout)
}
