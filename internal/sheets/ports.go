// Package sheets holds the ports of the spreadsheet mirror.
package sheets

import (
	"context"

	"gastos/internal/core"
)

// ExpenseWriter appends one expense row and returns a reference to it.
type ExpenseWriter interface {
	Append(ctx context.Context, e core.Expense) (rowRef string, err error)
}
