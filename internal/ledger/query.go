package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"gastos/internal/core"
)

// Recent returns the last n records, oldest first. The returned slice is a
// copy.
func Recent(records []core.Expense, n int) []core.Expense {
	if n <= 0 {
		return nil
	}
	start := len(records) - n
	if start < 0 {
		start = 0
	}
	out := make([]core.Expense, len(records)-start)
	copy(out, records[start:])
	return out
}

// DayTotal sums the records whose timestamp falls on the calendar day of now,
// evaluated in now's location.
func DayTotal(records []core.Expense, now time.Time) decimal.Decimal {
	y, m, d := now.Date()
	total := decimal.Zero
	for _, e := range records {
		ey, em, ed := e.Timestamp.In(now.Location()).Date()
		if ey == y && em == m && ed == d {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// MonthTotal sums the records of now's year and month.
func MonthTotal(records []core.Expense, now time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, e := range monthRecords(records, now) {
		total = total.Add(e.Amount)
	}
	return total
}

// MonthByCategory sums the records of now's month per category, in the order
// each category first appears in the ledger.
func MonthByCategory(records []core.Expense, now time.Time) []core.CategoryAmount {
	var out []core.CategoryAmount
	index := map[core.Category]int{}
	for _, e := range monthRecords(records, now) {
		i, seen := index[e.Category]
		if !seen {
			index[e.Category] = len(out)
			out = append(out, core.CategoryAmount{Category: e.Category, Amount: e.Amount})
			continue
		}
		out[i].Amount = out[i].Amount.Add(e.Amount)
	}
	return out
}

func monthRecords(records []core.Expense, now time.Time) []core.Expense {
	y, m, _ := now.Date()
	var out []core.Expense
	for _, e := range records {
		ey, em, _ := e.Timestamp.In(now.Location()).Date()
		if ey == y && em == m {
			out = append(out, e)
		}
	}
	return out
}
