// Package interpreter turns an inbound free-text message into a Result: either
// the answer to one of the fixed commands or the outcome of an expense entry.
package interpreter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gastos/internal/core"
	"gastos/internal/ledger"
	"gastos/internal/log"
)

// RecentLimit is how many records "listar" shows.
const RecentLimit = 5

const (
	cmdList   = "listar"
	cmdToday  = "total hoje"
	cmdMonth  = "total mês"
	cmdByCat  = "total categorias"
	cmdHelp   = "ajuda"
	cmdHelpEN = "help"
	entrySep  = "-"
)

// Kind tells the reply formatter which message to render.
type Kind int

const (
	KindUnknown Kind = iota
	KindRecent
	KindEmptyLedger
	KindTotalToday
	KindTotalMonth
	KindByCategory
	KindNoMonthExpenses
	KindHelp
	KindRecorded
	KindDuplicate
	KindInvalidFormat
	KindStorageError
)

var kindNames = map[Kind]string{
	KindUnknown:         "unknown",
	KindRecent:          "recent",
	KindEmptyLedger:     "empty_ledger",
	KindTotalToday:      "total_today",
	KindTotalMonth:      "total_month",
	KindByCategory:      "by_category",
	KindNoMonthExpenses: "no_month_expenses",
	KindHelp:            "help",
	KindRecorded:        "recorded",
	KindDuplicate:       "duplicate",
	KindInvalidFormat:   "invalid_format",
	KindStorageError:    "storage_error",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Result is the outcome of interpreting one message. Only the fields relevant
// to Kind are set.
type Result struct {
	Kind Kind

	// Records holds the listed records for KindRecent, oldest first.
	Records []core.Expense
	// Total holds the sum for KindTotalToday and KindTotalMonth.
	Total decimal.Decimal
	// Categories holds the per-category sums for KindByCategory.
	Categories []core.CategoryAmount
	// Now is the evaluation instant of time-scoped commands.
	Now time.Time
	// Expense is the parsed entry for KindRecorded and KindDuplicate.
	Expense core.Expense
	// Err carries the cause for KindInvalidFormat and KindStorageError.
	Err error
}

// Ledger is what the interpreter needs from the expense book.
type Ledger interface {
	Records(ctx context.Context) ([]core.Expense, error)
	Record(ctx context.Context, e core.Expense) (bool, error)
}

// Classifier maps a description to a category.
type Classifier interface {
	Classify(description string) core.Category
}

type Interpreter struct {
	ledger     Ledger
	classifier Classifier
	now        func() time.Time
	loc        *time.Location
	logger     *log.Logger
}

type Option func(*Interpreter)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(i *Interpreter) { i.now = now }
}

// WithLocation sets the zone in which "today" and "this month" are evaluated.
func WithLocation(loc *time.Location) Option {
	return func(i *Interpreter) {
		if loc != nil {
			i.loc = loc
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(i *Interpreter) {
		if l != nil {
			i.logger = l
		}
	}
}

func New(l Ledger, c Classifier, opts ...Option) *Interpreter {
	i := &Interpreter{
		ledger:     l,
		classifier: c,
		now:        time.Now,
		loc:        time.Local,
		logger:     log.WithComponent(log.ComponentInterpreter),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Interpret classifies text and executes it. It never returns an error: every
// failure is folded into a Result kind.
func (i *Interpreter) Interpret(ctx context.Context, text string) Result {
	switch normalize(text) {
	case cmdList:
		return i.recent(ctx)
	case cmdToday:
		return i.totalToday(ctx)
	case cmdMonth:
		return i.totalMonth(ctx)
	case cmdByCat:
		return i.byCategory(ctx)
	case cmdHelp, cmdHelpEN:
		return Result{Kind: KindHelp}
	default:
		return i.record(ctx, text)
	}
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func (i *Interpreter) clock() time.Time {
	return i.now().In(i.loc)
}

func (i *Interpreter) recent(ctx context.Context) Result {
	records, err := i.ledger.Records(ctx)
	if err != nil {
		return i.storageError(ctx, cmdList, err)
	}
	if len(records) == 0 {
		return Result{Kind: KindEmptyLedger}
	}
	return Result{Kind: KindRecent, Records: ledger.Recent(records, RecentLimit)}
}

func (i *Interpreter) totalToday(ctx context.Context) Result {
	records, err := i.ledger.Records(ctx)
	if err != nil {
		return i.storageError(ctx, cmdToday, err)
	}
	now := i.clock()
	return Result{Kind: KindTotalToday, Now: now, Total: ledger.DayTotal(records, now)}
}

func (i *Interpreter) totalMonth(ctx context.Context) Result {
	records, err := i.ledger.Records(ctx)
	if err != nil {
		return i.storageError(ctx, cmdMonth, err)
	}
	now := i.clock()
	return Result{Kind: KindTotalMonth, Now: now, Total: ledger.MonthTotal(records, now)}
}

func (i *Interpreter) byCategory(ctx context.Context) Result {
	records, err := i.ledger.Records(ctx)
	if err != nil {
		return i.storageError(ctx, cmdByCat, err)
	}
	now := i.clock()
	sums := ledger.MonthByCategory(records, now)
	if len(sums) == 0 {
		return Result{Kind: KindNoMonthExpenses, Now: now}
	}
	return Result{Kind: KindByCategory, Now: now, Categories: sums}
}

func (i *Interpreter) record(ctx context.Context, text string) Result {
	description, amount, err := ParseEntry(text)
	if err != nil {
		i.logger.DebugContext(ctx, "Rejected message", log.FieldError, err)
		return Result{Kind: KindInvalidFormat, Err: err}
	}

	category := i.classifier.Classify(description)
	e := core.NewExpense(i.clock(), description, amount, category)

	recorded, err := i.ledger.Record(ctx, e)
	if err != nil {
		return i.storageError(ctx, "record", err)
	}
	if !recorded {
		i.logger.InfoContext(ctx, "Duplicate expense ignored",
			log.FieldDescription, e.Description,
			log.FieldAmount, core.FormatAmount(e.Amount),
			log.FieldCategory, e.Category)
		return Result{Kind: KindDuplicate, Expense: e}
	}

	i.logger.InfoContext(ctx, "Expense recorded",
		log.FieldDescription, e.Description,
		log.FieldAmount, core.FormatAmount(e.Amount),
		log.FieldCategory, e.Category)
	return Result{Kind: KindRecorded, Expense: e}
}

func (i *Interpreter) storageError(ctx context.Context, op string, err error) Result {
	i.logger.ErrorContext(ctx, "Ledger access failed", log.FieldOperation, op, log.FieldError, err)
	return Result{Kind: KindStorageError, Err: err}
}

// ParseEntry splits "description - amount" on the first '-'. The description
// is trimmed and must not be empty. See core.ParseAmount for the amount.
func ParseEntry(text string) (string, decimal.Decimal, error) {
	left, right, found := strings.Cut(text, entrySep)
	if !found {
		return "", decimal.Zero, core.ErrMissingSeparator
	}
	description := strings.TrimSpace(left)
	if description == "" {
		return "", decimal.Zero, core.ErrEmptyDescription
	}
	amount, err := core.ParseAmount(right)
	if err != nil {
		return "", decimal.Zero, fmt.Errorf("parse amount %q: %w", strings.TrimSpace(right), err)
	}
	return description, amount, nil
}
