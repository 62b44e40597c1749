package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"gastos/internal/core"
	"gastos/internal/ledger"
)

// Dialect names a supported SQL backend. The value doubles as the migrations
// directory name.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

func (d Dialect) driverName() string {
	return string(d)
}

var (
	_ ledger.Store  = (*SQLRepository)(nil)
	_ ledger.Pinger = (*SQLRepository)(nil)
)

// SQLRepository is a ledger.Store over database/sql. Row order is the
// auto-increment id, which is insertion order.
type SQLRepository struct {
	db      *sql.DB
	dialect Dialect
	loc     *time.Location
}

// NewSQLiteRepository opens (creating if needed) the SQLite file at dbPath and
// migrates it.
func NewSQLiteRepository(dbPath string, loc *time.Location) (*SQLRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	return open(DialectSQLite, dbPath, loc)
}

// NewPostgresRepository connects to dsn and migrates the schema.
func NewPostgresRepository(dsn string, loc *time.Location) (*SQLRepository, error) {
	return open(DialectPostgres, dsn, loc)
}

func open(d Dialect, dsn string, loc *time.Location) (*SQLRepository, error) {
	if loc == nil {
		loc = time.Local
	}

	db, err := sql.Open(d.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", d, err)
	}
	if d == DialectSQLite {
		// One connection keeps appends strictly sequential.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(d, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLRepository{db: db, dialect: d, loc: loc}, nil
}

func (r *SQLRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping implements ledger.Pinger.
func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ReadAll implements ledger.Store.
func (r *SQLRepository) ReadAll(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT recorded_at, description, amount, category FROM expenses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	out := []core.Expense{}
	for rows.Next() {
		e, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

// Append implements ledger.Store.
func (r *SQLRepository) Append(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}

	var err error
	switch r.dialect {
	case DialectPostgres:
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO expenses (recorded_at, description, amount, category) VALUES ($1, $2, $3, $4)`,
			e.Timestamp, e.Description, core.FormatAmount(e.Amount), e.Category.String())
	default:
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO expenses (recorded_at, description, amount, category) VALUES (?, ?, ?, ?)`,
			e.Timestamp.Unix(), e.Description, core.FormatAmount(e.Amount), e.Category.String())
	}
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	slog.DebugContext(ctx, "Expense saved",
		"dialect", r.dialect,
		"description", e.Description,
		"amount", core.FormatAmount(e.Amount),
		"category", e.Category)
	return nil
}

func (r *SQLRepository) scan(rows *sql.Rows) (core.Expense, error) {
	var (
		e        core.Expense
		amount   decimal.Decimal
		category string
	)
	switch r.dialect {
	case DialectPostgres:
		var at time.Time
		if err := rows.Scan(&at, &e.Description, &amount, &category); err != nil {
			return core.Expense{}, fmt.Errorf("scan expense: %w", err)
		}
		e.Timestamp = at.In(r.loc)
	default:
		var unix int64
		if err := rows.Scan(&unix, &e.Description, &amount, &category); err != nil {
			return core.Expense{}, fmt.Errorf("scan expense: %w", err)
		}
		e.Timestamp = time.Unix(unix, 0).In(r.loc)
	}
	e.Amount = amount.Round(2)
	e.Category = core.Category(category)
	return e, nil
}
