// Package csvfile persists the ledger as a flat CSV file with the header
// data,descricao,valor,categoria.
//
// Fields are written with standard CSV quoting, so descriptions containing the
// delimiter round-trip. A file produced by older writers without quoting still
// reads as long as no description contains a comma.
package csvfile

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gocarina/gocsv"

	"gastos/internal/core"
	"gastos/internal/ledger"
)

// Header is the first line of every ledger file.
const Header = "data,descricao,valor,categoria"

var _ ledger.Store = (*Store)(nil)

// row is the on-disk shape of one record.
type row struct {
	Data      string `csv:"data"`
	Descricao string `csv:"descricao"`
	Valor     string `csv:"valor"`
	Categoria string `csv:"categoria"`
}

// Store is a ledger.Store backed by a CSV file.
type Store struct {
	mu   sync.Mutex
	path string
	loc  *time.Location
}

// Option configures a Store.
type Option func(*Store)

// WithLocation sets the zone timestamps are written and parsed in.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func New(path string, opts ...Option) *Store {
	s := &Store{path: path, loc: time.Local}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// ReadAll parses the whole file. A missing or empty file is an empty ledger;
// any row that does not parse fails the read.
func (s *Store) ReadAll(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []core.Expense{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []core.Expense{}, nil
	}

	// Older writers did not quote fields, so a bare '"' inside a
	// description is accepted as a literal.
	r := csv.NewReader(bytes.NewReader(data))
	r.LazyQuotes = true

	var rows []row
	if err := gocsv.UnmarshalCSV(r, &rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}

	out := make([]core.Expense, 0, len(rows))
	for i, r := range rows {
		e, err := s.decode(r)
		if err != nil {
			// +2: one for the header, one for 1-based numbering.
			return nil, fmt.Errorf("parse %s row %d: %w", s.path, i+2, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// Append writes e at the end of the file, preceded by the header when the
// file is new or empty.
func (s *Store) Append(_ context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ledger directory: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", s.path, err)
	}

	var buf bytes.Buffer
	rows := []row{s.encode(e)}
	if info.Size() == 0 {
		err = gocsv.Marshal(rows, &buf)
	} else {
		err = gocsv.MarshalWithoutHeaders(rows, &buf)
	}
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", s.path, err)
	}
	return nil
}

// Encode writes records to w in the file format, header included.
func Encode(w io.Writer, records []core.Expense, loc *time.Location) error {
	if len(records) == 0 {
		_, err := io.WriteString(w, Header+"\n")
		return err
	}
	s := New("", WithLocation(loc))
	rows := make([]row, 0, len(records))
	for _, e := range records {
		rows = append(rows, s.encode(e))
	}
	return gocsv.Marshal(rows, w)
}

func (s *Store) encode(e core.Expense) row {
	return row{
		Data:      e.Timestamp.In(s.loc).Format(core.TimestampLayout),
		Descricao: e.Description,
		Valor:     core.FormatAmount(e.Amount),
		Categoria: e.Category.String(),
	}
}

func (s *Store) decode(r row) (core.Expense, error) {
	ts, err := time.ParseInLocation(core.TimestampLayout, strings.TrimSpace(r.Data), s.loc)
	if err != nil {
		return core.Expense{}, fmt.Errorf("timestamp %q: %w", r.Data, err)
	}
	amount, err := core.ParseAmount(r.Valor)
	if err != nil {
		return core.Expense{}, fmt.Errorf("amount %q: %w", r.Valor, err)
	}
	cat := core.Category(strings.TrimSpace(r.Categoria))
	if !cat.IsValid() {
		return core.Expense{}, fmt.Errorf("category %q: %w", r.Categoria, core.ErrUnknownCategory)
	}
	return core.Expense{
		Timestamp:   ts,
		Description: r.Descricao,
		Amount:      amount,
		Category:    cat,
	}, nil
}
