// Package sqlite implements datasource.Source on top of an embedded SQLite
// file using database/sql and the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"travel-etl/internal/datasource"
	"travel-etl/internal/etlerr"
	"travel-etl/internal/table"
)

const catalogQuery = "SELECT name FROM sqlite_master WHERE type='table';"

// Config holds the store location.
type Config struct {
	// DSN is a file path ("travel.sqlite") or a full SQLite URI
	// ("file:travel.sqlite?mode=ro"). Plain paths are opened read-only.
	DSN string

	// PingTimeout bounds the initial connectivity check. Zero means 5s.
	PingTimeout time.Duration
}

// Store is an open, read-only SQLite database.
type Store struct {
	db  *sql.DB
	dsn string
}

var _ datasource.Source = (*Store)(nil)

// Open opens the SQLite store and verifies it is a readable database. Any
// failure (missing file, permissions, not a database) is a ConnectionError.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, &etlerr.ConnectionError{DSN: cfg.DSN, Err: errors.New("DSN must not be empty")}
	}
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	db, err := sql.Open("sqlite", driverDSN(cfg.DSN))
	if err != nil {
		return nil, &etlerr.ConnectionError{DSN: cfg.DSN, Err: err}
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, &etlerr.ConnectionError{DSN: cfg.DSN, Err: err}
	}
	// SQLite reads the header lazily; touching the catalog surfaces
	// "file is not a database" here rather than at the first real query.
	var n int
	if err := db.QueryRowContext(pingCtx, "SELECT count(*) FROM sqlite_master").Scan(&n); err != nil {
		_ = db.Close()
		return nil, &etlerr.ConnectionError{DSN: cfg.DSN, Err: err}
	}

	return &Store{db: db, dsn: cfg.DSN}, nil
}

// driverDSN turns a plain path into a read-only URI so a missing file is
// reported instead of silently created. The path is percent-escaped so '?',
// '#' and '%' in file names stay part of the path.
func driverDSN(dsn string) string {
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return dsn
	}
	u := url.URL{Scheme: "file", Opaque: (&url.URL{Path: dsn}).EscapedPath(), RawQuery: "mode=ro"}
	return u.String()
}

// Close releases the connection handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// TableNames lists every table in the catalog in catalog order.
func (s *Store) TableNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, catalogQuery)
	if err != nil {
		return nil, &etlerr.QueryError{Query: catalogQuery, Err: err}
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &etlerr.QueryError{Query: catalogQuery, Err: err}
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, &etlerr.QueryError{Query: catalogQuery, Err: err}
	}
	return names, nil
}

// LoadTable reads the whole table. Column order and declared types mirror the
// source schema; an empty table still carries its columns.
func (s *Store) LoadTable(ctx context.Context, name string) (*table.Table, error) {
	query := "SELECT * FROM " + quoteIdent(name)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &etlerr.QueryError{Table: name, Query: query, Err: err}
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, &etlerr.QueryError{Table: name, Query: query, Err: err}
	}
	t := &table.Table{Name: name, Columns: make([]table.Column, len(types))}
	for i, ct := range types {
		t.Columns[i] = table.Column{Name: ct.Name(), Type: ct.DatabaseTypeName()}
	}

	for rows.Next() {
		vals := make([]any, len(types))
		ptrs := make([]any, len(types))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &etlerr.QueryError{Table: name, Query: query, Err: fmt.Errorf("scan row %d: %w", len(t.Rows), err)}
		}
		for i, v := range vals {
			// Driver-owned buffers are only valid until the next Scan.
			if b, ok := v.([]byte); ok {
				vals[i] = append([]byte(nil), b...)
			}
		}
		t.Rows = append(t.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, &etlerr.QueryError{Table: name, Query: query, Err: err}
	}
	return t, nil
}

// Load opens the store, loads every table listed in its catalog and closes the
// store on every exit path.
func Load(ctx context.Context, cfg Config) (table.Set, error) {
	s, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return datasource.LoadAll(ctx, s)
}

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
