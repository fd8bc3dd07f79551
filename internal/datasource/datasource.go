// Package datasource defines the read side of the pipeline: something that can
// enumerate its tables and load each one fully into memory.
package datasource

import (
	"context"
	"fmt"

	"travel-etl/internal/table"
)

// Source is a relational store opened for reading. Implementations own a
// connection handle that must be released with Close.
type Source interface {
	// TableNames returns the names of all tables in catalog order.
	TableNames(ctx context.Context) ([]string, error)
	// LoadTable reads every row and column of the named table.
	LoadTable(ctx context.Context, name string) (*table.Table, error)
	Close() error
}

// LoadTables loads every named table from src. The first failing table aborts
// the whole load; there is no partial result.
func LoadTables(ctx context.Context, src Source, names []string) (table.Set, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("load tables: no table names given")
	}
	out := make(table.Set, len(names))
	for _, name := range names {
		t, err := src.LoadTable(ctx, name)
		if err != nil {
			return nil, err
		}
		out[name] = t
	}
	return out, nil
}

// LoadAll enumerates the catalog of src and loads every table it lists.
func LoadAll(ctx context.Context, src Source) (table.Set, error) {
	names, err := src.TableNames(ctx)
	if err != nil {
		return nil, err
	}
	return LoadTables(ctx, src, names)
}
