package storage

import (
	"context"
	"fmt"
	"sync"

	"travel-etl/internal/ddl"
)

// DDLBootstrapper creates the table described by def through repo when it
// does not exist yet. Backends register one per storage kind.
type DDLBootstrapper func(ctx context.Context, repo Repository, def ddl.TableDef) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) the DDLBootstrapper for kind.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureTable runs the DDLBootstrapper registered for kind.
func EnsureTable(ctx context.Context, kind string, repo Repository, def ddl.TableDef) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", kind)
	}
	return fn(ctx, repo, def)
}

// ExecCreate is a DDLBootstrapper helper: it renders def with build and runs
// the statement through repo.Exec.
func ExecCreate(build func(ddl.TableDef) (string, error)) DDLBootstrapper {
	return func(ctx context.Context, repo Repository, def ddl.TableDef) error {
		stmt, err := build(def)
		if err != nil {
			return err
		}
		return repo.Exec(ctx, stmt)
	}
}
