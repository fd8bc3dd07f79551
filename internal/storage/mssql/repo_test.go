package mssql

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	gddl "travel-etl/internal/ddl"
	"travel-etl/internal/storage"
	"travel-etl/internal/table"
)

func TestNewRepository_Validation(t *testing.T) {
	t.Parallel()

	_, _, err := NewRepository(context.Background(), Config{DSN: "sqlserver://sa:pw@localhost"})
	assert.ErrorContains(t, err, "table must not be empty")

	_, _, err = NewRepository(context.Background(), Config{DSN: "sqlserver://localhost?connection+timeout=abc", Table: "t"})
	assert.ErrorContains(t, err, "mssql: dsn")
}

func TestAdapterUsesHookAndClose(t *testing.T) {
	orig := newRepository
	t.Cleanup(func() { newRepository = orig })

	var (
		got    Config
		closed int
	)
	newRepository = func(_ context.Context, cfg Config) (*Repository, func(), error) {
		got = cfg
		return &Repository{cfg: cfg}, func() { closed++ }, nil
	}

	want := storage.Config{Kind: "mssql", DSN: "sqlserver://example", Table: "dbo.target", Columns: []string{"id", "name"}}
	repo, err := storage.New(context.Background(), want)
	require.NoError(t, err)
	assert.Equal(t, Config{DSN: want.DSN, Table: want.Table, Columns: want.Columns}, got)

	repo.Close()
	assert.Equal(t, 1, closed)
}

func TestAdapterPropagatesOpenError(t *testing.T) {
	orig := newRepository
	t.Cleanup(func() { newRepository = orig })

	want := errors.New("login failed")
	newRepository = func(context.Context, Config) (*Repository, func(), error) { return nil, nil, want }

	_, err := storage.New(context.Background(), storage.Config{Kind: "mssql", DSN: "x", Table: "t"})
	assert.ErrorIs(t, err, want)
}

// TestExportIntegration runs against a live server when TEST_MSSQL_DSN is set.
func TestExportIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_MSSQL_DSN")
	if dsn == "" {
		t.Skip("set TEST_MSSQL_DSN to run")
	}

	ctx := context.Background()
	const fqn = "dbo.__travel_etl_export_test"

	repo, err := storage.New(ctx, storage.Config{Kind: "mssql", DSN: dsn, Table: fqn})
	require.NoError(t, err)
	defer repo.Close()
	require.NoError(t, repo.Exec(ctx, `IF OBJECT_ID(N'`+fqn+`', N'U') IS NOT NULL DROP TABLE `+fqn))

	tbl := table.New("enriched_tickets", "fare_conditions", "range")
	tbl.Append("Economy", int64(11100))

	def, err := gddl.FromTable(fqn, tbl)
	require.NoError(t, err)
	require.NoError(t, storage.EnsureTable(ctx, "mssql", repo, def))

	st, err := storage.Export(ctx, zap.NewNop(), repo, tbl, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.Rows)
	require.NoError(t, repo.Exec(ctx, `DROP TABLE `+fqn))
}
