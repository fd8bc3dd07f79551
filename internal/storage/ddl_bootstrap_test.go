package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-etl/internal/ddl"
)

func TestEnsureTable(t *testing.T) {
	t.Parallel()

	RegisterDDL("fake-ddl", ExecCreate(func(def ddl.TableDef) (string, error) {
		return ddl.BuildCreateTableSQL(ddl.Dialect{MapType: func(ddl.Kind) string { return "TEXT" }}, def)
	}))

	repo := &fakeRepo{}
	def := ddl.TableDef{FQN: "enriched", Columns: []ddl.ColumnDef{{Name: "model", Kind: ddl.KindText, Nullable: true}}}
	require.NoError(t, EnsureTable(context.Background(), "fake-ddl", repo, def))
	assert.Equal(t, []string{"CREATE TABLE enriched (\n  model TEXT\n);"}, repo.execs)
}

func TestEnsureTable_BuildError(t *testing.T) {
	t.Parallel()

	want := errors.New("bad def")
	RegisterDDL("fake-ddl-err", ExecCreate(func(ddl.TableDef) (string, error) { return "", want }))

	repo := &fakeRepo{}
	err := EnsureTable(context.Background(), "fake-ddl-err", repo, ddl.TableDef{})
	assert.ErrorIs(t, err, want)
	assert.Empty(t, repo.execs)
}

func TestEnsureTable_Unregistered(t *testing.T) {
	t.Parallel()

	err := EnsureTable(context.Background(), "nope", &fakeRepo{}, ddl.TableDef{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `storage.kind="nope"`)
}
