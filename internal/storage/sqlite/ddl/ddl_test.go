package ddl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gddl "travel-etl/internal/ddl"
)

func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	got, err := BuildCreateTableSQL(gddl.TableDef{
		FQN: "main.enriched_tickets",
		Columns: []gddl.ColumnDef{
			{Name: "amount", Kind: gddl.KindFloat},
			{Name: "range", Kind: gddl.KindInt},
			{Name: `odd"name`, Kind: gddl.KindText, Nullable: true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"CREATE TABLE IF NOT EXISTS \"main\".\"enriched_tickets\" (\n  \"amount\" REAL NOT NULL,\n  \"range\" INTEGER NOT NULL,\n  \"odd\"\"name\" TEXT\n);",
		got,
	)
}

func TestMapType(t *testing.T) {
	t.Parallel()

	cases := map[gddl.Kind]string{
		gddl.KindInt:       "INTEGER",
		gddl.KindBool:      "INTEGER",
		gddl.KindFloat:     "REAL",
		gddl.KindText:      "TEXT",
		gddl.KindTimestamp: "TEXT",
		gddl.KindBytes:     "BLOB",
		"unknown":          "TEXT",
	}
	for k, want := range cases {
		assert.Equal(t, want, MapType(k), string(k))
	}
}
