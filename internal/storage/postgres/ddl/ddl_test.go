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
		FQN: "public.enriched_tickets",
		Columns: []gddl.ColumnDef{
			{Name: "ticket_no", Kind: gddl.KindText, PrimaryKey: true},
			{Name: "amount", Kind: gddl.KindFloat},
			{Name: "book_date", Kind: gddl.KindTimestamp, Nullable: true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"CREATE TABLE IF NOT EXISTS \"public\".\"enriched_tickets\" (\n"+
			"  \"ticket_no\" TEXT NOT NULL,\n"+
			"  \"amount\" DOUBLE PRECISION NOT NULL,\n"+
			"  \"book_date\" TIMESTAMPTZ,\n"+
			"  PRIMARY KEY (\"ticket_no\")\n);",
		got,
	)

	_, err = BuildCreateTableSQL(gddl.TableDef{FQN: "t"})
	assert.ErrorContains(t, err, "postgres ddl: at least one column")
}

func TestMapType(t *testing.T) {
	t.Parallel()

	cases := map[gddl.Kind]string{
		gddl.KindInt:       "BIGINT",
		gddl.KindFloat:     "DOUBLE PRECISION",
		gddl.KindBool:      "BOOLEAN",
		gddl.KindTimestamp: "TIMESTAMPTZ",
		gddl.KindBytes:     "BYTEA",
		gddl.KindText:      "TEXT",
	}
	for k, want := range cases {
		assert.Equal(t, want, MapType(k), string(k))
	}
}
