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
		FQN: "dbo.enriched_tickets",
		Columns: []gddl.ColumnDef{
			{Name: "model", Kind: gddl.KindText, Nullable: true},
			{Name: "range", Kind: gddl.KindInt},
		},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"IF OBJECT_ID(N'[dbo].[enriched_tickets]', N'U') IS NULL\nBEGIN\n"+
			"  CREATE TABLE [dbo].[enriched_tickets] (\n"+
			"  [model] NVARCHAR(MAX),\n"+
			"  [range] BIGINT NOT NULL\n  );\nEND;",
		got,
	)
}

func TestQuoteIdent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[a]]b]", QuoteIdent("a]b"))
}

func TestMapType(t *testing.T) {
	t.Parallel()

	cases := map[gddl.Kind]string{
		gddl.KindInt:       "BIGINT",
		gddl.KindFloat:     "FLOAT",
		gddl.KindBool:      "BIT",
		gddl.KindTimestamp: "DATETIMEOFFSET",
		gddl.KindBytes:     "VARBINARY(MAX)",
		gddl.KindText:      "NVARCHAR(MAX)",
	}
	for k, want := range cases {
		assert.Equal(t, want, MapType(k), string(k))
	}
}
