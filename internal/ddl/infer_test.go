package ddl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-etl/internal/table"
)

func TestFromTable(t *testing.T) {
	t.Parallel()

	tbl := table.New("enriched_tickets",
		"amount",
		"total_amount",
		"city_arrival",
		"book_date",
		"mixed",
		"always_null",
		"flag",
		"raw",
	)
	ts := time.Date(2017, 7, 5, 0, 12, 0, 0, time.UTC)
	tbl.Append(int64(6200), 6200.0, "Moscow", ts, "x", nil, true, []byte("a"))
	tbl.Append(int64(18500), int64(18500), nil, ts, int64(1), nil, false, []byte("b"))

	def, err := FromTable("public.enriched_tickets", tbl)
	require.NoError(t, err)
	assert.Equal(t, "public.enriched_tickets", def.FQN)
	assert.Equal(t, []ColumnDef{
		{Name: "amount", Kind: KindInt},
		{Name: "total_amount", Kind: KindFloat},
		{Name: "city_arrival", Kind: KindText, Nullable: true},
		{Name: "book_date", Kind: KindTimestamp},
		{Name: "mixed", Kind: KindText},
		{Name: "always_null", Kind: KindText, Nullable: true},
		{Name: "flag", Kind: KindBool},
		{Name: "raw", Kind: KindBytes},
	}, def.Columns)
}

func TestFromTable_EmptyTableIsNullableText(t *testing.T) {
	t.Parallel()

	def, err := FromTable("t", table.New("t", "model"))
	require.NoError(t, err)
	assert.Equal(t, []ColumnDef{{Name: "model", Kind: KindText, Nullable: true}}, def.Columns)
}

func TestFromTable_Errors(t *testing.T) {
	t.Parallel()

	_, err := FromTable(" ", table.New("t", "a"))
	assert.Error(t, err)

	_, err = FromTable("t", table.New("t"))
	assert.Error(t, err)

	_, err = FromTable("t", nil)
	assert.Error(t, err)
}
