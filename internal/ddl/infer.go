package ddl

import (
	"fmt"
	"strings"
	"time"

	"travel-etl/internal/table"
)

// FromTable infers a TableDef named fqn from the values of tbl.
//
// A column's Kind is the common kind of its non-NULL values; int and float
// together widen to float, any other mix falls back to text. Columns that
// hold a NULL, or hold no values at all, are nullable. Column order follows
// tbl.
func FromTable(fqn string, tbl *table.Table) (TableDef, error) {
	if strings.TrimSpace(fqn) == "" {
		return TableDef{}, fmt.Errorf("ddl: table FQN must not be empty")
	}
	if tbl == nil || len(tbl.Columns) == 0 {
		return TableDef{}, fmt.Errorf("ddl: %s: no columns to infer from", fqn)
	}

	def := TableDef{FQN: fqn, Columns: make([]ColumnDef, len(tbl.Columns))}
	for c, col := range tbl.Columns {
		var (
			kind     Kind
			nullable = len(tbl.Rows) == 0
		)
		for _, row := range tbl.Rows {
			v := row[c]
			if v == nil {
				nullable = true
				continue
			}
			kind = widen(kind, kindOf(v))
		}
		if kind == "" {
			kind = KindText
			nullable = true
		}
		def.Columns[c] = ColumnDef{Name: col.Name, Kind: kind, Nullable: nullable}
	}
	return def, nil
}

func kindOf(v any) Kind {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return KindInt
	case float32, float64:
		return KindFloat
	case bool:
		return KindBool
	case time.Time:
		return KindTimestamp
	case []byte:
		return KindBytes
	default:
		return KindText
	}
}

func widen(have, next Kind) Kind {
	switch {
	case have == "" || have == next:
		return next
	case have == KindInt && next == KindFloat, have == KindFloat && next == KindInt:
		return KindFloat
	default:
		return KindText
	}
}
