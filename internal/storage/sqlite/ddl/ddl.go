// Package ddl renders SQLite CREATE TABLE statements for the export table.
package ddl

import (
	"strings"

	gddl "travel-etl/internal/ddl"
)

// Dialect uses double-quoted identifiers and CREATE TABLE IF NOT EXISTS.
var Dialect = gddl.Dialect{
	Name:       "sqlite",
	QuoteIdent: QuoteIdent,
	MapType:    MapType,
	Envelope: func(fqn, body string) string {
		return "CREATE TABLE IF NOT EXISTS " + fqn + " (\n  " + body + "\n);"
	},
}

// BuildCreateTableSQL renders t for SQLite.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.BuildCreateTableSQL(Dialect, t)
}

// MapType maps a logical kind to a SQLite type affinity. Booleans are stored
// as 0/1 and timestamps as ISO-8601 text.
func MapType(k gddl.Kind) string {
	switch k {
	case gddl.KindInt, gddl.KindBool:
		return "INTEGER"
	case gddl.KindFloat:
		return "REAL"
	case gddl.KindBytes:
		return "BLOB"
	default:
		return "TEXT"
	}
}

// QuoteIdent quotes one identifier.
func QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
