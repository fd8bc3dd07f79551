// Package ddl renders PostgreSQL CREATE TABLE statements for the export table.
package ddl

import (
	"strings"

	gddl "travel-etl/internal/ddl"
)

// Dialect uses double-quoted identifiers and CREATE TABLE IF NOT EXISTS.
var Dialect = gddl.Dialect{
	Name:       "postgres",
	QuoteIdent: QuoteIdent,
	MapType:    MapType,
	Envelope: func(fqn, body string) string {
		return "CREATE TABLE IF NOT EXISTS " + fqn + " (\n  " + body + "\n);"
	},
}

// BuildCreateTableSQL renders t for PostgreSQL.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.BuildCreateTableSQL(Dialect, t)
}

// MapType maps a logical kind to a PostgreSQL column type.
func MapType(k gddl.Kind) string {
	switch k {
	case gddl.KindInt:
		return "BIGINT"
	case gddl.KindFloat:
		return "DOUBLE PRECISION"
	case gddl.KindBool:
		return "BOOLEAN"
	case gddl.KindTimestamp:
		return "TIMESTAMPTZ"
	case gddl.KindBytes:
		return "BYTEA"
	default:
		return "TEXT"
	}
}

// QuoteIdent quotes one identifier.
func QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
