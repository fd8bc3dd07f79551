// Package ddl renders SQL Server CREATE TABLE statements for the export table.
// SQL Server has no CREATE TABLE IF NOT EXISTS; the statement is guarded with
// OBJECT_ID instead.
package ddl

import (
	"fmt"
	"strings"

	gddl "travel-etl/internal/ddl"
)

// Dialect uses bracketed identifiers and an OBJECT_ID guard.
var Dialect = gddl.Dialect{
	Name:       "mssql",
	QuoteIdent: QuoteIdent,
	MapType:    MapType,
	Envelope: func(fqn, body string) string {
		return fmt.Sprintf(
			"IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n  CREATE TABLE %s (\n  %s\n  );\nEND;",
			strings.ReplaceAll(fqn, "'", "''"), fqn, body,
		)
	},
}

// BuildCreateTableSQL renders t for SQL Server.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.BuildCreateTableSQL(Dialect, t)
}

// MapType maps a logical kind to a SQL Server column type.
func MapType(k gddl.Kind) string {
	switch k {
	case gddl.KindInt:
		return "BIGINT"
	case gddl.KindFloat:
		return "FLOAT"
	case gddl.KindBool:
		return "BIT"
	case gddl.KindTimestamp:
		return "DATETIMEOFFSET"
	case gddl.KindBytes:
		return "VARBINARY(MAX)"
	default:
		return "NVARCHAR(MAX)"
	}
}

// QuoteIdent brackets one identifier.
func QuoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}
