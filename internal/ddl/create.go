// Package ddl models a destination table and renders CREATE TABLE statements
// for it.
//
// The model is dialect-agnostic. A Dialect supplies identifier quoting, the
// Kind to SQL type mapping, and the statement envelope (IF NOT EXISTS or an
// equivalent guard). Backend packages under internal/storage declare their
// Dialect and call BuildCreateTableSQL.
package ddl

import (
	"fmt"
	"strings"
)

// Dialect captures what differs between SQL backends when rendering DDL.
type Dialect struct {
	// Name prefixes error messages, e.g. "postgres".
	Name string
	// QuoteIdent quotes one identifier segment.
	QuoteIdent func(string) string
	// MapType maps a logical Kind to a column type.
	MapType func(Kind) string
	// Envelope wraps the quoted table name and the rendered column list into
	// the final statement. Nil renders a plain CREATE TABLE.
	Envelope func(fqn, body string) string
}

// BuildCreateTableSQL renders t for dialect d.
//
// Each column renders as `<name> <type> [NOT NULL] [DEFAULT <expr>]`; primary
// key columns are collected into a trailing PRIMARY KEY clause.
func BuildCreateTableSQL(d Dialect, t TableDef) (string, error) {
	prefix := "ddl"
	if d.Name != "" {
		prefix = d.Name + " ddl"
	}
	quote := d.QuoteIdent
	if quote == nil {
		quote = func(s string) string { return s }
	}

	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("%s: table FQN must not be empty", prefix)
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("%s: at least one column is required", prefix)
	}

	cols := make([]string, 0, len(t.Columns)+1)
	var pks []string
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("%s: column with empty name in table %s", prefix, fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" && d.MapType != nil && c.Kind != "" {
			typ = d.MapType(c.Kind)
		}
		if typ == "" {
			return "", fmt.Errorf("%s: column %s missing SQLType", prefix, name)
		}

		var sb strings.Builder
		sb.WriteString(quote(name))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}
		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, quote(name))
		}
	}
	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	qfqn := QuoteFQN(fqn, quote)
	body := strings.Join(cols, ",\n  ")
	if d.Envelope != nil {
		return d.Envelope(qfqn, body), nil
	}
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", qfqn, body), nil
}

// QuoteFQN quotes each dotted segment of fqn with quote. Empty segments are
// dropped.
func QuoteFQN(fqn string, quote func(string) string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, quote(p))
	}
	return strings.Join(out, ".")
}

// SplitFQN splits "schema.table" into its parts. A bare name yields an empty
// schema.
func SplitFQN(fqn string) (schema, name string) {
	fqn = strings.TrimSpace(fqn)
	if i := strings.LastIndex(fqn, "."); i >= 0 {
		return strings.TrimSpace(fqn[:i]), strings.TrimSpace(fqn[i+1:])
	}
	return "", fqn
}
