// Package table holds the in-memory tabular container passed between pipeline
// stages. A Table is treated as a value: transforms build a new Table instead
// of mutating the one they were given.
package table

import (
	"fmt"
	"slices"
)

// Column is a named column with the declared type reported by the source
// (empty when the source does not declare one).
type Column struct {
	Name string
	Type string
}

// Table is an ordered set of columns plus row-major data. len(row) always
// equals len(Columns).
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// Set maps table name to table, as produced by the loader.
type Set map[string]*Table

// New returns an empty table with the given column names and no declared types.
func New(name string, columns ...string) *Table {
	cols := make([]Column, len(columns))
	for i, c := range columns {
		cols[i] = Column{Name: c}
	}
	return &Table{Name: name, Columns: cols}
}

// Append adds a row. It panics when the row width does not match the column
// count, which is always a programming error.
func (t *Table) Append(row ...any) {
	if len(row) != len(t.Columns) {
		panic(fmt.Sprintf("table %s: row width %d != %d columns", t.Name, len(row), len(t.Columns)))
	}
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Has reports whether the named column exists.
func (t *Table) Has(name string) bool { return t.Index(name) >= 0 }

// Value returns the cell at row r for the named column.
func (t *Table) Value(r int, name string) (any, bool) {
	i := t.Index(name)
	if i < 0 || r < 0 || r >= len(t.Rows) {
		return nil, false
	}
	return t.Rows[r][i], true
}

// Clone returns a deep copy of the column list and the row slices. Cell values
// are copied shallowly except []byte, which is duplicated.
func (t *Table) Clone() *Table {
	out := &Table{
		Name:    t.Name,
		Columns: slices.Clone(t.Columns),
		Rows:    make([][]any, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = cloneRow(row)
	}
	return out
}

// Select returns a new table holding only the columns at the given positions,
// in the given order.
func (t *Table) Select(idx []int) *Table {
	out := &Table{
		Name:    t.Name,
		Columns: make([]Column, len(idx)),
		Rows:    make([][]any, len(t.Rows)),
	}
	for j, i := range idx {
		out.Columns[j] = t.Columns[i]
	}
	for r, row := range t.Rows {
		nr := make([]any, len(idx))
		for j, i := range idx {
			nr[j] = row[i]
		}
		out.Rows[r] = nr
	}
	return out
}

// Records converts rows to column-name keyed maps. Useful for display and
// tests; the pipeline itself stays row-major.
func (t *Table) Records() []map[string]any {
	out := make([]map[string]any, len(t.Rows))
	for r, row := range t.Rows {
		m := make(map[string]any, len(t.Columns))
		for i, c := range t.Columns {
			m[c.Name] = row[i]
		}
		out[r] = m
	}
	return out
}

func cloneRow(row []any) []any {
	out := make([]any, len(row))
	for i, v := range row {
		if b, ok := v.([]byte); ok {
			v = slices.Clone(b)
		}
		out[i] = v
	}
	return out
}
