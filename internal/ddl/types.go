package ddl

// Kind is the logical type of a column, inferred from Go values and mapped to
// a concrete SQL type by each backend dialect.
type Kind string

const (
	KindInt       Kind = "int"
	KindFloat     Kind = "float"
	KindBool      Kind = "bool"
	KindText      Kind = "text"
	KindTimestamp Kind = "timestamp"
	KindBytes     Kind = "bytes"
)

// ColumnDef describes a single column of a table definition.
//
// Name is unquoted; quoting happens at render time. SQLType, when set, wins
// over Kind. Default is emitted as raw SQL.
type ColumnDef struct {
	Name       string
	Kind       Kind
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// TableDef holds the table name in dotted form ("schema.table" or "table")
// and its ordered columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}
