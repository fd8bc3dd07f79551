// Package builtin contains the table transforms used by the travel pipeline:
// column projection (Drop), departure-side renaming (Rename) and localized
// name normalization (Localize).
package builtin

import (
	"fmt"
	"slices"

	"travel-etl/internal/etlerr"
	"travel-etl/internal/table"
)

// KeyColumns are the surrogate and foreign keys that only matter for joining.
var KeyColumns = []string{
	"flight_id", "aircraft_code", "airport_code", "airport_code_arrival",
	"ticket_no", "book_ref", "flight_no", "passenger_id",
}

// IrrelevantColumns are operational fields downstream consumers do not use.
var IrrelevantColumns = []string{
	"status", "timezone", "coordinates", "coordinates_arrival",
	"timezone_arrival", "actual_arrival", "actual_departure",
}

// DepartureRename gives the departure airport columns the same suffix
// convention as their _arrival counterparts.
var DepartureRename = map[string]string{
	"airport_name": "airport_name_departure",
	"city":         "city_departure",
}

// Drop removes the listed columns. By default every listed column must exist;
// IgnoreMissing makes the transform idempotent.
type Drop struct {
	Label         string
	Columns       []string
	IgnoreMissing bool
}

// DropKeys returns the strict key-column projection.
func DropKeys() Drop { return Drop{Label: "drop_keys", Columns: slices.Clone(KeyColumns)} }

// DropIrrelevant returns the strict irrelevant-column projection.
func DropIrrelevant() Drop {
	return Drop{Label: "drop_irrelevant", Columns: slices.Clone(IrrelevantColumns)}
}

func (d Drop) Name() string {
	if d.Label == "" {
		return "drop"
	}
	return d.Label
}

func (d Drop) Apply(in *table.Table) (*table.Table, error) {
	drop := make(map[string]bool, len(d.Columns))
	for _, c := range d.Columns {
		if !in.Has(c) && !d.IgnoreMissing {
			return nil, &etlerr.ColumnNotFoundError{Stage: d.Name(), Column: c}
		}
		drop[c] = true
	}
	keep := make([]int, 0, len(in.Columns))
	for i, c := range in.Columns {
		if !drop[c.Name] {
			keep = append(keep, i)
		}
	}
	return in.Select(keep), nil
}

// Rename renames columns per Mapping (old -> new). A source column that is
// absent is skipped; renaming onto a name that is already taken fails.
type Rename struct {
	Label   string
	Mapping map[string]string
}

func (r Rename) Name() string {
	if r.Label == "" {
		return "rename"
	}
	return r.Label
}

func (r Rename) Apply(in *table.Table) (*table.Table, error) {
	out := &table.Table{Name: in.Name, Columns: slices.Clone(in.Columns), Rows: in.Rows}
	seen := make(map[string]bool, len(out.Columns))
	for i, c := range out.Columns {
		if to, ok := r.Mapping[c.Name]; ok {
			out.Columns[i].Name = to
		}
	}
	for _, c := range out.Columns {
		if seen[c.Name] {
			return nil, fmt.Errorf("%s: column %q would be duplicated", r.Name(), c.Name)
		}
		seen[c.Name] = true
	}
	return out.Clone(), nil
}
