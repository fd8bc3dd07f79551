// Package testhelpers builds small travel-booking SQLite databases for tests.
package testhelpers

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"travel-etl/internal/table"
)

// Column is a fixture column with its declared SQL type.
type Column struct {
	Name string
	Type string
}

// Schema mirrors the column layout of the public airline demo database, in
// catalog order.
var Schema = []struct {
	Name    string
	Columns []Column
}{
	{"aircrafts_data", []Column{{"aircraft_code", "character(3)"}, {"model", "jsonb"}, {"range", "integer"}}},
	{"airports_data", []Column{{"airport_code", "character(3)"}, {"airport_name", "jsonb"}, {"city", "jsonb"}, {"coordinates", "point"}, {"timezone", "text"}}},
	{"boarding_passes", []Column{{"ticket_no", "character(13)"}, {"flight_id", "integer"}, {"boarding_no", "integer"}, {"seat_no", "character varying(4)"}}},
	{"bookings", []Column{{"book_ref", "character(6)"}, {"book_date", "timestamptz"}, {"total_amount", "numeric"}}},
	{"flights", []Column{
		{"flight_id", "integer"}, {"flight_no", "character(6)"},
		{"scheduled_departure", "timestamptz"}, {"scheduled_arrival", "timestamptz"},
		{"departure_airport", "character(3)"}, {"arrival_airport", "character(3)"},
		{"status", "character varying(20)"}, {"aircraft_code", "character(3)"},
		{"actual_departure", "timestamptz"}, {"actual_arrival", "timestamptz"},
	}},
	{"seats", []Column{{"aircraft_code", "character(3)"}, {"seat_no", "character varying(4)"}, {"fare_conditions", "character varying(10)"}}},
	{"ticket_flights", []Column{{"ticket_no", "character(13)"}, {"flight_id", "integer"}, {"fare_conditions", "character varying(10)"}, {"amount", "numeric"}}},
	{"tickets", []Column{{"ticket_no", "character(13)"}, {"book_ref", "character(6)"}, {"passenger_id", "character varying(20)"}, {"passenger_name", "text"}}},
}

func createTableSQL(name string, cols []Column) string {
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = fmt.Sprintf("%q %s", c.Name, c.Type)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(defs, ", "))
}

// Fixture holds the rows to insert per table, in Schema column order.
type Fixture map[string][][]any

// Minimal returns one booking, one ticket, one ticket_flight, one flight, one
// aircraft and two airports (SVO departure, LED arrival).
func Minimal() Fixture {
	return Fixture{
		"aircrafts_data": {
			{"773", `{"en": "Boeing 777-300", "ru": "Боинг 777-300"}`, int64(11100)},
		},
		"airports_data": {
			{"SVO", `{"en": "Sheremetyevo International Airport", "ru": "Шереметьево"}`, `{"en": "Moscow", "ru": "Москва"}`, "(37.41,55.97)", "Europe/Moscow"},
			{"LED", `{"en": "Pulkovo Airport", "ru": "Пулково"}`, `{"en": "St. Petersburg", "ru": "Санкт-Петербург"}`, "(30.26,59.80)", "Europe/Moscow"},
		},
		"bookings": {
			{"00000F", "2017-07-05 03:12:00+03", 265700.0},
		},
		"flights": {
			{int64(1), "PG0403", "2017-08-10 09:25:00+03", "2017-08-10 10:20:00+03", "SVO", "LED", "Arrived", "773", "2017-08-10 09:27:00+03", "2017-08-10 10:22:00+03"},
		},
		"ticket_flights": {
			{"0005432000987", int64(1), "Economy", 6200.0},
		},
		"tickets": {
			{"0005432000987", "00000F", "8149 604011", "VALERIY TIKHONOV"},
		},
		"seats":           {{"773", "1A", "Business"}},
		"boarding_passes": {{"0005432000987", int64(1), int64(1), "1A"}},
	}
}

// WriteDB creates a SQLite file in a temp dir holding the Schema tables and the
// fixture rows, and returns its path.
func WriteDB(tb testing.TB, f Fixture) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "travel.sqlite")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		tb.Fatalf("open fixture db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	for _, s := range Schema {
		if _, err := db.ExecContext(ctx, createTableSQL(s.Name, s.Columns)); err != nil {
			tb.Fatalf("create %s: %v", s.Name, err)
		}
		for _, row := range f[s.Name] {
			ph := strings.TrimSuffix(strings.Repeat("?, ", len(row)), ", ")
			stmt := fmt.Sprintf("INSERT INTO %s VALUES (%s)", s.Name, ph)
			if _, err := db.ExecContext(ctx, stmt, row...); err != nil {
				tb.Fatalf("insert into %s: %v", s.Name, err)
			}
		}
	}
	return path
}

// Set builds the fixture in memory, skipping SQLite entirely. Values keep the
// Go types written in the fixture.
func (f Fixture) Set() table.Set {
	set := make(table.Set, len(Schema))
	for _, s := range Schema {
		t := &table.Table{Name: s.Name, Columns: make([]table.Column, len(s.Columns))}
		for i, c := range s.Columns {
			t.Columns[i] = table.Column{Name: c.Name, Type: c.Type}
		}
		for _, row := range f[s.Name] {
			t.Append(append([]any(nil), row...)...)
		}
		set[s.Name] = t
	}
	return set
}

// Clone returns a copy whose row slices can be modified freely.
func (f Fixture) Clone() Fixture {
	out := make(Fixture, len(f))
	for k, rows := range f {
		cp := make([][]any, len(rows))
		for i, r := range rows {
			cp[i] = append([]any(nil), r...)
		}
		out[k] = cp
	}
	return out
}
