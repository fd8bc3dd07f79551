// Package join rebuilds one wide row per (ticket, flight segment) from the
// normalized travel tables. The join sequence is data (a Plan) so it can be
// inspected and tested apart from the hash join that executes it.
package join

import (
	"fmt"
	"strings"
)

// Table names used by the default plan.
const (
	TicketFlights = "ticket_flights"
	Flights       = "flights"
	Aircrafts     = "aircrafts_data"
	Airports      = "airports_data"
	Tickets       = "tickets"
	Bookings      = "bookings"
)

// OutputName names the joined table.
const OutputName = "enriched_tickets"

// Step is one inner join of the running result (left) with a source table
// (right). Non-key columns present on both sides get Suffixes[0] appended on
// the left copy and Suffixes[1] on the right copy.
type Step struct {
	Right    string
	LeftOn   string
	RightOn  string
	Suffixes [2]string
}

func (s Step) String() string {
	if s.LeftOn == s.RightOn {
		return fmt.Sprintf("⋈ %s on %s", s.Right, s.LeftOn)
	}
	return fmt.Sprintf("⋈ %s on %s=%s", s.Right, s.LeftOn, s.RightOn)
}

// Plan starts from Base and applies Steps in order. Order matters: it decides
// which copy of a colliding column keeps the bare name.
type Plan struct {
	Base  string
	Steps []Step
}

func (p Plan) String() string {
	parts := make([]string, 0, len(p.Steps)+1)
	parts = append(parts, p.Base)
	for _, s := range p.Steps {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, " ")
}

// Tables returns every table name the plan reads, base first, without
// duplicates.
func (p Plan) Tables() []string {
	seen := map[string]bool{p.Base: true}
	out := []string{p.Base}
	for _, s := range p.Steps {
		if !seen[s.Right] {
			seen[s.Right] = true
			out = append(out, s.Right)
		}
	}
	return out
}

// DefaultPlan is the fixed travel join:
//
//	ticket_flights
//	  ⋈ flights        on flight_id
//	  ⋈ aircrafts_data on aircraft_code
//	  ⋈ airports_data  on departure_airport=airport_code  (departure copy keeps bare names)
//	  ⋈ airports_data  on arrival_airport=airport_code    (arrival copy gets _arrival)
//	  ⋈ tickets        on ticket_no
//	  ⋈ bookings       on book_ref
func DefaultPlan() Plan {
	return Plan{
		Base: TicketFlights,
		Steps: []Step{
			{Right: Flights, LeftOn: "flight_id", RightOn: "flight_id"},
			{Right: Aircrafts, LeftOn: "aircraft_code", RightOn: "aircraft_code"},
			{Right: Airports, LeftOn: "departure_airport", RightOn: "airport_code", Suffixes: [2]string{"", "_departure"}},
			{Right: Airports, LeftOn: "arrival_airport", RightOn: "airport_code", Suffixes: [2]string{"", "_arrival"}},
			{Right: Tickets, LeftOn: "ticket_no", RightOn: "ticket_no"},
			{Right: Bookings, LeftOn: "book_ref", RightOn: "book_ref"},
		},
	}
}
