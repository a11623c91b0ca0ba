// internal/domain/entity/flight_record.go
package entity

import (
	"fmt"
	"strings"
	"time"
)

// FlightRecord is one canonicalized flight leg.
//
// DepartureTime and ArrivalTime carry an airport-derived zone when the
// timezone reference knows the airport; otherwise the wall-clock value is
// kept as parsed and the corresponding ZoneKnown flag is false. A zero
// time means the field could not be extracted at all.
type FlightRecord struct {
	DedupKey          string        `bson:"dedupKey" json:"-"`
	FlightNumber      string        `bson:"flightNumber" json:"flightNumber"`
	Airline           string        `bson:"airline" json:"airline"`
	BookingReference  string        `bson:"bookingReference,omitempty" json:"bookingReference,omitempty"`
	DepartureAirport  string        `bson:"departureAirport" json:"departureAirport"`
	ArrivalAirport    string        `bson:"arrivalAirport" json:"arrivalAirport"`
	DepartureTime     time.Time     `bson:"departureTime" json:"departureTime"`
	ArrivalTime       time.Time     `bson:"arrivalTime,omitempty" json:"arrivalTime,omitempty"`
	DepartureZoneKnown bool         `bson:"departureZoneKnown" json:"departureZoneKnown"`
	ArrivalZoneKnown  bool          `bson:"arrivalZoneKnown" json:"arrivalZoneKnown"`
	Duration          time.Duration `bson:"duration,omitempty" json:"duration,omitempty"`
	SourceEmailID     string        `bson:"sourceEmailId" json:"sourceEmailId"`
	Absorbed          int           `bson:"absorbed" json:"absorbed"`
	FormatPriority    int           `bson:"-" json:"-"`
	UpdatedAt         time.Time     `bson:"updatedAt" json:"-"`
}

// Key returns the dedup key: booking reference + flight number when a
// reference is present, otherwise flight number + route + departure date.
// Same flight number and route on the same calendar day is the same
// physical flight regardless of which email it came from.
func (r *FlightRecord) Key() string {
	if r.BookingReference != "" {
		return fmt.Sprintf("%s:%s", r.BookingReference, r.FlightNumber)
	}
	return fmt.Sprintf("%s:%s:%s:%s",
		r.FlightNumber, r.DepartureAirport, r.ArrivalAirport, r.DepartureDate())
}

// DepartureDate is the calendar date component of the departure time, in
// the zone the timestamp was parsed in. Empty when no departure time was
// extracted.
func (r *FlightRecord) DepartureDate() string {
	if r.DepartureTime.IsZero() {
		return ""
	}
	return r.DepartureTime.Format("2006-01-02")
}

// FilledFields counts the non-empty fields of the record. The merger
// prefers the fuller of two duplicate candidates as its base.
func (r *FlightRecord) FilledFields() int {
	n := 0
	for _, s := range []string{r.FlightNumber, r.Airline, r.BookingReference, r.DepartureAirport, r.ArrivalAirport} {
		if s != "" {
			n++
		}
	}
	if !r.DepartureTime.IsZero() {
		n++
	}
	if !r.ArrivalTime.IsZero() {
		n++
	}
	if r.Duration > 0 {
		n++
	}
	return n
}

// Route is the "SGN-HAN" style route label used by the run statistics.
func (r *FlightRecord) Route() string {
	return strings.Join([]string{r.DepartureAirport, r.ArrivalAirport}, "-")
}

// FlightHistory is the deduplicated, time-ordered aggregate produced by a
// run. Records with no resolvable departure time sort last, in discovery
// order.
type FlightHistory struct {
	RunID       string          `bson:"runId" json:"runId"`
	GeneratedAt time.Time       `bson:"generatedAt" json:"generatedAt"`
	Records     []*FlightRecord `bson:"records" json:"flights"`
}
