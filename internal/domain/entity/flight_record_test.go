package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFlightRecordKey(t *testing.T) {
	depart := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

	withRef := &FlightRecord{
		FlightNumber:     "VJ123",
		BookingReference: "AB12CD",
		DepartureAirport: "SGN",
		ArrivalAirport:   "HAN",
		DepartureTime:    depart,
	}
	assert.Equal(t, "AB12CD:VJ123", withRef.Key())

	withoutRef := &FlightRecord{
		FlightNumber:     "VJ123",
		DepartureAirport: "SGN",
		ArrivalAirport:   "HAN",
		DepartureTime:    depart,
	}
	assert.Equal(t, "VJ123:SGN:HAN:2024-03-15", withoutRef.Key())
}

func TestFlightRecordDepartureDate(t *testing.T) {
	var r FlightRecord
	assert.Empty(t, r.DepartureDate())

	r.DepartureTime = time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2024-12-31", r.DepartureDate())
}

func TestFlightRecordFilledFields(t *testing.T) {
	var empty FlightRecord
	assert.Zero(t, empty.FilledFields())

	full := FlightRecord{
		FlightNumber:     "VJ123",
		Airline:          "VietJet Air",
		BookingReference: "AB12CD",
		DepartureAirport: "SGN",
		ArrivalAirport:   "HAN",
		DepartureTime:    time.Now(),
		ArrivalTime:      time.Now().Add(2 * time.Hour),
		Duration:         2 * time.Hour,
	}
	assert.Equal(t, 8, full.FilledFields())

	partial := FlightRecord{FlightNumber: "VJ123", DepartureAirport: "SGN", ArrivalAirport: "HAN"}
	assert.Equal(t, 3, partial.FilledFields())
}

func TestFlightRecordRoute(t *testing.T) {
	r := FlightRecord{DepartureAirport: "SGN", ArrivalAirport: "HAN"}
	assert.Equal(t, "SGN-HAN", r.Route())
}
