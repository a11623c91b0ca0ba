package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	irepo "flighttrack-service/internal/interface/repository"
	"flighttrack-service/pkg/logger"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(
		irepo.NewStaticAirlineRepository(),
		irepo.NewStaticTimezoneRepository(),
		logger.NewNop(),
	)
}

func rejectReason(t *testing.T, err error) RejectReason {
	t.Helper()
	var rej *RejectError
	require.ErrorAs(t, err, &rej)
	return rej.Reason
}

func TestNormalizeValidCandidate(t *testing.T) {
	n := newTestNormalizer()

	record, err := n.Normalize(context.Background(), Candidate{
		Format:           FormatVietJet,
		SourceEmailID:    "msg-1",
		FlightNumber:     "VJ 123",
		Airline:          "VietJet Air",
		BookingReference: "ab12cd",
		DepartureAirport: "sgn",
		ArrivalAirport:   "HAN",
		DepartureText:    "15 Mar 2024 10:30",
		ArrivalText:      "15 Mar 2024 12:40",
		TimeLayouts:      []string{"02 Jan 2006 15:04"},
	})
	require.NoError(t, err)

	assert.Equal(t, "VJ123", record.FlightNumber)
	assert.Equal(t, "VietJet Air", record.Airline)
	assert.Equal(t, "AB12CD", record.BookingReference)
	assert.Equal(t, "SGN", record.DepartureAirport)
	assert.Equal(t, "HAN", record.ArrivalAirport)
	assert.Equal(t, "msg-1", record.SourceEmailID)
	assert.Equal(t, "AB12CD:VJ123", record.DedupKey)

	// Both airports live in the timezone reference, so the timestamps
	// carry their local zones and the duration is real.
	assert.True(t, record.DepartureZoneKnown)
	assert.True(t, record.ArrivalZoneKnown)
	assert.Equal(t, 2*time.Hour+10*time.Minute, record.Duration)

	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)
	want := time.Date(2024, time.March, 15, 10, 30, 0, 0, loc)
	assert.True(t, record.DepartureTime.Equal(want))
}

func TestNormalizeAirlineFromFlightNumberPrefix(t *testing.T) {
	n := newTestNormalizer()

	record, err := n.Normalize(context.Background(), Candidate{
		SourceEmailID:    "msg-2",
		FlightNumber:     "AK512",
		DepartureAirport: "KUL",
		ArrivalAirport:   "DMK",
		DepartureText:    "20 Apr 2024 08:15",
		TimeLayouts:      []string{"02 Jan 2006 15:04"},
	})
	require.NoError(t, err)
	assert.Equal(t, "AirAsia", record.Airline)
}

func TestNormalizeUnknownAirportKeepsWallClock(t *testing.T) {
	n := newTestNormalizer()

	// LHR is not in the static timezone reference: the time stays as
	// written and the zone is flagged unresolved, so no duration.
	record, err := n.Normalize(context.Background(), Candidate{
		SourceEmailID:    "msg-3",
		FlightNumber:     "BA061",
		DepartureAirport: "LHR",
		ArrivalAirport:   "SIN",
		DepartureText:    "10 May 2024 21:00",
		ArrivalText:      "11 May 2024 17:05",
		TimeLayouts:      []string{"02 Jan 2006 15:04"},
	})
	require.NoError(t, err)

	assert.False(t, record.DepartureZoneKnown)
	assert.True(t, record.ArrivalZoneKnown)
	assert.Zero(t, record.Duration)
	assert.Equal(t, 21, record.DepartureTime.Hour())
}

func TestNormalizeRejections(t *testing.T) {
	n := newTestNormalizer()
	layouts := []string{"02 Jan 2006 15:04"}

	tests := []struct {
		name      string
		candidate Candidate
		reason    RejectReason
	}{
		{
			name: "missing flight number",
			candidate: Candidate{
				DepartureAirport: "SGN",
				ArrivalAirport:   "HAN",
				DepartureText:    "15 Mar 2024 10:30",
				TimeLayouts:      layouts,
			},
			reason: RejectMissingField,
		},
		{
			name: "missing departure time",
			candidate: Candidate{
				FlightNumber:     "VJ123",
				DepartureAirport: "SGN",
				ArrivalAirport:   "HAN",
				TimeLayouts:      layouts,
			},
			reason: RejectMissingField,
		},
		{
			name: "malformed flight number",
			candidate: Candidate{
				FlightNumber:     "FLIGHT123X",
				DepartureAirport: "SGN",
				ArrivalAirport:   "HAN",
				DepartureText:    "15 Mar 2024 10:30",
				TimeLayouts:      layouts,
			},
			reason: RejectMissingField,
		},
		{
			name: "airport code not IATA",
			candidate: Candidate{
				FlightNumber:     "VJ123",
				DepartureAirport: "SAIGON",
				ArrivalAirport:   "HAN",
				DepartureText:    "15 Mar 2024 10:30",
				TimeLayouts:      layouts,
			},
			reason: RejectBadAirport,
		},
		{
			name: "same departure and arrival airport",
			candidate: Candidate{
				FlightNumber:     "VJ123",
				DepartureAirport: "SGN",
				ArrivalAirport:   "SGN",
				DepartureText:    "15 Mar 2024 10:30",
				TimeLayouts:      layouts,
			},
			reason: RejectInvariant,
		},
		{
			name: "unparseable departure timestamp",
			candidate: Candidate{
				FlightNumber:     "VJ123",
				DepartureAirport: "SGN",
				ArrivalAirport:   "HAN",
				DepartureText:    "next Tuesday morning",
				TimeLayouts:      layouts,
			},
			reason: RejectBadTimestamp,
		},
		{
			name: "arrival before departure",
			candidate: Candidate{
				FlightNumber:     "VJ123",
				DepartureAirport: "SGN",
				ArrivalAirport:   "HAN",
				DepartureText:    "15 Mar 2024 10:30",
				ArrivalText:      "15 Mar 2024 09:00",
				TimeLayouts:      layouts,
			},
			reason: RejectInvariant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := n.Normalize(context.Background(), tt.candidate)
			require.Error(t, err)
			assert.Nil(t, record)
			assert.Equal(t, tt.reason, rejectReason(t, err))
		})
	}
}

func TestRejectErrorMessage(t *testing.T) {
	err := reject(RejectBadAirport, "got %q", "XX")
	assert.Equal(t, `candidate rejected (bad_airport): got "XX"`, err.Error())

	var rej *RejectError
	assert.True(t, errors.As(err, &rej))
}

func TestNormalizeWithoutArrival(t *testing.T) {
	n := newTestNormalizer()

	record, err := n.Normalize(context.Background(), Candidate{
		SourceEmailID:    "msg-4",
		FlightNumber:     "UA100",
		DepartureAirport: "SFO",
		ArrivalAirport:   "NRT",
		DepartureText:    "March 15, 2024 10:30 AM",
		TimeLayouts:      genericLayouts,
	})
	require.NoError(t, err)

	assert.True(t, record.ArrivalTime.IsZero())
	assert.False(t, record.ArrivalZoneKnown)
	assert.Zero(t, record.Duration)
	assert.Equal(t, "UA100:SFO:NRT:2024-03-15", record.DedupKey)
}
