package sink

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/pkg/logger"
)

func testReport(t *testing.T) *Report {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)
	depart := time.Date(2024, time.March, 15, 10, 30, 0, 0, loc)

	records := []*entity.FlightRecord{
		{
			DedupKey:           "AB12CD:VJ123",
			FlightNumber:       "VJ123",
			Airline:            "VietJet Air",
			BookingReference:   "AB12CD",
			DepartureAirport:   "SGN",
			ArrivalAirport:     "HAN",
			DepartureTime:      depart,
			ArrivalTime:        depart.Add(2*time.Hour + 10*time.Minute),
			DepartureZoneKnown: true,
			ArrivalZoneKnown:   true,
			Duration:           2*time.Hour + 10*time.Minute,
			SourceEmailID:      "msg-1",
			Absorbed:           1,
		},
		{
			DedupKey:         "UA100:SFO:NRT:2024-03-20",
			FlightNumber:     "UA100",
			Airline:          "UA",
			DepartureAirport: "SFO",
			ArrivalAirport:   "NRT",
			DepartureTime:    time.Date(2024, time.March, 20, 11, 0, 0, 0, time.UTC),
			SourceEmailID:    "msg-2",
		},
	}

	return &Report{
		History: &entity.FlightHistory{
			RunID:       "run-1",
			GeneratedAt: time.Now().UTC(),
			Records:     records,
		},
		Summary:    &entity.RunSummary{RunID: "run-1", EmailsSeen: 2, Flights: 2},
		Statistics: &entity.Statistics{TotalFlights: 2, UniqueAirlines: 2},
	}
}

func TestWriteJSON(t *testing.T) {
	w := NewFileWriter(logger.NewNop())
	path := filepath.Join(t.TempDir(), "out", "flights.json")

	require.NoError(t, w.WriteJSON(path, testReport(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Report
	require.NoError(t, json.Unmarshal(data, &got))
	require.NotNil(t, got.History)
	assert.Equal(t, "run-1", got.History.RunID)
	require.Len(t, got.History.Records, 2)
	assert.Equal(t, "VJ123", got.History.Records[0].FlightNumber)
	assert.Equal(t, 2, got.Summary.EmailsSeen)
	assert.Equal(t, 2, got.Statistics.TotalFlights)
}

func TestWriteCSV(t *testing.T) {
	w := NewFileWriter(logger.NewNop())
	path := filepath.Join(t.TempDir(), "out", "flights.csv")
	report := testReport(t)

	require.NoError(t, w.WriteCSV(path, report.History.Records))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"flight_number", "airline", "booking_reference",
		"departure_airport", "arrival_airport",
		"departure_time", "arrival_time", "duration_minutes",
		"source_email_id", "absorbed",
	}, rows[0])

	assert.Equal(t, []string{
		"VJ123", "VietJet Air", "AB12CD", "SGN", "HAN",
		"2024-03-15T10:30:00+07:00", "2024-03-15T12:40:00+07:00",
		"130", "msg-1", "1",
	}, rows[1])

	// Zone-unresolved times render as wall clock, no fabricated offset,
	// and the duration column stays empty.
	assert.Equal(t, "2024-03-20 11:00 (local)", rows[2][5])
	assert.Equal(t, "", rows[2][6])
	assert.Equal(t, "", rows[2][7])
}
