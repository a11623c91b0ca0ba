package sink

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/pkg/logger"
)

// Report is the full output document of one run.
type Report struct {
	History    *entity.FlightHistory `json:"history"`
	Summary    *entity.RunSummary    `json:"summary"`
	Statistics *entity.Statistics    `json:"statistics"`
}

// FileWriter persists run results as JSON and CSV. It owns formatting
// only; the records are already final when they arrive here.
type FileWriter struct {
	logger logger.Logger
}

func NewFileWriter(log logger.Logger) *FileWriter {
	return &FileWriter{logger: log}
}

// WriteJSON writes the full report document.
func (w *FileWriter) WriteJSON(path string, report *Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	w.logger.Info("Wrote JSON report", "path", path, "flights", len(report.History.Records))
	return nil
}

// WriteCSV writes one flat row per flight.
func (w *FileWriter) WriteCSV(path string, records []*entity.FlightRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	header := []string{
		"flight_number", "airline", "booking_reference",
		"departure_airport", "arrival_airport",
		"departure_time", "arrival_time", "duration_minutes",
		"source_email_id", "absorbed",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		duration := ""
		if r.Duration > 0 {
			duration = strconv.Itoa(int(r.Duration.Minutes()))
		}
		row := []string{
			r.FlightNumber,
			r.Airline,
			r.BookingReference,
			r.DepartureAirport,
			r.ArrivalAirport,
			formatInstant(r.DepartureTime, r.DepartureZoneKnown),
			formatInstant(r.ArrivalTime, r.ArrivalZoneKnown),
			duration,
			r.SourceEmailID,
			strconv.Itoa(r.Absorbed),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}

	w.logger.Info("Wrote CSV report", "path", path, "flights", len(records))
	return nil
}

// formatInstant renders zone-resolved times as RFC3339 and keeps
// wall-clock values visibly local rather than pretending a zone.
func formatInstant(t time.Time, zoneKnown bool) string {
	if t.IsZero() {
		return ""
	}
	if zoneKnown {
		return t.Format(time.RFC3339)
	}
	return t.Format("2006-01-02 15:04") + " (local)"
}
