package extract

import (
	"regexp"
	"strings"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/pkg/logger"
)

// Vietnam Airlines (and its GDS agents) send a fixed-width segment table
// under a "SegNo FlightNo Class From  To" header. Spacing drifts between
// template revisions, so columns are matched loosely.
var (
	vnSegmentRow = regexp.MustCompile(`^\*?\s*(\d+)\s+/?\*?([A-Z0-9/]+)\s+([A-Z])\s+([A-Z]{3,4})\s+([A-Z]{3,4})\s+` +
		`(\d{2}\s+\w{3}\s+\d{4}\s+\d{2}:\d{2})\s+(\d{2}\s+\w{3}\s+\d{4}\s+\d{2}:\d{2})\s+(\S+)`)
	vnAirlinesPnr = regexp.MustCompile(`(?m)^Airlines PNR\s*:\s*(\S+)`)
	vnProviderPnr = regexp.MustCompile(`(?m)^Provider PNR\s*:\s*(\S+)`)
)

// VietnamAirlinesExtractor handles Vietnam Airlines itinerary emails.
type VietnamAirlinesExtractor struct {
	logger logger.Logger
}

func NewVietnamAirlinesExtractor(log logger.Logger) *VietnamAirlinesExtractor {
	return &VietnamAirlinesExtractor{logger: log}
}

func (e *VietnamAirlinesExtractor) Format() Format {
	return FormatVietnamAirlines
}

func (e *VietnamAirlinesExtractor) Extract(email *entity.RawEmail) []Candidate {
	body := cleanHTMLText(email.Text())

	pnr := ""
	if m := vnAirlinesPnr.FindStringSubmatch(body); len(m) > 1 {
		pnr = m[1]
	} else if m := vnProviderPnr.FindStringSubmatch(body); len(m) > 1 {
		pnr = m[1]
	}

	var candidates []Candidate
	tableStarted := false
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)

		if strings.Contains(line, "SegNo") && strings.Contains(line, "FlightNo") {
			tableStarted = true
			continue
		}
		if !tableStarted {
			continue
		}

		m := vnSegmentRow.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		candidates = append(candidates, Candidate{
			Format:           FormatVietnamAirlines,
			SourceEmailID:    email.EmailID,
			FlightNumber:     m[2],
			Airline:          "Vietnam Airlines",
			BookingReference: pnr,
			DepartureAirport: m[4],
			ArrivalAirport:   m[5],
			DepartureText:    m[6],
			ArrivalText:      m[7],
			TimeLayouts:      []string{"02 Jan 2006 15:04"},
		})
	}

	if len(candidates) == 0 {
		e.logger.Debug("No segment rows located in Vietnam Airlines email", "emailID", email.EmailID)
	}
	return candidates
}
