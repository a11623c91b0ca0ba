package extract

import (
	"regexp"
	"strings"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/pkg/logger"
)

// Generic label patterns covering the common "Flight: XX123 ... from AAA
// to BBB ... Date: ... Time: ..." phrasing shared by many carriers and
// agencies. This format is registered last: any specific template wins
// over it.
var (
	genericFlightNo   = regexp.MustCompile(`(?:Flight|FLT)\s*(?:#|:|\s)\s*([A-Z]{2}\s*\d{1,4})\b`)
	genericAirports   = regexp.MustCompile(`(?i)from\s+([A-Z]{3})\b.*?to\s+([A-Z]{3})\b`)
	genericDate       = regexp.MustCompile(`(?i)date:\s*(\w+\s+\d{1,2},?\s+\d{4})`)
	genericTime       = regexp.MustCompile(`(?i)time:\s*(\d{1,2}:\d{2}\s*(?:AM|PM)?)`)
	genericConfirmNum = regexp.MustCompile(`(?:Confirmation|Booking|Reference)\s*(?:#|:|\s)\s*([A-Z0-9]{6,8})\b`)
)

var genericLayouts = []string{
	"January 2, 2006 3:04 PM",
	"January 2, 2006 15:04",
	"January 2 2006 3:04 PM",
	"January 2 2006 15:04",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006 15:04",
}

// GenericExtractor is the fallback for recognized-but-untemplated flight
// emails. It emits at most one candidate, from the subject and body
// combined.
type GenericExtractor struct {
	logger logger.Logger
}

func NewGenericExtractor(log logger.Logger) *GenericExtractor {
	return &GenericExtractor{logger: log}
}

func (e *GenericExtractor) Format() Format {
	return FormatGeneric
}

func (e *GenericExtractor) Extract(email *entity.RawEmail) []Candidate {
	text := email.Subject + "\n" + cleanHTMLText(email.Text())

	c := Candidate{
		Format:        FormatGeneric,
		SourceEmailID: email.EmailID,
		TimeLayouts:   genericLayouts,
	}

	if m := genericFlightNo.FindStringSubmatch(text); len(m) > 1 {
		c.FlightNumber = m[1]
	}
	if m := genericAirports.FindStringSubmatch(text); len(m) > 2 {
		c.DepartureAirport = m[1]
		c.ArrivalAirport = m[2]
	}
	if m := genericConfirmNum.FindStringSubmatch(text); len(m) > 1 {
		c.BookingReference = m[1]
	}

	// Date and time labels are separate in this phrasing; only their
	// combination makes a timestamp.
	if m := genericDate.FindStringSubmatch(text); len(m) > 1 {
		date := m[1]
		if t := genericTime.FindStringSubmatch(text); len(t) > 1 {
			c.DepartureText = strings.TrimSpace(date + " " + strings.ToUpper(t[1]))
		}
	}

	if c.FlightNumber == "" && c.DepartureAirport == "" {
		e.logger.Debug("No flight fields located in generic email", "emailID", email.EmailID)
		return nil
	}
	return []Candidate{c}
}
