package extract

import (
	"regexp"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/pkg/logger"
)

// AirAsia itineraries print one line per leg with the route in
// parentheses, followed by Depart/Arrive lines. D7/I5 are the long-haul
// and Indian franchises sharing the same template.
var (
	airasiaLeg = regexp.MustCompile(`(?s)\b((?:AK|FD|QZ|D7|I5)\s?\d{1,4})\b[^\n]*\(([A-Z]{3})\)[^\n]*\(([A-Z]{3})\)` +
		`.{0,80}?Depart(?:ure)?\s*:?\s*(\d{2}\s+\w{3}\s+\d{4}\s+\d{2}:\d{2})` +
		`.{0,80}?Arriv(?:e|al)\s*:?\s*(\d{2}\s+\w{3}\s+\d{4}\s+\d{2}:\d{2})`)
	airasiaBookingNo = regexp.MustCompile(`(?im)^\s*Booking\s+(?:number|no\.?)\s*:?\s*([A-Z0-9]{6})\b`)
)

// AirAsiaExtractor handles AirAsia group booking emails.
type AirAsiaExtractor struct {
	logger logger.Logger
}

func NewAirAsiaExtractor(log logger.Logger) *AirAsiaExtractor {
	return &AirAsiaExtractor{logger: log}
}

func (e *AirAsiaExtractor) Format() Format {
	return FormatAirAsia
}

func (e *AirAsiaExtractor) Extract(email *entity.RawEmail) []Candidate {
	body := cleanHTMLText(email.Text())

	bookingNo := ""
	if m := airasiaBookingNo.FindStringSubmatch(body); len(m) > 1 {
		bookingNo = m[1]
	}

	var candidates []Candidate
	for _, m := range airasiaLeg.FindAllStringSubmatch(body, -1) {
		candidates = append(candidates, Candidate{
			Format:           FormatAirAsia,
			SourceEmailID:    email.EmailID,
			FlightNumber:     m[1],
			Airline:          "AirAsia",
			BookingReference: bookingNo,
			DepartureAirport: m[2],
			ArrivalAirport:   m[3],
			DepartureText:    m[4],
			ArrivalText:      m[5],
			TimeLayouts:      []string{"02 Jan 2006 15:04"},
		})
	}

	if len(candidates) == 0 {
		e.logger.Debug("No flight legs located in AirAsia email", "emailID", email.EmailID)
	}
	return candidates
}
