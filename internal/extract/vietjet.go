package extract

import (
	"regexp"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/pkg/logger"
)

// VietJet booking confirmations label every field on its own line and
// repeat the block once per leg, so a round trip yields two matches.
var (
	vietjetLeg = regexp.MustCompile(`(?s)Flight\s*:\s*(VJ\s?\d{1,4})` +
		`.{0,120}?From\s*:[^(\n]*\(([A-Z]{3})\)` +
		`.{0,120}?To\s*:[^(\n]*\(([A-Z]{3})\)` +
		`.{0,60}?Departure\s*:\s*(\d{2}\s+\w{3}\s+\d{4}\s+\d{2}:\d{2})` +
		`.{0,60}?Arrival\s*:\s*(\d{2}\s+\w{3}\s+\d{4}\s+\d{2}:\d{2})`)
	vietjetBookingRef = regexp.MustCompile(`(?im)^\s*Booking\s+(?:Reference|Code)\s*:\s*([A-Z0-9]{6})\b`)
)

// VietJetExtractor handles VietJet Air booking and reminder emails.
type VietJetExtractor struct {
	logger logger.Logger
}

func NewVietJetExtractor(log logger.Logger) *VietJetExtractor {
	return &VietJetExtractor{logger: log}
}

func (e *VietJetExtractor) Format() Format {
	return FormatVietJet
}

func (e *VietJetExtractor) Extract(email *entity.RawEmail) []Candidate {
	body := cleanHTMLText(email.Text())

	bookingRef := ""
	if m := vietjetBookingRef.FindStringSubmatch(body); len(m) > 1 {
		bookingRef = m[1]
	}

	var candidates []Candidate
	for _, m := range vietjetLeg.FindAllStringSubmatch(body, -1) {
		candidates = append(candidates, Candidate{
			Format:           FormatVietJet,
			SourceEmailID:    email.EmailID,
			FlightNumber:     m[1],
			Airline:          "VietJet Air",
			BookingReference: bookingRef,
			DepartureAirport: m[2],
			ArrivalAirport:   m[3],
			DepartureText:    m[4],
			ArrivalText:      m[5],
			TimeLayouts:      []string{"02 Jan 2006 15:04"},
		})
	}

	if len(candidates) == 0 {
		e.logger.Debug("No flight legs located in VietJet email", "emailID", email.EmailID)
	}
	return candidates
}
