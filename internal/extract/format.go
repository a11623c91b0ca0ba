package extract

import (
	"strings"

	"flighttrack-service/internal/domain/entity"
)

// Format identifies a known airline/agency email template.
type Format string

const (
	FormatUnknown         Format = ""
	FormatVietJet         Format = "vietjet"
	FormatAirAsia         Format = "airasia"
	FormatVietnamAirlines Format = "vietnam-airlines"
	FormatGeneric         Format = "generic"
)

// rule is one detection rule. Sender domains are the strongest signal;
// subject keywords are the fallback.
type rule struct {
	format          Format
	senderDomains   []string
	subjectKeywords []string
}

// Hotel and OTA senders that leak flight-ish wording but never carry a
// parseable itinerary.
var excludedSenders = []string{
	"airbnb",
	"booking.com",
	"hotels.com",
	"agoda",
	"expedia",
}

// Detector classifies a raw email as one of the known formats. Rules are
// evaluated in declaration order, sender-domain matches first across all
// rules, then subject keywords; the first hit wins, so the rule slice
// order is the format priority used for merge conflict resolution.
type Detector struct {
	rules []rule
}

// NewDetector builds the default detector. The generic rule is last on
// purpose: any airline-specific template must win over it.
func NewDetector() *Detector {
	return &Detector{
		rules: []rule{
			{
				format:          FormatVietJet,
				senderDomains:   []string{"vietjetair.com"},
				subjectKeywords: []string{"vietjet"},
			},
			{
				format:          FormatAirAsia,
				senderDomains:   []string{"airasia.com", "notification.airasia.com"},
				subjectKeywords: []string{"airasia"},
			},
			{
				format:          FormatVietnamAirlines,
				senderDomains:   []string{"vietnamairlines.com"},
				subjectKeywords: []string{"vietnam airlines"},
			},
			{
				format:        FormatGeneric,
				senderDomains: nil,
				subjectKeywords: []string{
					"flight confirmation",
					"booking confirmation",
					"flight itinerary",
					"itinerary",
					"e-ticket",
					"eticket",
					"boarding pass",
					"travel confirmation",
					"flight receipt",
				},
			},
		},
	}
}

// Detect returns the format of the email, or FormatUnknown. Pure.
func (d *Detector) Detect(email *entity.RawEmail) Format {
	from := strings.ToLower(email.From)
	subject := strings.ToLower(email.Subject)

	for _, excl := range excludedSenders {
		if strings.Contains(from, excl) || strings.Contains(subject, excl) {
			return FormatUnknown
		}
	}

	for _, r := range d.rules {
		for _, domain := range r.senderDomains {
			if strings.Contains(from, domain) {
				return r.format
			}
		}
	}

	for _, r := range d.rules {
		for _, kw := range r.subjectKeywords {
			if strings.Contains(subject, kw) {
				return r.format
			}
		}
	}

	return FormatUnknown
}

// Priority returns the declaration index of the format; lower is more
// trusted. Unknown formats sort after everything.
func (d *Detector) Priority(f Format) int {
	for i, r := range d.rules {
		if r.format == f {
			return i
		}
	}
	return len(d.rules)
}
