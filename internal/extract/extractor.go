package extract

import (
	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/pkg/logger"
)

// Candidate is a raw, pre-normalization extraction result. All fields are
// the strings the extractor located; the normalizer owns casing, parsing
// and validation.
type Candidate struct {
	Format           Format
	SourceEmailID    string
	FlightNumber     string
	Airline          string
	BookingReference string
	DepartureAirport string
	ArrivalAirport   string
	DepartureText    string
	ArrivalText      string
	// TimeLayouts are the date/time layouts this candidate's format is
	// known to use, tried in order.
	TimeLayouts []string
}

// Extractor turns a raw email of one known format into zero or more
// candidates. Extractors are pure and never fail a batch: a template they
// cannot make sense of yields no candidates.
type Extractor interface {
	Format() Format
	Extract(email *entity.RawEmail) []Candidate
}

// Registry holds the detector and the format extractors in their fixed
// priority order.
type Registry struct {
	detector   *Detector
	extractors map[Format]Extractor
}

// NewRegistry wires up the default extractor set. Registration order here
// mirrors the detector's rule order.
func NewRegistry(log logger.Logger) *Registry {
	r := &Registry{
		detector:   NewDetector(),
		extractors: make(map[Format]Extractor),
	}
	for _, ex := range []Extractor{
		NewVietJetExtractor(log),
		NewAirAsiaExtractor(log),
		NewVietnamAirlinesExtractor(log),
		NewGenericExtractor(log),
	} {
		r.extractors[ex.Format()] = ex
	}
	return r
}

// Detect classifies an email.
func (r *Registry) Detect(email *entity.RawEmail) Format {
	return r.detector.Detect(email)
}

// ExtractorFor returns the extractor registered for the format, or nil.
func (r *Registry) ExtractorFor(f Format) Extractor {
	return r.extractors[f]
}

// Priority exposes the detector's format ordering.
func (r *Registry) Priority(f Format) int {
	return r.detector.Priority(f)
}
