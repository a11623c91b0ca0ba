package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/internal/domain/repository"
	"flighttrack-service/pkg/logger"
)

// RejectReason classifies why a candidate was dropped.
type RejectReason string

const (
	RejectMissingField RejectReason = "missing_field"
	RejectBadAirport   RejectReason = "bad_airport"
	RejectBadTimestamp RejectReason = "bad_timestamp"
	RejectInvariant    RejectReason = "invariant_violation"
)

// RejectError signals that normalization could not establish the record
// invariants. It is always per-candidate, never fatal to a batch.
type RejectError struct {
	Reason RejectReason
	Detail string
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("candidate rejected (%s): %s", e.Reason, e.Detail)
}

func reject(reason RejectReason, format string, args ...interface{}) error {
	return &RejectError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

var (
	iataPattern     = regexp.MustCompile(`^[A-Z]{3}$`)
	flightNoPattern = regexp.MustCompile(`^[A-Z0-9]{2}\d{1,4}$`)
)

// Normalizer canonicalizes candidates into FlightRecord values. Airport
// timezones come from the timezone reference the same way the schedule
// parser resolves them: airport code, zone name, ParseInLocation.
type Normalizer struct {
	airlineRepo  repository.AirlineRepository
	timezoneRepo repository.TimezoneRepository
	logger       logger.Logger
}

// NewNormalizer creates a normalizer with its reference-data deps.
func NewNormalizer(airlineRepo repository.AirlineRepository, timezoneRepo repository.TimezoneRepository, log logger.Logger) *Normalizer {
	return &Normalizer{
		airlineRepo:  airlineRepo,
		timezoneRepo: timezoneRepo,
		logger:       log,
	}
}

// Normalize canonicalizes one candidate or returns a RejectError.
func (n *Normalizer) Normalize(ctx context.Context, c Candidate) (*entity.FlightRecord, error) {
	flightNo := strings.ToUpper(strings.ReplaceAll(c.FlightNumber, " ", ""))
	flightNo = strings.ReplaceAll(flightNo, "/", "")
	dep := strings.ToUpper(strings.TrimSpace(c.DepartureAirport))
	arr := strings.ToUpper(strings.TrimSpace(c.ArrivalAirport))

	if flightNo == "" || dep == "" || arr == "" || c.DepartureText == "" {
		return nil, reject(RejectMissingField, "flight=%q dep=%q arr=%q departText=%q",
			flightNo, dep, arr, c.DepartureText)
	}
	if !flightNoPattern.MatchString(flightNo) {
		return nil, reject(RejectMissingField, "flight number %q does not match carrier+number form", flightNo)
	}
	if !iataPattern.MatchString(dep) {
		return nil, reject(RejectBadAirport, "departure airport %q is not a 3-letter IATA code", dep)
	}
	if !iataPattern.MatchString(arr) {
		return nil, reject(RejectBadAirport, "arrival airport %q is not a 3-letter IATA code", arr)
	}
	if dep == arr {
		return nil, reject(RejectInvariant, "departure and arrival airport are both %s", dep)
	}

	departAt, departZoneKnown, err := n.parseWhen(ctx, c.DepartureText, c.TimeLayouts, dep)
	if err != nil {
		return nil, reject(RejectBadTimestamp, "departure %q: %v", c.DepartureText, err)
	}

	var arriveAt time.Time
	arriveZoneKnown := false
	if c.ArrivalText != "" {
		arriveAt, arriveZoneKnown, err = n.parseWhen(ctx, c.ArrivalText, c.TimeLayouts, arr)
		if err != nil {
			return nil, reject(RejectBadTimestamp, "arrival %q: %v", c.ArrivalText, err)
		}
		if !arriveAt.After(departAt) {
			return nil, reject(RejectInvariant, "arrival %s not after departure %s",
				arriveAt.Format(time.RFC3339), departAt.Format(time.RFC3339))
		}
	}

	record := &entity.FlightRecord{
		FlightNumber:       flightNo,
		Airline:            n.resolveAirline(ctx, flightNo, c.Airline),
		BookingReference:   strings.ToUpper(strings.TrimSpace(c.BookingReference)),
		DepartureAirport:   dep,
		ArrivalAirport:     arr,
		DepartureTime:      departAt,
		ArrivalTime:        arriveAt,
		DepartureZoneKnown: departZoneKnown,
		ArrivalZoneKnown:   arriveZoneKnown,
		SourceEmailID:      c.SourceEmailID,
	}

	// Only two absolute instants yield a trustworthy duration. Wall-clock
	// times in unknown zones would fabricate one.
	if !arriveAt.IsZero() && departZoneKnown && arriveZoneKnown {
		record.Duration = arriveAt.Sub(departAt)
	}

	record.DedupKey = record.Key()
	return record, nil
}

// parseWhen parses a timestamp in the airport's local zone when the
// timezone reference knows the airport. Unknown airports keep the
// wall-clock value as written and report the zone as unresolved.
func (n *Normalizer) parseWhen(ctx context.Context, text string, layouts []string, airport string) (time.Time, bool, error) {
	text = strings.TrimSpace(text)

	var loc *time.Location
	if tz, err := n.timezoneRepo.GetByAirportCode(ctx, airport); err == nil && tz != nil && tz.TzName != "" {
		if l, lerr := time.LoadLocation(tz.TzName); lerr == nil {
			loc = l
		} else {
			n.logger.Warn("Unloadable timezone for airport", "airport", airport, "tz", tz.TzName, "error", lerr)
		}
	}

	var firstErr error
	for _, layout := range layouts {
		if loc != nil {
			if t, err := time.ParseInLocation(layout, text, loc); err == nil {
				return t, true, nil
			} else if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if t, err := time.Parse(layout, text); err == nil {
			return t, false, nil
		} else if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = fmt.Errorf("no layouts declared")
	}
	return time.Time{}, false, firstErr
}

// resolveAirline maps the carrier prefix of a flight number to the
// canonical airline name, falling back to the email's branding and then
// the bare prefix.
func (n *Normalizer) resolveAirline(ctx context.Context, flightNo, branded string) string {
	prefix := flightNo
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}

	if airline, err := n.airlineRepo.GetByCode(ctx, prefix); err == nil && airline != nil && airline.Name != "" {
		return airline.Name
	}
	if branded != "" {
		return branded
	}
	return prefix
}
