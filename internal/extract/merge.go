package extract

import (
	"sort"
	"time"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/pkg/logger"
)

// Merger collapses candidate records describing the same physical flight
// into one canonical entry. It is the only component that accepts records
// into a FlightHistory.
type Merger struct {
	logger logger.Logger
}

func NewMerger(log logger.Logger) *Merger {
	return &Merger{logger: log}
}

// routeKey is the fallback dedup key: same flight number and route on the
// same calendar day, regardless of booking reference presence.
func routeKey(r *entity.FlightRecord) string {
	return r.FlightNumber + ":" + r.DepartureAirport + ":" + r.ArrivalAirport + ":" + r.DepartureDate()
}

// Merge deduplicates records in discovery order and returns them sorted
// by departure time ascending; records without a departure time keep
// their discovery order at the end. Returns the merged records plus the
// conflict and duplicate counts for the run summary.
func (m *Merger) Merge(records []*entity.FlightRecord) ([]*entity.FlightRecord, int, int) {
	var out []*entity.FlightRecord
	byKey := make(map[string]int)
	byRoute := make(map[string]int)
	conflicts := 0
	duplicates := 0

	for _, rec := range records {
		idx, found := byKey[rec.Key()]
		if !found {
			idx, found = byRoute[routeKey(rec)]
		}

		if !found {
			copied := *rec
			copied.DedupKey = copied.Key()
			out = append(out, &copied)
			byKey[copied.Key()] = len(out) - 1
			byRoute[routeKey(&copied)] = len(out) - 1
			continue
		}

		duplicates++
		mergedRec, n := m.mergeInto(out[idx], rec)
		conflicts += n
		out[idx] = mergedRec
		byKey[mergedRec.Key()] = idx
		byRoute[routeKey(mergedRec)] = idx
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := out[i].DepartureTime, out[j].DepartureTime
		if ti.IsZero() || tj.IsZero() {
			// unknown departure times sort last, stably
			return !ti.IsZero() && tj.IsZero()
		}
		return ti.Before(tj)
	})

	return out, conflicts, duplicates
}

// mergeInto merges next into base. Base stays the record with more filled
// fields; empty fields take the other side's value; conflicting non-empty
// values go to the more trusted (lower priority index) format and are
// logged. Provenance is always the first-seen email.
func (m *Merger) mergeInto(base, next *entity.FlightRecord) (*entity.FlightRecord, int) {
	first, second := base, next
	if next.FilledFields() > base.FilledFields() {
		first, second = next, base
	}

	merged := *first
	merged.SourceEmailID = base.SourceEmailID
	merged.Absorbed = base.Absorbed + next.Absorbed + 1
	if second.FormatPriority < merged.FormatPriority {
		merged.FormatPriority = second.FormatPriority
	}

	conflicts := 0
	conflicts += m.mergeString(&merged.Airline, first, second, func(r *entity.FlightRecord) string { return r.Airline }, "airline")
	conflicts += m.mergeString(&merged.BookingReference, first, second, func(r *entity.FlightRecord) string { return r.BookingReference }, "bookingReference")
	conflicts += m.mergeTime(&merged.DepartureTime, &merged.DepartureZoneKnown, first, second,
		func(r *entity.FlightRecord) (time.Time, bool) { return r.DepartureTime, r.DepartureZoneKnown }, "departureTime")
	conflicts += m.mergeTime(&merged.ArrivalTime, &merged.ArrivalZoneKnown, first, second,
		func(r *entity.FlightRecord) (time.Time, bool) { return r.ArrivalTime, r.ArrivalZoneKnown }, "arrivalTime")

	// A trusted departure can land after the arrival the other side
	// reported. The stale arrival cannot stand in the output.
	if !merged.ArrivalTime.IsZero() && !merged.ArrivalTime.After(merged.DepartureTime) {
		m.logger.Warn("Dropping arrival at or before merged departure",
			"dedupKey", first.Key(),
			"departure", merged.DepartureTime.Format(time.RFC3339),
			"arrival", merged.ArrivalTime.Format(time.RFC3339))
		merged.ArrivalTime = time.Time{}
		merged.ArrivalZoneKnown = false
	}

	// Recompute rather than trust a copied value: either timestamp may
	// have changed above.
	merged.Duration = 0
	if !merged.ArrivalTime.IsZero() && merged.DepartureZoneKnown && merged.ArrivalZoneKnown {
		merged.Duration = merged.ArrivalTime.Sub(merged.DepartureTime)
	}

	merged.DedupKey = merged.Key()
	return &merged, conflicts
}

func (m *Merger) mergeString(dst *string, first, second *entity.FlightRecord, get func(*entity.FlightRecord) string, field string) int {
	a, b := get(first), get(second)
	if b == "" || a == b {
		return 0
	}
	if a == "" {
		*dst = b
		return 0
	}
	// Conflict: both non-empty and different. The more trusted format wins.
	winner, loser := a, b
	if second.FormatPriority < first.FormatPriority {
		winner, loser = b, a
	}
	m.logger.Warn("Merge conflict",
		"field", field,
		"kept", winner,
		"dropped", loser,
		"dedupKey", first.Key())
	*dst = winner
	return 1
}

func (m *Merger) mergeTime(dst *time.Time, dstZone *bool, first, second *entity.FlightRecord, get func(*entity.FlightRecord) (time.Time, bool), field string) int {
	a, aZone := get(first)
	b, bZone := get(second)
	if b.IsZero() || a.Equal(b) {
		return 0
	}
	if a.IsZero() {
		*dst, *dstZone = b, bZone
		return 0
	}
	winner, winnerZone := a, aZone
	loser := b
	if second.FormatPriority < first.FormatPriority {
		winner, winnerZone = b, bZone
		loser = a
	}
	m.logger.Warn("Merge conflict",
		"field", field,
		"kept", winner.Format(time.RFC3339),
		"dropped", loser.Format(time.RFC3339),
		"dedupKey", first.Key())
	*dst, *dstZone = winner, winnerZone
	return 1
}

// MergeHistories consolidates per-account histories into one, applying
// the identical dedup key and merge policy across account boundaries.
func (m *Merger) MergeHistories(histories ...*entity.FlightHistory) []*entity.FlightRecord {
	var all []*entity.FlightRecord
	for _, h := range histories {
		if h == nil {
			continue
		}
		all = append(all, h.Records...)
	}
	merged, _, _ := m.Merge(all)
	return merged
}
