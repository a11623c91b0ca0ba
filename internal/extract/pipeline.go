package extract

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/pkg/logger"
)

// ErrEmptyBatch is the only fatal pipeline condition: there was nothing
// to process at all. Everything per-email or per-candidate degrades to a
// summary counter instead.
var ErrEmptyBatch = errors.New("extract: empty email batch")

// Pipeline is the pure batch transformation: RawEmail batch in,
// FlightHistory plus RunSummary out. No I/O, no shared state between
// runs, safe to invoke concurrently on independent batches.
type Pipeline struct {
	registry   *Registry
	normalizer *Normalizer
	merger     *Merger
	logger     logger.Logger
}

// NewPipeline assembles the detector, extractors, normalizer and merger.
func NewPipeline(registry *Registry, normalizer *Normalizer, merger *Merger, log logger.Logger) *Pipeline {
	return &Pipeline{
		registry:   registry,
		normalizer: normalizer,
		merger:     merger,
		logger:     log,
	}
}

// Run processes one batch in discovery order.
func (p *Pipeline) Run(ctx context.Context, emails []*entity.RawEmail) (*entity.FlightHistory, *entity.RunSummary, error) {
	if len(emails) == 0 {
		return nil, nil, ErrEmptyBatch
	}

	summary := &entity.RunSummary{RunID: uuid.NewString()}
	var accepted []*entity.FlightRecord

	for _, email := range emails {
		summary.EmailsSeen++

		format := p.registry.Detect(email)
		if format == FormatUnknown {
			summary.EmailsUnrecognized++
			p.logger.Debug("Unrecognized email format",
				"emailID", email.EmailID,
				"from", email.From,
				"subject", email.Subject)
			continue
		}
		summary.EmailsRecognized++

		extractor := p.registry.ExtractorFor(format)
		if extractor == nil {
			// registry and detector disagree: treat as unrecognized
			summary.EmailsRecognized--
			summary.EmailsUnrecognized++
			continue
		}

		candidates := extractor.Extract(email)
		summary.CandidatesExtracted += len(candidates)

		for _, c := range candidates {
			record, err := p.normalizer.Normalize(ctx, c)
			if err != nil {
				p.countReject(summary, email.EmailID, err)
				continue
			}
			record.FormatPriority = p.registry.Priority(format)
			accepted = append(accepted, record)
		}
	}

	merged, conflicts, duplicates := p.merger.Merge(accepted)
	summary.MergeConflicts = conflicts
	summary.DuplicatesMerged = duplicates
	summary.Flights = len(merged)

	history := &entity.FlightHistory{
		RunID:       summary.RunID,
		GeneratedAt: time.Now().UTC(),
		Records:     merged,
	}
	return history, summary, nil
}

func (p *Pipeline) countReject(summary *entity.RunSummary, emailID string, err error) {
	var rej *RejectError
	if !errors.As(err, &rej) {
		summary.RejectedNormalize++
		p.logger.Warn("Candidate rejected", "emailID", emailID, "error", err)
		return
	}

	switch rej.Reason {
	case RejectMissingField:
		summary.RejectedMissingField++
		p.logger.Debug("Candidate dropped, mandatory field missing", "emailID", emailID, "detail", rej.Detail)
	case RejectInvariant:
		// An inverted leg points at a parser bug, not template drift.
		summary.InvariantViolations++
		p.logger.Warn("Candidate violated record invariant", "emailID", emailID, "detail", rej.Detail)
	default:
		summary.RejectedNormalize++
		p.logger.Debug("Candidate failed normalization", "emailID", emailID, "reason", rej.Reason, "detail", rej.Detail)
	}
}
