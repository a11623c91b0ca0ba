package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/internal/domain/repository"
	"flighttrack-service/internal/extract"
	"flighttrack-service/internal/interface/sink"
	"flighttrack-service/pkg/logger"
	"flighttrack-service/pkg/metrics"
)

// Tracker runs the extraction pipeline over stored email batches and
// hands the consolidated history to the sinks. One Tracker serves all
// accounts of a run; per-account batches are independent until the final
// cross-account merge.
type Tracker struct {
	emailRepo  repository.EmailRepository
	recordRepo repository.FlightRecordRepository
	pipeline   *extract.Pipeline
	merger     *extract.Merger
	writer     *sink.FileWriter
	metrics    *metrics.Metrics
	logger     logger.Logger
}

// NewTracker creates a run orchestrator. recordRepo may be nil when no
// history persistence is configured; metrics may be nil in tests.
func NewTracker(
	emailRepo repository.EmailRepository,
	recordRepo repository.FlightRecordRepository,
	pipeline *extract.Pipeline,
	merger *extract.Merger,
	writer *sink.FileWriter,
	m *metrics.Metrics,
	log logger.Logger,
) *Tracker {
	return &Tracker{
		emailRepo:  emailRepo,
		recordRepo: recordRepo,
		pipeline:   pipeline,
		merger:     merger,
		writer:     writer,
		metrics:    m,
		logger:     log,
	}
}

// ProcessWindow loads each account's stored batch for the window and
// processes them as one run.
func (t *Tracker) ProcessWindow(ctx context.Context, accounts []string, start, end time.Time) (*sink.Report, error) {
	var batches [][]*entity.RawEmail
	for _, account := range accounts {
		batch, err := t.emailRepo.FindByWindow(ctx, account, start, end)
		if err != nil {
			t.logger.Error("Failed to load stored batch", "account", account, "error", err)
			continue
		}
		t.logger.Info("Loaded stored batch", "account", account, "emails", len(batch))
		batches = append(batches, batch)
	}
	return t.ProcessBatches(ctx, batches)
}

// ProcessBatches runs the pipeline per batch and merges the resulting
// histories across batch (account) boundaries with the same policy the
// per-batch merge uses.
func (t *Tracker) ProcessBatches(ctx context.Context, batches [][]*entity.RawEmail) (*sink.Report, error) {
	started := time.Now()

	combined := &entity.RunSummary{RunID: uuid.NewString()}
	var histories []*entity.FlightHistory
	recordsBefore := 0

	for _, batch := range batches {
		if len(batch) == 0 {
			continue
		}
		history, summary, err := t.pipeline.Run(ctx, batch)
		if err != nil {
			t.logger.Error("Batch processing failed", "error", err)
			continue
		}
		histories = append(histories, history)
		recordsBefore += len(history.Records)
		accumulate(combined, summary)
	}

	if len(histories) == 0 {
		return nil, extract.ErrEmptyBatch
	}

	merged := t.merger.MergeHistories(histories...)
	combined.DuplicatesMerged += recordsBefore - len(merged)
	combined.Flights = len(merged)

	history := &entity.FlightHistory{
		RunID:       combined.RunID,
		GeneratedAt: time.Now().UTC(),
		Records:     merged,
	}

	t.persistHistory(ctx, history)
	t.observe(combined, time.Since(started))

	report := &sink.Report{
		History:    history,
		Summary:    combined,
		Statistics: extract.BuildStatistics(merged),
	}

	t.logger.Info("Run completed",
		"runID", combined.RunID,
		"emailsSeen", combined.EmailsSeen,
		"recognized", combined.EmailsRecognized,
		"extracted", combined.CandidatesExtracted,
		"rejected", combined.RejectedMissingField+combined.RejectedNormalize,
		"invariantViolations", combined.InvariantViolations,
		"merged", combined.DuplicatesMerged,
		"flights", combined.Flights)

	return report, nil
}

// WriteReports writes the configured output files. An empty path skips
// that format.
func (t *Tracker) WriteReports(report *sink.Report, jsonPath, csvPath string) error {
	if jsonPath != "" {
		if err := t.writer.WriteJSON(jsonPath, report); err != nil {
			return err
		}
	}
	if csvPath != "" {
		if err := t.writer.WriteCSV(csvPath, report.History.Records); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tracker) persistHistory(ctx context.Context, history *entity.FlightHistory) {
	if t.recordRepo == nil {
		return
	}
	for _, record := range history.Records {
		if err := t.recordRepo.Upsert(ctx, record); err != nil {
			t.logger.Error("Failed to upsert flight record", "dedupKey", record.DedupKey, "error", err)
		}
	}
}

func (t *Tracker) observe(summary *entity.RunSummary, elapsed time.Duration) {
	if t.metrics == nil {
		return
	}
	t.metrics.EmailsProcessed.Add(float64(summary.EmailsSeen))
	t.metrics.FlightsExtracted.Add(float64(summary.Flights))
	t.metrics.RecordsRejected.WithLabelValues("missing_field").Add(float64(summary.RejectedMissingField))
	t.metrics.RecordsRejected.WithLabelValues("normalize").Add(float64(summary.RejectedNormalize))
	t.metrics.RecordsRejected.WithLabelValues("invariant").Add(float64(summary.InvariantViolations))
	t.metrics.ProcessingTime.Observe(elapsed.Seconds())
}

func accumulate(dst, src *entity.RunSummary) {
	dst.EmailsSeen += src.EmailsSeen
	dst.EmailsRecognized += src.EmailsRecognized
	dst.EmailsUnrecognized += src.EmailsUnrecognized
	dst.CandidatesExtracted += src.CandidatesExtracted
	dst.RejectedMissingField += src.RejectedMissingField
	dst.RejectedNormalize += src.RejectedNormalize
	dst.InvariantViolations += src.InvariantViolations
	dst.MergeConflicts += src.MergeConflicts
	dst.DuplicatesMerged += src.DuplicatesMerged
}
