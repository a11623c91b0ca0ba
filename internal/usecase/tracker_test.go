package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/internal/domain/repository"
	"flighttrack-service/internal/extract"
	irepo "flighttrack-service/internal/interface/repository"
	"flighttrack-service/internal/interface/sink"
	"flighttrack-service/pkg/logger"
)

type fakeEmailRepo struct {
	emails []*entity.RawEmail
}

func (f *fakeEmailRepo) Save(_ context.Context, email *entity.RawEmail) error {
	f.emails = append(f.emails, email)
	return nil
}

func (f *fakeEmailRepo) FindByEmailID(_ context.Context, emailID string) (*entity.RawEmail, error) {
	for _, e := range f.emails {
		if e.EmailID == emailID {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeEmailRepo) FindByEmailIDs(_ context.Context, emailIDs []string) (map[string]*entity.RawEmail, error) {
	found := make(map[string]*entity.RawEmail)
	for _, id := range emailIDs {
		for _, e := range f.emails {
			if e.EmailID == id {
				found[id] = e
			}
		}
	}
	return found, nil
}

func (f *fakeEmailRepo) FindByWindow(_ context.Context, account string, start, end time.Time) ([]*entity.RawEmail, error) {
	var out []*entity.RawEmail
	for _, e := range f.emails {
		if account != "" && e.Account != account {
			continue
		}
		if e.ReceivedAt.Before(start) || !e.ReceivedAt.Before(end) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEmailRepo) GetLastReceived(_ context.Context, account string) (*entity.RawEmail, error) {
	var last *entity.RawEmail
	for _, e := range f.emails {
		if account != "" && e.Account != account {
			continue
		}
		if last == nil || e.ReceivedAt.After(last.ReceivedAt) {
			last = e
		}
	}
	return last, nil
}

type fakeRecordRepo struct {
	records map[string]*entity.FlightRecord
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: make(map[string]*entity.FlightRecord)}
}

func (f *fakeRecordRepo) FindByDedupKey(_ context.Context, key string) (*entity.FlightRecord, error) {
	return f.records[key], nil
}

func (f *fakeRecordRepo) Upsert(_ context.Context, record *entity.FlightRecord) error {
	f.records[record.DedupKey] = record
	return nil
}

func (f *fakeRecordRepo) FindAll(_ context.Context) ([]*entity.FlightRecord, error) {
	var out []*entity.FlightRecord
	for _, r := range f.records {
		out = append(out, r)
	}
	return out, nil
}

const vietjetConfirmation = `Booking Code: AB12CD

Flight: VJ123
From: Ho Chi Minh City (SGN)
To: Hanoi (HAN)
Departure: 15 Mar 2024 10:30
Arrival: 15 Mar 2024 12:40
`

func newTestTracker(emailRepo *fakeEmailRepo, recordRepo repository.FlightRecordRepository) *Tracker {
	log := logger.NewNop()
	pipeline := extract.NewPipeline(
		extract.NewRegistry(log),
		extract.NewNormalizer(
			irepo.NewStaticAirlineRepository(),
			irepo.NewStaticTimezoneRepository(),
			log,
		),
		extract.NewMerger(log),
		log,
	)
	return NewTracker(emailRepo, recordRepo, pipeline, extract.NewMerger(log), sink.NewFileWriter(log), nil, log)
}

func TestProcessWindowMergesAcrossAccounts(t *testing.T) {
	received := time.Date(2024, time.March, 14, 8, 0, 0, 0, time.UTC)
	emailRepo := &fakeEmailRepo{emails: []*entity.RawEmail{
		{
			EmailID:    "msg-personal",
			Account:    "personal",
			From:       "noreply@vietjetair.com",
			Subject:    "Booking confirmation AB12CD",
			Body:       vietjetConfirmation,
			ReceivedAt: received,
		},
		{
			// The same booking forwarded to the work mailbox.
			EmailID:    "msg-work",
			Account:    "work",
			From:       "noreply@vietjetair.com",
			Subject:    "Fwd: Booking confirmation AB12CD",
			Body:       vietjetConfirmation,
			ReceivedAt: received.Add(time.Hour),
		},
	}}
	recordRepo := newFakeRecordRepo()
	tracker := newTestTracker(emailRepo, recordRepo)

	report, err := tracker.ProcessWindow(
		context.Background(),
		[]string{"personal", "work"},
		received.Add(-24*time.Hour),
		received.Add(24*time.Hour),
	)
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 2, report.Summary.EmailsSeen)
	assert.Equal(t, 1, report.Summary.DuplicatesMerged)
	assert.Equal(t, 1, report.Summary.Flights)

	require.Len(t, report.History.Records, 1)
	record := report.History.Records[0]
	assert.Equal(t, "VJ123", record.FlightNumber)
	assert.Equal(t, 1, record.Absorbed)

	// The merged record landed in the history store under its dedup key.
	stored, err := recordRepo.FindByDedupKey(context.Background(), "AB12CD:VJ123")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "VJ123", stored.FlightNumber)
}

func TestProcessBatchesAllEmpty(t *testing.T) {
	tracker := newTestTracker(&fakeEmailRepo{}, nil)

	report, err := tracker.ProcessBatches(context.Background(), [][]*entity.RawEmail{nil, {}})
	assert.ErrorIs(t, err, extract.ErrEmptyBatch)
	assert.Nil(t, report)
}

func TestProcessBatchesWithoutRecordStore(t *testing.T) {
	received := time.Date(2024, time.March, 14, 8, 0, 0, 0, time.UTC)
	tracker := newTestTracker(&fakeEmailRepo{}, nil)

	batch := []*entity.RawEmail{{
		EmailID:    "msg-1",
		Account:    "primary",
		From:       "noreply@vietjetair.com",
		Subject:    "Booking confirmation",
		Body:       vietjetConfirmation,
		ReceivedAt: received,
	}}

	report, err := tracker.ProcessBatches(context.Background(), [][]*entity.RawEmail{batch})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Summary.Flights)
	assert.Equal(t, 1, report.Statistics.TotalFlights)
}

func TestWriteReportsSkipsEmptyPaths(t *testing.T) {
	tracker := newTestTracker(&fakeEmailRepo{}, nil)
	report := &sink.Report{
		History: &entity.FlightHistory{RunID: "run-1"},
		Summary: &entity.RunSummary{RunID: "run-1"},
	}

	// No paths configured: nothing to write, nothing to fail.
	assert.NoError(t, tracker.WriteReports(report, "", ""))
}
