package repository

import (
	"context"

	"flighttrack-service/internal/domain/entity"
)

// FlightRecordRepository persists the consolidated flight history.
// Upsert keys on the record's dedup key so incremental runs extend the
// stored history instead of duplicating it.
type FlightRecordRepository interface {
	FindByDedupKey(ctx context.Context, key string) (*entity.FlightRecord, error)
	Upsert(ctx context.Context, record *entity.FlightRecord) error
	FindAll(ctx context.Context) ([]*entity.FlightRecord, error)
}
