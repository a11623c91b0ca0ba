package repository

import (
	"context"
	"time"

	"flighttrack-service/internal/domain/entity"
)

// EmailRepository is the raw-email store: fetched batches are persisted
// here so extraction can run offline and repeatably.
type EmailRepository interface {
	Save(ctx context.Context, email *entity.RawEmail) error
	FindByEmailID(ctx context.Context, emailID string) (*entity.RawEmail, error)
	FindByEmailIDs(ctx context.Context, emailIDs []string) (map[string]*entity.RawEmail, error)
	// FindByWindow returns the stored batch for a received-time window,
	// oldest first. Account narrows the batch when non-empty.
	FindByWindow(ctx context.Context, account string, start, end time.Time) ([]*entity.RawEmail, error)
	GetLastReceived(ctx context.Context, account string) (*entity.RawEmail, error)
}
