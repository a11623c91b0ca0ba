package repository

import (
	"context"

	"flighttrack-service/internal/domain/entity"
)

// TimezoneRepository resolves IATA airport codes to timezone reference
// data.
type TimezoneRepository interface {
	GetByAirportCode(ctx context.Context, code string) (*entity.Timezone, error)
}
