package repository

import (
	"context"

	"flighttrack-service/internal/domain/entity"
)

// AirlineRepository resolves IATA carrier codes to airline reference data.
type AirlineRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Airline, error)
}
