package repository

import (
	"context"

	"flightdata-service/internal/domain/entity"
)

// AirlineRepository resolves airline reference data.
type AirlineRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Airline, error)
	GetByName(ctx context.Context, name string) (*entity.Airline, error)
}
