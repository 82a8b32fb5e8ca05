package ports

import (
	"context"
	"shipment-savings-service/internal/domain"
)

// Resolves a city and optional state to coordinates.
// ok is false when the location is unresolvable.
type LocationResolver interface {
	Resolve(ctx context.Context, city, state string) (coords domain.Coordinates, ok bool, err error)
}
