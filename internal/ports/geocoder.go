package ports

import (
	"context"
	"shipment-savings-service/internal/domain"
)

// Contract for turning a free-text place query into coordinates.
//
// Implementations return domain.ErrLocationNotFound when the provider has no
// match and domain.ErrGeocodeTimeout when the provider did not answer in time.
// No ordering or latency guarantee is assumed beyond "completes or times out".
type Geocoder interface {
	Geocode(ctx context.Context, query string) (domain.Coordinates, error)
}
