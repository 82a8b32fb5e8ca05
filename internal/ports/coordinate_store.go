package ports

import (
	"context"
	"shipment-savings-service/internal/domain"
)

// Port: durable storage behind the coordinate cache.
// Keys are normalized "CITY, STATE" strings produced by the caller.
type CoordinateStore interface {
	// Return every persisted entry, including unresolvable sentinels.
	LoadAll(ctx context.Context) (map[string]domain.CacheEntry, error)
	// Persist one entry. The write is durable when Save returns nil.
	Save(ctx context.Context, key string, entry domain.CacheEntry) error
}
