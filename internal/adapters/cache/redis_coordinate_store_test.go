package cache

import (
	"context"
	"shipment-savings-service/internal/domain"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCoordinateStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewRedisCoordinateStore(client, "")

	sp := domain.Coordinates{Lat: -23.5505, Lon: -46.6333}
	require.NoError(t, store.Save(ctx, "SAO PAULO, SP", domain.ResolvedEntry(sp)))
	require.NoError(t, store.Save(ctx, "NOWHERE, ", domain.UnresolvableEntry()))

	assert.Equal(t, "[-23.5505,-46.6333]", mr.HGet("coord_cache", "SAO PAULO, SP"))
	assert.Equal(t, "null", mr.HGet("coord_cache", "NOWHERE, "))

	entries, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.ResolvedEntry(sp), entries["SAO PAULO, SP"])
	assert.False(t, entries["NOWHERE, "].Resolved)
}

func TestRedisCoordinateStoreBadValue(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.HSet("coord_cache", "BROKEN, ", "{")
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	_, err := NewRedisCoordinateStore(client, "coord_cache").LoadAll(context.Background())
	assert.Error(t, err)
}
