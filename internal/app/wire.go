package app

import (
	"context"
	"fmt"
	"shipment-savings-service/internal/adapters/cache"
	"shipment-savings-service/internal/adapters/geocoding"
	"shipment-savings-service/internal/config"
	"shipment-savings-service/internal/domain"
	"shipment-savings-service/internal/platform/db"
	"shipment-savings-service/internal/ports"
	"shipment-savings-service/internal/services"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Nominatim's public usage policy allows one request per second.
const nominatimMinInterval = time.Second

// Components are the long-lived pieces shared by the binaries.
type Components struct {
	Resolver *services.CoordinateResolver
	Pipeline *services.RowPipeline

	closers []func() error
}

// Close releases store connections.
func (c *Components) Close() error {
	var first error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Build wires the configured cache store, the Nominatim client, the resolver
// and the row pipeline.
func Build(ctx context.Context, cfg config.Config) (*Components, error) {
	tariffs := services.DefaultTariffs()
	overrides := services.DefaultCoordinateOverrides()

	if cfg.TablesPath != "" {
		tables, err := config.LoadTables(cfg.TablesPath)
		if err != nil {
			return nil, fmt.Errorf("build: %w", err)
		}
		mergeTariffs(tariffs, tables.Tariffs)
		mergeOverrides(overrides, tables.Overrides)

		zap.L().Info("tables loaded",
			zap.String("path", cfg.TablesPath),
			zap.Int("tariffs", len(tables.Tariffs)),
			zap.Int("overrides", len(tables.Overrides)),
		)
	}

	c := &Components{}

	store, closer, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	if closer != nil {
		c.closers = append(c.closers, closer)
	}

	geocoder, err := geocoding.NewNominatimGeocoder(geocoding.NominatimConfig{
		BaseURL:     cfg.GeocoderURL,
		UserAgent:   cfg.GeocoderUserAgent,
		Timeout:     cfg.GeocoderTimeout,
		MinInterval: nominatimMinInterval,
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("build: %w", err)
	}

	opts := services.DefaultResolverOptions()
	opts.Country = cfg.GeocoderCountry
	opts.Retries = cfg.GeocodeRetries
	opts.Overrides = overrides

	resolver, err := services.NewCoordinateResolver(ctx, geocoder, store, opts)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("build: %w", err)
	}

	pipeline, err := services.NewRowPipeline(resolver, services.NewTariffTable(tariffs), cfg.PalletCount)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("build: %w", err)
	}

	c.Resolver = resolver
	c.Pipeline = pipeline
	return c, nil
}

// OpenStore opens the coordinate store selected by CACHE_BACKEND.
// The returned closer is nil for the file backend.
func OpenStore(ctx context.Context, cfg config.Config) (ports.CoordinateStore, func() error, error) {
	switch cfg.CacheBackend {
	case "file":
		return cache.NewFileCoordinateStore(cfg.CachePath), nil, nil

	case "sqlite":
		conn, err := db.OpenSqlite(cfg.SqlitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		store := cache.NewSqliteCoordinateStore(conn)
		if err := store.InitSchema(ctx); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return store, conn.Close, nil

	case "postgres":
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		store := cache.NewSQLCoordinateStore(conn)
		if err := store.InitSchema(ctx); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return store, conn.Close, nil

	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("open store: ping redis %q: %w", cfg.RedisAddr, err)
		}
		return cache.NewRedisCoordinateStore(client, cfg.RedisKey), client.Close, nil
	}

	return nil, nil, fmt.Errorf("open store: unknown backend %q", cfg.CacheBackend)
}

func mergeTariffs(dst, src map[string]domain.TariffRule) {
	for k, v := range src {
		dst[k] = v
	}
}

func mergeOverrides(dst, src map[string]domain.Coordinates) {
	for k, v := range src {
		dst[k] = v
	}
}
