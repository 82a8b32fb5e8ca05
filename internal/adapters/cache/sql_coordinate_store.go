package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"shipment-savings-service/internal/domain"
	"shipment-savings-service/internal/platform/obs"
	"strings"
)

// SQLCoordinateStore is a Postgres-backed coordinate store (pgx stdlib driver).
type SQLCoordinateStore struct {
	DB *sql.DB
}

func NewSQLCoordinateStore(db *sql.DB) *SQLCoordinateStore {
	return &SQLCoordinateStore{DB: db}
}

func (s *SQLCoordinateStore) InitSchema(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("init schema: DB is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS coordinate_cache (
        cache_key TEXT PRIMARY KEY,
        lat DOUBLE PRECISION,
        lon DOUBLE PRECISION,
        resolved BOOLEAN NOT NULL
    );
	`
	if _, err := s.DB.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("init schema: create coordinate_cache: %w", err)
	}

	return nil
}

// Fetch every cached entry.
func (s *SQLCoordinateStore) LoadAll(ctx context.Context) (_ map[string]domain.CacheEntry, err error) {
	defer obs.Time(ctx, "coordinate.cache.LoadAll")(&err)

	if s.DB == nil {
		return nil, errors.New("coordinate cache: db is nil")
	}

	q := `
	SELECT cache_key, lat, lon, resolved
    FROM coordinate_cache;
	`

	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("get coordinate cache: query coordinate_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.CacheEntry)
	for rows.Next() {
		var key string
		var lat, lon sql.NullFloat64
		var resolved bool
		if err := rows.Scan(&key, &lat, &lon, &resolved); err != nil {
			return nil, fmt.Errorf("get coordinate cache: scan rows: %w", err)
		}
		out[key] = scanEntry(lat, lon, resolved)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get coordinate cache: row iteration: %w", err)
	}

	return out, nil
}

// Store one key -> entry mapping.
func (s *SQLCoordinateStore) Save(ctx context.Context, key string, entry domain.CacheEntry) error {
	if s.DB == nil {
		return errors.New("coordinate cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("insert coordinate cache: empty key")
	}

	lat, lon := entryColumns(entry)

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO coordinate_cache (cache_key, lat, lon, resolved)
    VALUES ($1, $2, $3, $4)
	ON CONFLICT (cache_key) DO UPDATE
	SET lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		resolved = EXCLUDED.resolved;
	`, key, lat, lon, entry.Resolved)
	if err != nil {
		return fmt.Errorf("insert coordinate cache key=%q: %w", key, err)
	}

	return nil
}
