package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"shipment-savings-service/internal/domain"
	"strings"
)

// SQLite backed coordinate store.
// Keys are expected to be normalized by the caller.
type SqliteCoordinateStore struct {
	DB *sql.DB
}

func NewSqliteCoordinateStore(db *sql.DB) *SqliteCoordinateStore {
	return &SqliteCoordinateStore{DB: db}
}

// Create the coordinate_cache table when missing.
func (s *SqliteCoordinateStore) InitSchema(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("init schema: DB is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS coordinate_cache (
        cache_key TEXT PRIMARY KEY,
        lat REAL,
        lon REAL,
        resolved INTEGER NOT NULL
    );
	`
	if _, err := s.DB.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("init schema: create coordinate_cache: %w", err)
	}

	return nil
}

// Fetch every cached entry.
func (s *SqliteCoordinateStore) LoadAll(ctx context.Context) (map[string]domain.CacheEntry, error) {
	if s.DB == nil {
		return nil, errors.New("coordinate cache: db is nil")
	}

	q := `
	SELECT 
        cache_key,
        lat,
        lon,
        resolved
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
func (s *SqliteCoordinateStore) Save(ctx context.Context, key string, entry domain.CacheEntry) error {
	if s.DB == nil {
		return errors.New("coordinate cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("insert coordinate cache: empty key")
	}

	lat, lon := entryColumns(entry)

	_, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO coordinate_cache (
        cache_key,
        lat,
        lon,
        resolved
    )
    VALUES (?, ?, ?, ?);
	`, key, lat, lon, entry.Resolved)
	if err != nil {
		return fmt.Errorf("insert coordinate cache key=%q: %w", key, err)
	}

	return nil
}

func scanEntry(lat, lon sql.NullFloat64, resolved bool) domain.CacheEntry {
	if !resolved || !lat.Valid || !lon.Valid {
		return domain.UnresolvableEntry()
	}
	return domain.ResolvedEntry(domain.Coordinates{Lat: lat.Float64, Lon: lon.Float64})
}

// Sentinels are stored with NULL coordinates.
func entryColumns(e domain.CacheEntry) (lat, lon sql.NullFloat64) {
	if !e.Resolved {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: e.Coordinates.Lat, Valid: true},
		sql.NullFloat64{Float64: e.Coordinates.Lon, Valid: true}
}
