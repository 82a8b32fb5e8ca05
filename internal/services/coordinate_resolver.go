package services

import (
	"context"
	"errors"
	"fmt"
	"shipment-savings-service/internal/domain"
	"shipment-savings-service/internal/locationkey"
	"shipment-savings-service/internal/platform/obs"
	"shipment-savings-service/internal/ports"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ResolverOptions tunes the lookup policy of a CoordinateResolver.
type ResolverOptions struct {
	// Country appended to every provider query.
	Country string
	// Attempts with the full "city, state, country" query before the degraded fallback.
	Retries int
	// Pause after each failed attempt.
	RetryPause time.Duration
	// Pause after a successful full query, before returning.
	PolitenessDelay time.Duration
	// Coordinates that bypass cache and provider, keyed by locationkey.Key.
	Overrides map[string]domain.Coordinates
	// Sleep implementation; tests replace it to avoid real waits.
	Pause func(ctx context.Context, d time.Duration) error
}

func DefaultResolverOptions() ResolverOptions {
	return ResolverOptions{
		Country:         "Brazil",
		Retries:         3,
		RetryPause:      time.Second,
		PolitenessDelay: time.Second,
		Overrides:       DefaultCoordinateOverrides(),
		Pause:           sleepContext,
	}
}

// DefaultCoordinateOverrides lists places the public geocoder is known to get wrong.
func DefaultCoordinateOverrides() map[string]domain.Coordinates {
	return map[string]domain.Coordinates{
		"SAO PAULO, SP":      {Lat: -23.5505, Lon: -46.6333},
		"CAMPINAS, SP":       {Lat: -22.9056, Lon: -47.0608},
		"CURITIBA, PR":       {Lat: -25.4284, Lon: -49.2733},
		"RIO DE JANEIRO, RJ": {Lat: -22.9068, Lon: -43.1729},
	}
}

// CoordinateResolver resolves (city, state) pairs to coordinates.
//
// It owns the coordinate cache: entries are loaded from the store once at
// construction and every new entry is written through to the store before
// Resolve returns. Cache hits only take a read lock; misses are serialized on
// lookupMu, so one resolver may be shared by concurrent callers without racing
// on the cache or the provider.
type CoordinateResolver struct {
	mu       sync.RWMutex
	lookupMu sync.Mutex
	geocoder ports.Geocoder
	store    ports.CoordinateStore
	entries  map[string]domain.CacheEntry
	opts     ResolverOptions
}

func NewCoordinateResolver(
	ctx context.Context,
	geocoder ports.Geocoder,
	store ports.CoordinateStore,
	opts ResolverOptions,
) (*CoordinateResolver, error) {
	if geocoder == nil {
		return nil, errors.New("new coordinate resolver: geocoder must be non-nil")
	}

	if store == nil {
		return nil, errors.New("new coordinate resolver: store must be non-nil")
	}

	if opts.Retries < 1 {
		return nil, fmt.Errorf("new coordinate resolver: retries must be >= 1, got %d", opts.Retries)
	}

	if opts.Pause == nil {
		opts.Pause = sleepContext
	}

	overrides := make(map[string]domain.Coordinates, len(opts.Overrides))
	for k, c := range opts.Overrides {
		overrides[k] = c
	}
	opts.Overrides = overrides

	entries, err := store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("new coordinate resolver: load cache: %w", err)
	}
	if entries == nil {
		entries = map[string]domain.CacheEntry{}
	}

	zap.L().Info("coordinate cache loaded", zap.Int("entries", len(entries)))

	return &CoordinateResolver{
		geocoder: geocoder,
		store:    store,
		entries:  entries,
		opts:     opts,
	}, nil
}

// Resolve returns the coordinates for city/state, or ok == false when the
// location is unresolvable.
//
// Provider failures never surface as errors; they end in a cached sentinel.
// err is non-nil only when the store rejects a write or ctx is done, and in
// the latter case nothing is cached for the interrupted lookup.
func (r *CoordinateResolver) Resolve(
	ctx context.Context,
	city string,
	state string,
) (_ domain.Coordinates, _ bool, err error) {
	city = locationkey.Normalize(city)
	state = locationkey.Normalize(state)
	key := locationkey.Join(city, state)

	// Nothing to look up; the query would degrade to the bare country.
	if city == "" {
		return domain.Coordinates{}, false, nil
	}

	if c, ok := r.opts.Overrides[key]; ok {
		return c, true, nil
	}

	if e, ok := r.cached(key); ok {
		return e.Coordinates, e.Resolved, nil
	}

	r.lookupMu.Lock()
	defer r.lookupMu.Unlock()

	// Another caller may have finished the same lookup while we waited.
	if e, ok := r.cached(key); ok {
		return e.Coordinates, e.Resolved, nil
	}

	defer obs.Time(ctx, "resolver.lookup")(&err)

	full := r.query(city, state)
	for attempt := 1; attempt <= r.opts.Retries; attempt++ {
		c, gerr := r.geocoder.Geocode(ctx, full)
		if gerr == nil {
			if err := r.remember(ctx, key, domain.ResolvedEntry(c)); err != nil {
				return domain.Coordinates{}, false, err
			}
			// The entry is durable; a cancelled delay only ends the wait early.
			_ = r.opts.Pause(ctx, r.opts.PolitenessDelay)
			return c, true, nil
		}

		if err := ctx.Err(); err != nil {
			return domain.Coordinates{}, false, err
		}

		zap.L().Debug("geocode attempt failed",
			zap.String("key", key),
			zap.Int("attempt", attempt),
			zap.Bool("timeout", errors.Is(gerr, domain.ErrGeocodeTimeout)),
			zap.Error(gerr),
		)

		if err := r.opts.Pause(ctx, r.opts.RetryPause); err != nil {
			return domain.Coordinates{}, false, err
		}
	}

	// Degraded query: drop the state and try exactly once more.
	c, gerr := r.geocoder.Geocode(ctx, r.query(city, ""))
	if gerr == nil {
		if err := r.remember(ctx, key, domain.ResolvedEntry(c)); err != nil {
			return domain.Coordinates{}, false, err
		}
		return c, true, nil
	}

	if err := ctx.Err(); err != nil {
		return domain.Coordinates{}, false, err
	}

	zap.L().Warn("location unresolvable", zap.String("key", key), zap.Error(gerr))

	if err := r.remember(ctx, key, domain.UnresolvableEntry()); err != nil {
		return domain.Coordinates{}, false, err
	}
	return domain.Coordinates{}, false, nil
}

// CacheSize reports how many entries the cache holds.
func (r *CoordinateResolver) CacheSize() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *CoordinateResolver) cached(key string) (domain.CacheEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key]
	return e, ok
}

// remember writes through to the store first so memory never holds an entry
// the store does not.
func (r *CoordinateResolver) remember(ctx context.Context, key string, e domain.CacheEntry) error {
	if err := r.store.Save(ctx, key, e); err != nil {
		return fmt.Errorf("resolve %q: persist cache entry: %w", key, err)
	}

	r.mu.Lock()
	r.entries[key] = e
	r.mu.Unlock()
	return nil
}

func (r *CoordinateResolver) query(city, state string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{city, state, r.opts.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
