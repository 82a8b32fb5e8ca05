package services

import (
	"context"
	"errors"
	"shipment-savings-service/internal/domain"
	"sync"
	"time"
)

// memoryStore is an in-memory ports.CoordinateStore that counts writes.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]domain.CacheEntry
	saves   int
	failErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: map[string]domain.CacheEntry{}}
}

func (m *memoryStore) LoadAll(ctx context.Context) (map[string]domain.CacheEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]domain.CacheEntry, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out, nil
}

func (m *memoryStore) Save(ctx context.Context, key string, e domain.CacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.saves++
	m.entries[key] = e
	return nil
}

var errDiskFull = errors.New("disk full")

// pauseRecorder replaces real sleeps and remembers requested durations.
type pauseRecorder struct {
	mu     sync.Mutex
	pauses []time.Duration
}

func (p *pauseRecorder) pause(ctx context.Context, d time.Duration) error {
	p.mu.Lock()
	p.pauses = append(p.pauses, d)
	p.mu.Unlock()
	return ctx.Err()
}

func (p *pauseRecorder) recorded() []time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]time.Duration(nil), p.pauses...)
}

// collectSink keeps every result in memory.
type collectSink struct {
	results []domain.SavingsResult
	err     error
}

func (c *collectSink) WriteResult(r domain.SavingsResult) error {
	if c.err != nil {
		return c.err
	}
	c.results = append(c.results, r)
	return nil
}

var (
	saoPaulo = domain.Coordinates{Lat: -23.5505, Lon: -46.6333}
	campinas = domain.Coordinates{Lat: -22.9056, Lon: -47.0608}
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
