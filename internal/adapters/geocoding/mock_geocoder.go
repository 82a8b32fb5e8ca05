package geocoding

import (
	"context"
	"fmt"
	"shipment-savings-service/internal/domain"
	"sync"
)

// MockGeocoder answers from a fixed table and records every query it receives.
// Queries listed in Timeouts fail with domain.ErrGeocodeTimeout; anything else
// not in Results fails with domain.ErrLocationNotFound.
type MockGeocoder struct {
	mu       sync.Mutex
	results  map[string]domain.Coordinates
	timeouts map[string]int
	calls    []string
}

func NewMockGeocoder(results map[string]domain.Coordinates) *MockGeocoder {
	m := make(map[string]domain.Coordinates, len(results))
	for q, c := range results {
		m[q] = c
	}
	return &MockGeocoder{results: m, timeouts: map[string]int{}}
}

// TimeoutFor makes the next n lookups of query time out.
func (g *MockGeocoder) TimeoutFor(query string, n int) *MockGeocoder {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.timeouts[query] = n
	return g
}

func (g *MockGeocoder) Geocode(ctx context.Context, query string) (domain.Coordinates, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls = append(g.calls, query)

	if n := g.timeouts[query]; n > 0 {
		g.timeouts[query] = n - 1
		return domain.Coordinates{}, fmt.Errorf("mock geocode %q: %w", query, domain.ErrGeocodeTimeout)
	}

	c, ok := g.results[query]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("mock geocode %q: %w", query, domain.ErrLocationNotFound)
	}

	return c, nil
}

// Calls returns a copy of every query received, in order.
func (g *MockGeocoder) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}
