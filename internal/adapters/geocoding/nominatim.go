package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"shipment-savings-service/internal/domain"
	"shipment-savings-service/internal/platform/obs"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// NominatimConfig configures the OpenStreetMap Nominatim client.
type NominatimConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// Minimum spacing between outbound requests. Zero disables throttling.
	MinInterval time.Duration
}

// NominatimGeocoder implements ports.Geocoder against the Nominatim /search endpoint.
//
// Each Geocode call issues exactly one HTTP request; retry policy belongs to the caller.
// Outbound requests are throttled to respect the public instance's usage policy.
type NominatimGeocoder struct {
	session   *http.Client
	baseURL   string
	userAgent string
	limiter   *rate.Limiter
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func NewNominatimGeocoder(cfg NominatimConfig) (*NominatimGeocoder, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("nominatim base url is empty")
	}

	if strings.TrimSpace(cfg.UserAgent) == "" {
		return nil, errors.New("nominatim user agent is empty")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}

	return &NominatimGeocoder{
		session:   &http.Client{Timeout: timeout},
		baseURL:   base,
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(limit, 1),
	}, nil
}

// Geocode resolves a free-text query to the provider's best match.
func (n *NominatimGeocoder) Geocode(ctx context.Context, query string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "nominatim.Geocode")(&err)

	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Coordinates{}, errors.New("geocode: query must be non-empty")
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: wait for rate limit: %w", query, err)
	}

	req, err := n.newRequest(ctx, n.baseURL+"/search")
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", query, err)
	}

	q := req.URL.Query()
	q.Set("q", query)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")
	req.URL.RawQuery = q.Encode()

	resp, err := n.do(req)
	if err != nil {
		if isTimeout(err) {
			return domain.Coordinates{}, fmt.Errorf("geocode %q: %w: %v", query, domain.ErrGeocodeTimeout, err)
		}
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", query, err)
	}
	defer resp.Body.Close()

	var decoded []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		if isTimeout(err) {
			return domain.Coordinates{}, fmt.Errorf("geocode %q: %w: %v", query, domain.ErrGeocodeTimeout, err)
		}
		return domain.Coordinates{}, fmt.Errorf("geocode %q: decode response: %w", query, err)
	}

	if len(decoded) == 0 {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", query, domain.ErrLocationNotFound)
	}

	lat, err := strconv.ParseFloat(decoded[0].Lat, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: invalid latitude %q: %w", query, decoded[0].Lat, err)
	}

	lon, err := strconv.ParseFloat(decoded[0].Lon, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: invalid longitude %q: %w", query, decoded[0].Lon, err)
	}

	return domain.Coordinates{Lat: lat, Lon: lon}, nil
}
