package config

import (
	"os"
	"path/filepath"
	"shipment-savings-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadTablesYAML(t *testing.T) {
	path := writeFile(t, "tables.yaml", `
tariffs:
  transportadora_x:
    per_pallet: 12.5
    transshipment: 300
    daily_rate: 0
overrides:
  - city: "Ribeirão Preto"
    state: sp
    lat: -21.1775
    lon: -47.8103
`)

	tables, err := LoadTables(path)
	require.NoError(t, err)

	assert.Equal(t, domain.TariffRule{PerPallet: 12.5, Transshipment: 300}, tables.Tariffs["TRANSPORTADORA_X"])
	assert.Equal(t, domain.Coordinates{Lat: -21.1775, Lon: -47.8103}, tables.Overrides["RIBEIRAO PRETO, SP"])
}

func TestLoadTablesRejectsNegativeTariff(t *testing.T) {
	path := writeFile(t, "tables.json", `{"tariffs": {"BAD": {"per_pallet": -1}}}`)

	_, err := LoadTables(path)
	assert.Error(t, err)
}

func TestLoadTablesMissingFile(t *testing.T) {
	_, err := LoadTables(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"CACHE_BACKEND", "GEOCODE_RETRIES", "PALLET_COUNT", "GEOCODER_TIMEOUT", "DATABASE_URL"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.CacheBackend)
	assert.Equal(t, "coord_cache.json", cfg.CachePath)
	assert.Equal(t, 3, cfg.GeocodeRetries)
	assert.Equal(t, 30, cfg.PalletCount)
	assert.Equal(t, "Brazil", cfg.GeocoderCountry)
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("CACHE_BACKEND", "file")
	t.Setenv("GEOCODE_RETRIES", "0")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("GEOCODE_RETRIES", "abc")
	_, err = Load()
	assert.Error(t, err)
}
