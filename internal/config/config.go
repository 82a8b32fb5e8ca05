package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the runtime configuration shared by the binaries.
type Config struct {
	InputPath  string
	OutputPath string
	InputSheet string

	CacheBackend string
	CachePath    string
	SqlitePath   string
	DatabaseURL  string
	RedisAddr    string
	RedisKey     string

	GeocoderURL       string
	GeocoderUserAgent string
	GeocoderTimeout   time.Duration
	GeocoderCountry   string
	GeocodeRetries    int

	PalletCount int
	TablesPath  string

	Port     string
	LogLevel string
}

// LoadEnv reads a .env file when present. A missing file is not an error.
func LoadEnv() bool {
	return godotenv.Load() == nil
}

// Load builds a Config from the environment, applying defaults.
func Load() (Config, error) {
	timeout, err := GetDuration("GEOCODER_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}

	retries, err := GetInt("GEOCODE_RETRIES", 3)
	if err != nil {
		return Config{}, err
	}
	if retries < 1 {
		return Config{}, fmt.Errorf("config: GEOCODE_RETRIES must be >= 1, got %d", retries)
	}

	pallets, err := GetInt("PALLET_COUNT", 30)
	if err != nil {
		return Config{}, err
	}
	if pallets < 0 {
		return Config{}, fmt.Errorf("config: PALLET_COUNT must be >= 0, got %d", pallets)
	}

	cfg := Config{
		InputPath:  Get("INPUT_PATH", "ANTECIPADAS.xlsx"),
		OutputPath: Get("OUTPUT_PATH", "saving_gerado.xlsx"),
		InputSheet: Get("INPUT_SHEET", "ANTECIPADAS"),

		CacheBackend: strings.ToLower(Get("CACHE_BACKEND", "file")),
		CachePath:    Get("CACHE_PATH", "coord_cache.json"),
		SqlitePath:   Get("SQLITE_PATH", "data/coord_cache.db"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisAddr:    Get("REDIS_ADDR", "localhost:6379"),
		RedisKey:     Get("REDIS_KEY", "coord_cache"),

		GeocoderURL:       Get("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent: Get("GEOCODER_USER_AGENT", "saving_calculator"),
		GeocoderTimeout:   timeout,
		GeocoderCountry:   Get("GEOCODER_COUNTRY", "Brazil"),
		GeocodeRetries:    retries,

		PalletCount: pallets,
		TablesPath:  os.Getenv("TABLES_PATH"),

		Port:     Get("PORT", "8080"),
		LogLevel: Get("LOG_LEVEL", "info"),
	}

	switch cfg.CacheBackend {
	case "file", "sqlite", "redis":
	case "postgres":
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return Config{}, fmt.Errorf("config: DATABASE_URL is required for cache backend %q", cfg.CacheBackend)
		}
	default:
		return Config{}, fmt.Errorf("config: unknown CACHE_BACKEND %q", cfg.CacheBackend)
	}

	return cfg, nil
}

func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
