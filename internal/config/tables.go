package config

import (
	"fmt"
	"shipment-savings-service/internal/domain"
	"shipment-savings-service/internal/locationkey"
	"strings"

	"github.com/spf13/viper"
)

// Tables are the optional static lookup tables read from TABLES_PATH.
// Entries are merged over the built-in defaults at startup.
type Tables struct {
	Tariffs   map[string]domain.TariffRule
	Overrides map[string]domain.Coordinates
}

type tariffEntry struct {
	PerPallet     float64 `mapstructure:"per_pallet"`
	Transshipment float64 `mapstructure:"transshipment"`
	DailyRate     float64 `mapstructure:"daily_rate"`
}

type overrideEntry struct {
	City  string  `mapstructure:"city"`
	State string  `mapstructure:"state"`
	Lat   float64 `mapstructure:"lat"`
	Lon   float64 `mapstructure:"lon"`
}

// LoadTables reads a YAML, JSON or TOML tables file:
//
//	tariffs:
//	  TRANSPORTADORA_A: {per_pallet: 55, transshipment: 2400, daily_rate: 0}
//	overrides:
//	  - {city: "Sao Paulo", state: "SP", lat: -23.5505, lon: -46.6333}
//
// Carrier ids and override keys are normalized, so casing and accents do not matter.
func LoadTables(path string) (Tables, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Tables{}, fmt.Errorf("load tables: read %q: %w", path, err)
	}

	var tariffs map[string]tariffEntry
	if err := v.UnmarshalKey("tariffs", &tariffs); err != nil {
		return Tables{}, fmt.Errorf("load tables: decode tariffs: %w", err)
	}

	var overrides []overrideEntry
	if err := v.UnmarshalKey("overrides", &overrides); err != nil {
		return Tables{}, fmt.Errorf("load tables: decode overrides: %w", err)
	}

	out := Tables{
		Tariffs:   make(map[string]domain.TariffRule, len(tariffs)),
		Overrides: make(map[string]domain.Coordinates, len(overrides)),
	}

	for carrier, t := range tariffs {
		if t.PerPallet < 0 || t.Transshipment < 0 || t.DailyRate < 0 {
			return Tables{}, fmt.Errorf("load tables: tariff %q has a negative amount", carrier)
		}
		out.Tariffs[locationkey.Normalize(carrier)] = domain.TariffRule{
			PerPallet:     t.PerPallet,
			Transshipment: t.Transshipment,
			DailyRate:     t.DailyRate,
		}
	}

	for i, o := range overrides {
		if strings.TrimSpace(o.City) == "" {
			return Tables{}, fmt.Errorf("load tables: override at index %d: city cannot be empty", i+1)
		}
		if o.Lat < -90 || o.Lat > 90 || o.Lon < -180 || o.Lon > 180 {
			return Tables{}, fmt.Errorf("load tables: override %q: coordinates out of range", o.City)
		}
		out.Overrides[locationkey.Key(o.City, o.State)] = domain.Coordinates{Lat: o.Lat, Lon: o.Lon}
	}

	return out, nil
}
