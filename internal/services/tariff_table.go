package services

import (
	"shipment-savings-service/internal/domain"
	"shipment-savings-service/internal/locationkey"
)

// TariffTable maps carrier identifiers to their storage pricing.
// It is built once at startup and read-only afterwards.
type TariffTable struct {
	rules map[string]domain.TariffRule
}

// DefaultTariffs is the built-in carrier table.
func DefaultTariffs() map[string]domain.TariffRule {
	return map[string]domain.TariffRule{
		"TRANSPORTADORA_A": {PerPallet: 55, Transshipment: 2400},
		"TRANSPORTADORA_B": {PerPallet: 33, Transshipment: 1900},
		"TRANSPORTADORA_C": {PerPallet: 32},
		"TRANSPORTADORA_D": {DailyRate: 900},
		"TRANSPORTADORA_E": {DailyRate: 750},
		"TRANSPORTADORA_F": {PerPallet: 80},
	}
}

// NewTariffTable indexes rules by normalized carrier id.
func NewTariffTable(rules map[string]domain.TariffRule) *TariffTable {
	m := make(map[string]domain.TariffRule, len(rules))
	for carrier, rule := range rules {
		m[locationkey.Normalize(carrier)] = rule
	}
	return &TariffTable{rules: m}
}

// Lookup returns the carrier's rule. An unknown carrier gets the zero rule.
func (t *TariffTable) Lookup(carrier string) (domain.TariffRule, bool) {
	if t == nil {
		return domain.TariffRule{}, false
	}
	rule, ok := t.rules[locationkey.Normalize(carrier)]
	return rule, ok
}

func (t *TariffTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}
