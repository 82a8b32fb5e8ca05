package services

import "shipment-savings-service/internal/domain"

// Pallets per shipment unless configured otherwise.
const DefaultPalletCount = 30

// SavingsFigures are the monetary outputs for one shipment.
type SavingsFigures struct {
	Storage float64
	Daily   float64
	Total   float64
}

// ComputeSavings applies a tariff rule.
//
// Storage saving, first matching branch:
//   - per-pallet and transshipment both set: fee + pallets*perPallet
//   - per-pallet only: pallets*perPallet
//   - transshipment only: fee
//   - neither: 0
//
// Daily saving is dailyRate*daysAhead. Total is storage + daily.
func ComputeSavings(rule domain.TariffRule, pallets int, daysAhead int) SavingsFigures {
	if pallets < 0 {
		pallets = 0
	}
	if daysAhead < 0 {
		daysAhead = 0
	}

	var storage float64
	switch {
	case rule.PerPallet > 0 && rule.Transshipment > 0:
		storage = rule.Transshipment + float64(pallets)*rule.PerPallet
	case rule.PerPallet > 0:
		storage = float64(pallets) * rule.PerPallet
	case rule.Transshipment > 0:
		storage = rule.Transshipment
	}

	var daily float64
	if rule.DailyRate > 0 {
		daily = rule.DailyRate * float64(daysAhead)
	}

	return SavingsFigures{
		Storage: storage,
		Daily:   daily,
		Total:   storage + daily,
	}
}
