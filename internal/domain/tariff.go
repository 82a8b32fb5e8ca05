package domain

// TariffRule is a carrier's storage pricing. All amounts are non-negative.
type TariffRule struct {
	PerPallet     float64
	Transshipment float64
	DailyRate     float64
}
