package domain

import "time"

// Savings holds every figure computed for a row whose endpoints were resolved.
type Savings struct {
	RoadDistanceKm     float64
	TransitDays        int
	CollectionDeadline time.Time
	DaysAhead          int
	DailySaving        float64
	StorageSaving      float64
	TotalSaving        float64
}

// SavingsResult pairs an input row with its computed figures.
// Savings is nil when the row could not be computed; all seven output fields are then absent.
type SavingsResult struct {
	Row     ShipmentRow
	Savings *Savings
}

func (r SavingsResult) Absent() bool { return r.Savings == nil }
