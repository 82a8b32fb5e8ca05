package services

import (
	"fmt"
	"math"
	"shipment-savings-service/internal/domain"
	"time"
)

// Nominal road throughput of a truck, in km per day.
const DailyThroughputKm = 650.0

// TransitSchedule is the delivery-driven collection window of one shipment.
type TransitSchedule struct {
	TransitDays        int
	CollectionDeadline time.Time
	DaysAhead          int
}

// ScheduleTransit derives the transit time for distanceKm, the latest feasible
// collection date before scheduledDelivery, and how many whole days collection
// happened ahead of that deadline (never negative).
func ScheduleTransit(distanceKm float64, scheduledDelivery, collection time.Time) (TransitSchedule, error) {
	if scheduledDelivery.IsZero() {
		return TransitSchedule{}, fmt.Errorf("schedule transit: scheduled delivery: %w", domain.ErrMissingDate)
	}

	if collection.IsZero() {
		return TransitSchedule{}, fmt.Errorf("schedule transit: collection: %w", domain.ErrMissingDate)
	}

	if distanceKm < 0 || math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) {
		return TransitSchedule{}, fmt.Errorf("schedule transit: invalid distance %v", distanceKm)
	}

	transitDays := int(math.Ceil(distanceKm / DailyThroughputKm))
	if transitDays < 1 {
		transitDays = 1
	}

	deadline := scheduledDelivery.AddDate(0, 0, -transitDays)

	// Only collection before the deadline counts; partial days round up.
	daysAhead := int(math.Ceil(deadline.Sub(collection).Hours() / 24))
	if daysAhead < 0 {
		daysAhead = 0
	}

	return TransitSchedule{
		TransitDays:        transitDays,
		CollectionDeadline: deadline,
		DaysAhead:          daysAhead,
	}, nil
}
