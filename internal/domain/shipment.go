package domain

import "time"

// Represents one input record of the savings batch.
// Dates are validated once at ingestion; a zero time means the source cell was blank.
type ShipmentRow struct {
	// 1-based data row number in the source (header excluded).
	Line int

	OriginCity       string
	OriginState      string
	DestinationCity  string
	DestinationState string
	Carrier          string

	CollectionDate        time.Time
	ScheduledDeliveryDate time.Time

	// Source cells, echoed unchanged by result sinks.
	Cells []string
}
