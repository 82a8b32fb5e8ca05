package dto

// SavingsRow is one shipment in a POST /savings body. Dates are dd/mm/yyyy.
type SavingsRow struct {
	OriginCity       string `json:"origin_city"`
	OriginState      string `json:"origin_state"`
	DestinationCity  string `json:"destination_city"`
	DestinationState string `json:"destination_state"`
	Carrier          string `json:"carrier"`
	CollectionDate   string `json:"collection_date"`
	DeliveryDate     string `json:"delivery_date"`
}

type SavingsRequest struct {
	Rows []SavingsRow `json:"rows"`
}

// SavingsResultResponse mirrors the output columns of the batch runner.
// Every computed field is null when either endpoint could not be resolved.
type SavingsResultResponse struct {
	Line               int      `json:"line"`
	RoadDistanceKm     *float64 `json:"road_distance_km"`
	TransitDays        *int     `json:"transit_days"`
	CollectionDeadline *string  `json:"collection_deadline"`
	DaysAhead          *int     `json:"days_ahead"`
	DailySaving        *float64 `json:"daily_saving"`
	StorageSaving      *float64 `json:"storage_saving"`
	TotalSaving        *float64 `json:"total_saving"`
}

type SummaryResponse struct {
	Rows       int     `json:"rows"`
	Computed   int     `json:"computed"`
	Absent     int     `json:"absent"`
	TotalSaved float64 `json:"total_saved"`
}

type SavingsResponse struct {
	Results []SavingsResultResponse `json:"results"`
	Summary SummaryResponse         `json:"summary"`
}
