package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"shipment-savings-service/internal/adapters/rows"
	"shipment-savings-service/internal/api/dto"
	"shipment-savings-service/internal/domain"
	"shipment-savings-service/internal/services"

	"go.uber.org/zap"
)

const maxRowsPerRequest = 1000

type SavingsHandler struct {
	Pipeline *services.RowPipeline
}

// Compute runs the posted rows through the savings pipeline in order.
// Every date is validated before any lookup starts; one malformed date
// rejects the whole request.
func (h *SavingsHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req dto.SavingsRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if len(req.Rows) == 0 {
		writeError(w, r, http.StatusBadRequest, "rows is required")
		return
	}
	if len(req.Rows) > maxRowsPerRequest {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("at most %d rows per request", maxRowsPerRequest))
		return
	}

	shipments := make([]domain.ShipmentRow, 0, len(req.Rows))
	for i, in := range req.Rows {
		row, err := toShipmentRow(i+1, in)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		shipments = append(shipments, row)
	}

	var sink collectSink
	summary, err := h.Pipeline.Run(r.Context(), shipments, &sink)
	if err != nil {
		if r.Context().Err() != nil {
			// Client went away; nothing useful to send.
			zap.L().Info("savings request cancelled", zap.Error(err))
			return
		}
		zap.L().Error("savings run failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.SavingsResponse{
		Results: make([]dto.SavingsResultResponse, 0, len(sink.results)),
		Summary: dto.SummaryResponse{
			Rows:       summary.Rows,
			Computed:   summary.Computed,
			Absent:     summary.Absent,
			TotalSaved: summary.TotalSaved,
		},
	}
	for _, result := range sink.results {
		res.Results = append(res.Results, toResultResponse(result))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func toShipmentRow(line int, in dto.SavingsRow) (domain.ShipmentRow, error) {
	collection, _, err := rows.ParseDayFirst(in.CollectionDate)
	if err != nil {
		return domain.ShipmentRow{}, fmt.Errorf("row %d collection_date: %w", line, err)
	}

	delivery, _, err := rows.ParseDayFirst(in.DeliveryDate)
	if err != nil {
		return domain.ShipmentRow{}, fmt.Errorf("row %d delivery_date: %w", line, err)
	}

	return domain.ShipmentRow{
		Line:                  line,
		OriginCity:            in.OriginCity,
		OriginState:           in.OriginState,
		DestinationCity:       in.DestinationCity,
		DestinationState:      in.DestinationState,
		Carrier:               in.Carrier,
		CollectionDate:        collection,
		ScheduledDeliveryDate: delivery,
	}, nil
}

func toResultResponse(r domain.SavingsResult) dto.SavingsResultResponse {
	out := dto.SavingsResultResponse{Line: r.Row.Line}
	if r.Absent() {
		return out
	}

	s := r.Savings
	deadline := rows.FormatDate(s.CollectionDeadline)
	out.RoadDistanceKm = &s.RoadDistanceKm
	out.TransitDays = &s.TransitDays
	out.CollectionDeadline = &deadline
	out.DaysAhead = &s.DaysAhead
	out.DailySaving = &s.DailySaving
	out.StorageSaving = &s.StorageSaving
	out.TotalSaving = &s.TotalSaving
	return out
}

type collectSink struct {
	results []domain.SavingsResult
}

func (c *collectSink) WriteResult(r domain.SavingsResult) error {
	c.results = append(c.results, r)
	return nil
}
