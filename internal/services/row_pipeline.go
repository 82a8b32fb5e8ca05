package services

import (
	"context"
	"errors"
	"fmt"
	"shipment-savings-service/internal/domain"
	"shipment-savings-service/internal/ports"

	"go.uber.org/zap"
)

// RunSummary aggregates one batch run.
type RunSummary struct {
	Rows       int
	Computed   int
	Absent     int
	TotalSaved float64
}

// RowPipeline computes savings for shipment rows, one row at a time.
type RowPipeline struct {
	resolver ports.LocationResolver
	tariffs  *TariffTable
	pallets  int
}

func NewRowPipeline(resolver ports.LocationResolver, tariffs *TariffTable, pallets int) (*RowPipeline, error) {
	if resolver == nil {
		return nil, errors.New("new row pipeline: resolver must be non-nil")
	}

	if tariffs == nil {
		tariffs = NewTariffTable(nil)
	}

	if pallets < 0 {
		return nil, fmt.Errorf("new row pipeline: pallets must be >= 0, got %d", pallets)
	}

	return &RowPipeline{resolver: resolver, tariffs: tariffs, pallets: pallets}, nil
}

// Process computes one row.
//
// Both endpoints are always resolved, so each gets its cache entry even when
// the other is unresolvable. When either is unresolvable the result is
// all-absent and no distance or date arithmetic is attempted. A missing date
// on a resolved row also yields an all-absent result. The returned error is
// reserved for resolver failures (store writes, cancellation).
func (p *RowPipeline) Process(ctx context.Context, row domain.ShipmentRow) (domain.SavingsResult, error) {
	result := domain.SavingsResult{Row: row}

	origin, originOK, err := p.resolver.Resolve(ctx, row.OriginCity, row.OriginState)
	if err != nil {
		return result, fmt.Errorf("process row %d: resolve origin: %w", row.Line, err)
	}

	destination, destinationOK, err := p.resolver.Resolve(ctx, row.DestinationCity, row.DestinationState)
	if err != nil {
		return result, fmt.Errorf("process row %d: resolve destination: %w", row.Line, err)
	}

	if !originOK || !destinationOK {
		return result, nil
	}

	km := EstimateRoadDistance(origin, destination)

	schedule, err := ScheduleTransit(km, row.ScheduledDeliveryDate, row.CollectionDate)
	if err != nil {
		zap.L().Warn("row skipped", zap.Int("line", row.Line), zap.Error(err))
		return result, nil
	}

	rule, known := p.tariffs.Lookup(row.Carrier)
	if !known {
		zap.L().Debug("unknown carrier, zero tariff", zap.Int("line", row.Line), zap.String("carrier", row.Carrier))
	}

	figures := ComputeSavings(rule, p.pallets, schedule.DaysAhead)

	result.Savings = &domain.Savings{
		RoadDistanceKm:     km,
		TransitDays:        schedule.TransitDays,
		CollectionDeadline: schedule.CollectionDeadline,
		DaysAhead:          schedule.DaysAhead,
		DailySaving:        figures.Daily,
		StorageSaving:      figures.Storage,
		TotalSaving:        figures.Total,
	}

	return result, nil
}

// Run processes rows strictly in order and hands every result to sink.
// It stops between rows when ctx is done; everything resolved so far is
// already durable in the coordinate cache, so a rerun resumes cheaply.
func (p *RowPipeline) Run(ctx context.Context, rows []domain.ShipmentRow, sink ports.ResultSink) (RunSummary, error) {
	if sink == nil {
		return RunSummary{}, errors.New("run pipeline: sink must be non-nil")
	}

	var summary RunSummary
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("run pipeline: stopped before row %d: %w", row.Line, err)
		}

		result, err := p.Process(ctx, row)
		if err != nil {
			return summary, fmt.Errorf("run pipeline: %w", err)
		}

		if err := sink.WriteResult(result); err != nil {
			return summary, fmt.Errorf("run pipeline: write row %d: %w", row.Line, err)
		}

		summary.Rows++
		if result.Absent() {
			summary.Absent++
			continue
		}
		summary.Computed++
		summary.TotalSaved += result.Savings.TotalSaving
	}

	return summary, nil
}
