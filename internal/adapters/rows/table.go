package rows

import (
	"fmt"
	"math"
	"shipment-savings-service/internal/domain"
	"shipment-savings-service/internal/locationkey"
	"strconv"
	"time"
)

// Input column headers, matched after normalization (case, accents, surrounding spaces).
const (
	ColOriginCity       = "CIDADE ORIGEM"
	ColOriginState      = "UF ORIGEM"
	ColDestinationCity  = "CIDADE DESTINO"
	ColDestinationState = "UF DESTINO"
	ColCarrier          = "TRANSPORTADORA"
	ColCollectionDate   = "DATA COLETA"
	ColDeliveryDate     = "DATA AGENDA"
)

// ResultColumns are appended to the input columns by every sink.
var ResultColumns = []string{
	"dist_rodoviaria_km",
	"dias_transito",
	"data_limite_coleta",
	"dias_antecipados",
	"saving_diaria",
	"saving_armazenagem",
	"saving_total",
}

var requiredColumns = []string{
	ColOriginCity,
	ColDestinationCity,
	ColCarrier,
	ColCollectionDate,
	ColDeliveryDate,
}

// Table is a parsed batch: the source header plus one typed row per data line.
type Table struct {
	Header []string
	Rows   []domain.ShipmentRow
}

type dateParser func(string) (time.Time, bool, error)

// parseTable turns raw records (header first) into typed rows.
// Any malformed date rejects the whole batch. Blank lines are kept so the
// output lines up with the input; they come out all-absent.
func parseTable(records [][]string, parseDate dateParser) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("parse table: %w: empty input", domain.ErrMissingColumn)
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, h := range header {
		k := locationkey.Normalize(h)
		if _, dup := index[k]; !dup {
			index[k] = i
		}
	}

	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("parse table: %w: %q", domain.ErrMissingColumn, col)
		}
	}

	cell := func(rec []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	out := &Table{
		Header: append([]string(nil), header...),
		Rows:   make([]domain.ShipmentRow, 0, len(records)-1),
	}

	for n, rec := range records[1:] {
		line := n + 1

		cells := make([]string, len(header))
		copy(cells, rec)

		// Parsed dates are echoed back in one canonical form.
		dates := make(map[string]time.Time, 2)
		for _, col := range []string{ColCollectionDate, ColDeliveryDate} {
			t, present, err := parseDate(cell(rec, col))
			if err != nil {
				return nil, fmt.Errorf("parse table: row %d column %q: %w", line, col, err)
			}
			if present {
				cells[index[col]] = FormatDate(t)
			}
			dates[col] = t
		}

		out.Rows = append(out.Rows, domain.ShipmentRow{
			Line:                  line,
			OriginCity:            cell(rec, ColOriginCity),
			OriginState:           cell(rec, ColOriginState),
			DestinationCity:       cell(rec, ColDestinationCity),
			DestinationState:      cell(rec, ColDestinationState),
			Carrier:               cell(rec, ColCarrier),
			CollectionDate:        dates[ColCollectionDate],
			ScheduledDeliveryDate: dates[ColDeliveryDate],
			Cells:                 cells,
		})
	}

	return out, nil
}

// resultCells renders the seven output fields; all empty when the result is absent.
func resultCells(r domain.SavingsResult) []string {
	if r.Absent() {
		return make([]string, len(ResultColumns))
	}

	s := r.Savings
	return []string{
		strconv.FormatFloat(round2(s.RoadDistanceKm), 'f', 2, 64),
		strconv.Itoa(s.TransitDays),
		FormatDate(s.CollectionDeadline),
		strconv.Itoa(s.DaysAhead),
		strconv.FormatFloat(s.DailySaving, 'f', 2, 64),
		strconv.FormatFloat(s.StorageSaving, 'f', 2, 64),
		strconv.FormatFloat(s.TotalSaving, 'f', 2, 64),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
