package rows

import (
	"fmt"
	"io"
	"shipment-savings-service/internal/domain"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX parses one sheet of a workbook. An empty sheet name selects the first sheet.
// Date cells may hold either text (day-first) or Excel serial numbers.
func ReadXLSX(r io.Reader, sheet string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("read xlsx: open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	records, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read xlsx: sheet %q: %w", sheet, err)
	}

	return parseTable(records, parseSheetDate)
}

// parseSheetDate accepts Excel serial dates in addition to day-first text.
func parseSheetDate(value string) (time.Time, bool, error) {
	v := strings.TrimSpace(value)
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, true, fmt.Errorf("%w: serial %q: %v", domain.ErrMalformedDate, v, err)
		}
		return t, true, nil
	}
	return ParseDayFirst(v)
}

// XLSXSink buffers results in a workbook; Save writes it out.
type XLSXSink struct {
	f          *excelize.File
	sheet      string
	headerSize int
	next       int
}

func NewXLSXSink(sheet string, header []string) (*XLSXSink, error) {
	if sheet == "" {
		sheet = "Sheet1"
	}

	f := excelize.NewFile()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("xlsx sink: name sheet %q: %w", sheet, err)
		}
	}

	cols := make([]interface{}, 0, len(header)+len(ResultColumns))
	for _, h := range header {
		cols = append(cols, h)
	}
	for _, h := range ResultColumns {
		cols = append(cols, h)
	}

	if err := f.SetSheetRow(sheet, "A1", &cols); err != nil {
		f.Close()
		return nil, fmt.Errorf("xlsx sink: write header: %w", err)
	}

	return &XLSXSink{f: f, sheet: sheet, headerSize: len(header), next: 2}, nil
}

func (s *XLSXSink) WriteResult(r domain.SavingsResult) error {
	values := make([]interface{}, 0, s.headerSize+len(ResultColumns))
	for i := 0; i < s.headerSize; i++ {
		if i < len(r.Row.Cells) {
			values = append(values, r.Row.Cells[i])
		} else {
			values = append(values, nil)
		}
	}
	values = append(values, resultValues(r)...)

	cell, err := excelize.CoordinatesToCellName(1, s.next)
	if err != nil {
		return fmt.Errorf("xlsx sink: row %d: %w", r.Row.Line, err)
	}

	if err := s.f.SetSheetRow(s.sheet, cell, &values); err != nil {
		return fmt.Errorf("xlsx sink: write row %d: %w", r.Row.Line, err)
	}

	s.next++
	return nil
}

// Save writes the workbook to w and releases it.
func (s *XLSXSink) Save(w io.Writer) error {
	defer s.f.Close()

	if err := s.f.Write(w); err != nil {
		return fmt.Errorf("xlsx sink: write workbook: %w", err)
	}
	return nil
}

// resultValues keeps numbers numeric so the output sheet can be summed.
func resultValues(r domain.SavingsResult) []interface{} {
	if r.Absent() {
		return make([]interface{}, len(ResultColumns))
	}

	s := r.Savings
	return []interface{}{
		round2(s.RoadDistanceKm),
		s.TransitDays,
		FormatDate(s.CollectionDeadline),
		s.DaysAhead,
		s.DailySaving,
		s.StorageSaving,
		s.TotalSaving,
	}
}
