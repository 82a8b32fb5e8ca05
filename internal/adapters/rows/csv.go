package rows

import (
	"encoding/csv"
	"fmt"
	"io"
	"shipment-savings-service/internal/domain"
)

// ReadCSV parses a comma- or semicolon-separated batch with a header line.
func ReadCSV(r io.Reader, comma rune) (*Table, error) {
	cr := csv.NewReader(r)
	if comma != 0 {
		cr.Comma = comma
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return parseTable(records, ParseDayFirst)
}

// CSVSink writes the input columns followed by the result columns.
type CSVSink struct {
	w          *csv.Writer
	headerSize int
}

func NewCSVSink(w io.Writer, header []string, comma rune) (*CSVSink, error) {
	cw := csv.NewWriter(w)
	if comma != 0 {
		cw.Comma = comma
	}

	if err := cw.Write(append(append([]string(nil), header...), ResultColumns...)); err != nil {
		return nil, fmt.Errorf("csv sink: write header: %w", err)
	}

	return &CSVSink{w: cw, headerSize: len(header)}, nil
}

func (s *CSVSink) WriteResult(r domain.SavingsResult) error {
	rec := make([]string, s.headerSize, s.headerSize+len(ResultColumns))
	copy(rec, r.Row.Cells)
	rec = append(rec, resultCells(r)...)

	if err := s.w.Write(rec); err != nil {
		return fmt.Errorf("csv sink: write row %d: %w", r.Row.Line, err)
	}
	return nil
}

// Close flushes buffered records.
func (s *CSVSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("csv sink: flush: %w", err)
	}
	return nil
}
