package rows

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"shipment-savings-service/internal/domain"
	"strings"

	"github.com/google/renameio/v2/maybe"
)

// FileSink collects results and writes the output file on Close.
type FileSink interface {
	WriteResult(r domain.SavingsResult) error
	Close() error
}

func isXLSX(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

// ReadFile reads a batch from path, choosing the format by extension:
// .xlsx/.xlsm are workbooks, anything else is delimited text.
func ReadFile(path, sheet string, comma rune) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	defer f.Close()

	if isXLSX(path) {
		return ReadXLSX(f, sheet)
	}
	return ReadCSV(f, comma)
}

// CreateFileSink prepares an output file in the format implied by path.
// Nothing touches the disk until Close, which replaces path atomically.
func CreateFileSink(path, sheet string, header []string, comma rune) (FileSink, error) {
	if isXLSX(path) {
		sink, err := NewXLSXSink(sheet, header)
		if err != nil {
			return nil, err
		}
		return &xlsxFileSink{XLSXSink: sink, path: path}, nil
	}

	buf := new(bytes.Buffer)
	sink, err := NewCSVSink(buf, header, comma)
	if err != nil {
		return nil, err
	}
	return &csvFileSink{CSVSink: sink, buf: buf, path: path}, nil
}

type csvFileSink struct {
	*CSVSink
	buf  *bytes.Buffer
	path string
}

func (s *csvFileSink) Close() error {
	if err := s.CSVSink.Close(); err != nil {
		return err
	}
	return writeOutput(s.path, s.buf.Bytes())
}

type xlsxFileSink struct {
	*XLSXSink
	path string
}

func (s *xlsxFileSink) Close() error {
	var buf bytes.Buffer
	if err := s.XLSXSink.Save(&buf); err != nil {
		return err
	}
	return writeOutput(s.path, buf.Bytes())
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("write output %q: %w", path, err)
		}
	}
	if err := maybe.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output %q: %w", path, err)
	}
	return nil
}
