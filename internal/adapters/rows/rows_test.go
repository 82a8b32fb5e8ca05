package rows

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"shipment-savings-service/internal/domain"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `CIDADE ORIGEM,UF ORIGEM,CIDADE DESTINO,UF DESTINO,TRANSPORTADORA,DATA COLETA,DATA AGENDA,NF
São Paulo,SP,Campinas,SP,TRANSPORTADORA_D,06/03/2025,10/03/2025,123
,,,,,,,
Curitiba,PR,Rio de Janeiro,,TRANSPORTADORA_A,1/3/2025,,456
`

func TestParseDayFirst(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"06/03/2025", time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)},
		{"6/3/2025", time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)},
		{"06-03-2025", time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)},
		{"06.03.2025", time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)},
		{"2025-03-06", time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)},
		{"06/03/2025 14:30:00", time.Date(2025, 3, 6, 14, 30, 0, 0, time.UTC)},
		{"06/03/25", time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, present, err := ParseDayFirst(tt.in)
		if err != nil || !present {
			t.Errorf("ParseDayFirst(%q): present=%v err=%v", tt.in, present, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseDayFirst(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDayFirstBlankAndMalformed(t *testing.T) {
	_, present, err := ParseDayFirst("  ")
	assert.NoError(t, err)
	assert.False(t, present)

	for _, bad := range []string{"31/02/2025", "amanhã", "13/13/2025"} {
		_, _, err := ParseDayFirst(bad)
		assert.ErrorIs(t, err, domain.ErrMalformedDate, bad)
	}
}

func TestReadCSV(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(sampleCSV), ',')
	require.NoError(t, err)

	require.Len(t, table.Rows, 3)
	assert.Len(t, table.Header, 8)

	first := table.Rows[0]
	assert.Equal(t, 1, first.Line)
	assert.Equal(t, "São Paulo", first.OriginCity)
	assert.Equal(t, "SP", first.DestinationState)
	assert.Equal(t, "TRANSPORTADORA_D", first.Carrier)
	assert.True(t, first.CollectionDate.Equal(time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)))
	assert.True(t, first.ScheduledDeliveryDate.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "123", first.Cells[7])

	blank := table.Rows[1]
	assert.Equal(t, 2, blank.Line)
	assert.Equal(t, "", blank.OriginCity)
	assert.True(t, blank.CollectionDate.IsZero())
	assert.Len(t, blank.Cells, 8)

	second := table.Rows[2]
	assert.Equal(t, 3, second.Line)
	assert.Equal(t, "", second.DestinationState)
	assert.True(t, second.ScheduledDeliveryDate.IsZero())
	assert.Equal(t, "01/03/2025", second.Cells[5])
}

func TestReadCSVMatchesHeadersLoosely(t *testing.T) {
	in := "cidade origem ;Cidade Destino;Transportadora;Data Coleta;Data Agenda\nA;B;C;01/01/2025;02/01/2025\n"

	table, err := ReadCSV(strings.NewReader(in), ';')
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "A", table.Rows[0].OriginCity)
	assert.Equal(t, "", table.Rows[0].OriginState)
}

func TestReadCSVMalformedDateRejectsBatch(t *testing.T) {
	in := "CIDADE ORIGEM,CIDADE DESTINO,TRANSPORTADORA,DATA COLETA,DATA AGENDA\n" +
		"A,B,C,01/01/2025,02/01/2025\n" +
		"A,B,C,not a date,02/01/2025\n"

	_, err := ReadCSV(strings.NewReader(in), ',')
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedDate))
	assert.Contains(t, err.Error(), "row 2")
}

func TestReadCSVMissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("CIDADE ORIGEM,CIDADE DESTINO\nA,B\n"), ',')
	assert.ErrorIs(t, err, domain.ErrMissingColumn)

	_, err = ReadCSV(strings.NewReader(""), ',')
	assert.ErrorIs(t, err, domain.ErrMissingColumn)
}

func sampleResults() []domain.SavingsResult {
	row := domain.ShipmentRow{Line: 1, Cells: []string{"São Paulo", "Campinas"}}
	return []domain.SavingsResult{
		{
			Row: row,
			Savings: &domain.Savings{
				RoadDistanceKm:     96.56174,
				TransitDays:        1,
				CollectionDeadline: time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
				DaysAhead:          3,
				DailySaving:        2700,
				TotalSaving:        2700,
			},
		},
		{Row: domain.ShipmentRow{Line: 2, Cells: []string{"Atlantis", "Campinas"}}},
	}
}

func TestCSVSink(t *testing.T) {
	var buf bytes.Buffer
	sink, err := NewCSVSink(&buf, []string{"CIDADE ORIGEM", "CIDADE DESTINO"}, ',')
	require.NoError(t, err)

	for _, r := range sampleResults() {
		require.NoError(t, sink.WriteResult(r))
	}
	require.NoError(t, sink.Close())

	want := "CIDADE ORIGEM,CIDADE DESTINO,dist_rodoviaria_km,dias_transito,data_limite_coleta,dias_antecipados,saving_diaria,saving_armazenagem,saving_total\n" +
		"São Paulo,Campinas,96.56,1,09/03/2025,3,2700.00,0.00,2700.00\n" +
		"Atlantis,Campinas,,,,,,,\n"
	assert.Equal(t, want, buf.String())
}

func TestXLSXRoundTrip(t *testing.T) {
	in := excelize.NewFile()
	require.NoError(t, in.SetSheetName("Sheet1", "ANTECIPADAS"))
	header := []interface{}{"CIDADE ORIGEM", "UF ORIGEM", "CIDADE DESTINO", "UF DESTINO", "TRANSPORTADORA", "DATA COLETA", "DATA AGENDA"}
	require.NoError(t, in.SetSheetRow("ANTECIPADAS", "A1", &header))
	row := []interface{}{"São Paulo", "SP", "Campinas", "SP", "TRANSPORTADORA_D", "06/03/2025", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, in.SetSheetRow("ANTECIPADAS", "A2", &row))

	var src bytes.Buffer
	require.NoError(t, in.Write(&src))
	require.NoError(t, in.Close())

	table, err := ReadXLSX(&src, "ANTECIPADAS")
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	got := table.Rows[0]
	assert.True(t, got.CollectionDate.Equal(time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)))
	assert.True(t, got.ScheduledDeliveryDate.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "10/03/2025", got.Cells[6])

	sink, err := NewXLSXSink("saving", []string{"CIDADE ORIGEM", "CIDADE DESTINO"})
	require.NoError(t, err)
	for _, r := range sampleResults() {
		require.NoError(t, sink.WriteResult(r))
	}

	var out bytes.Buffer
	require.NoError(t, sink.Save(&out))

	f, err := excelize.OpenReader(&out)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("saving")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "dist_rodoviaria_km", rows[0][2])
	assert.Equal(t, "96.56", rows[1][2])
	assert.Equal(t, "09/03/2025", rows[1][4])
	assert.Equal(t, "2700", rows[1][8])
	// Absent results leave the result columns empty.
	assert.Equal(t, []string{"Atlantis", "Campinas"}, rows[2])
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"out.csv", "nested/out.xlsx"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)

			sink, err := CreateFileSink(path, "saving", []string{"CIDADE ORIGEM", "CIDADE DESTINO"}, ',')
			require.NoError(t, err)

			_, err = os.Stat(path)
			require.True(t, os.IsNotExist(err), "output must not exist before Close")

			for _, r := range sampleResults() {
				require.NoError(t, sink.WriteResult(r))
			}
			require.NoError(t, sink.Close())

			// The written file has no date columns, so reading it back fails on the header check.
			_, err = ReadFile(path, "saving", ',')
			assert.ErrorIs(t, err, domain.ErrMissingColumn)
		})
	}
}

func TestReadFileCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	table, err := ReadFile(path, "", ',')
	require.NoError(t, err)
	assert.Len(t, table.Rows, 3)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.csv"), "", ',')
	assert.Error(t, err)
}
