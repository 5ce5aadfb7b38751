package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// CSVExporter renders a timetable grid into CSV bytes, one row per period.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the grid.
func (e *CSVExporter) Render(grid Grid) ([]byte, error) {
	if err := validateGrid(grid); err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	header := make([]string, 0, len(grid.DayNames)+1)
	header = append(header, "Period")
	header = append(header, grid.DayNames...)
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for period := 1; period <= grid.Periods; period++ {
		record := make([]string, 0, len(grid.DayNames)+1)
		record = append(record, strconv.Itoa(period))
		for day := 1; day <= len(grid.DayNames); day++ {
			cell, ok := grid.Cells[GridKey{Day: day, Period: period}]
			record = append(record, CellLabel(cell, ok))
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
