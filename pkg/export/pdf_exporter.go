package export

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders a timetable grid into a landscape A4 PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with the timetable laid out as a week grid.
func (e *PDFExporter) Render(grid Grid) ([]byte, error) {
	if err := validateGrid(grid); err != nil {
		return nil, err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()

	if grid.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(grid.Title), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	const periodColWidth = 18.0
	dayColWidth := (277.0 - periodColWidth) / float64(len(grid.DayNames))

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(periodColWidth, 8, "Period", "1", 0, "C", false, 0, "")
	for _, day := range grid.DayNames {
		pdf.CellFormat(dayColWidth, 8, day, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for period := 1; period <= grid.Periods; period++ {
		pdf.CellFormat(periodColWidth, 9, strconv.Itoa(period), "1", 0, "C", false, 0, "")
		for day := 1; day <= len(grid.DayNames); day++ {
			cell, ok := grid.Cells[GridKey{Day: day, Period: period}]
			pdf.CellFormat(dayColWidth, 9, CellLabel(cell, ok), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if grid.FooterNote != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 6, grid.FooterNote, "", 1, "L", false, 0, "")
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
