package export

import "fmt"

// GridCell is one rendered timetable entry.
type GridCell struct {
	Subject string
	Faculty string
	Room    string
	IsLab   bool
}

// Grid is a week of timetable cells keyed by (day, period), both 1-based.
type Grid struct {
	Title      string
	DayNames   []string
	Periods    int
	Cells      map[GridKey]GridCell
	FooterNote string
}

// GridKey addresses a single cell.
type GridKey struct {
	Day    int
	Period int
}

// CellLabel renders the display text for a cell; empty cells render as "-".
func CellLabel(cell GridCell, ok bool) string {
	if !ok {
		return "-"
	}
	label := cell.Subject
	if cell.IsLab {
		label += " (Lab)"
	}
	if cell.Faculty != "" {
		label += " / " + cell.Faculty
	}
	if cell.Room != "" {
		label += " @ " + cell.Room
	}
	return label
}

func validateGrid(grid Grid) error {
	if len(grid.DayNames) == 0 {
		return fmt.Errorf("grid requires at least one day")
	}
	if grid.Periods <= 0 {
		return fmt.Errorf("grid requires at least one period")
	}
	return nil
}
