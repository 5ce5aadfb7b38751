package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/models"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
	"github.com/campuskit/timetable-api/pkg/export"
)

// ExportFormat selects the rendered output type.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportResult carries the rendered document and its HTTP metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

type exportSessionRepository interface {
	ListBySection(ctx context.Context, sectionID string) ([]models.SessionDetail, error)
	ListByFaculty(ctx context.Context, facultyID string) ([]models.SessionDetail, error)
}

type exportSectionRepository interface {
	FindByID(ctx context.Context, id string) (*models.Section, error)
}

type exportFacultyRepository interface {
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
}

type exportSettingsRepository interface {
	Get(ctx context.Context) (*models.InstitutionSettings, error)
}

// ExportService renders section and faculty timetables as CSV or PDF.
type ExportService struct {
	sessions exportSessionRepository
	sections exportSectionRepository
	faculty  exportFacultyRepository
	settings exportSettingsRepository
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(
	sessions exportSessionRepository,
	sections exportSectionRepository,
	faculty exportFacultyRepository,
	settings exportSettingsRepository,
	logger *zap.Logger,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		sessions: sessions,
		sections: sections,
		faculty:  faculty,
		settings: settings,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// ExportSection renders one section's weekly timetable.
func (s *ExportService) ExportSection(ctx context.Context, sectionID string, format ExportFormat) (*ExportResult, error) {
	section, err := s.sections.FindByID(ctx, sectionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}

	sessions, err := s.sessions.ListBySection(ctx, sectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	if len(sessions) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "section has no generated timetable")
	}

	grid, err := s.buildGrid(ctx, "Timetable - "+section.Name, sessions, false)
	if err != nil {
		return nil, err
	}
	return s.render(grid, format, "timetable-"+slugify(section.Name))
}

// ExportFaculty renders one faculty member's weekly schedule.
func (s *ExportService) ExportFaculty(ctx context.Context, facultyID string, format ExportFormat) (*ExportResult, error) {
	member, err := s.faculty.FindByID(ctx, facultyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}

	sessions, err := s.sessions.ListByFaculty(ctx, facultyID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	if len(sessions) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty has no scheduled sessions")
	}

	grid, err := s.buildGrid(ctx, "Schedule - "+member.Name, sessions, true)
	if err != nil {
		return nil, err
	}
	return s.render(grid, format, "schedule-"+slugify(member.Name))
}

func (s *ExportService) buildGrid(ctx context.Context, title string, sessions []models.SessionDetail, facultyView bool) (export.Grid, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return export.Grid{}, appErrors.ErrSetupIncomplete
		}
		return export.Grid{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}

	dayNames := make([]string, settings.WorkingDays)
	for i := range dayNames {
		dayNames[i] = DayName(i + 1)
	}

	grid := export.Grid{
		Title:      title,
		DayNames:   dayNames,
		Periods:    settings.PeriodsPerDay,
		Cells:      make(map[export.GridKey]export.GridCell, len(sessions)),
		FooterNote: fmt.Sprintf("%s | %s | %s", settings.InstitutionName, settings.Course, settings.AcademicYear),
	}
	for _, session := range sessions {
		who := session.FacultyName
		if facultyView {
			who = session.SectionName
		}
		grid.Cells[export.GridKey{Day: session.Day, Period: session.Period}] = export.GridCell{
			Subject: session.SubjectName,
			Faculty: who,
			Room:    session.RoomName,
			IsLab:   session.IsLab,
		}
	}
	return grid, nil
}

func (s *ExportService) render(grid export.Grid, format ExportFormat, basename string) (*ExportResult, error) {
	switch format {
	case FormatCSV:
		content, err := s.csv.Render(grid)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{Content: content, ContentType: "text/csv", Filename: basename + ".csv"}, nil
	case FormatPDF:
		content, err := s.pdf.Render(grid)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{Content: content, ContentType: "application/pdf", Filename: basename + ".pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	return slug
}
