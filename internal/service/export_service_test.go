package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/models"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
)

func newExportFixture() (*ExportService, *stubViewSessions) {
	sessions := &stubViewSessions{
		bySection: map[string][]models.SessionDetail{
			"sec-1": {
				detail("sec-1", "fac-1", 1, 1, "Mathematics"),
				detail("sec-1", "fac-1", 3, 4, "Operating Systems"),
			},
		},
		byFaculty: map[string][]models.SessionDetail{
			"fac-1": {
				detail("sec-1", "fac-1", 1, 1, "Mathematics"),
			},
		},
	}
	sections := &stubViewSections{sections: map[string]*models.Section{
		"sec-1": {ID: "sec-1", SemesterID: "sem-1", Name: "CSE-A"},
	}}
	faculty := &stubViewFaculty{members: map[string]*models.Faculty{
		"fac-1": {ID: "fac-1", Name: "Dr. Rao", MaxHoursPerWeek: 18},
	}}
	settings := &stubSettingsRepo{settings: completeSettings()}
	return NewExportService(sessions, sections, faculty, settings, zap.NewNop()), sessions
}

func TestExportServiceSectionCSV(t *testing.T) {
	service, _ := newExportFixture()

	result, err := service.ExportSection(context.Background(), "sec-1", FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "timetable-cse-a.csv", result.Filename)

	body := string(result.Content)
	assert.Contains(t, body, "Mathematics")
	assert.Contains(t, body, "Monday")
	assert.True(t, strings.Contains(body, "Dr. Rao"))
}

func TestExportServiceSectionPDF(t *testing.T) {
	service, _ := newExportFixture()

	result, err := service.ExportSection(context.Background(), "sec-1", FormatPDF)
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", result.ContentType)
	assert.Equal(t, "timetable-cse-a.pdf", result.Filename)
	assert.True(t, len(result.Content) > 0)
	assert.Equal(t, "%PDF", string(result.Content[:4]))
}

func TestExportServiceFacultyShowsSection(t *testing.T) {
	service, _ := newExportFixture()

	result, err := service.ExportFaculty(context.Background(), "fac-1", FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "schedule-dr.-rao.csv", result.Filename)
	// Faculty exports show which section is taught, not the teacher name.
	assert.Contains(t, string(result.Content), "CSE-A")
}

func TestExportServiceSectionNotFound(t *testing.T) {
	service, _ := newExportFixture()

	_, err := service.ExportSection(context.Background(), "sec-missing", FormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportServiceEmptyTimetable(t *testing.T) {
	service, sessions := newExportFixture()
	sessions.bySection["sec-1"] = nil

	_, err := service.ExportSection(context.Background(), "sec-1", FormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportServiceUnsupportedFormat(t *testing.T) {
	service, _ := newExportFixture()

	_, err := service.ExportSection(context.Background(), "sec-1", ExportFormat("xlsx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
