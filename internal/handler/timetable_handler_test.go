package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/models"
	"github.com/campuskit/timetable-api/internal/service"
)

type fakeSessions struct {
	bySection map[string][]models.SessionDetail
}

func (f *fakeSessions) ListBySection(ctx context.Context, sectionID string) ([]models.SessionDetail, error) {
	return f.bySection[sectionID], nil
}

func (f *fakeSessions) ListByFaculty(ctx context.Context, facultyID string) ([]models.SessionDetail, error) {
	return nil, nil
}

func (f *fakeSessions) ListAll(ctx context.Context) ([]models.SessionDetail, error) {
	var all []models.SessionDetail
	for _, sessions := range f.bySection {
		all = append(all, sessions...)
	}
	return all, nil
}

func (f *fakeSessions) ListSummaries(ctx context.Context) ([]models.TimetableSummary, error) {
	summaries := make([]models.TimetableSummary, 0, len(f.bySection))
	for id := range f.bySection {
		summaries = append(summaries, models.TimetableSummary{SectionID: id, SectionName: "CSE-A", SessionCount: len(f.bySection[id])})
	}
	return summaries, nil
}

type fakeSections struct{}

func (f *fakeSections) FindByID(ctx context.Context, id string) (*models.Section, error) {
	if id != "sec-1" {
		return nil, sql.ErrNoRows
	}
	return &models.Section{ID: "sec-1", SemesterID: "sem-1", Name: "CSE-A"}, nil
}

func (f *fakeSections) List(ctx context.Context) ([]models.SectionDetail, error) {
	return []models.SectionDetail{{Section: models.Section{ID: "sec-1", Name: "CSE-A"}}}, nil
}

type fakeFaculty struct{}

func (f *fakeFaculty) FindByID(ctx context.Context, id string) (*models.Faculty, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeFaculty) ListSummaries(ctx context.Context) ([]models.FacultySummary, error) {
	return nil, nil
}

type fakeSettings struct{}

func (f *fakeSettings) Get(ctx context.Context) (*models.InstitutionSettings, error) {
	return &models.InstitutionSettings{WorkingDays: 5, PeriodsPerDay: 6, SetupComplete: true}, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := &fakeSessions{bySection: map[string][]models.SessionDetail{
		"sec-1": {
			{
				ScheduledSession: models.ScheduledSession{SectionID: "sec-1", Day: 1, Period: 2},
				SubjectName:      "Mathematics",
				FacultyName:      "Dr. Rao",
				RoomName:         "R101",
				SectionName:      "CSE-A",
			},
		},
	}}
	views := service.NewTimetableService(sessions, &fakeSections{}, &fakeFaculty{}, &fakeSettings{}, nil, nil, time.Minute, zap.NewNop())
	handler := NewTimetableHandler(nil, views, nil)

	router := gin.New()
	router.GET("/timetables", handler.Index)
	router.GET("/timetables/sections/:id", handler.Section)
	router.GET("/timetables/sections/:id/navigation", handler.Navigation)
	return router
}

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestTimetableHandlerSection(t *testing.T) {
	router := newTestRouter(t)

	req, _ := http.NewRequest(http.MethodGet, "/timetables/sections/sec-1", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"sectionName":"CSE-A"`)
	assert.Contains(t, resp.Body.String(), `"Mathematics"`)
}

func TestTimetableHandlerSectionNotFound(t *testing.T) {
	router := newTestRouter(t)

	req, _ := http.NewRequest(http.MethodGet, "/timetables/sections/missing", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), `"NOT_FOUND"`)
}

func TestTimetableHandlerIndex(t *testing.T) {
	router := newTestRouter(t)

	req, _ := http.NewRequest(http.MethodGet, "/timetables", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"generated":true`)
}
