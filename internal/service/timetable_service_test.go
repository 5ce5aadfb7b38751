package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/models"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
)

type stubViewSessions struct {
	bySection map[string][]models.SessionDetail
	byFaculty map[string][]models.SessionDetail
	summaries []models.TimetableSummary
}

func (s *stubViewSessions) ListBySection(ctx context.Context, sectionID string) ([]models.SessionDetail, error) {
	return s.bySection[sectionID], nil
}

func (s *stubViewSessions) ListByFaculty(ctx context.Context, facultyID string) ([]models.SessionDetail, error) {
	return s.byFaculty[facultyID], nil
}

func (s *stubViewSessions) ListAll(ctx context.Context) ([]models.SessionDetail, error) {
	var all []models.SessionDetail
	for _, sessions := range s.bySection {
		all = append(all, sessions...)
	}
	return all, nil
}

func (s *stubViewSessions) ListSummaries(ctx context.Context) ([]models.TimetableSummary, error) {
	return s.summaries, nil
}

type stubViewSections struct{ sections map[string]*models.Section }

func (s *stubViewSections) FindByID(ctx context.Context, id string) (*models.Section, error) {
	if section, ok := s.sections[id]; ok {
		return section, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubViewSections) List(ctx context.Context) ([]models.SectionDetail, error) {
	var details []models.SectionDetail
	for _, section := range s.sections {
		details = append(details, models.SectionDetail{Section: *section})
	}
	return details, nil
}

type stubViewFaculty struct{ members map[string]*models.Faculty }

func (s *stubViewFaculty) FindByID(ctx context.Context, id string) (*models.Faculty, error) {
	if member, ok := s.members[id]; ok {
		return member, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubViewFaculty) ListSummaries(ctx context.Context) ([]models.FacultySummary, error) {
	var summaries []models.FacultySummary
	for _, member := range s.members {
		summaries = append(summaries, models.FacultySummary{ID: member.ID, Name: member.Name})
	}
	return summaries, nil
}

type memoryCache struct{ values map[string][]byte }

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	return appErrors.ErrCacheMiss
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.values == nil {
		c.values = map[string][]byte{}
	}
	c.values[key] = []byte{1}
	return nil
}

func detail(sectionID, facultyID string, day, period int, subject string) models.SessionDetail {
	return models.SessionDetail{
		ScheduledSession: models.ScheduledSession{
			SectionID: sectionID,
			FacultyID: facultyID,
			Day:       day,
			Period:    period,
		},
		SubjectName:    subject,
		FacultyName:    "Dr. Rao",
		RoomName:       "R101",
		SectionName:    "CSE-A",
		SemesterNumber: 2,
	}
}

func newTimetableFixture() (*TimetableService, *stubViewSessions, *memoryCache) {
	sessions := &stubViewSessions{
		bySection: map[string][]models.SessionDetail{
			"sec-1": {
				detail("sec-1", "fac-1", 1, 1, "Mathematics"),
				detail("sec-1", "fac-1", 2, 3, "Operating Systems"),
			},
		},
		byFaculty: map[string][]models.SessionDetail{},
		summaries: []models.TimetableSummary{
			{SectionID: "sec-1", SectionName: "CSE-A"},
			{SectionID: "sec-2", SectionName: "CSE-B"},
			{SectionID: "sec-3", SectionName: "CSE-C"},
		},
	}
	sections := &stubViewSections{sections: map[string]*models.Section{
		"sec-1": {ID: "sec-1", SemesterID: "sem-1", Name: "CSE-A"},
	}}
	faculty := &stubViewFaculty{members: map[string]*models.Faculty{
		"fac-1": {ID: "fac-1", Name: "Dr. Rao", MaxHoursPerWeek: 18},
	}}
	settings := &stubSettingsRepo{settings: completeSettings()}
	cache := &memoryCache{}
	service := NewTimetableService(sessions, sections, faculty, settings, cache, nil, time.Minute, zap.NewNop())
	return service, sessions, cache
}

func TestTimetableServiceSectionView(t *testing.T) {
	service, _, cache := newTimetableFixture()

	resp, err := service.SectionView(context.Background(), "sec-1")
	require.NoError(t, err)

	assert.Equal(t, "CSE-A", resp.SectionName)
	assert.Equal(t, 6, resp.PeriodsPerDay)
	require.Len(t, resp.Rows, 6)
	assert.Equal(t, "Mathematics", resp.Rows[0].Cells[1].SubjectName)
	assert.Equal(t, "Operating Systems", resp.Rows[2].Cells[2].SubjectName)
	assert.Equal(t, 2, resp.SessionCount)
	assert.Contains(t, cache.values, "timetable:section:sec-1")
}

func TestTimetableServiceSectionViewNotFound(t *testing.T) {
	service, _, _ := newTimetableFixture()

	_, err := service.SectionView(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTimetableServiceFacultyView(t *testing.T) {
	service, sessions, _ := newTimetableFixture()
	sessions.byFaculty["fac-1"] = []models.SessionDetail{
		detail("sec-1", "fac-1", 1, 2, "Mathematics"),
	}

	resp, err := service.FacultyView(context.Background(), "fac-1")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Rao", resp.FacultyName)
	assert.Equal(t, 1, resp.HoursAssigned)
	assert.Equal(t, 18, resp.MaxHours)
	// faculty cells show the section being taught
	assert.Equal(t, "CSE-A", resp.Rows[1].Cells[1].FacultyName)
}

func TestTimetableServiceNavigation(t *testing.T) {
	service, _, _ := newTimetableFixture()

	middle, err := service.Navigation(context.Background(), "sec-2")
	require.NoError(t, err)
	require.NotNil(t, middle.PreviousID)
	require.NotNil(t, middle.NextID)
	assert.Equal(t, "sec-1", *middle.PreviousID)
	assert.Equal(t, "sec-3", *middle.NextID)

	first, err := service.Navigation(context.Background(), "sec-1")
	require.NoError(t, err)
	assert.Nil(t, first.PreviousID)
	require.NotNil(t, first.NextID)

	_, err = service.Navigation(context.Background(), "sec-9")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTimetableServiceMasterView(t *testing.T) {
	service, _, cache := newTimetableFixture()

	resp, err := service.MasterView(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, resp.WorkingDays)
	require.Len(t, resp.Sections, 1)
	assert.Equal(t, "CSE-A", resp.Sections[0].SectionName)
	assert.Equal(t, 2, resp.Sections[0].SessionCount)
	assert.Equal(t, "Mathematics", resp.Sections[0].Rows[0].Cells[1].SubjectName)
	assert.Contains(t, cache.values, "timetable:master")
}

func TestTimetableServiceValidateContinuous(t *testing.T) {
	service, sessions, _ := newTimetableFixture()
	sessions.byFaculty["fac-1"] = []models.SessionDetail{
		detail("sec-1", "fac-1", 1, 2, "A"),
		detail("sec-1", "fac-1", 1, 3, "B"),
		detail("sec-1", "fac-1", 1, 4, "C"),
		detail("sec-1", "fac-1", 1, 5, "D"),
		detail("sec-1", "fac-1", 2, 1, "A"),
		detail("sec-1", "fac-1", 2, 3, "B"),
	}

	resp, err := service.ValidateContinuous(context.Background(), "fac-1")
	require.NoError(t, err)

	assert.True(t, resp.HasWarnings)
	require.Len(t, resp.Blocks, 1)
	block := resp.Blocks[0]
	assert.Equal(t, 1, block.Day)
	assert.Equal(t, 2, block.Start)
	assert.Equal(t, 5, block.End)
	assert.Equal(t, 4, block.Length)
	assert.Equal(t, "high", block.Severity)
}

func TestTimetableServiceValidateContinuousMediumSeverity(t *testing.T) {
	service, sessions, _ := newTimetableFixture()
	sessions.byFaculty["fac-1"] = []models.SessionDetail{
		detail("sec-1", "fac-1", 3, 1, "A"),
		detail("sec-1", "fac-1", 3, 2, "B"),
		detail("sec-1", "fac-1", 3, 3, "C"),
	}

	resp, err := service.ValidateContinuous(context.Background(), "fac-1")
	require.NoError(t, err)
	require.Len(t, resp.Blocks, 1)
	assert.Equal(t, "medium", resp.Blocks[0].Severity)
}

func TestTimetableServiceValidateContinuousAll(t *testing.T) {
	service, sessions, _ := newTimetableFixture()
	sessions.byFaculty["fac-1"] = []models.SessionDetail{
		detail("sec-1", "fac-1", 1, 1, "A"),
		detail("sec-1", "fac-1", 1, 2, "B"),
		detail("sec-1", "fac-1", 1, 3, "C"),
	}

	results, err := service.ValidateContinuousAll(context.Background())
	require.NoError(t, err)

	// Only faculty with findings are reported.
	require.Len(t, results, 1)
	assert.Equal(t, "fac-1", results[0].FacultyID)
	assert.True(t, results[0].HasWarnings)
}

func TestTimetableServiceIndex(t *testing.T) {
	service, _, _ := newTimetableFixture()

	resp, err := service.Index(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Generated)
	assert.Len(t, resp.Sections, 3)
}
