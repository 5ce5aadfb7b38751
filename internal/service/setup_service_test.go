package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/models"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
)

type memorySetupStore struct {
	settings      *models.InstitutionSettings
	courses       []models.Course
	semesters     []models.Semester
	sections      []models.Section
	subjects      []models.Subject
	faculty       []models.Faculty
	rooms         []models.Room
	allocations   map[string][]models.FacultySubjectAllocation
	slotDays      int
	slotPeriods   int
	setupComplete bool
	sessionCount  int
}

func newMemorySetupStore() *memorySetupStore {
	return &memorySetupStore{allocations: map[string][]models.FacultySubjectAllocation{}}
}

func (m *memorySetupStore) Get(ctx context.Context) (*models.InstitutionSettings, error) {
	if m.settings == nil {
		return nil, sql.ErrNoRows
	}
	return m.settings, nil
}

func (m *memorySetupStore) Exists(ctx context.Context) (bool, error) {
	return m.settings != nil, nil
}

func (m *memorySetupStore) Upsert(ctx context.Context, settings *models.InstitutionSettings) error {
	if settings.ID == "" {
		settings.ID = "set-1"
	}
	m.settings = settings
	return nil
}

func (m *memorySetupStore) MarkSetupComplete(ctx context.Context) error {
	m.setupComplete = true
	if m.settings != nil {
		m.settings.SetupComplete = true
	}
	return nil
}

func (m *memorySetupStore) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = "course-1"
	}
	m.courses = append(m.courses, *course)
	return nil
}

func (m *memorySetupStore) List(ctx context.Context) ([]models.Course, error) {
	return m.courses, nil
}

func (m *memorySetupStore) CreateSemester(ctx context.Context, semester *models.Semester) error {
	if semester.ID == "" {
		semester.ID = "sem-" + semester.Name
	}
	m.semesters = append(m.semesters, *semester)
	return nil
}

func (m *memorySetupStore) ListAllSemesters(ctx context.Context) ([]models.Semester, error) {
	return m.semesters, nil
}

type memorySectionStore struct{ store *memorySetupStore }

func (m *memorySectionStore) Create(ctx context.Context, section *models.Section) error {
	if section.ID == "" {
		section.ID = "sec-" + section.Name
	}
	m.store.sections = append(m.store.sections, *section)
	return nil
}

func (m *memorySectionStore) List(ctx context.Context) ([]models.SectionDetail, error) {
	var details []models.SectionDetail
	for _, section := range m.store.sections {
		details = append(details, models.SectionDetail{Section: section})
	}
	return details, nil
}

type memorySubjectStore struct{ store *memorySetupStore }

func (m *memorySubjectStore) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = "sub-" + subject.Code
	}
	m.store.subjects = append(m.store.subjects, *subject)
	return nil
}

func (m *memorySubjectStore) ExistsByCode(ctx context.Context, semesterID, code string) (bool, error) {
	for _, subject := range m.store.subjects {
		if subject.SemesterID == semesterID && subject.Code == code {
			return true, nil
		}
	}
	return false, nil
}

type memoryFacultyStore struct{ store *memorySetupStore }

func (m *memoryFacultyStore) Create(ctx context.Context, faculty *models.Faculty) error {
	if faculty.ID == "" {
		faculty.ID = "fac-" + faculty.EmployeeID
	}
	m.store.faculty = append(m.store.faculty, *faculty)
	return nil
}

func (m *memoryFacultyStore) List(ctx context.Context) ([]models.Faculty, error) {
	return m.store.faculty, nil
}

func (m *memoryFacultyStore) ReplaceAllocations(ctx context.Context, facultyID string, allocations []models.FacultySubjectAllocation) error {
	m.store.allocations[facultyID] = allocations
	return nil
}

type memoryRoomStore struct{ store *memorySetupStore }

func (m *memoryRoomStore) Create(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = "room-" + room.Name
	}
	m.store.rooms = append(m.store.rooms, *room)
	return nil
}

func (m *memoryRoomStore) List(ctx context.Context) ([]models.Room, error) {
	return m.store.rooms, nil
}

type memorySlotStore struct{ store *memorySetupStore }

func (m *memorySlotStore) RebuildGrid(ctx context.Context, workingDays, periodsPerDay int) error {
	m.store.slotDays = workingDays
	m.store.slotPeriods = periodsPerDay
	return nil
}

func (m *memorySlotStore) Count(ctx context.Context) (int, error) {
	return m.store.slotDays * m.store.slotPeriods, nil
}

type memorySessionCounter struct{ store *memorySetupStore }

func (m *memorySessionCounter) Count(ctx context.Context) (int, error) {
	return m.store.sessionCount, nil
}

func newSetupFixture(t *testing.T) (*SetupService, *memorySetupStore) {
	t.Helper()
	store := newMemorySetupStore()
	service := NewSetupService(
		store,
		store,
		&memorySectionStore{store: store},
		&memorySubjectStore{store: store},
		&memoryFacultyStore{store: store},
		&memoryRoomStore{store: store},
		&memorySlotStore{store: store},
		&memorySessionCounter{store: store},
		nil,
		zap.NewNop(),
	)
	return service, store
}

func instituteRequest() dto.InstituteSetupRequest {
	return dto.InstituteSetupRequest{
		Name:           "NIT Campus",
		Course:         "MCA",
		AcademicYear:   "2026-27",
		WorkingDays:    5,
		PeriodsPerDay:  6,
		PeriodDuration: 55,
		Rooms: []dto.RoomRequest{
			{Name: "R101"},
			{Name: "Lab-1", IsLab: true},
		},
		Faculties: []dto.FacultyRequest{
			{Name: "Dr. Rao", EmployeeID: "EMP-01", MaxHoursPerWeek: 18},
			{Name: "Prof. Iyer", EmployeeID: "EMP-02", MaxHoursPerWeek: 16},
		},
	}
}

func academicsRequest() dto.AcademicsSetupRequest {
	return dto.AcademicsSetupRequest{
		Semesters: []dto.SemesterSetupRequest{
			{
				Number:   2,
				Name:     "Semester 2",
				Sections: []string{"A", "B"},
				Subjects: []dto.SubjectSetupRequest{
					{
						Name:        "Mathematics",
						Code:        "MA201",
						WeeklyHours: 4,
						Allocations: []dto.AllocationSetupRequest{
							{EmployeeID: "EMP-01", HoursPerWeek: 4},
						},
					},
					{
						Name:        "Physics Lab",
						Code:        "PH202",
						WeeklyHours: 2,
						LabRequired: true,
						Allocations: []dto.AllocationSetupRequest{
							{EmployeeID: "EMP-02", HoursPerWeek: 2},
						},
					},
				},
			},
		},
	}
}

func TestSetupServiceConfigureInstitute(t *testing.T) {
	service, store := newSetupFixture(t)

	settings, err := service.ConfigureInstitute(context.Background(), instituteRequest())
	require.NoError(t, err)

	assert.Equal(t, 5, settings.WorkingDays)
	assert.Len(t, store.rooms, 2)
	assert.Len(t, store.faculty, 2)
	assert.Equal(t, 5, store.slotDays)
	assert.Equal(t, 6, store.slotPeriods)
	assert.False(t, store.setupComplete)
}

func TestSetupServiceConfigureInstituteValidation(t *testing.T) {
	service, _ := newSetupFixture(t)

	req := instituteRequest()
	req.WorkingDays = 0
	_, err := service.ConfigureInstitute(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSetupServiceConfigureAcademics(t *testing.T) {
	service, store := newSetupFixture(t)
	_, err := service.ConfigureInstitute(context.Background(), instituteRequest())
	require.NoError(t, err)

	require.NoError(t, service.ConfigureAcademics(context.Background(), academicsRequest()))

	assert.Len(t, store.semesters, 1)
	assert.Len(t, store.sections, 2)
	assert.Len(t, store.subjects, 2)
	assert.Len(t, store.allocations["fac-EMP-01"], 1)
	assert.Len(t, store.allocations["fac-EMP-02"], 1)
	assert.True(t, store.setupComplete)
}

func TestSetupServiceConfigureAcademicsRequiresInstitute(t *testing.T) {
	service, _ := newSetupFixture(t)

	err := service.ConfigureAcademics(context.Background(), academicsRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSetupIncomplete.Code, appErrors.FromError(err).Code)
}

func TestSetupServiceConfigureAcademicsUnknownEmployee(t *testing.T) {
	service, _ := newSetupFixture(t)
	_, err := service.ConfigureInstitute(context.Background(), instituteRequest())
	require.NoError(t, err)

	req := academicsRequest()
	req.Semesters[0].Subjects[0].Allocations[0].EmployeeID = "EMP-99"
	err = service.ConfigureAcademics(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSetupServiceConfigureAcademicsDuplicateSubjectCode(t *testing.T) {
	service, _ := newSetupFixture(t)
	_, err := service.ConfigureInstitute(context.Background(), instituteRequest())
	require.NoError(t, err)

	req := academicsRequest()
	req.Semesters[0].Subjects[1].Code = req.Semesters[0].Subjects[0].Code
	err = service.ConfigureAcademics(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSetupServiceStatus(t *testing.T) {
	service, store := newSetupFixture(t)

	empty, err := service.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, empty.InstituteConfigured)

	_, err = service.ConfigureInstitute(context.Background(), instituteRequest())
	require.NoError(t, err)
	require.NoError(t, service.ConfigureAcademics(context.Background(), academicsRequest()))
	store.sessionCount = 48

	status, err := service.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.InstituteConfigured)
	assert.True(t, status.AcademicsConfigured)
	assert.True(t, status.SetupComplete)
	assert.True(t, status.TimetableGenerated)
	assert.Equal(t, 1, status.SemesterCount)
	assert.Equal(t, 2, status.SectionCount)
	assert.Equal(t, 2, status.FacultyCount)
	assert.Equal(t, 2, status.RoomCount)
	assert.Equal(t, 30, status.SlotCount)
}
