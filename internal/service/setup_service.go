package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/models"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
)

type setupSettingsRepository interface {
	Get(ctx context.Context) (*models.InstitutionSettings, error)
	Exists(ctx context.Context) (bool, error)
	Upsert(ctx context.Context, settings *models.InstitutionSettings) error
	MarkSetupComplete(ctx context.Context) error
}

type setupCourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	List(ctx context.Context) ([]models.Course, error)
	CreateSemester(ctx context.Context, semester *models.Semester) error
	ListAllSemesters(ctx context.Context) ([]models.Semester, error)
}

type setupSectionRepository interface {
	Create(ctx context.Context, section *models.Section) error
	List(ctx context.Context) ([]models.SectionDetail, error)
}

type setupSubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	ExistsByCode(ctx context.Context, semesterID, code string) (bool, error)
}

type setupFacultyRepository interface {
	Create(ctx context.Context, faculty *models.Faculty) error
	List(ctx context.Context) ([]models.Faculty, error)
	ReplaceAllocations(ctx context.Context, facultyID string, allocations []models.FacultySubjectAllocation) error
}

type setupRoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	List(ctx context.Context) ([]models.Room, error)
}

type setupSlotRepository interface {
	RebuildGrid(ctx context.Context, workingDays, periodsPerDay int) error
	Count(ctx context.Context) (int, error)
}

type setupSessionRepository interface {
	Count(ctx context.Context) (int, error)
}

// SetupService drives the two-step institute setup wizard: institute
// parameters plus physical resources first, then the academic structure.
type SetupService struct {
	settings  setupSettingsRepository
	courses   setupCourseRepository
	sections  setupSectionRepository
	subjects  setupSubjectRepository
	faculty   setupFacultyRepository
	rooms     setupRoomRepository
	slots     setupSlotRepository
	sessions  setupSessionRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSetupService constructs a SetupService instance.
func NewSetupService(
	settings setupSettingsRepository,
	courses setupCourseRepository,
	sections setupSectionRepository,
	subjects setupSubjectRepository,
	faculty setupFacultyRepository,
	rooms setupRoomRepository,
	slots setupSlotRepository,
	sessions setupSessionRepository,
	validate *validator.Validate,
	logger *zap.Logger,
) *SetupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SetupService{
		settings:  settings,
		courses:   courses,
		sections:  sections,
		subjects:  subjects,
		faculty:   faculty,
		rooms:     rooms,
		slots:     slots,
		sessions:  sessions,
		validator: validate,
		logger:    logger,
	}
}

// Status reports the wizard progress and resource counts.
func (s *SetupService) Status(ctx context.Context) (*dto.SetupStatusResponse, error) {
	status := &dto.SetupStatusResponse{}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return status, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}
	status.InstituteConfigured = true
	status.SetupComplete = settings.SetupComplete

	sections, err := s.sections.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
	}
	status.SectionCount = len(sections)
	status.AcademicsConfigured = len(sections) > 0

	semesters, err := s.courses.ListAllSemesters(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list semesters")
	}
	status.SemesterCount = len(semesters)

	faculty, err := s.faculty.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculty")
	}
	status.FacultyCount = len(faculty)

	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	status.RoomCount = len(rooms)

	slotCount, err := s.slots.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count slots")
	}
	status.SlotCount = slotCount

	sessionCount, err := s.sessions.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count sessions")
	}
	status.TimetableGenerated = sessionCount > 0

	return status, nil
}

// ConfigureInstitute stores the institution parameters, creates rooms and
// faculty, and rebuilds the weekly slot grid.
func (s *SetupService) ConfigureInstitute(ctx context.Context, req dto.InstituteSetupRequest) (*models.InstitutionSettings, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid institute payload")
	}

	settings := &models.InstitutionSettings{
		InstitutionName: req.Name,
		Course:          req.Course,
		AcademicYear:    req.AcademicYear,
		WorkingDays:     req.WorkingDays,
		PeriodsPerDay:   req.PeriodsPerDay,
		PeriodDuration:  req.PeriodDuration,
	}
	if err := s.settings.Upsert(ctx, settings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store settings")
	}

	for _, room := range req.Rooms {
		if err := s.rooms.Create(ctx, &models.Room{Name: room.Name, IsLab: room.IsLab}); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create room")
		}
	}
	for _, fac := range req.Faculties {
		member := &models.Faculty{
			Name:            fac.Name,
			EmployeeID:      fac.EmployeeID,
			MaxHoursPerWeek: fac.MaxHoursPerWeek,
			MaxHoursPerDay:  fac.MaxHoursPerDay,
			MaxConsecutive:  fac.MaxConsecutive,
		}
		if err := s.faculty.Create(ctx, member); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create faculty")
		}
	}

	if err := s.slots.RebuildGrid(ctx, req.WorkingDays, req.PeriodsPerDay); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to rebuild slot grid")
	}

	s.logger.Info("institute configured",
		zap.String("institution", req.Name),
		zap.Int("working_days", req.WorkingDays),
		zap.Int("periods_per_day", req.PeriodsPerDay),
		zap.Int("rooms", len(req.Rooms)),
		zap.Int("faculty", len(req.Faculties)))
	return settings, nil
}

// findOrCreateCourse reuses a course created by an earlier academics run so
// re-submitting the wizard does not duplicate it.
func (s *SetupService) findOrCreateCourse(ctx context.Context, name string) (*models.Course, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	for i := range courses {
		if courses[i].Name == name {
			return &courses[i], nil
		}
	}

	course := &models.Course{Name: name, Code: name}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// ConfigureAcademics creates the course, its semesters with subjects and
// sections, resolves faculty allocations and marks setup complete.
func (s *SetupService) ConfigureAcademics(ctx context.Context, req dto.AcademicsSetupRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid academics payload")
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrSetupIncomplete, "configure the institute before academics")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}

	facultyByEmployee, err := s.facultyByEmployeeID(ctx)
	if err != nil {
		return err
	}

	course, err := s.findOrCreateCourse(ctx, settings.Course)
	if err != nil {
		return err
	}

	// Allocations accumulate per faculty across semesters and are written
	// once at the end, replacing any previous set.
	allocations := make(map[string][]models.FacultySubjectAllocation)

	for _, sem := range req.Semesters {
		semester := &models.Semester{CourseID: course.ID, Name: sem.Name, Number: sem.Number}
		if err := s.courses.CreateSemester(ctx, semester); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create semester")
		}

		for _, name := range sem.Sections {
			section := &models.Section{SemesterID: semester.ID, Name: name}
			if err := s.sections.Create(ctx, section); err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create section")
			}
		}

		for _, sub := range sem.Subjects {
			exists, err := s.subjects.ExistsByCode(ctx, semester.ID, sub.Code)
			if err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject code")
			}
			if exists {
				return appErrors.Clone(appErrors.ErrValidation,
					fmt.Sprintf("subject code %q already exists", sub.Code))
			}

			subject := &models.Subject{
				SemesterID:  semester.ID,
				Name:        sub.Name,
				Code:        sub.Code,
				WeeklyHours: sub.WeeklyHours,
				LabRequired: sub.LabRequired,
			}
			if err := s.subjects.Create(ctx, subject); err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
			}

			for _, alloc := range sub.Allocations {
				member, ok := facultyByEmployee[alloc.EmployeeID]
				if !ok {
					return appErrors.Clone(appErrors.ErrValidation,
						fmt.Sprintf("unknown employee id %q in allocation for %s", alloc.EmployeeID, sub.Name))
				}
				allocations[member.ID] = append(allocations[member.ID], models.FacultySubjectAllocation{
					SubjectID:    subject.ID,
					HoursPerWeek: alloc.HoursPerWeek,
				})
			}
		}
	}

	for facultyID, allocs := range allocations {
		if err := s.faculty.ReplaceAllocations(ctx, facultyID, allocs); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store allocations")
		}
	}

	if err := s.settings.MarkSetupComplete(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark setup complete")
	}

	s.logger.Info("academics configured", zap.Int("semesters", len(req.Semesters)))
	return nil
}

func (s *SetupService) facultyByEmployeeID(ctx context.Context) (map[string]models.Faculty, error) {
	members, err := s.faculty.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculty")
	}
	byEmployee := make(map[string]models.Faculty, len(members))
	for _, member := range members {
		byEmployee[member.EmployeeID] = member
	}
	return byEmployee, nil
}
