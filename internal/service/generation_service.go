package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/models"
	"github.com/campuskit/timetable-api/internal/timetable"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
	"github.com/campuskit/timetable-api/pkg/jobs"
)

type generationSettingsRepository interface {
	Get(ctx context.Context) (*models.InstitutionSettings, error)
}

type generationCatalogRepository interface {
	List(ctx context.Context) ([]models.SectionDetail, error)
}

type generationSubjectRepository interface {
	List(ctx context.Context) ([]models.Subject, error)
}

type generationFacultyRepository interface {
	List(ctx context.Context) ([]models.Faculty, error)
	ListAllocations(ctx context.Context) ([]models.FacultySubjectAllocation, error)
}

type generationRoomRepository interface {
	List(ctx context.Context) ([]models.Room, error)
}

type generationSessionRepository interface {
	ReplaceAll(ctx context.Context, sessions []models.ScheduledSession) error
}

type generationCache interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

type generationMetrics interface {
	ObserveGeneration(duration time.Duration, scheduled, skipped int, successRate float64, err error)
}

type generationEngine interface {
	Generate(ctx context.Context, cat timetable.Catalog) (*timetable.Result, error)
}

// GenerationService loads the catalog snapshot, runs the engine and persists
// the resulting timetable atomically.
type GenerationService struct {
	settings  generationSettingsRepository
	sections  generationCatalogRepository
	subjects  generationSubjectRepository
	faculty   generationFacultyRepository
	rooms     generationRoomRepository
	sessions  generationSessionRepository
	cache     generationCache
	metrics   generationMetrics
	queue     *jobs.Queue
	validator *validator.Validate
	logger    *zap.Logger
	seed      int64
	threshold float64
}

// GenerationServiceParams bundles the dependencies of NewGenerationService.
type GenerationServiceParams struct {
	Settings  generationSettingsRepository
	Sections  generationCatalogRepository
	Subjects  generationSubjectRepository
	Faculty   generationFacultyRepository
	Rooms     generationRoomRepository
	Sessions  generationSessionRepository
	Cache     generationCache
	Metrics   generationMetrics
	Queue     *jobs.Queue
	Validator *validator.Validate
	Logger    *zap.Logger
	Seed      int64
	Threshold float64
}

// NewGenerationService constructs a GenerationService instance.
func NewGenerationService(p GenerationServiceParams) *GenerationService {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.Validator == nil {
		p.Validator = validator.New()
	}
	return &GenerationService{
		settings:  p.Settings,
		sections:  p.Sections,
		subjects:  p.Subjects,
		faculty:   p.Faculty,
		rooms:     p.Rooms,
		sessions:  p.Sessions,
		cache:     p.Cache,
		metrics:   p.Metrics,
		queue:     p.Queue,
		validator: p.Validator,
		logger:    p.Logger,
		seed:      p.Seed,
		threshold: p.Threshold,
	}
}

// Generate runs one pass and replaces the stored timetable with its output.
func (s *GenerationService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}

	cat, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	seed := s.seed
	if req.Seed != nil {
		seed = *req.Seed
	}
	engine := timetable.NewEngine(timetable.Config{Seed: seed, LowSuccessThreshold: s.threshold}, s.logger)

	start := time.Now()
	result, err := engine.Generate(ctx, *cat)
	if s.metrics != nil {
		var scheduled, skipped int
		var rate float64
		if result != nil {
			scheduled = result.Stats.ScheduledCount
			skipped = result.Stats.SkippedCount
			rate = result.Stats.SuccessRate
		}
		s.metrics.ObserveGeneration(time.Since(start), scheduled, skipped, rate, err)
	}
	if err != nil {
		return nil, err
	}

	stored := make([]models.ScheduledSession, len(result.Sessions))
	for i, session := range result.Sessions {
		stored[i] = models.ScheduledSession{
			SectionID: session.SectionID,
			SubjectID: session.SubjectID,
			FacultyID: session.FacultyID,
			RoomID:    session.RoomID,
			Day:       session.Day,
			Period:    session.Period,
			IsLab:     session.IsLab,
		}
	}
	if err := s.sessions.ReplaceAll(ctx, stored); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store timetable")
	}

	s.invalidateViews(ctx)

	message := fmt.Sprintf("timetable generated with %d sessions (%.1f%% success rate)",
		result.Stats.ScheduledCount, result.Stats.SuccessRate)
	return &dto.GenerateTimetableResponse{
		Message:      message,
		SessionCount: len(stored),
		Seed:         seed,
		Stats:        result.Stats,
	}, nil
}

// invalidateViews drops cached timetable views. When a queue is attached the
// invalidation runs in the background so the generation response is not
// delayed by Redis.
func (s *GenerationService) invalidateViews(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if s.queue == nil {
		if err := s.cache.DeleteByPattern(ctx, "timetable:*"); err != nil {
			s.logger.Warn("failed to invalidate timetable cache", zap.Error(err))
		}
		return
	}
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "cache-invalidate",
		Payload: "timetable:*",
	})
	if err != nil {
		s.logger.Warn("failed to enqueue cache invalidation", zap.Error(err))
	}
}

func (s *GenerationService) loadCatalog(ctx context.Context) (*timetable.Catalog, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrSetupIncomplete, "institute setup has not run")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}
	if !settings.SetupComplete {
		return nil, appErrors.ErrSetupIncomplete
	}

	sections, err := s.sections.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
	}
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	faculty, err := s.faculty.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculty")
	}
	allocations, err := s.faculty.ListAllocations(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list allocations")
	}
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}

	cat := &timetable.Catalog{
		Settings: timetable.Settings{
			WorkingDays:   settings.WorkingDays,
			PeriodsPerDay: settings.PeriodsPerDay,
		},
	}
	for _, section := range sections {
		cat.Sections = append(cat.Sections, timetable.Section{
			ID:         section.ID,
			Name:       section.Name,
			SemesterID: section.SemesterID,
		})
	}
	for _, subject := range subjects {
		cat.Subjects = append(cat.Subjects, timetable.Subject{
			ID:          subject.ID,
			Name:        subject.Name,
			SemesterID:  subject.SemesterID,
			WeeklyHours: subject.WeeklyHours,
			LabRequired: subject.LabRequired,
		})
	}
	for _, member := range faculty {
		cat.Faculty = append(cat.Faculty, timetable.Faculty{
			ID:              member.ID,
			Name:            member.Name,
			MaxHoursPerWeek: member.MaxHoursPerWeek,
		})
	}
	for _, alloc := range allocations {
		cat.Allocations = append(cat.Allocations, timetable.Allocation{
			FacultyID:    alloc.FacultyID,
			SubjectID:    alloc.SubjectID,
			HoursPerWeek: alloc.HoursPerWeek,
		})
	}
	for _, room := range rooms {
		cat.Rooms = append(cat.Rooms, timetable.Room{
			ID:    room.ID,
			Name:  room.Name,
			IsLab: room.IsLab,
		})
	}
	return cat, nil
}
