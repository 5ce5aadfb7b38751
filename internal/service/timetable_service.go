package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/models"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
)

// Continuous teaching blocks of three or more periods are reported to the
// admin; four or more are flagged high severity.
const (
	continuousWarnLength = 3
	continuousHighLength = 4
)

type viewSessionRepository interface {
	ListBySection(ctx context.Context, sectionID string) ([]models.SessionDetail, error)
	ListByFaculty(ctx context.Context, facultyID string) ([]models.SessionDetail, error)
	ListAll(ctx context.Context) ([]models.SessionDetail, error)
	ListSummaries(ctx context.Context) ([]models.TimetableSummary, error)
}

type viewSectionRepository interface {
	FindByID(ctx context.Context, id string) (*models.Section, error)
	List(ctx context.Context) ([]models.SectionDetail, error)
}

type viewFacultyRepository interface {
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
	ListSummaries(ctx context.Context) ([]models.FacultySummary, error)
}

type viewSettingsRepository interface {
	Get(ctx context.Context) (*models.InstitutionSettings, error)
}

// ViewCache caches rendered timetable views. A nil ViewCache disables
// caching entirely.
type ViewCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type viewMetrics interface {
	RecordCacheLookup(hit bool)
}

// TimetableService serves the read-side timetable views, optionally backed by
// a Redis cache that the generation service invalidates.
type TimetableService struct {
	sessions viewSessionRepository
	sections viewSectionRepository
	faculty  viewFacultyRepository
	settings viewSettingsRepository
	cache    ViewCache
	metrics  viewMetrics
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewTimetableService constructs a TimetableService instance. A nil cache
// disables view caching.
func NewTimetableService(
	sessions viewSessionRepository,
	sections viewSectionRepository,
	faculty viewFacultyRepository,
	settings viewSettingsRepository,
	cache ViewCache,
	metrics viewMetrics,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		sessions: sessions,
		sections: sections,
		faculty:  faculty,
		settings: settings,
		cache:    cache,
		metrics:  metrics,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Index lists sections with generated timetables.
func (s *TimetableService) Index(ctx context.Context) (*dto.TimetableIndexResponse, error) {
	summaries, err := s.sessions.ListSummaries(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetables")
	}
	return &dto.TimetableIndexResponse{
		Generated: len(summaries) > 0,
		Sections:  summaries,
	}, nil
}

// SectionView returns one section's weekly timetable.
func (s *TimetableService) SectionView(ctx context.Context, sectionID string) (*dto.SectionTimetableResponse, error) {
	key := "timetable:section:" + sectionID
	var cached dto.SectionTimetableResponse
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	section, err := s.sections.FindByID(ctx, sectionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}

	settings, err := s.gridSettings(ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessions.ListBySection(ctx, sectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}

	resp := &dto.SectionTimetableResponse{
		SectionID:     section.ID,
		SectionName:   section.Name,
		WorkingDays:   settings.WorkingDays,
		PeriodsPerDay: settings.PeriodsPerDay,
		Rows:          buildRows(settings.PeriodsPerDay, sessions, sectionCell),
		SessionCount:  len(sessions),
	}
	if len(sessions) > 0 {
		resp.SemesterNumber = sessions[0].SemesterNumber
	}

	s.cacheSet(ctx, key, resp)
	return resp, nil
}

// FacultyView returns one faculty member's weekly schedule.
func (s *TimetableService) FacultyView(ctx context.Context, facultyID string) (*dto.FacultyTimetableResponse, error) {
	key := "timetable:faculty:" + facultyID
	var cached dto.FacultyTimetableResponse
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	member, err := s.faculty.FindByID(ctx, facultyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}

	settings, err := s.gridSettings(ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessions.ListByFaculty(ctx, facultyID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}

	resp := &dto.FacultyTimetableResponse{
		FacultyID:     member.ID,
		FacultyName:   member.Name,
		WorkingDays:   settings.WorkingDays,
		PeriodsPerDay: settings.PeriodsPerDay,
		Rows:          buildRows(settings.PeriodsPerDay, sessions, facultyCell),
		HoursAssigned: len(sessions),
		MaxHours:      member.MaxHoursPerWeek,
	}

	s.cacheSet(ctx, key, resp)
	return resp, nil
}

// MasterView returns every section's weekly timetable in one payload.
func (s *TimetableService) MasterView(ctx context.Context) (*dto.MasterTimetableResponse, error) {
	key := "timetable:master"
	var cached dto.MasterTimetableResponse
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	settings, err := s.gridSettings(ctx)
	if err != nil {
		return nil, err
	}

	sections, err := s.sections.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
	}

	// One query for the whole timetable, grouped per section afterwards.
	all, err := s.sessions.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	bySection := make(map[string][]models.SessionDetail, len(sections))
	for _, session := range all {
		bySection[session.SectionID] = append(bySection[session.SectionID], session)
	}

	resp := &dto.MasterTimetableResponse{
		WorkingDays:   settings.WorkingDays,
		PeriodsPerDay: settings.PeriodsPerDay,
	}
	for _, section := range sections {
		sessions := bySection[section.ID]
		resp.Sections = append(resp.Sections, dto.SectionTimetableResponse{
			SectionID:      section.ID,
			SectionName:    section.Name,
			SemesterNumber: section.SemesterNumber,
			WorkingDays:    settings.WorkingDays,
			PeriodsPerDay:  settings.PeriodsPerDay,
			Rows:           buildRows(settings.PeriodsPerDay, sessions, sectionCell),
			SessionCount:   len(sessions),
		})
	}

	s.cacheSet(ctx, key, resp)
	return resp, nil
}

// Navigation returns the previous and next section relative to the given one,
// ordered by semester then section name.
func (s *TimetableService) Navigation(ctx context.Context, sectionID string) (*dto.SectionNavigationResponse, error) {
	summaries, err := s.sessions.ListSummaries(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetables")
	}

	index := -1
	for i, summary := range summaries {
		if summary.SectionID == sectionID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "section has no generated timetable")
	}

	resp := &dto.SectionNavigationResponse{CurrentID: sectionID}
	if index > 0 {
		resp.PreviousID = &summaries[index-1].SectionID
	}
	if index < len(summaries)-1 {
		resp.NextID = &summaries[index+1].SectionID
	}
	return resp, nil
}

// FacultyRoster lists faculty with their assigned session counts.
func (s *TimetableService) FacultyRoster(ctx context.Context) ([]models.FacultySummary, error) {
	summaries, err := s.faculty.ListSummaries(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculty")
	}
	return summaries, nil
}

// ValidateContinuous scans a faculty member's schedule for continuous
// teaching blocks that exceed the comfortable limit.
func (s *TimetableService) ValidateContinuous(ctx context.Context, facultyID string) (*dto.FacultyLoadValidationResponse, error) {
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

	resp := &dto.FacultyLoadValidationResponse{
		FacultyID:   member.ID,
		FacultyName: member.Name,
		Blocks:      continuousBlocks(sessions),
	}
	resp.HasWarnings = len(resp.Blocks) > 0
	return resp, nil
}

// ValidateContinuousAll runs the continuous-block check against every faculty
// member, returning only those with findings.
func (s *TimetableService) ValidateContinuousAll(ctx context.Context) ([]dto.FacultyLoadValidationResponse, error) {
	members, err := s.faculty.ListSummaries(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculty")
	}

	results := make([]dto.FacultyLoadValidationResponse, 0)
	for _, member := range members {
		sessions, err := s.sessions.ListByFaculty(ctx, member.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
		}
		blocks := continuousBlocks(sessions)
		if len(blocks) == 0 {
			continue
		}
		results = append(results, dto.FacultyLoadValidationResponse{
			FacultyID:   member.ID,
			FacultyName: member.Name,
			Blocks:      blocks,
			HasWarnings: true,
		})
	}
	return results, nil
}

func (s *TimetableService) gridSettings(ctx context.Context) (*models.InstitutionSettings, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrSetupIncomplete
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}
	return settings, nil
}

func (s *TimetableService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	err := s.cache.Get(ctx, key, dest)
	hit := err == nil
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(hit)
	}
	if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	return hit
}

func (s *TimetableService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func sectionCell(session models.SessionDetail) dto.TimetableCell {
	return dto.TimetableCell{
		SubjectName: session.SubjectName,
		FacultyName: session.FacultyName,
		RoomName:    session.RoomName,
		IsLab:       session.IsLab,
	}
}

// facultyCell swaps the faculty name for the section the period is taught to.
func facultyCell(session models.SessionDetail) dto.TimetableCell {
	return dto.TimetableCell{
		SubjectName: session.SubjectName,
		FacultyName: session.SectionName,
		RoomName:    session.RoomName,
		IsLab:       session.IsLab,
	}
}

func buildRows(periodsPerDay int, sessions []models.SessionDetail, cell func(models.SessionDetail) dto.TimetableCell) []dto.TimetableRow {
	rows := make([]dto.TimetableRow, periodsPerDay)
	for i := range rows {
		rows[i] = dto.TimetableRow{Period: i + 1, Cells: make(map[int]dto.TimetableCell)}
	}
	for _, session := range sessions {
		if session.Period < 1 || session.Period > periodsPerDay {
			continue
		}
		rows[session.Period-1].Cells[session.Day] = cell(session)
	}
	return rows
}

// continuousBlocks groups a faculty member's periods per day and reports runs
// of three or more back-to-back periods.
func continuousBlocks(sessions []models.SessionDetail) []dto.ContinuousBlock {
	byDay := make(map[int][]int)
	for _, session := range sessions {
		byDay[session.Day] = append(byDay[session.Day], session.Period)
	}

	days := make([]int, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Ints(days)

	var blocks []dto.ContinuousBlock
	for _, day := range days {
		periods := byDay[day]
		sort.Ints(periods)

		start := periods[0]
		prev := periods[0]
		flush := func(end int) {
			length := end - start + 1
			if length < continuousWarnLength {
				return
			}
			severity := "medium"
			if length >= continuousHighLength {
				severity = "high"
			}
			blocks = append(blocks, dto.ContinuousBlock{
				Day:      day,
				Start:    start,
				End:      end,
				Length:   length,
				Severity: severity,
			})
		}
		for _, period := range periods[1:] {
			if period == prev+1 {
				prev = period
				continue
			}
			flush(prev)
			start = period
			prev = period
		}
		flush(prev)
	}
	return blocks
}

// DayName maps a 1-based day index to its display name.
func DayName(day int) string {
	names := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	if day < 1 || day > len(names) {
		return fmt.Sprintf("Day %d", day)
	}
	return names[day-1]
}
