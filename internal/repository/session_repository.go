package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campuskit/timetable-api/internal/models"
)

// SessionRepository handles persistence for generated timetable sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new repository instance.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// ReplaceAll swaps the whole timetable for the new generation output in one
// transaction, so readers never observe a half-written schedule.
func (r *SessionRepository) ReplaceAll(ctx context.Context, sessions []models.ScheduledSession) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin timetable replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM scheduled_sessions`); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}

	const query = `INSERT INTO scheduled_sessions (id, section_id, subject_id, faculty_id, room_id, day, period, is_lab, created_at) VALUES (:id, :section_id, :subject_id, :faculty_id, :room_id, :day, :period, :is_lab, :created_at)`
	now := time.Now().UTC()
	for i := range sessions {
		session := &sessions[i]
		if session.ID == "" {
			session.ID = uuid.NewString()
		}
		if session.CreatedAt.IsZero() {
			session.CreatedAt = now
		}
		if _, err := tx.NamedExecContext(ctx, query, session); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
	}
	return tx.Commit()
}

const sessionDetailColumns = `
	ss.id, ss.section_id, ss.subject_id, ss.faculty_id, ss.room_id,
	ss.day, ss.period, ss.is_lab, ss.created_at,
	sub.name AS subject_name, f.name AS faculty_name, r.name AS room_name,
	sec.name AS section_name, sem.number AS semester_number`

const sessionDetailJoins = `
	FROM scheduled_sessions ss
	JOIN subjects sub ON sub.id = ss.subject_id
	JOIN faculty f ON f.id = ss.faculty_id
	JOIN rooms r ON r.id = ss.room_id
	JOIN sections sec ON sec.id = ss.section_id
	JOIN semesters sem ON sem.id = sec.semester_id`

// ListBySection returns one section's sessions ordered by day and period.
func (r *SessionRepository) ListBySection(ctx context.Context, sectionID string) ([]models.SessionDetail, error) {
	query := `SELECT ` + sessionDetailColumns + sessionDetailJoins + ` WHERE ss.section_id = $1 ORDER BY ss.day, ss.period`
	var sessions []models.SessionDetail
	if err := r.db.SelectContext(ctx, &sessions, query, sectionID); err != nil {
		return nil, fmt.Errorf("list sessions by section: %w", err)
	}
	return sessions, nil
}

// ListByFaculty returns one faculty member's sessions ordered by day and period.
func (r *SessionRepository) ListByFaculty(ctx context.Context, facultyID string) ([]models.SessionDetail, error) {
	query := `SELECT ` + sessionDetailColumns + sessionDetailJoins + ` WHERE ss.faculty_id = $1 ORDER BY ss.day, ss.period`
	var sessions []models.SessionDetail
	if err := r.db.SelectContext(ctx, &sessions, query, facultyID); err != nil {
		return nil, fmt.Errorf("list sessions by faculty: %w", err)
	}
	return sessions, nil
}

// ListAll returns every session ordered by section, day and period.
func (r *SessionRepository) ListAll(ctx context.Context) ([]models.SessionDetail, error) {
	query := `SELECT ` + sessionDetailColumns + sessionDetailJoins + ` ORDER BY ss.section_id, ss.day, ss.period`
	var sessions []models.SessionDetail
	if err := r.db.SelectContext(ctx, &sessions, query); err != nil {
		return nil, fmt.Errorf("list all sessions: %w", err)
	}
	return sessions, nil
}

// ListSummaries returns, per section with sessions, the counts used by the
// timetable index view.
func (r *SessionRepository) ListSummaries(ctx context.Context) ([]models.TimetableSummary, error) {
	const query = `
		SELECT sec.id AS section_id, sec.name AS section_name,
		       sem.number AS semester_number, c.name AS course_name,
		       COUNT(ss.id) AS session_count
		FROM sections sec
		JOIN semesters sem ON sem.id = sec.semester_id
		JOIN courses c ON c.id = sem.course_id
		JOIN scheduled_sessions ss ON ss.section_id = sec.id
		GROUP BY sec.id, sec.name, sem.number, c.name
		ORDER BY sem.number, sec.name`
	var summaries []models.TimetableSummary
	if err := r.db.SelectContext(ctx, &summaries, query); err != nil {
		return nil, fmt.Errorf("list timetable summaries: %w", err)
	}
	return summaries, nil
}

// Count returns the number of scheduled sessions.
func (r *SessionRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM scheduled_sessions`); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return count, nil
}
