package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campuskit/timetable-api/internal/models"
)

// FacultyRepository handles persistence for faculty and their subject
// allocations.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository creates a new repository instance.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

// Create persists a new faculty member.
func (r *FacultyRepository) Create(ctx context.Context, faculty *models.Faculty) error {
	if faculty.ID == "" {
		faculty.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if faculty.CreatedAt.IsZero() {
		faculty.CreatedAt = now
	}
	faculty.UpdatedAt = now

	const query = `INSERT INTO faculty (id, name, employee_id, max_hours_per_week, max_hours_per_day, max_consecutive, created_at, updated_at) VALUES (:id, :name, :employee_id, :max_hours_per_week, :max_hours_per_day, :max_consecutive, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, faculty); err != nil {
		return fmt.Errorf("create faculty: %w", err)
	}
	return nil
}

// FindByID returns one faculty member.
func (r *FacultyRepository) FindByID(ctx context.Context, id string) (*models.Faculty, error) {
	const query = `SELECT id, name, employee_id, max_hours_per_week, max_hours_per_day, max_consecutive, created_at, updated_at FROM faculty WHERE id = $1`
	var faculty models.Faculty
	if err := r.db.GetContext(ctx, &faculty, query, id); err != nil {
		return nil, err
	}
	return &faculty, nil
}

// List returns every faculty member ordered by id for deterministic catalog
// loading.
func (r *FacultyRepository) List(ctx context.Context) ([]models.Faculty, error) {
	const query = `SELECT id, name, employee_id, max_hours_per_week, max_hours_per_day, max_consecutive, created_at, updated_at FROM faculty ORDER BY id`
	var faculty []models.Faculty
	if err := r.db.SelectContext(ctx, &faculty, query); err != nil {
		return nil, fmt.Errorf("list faculty: %w", err)
	}
	return faculty, nil
}

// ListSummaries returns faculty together with their assigned session counts.
func (r *FacultyRepository) ListSummaries(ctx context.Context) ([]models.FacultySummary, error) {
	const query = `
		SELECT f.id, f.name, f.employee_id, f.max_hours_per_week,
		       COUNT(ss.id) AS assigned_sessions
		FROM faculty f
		LEFT JOIN scheduled_sessions ss ON ss.faculty_id = f.id
		GROUP BY f.id, f.name, f.employee_id, f.max_hours_per_week
		ORDER BY f.name`
	var summaries []models.FacultySummary
	if err := r.db.SelectContext(ctx, &summaries, query); err != nil {
		return nil, fmt.Errorf("list faculty summaries: %w", err)
	}
	return summaries, nil
}

// ReplaceAllocations swaps a faculty member's subject allocations atomically.
func (r *FacultyRepository) ReplaceAllocations(ctx context.Context, facultyID string, allocations []models.FacultySubjectAllocation) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin allocation replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM faculty_subject_allocations WHERE faculty_id = $1`, facultyID); err != nil {
		return fmt.Errorf("clear allocations: %w", err)
	}

	const query = `INSERT INTO faculty_subject_allocations (id, faculty_id, subject_id, hours_per_week, created_at) VALUES (:id, :faculty_id, :subject_id, :hours_per_week, :created_at)`
	now := time.Now().UTC()
	for i := range allocations {
		alloc := &allocations[i]
		alloc.FacultyID = facultyID
		if alloc.ID == "" {
			alloc.ID = uuid.NewString()
		}
		if alloc.CreatedAt.IsZero() {
			alloc.CreatedAt = now
		}
		if _, err := tx.NamedExecContext(ctx, query, alloc); err != nil {
			return fmt.Errorf("insert allocation: %w", err)
		}
	}
	return tx.Commit()
}

// ListAllocations returns every allocation ordered by faculty then subject.
func (r *FacultyRepository) ListAllocations(ctx context.Context) ([]models.FacultySubjectAllocation, error) {
	const query = `SELECT id, faculty_id, subject_id, hours_per_week, created_at FROM faculty_subject_allocations ORDER BY faculty_id, subject_id`
	var allocations []models.FacultySubjectAllocation
	if err := r.db.SelectContext(ctx, &allocations, query); err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	return allocations, nil
}
