package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campuskit/timetable-api/internal/models"
)

// SettingsRepository handles persistence for institution settings. The table
// holds at most one row; the setup wizard upserts it.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new repository instance.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the settings row, or sql.ErrNoRows before first setup.
func (r *SettingsRepository) Get(ctx context.Context) (*models.InstitutionSettings, error) {
	const query = `SELECT id, institution_name, course, academic_year, working_days, periods_per_day, period_duration, setup_complete, created_at, updated_at FROM institution_settings LIMIT 1`
	var settings models.InstitutionSettings
	if err := r.db.GetContext(ctx, &settings, query); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Exists reports whether setup has ever written settings.
func (r *SettingsRepository) Exists(ctx context.Context) (bool, error) {
	var one int
	if err := r.db.GetContext(ctx, &one, `SELECT 1 FROM institution_settings LIMIT 1`); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check settings: %w", err)
	}
	return true, nil
}

// Upsert writes the single settings row, replacing any previous one.
func (r *SettingsRepository) Upsert(ctx context.Context, settings *models.InstitutionSettings) error {
	if settings.ID == "" {
		settings.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if settings.CreatedAt.IsZero() {
		settings.CreatedAt = now
	}
	settings.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin settings upsert: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM institution_settings`); err != nil {
		return fmt.Errorf("clear settings: %w", err)
	}
	const query = `INSERT INTO institution_settings (id, institution_name, course, academic_year, working_days, periods_per_day, period_duration, setup_complete, created_at, updated_at) VALUES (:id, :institution_name, :course, :academic_year, :working_days, :periods_per_day, :period_duration, :setup_complete, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, settings); err != nil {
		return fmt.Errorf("insert settings: %w", err)
	}
	return tx.Commit()
}

// MarkSetupComplete flips the setup flag once the wizard finishes.
func (r *SettingsRepository) MarkSetupComplete(ctx context.Context) error {
	const query = `UPDATE institution_settings SET setup_complete = TRUE, updated_at = $1`
	if _, err := r.db.ExecContext(ctx, query, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark setup complete: %w", err)
	}
	return nil
}
