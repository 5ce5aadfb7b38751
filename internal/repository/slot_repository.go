package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SlotRepository handles the weekly grid of time slots. The grid is derived
// entirely from the institution settings and rebuilt whenever they change.
type SlotRepository struct {
	db *sqlx.DB
}

// NewSlotRepository creates a new repository instance.
func NewSlotRepository(db *sqlx.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// RebuildGrid replaces the slot table with a fresh workingDays × periodsPerDay
// grid in one transaction.
func (r *SlotRepository) RebuildGrid(ctx context.Context, workingDays, periodsPerDay int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin grid rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM time_slots`); err != nil {
		return fmt.Errorf("clear time slots: %w", err)
	}

	const query = `INSERT INTO time_slots (id, day, period) VALUES ($1, $2, $3)`
	for day := 1; day <= workingDays; day++ {
		for period := 1; period <= periodsPerDay; period++ {
			if _, err := tx.ExecContext(ctx, query, uuid.NewString(), day, period); err != nil {
				return fmt.Errorf("insert time slot: %w", err)
			}
		}
	}
	return tx.Commit()
}

// Count returns the grid size.
func (r *SlotRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM time_slots`); err != nil {
		return 0, fmt.Errorf("count time slots: %w", err)
	}
	return count, nil
}
