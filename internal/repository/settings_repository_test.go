package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/timetable-api/internal/models"
)

func TestSettingsRepositoryGet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSettingsRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "institution_name", "course", "academic_year", "working_days",
		"periods_per_day", "period_duration", "setup_complete", "created_at", "updated_at",
	}).AddRow("set-1", "NIT Campus", "MCA", "2026-27", 5, 7, 55, true, time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, institution_name").
		WillReturnRows(rows)

	settings, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, settings.WorkingDays)
	assert.Equal(t, 7, settings.PeriodsPerDay)
	assert.True(t, settings.SetupComplete)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepositoryUpsertReplacesRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSettingsRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM institution_settings").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO institution_settings").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	settings := &models.InstitutionSettings{
		InstitutionName: "NIT Campus",
		Course:          "MCA",
		AcademicYear:    "2026-27",
		WorkingDays:     5,
		PeriodsPerDay:   7,
		PeriodDuration:  55,
	}
	require.NoError(t, repo.Upsert(context.Background(), settings))
	assert.NotEmpty(t, settings.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryRebuildGrid(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSlotRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM time_slots").
		WillReturnResult(sqlmock.NewResult(0, 0))
	for i := 0; i < 6; i++ {
		mock.ExpectExec("INSERT INTO time_slots").
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.RebuildGrid(context.Background(), 2, 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}
