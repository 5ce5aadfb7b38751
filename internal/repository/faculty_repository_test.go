package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/timetable-api/internal/models"
)

func TestFacultyRepositoryReplaceAllocations(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewFacultyRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM faculty_subject_allocations").
		WithArgs("fac-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO faculty_subject_allocations").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	allocations := []models.FacultySubjectAllocation{
		{SubjectID: "sub-1", HoursPerWeek: 4},
	}
	require.NoError(t, repo.ReplaceAllocations(context.Background(), "fac-1", allocations))
	assert.Equal(t, "fac-1", allocations[0].FacultyID)
	assert.NotEmpty(t, allocations[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryListSummaries(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewFacultyRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "employee_id", "max_hours_per_week", "assigned_sessions"}).
		AddRow("fac-1", "Dr. Rao", "EMP-01", 18, 12).
		AddRow("fac-2", "Prof. Iyer", "EMP-02", 16, 0)
	mock.ExpectQuery("SELECT f.id, f.name").
		WillReturnRows(rows)

	summaries, err := repo.ListSummaries(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, 12, summaries[0].AssignedSessions)
	assert.Equal(t, 0, summaries[1].AssignedSessions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewFacultyRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "employee_id", "max_hours_per_week", "max_hours_per_day", "max_consecutive"}).
		AddRow("fac-1", "Dr. Rao", "EMP-01", 18, 5, 3)
	mock.ExpectQuery("SELECT id, name, employee_id").
		WillReturnRows(rows)

	faculty, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, faculty, 1)
	assert.Equal(t, 18, faculty[0].MaxHoursPerWeek)
	assert.NoError(t, mock.ExpectationsWereMet())
}
