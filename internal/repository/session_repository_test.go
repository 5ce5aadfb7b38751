package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/timetable-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestSessionRepositoryReplaceAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSessionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM scheduled_sessions").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO scheduled_sessions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO scheduled_sessions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	sessions := []models.ScheduledSession{
		{SectionID: "sec-1", SubjectID: "sub-1", FacultyID: "fac-1", RoomID: "room-1", Day: 1, Period: 2},
		{SectionID: "sec-1", SubjectID: "sub-2", FacultyID: "fac-2", RoomID: "room-1", Day: 2, Period: 3},
	}
	require.NoError(t, repo.ReplaceAll(context.Background(), sessions))
	assert.NotEmpty(t, sessions[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryReplaceAllRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSessionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM scheduled_sessions").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO scheduled_sessions").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.ReplaceAll(context.Background(), []models.ScheduledSession{
		{SectionID: "sec-1", SubjectID: "sub-1", FacultyID: "fac-1", RoomID: "room-1", Day: 1, Period: 1},
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryListBySection(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSessionRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "section_id", "subject_id", "faculty_id", "room_id",
		"day", "period", "is_lab", "created_at",
		"subject_name", "faculty_name", "room_name", "section_name", "semester_number",
	}).AddRow(
		"ss-1", "sec-1", "sub-1", "fac-1", "room-1",
		1, 3, false, time.Now(),
		"Mathematics", "Dr. Rao", "R101", "CSE-A", 2,
	)
	mock.ExpectQuery("SELECT .+ FROM scheduled_sessions").
		WithArgs("sec-1").
		WillReturnRows(rows)

	sessions, err := repo.ListBySection(context.Background(), "sec-1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "Mathematics", sessions[0].SubjectName)
	assert.Equal(t, 3, sessions[0].Period)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSessionRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "section_id", "subject_id", "faculty_id", "room_id",
		"day", "period", "is_lab", "created_at",
		"subject_name", "faculty_name", "room_name", "section_name", "semester_number",
	}).AddRow(
		"ss-1", "sec-1", "sub-1", "fac-1", "room-1",
		1, 3, false, time.Now(),
		"Mathematics", "Dr. Rao", "R101", "CSE-A", 2,
	).AddRow(
		"ss-2", "sec-2", "sub-2", "fac-2", "room-2",
		2, 1, true, time.Now(),
		"Physics Lab", "Dr. Iyer", "Lab-1", "CSE-B", 2,
	)
	mock.ExpectQuery("SELECT .+ FROM scheduled_sessions").
		WillReturnRows(rows)

	sessions, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "sec-1", sessions[0].SectionID)
	assert.Equal(t, "sec-2", sessions[1].SectionID)
	assert.True(t, sessions[1].IsLab)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryListSummaries(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSessionRepository(db)

	rows := sqlmock.NewRows([]string{"section_id", "section_name", "semester_number", "course_name", "session_count"}).
		AddRow("sec-1", "CSE-A", 2, "MCA", 24).
		AddRow("sec-2", "CSE-B", 2, "MCA", 22)
	mock.ExpectQuery("SELECT sec.id AS section_id").
		WillReturnRows(rows)

	summaries, err := repo.ListSummaries(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, 24, summaries[0].SessionCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
