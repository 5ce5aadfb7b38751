package models

import "time"

// ScheduledSession is one committed period of teaching in the generated
// timetable. The set of sessions carries three hard invariants: no two
// sessions share (day, period, faculty), (day, period, room) or
// (day, period, section).
type ScheduledSession struct {
	ID        string    `db:"id" json:"id"`
	SectionID string    `db:"section_id" json:"section_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	FacultyID string    `db:"faculty_id" json:"faculty_id"`
	RoomID    string    `db:"room_id" json:"room_id"`
	Day       int       `db:"day" json:"day"`
	Period    int       `db:"period" json:"period"`
	IsLab     bool      `db:"is_lab" json:"is_lab"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SessionDetail joins a session with display names for the read views.
type SessionDetail struct {
	ScheduledSession
	SubjectName    string `db:"subject_name" json:"subject_name"`
	FacultyName    string `db:"faculty_name" json:"faculty_name"`
	RoomName       string `db:"room_name" json:"room_name"`
	SectionName    string `db:"section_name" json:"section_name"`
	SemesterNumber int    `db:"semester_number" json:"semester_number"`
}

// TimetableSummary describes a section that has generated sessions.
type TimetableSummary struct {
	SectionID      string `db:"section_id" json:"section_id"`
	SectionName    string `db:"section_name" json:"section_name"`
	SemesterNumber int    `db:"semester_number" json:"semester_number"`
	CourseName     string `db:"course_name" json:"course_name"`
	SessionCount   int    `db:"session_count" json:"session_count"`
}
