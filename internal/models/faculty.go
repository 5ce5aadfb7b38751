package models

import "time"

// Faculty represents a teaching staff member with weekly hour constraints.
type Faculty struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	EmployeeID      string    `db:"employee_id" json:"employee_id"`
	MaxHoursPerWeek int       `db:"max_hours_per_week" json:"max_hours_per_week"`
	MaxHoursPerDay  int       `db:"max_hours_per_day" json:"max_hours_per_day"`
	MaxConsecutive  int       `db:"max_consecutive" json:"max_consecutive"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// FacultySubjectAllocation states how many weekly hours a faculty member owes
// to a subject. The sum of allocations for a subject is validated against the
// subject's weekly hours when the allocation is written, not at generation time.
type FacultySubjectAllocation struct {
	ID           string    `db:"id" json:"id"`
	FacultyID    string    `db:"faculty_id" json:"faculty_id"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	HoursPerWeek int       `db:"hours_per_week" json:"hours_per_week"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// FacultySummary lists a faculty member together with the number of sessions
// currently assigned in the generated timetable.
type FacultySummary struct {
	ID               string `db:"id" json:"id"`
	Name             string `db:"name" json:"name"`
	EmployeeID       string `db:"employee_id" json:"employee_id"`
	MaxHoursPerWeek  int    `db:"max_hours_per_week" json:"max_hours_per_week"`
	AssignedSessions int    `db:"assigned_sessions" json:"assigned_sessions"`
}
