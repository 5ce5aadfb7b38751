package models

import "time"

// Course represents a degree programme, e.g. MCA or B.Tech CSE.
type Course struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Code      string    `db:"code" json:"code"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Semester is one numbered term of a course.
type Semester struct {
	ID        string    `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Name      string    `db:"name" json:"name"`
	Number    int       `db:"number" json:"number"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Section is a student group within a semester, e.g. "A".
type Section struct {
	ID         string    `db:"id" json:"id"`
	SemesterID string    `db:"semester_id" json:"semester_id"`
	Name       string    `db:"name" json:"name"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// SectionDetail joins a section with its semester and course for list views.
type SectionDetail struct {
	Section
	SemesterNumber int    `db:"semester_number" json:"semester_number"`
	CourseName     string `db:"course_name" json:"course_name"`
}

// Subject is a taught unit belonging to a semester.
type Subject struct {
	ID          string    `db:"id" json:"id"`
	SemesterID  string    `db:"semester_id" json:"semester_id"`
	Name        string    `db:"name" json:"name"`
	Code        string    `db:"code" json:"code"`
	WeeklyHours int       `db:"weekly_hours" json:"weekly_hours"`
	LabRequired bool      `db:"lab_required" json:"lab_required"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
