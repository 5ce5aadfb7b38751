package models

import "time"

// Room is a physical teaching space, flagged when it is a laboratory.
type Room struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	IsLab     bool      `db:"is_lab" json:"is_lab"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TimeSlot is one (day, period) coordinate in the weekly grid. Day is 1-based
// Monday..Sunday, period is 1-based within the day.
type TimeSlot struct {
	ID     string `db:"id" json:"id"`
	Day    int    `db:"day" json:"day"`
	Period int    `db:"period" json:"period"`
}

// InstitutionSettings holds the institution-wide scheduling parameters.
type InstitutionSettings struct {
	ID              string    `db:"id" json:"id"`
	InstitutionName string    `db:"institution_name" json:"institution_name"`
	Course          string    `db:"course" json:"course"`
	AcademicYear    string    `db:"academic_year" json:"academic_year"`
	WorkingDays     int       `db:"working_days" json:"working_days"`
	PeriodsPerDay   int       `db:"periods_per_day" json:"periods_per_day"`
	PeriodDuration  int       `db:"period_duration" json:"period_duration"`
	SetupComplete   bool      `db:"setup_complete" json:"setup_complete"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
