package dto

import "github.com/campuskit/timetable-api/internal/models"

// TimetableCell is one grid cell of a rendered timetable view.
type TimetableCell struct {
	SubjectName string `json:"subjectName"`
	SubjectCode string `json:"subjectCode,omitempty"`
	FacultyName string `json:"facultyName"`
	RoomName    string `json:"roomName"`
	IsLab       bool   `json:"isLab"`
}

// TimetableRow is one period across all working days. Cells is keyed by day
// number; missing days are free periods.
type TimetableRow struct {
	Period int                   `json:"period"`
	Cells  map[int]TimetableCell `json:"cells"`
}

// SectionTimetableResponse is the per-section weekly view.
type SectionTimetableResponse struct {
	SectionID      string         `json:"sectionId"`
	SectionName    string         `json:"sectionName"`
	SemesterNumber int            `json:"semesterNumber"`
	WorkingDays    int            `json:"workingDays"`
	PeriodsPerDay  int            `json:"periodsPerDay"`
	Rows           []TimetableRow `json:"rows"`
	SessionCount   int            `json:"sessionCount"`
}

// FacultyTimetableResponse is the per-faculty weekly view. Cells carry the
// section name in place of the faculty name.
type FacultyTimetableResponse struct {
	FacultyID     string         `json:"facultyId"`
	FacultyName   string         `json:"facultyName"`
	WorkingDays   int            `json:"workingDays"`
	PeriodsPerDay int            `json:"periodsPerDay"`
	Rows          []TimetableRow `json:"rows"`
	HoursAssigned int            `json:"hoursAssigned"`
	MaxHours      int            `json:"maxHours"`
}

// MasterTimetableResponse lists every section's weekly view in one payload.
type MasterTimetableResponse struct {
	WorkingDays   int                        `json:"workingDays"`
	PeriodsPerDay int                        `json:"periodsPerDay"`
	Sections      []SectionTimetableResponse `json:"sections"`
}

// TimetableIndexResponse lists sections that have generated timetables,
// for navigation.
type TimetableIndexResponse struct {
	Generated bool                      `json:"generated"`
	Sections  []models.TimetableSummary `json:"sections"`
}

// SectionNavigationResponse gives the previous and next section relative to
// the one being viewed, in semester-then-name order.
type SectionNavigationResponse struct {
	CurrentID  string  `json:"currentId"`
	PreviousID *string `json:"previousId,omitempty"`
	NextID     *string `json:"nextId,omitempty"`
}

// ContinuousBlock flags a run of back-to-back periods for one faculty member
// on one day.
type ContinuousBlock struct {
	Day      int    `json:"day"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Length   int    `json:"length"`
	Severity string `json:"severity"`
}

// FacultyLoadValidationResponse reports continuous teaching blocks detected
// in a faculty member's schedule.
type FacultyLoadValidationResponse struct {
	FacultyID   string            `json:"facultyId"`
	FacultyName string            `json:"facultyName"`
	Blocks      []ContinuousBlock `json:"blocks"`
	HasWarnings bool              `json:"hasWarnings"`
}
