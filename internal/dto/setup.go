package dto

// InstituteSetupRequest is the first step of the setup wizard: the grid
// parameters and the physical resources.
type InstituteSetupRequest struct {
	Name           string           `json:"name" validate:"required"`
	Course         string           `json:"course" validate:"required"`
	AcademicYear   string           `json:"academicYear" validate:"required"`
	WorkingDays    int              `json:"workingDays" validate:"required,min=1,max=7"`
	PeriodsPerDay  int              `json:"periodsPerDay" validate:"required,min=1,max=10"`
	PeriodDuration int              `json:"periodDuration" validate:"required,min=15,max=180"`
	Rooms          []RoomRequest    `json:"rooms" validate:"required,min=1,dive"`
	Faculties      []FacultyRequest `json:"faculties" validate:"required,min=1,dive"`
}

// RoomRequest declares one teaching space.
type RoomRequest struct {
	Name  string `json:"name" validate:"required"`
	IsLab bool   `json:"isLab"`
}

// FacultyRequest declares one teaching staff member.
type FacultyRequest struct {
	Name            string `json:"name" validate:"required"`
	EmployeeID      string `json:"employeeId" validate:"required"`
	MaxHoursPerWeek int    `json:"maxHoursPerWeek" validate:"required,min=1,max=112"`
	MaxHoursPerDay  int    `json:"maxHoursPerDay" validate:"omitempty,min=1,max=16"`
	MaxConsecutive  int    `json:"maxConsecutive" validate:"omitempty,min=1,max=8"`
}

// AcademicsSetupRequest is the second wizard step: semesters, their subjects
// and sections, and the faculty-subject allocations.
type AcademicsSetupRequest struct {
	Semesters []SemesterSetupRequest `json:"semesters" validate:"required,min=1,dive"`
}

// SemesterSetupRequest declares one semester with its academic structure.
type SemesterSetupRequest struct {
	Number   int                   `json:"number" validate:"required,min=1,max=12"`
	Name     string                `json:"name" validate:"required"`
	Sections []string              `json:"sections" validate:"required,min=1"`
	Subjects []SubjectSetupRequest `json:"subjects" validate:"required,min=1,dive"`
}

// SubjectSetupRequest declares one subject and who teaches it.
type SubjectSetupRequest struct {
	Name        string                   `json:"name" validate:"required"`
	Code        string                   `json:"code" validate:"required"`
	WeeklyHours int                      `json:"weeklyHours" validate:"required,min=1,max=16"`
	LabRequired bool                     `json:"labRequired"`
	Allocations []AllocationSetupRequest `json:"allocations" validate:"required,min=1,dive"`
}

// AllocationSetupRequest assigns weekly hours of a subject to a faculty
// member, referenced by employee id.
type AllocationSetupRequest struct {
	EmployeeID   string `json:"employeeId" validate:"required"`
	HoursPerWeek int    `json:"hoursPerWeek" validate:"required,min=1,max=40"`
}

// SetupStatusResponse reports how far setup has progressed.
type SetupStatusResponse struct {
	InstituteConfigured bool `json:"instituteConfigured"`
	AcademicsConfigured bool `json:"academicsConfigured"`
	SetupComplete       bool `json:"setupComplete"`
	TimetableGenerated  bool `json:"timetableGenerated"`
	SemesterCount       int  `json:"semesterCount"`
	SectionCount        int  `json:"sectionCount"`
	FacultyCount        int  `json:"facultyCount"`
	RoomCount           int  `json:"roomCount"`
	SlotCount           int  `json:"slotCount"`
}
