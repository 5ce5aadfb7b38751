// Package timetable implements the constraint-based timetable generation
// engine. A single Generate call runs one fully in-memory scheduling pass over
// a catalog snapshot: demands are expanded, priority-sorted and greedily
// placed into the weekly grid under hard conflict constraints, with a relaxed
// fallback search for otherwise unschedulable demands. All randomness is
// driven by an explicit seed so identical inputs produce identical output.
package timetable

// Settings holds the institution-wide grid parameters.
type Settings struct {
	WorkingDays   int
	PeriodsPerDay int
}

// Section is a student group to be scheduled.
type Section struct {
	ID         string
	Name       string
	SemesterID string
}

// Subject is a taught unit belonging to a semester.
type Subject struct {
	ID          string
	Name        string
	SemesterID  string
	WeeklyHours int
	LabRequired bool
}

// Faculty is a teaching staff member with a weekly hour ceiling.
type Faculty struct {
	ID              string
	Name            string
	MaxHoursPerWeek int
}

// Allocation states how many weekly hours a faculty member owes to a subject.
type Allocation struct {
	FacultyID    string
	SubjectID    string
	HoursPerWeek int
}

// Room is a teaching space; lab subjects prefer lab rooms.
type Room struct {
	ID    string
	Name  string
	IsLab bool
}

// Catalog is the read-only input snapshot for one generation pass.
type Catalog struct {
	Settings    Settings
	Sections    []Section
	Subjects    []Subject
	Faculty     []Faculty
	Allocations []Allocation
	Rooms       []Room
}

// Session is one scheduled period of teaching emitted by the pass.
type Session struct {
	SectionID string
	SubjectID string
	FacultyID string
	RoomID    string
	Day       int
	Period    int
	IsLab     bool
}
