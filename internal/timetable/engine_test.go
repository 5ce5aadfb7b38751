package timetable

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/campuskit/timetable-api/pkg/errors"
)

func newTestEngine(seed int64) *Engine {
	return NewEngine(Config{Seed: seed, LowSuccessThreshold: 70}, zap.NewNop())
}

func basicCatalog() Catalog {
	return Catalog{
		Settings: Settings{WorkingDays: 5, PeriodsPerDay: 6},
		Sections: []Section{{ID: "sec-a", Name: "CSE-A", SemesterID: "sem-1"}},
		Subjects: []Subject{
			{ID: "sub-math", Name: "Mathematics", SemesterID: "sem-1", WeeklyHours: 3},
		},
		Faculty: []Faculty{{ID: "fac-1", Name: "Dr. Rao", MaxHoursPerWeek: 18}},
		Allocations: []Allocation{
			{FacultyID: "fac-1", SubjectID: "sub-math", HoursPerWeek: 3},
		},
		Rooms: []Room{
			{ID: "room-1", Name: "R101", IsLab: false},
			{ID: "room-2", Name: "Lab-1", IsLab: true},
		},
	}
}

func TestGenerateSingleSectionSingleSubject(t *testing.T) {
	result, err := newTestEngine(1).Generate(context.Background(), basicCatalog())
	require.NoError(t, err)

	assert.Len(t, result.Sessions, 3)
	assert.Equal(t, 3, result.Stats.ScheduledCount)
	assert.Equal(t, 0, result.Stats.SkippedCount)
	assert.Equal(t, 100.0, result.Stats.SuccessRate)

	slots := make(map[[2]int]struct{})
	for _, s := range result.Sessions {
		slots[[2]int{s.Day, s.Period}] = struct{}{}
		assert.Equal(t, "fac-1", s.FacultyID)
	}
	assert.Len(t, slots, 3)

	require.Len(t, result.Stats.FacultyUtilization, 1)
	assert.Equal(t, 3, result.Stats.FacultyUtilization[0].HoursUsed)
}

func TestGenerateFacultyHourCeilingCurtailsDemand(t *testing.T) {
	cat := basicCatalog()
	cat.Faculty[0].MaxHoursPerWeek = 2

	result, err := newTestEngine(1).Generate(context.Background(), cat)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Stats.ScheduledCount)
	assert.Equal(t, 1, result.Stats.SkippedCount)
	assert.Len(t, result.Sessions, 2)
	assert.NotEmpty(t, result.Stats.Warnings)
}

func TestGenerateSharedFacultyAcrossSections(t *testing.T) {
	cat := basicCatalog()
	cat.Sections = append(cat.Sections, Section{ID: "sec-b", Name: "CSE-B", SemesterID: "sem-1"})
	cat.Faculty[0].MaxHoursPerWeek = 4

	result, err := newTestEngine(1).Generate(context.Background(), cat)
	require.NoError(t, err)

	assert.LessOrEqual(t, result.Stats.ScheduledCount, 4)
	perSection := make(map[string]int)
	for _, s := range result.Sessions {
		perSection[s.SectionID]++
	}
	assert.Positive(t, perSection["sec-a"])
	assert.Positive(t, perSection["sec-b"])
	assert.Empty(t, result.Stats.SectionsWithoutSessions)
	assert.NotEmpty(t, result.Stats.FacultyAtCapacity)
}

func TestGenerateLabFallsBackToTheoryRoom(t *testing.T) {
	cat := Catalog{
		Settings: Settings{WorkingDays: 5, PeriodsPerDay: 6},
		Sections: []Section{{ID: "sec-a", Name: "CSE-A", SemesterID: "sem-1"}},
		Subjects: []Subject{
			{ID: "sub-lab", Name: "Physics Lab", SemesterID: "sem-1", WeeklyHours: 2, LabRequired: true},
		},
		Faculty: []Faculty{{ID: "fac-1", Name: "Dr. Rao", MaxHoursPerWeek: 18}},
		Allocations: []Allocation{
			{FacultyID: "fac-1", SubjectID: "sub-lab", HoursPerWeek: 2},
		},
		Rooms: []Room{{ID: "room-1", Name: "R101", IsLab: false}},
	}

	result, err := newTestEngine(1).Generate(context.Background(), cat)
	require.NoError(t, err)

	require.Len(t, result.Sessions, 2)
	for _, s := range result.Sessions {
		assert.Equal(t, "room-1", s.RoomID)
		assert.True(t, s.IsLab)
	}
}

func TestGenerateFailsWithoutRooms(t *testing.T) {
	cat := basicCatalog()
	cat.Rooms = nil

	_, err := newTestEngine(1).Generate(context.Background(), cat)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSetupIncomplete.Code, appErrors.FromError(err).Code)
}

func TestGenerateFailsWithoutSections(t *testing.T) {
	cat := basicCatalog()
	cat.Sections = nil

	_, err := newTestEngine(1).Generate(context.Background(), cat)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSetupIncomplete.Code, appErrors.FromError(err).Code)
}

func TestGenerateFailsWithInvalidGrid(t *testing.T) {
	cat := basicCatalog()
	cat.Settings.WorkingDays = 0

	_, err := newTestEngine(1).Generate(context.Background(), cat)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func denseCatalog() Catalog {
	cat := Catalog{
		Settings: Settings{WorkingDays: 5, PeriodsPerDay: 7},
		Rooms: []Room{
			{ID: "room-1", Name: "R101"},
			{ID: "room-2", Name: "R102"},
			{ID: "room-3", Name: "Lab-1", IsLab: true},
		},
	}
	for i := 1; i <= 3; i++ {
		cat.Sections = append(cat.Sections, Section{
			ID:         fmt.Sprintf("sec-%d", i),
			Name:       fmt.Sprintf("CSE-%d", i),
			SemesterID: "sem-1",
		})
	}
	for i := 1; i <= 4; i++ {
		id := fmt.Sprintf("sub-%d", i)
		cat.Subjects = append(cat.Subjects, Subject{
			ID:          id,
			Name:        fmt.Sprintf("Subject %d", i),
			SemesterID:  "sem-1",
			WeeklyHours: 4,
			LabRequired: i == 4,
		})
		cat.Faculty = append(cat.Faculty, Faculty{
			ID:              fmt.Sprintf("fac-%d", i),
			Name:            fmt.Sprintf("Faculty %d", i),
			MaxHoursPerWeek: 14,
		})
		cat.Allocations = append(cat.Allocations, Allocation{
			FacultyID:    fmt.Sprintf("fac-%d", i),
			SubjectID:    id,
			HoursPerWeek: 4,
		})
	}
	return cat
}

func TestGenerateHardInvariants(t *testing.T) {
	result, err := newTestEngine(42).Generate(context.Background(), denseCatalog())
	require.NoError(t, err)
	require.NotEmpty(t, result.Sessions)

	type booking struct {
		day, period int
		id          string
	}
	facultySlots := make(map[booking]struct{})
	roomSlots := make(map[booking]struct{})
	sectionSlots := make(map[booking]struct{})
	facultyHours := make(map[string]int)

	for _, s := range result.Sessions {
		fb := booking{s.Day, s.Period, s.FacultyID}
		_, dup := facultySlots[fb]
		assert.False(t, dup, "faculty double-booked at day %d period %d", s.Day, s.Period)
		facultySlots[fb] = struct{}{}

		rb := booking{s.Day, s.Period, s.RoomID}
		_, dup = roomSlots[rb]
		assert.False(t, dup, "room double-booked at day %d period %d", s.Day, s.Period)
		roomSlots[rb] = struct{}{}

		sb := booking{s.Day, s.Period, s.SectionID}
		_, dup = sectionSlots[sb]
		assert.False(t, dup, "section double-booked at day %d period %d", s.Day, s.Period)
		sectionSlots[sb] = struct{}{}

		facultyHours[s.FacultyID]++
	}

	for id, hours := range facultyHours {
		assert.LessOrEqual(t, hours, 14, "faculty %s over weekly ceiling", id)
	}
}

func TestGenerateConsecutiveLimits(t *testing.T) {
	result, err := newTestEngine(7).Generate(context.Background(), denseCatalog())
	require.NoError(t, err)

	// periods per section+subject+day
	occupied := make(map[string]map[int]bool)
	isLab := make(map[string]bool)
	for _, s := range result.Sessions {
		key := fmt.Sprintf("%s/%s/%d", s.SectionID, s.SubjectID, s.Day)
		if occupied[key] == nil {
			occupied[key] = make(map[int]bool)
		}
		occupied[key][s.Period] = true
		isLab[key] = s.IsLab
	}

	for key, periods := range occupied {
		limit := theoryConsecutiveLimit
		if isLab[key] {
			limit = labConsecutiveLimit
		}
		run := 0
		for p := 1; p <= 7; p++ {
			if periods[p] {
				run++
				assert.LessOrEqual(t, run, limit, "consecutive run too long for %s", key)
			} else {
				run = 0
			}
		}
	}
}

func TestAdmissibleCountsNonAdjacentSessionsInWindow(t *testing.T) {
	settings := Settings{WorkingDays: 5, PeriodsPerDay: 7}
	state := newPassState(settings)
	d := sessionDemand{
		Section: Section{ID: "sec-a"},
		Subject: Subject{ID: "sub-math"},
		Faculty: Faculty{ID: "fac-1", MaxHoursPerWeek: 18},
		Rooms:   []Room{{ID: "room-1"}},
	}

	state.commit(d, "room-1", slotRef{Day: 1, Period: 1})
	state.commit(d, "room-1", slotRef{Day: 1, Period: 4})

	// Two theory sessions already sit within two periods of period 2 even
	// though they are not adjacent to it, so the slot must be rejected.
	_, ok := admissible(state, d, slotRef{Day: 1, Period: 2})
	assert.False(t, ok)

	// Period 6 only sees the session at period 4, so it stays admissible.
	_, ok = admissible(state, d, slotRef{Day: 1, Period: 6})
	assert.True(t, ok)
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	first, err := newTestEngine(99).Generate(context.Background(), denseCatalog())
	require.NoError(t, err)
	second, err := newTestEngine(99).Generate(context.Background(), denseCatalog())
	require.NoError(t, err)

	assert.Equal(t, first.Sessions, second.Sessions)
	assert.Equal(t, first.Stats, second.Stats)
}

func TestGenerateDemandSortIsStable(t *testing.T) {
	cat := denseCatalog()
	set := buildDemands(cat)
	require.NotEmpty(t, set.Demands)

	again := buildDemands(cat)
	require.Equal(t, len(set.Demands), len(again.Demands))
	for i := range set.Demands {
		assert.Equal(t, set.Demands[i].Subject.ID, again.Demands[i].Subject.ID)
		assert.Equal(t, set.Demands[i].Section.ID, again.Demands[i].Section.ID)
		assert.Equal(t, set.Demands[i].Sequence, again.Demands[i].Sequence)
	}
}
