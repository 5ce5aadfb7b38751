package timetable

import (
	"fmt"
	"sort"
)

// sessionDemand is one atomic one-period teaching requirement awaiting a slot
// and room assignment. Demands exist only for the duration of a pass.
type sessionDemand struct {
	Section  Section
	Subject  Subject
	Faculty  Faculty
	Rooms    []Room // eligible rooms, preferred type already resolved
	Sequence int    // 0-based index within the originating allocation
	IsLab    bool
	Bias     float64
	tieBreak float64 // seeded random value assigned at sort time
}

// demandSet is the output of demand expansion.
type demandSet struct {
	Demands []sessionDemand
	// Curtailed counts requested hours that could not become demands because
	// of faculty capacity or the periods-per-day cap. They count as skipped.
	Curtailed int
	Warnings  []string
	// Limits holds the effective weekly hour ceiling per faculty id.
	Limits map[string]int
}

// buildDemands expands every faculty-subject allocation into atomic demands,
// capped by remaining faculty capacity. Catalog iteration is sorted by entity
// id so repeated runs see identical ordering.
func buildDemands(cat Catalog) demandSet {
	grid := cat.Settings.WorkingDays * cat.Settings.PeriodsPerDay

	set := demandSet{Limits: make(map[string]int, len(cat.Faculty))}
	for _, fac := range cat.Faculty {
		set.Limits[fac.ID] = clampLimit(fac.MaxHoursPerWeek, grid)
	}

	facultyByID := make(map[string]Faculty, len(cat.Faculty))
	for _, fac := range cat.Faculty {
		facultyByID[fac.ID] = fac
	}

	subjectsBySemester := make(map[string][]Subject)
	for _, sub := range cat.Subjects {
		subjectsBySemester[sub.SemesterID] = append(subjectsBySemester[sub.SemesterID], sub)
	}
	for id := range subjectsBySemester {
		subs := subjectsBySemester[id]
		sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	}

	allocationsBySubject := make(map[string][]Allocation)
	for _, alloc := range cat.Allocations {
		allocationsBySubject[alloc.SubjectID] = append(allocationsBySubject[alloc.SubjectID], alloc)
	}
	for id := range allocationsBySubject {
		allocs := allocationsBySubject[id]
		sort.Slice(allocs, func(i, j int) bool { return allocs[i].FacultyID < allocs[j].FacultyID })
	}

	sections := make([]Section, len(cat.Sections))
	copy(sections, cat.Sections)
	sort.Slice(sections, func(i, j int) bool { return sections[i].ID < sections[j].ID })

	committed := make(map[string]int, len(cat.Faculty))

	for _, section := range sections {
		for _, subject := range subjectsBySemester[section.SemesterID] {
			allocs := allocationsBySubject[subject.ID]
			if len(allocs) == 0 {
				set.Warnings = append(set.Warnings, fmt.Sprintf("no faculty allocated for subject %s", subject.Name))
				continue
			}

			rooms := eligibleRooms(cat.Rooms, subject.LabRequired)

			for _, alloc := range allocs {
				faculty, ok := facultyByID[alloc.FacultyID]
				if !ok {
					set.Warnings = append(set.Warnings, fmt.Sprintf("allocation for subject %s references unknown faculty %s", subject.Name, alloc.FacultyID))
					continue
				}
				if alloc.HoursPerWeek <= 0 {
					set.Warnings = append(set.Warnings, fmt.Sprintf("faculty %s has %d hours for %s, skipping", faculty.Name, alloc.HoursPerWeek, subject.Name))
					continue
				}

				requested := alloc.HoursPerWeek
				needed := requested
				if needed > cat.Settings.PeriodsPerDay {
					needed = cat.Settings.PeriodsPerDay
				}

				limit := set.Limits[faculty.ID]
				remaining := limit - committed[faculty.ID]
				if remaining <= 0 {
					set.Warnings = append(set.Warnings, fmt.Sprintf("faculty %s has no remaining hours, skipping %s allocation", faculty.Name, subject.Name))
					set.Curtailed += requested
					continue
				}
				if needed > remaining {
					needed = remaining
				}
				if needed < 1 {
					needed = 1
				}
				if needed < requested {
					set.Warnings = append(set.Warnings, fmt.Sprintf("faculty %s can take only %d of %d hours for %s", faculty.Name, needed, requested, subject.Name))
					set.Curtailed += requested - needed
				}

				committed[faculty.ID] += needed
				loadFactor := float64(committed[faculty.ID]) / float64(limit)

				for seq := 0; seq < needed; seq++ {
					set.Demands = append(set.Demands, sessionDemand{
						Section:  section,
						Subject:  subject,
						Faculty:  faculty,
						Rooms:    rooms,
						Sequence: seq,
						IsLab:    subject.LabRequired,
						Bias:     demandBias(seq, subject.LabRequired, loadFactor),
					})
				}
			}
		}
	}

	return set
}

// clampLimit bounds a weekly hour ceiling to [1, gridSize].
func clampLimit(maxHours, gridSize int) int {
	if maxHours < 1 {
		maxHours = 1
	}
	if gridSize > 0 && maxHours > gridSize {
		maxHours = gridSize
	}
	return maxHours
}

// eligibleRooms returns rooms matching the required type, falling back to the
// opposite type when none exist. With a non-empty room catalog the result is
// never empty.
func eligibleRooms(rooms []Room, labRequired bool) []Room {
	matching := make([]Room, 0, len(rooms))
	opposite := make([]Room, 0, len(rooms))
	for _, room := range rooms {
		if room.IsLab == labRequired {
			matching = append(matching, room)
		} else {
			opposite = append(opposite, room)
		}
	}
	result := matching
	if len(result) == 0 {
		result = opposite
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
