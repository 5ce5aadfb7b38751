package timetable

import (
	"fmt"
	"sort"
)

// FacultyUtilization reports how much of a faculty member's weekly ceiling a
// pass consumed.
type FacultyUtilization struct {
	FacultyID  string   `json:"faculty_id"`
	Name       string   `json:"name"`
	HoursUsed  int      `json:"hours_used"`
	HoursLimit int      `json:"hours_limit"`
	Percentage float64  `json:"percentage"`
	Subjects   []string `json:"subjects"`
}

// Stats summarises one generation pass.
type Stats struct {
	ScheduledCount          int                  `json:"scheduled_count"`
	SkippedCount            int                  `json:"skipped_count"`
	SuccessRate             float64              `json:"success_rate"`
	SlotUtilization         float64              `json:"slot_utilization"`
	FacultyUtilization      []FacultyUtilization `json:"faculty_utilization"`
	DayUtilization          map[int]float64      `json:"day_utilization"`
	SectionsWithoutSessions []string             `json:"sections_without_sessions"`
	UnderutilizedFaculty    []string             `json:"underutilized_faculty"`
	FacultyAtCapacity       []string             `json:"faculty_at_capacity"`
	LowSuccessRate          bool                 `json:"low_success_rate"`
	Warnings                []string             `json:"warnings,omitempty"`
}

// buildStats derives the pass summary from the final state. skipped already
// includes demand hours curtailed before placement.
func buildStats(cat Catalog, state *passState, limits map[string]int, skipped int, warnings []string, lowThreshold float64) Stats {
	scheduled := len(state.sessions)

	stats := Stats{
		ScheduledCount: scheduled,
		SkippedCount:   skipped,
		DayUtilization: make(map[int]float64, cat.Settings.WorkingDays),
		Warnings:       warnings,
	}

	if total := scheduled + skipped; total > 0 {
		stats.SuccessRate = float64(scheduled) / float64(total) * 100
	}
	stats.LowSuccessRate = stats.SuccessRate < lowThreshold

	gridSlots := cat.Settings.WorkingDays * cat.Settings.PeriodsPerDay * len(cat.Sections)
	if gridSlots > 0 {
		stats.SlotUtilization = float64(scheduled) / float64(gridSlots) * 100
	}

	daySlots := cat.Settings.PeriodsPerDay * len(cat.Sections)
	for day := 1; day <= cat.Settings.WorkingDays; day++ {
		if daySlots > 0 {
			stats.DayUtilization[day] = float64(state.dayTotal[day]) / float64(daySlots) * 100
		} else {
			stats.DayUtilization[day] = 0
		}
	}

	stats.FacultyUtilization = facultyUtilization(cat, state, limits)
	for _, fu := range stats.FacultyUtilization {
		if fu.HoursUsed > 0 && fu.Percentage < 50 {
			stats.UnderutilizedFaculty = append(stats.UnderutilizedFaculty,
				fmt.Sprintf("%s (%.1f%%)", fu.Name, fu.Percentage))
		} else if fu.HoursUsed >= fu.HoursLimit {
			stats.FacultyAtCapacity = append(stats.FacultyAtCapacity,
				fmt.Sprintf("%s (%d/%d)", fu.Name, fu.HoursUsed, fu.HoursLimit))
		}
	}

	for _, section := range cat.Sections {
		if state.sectionLoad(section.ID) == 0 {
			stats.SectionsWithoutSessions = append(stats.SectionsWithoutSessions, section.Name)
		}
	}
	sort.Strings(stats.SectionsWithoutSessions)

	return stats
}

func facultyUtilization(cat Catalog, state *passState, limits map[string]int) []FacultyUtilization {
	subjectNames := make(map[string]string, len(cat.Subjects))
	for _, sub := range cat.Subjects {
		subjectNames[sub.ID] = sub.Name
	}

	taught := make(map[string][]string)
	seen := make(map[string]struct{})
	for _, session := range state.sessions {
		key := session.FacultyID + "\x00" + session.SubjectID
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		taught[session.FacultyID] = append(taught[session.FacultyID], subjectNames[session.SubjectID])
	}

	result := make([]FacultyUtilization, 0, len(cat.Faculty))
	for _, fac := range cat.Faculty {
		used := state.facultyHours[fac.ID]
		if used == 0 {
			continue
		}
		limit := limits[fac.ID]
		fu := FacultyUtilization{
			FacultyID:  fac.ID,
			Name:       fac.Name,
			HoursUsed:  used,
			HoursLimit: limit,
			Subjects:   taught[fac.ID],
		}
		if limit > 0 {
			fu.Percentage = float64(used) / float64(limit) * 100
		}
		sort.Strings(fu.Subjects)
		result = append(result, fu)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FacultyID < result[j].FacultyID })
	return result
}
