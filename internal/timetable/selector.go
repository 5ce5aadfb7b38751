package timetable

import "math/rand"

// placeDemand runs the two-phase slot search for one demand. The preferred
// phase walks score-ranked days and middle-out periods under the per-day
// section cap; the fallback phase scans the whole grid with the cap relaxed
// to the full day. Hard conflicts are never relaxed. Returns false when no
// admissible slot exists.
func placeDemand(state *passState, d sessionDemand, limit int, rng *rand.Rand) (slotRef, string, bool) {
	if state.facultyHours[d.Faculty.ID] >= limit {
		return slotRef{}, "", false
	}

	dayCap := maxSessionsPerDay(state.settings.PeriodsPerDay)
	periods := rankPeriods(state.settings.PeriodsPerDay)

	for _, day := range rankDays(state, d, rng) {
		if state.sectionDayLoad(d.Section.ID, day) >= dayCap {
			continue
		}
		for _, period := range periods {
			slot := slotRef{Day: day, Period: period}
			if room, ok := admissible(state, d, slot); ok {
				return slot, room, true
			}
		}
	}

	// Fallback: the per-day cap becomes the day itself, and slots are tried
	// in plain grid order.
	for day := 1; day <= state.settings.WorkingDays; day++ {
		if state.sectionDayLoad(d.Section.ID, day) >= state.settings.PeriodsPerDay {
			continue
		}
		for period := 1; period <= state.settings.PeriodsPerDay; period++ {
			slot := slotRef{Day: day, Period: period}
			if room, ok := admissible(state, d, slot); ok {
				return slot, room, true
			}
		}
	}

	return slotRef{}, "", false
}

// admissible applies every hard filter to one slot and, when all pass, picks
// the least used free eligible room.
func admissible(state *passState, d sessionDemand, slot slotRef) (string, bool) {
	if !state.sectionFree(d.Section.ID, slot) {
		return "", false
	}
	if !state.facultyFree(d.Faculty.ID, slot) {
		return "", false
	}
	window := consecutiveLimit(d.IsLab)
	if state.nearbySessions(d.Section.ID, d.Subject.ID, slot.Day, slot.Period, window) >= window {
		return "", false
	}
	return pickRoom(state, d.Rooms, slot)
}

// pickRoom returns the least used free room. Rooms arrive sorted by id, so
// ties resolve deterministically.
func pickRoom(state *passState, rooms []Room, slot slotRef) (string, bool) {
	best := ""
	bestLoad := 0
	for _, room := range rooms {
		if !state.roomFree(room.ID, slot) {
			continue
		}
		load := state.roomLoad[room.ID]
		if best == "" || load < bestLoad {
			best = room.ID
			bestLoad = load
		}
	}
	return best, best != ""
}
