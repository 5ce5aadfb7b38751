package timetable

import (
	"math/rand"
	"sort"
)

// Scoring weights for the scheduling heuristics. Demands with lower values
// sort earlier; slots with lower day scores are tried first.
const (
	// theoryBias pushes theory demands behind lab demands in the queue.
	theoryBias = 5.0
	// loadFactorBias penalises demands of already loaded faculty.
	loadFactorBias = 2.0

	// subjectClusterWeight discourages placing the same section+subject
	// twice on one day.
	subjectClusterWeight = 10.0
	// sectionDayWeight spreads one section's sessions across the week.
	sectionDayWeight = 3.0
	// totalDayWeight balances overall load between days.
	totalDayWeight = 1.0
	// dayJitterMax is the upper bound of the random day-score jitter.
	dayJitterMax = 0.3

	// labConsecutiveLimit and theoryConsecutiveLimit bound back-to-back
	// periods of the same section+subject on one day.
	labConsecutiveLimit    = 3
	theoryConsecutiveLimit = 2
)

// demandBias combines the repeat index, the lab/theory preference and the
// faculty load factor into the static priority component of a demand.
func demandBias(sequence int, isLab bool, loadFactor float64) float64 {
	bias := float64(sequence) + loadFactorBias*loadFactor
	if !isLab {
		bias += theoryBias
	}
	return bias
}

// sortDemands orders the demand queue: faculty with spare capacity first,
// then less-loaded sections, then the static bias, with a seeded random
// tie-break. Sorting happens once; slot scoring re-reads live state later.
func sortDemands(demands []sessionDemand, state *passState, limits map[string]int, rng *rand.Rand) {
	for i := range demands {
		demands[i].tieBreak = rng.Float64()
	}
	sort.SliceStable(demands, func(i, j int) bool {
		a, b := demands[i], demands[j]

		aRatio := loadRatio(state.facultyHours[a.Faculty.ID], limits[a.Faculty.ID])
		bRatio := loadRatio(state.facultyHours[b.Faculty.ID], limits[b.Faculty.ID])
		if aRatio != bRatio {
			return aRatio < bRatio
		}

		aLoad := state.sectionLoad(a.Section.ID)
		bLoad := state.sectionLoad(b.Section.ID)
		if aLoad != bLoad {
			return aLoad < bLoad
		}

		if a.Bias != b.Bias {
			return a.Bias < b.Bias
		}
		return a.tieBreak < b.tieBreak
	})
}

func loadRatio(used, limit int) float64 {
	if limit <= 0 {
		return 1
	}
	return float64(used) / float64(limit)
}

// rankDays scores every working day for a demand and returns the days ordered
// from most to least attractive. Lower scores mean more room to grow.
func rankDays(state *passState, d sessionDemand, rng *rand.Rand) []int {
	type dayScore struct {
		day   int
		score float64
	}
	scores := make([]dayScore, 0, state.settings.WorkingDays)
	for day := 1; day <= state.settings.WorkingDays; day++ {
		score := subjectClusterWeight*float64(state.subjectDayLoad(d.Section.ID, d.Subject.ID, day)) +
			sectionDayWeight*float64(state.sectionDayLoad(d.Section.ID, day)) +
			totalDayWeight*float64(state.dayTotal[day]) +
			rng.Float64()*dayJitterMax
		scores = append(scores, dayScore{day: day, score: score})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score < scores[j].score })

	days := make([]int, len(scores))
	for i, s := range scores {
		days[i] = s.day
	}
	return days
}

// rankPeriods orders periods of a day by distance to the middle period.
// Middle periods keep neighbours free on both sides and so stay flexible.
func rankPeriods(periodsPerDay int) []int {
	periods := make([]int, periodsPerDay)
	for i := range periods {
		periods[i] = i + 1
	}
	mid := periodsPerDay / 2
	sort.SliceStable(periods, func(i, j int) bool {
		return abs(periods[i]-mid) < abs(periods[j]-mid)
	})
	return periods
}

// consecutiveLimit is lab-aware: labs may run in longer blocks.
func consecutiveLimit(isLab bool) int {
	if isLab {
		return labConsecutiveLimit
	}
	return theoryConsecutiveLimit
}

// maxSessionsPerDay caps how many periods one section may fill in a day
// during the preferred search.
func maxSessionsPerDay(periodsPerDay int) int {
	limit := periodsPerDay/2 + 1
	if limit > 4 {
		limit = 4
	}
	return limit
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
