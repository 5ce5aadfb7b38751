package timetable

// slotRef identifies one period of the weekly grid.
type slotRef struct {
	Day    int
	Period int
}

// passState tracks every occupancy fact the hard filters and the score
// functions need while a generation pass runs. All maps are keyed by entity
// ID so lookups stay allocation-free on the hot path.
type passState struct {
	settings Settings

	facultyBusy map[string]map[slotRef]struct{}
	roomBusy    map[string]map[slotRef]struct{}
	sectionBusy map[string]map[slotRef]struct{}

	// facultyHours counts committed periods per faculty for the weekly cap.
	facultyHours map[string]int

	// sectionDays counts sessions per section per day for the daily cap and
	// the day spread score.
	sectionDays map[string]map[int]int

	// subjectDays counts sessions per section+subject per day, feeding the
	// clustering penalty.
	subjectDays map[string]map[int]int

	// subjectPeriods records which periods a section+subject occupies per
	// day, for the consecutive-block check.
	subjectPeriods map[string]map[int]map[int]struct{}

	// dayTotal counts all sessions on a day across sections.
	dayTotal map[int]int

	// roomLoad counts sessions per room so the selector can prefer the
	// least used eligible room.
	roomLoad map[string]int

	sessions []Session
}

func newPassState(settings Settings) *passState {
	return &passState{
		settings:       settings,
		facultyBusy:    make(map[string]map[slotRef]struct{}),
		roomBusy:       make(map[string]map[slotRef]struct{}),
		sectionBusy:    make(map[string]map[slotRef]struct{}),
		facultyHours:   make(map[string]int),
		sectionDays:    make(map[string]map[int]int),
		subjectDays:    make(map[string]map[int]int),
		subjectPeriods: make(map[string]map[int]map[int]struct{}),
		dayTotal:       make(map[int]int),
		roomLoad:       make(map[string]int),
	}
}

func subjectDayKey(sectionID, subjectID string) string {
	return sectionID + "\x00" + subjectID
}

func (s *passState) facultyFree(facultyID string, slot slotRef) bool {
	_, busy := s.facultyBusy[facultyID][slot]
	return !busy
}

func (s *passState) roomFree(roomID string, slot slotRef) bool {
	_, busy := s.roomBusy[roomID][slot]
	return !busy
}

func (s *passState) sectionFree(sectionID string, slot slotRef) bool {
	_, busy := s.sectionBusy[sectionID][slot]
	return !busy
}

func (s *passState) sectionLoad(sectionID string) int {
	return len(s.sectionBusy[sectionID])
}

func (s *passState) sectionDayLoad(sectionID string, day int) int {
	return s.sectionDays[sectionID][day]
}

func (s *passState) subjectDayLoad(sectionID, subjectID string, day int) int {
	return s.subjectDays[subjectDayKey(sectionID, subjectID)][day]
}

// nearbySessions counts the same section+subject periods already committed
// within ±window of period on day, the candidate period excluded. Sessions
// need not be adjacent to count.
func (s *passState) nearbySessions(sectionID, subjectID string, day, period, window int) int {
	occupied := s.subjectPeriods[subjectDayKey(sectionID, subjectID)][day]
	count := 0
	for p := period - window; p <= period+window; p++ {
		if p == period {
			continue
		}
		if _, ok := occupied[p]; ok {
			count++
		}
	}
	return count
}

// commit books a demand into a slot and updates every counter the scores
// and filters read.
func (s *passState) commit(d sessionDemand, roomID string, slot slotRef) {
	markBusy(s.facultyBusy, d.Faculty.ID, slot)
	markBusy(s.roomBusy, roomID, slot)
	markBusy(s.sectionBusy, d.Section.ID, slot)

	s.facultyHours[d.Faculty.ID]++
	s.roomLoad[roomID]++
	s.dayTotal[slot.Day]++

	incDay(s.sectionDays, d.Section.ID, slot.Day)

	key := subjectDayKey(d.Section.ID, d.Subject.ID)
	incDay(s.subjectDays, key, slot.Day)
	periods := s.subjectPeriods[key]
	if periods == nil {
		periods = make(map[int]map[int]struct{})
		s.subjectPeriods[key] = periods
	}
	if periods[slot.Day] == nil {
		periods[slot.Day] = make(map[int]struct{})
	}
	periods[slot.Day][slot.Period] = struct{}{}

	s.sessions = append(s.sessions, Session{
		SectionID: d.Section.ID,
		SubjectID: d.Subject.ID,
		FacultyID: d.Faculty.ID,
		RoomID:    roomID,
		Day:       slot.Day,
		Period:    slot.Period,
		IsLab:     d.IsLab,
	})
}

func markBusy(m map[string]map[slotRef]struct{}, id string, slot slotRef) {
	set := m[id]
	if set == nil {
		set = make(map[slotRef]struct{})
		m[id] = set
	}
	set[slot] = struct{}{}
}

func incDay(m map[string]map[int]int, key string, day int) {
	days := m[key]
	if days == nil {
		days = make(map[int]int)
		m[key] = days
	}
	days[day]++
}
