package dto

import "github.com/campuskit/timetable-api/internal/timetable"

// GenerateTimetableRequest triggers a generation pass. Seed overrides the
// configured default so callers can reproduce a previous run exactly.
type GenerateTimetableRequest struct {
	Seed *int64 `json:"seed" validate:"omitempty"`
}

// GenerateTimetableResponse returns the stored session count and the pass
// statistics.
type GenerateTimetableResponse struct {
	Message      string          `json:"message"`
	SessionCount int             `json:"sessionCount"`
	Seed         int64           `json:"seed"`
	Stats        timetable.Stats `json:"stats"`
}
