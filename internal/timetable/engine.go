package timetable

import (
	"context"
	"math/rand"

	"go.uber.org/zap"

	appErrors "github.com/campuskit/timetable-api/pkg/errors"
)

// Config tunes one engine instance. Seed drives every random choice of a
// pass; two Generate calls over the same catalog with the same seed produce
// identical sessions and stats.
type Config struct {
	Seed                int64
	LowSuccessThreshold float64
}

// Engine runs generation passes. It is stateless between calls and safe for
// concurrent use.
type Engine struct {
	cfg    Config
	logger *zap.Logger
}

// NewEngine creates an engine with the given configuration.
func NewEngine(cfg Config, logger *zap.Logger) *Engine {
	if cfg.LowSuccessThreshold <= 0 {
		cfg.LowSuccessThreshold = 70
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Result is the complete output of one generation pass.
type Result struct {
	Sessions []Session `json:"sessions"`
	Stats    Stats     `json:"stats"`
}

// Generate runs one full scheduling pass over the catalog snapshot. The
// context is checked between demands so a cancelled request does not burn a
// long pass to completion.
func (e *Engine) Generate(ctx context.Context, cat Catalog) (*Result, error) {
	if cat.Settings.WorkingDays < 1 || cat.Settings.PeriodsPerDay < 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "working days and periods per day must be positive")
	}
	if len(cat.Sections) == 0 {
		return nil, appErrors.Clone(appErrors.ErrSetupIncomplete, "no sections configured")
	}
	if len(cat.Rooms) == 0 {
		return nil, appErrors.Clone(appErrors.ErrSetupIncomplete, "no rooms configured")
	}

	rng := rand.New(rand.NewSource(e.cfg.Seed))

	set := buildDemands(cat)
	e.logger.Info("demand expansion complete",
		zap.Int("demands", len(set.Demands)),
		zap.Int("curtailed_hours", set.Curtailed),
		zap.Int("warnings", len(set.Warnings)))

	state := newPassState(cat.Settings)
	sortDemands(set.Demands, state, set.Limits, rng)

	skipped := set.Curtailed
	warnings := set.Warnings
	for _, d := range set.Demands {
		if err := ctx.Err(); err != nil {
			return nil, appErrors.Wrap(err, "GENERATION_CANCELLED", 499, "generation cancelled")
		}

		slot, roomID, ok := placeDemand(state, d, set.Limits[d.Faculty.ID], rng)
		if !ok {
			skipped++
			warnings = append(warnings, unplacedWarning(d))
			continue
		}
		state.commit(d, roomID, slot)
	}

	if len(state.sessions) == 0 {
		return nil, appErrors.ErrEmptySchedule
	}

	stats := buildStats(cat, state, set.Limits, skipped, warnings, e.cfg.LowSuccessThreshold)
	e.logger.Info("generation pass complete",
		zap.Int("scheduled", stats.ScheduledCount),
		zap.Int("skipped", stats.SkippedCount),
		zap.Float64("success_rate", stats.SuccessRate),
		zap.Bool("low_success_rate", stats.LowSuccessRate))
	if stats.LowSuccessRate {
		e.logger.Warn("low success rate, consider raising faculty hour limits or reducing weekly hours",
			zap.Float64("success_rate", stats.SuccessRate))
	}

	return &Result{Sessions: state.sessions, Stats: stats}, nil
}

func unplacedWarning(d sessionDemand) string {
	return "could not place " + d.Subject.Name + " for section " + d.Section.Name +
		" with " + d.Faculty.Name + ": no admissible slot"
}
