// Package score converts one player's raw per-match stat line into an XP
// award. Category inputs are clamped to anti-abuse ceilings before
// weighting, and the total is floored at zero and capped at a per-match
// ceiling, so pathological inputs degrade to a safe figure instead of
// failing.
package score

import (
	"fmt"
	"sort"

	"futeba-engine/internal/constants"
	"futeba-engine/internal/domain"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// StreakTier maps a minimum streak length to a flat bonus. Tiers are
// evaluated highest-first; bonuses must be non-decreasing in MinStreak.
type StreakTier struct {
	MinStreak int
	Bonus     int64
}

// Weights holds the per-unit XP values for each scoring category.
type Weights struct {
	Participation      int64
	PerGoal            int64
	PerAssist          int64
	PerSave            int64
	Win                int64
	Draw               int64
	MVP                int64
	WorstPlayerPenalty int64
	StreakTiers        []StreakTier
	MaxTotal           int64
}

// DefaultWeights returns the standard scoring table.
func DefaultWeights() Weights {
	return Weights{
		Participation:      constants.XpParticipation,
		PerGoal:            constants.XpPerGoal,
		PerAssist:          constants.XpPerAssist,
		PerSave:            constants.XpPerSave,
		Win:                constants.XpWin,
		Draw:               constants.XpDraw,
		MVP:                constants.XpMVP,
		WorstPlayerPenalty: constants.XpWorstPlayerPenalty,
		StreakTiers: []StreakTier{
			{MinStreak: 3, Bonus: 20},
			{MinStreak: 5, Bonus: 35},
			{MinStreak: 7, Bonus: 50},
			{MinStreak: 10, Bonus: 100},
		},
		MaxTotal: constants.MaxXpPerGame,
	}
}

// Calculator computes XP breakdowns. Pure: no state beyond the weights.
type Calculator struct {
	weights Weights
	logger  zerolog.Logger
}

func NewCalculator(logger zerolog.Logger) *Calculator {
	return &Calculator{
		weights: DefaultWeights(),
		logger:  logger,
	}
}

// NewCalculatorWithWeights builds a calculator with a custom scoring table.
// A zero MaxTotal falls back to the default ceiling; an invalid table is
// rejected whole.
func NewCalculatorWithWeights(weights Weights, logger zerolog.Logger) (*Calculator, error) {
	if weights.MaxTotal == 0 {
		weights.MaxTotal = constants.MaxXpPerGame
	}
	if err := weights.validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring weights: %w", err)
	}
	return &Calculator{weights: weights, logger: logger}, nil
}

func (w Weights) validate() error {
	if w.MaxTotal < 0 {
		return fmt.Errorf("max total must be positive, got %d", w.MaxTotal)
	}

	sorted := make([]StreakTier, len(w.StreakTiers))
	copy(sorted, w.StreakTiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinStreak < sorted[j].MinStreak })

	for i, tier := range sorted {
		if tier.MinStreak < 1 {
			return fmt.Errorf("streak tier threshold must be >= 1, got %d", tier.MinStreak)
		}
		if i == 0 {
			continue
		}
		if tier.MinStreak == sorted[i-1].MinStreak {
			return fmt.Errorf("duplicate streak tier threshold %d", tier.MinStreak)
		}
		if tier.Bonus < sorted[i-1].Bonus {
			return fmt.Errorf("streak bonus must be non-decreasing, tier %d pays %d after %d",
				tier.MinStreak, tier.Bonus, sorted[i-1].Bonus)
		}
	}
	return nil
}

// Calculate scores one match performance. Never fails: negative or garbage
// stat counts are clamped to zero before weighting, and the total stays in
// [0, MaxTotal].
func (c *Calculator) Calculate(perf domain.MatchPerformance) domain.XpBreakdown {
	w := c.weights

	goals := clampStat(perf.Goals, constants.MaxGoalsPerGame)
	assists := clampStat(perf.Assists, constants.MaxAssistsPerGame)
	saves := clampStat(perf.Saves, constants.MaxSavesPerGame)

	b := domain.XpBreakdown{
		Participation: w.Participation,
		Goals:         int64(goals) * w.PerGoal,
		Assists:       int64(assists) * w.PerAssist,
		Saves:         int64(saves) * w.PerSave,
		Streak:        c.streakBonus(perf.CurrentStreak),
	}

	switch {
	case perf.TeamWon:
		b.Result = w.Win
	case perf.TeamDrew:
		b.Result = w.Draw
	}

	if perf.IsMVP {
		b.MVP = w.MVP
	}
	if perf.IsWorstPlayer {
		b.Penalty = w.WorstPlayerPenalty
	}

	total := b.Participation + b.Goals + b.Assists + b.Saves + b.Result + b.MVP + b.Streak + b.Penalty
	if total < 0 {
		total = 0
	}
	if total > w.MaxTotal {
		c.logger.Debug().
			Str("player_id", perf.PlayerID).
			Int64("raw_total", total).
			Int64("cap", w.MaxTotal).
			Msg("xp total capped")
		total = w.MaxTotal
	}
	b.Total = total

	return b
}

// streakBonus selects the highest tier whose threshold the streak meets.
func (c *Calculator) streakBonus(streak int) int64 {
	var bonus int64
	for _, tier := range c.weights.StreakTiers {
		if streak >= tier.MinStreak && tier.Bonus >= bonus {
			bonus = tier.Bonus
		}
	}
	return bonus
}

func clampStat(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

var Module = fx.Provide(NewCalculator)
