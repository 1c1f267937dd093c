// Package rating turns a sliding window of recent match outcomes into a
// continuous 0-100 league rating, and maps ratings onto divisions.
package rating

import (
	"futeba-engine/internal/constants"
	"futeba-engine/internal/domain"
)

// Component weights of the rating formula.
const (
	weightXpPerGame = 0.4
	weightWinRate   = 0.3
	weightGoalDiff  = 0.2
	weightMVPRate   = 0.1

	// An average of 200 XP per game scores the full 100 points.
	xpPerGameCeiling = 200.0
	// Average goal differential is mapped linearly from [-3,+3] to [0,100].
	goalDiffSpan = 3.0
	// Being MVP in half the sampled games already scores the full 100.
	mvpRateCeiling = 0.5
)

// Calculate computes the league rating for a window of recent games,
// most recent first. An empty window rates 0.
func Calculate(window []domain.RecentGameSample) float64 {
	if len(window) == 0 {
		return 0
	}

	n := float64(len(window))

	var xpSum float64
	var wins, mvps int
	var gdSum float64
	for _, g := range window {
		xpSum += float64(g.XpEarned)
		if g.Won {
			wins++
		}
		if g.WasMVP {
			mvps++
		}
		gdSum += float64(g.GoalDiff)
	}

	xpScore := clamp01(xpSum/n/xpPerGameCeiling) * 100
	winScore := float64(wins) / n * 100
	gdScore := clamp01((gdSum/n+goalDiffSpan)/(2*goalDiffSpan)) * 100
	mvpScore := clamp01(float64(mvps)/n/mvpRateCeiling) * 100

	return xpScore*weightXpPerGame +
		winScore*weightWinRate +
		gdScore*weightGoalDiff +
		mvpScore*weightMVPRate
}

// DivisionForRating maps a rating to its division bracket.
func DivisionForRating(r float64) domain.Division {
	switch {
	case r >= constants.DiamondThreshold:
		return domain.DivisionDiamond
	case r >= constants.GoldThreshold:
		return domain.DivisionGold
	case r >= constants.SilverThreshold:
		return domain.DivisionSilver
	default:
		return domain.DivisionBronze
	}
}

// NextThreshold returns the rating needed to leave the division upward.
// The top division returns the scale maximum.
func NextThreshold(d domain.Division) float64 {
	switch d {
	case domain.DivisionBronze:
		return constants.SilverThreshold
	case domain.DivisionSilver:
		return constants.GoldThreshold
	case domain.DivisionGold:
		return constants.DiamondThreshold
	default:
		return constants.MaxRating
	}
}

// PreviousThreshold returns the rating floor of the division. The bottom
// division returns 0.
func PreviousThreshold(d domain.Division) float64 {
	switch d {
	case domain.DivisionDiamond:
		return constants.DiamondThreshold
	case domain.DivisionGold:
		return constants.GoldThreshold
	case domain.DivisionSilver:
		return constants.SilverThreshold
	default:
		return 0
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
