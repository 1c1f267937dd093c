package league

import (
	"futeba-engine/internal/domain"
)

// CalculateMatchPoints scores one match: 3 for a win, 1 for a draw, 0 for
// a loss.
func CalculateMatchPoints(won, drew bool) int {
	switch {
	case won:
		return 3
	case drew:
		return 1
	default:
		return 0
	}
}

// CalculateSeasonPoints totals a season from its result counts.
func CalculateSeasonPoints(wins, draws, losses int) int {
	// losses contribute nothing
	return wins*3 + draws
}

// UpdateSeasonStats folds one match result into the cumulative season
// aggregation and returns the new value. Goals scored/conceded are derived
// from the signed goal differential, clamped at zero per side.
func UpdateSeasonStats(stats domain.SeasonStats, won, drew bool, goalDiff int, wasMVP bool) domain.SeasonStats {
	next := stats
	next.GamesPlayed++

	switch {
	case won:
		next.Wins++
	case drew:
		next.Draws++
	default:
		next.Losses++
	}

	if goalDiff > 0 {
		next.GoalsScored += goalDiff
	} else {
		next.GoalsConceded += -goalDiff
	}

	if wasMVP {
		next.MVPCount++
	}

	next.Points += CalculateMatchPoints(won, drew)
	return next
}
