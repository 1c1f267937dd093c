// Package stats accumulates all-time player statistics and derives the
// attendance rate and per-role skill estimates that feed the balancer.
package stats

import (
	"time"

	"futeba-engine/internal/domain"
)

// Role-skill derivation ceilings. A per-game average at or above the
// ceiling maps to the maximum skill of 99.
const (
	maxSkill         = 99.0
	defaultSkill     = 50.0
	goalsCeiling     = 2.0
	assistsCeiling   = 1.2
	savesCeiling     = 4.0
	noShowPenalty    = 0.05
	disciplineWeight = 0.4
	winRateWeight    = 0.6
)

// ApplyMatch folds one finished match into the all-time aggregation and
// returns the updated copy. The input is never mutated.
func ApplyMatch(stats domain.UserStatistics, perf domain.MatchPerformance) domain.UserStatistics {
	stats.TotalGames++
	stats.TotalGoals += perf.Goals
	stats.TotalAssists += perf.Assists
	stats.TotalSaves += perf.Saves
	stats.TotalYellowCards += perf.YellowCards
	stats.TotalRedCards += perf.RedCards

	switch perf.Result() {
	case domain.ResultWin:
		stats.GamesWon++
	case domain.ResultDraw:
		stats.GamesDrawn++
	default:
		stats.GamesLost++
	}

	if perf.IsMVP {
		stats.MVPCount++
	}
	if perf.IsWorstPlayer {
		stats.WorstPlayerCount++
	}
	if perf.HasBestGoal {
		stats.BestGoalCount++
	}
	if perf.CurrentStreak > stats.BestStreak {
		stats.BestStreak = perf.CurrentStreak
	}
	stats.GamesAttended++
	stats.UpdatedAt = time.Now()

	return stats
}

// WinRate is wins over games played, in [0,1].
func WinRate(stats domain.UserStatistics) float64 {
	if stats.TotalGames == 0 {
		return 0
	}
	return float64(stats.GamesWon) / float64(stats.TotalGames)
}

// GoalsPerGame is the all-time scoring average.
func GoalsPerGame(stats domain.UserStatistics) float64 {
	if stats.TotalGames == 0 {
		return 0
	}
	return float64(stats.TotalGoals) / float64(stats.TotalGames)
}

// AssistsPerGame is the all-time assist average.
func AssistsPerGame(stats domain.UserStatistics) float64 {
	if stats.TotalGames == 0 {
		return 0
	}
	return float64(stats.TotalAssists) / float64(stats.TotalGames)
}

// SavesPerGame is the all-time save average.
func SavesPerGame(stats domain.UserStatistics) float64 {
	if stats.TotalGames == 0 {
		return 0
	}
	return float64(stats.TotalSaves) / float64(stats.TotalGames)
}

// MVPRate is MVP awards over games played, in [0,1].
func MVPRate(stats domain.UserStatistics) float64 {
	if stats.TotalGames == 0 {
		return 0
	}
	return float64(stats.MVPCount) / float64(stats.TotalGames)
}

// CardsPerGame weighs reds double, matching the discipline penalty.
func CardsPerGame(stats domain.UserStatistics) float64 {
	if stats.TotalGames == 0 {
		return 0
	}
	return float64(stats.TotalYellowCards+2*stats.TotalRedCards) / float64(stats.TotalGames)
}

// AttendanceRate measures reliability in [0,1]: attended over invited,
// minus a flat penalty per no-show, floored at zero. A player with games
// on record but no invite history scores a neutral 1.0.
func AttendanceRate(stats domain.UserStatistics) float64 {
	if stats.GamesInvited == 0 {
		if stats.TotalGames > 0 {
			return 1.0
		}
		return 0
	}

	rate := float64(stats.GamesAttended) / float64(stats.GamesInvited)
	if rate > 1.0 {
		rate = 1.0
	}
	rate -= noShowPenalty * float64(stats.NoShows)
	if rate < 0 {
		rate = 0
	}
	return rate
}

// DeriveRoleSkills estimates 0-99 per-role abilities from all-time
// averages. Players with no history get a neutral 50 across the board so
// the balancer has something to work with.
func DeriveRoleSkills(stats domain.UserStatistics) domain.RoleSkills {
	if stats.TotalGames == 0 {
		return domain.RoleSkills{
			Attack:     defaultSkill,
			Midfield:   defaultSkill,
			Defense:    defaultSkill,
			Goalkeeper: defaultSkill,
		}
	}

	return domain.RoleSkills{
		Attack:     scaleToSkill(GoalsPerGame(stats), goalsCeiling),
		Midfield:   scaleToSkill(AssistsPerGame(stats), assistsCeiling),
		Defense:    defenseSkill(stats),
		Goalkeeper: scaleToSkill(SavesPerGame(stats), savesCeiling),
	}
}

// defenseSkill has no direct counting stat, so it blends win rate with a
// discipline score that decays with cards picked up.
func defenseSkill(stats domain.UserStatistics) float64 {
	discipline := 1.0 - CardsPerGame(stats)
	if discipline < 0 {
		discipline = 0
	}
	blended := winRateWeight*WinRate(stats) + disciplineWeight*discipline
	return scaleToSkill(blended, 1.0)
}

func scaleToSkill(value, ceiling float64) float64 {
	if value <= 0 {
		return 0
	}
	if value >= ceiling {
		return maxSkill
	}
	return value / ceiling * maxSkill
}
