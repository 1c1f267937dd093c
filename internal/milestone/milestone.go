// Package milestone holds the one-time career achievements that grant
// bonus XP, and the pure checks that detect new unlocks after a match.
package milestone

import (
	"futeba-engine/internal/domain"
)

// Category groups milestones by the stat they track.
type Category string

const (
	CategoryGoals   Category = "GOALS"
	CategoryAssists Category = "ASSISTS"
	CategoryGames   Category = "GAMES"
	CategoryWins    Category = "WINS"
	CategoryMVP     Category = "MVP"
	CategorySaves   Category = "SAVES"
	CategoryStreak  Category = "STREAK"
)

// Definition is one unlockable milestone. Condition is a pure predicate
// over cumulative statistics.
type Definition struct {
	ID        string
	Name      string
	XPReward  int64
	Category  Category
	Condition func(domain.UserStatistics) bool
}

// CheckResult pairs a milestone with its unlock state for one player.
type CheckResult struct {
	Milestone          Definition
	Unlocked           bool
	PreviouslyUnlocked bool
}

// IsNewUnlock reports whether this check unlocked the milestone for the
// first time.
func (r CheckResult) IsNewUnlock() bool {
	return r.Unlocked && !r.PreviouslyUnlocked
}

// All is the full milestone catalog.
var All = []Definition{
	{ID: "first_goal", Name: "First Goal", XPReward: 50, Category: CategoryGoals,
		Condition: func(s domain.UserStatistics) bool { return s.TotalGoals >= 1 }},
	{ID: "goals_10", Name: "Rising Scorer", XPReward: 100, Category: CategoryGoals,
		Condition: func(s domain.UserStatistics) bool { return s.TotalGoals >= 10 }},
	{ID: "goals_50", Name: "Top Scorer", XPReward: 250, Category: CategoryGoals,
		Condition: func(s domain.UserStatistics) bool { return s.TotalGoals >= 50 }},
	{ID: "goals_100", Name: "Goal Legend", XPReward: 500, Category: CategoryGoals,
		Condition: func(s domain.UserStatistics) bool { return s.TotalGoals >= 100 }},

	{ID: "first_assist", Name: "First Assist", XPReward: 50, Category: CategoryAssists,
		Condition: func(s domain.UserStatistics) bool { return s.TotalAssists >= 1 }},
	{ID: "assists_10", Name: "Rising Playmaker", XPReward: 100, Category: CategoryAssists,
		Condition: func(s domain.UserStatistics) bool { return s.TotalAssists >= 10 }},
	{ID: "assists_50", Name: "Playmaker", XPReward: 250, Category: CategoryAssists,
		Condition: func(s domain.UserStatistics) bool { return s.TotalAssists >= 50 }},

	{ID: "games_1", Name: "First Game", XPReward: 25, Category: CategoryGames,
		Condition: func(s domain.UserStatistics) bool { return s.TotalGames >= 1 }},
	{ID: "games_10", Name: "Regular", XPReward: 100, Category: CategoryGames,
		Condition: func(s domain.UserStatistics) bool { return s.TotalGames >= 10 }},
	{ID: "games_50", Name: "Veteran", XPReward: 300, Category: CategoryGames,
		Condition: func(s domain.UserStatistics) bool { return s.TotalGames >= 50 }},
	{ID: "games_100", Name: "Field Legend", XPReward: 500, Category: CategoryGames,
		Condition: func(s domain.UserStatistics) bool { return s.TotalGames >= 100 }},

	{ID: "wins_1", Name: "First Win", XPReward: 50, Category: CategoryWins,
		Condition: func(s domain.UserStatistics) bool { return s.GamesWon >= 1 }},
	{ID: "wins_10", Name: "Winner", XPReward: 150, Category: CategoryWins,
		Condition: func(s domain.UserStatistics) bool { return s.GamesWon >= 10 }},
	{ID: "wins_50", Name: "Champion", XPReward: 400, Category: CategoryWins,
		Condition: func(s domain.UserStatistics) bool { return s.GamesWon >= 50 }},

	{ID: "mvp_1", Name: "First MVP", XPReward: 75, Category: CategoryMVP,
		Condition: func(s domain.UserStatistics) bool { return s.MVPCount >= 1 }},
	{ID: "mvp_5", Name: "Star Player", XPReward: 200, Category: CategoryMVP,
		Condition: func(s domain.UserStatistics) bool { return s.MVPCount >= 5 }},
	{ID: "mvp_10", Name: "MVP Legend", XPReward: 400, Category: CategoryMVP,
		Condition: func(s domain.UserStatistics) bool { return s.MVPCount >= 10 }},

	{ID: "saves_10", Name: "The Wall", XPReward: 100, Category: CategorySaves,
		Condition: func(s domain.UserStatistics) bool { return s.TotalSaves >= 10 }},
	{ID: "saves_50", Name: "Brick Wall", XPReward: 300, Category: CategorySaves,
		Condition: func(s domain.UserStatistics) bool { return s.TotalSaves >= 50 }},

	{ID: "streak_3", Name: "Streak of 3", XPReward: 50, Category: CategoryStreak,
		Condition: func(s domain.UserStatistics) bool { return s.BestStreak >= 3 }},
	{ID: "streak_7", Name: "Streak of 7", XPReward: 150, Category: CategoryStreak,
		Condition: func(s domain.UserStatistics) bool { return s.BestStreak >= 7 }},
	{ID: "streak_10", Name: "Playing Machine", XPReward: 300, Category: CategoryStreak,
		Condition: func(s domain.UserStatistics) bool { return s.BestStreak >= 10 }},
}

// CheckAll evaluates every milestone against the player's cumulative stats.
// unlocked holds the IDs the player already earned.
func CheckAll(stats domain.UserStatistics, unlocked []string) []CheckResult {
	have := make(map[string]struct{}, len(unlocked))
	for _, id := range unlocked {
		have[id] = struct{}{}
	}

	results := make([]CheckResult, 0, len(All))
	for _, def := range All {
		_, prev := have[def.ID]
		results = append(results, CheckResult{
			Milestone:          def,
			Unlocked:           def.Condition(stats),
			PreviouslyUnlocked: prev,
		})
	}
	return results
}

// NewUnlocks returns the milestones unlocked for the first time.
func NewUnlocks(stats domain.UserStatistics, unlocked []string) []Definition {
	var out []Definition
	for _, r := range CheckAll(stats, unlocked) {
		if r.IsNewUnlock() {
			out = append(out, r.Milestone)
		}
	}
	return out
}

// NewUnlockXP totals the bonus XP of all first-time unlocks.
func NewUnlockXP(stats domain.UserStatistics, unlocked []string) int64 {
	var total int64
	for _, def := range NewUnlocks(stats, unlocked) {
		total += def.XPReward
	}
	return total
}

// ByID finds a milestone, reporting false when the ID is unknown.
func ByID(id string) (Definition, bool) {
	for _, def := range All {
		if def.ID == id {
			return def, true
		}
	}
	return Definition{}, false
}

// ByCategory filters the catalog.
func ByCategory(cat Category) []Definition {
	var out []Definition
	for _, def := range All {
		if def.Category == cat {
			out = append(out, def)
		}
	}
	return out
}
