package milestone

import (
	"testing"

	"futeba-engine/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnlocks_FirstGame(t *testing.T) {
	stats := domain.UserStatistics{TotalGames: 1, TotalGoals: 1, GamesWon: 1}

	unlocks := NewUnlocks(stats, nil)

	ids := make([]string, 0, len(unlocks))
	for _, def := range unlocks {
		ids = append(ids, def.ID)
	}
	assert.ElementsMatch(t, []string{"first_goal", "games_1", "wins_1"}, ids)
}

func TestNewUnlocks_AlreadyUnlockedNotRepeated(t *testing.T) {
	stats := domain.UserStatistics{TotalGames: 12, TotalGoals: 11, GamesWon: 3}
	already := []string{"first_goal", "games_1", "games_10", "wins_1"}

	unlocks := NewUnlocks(stats, already)

	require.Len(t, unlocks, 1)
	assert.Equal(t, "goals_10", unlocks[0].ID)
}

func TestNewUnlockXP(t *testing.T) {
	stats := domain.UserStatistics{TotalGames: 1, TotalGoals: 1}

	// first_goal (50) + games_1 (25)
	assert.EqualValues(t, 75, NewUnlockXP(stats, nil))
	assert.Zero(t, NewUnlockXP(stats, []string{"first_goal", "games_1"}))
}

func TestCheckAll_ReportsStates(t *testing.T) {
	stats := domain.UserStatistics{TotalGames: 1}

	results := CheckAll(stats, []string{"games_1"})
	require.Len(t, results, len(All))

	byID := make(map[string]CheckResult, len(results))
	for _, r := range results {
		byID[r.Milestone.ID] = r
	}

	gamesOne := byID["games_1"]
	assert.True(t, gamesOne.Unlocked)
	assert.True(t, gamesOne.PreviouslyUnlocked)
	assert.False(t, gamesOne.IsNewUnlock())

	goalsOne := byID["first_goal"]
	assert.False(t, goalsOne.Unlocked)
}

func TestStreakMilestonesUseBestStreak(t *testing.T) {
	stats := domain.UserStatistics{TotalGames: 8, BestStreak: 7}

	unlocks := NewUnlocks(stats, []string{"games_1"})
	ids := make([]string, 0, len(unlocks))
	for _, def := range unlocks {
		ids = append(ids, def.ID)
	}
	assert.Contains(t, ids, "streak_3")
	assert.Contains(t, ids, "streak_7")
	assert.NotContains(t, ids, "streak_10")
}

func TestByID(t *testing.T) {
	def, ok := ByID("mvp_5")
	require.True(t, ok)
	assert.Equal(t, "Star Player", def.Name)
	assert.EqualValues(t, 200, def.XPReward)

	_, ok = ByID("nope")
	assert.False(t, ok)
}

func TestByCategory(t *testing.T) {
	goals := ByCategory(CategoryGoals)
	require.Len(t, goals, 4)
	for _, def := range goals {
		assert.Equal(t, CategoryGoals, def.Category)
	}

	assert.Len(t, ByCategory(CategorySaves), 2)
	assert.Empty(t, ByCategory(Category("UNKNOWN")))
}

func TestCatalogIDsAreUnique(t *testing.T) {
	seen := make(map[string]struct{}, len(All))
	for _, def := range All {
		_, dup := seen[def.ID]
		require.False(t, dup, "duplicate milestone id %s", def.ID)
		seen[def.ID] = struct{}{}
		assert.Positive(t, def.XPReward)
	}
}
