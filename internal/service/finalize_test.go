package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"futeba-engine/internal/config"
	"futeba-engine/internal/constants"
	"futeba-engine/internal/domain"
	"futeba-engine/internal/league"
	"futeba-engine/internal/score"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFinalizer(t *testing.T) *Finalizer {
	t.Helper()
	cfg := &config.Config{
		PromotionGamesRequired:  constants.DefaultPromotionGames,
		RelegationGamesRequired: constants.DefaultRelegationGames,
		ProtectionGames:         constants.DefaultProtectionGames,
		MaxRecentGames:          constants.DefaultMaxRecentGames,
	}
	logger := zerolog.Nop()
	return NewFinalizer(score.NewCalculator(logger), league.NewEngine(cfg, logger), logger)
}

func matchInputs(n int) []PlayerInput {
	inputs := make([]PlayerInput, n)
	for i := range inputs {
		inputs[i] = PlayerInput{
			Performance: domain.MatchPerformance{
				PlayerID: fmt.Sprintf("p%d", i),
				MatchID:  "m1",
				Goals:    i % 3,
				TeamWon:  i%2 == 0,
				GoalDiff: 1,
				PlayedAt: time.Now(),
			},
		}
	}
	return inputs
}

func TestFinalizeMatch_RejectsShortMatches(t *testing.T) {
	f := newTestFinalizer(t)

	_, err := f.FinalizeMatch(context.Background(), "m1", matchInputs(constants.MinPlayersForXP-1))
	require.ErrorIs(t, err, ErrNotEnoughPlayers)

	_, err = f.FinalizeMatch(context.Background(), "m1", nil)
	require.ErrorIs(t, err, ErrNotEnoughPlayers)
}

func TestFinalizeMatch_SettlesEveryPlayerInOrder(t *testing.T) {
	f := newTestFinalizer(t)

	result, err := f.FinalizeMatch(context.Background(), "m1", matchInputs(8))
	require.NoError(t, err)
	require.Len(t, result.Players, 8)
	assert.Equal(t, "m1", result.MatchID)
	assert.NotEmpty(t, result.RunID)

	seenTx := make(map[string]struct{})
	for i, pr := range result.Players {
		assert.Equal(t, fmt.Sprintf("p%d", i), pr.PlayerID, "results keep input order")
		require.NotEmpty(t, pr.TransactionID)
		_, dup := seenTx[pr.TransactionID]
		assert.False(t, dup, "transaction ids are unique")
		seenTx[pr.TransactionID] = struct{}{}

		assert.GreaterOrEqual(t, pr.Breakdown.Total, int64(0))
		assert.Equal(t, 1, pr.Stats.TotalGames)
		assert.Equal(t, 1, pr.Season.GamesPlayed)
		require.Len(t, pr.Recent, 1)
		assert.Equal(t, "m1", pr.Recent[0].GameID)
	}
}

func TestFinalizeMatch_XpFlowsIntoLevel(t *testing.T) {
	f := newTestFinalizer(t)

	inputs := matchInputs(constants.MinPlayersForXP)
	// Sits just below the level 1 threshold; any scored match crosses it.
	inputs[0].XpBefore = 95

	result, err := f.FinalizeMatch(context.Background(), "m1", inputs)
	require.NoError(t, err)

	pr := result.Players[0]
	assert.Equal(t, 0, pr.LevelBefore)
	assert.Equal(t, 1, pr.LevelAfter)
	assert.True(t, pr.LeveledUp)
	assert.Equal(t, int64(95)+pr.Breakdown.Total+pr.MilestoneXP, pr.XpAfter)
}

func TestFinalizeMatch_MilestonesAwardBonusXP(t *testing.T) {
	f := newTestFinalizer(t)

	inputs := matchInputs(constants.MinPlayersForXP)
	// First ever game with a goal and a win: first_goal, games_1, wins_1.
	inputs[0].Performance.Goals = 1
	inputs[0].Performance.TeamWon = true

	result, err := f.FinalizeMatch(context.Background(), "m1", inputs)
	require.NoError(t, err)

	pr := result.Players[0]
	assert.EqualValues(t, 125, pr.MilestoneXP)
	assert.Len(t, pr.NewUnlocks, 3)

	// Same match replayed with the milestones already unlocked.
	inputs[0].Stats = pr.Stats
	inputs[0].UnlockedMilestones = []string{"first_goal", "games_1", "wins_1"}
	result, err = f.FinalizeMatch(context.Background(), "m2", inputs)
	require.NoError(t, err)
	assert.Empty(t, result.Players[0].NewUnlocks)
}

func TestFinalizeMatch_ProgressionAdvances(t *testing.T) {
	f := newTestFinalizer(t)

	inputs := matchInputs(constants.MinPlayersForXP)
	strong := &inputs[0].Performance
	strong.Goals = 5
	strong.TeamWon = true
	strong.IsMVP = true
	strong.GoalDiff = 3

	state := domain.LeagueProgressionState{Division: domain.DivisionBronze}
	var lastRating float64
	for game := 0; game < constants.DefaultPromotionGames; game++ {
		inputs[0].League = state
		result, err := f.FinalizeMatch(context.Background(), fmt.Sprintf("m%d", game), inputs)
		require.NoError(t, err)

		pr := result.Players[0]
		state = pr.Progression.NewState
		lastRating = pr.Rating
		if game < constants.DefaultPromotionGames-1 {
			require.False(t, pr.Progression.Promoted)
		} else {
			require.True(t, pr.Progression.Promoted, "promotes on the final qualifying game")
		}
	}

	assert.Equal(t, domain.DivisionSilver, state.Division)
	assert.Greater(t, lastRating, 30.0)
}

func TestFinalizeMatch_RecentWindowTrimmed(t *testing.T) {
	f := newTestFinalizer(t)

	inputs := matchInputs(constants.MinPlayersForXP)
	full := make([]domain.RecentGameSample, constants.DefaultMaxRecentGames)
	for i := range full {
		full[i].GameID = fmt.Sprintf("old%d", i)
	}
	inputs[0].Recent = full

	result, err := f.FinalizeMatch(context.Background(), "m1", inputs)
	require.NoError(t, err)

	recent := result.Players[0].Recent
	require.Len(t, recent, constants.DefaultMaxRecentGames)
	assert.Equal(t, "m1", recent[0].GameID, "new game enters at the front")
	assert.Equal(t, "old8", recent[len(recent)-1].GameID, "oldest entry falls off")
}

func TestFinalizeMatch_CancelledContext(t *testing.T) {
	f := newTestFinalizer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.FinalizeMatch(ctx, "m1", matchInputs(8))
	assert.ErrorIs(t, err, context.Canceled)
}
