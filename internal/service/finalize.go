// Package service orchestrates match finalization: for every participant
// it scores XP, checks milestones, advances level and league state, and
// rolls the season aggregation forward.
package service

import (
	"context"
	"errors"
	"fmt"

	"futeba-engine/internal/constants"
	"futeba-engine/internal/domain"
	"futeba-engine/internal/league"
	"futeba-engine/internal/levels"
	"futeba-engine/internal/milestone"
	"futeba-engine/internal/rating"
	"futeba-engine/internal/score"
	"futeba-engine/internal/stats"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

// ErrNotEnoughPlayers rejects finalizing a match below the minimum
// headcount; short-sided kickabouts earn nothing.
var ErrNotEnoughPlayers = errors.New("service: not enough players to finalize match")

// PlayerInput is everything known about one participant before
// finalization. The caller loads it; the finalizer never touches storage.
type PlayerInput struct {
	Performance        domain.MatchPerformance
	Stats              domain.UserStatistics
	UnlockedMilestones []string
	League             domain.LeagueProgressionState
	Season             domain.SeasonStats
	Recent             []domain.RecentGameSample
	XpBefore           int64
}

// PlayerResult is the full per-player outcome of one finalized match.
type PlayerResult struct {
	PlayerID      string
	TransactionID string

	Breakdown   domain.XpBreakdown
	MilestoneXP int64
	NewUnlocks  []milestone.Definition
	XpAfter     int64

	LevelBefore int
	LevelAfter  int
	LeveledUp   bool

	Rating      float64
	Progression domain.LeagueProgressionResult

	Stats  domain.UserStatistics
	Season domain.SeasonStats
	Recent []domain.RecentGameSample
}

// MatchResult is the outcome of one finalization run.
type MatchResult struct {
	MatchID string
	RunID   string
	Players []PlayerResult
}

// Finalizer runs the per-match settlement pipeline.
type Finalizer struct {
	calc   *score.Calculator
	engine *league.Engine
	levels *levels.Table
	logger zerolog.Logger
}

func NewFinalizer(calc *score.Calculator, engine *league.Engine, logger zerolog.Logger) *Finalizer {
	return &Finalizer{
		calc:   calc,
		engine: engine,
		levels: levels.Default,
		logger: logger,
	}
}

// FinalizeMatch settles one finished match for all participants. Players
// are processed concurrently; the first failure aborts the run. Results
// come back in input order.
func (f *Finalizer) FinalizeMatch(ctx context.Context, matchID string, players []PlayerInput) (MatchResult, error) {
	if len(players) < constants.MinPlayersForXP {
		return MatchResult{}, fmt.Errorf("%w: match %s has %d players, need %d",
			ErrNotEnoughPlayers, matchID, len(players), constants.MinPlayersForXP)
	}

	runID := uuid.NewString()
	f.logger.Info().
		Str("match_id", matchID).
		Str("run_id", runID).
		Int("players", len(players)).
		Msg("finalizing match")

	results := make([]PlayerResult, len(players))

	g, ctx := errgroup.WithContext(ctx)
	for i, input := range players {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := f.finalizePlayer(input)
			if err != nil {
				return fmt.Errorf("finalize player %s: %w", input.Performance.PlayerID, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return MatchResult{}, err
	}

	f.logger.Info().
		Str("match_id", matchID).
		Str("run_id", runID).
		Msg("match finalized")

	return MatchResult{MatchID: matchID, RunID: runID, Players: results}, nil
}

// finalizePlayer runs the whole settlement chain for one participant.
func (f *Finalizer) finalizePlayer(input PlayerInput) (PlayerResult, error) {
	txID, err := gonanoid.New()
	if err != nil {
		return PlayerResult{}, fmt.Errorf("generate transaction id: %w", err)
	}

	perf := input.Performance
	breakdown := f.calc.Calculate(perf)

	newStats := stats.ApplyMatch(input.Stats, perf)
	unlocks := milestone.NewUnlocks(newStats, input.UnlockedMilestones)
	var milestoneXP int64
	for _, def := range unlocks {
		milestoneXP += def.XPReward
	}

	xpAfter := input.XpBefore + breakdown.Total + milestoneXP
	levelBefore := f.levels.LevelForXP(input.XpBefore)
	levelAfter := f.levels.LevelForXP(xpAfter)

	recent := append([]domain.RecentGameSample{{
		GameID:   perf.MatchID,
		XpEarned: breakdown.Total,
		Won:      perf.TeamWon,
		Drew:     perf.TeamDrew,
		GoalDiff: perf.GoalDiff,
		WasMVP:   perf.IsMVP,
		PlayedAt: perf.PlayedAt,
	}}, input.Recent...)
	recent = f.engine.TrimRecentGames(recent)

	newRating := rating.Calculate(recent)
	progression := f.engine.UpdateProgression(input.League, newRating)

	newSeason := league.UpdateSeasonStats(input.Season, perf.TeamWon, perf.TeamDrew, perf.GoalDiff, perf.IsMVP)

	result := PlayerResult{
		PlayerID:      perf.PlayerID,
		TransactionID: txID,
		Breakdown:     breakdown,
		MilestoneXP:   milestoneXP,
		NewUnlocks:    unlocks,
		XpAfter:       xpAfter,
		LevelBefore:   levelBefore,
		LevelAfter:    levelAfter,
		LeveledUp:     levelAfter > levelBefore,
		Rating:        newRating,
		Progression:   progression,
		Stats:         newStats,
		Season:        newSeason,
		Recent:        recent,
	}

	if result.LeveledUp || progression.DivisionChanged() || len(unlocks) > 0 {
		f.logger.Info().
			Str("player_id", perf.PlayerID).
			Str("transaction_id", txID).
			Int64("xp_earned", breakdown.Total+milestoneXP).
			Int("level", levelAfter).
			Str("division", progression.NewState.Division.String()).
			Int("new_milestones", len(unlocks)).
			Msg("player settled with progression changes")
	}

	return result, nil
}

var Module = fx.Provide(NewFinalizer)
