// Command engine runs the scoring pipeline end to end against generated
// data: it balances a pool of fake players into teams, finalizes a match
// for them, and pages through an in-memory leaderboard. Useful as a smoke
// run and as a wiring example for hosts embedding the engine.
package main

import (
	"context"
	"time"

	"futeba-engine/internal/balancer"
	"futeba-engine/internal/config"
	"futeba-engine/internal/domain"
	fxmodules "futeba-engine/internal/fx"
	"futeba-engine/internal/logger"
	"futeba-engine/internal/ranking"
	"futeba-engine/internal/service"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const demoSeed = 1

func main() {
	fx.New(
		fxmodules.Module,
		fx.Provide(provideLeaderboard),
		fx.Invoke(runDemo),
	).Run()
}

// provideLeaderboard backs the pager with a generated in-memory table.
func provideLeaderboard() ranking.FetchFunc {
	faker := gofakeit.New(demoSeed)
	rows := make([]domain.RankingItem, 120)
	for i := range rows {
		rows[i] = domain.RankingItem{
			Rank:        i + 1,
			UserID:      faker.UUID(),
			UserName:    faker.Name(),
			Nickname:    faker.Username(),
			Value:       int64((len(rows) - i) * 37),
			GamesPlayed: faker.Number(5, 80),
		}
	}

	return func(ctx context.Context, cat ranking.Category, per ranking.Period, offset, limit int) ([]domain.RankingItem, error) {
		if offset >= len(rows) {
			return nil, nil
		}
		end := offset + limit
		if end > len(rows) {
			end = len(rows)
		}
		return rows[offset:end], nil
	}
}

func runDemo(
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	teamBalancer *balancer.Balancer,
	finalizer *service.Finalizer,
	pager *ranking.Pager,
) {
	log := logger.WithLevel(cfg.LogLevel)
	go func() {
		runBalancing(teamBalancer, log)
		runFinalization(finalizer, log)
		runPaging(pager, log)
		shutdowner.Shutdown()
	}()
}

func runBalancing(b *balancer.Balancer, logger zerolog.Logger) {
	faker := gofakeit.New(demoSeed)
	pool := make([]domain.PlayerForBalancing, 12)
	for i := range pool {
		pos := domain.PositionLine
		if i%6 == 0 {
			pos = domain.PositionGoalkeeper
		}
		pool[i] = domain.PlayerForBalancing{
			ID:       faker.UUID(),
			Name:     faker.Name(),
			Position: pos,
			Skills: domain.RoleSkills{
				Attack:     float64(faker.Number(20, 95)),
				Midfield:   float64(faker.Number(20, 95)),
				Defense:    float64(faker.Number(20, 95)),
				Goalkeeper: float64(faker.Number(20, 95)),
			},
		}
	}

	result := b.Balance(pool, 2, demoSeed)
	for _, team := range result.Teams {
		logger.Info().
			Int("team", team.Number).
			Int("players", team.Strength.PlayerCount).
			Float64("overall", team.Strength.OverallAverage).
			Bool("has_gk", team.Strength.HasGoalkeeper).
			Msg("demo team")
	}
	logger.Info().Float64("spread", result.MaxSpread).Bool("balanced", result.IsBalanced).Msg("balancing done")
}

func runFinalization(f *service.Finalizer, logger zerolog.Logger) {
	faker := gofakeit.New(demoSeed)
	players := make([]service.PlayerInput, 10)
	for i := range players {
		players[i] = service.PlayerInput{
			Performance: domain.MatchPerformance{
				PlayerID:      faker.UUID(),
				MatchID:       "demo-match",
				Position:      domain.PositionLine,
				Goals:         faker.Number(0, 4),
				Assists:       faker.Number(0, 3),
				TeamWon:       i < 5,
				TeamDrew:      false,
				GoalDiff:      2,
				CurrentStreak: faker.Number(0, 8),
				PlayedAt:      time.Now(),
			},
			XpBefore: int64(faker.Number(0, 2000)),
		}
	}

	result, err := f.FinalizeMatch(context.Background(), "demo-match", players)
	if err != nil {
		logger.Error().Err(err).Msg("demo finalization failed")
		return
	}
	for _, pr := range result.Players {
		logger.Info().
			Str("player_id", pr.PlayerID).
			Int64("xp", pr.Breakdown.Total).
			Int("level", pr.LevelAfter).
			Str("division", pr.Progression.NewState.Division.String()).
			Msg("demo settlement")
	}
}

func runPaging(p *ranking.Pager, logger zerolog.Logger) {
	ctx := context.Background()
	state := p.NewState(ranking.CategoryXP, ranking.PeriodAllTime)
	for p.ShouldLoadMore(state, len(state.Items)) {
		if err := p.LoadNext(ctx, state); err != nil {
			logger.Error().Err(err).Msg("demo paging failed")
			return
		}
	}

	stats := p.Stats()
	logger.Info().
		Int("rows", len(state.Items)).
		Int("pages", state.CurrentPage).
		Int("cache_entries", stats.Entries).
		Msg("leaderboard paged")
}
