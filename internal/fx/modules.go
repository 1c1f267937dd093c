package fx

import (
	"futeba-engine/internal/balancer"
	"futeba-engine/internal/config"
	"futeba-engine/internal/league"
	"futeba-engine/internal/logger"
	"futeba-engine/internal/ranking"
	"futeba-engine/internal/score"
	"futeba-engine/internal/service"

	"go.uber.org/fx"
)

// Module assembles the whole engine. Hosts embedding it must also provide
// a ranking.FetchFunc pointing at their leaderboard source.
var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	// calculators
	fx.Provide(score.NewCalculator),
	fx.Provide(league.NewEngine),
	// balancing and rankings
	fx.Provide(balancer.New),
	fx.Provide(ranking.NewPager),
	// orchestration
	fx.Provide(service.NewFinalizer),
)
