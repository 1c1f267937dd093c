package constants

import "time"

// Anti-abuse caps applied before weighting.
const (
	MaxGoalsPerGame   = 15
	MaxAssistsPerGame = 10
	MaxSavesPerGame   = 30
	MaxXpPerGame      = 500
)

// Default per-unit XP weights.
const (
	XpParticipation      = 10
	XpPerGoal            = 10
	XpPerAssist          = 7
	XpPerSave            = 8
	XpWin                = 20
	XpDraw               = 10
	XpMVP                = 30
	XpWorstPlayerPenalty = -10
)

// League rating thresholds (0-100 scale).
const (
	SilverThreshold  = 30.0
	GoldThreshold    = 50.0
	DiamondThreshold = 70.0
	MaxRating        = 100.0
)

// League progression defaults.
const (
	DefaultPromotionGames  = 3
	DefaultRelegationGames = 3
	DefaultProtectionGames = 5
	DefaultMaxRecentGames  = 10
)

// Ranking cache/pager defaults.
const (
	DefaultPageSize        = 50
	DefaultMaxCacheSize    = 200
	DefaultPrefetchRows    = 15
	DefaultRankingCacheTTL = 5 * time.Minute
)

// Team balancer defaults.
const (
	DefaultRefineIterations = 1000
	BalanceSpreadThreshold  = 5.0
	MinPlayersPerBalance    = 2
)

// Match finalization.
const (
	MinPlayersForXP = 6
)
