package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"futeba-engine/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Config carries the engine tunables. Every field has a default, so a bare
// environment yields a working configuration.
type Config struct {
	PromotionGamesRequired  int
	RelegationGamesRequired int
	ProtectionGames         int
	MaxRecentGames          int
	RankingCacheTTL         time.Duration
	PageSize                int
	MaxCacheEntries         int
	PrefetchDistance        int
	RefineIterations        int
	LogLevel                string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		PromotionGamesRequired:  getEnvInt("LEAGUE_PROMOTION_GAMES", constants.DefaultPromotionGames),
		RelegationGamesRequired: getEnvInt("LEAGUE_RELEGATION_GAMES", constants.DefaultRelegationGames),
		ProtectionGames:         getEnvInt("LEAGUE_PROTECTION_GAMES", constants.DefaultProtectionGames),
		MaxRecentGames:          getEnvInt("LEAGUE_RECENT_GAMES_WINDOW", constants.DefaultMaxRecentGames),
		RankingCacheTTL:         getEnvDuration("RANKING_CACHE_TTL", constants.DefaultRankingCacheTTL),
		PageSize:                getEnvInt("RANKING_PAGE_SIZE", constants.DefaultPageSize),
		MaxCacheEntries:         getEnvInt("RANKING_CACHE_CAPACITY", constants.DefaultMaxCacheSize),
		PrefetchDistance:        getEnvInt("RANKING_PREFETCH_DISTANCE", constants.DefaultPrefetchRows),
		RefineIterations:        getEnvInt("BALANCER_REFINE_ITERATIONS", constants.DefaultRefineIterations),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Int("promotion_games", cfg.PromotionGamesRequired).
		Int("relegation_games", cfg.RelegationGamesRequired).
		Int("protection_games", cfg.ProtectionGames).
		Int("recent_games_window", cfg.MaxRecentGames).
		Dur("ranking_cache_ttl", cfg.RankingCacheTTL).
		Int("page_size", cfg.PageSize).
		Int("cache_capacity", cfg.MaxCacheEntries).
		Str("log_level", cfg.LogLevel).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) validate() error {
	if c.PromotionGamesRequired < 1 {
		return fmt.Errorf("LEAGUE_PROMOTION_GAMES must be >= 1, got %d", c.PromotionGamesRequired)
	}
	if c.RelegationGamesRequired < 1 {
		return fmt.Errorf("LEAGUE_RELEGATION_GAMES must be >= 1, got %d", c.RelegationGamesRequired)
	}
	if c.ProtectionGames < 0 {
		return fmt.Errorf("LEAGUE_PROTECTION_GAMES must be >= 0, got %d", c.ProtectionGames)
	}
	if c.MaxRecentGames < 1 {
		return fmt.Errorf("LEAGUE_RECENT_GAMES_WINDOW must be >= 1, got %d", c.MaxRecentGames)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("RANKING_PAGE_SIZE must be >= 1, got %d", c.PageSize)
	}
	if c.MaxCacheEntries < 1 {
		return fmt.Errorf("RANKING_CACHE_CAPACITY must be >= 1, got %d", c.MaxCacheEntries)
	}
	if c.RankingCacheTTL <= 0 {
		return fmt.Errorf("RANKING_CACHE_TTL must be positive, got %s", c.RankingCacheTTL)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

var Module = fx.Provide(Load)
