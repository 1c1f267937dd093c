// Package ranking serves leaderboard pages through a TTL cache with
// single-flight page loads and append-style pagination state.
package ranking

import (
	"errors"
	"fmt"
	"time"

	"futeba-engine/internal/domain"
)

// ErrPageLoading reports that another caller is already fetching the
// requested page. The caller should retry or wait for its own load.
var ErrPageLoading = errors.New("ranking: page load already in flight")

// Category selects which leaderboard a page belongs to.
type Category string

const (
	CategoryXP      Category = "XP"
	CategoryGoals   Category = "GOALS"
	CategoryAssists Category = "ASSISTS"
	CategorySaves   Category = "SAVES"
	CategoryWins    Category = "WINS"
	CategoryMVP     Category = "MVP"
)

// Period selects the aggregation window of a leaderboard.
type Period string

const (
	PeriodAllTime Period = "ALL_TIME"
	PeriodSeason  Period = "SEASON"
	PeriodMonth   Period = "MONTH"
)

// pageKey identifies one cached page.
func pageKey(cat Category, per Period, page int) string {
	return fmt.Sprintf("%s_%s_%d", cat, per, page)
}

// cachedPage is one stored page plus the metadata needed for TTL and
// LRU-by-insertion eviction.
type cachedPage struct {
	items    []domain.RankingItem
	storedAt time.Time
	hasMore  bool
}

func (p cachedPage) expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(p.storedAt) >= ttl
}

// CacheStats is a point-in-time snapshot for observability.
type CacheStats struct {
	Entries  int
	Capacity int
	Hits     int64
	Misses   int64
	Inflight int
}
