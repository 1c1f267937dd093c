package ranking

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"futeba-engine/internal/config"
	"futeba-engine/internal/domain"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// FetchFunc loads one slice of a leaderboard from the backing source.
// offset is in rows, limit is the page size.
type FetchFunc func(ctx context.Context, cat Category, per Period, offset, limit int) ([]domain.RankingItem, error)

// PageResult is one loaded page.
type PageResult struct {
	Items     []domain.RankingItem
	Page      int
	HasMore   bool
	FromCache bool
}

// PagingState is the accumulated view of one leaderboard being scrolled.
// Items grows page by page; Err holds the last failed load without
// discarding what already rendered.
type PagingState struct {
	Category    Category
	Period      Period
	Items       []domain.RankingItem
	CurrentPage int
	HasMore     bool
	IsLoading   bool
	Err         error
}

// Pager caches leaderboard pages with a TTL and deduplicates concurrent
// loads of the same page. One mutex guards the cache map and the
// in-flight set; fetches run outside the lock so slow sources never block
// cache reads of other pages.
type Pager struct {
	fetch FetchFunc
	now   func() time.Time

	pageSize int
	capacity int
	prefetch int
	ttl      time.Duration

	mu       sync.Mutex
	cache    map[string]cachedPage
	inflight map[string]struct{}
	hits     int64
	misses   int64

	logger zerolog.Logger
}

func NewPager(cfg *config.Config, fetch FetchFunc, logger zerolog.Logger) *Pager {
	return &Pager{
		fetch:    fetch,
		now:      time.Now,
		pageSize: cfg.PageSize,
		capacity: cfg.MaxCacheEntries,
		prefetch: cfg.PrefetchDistance,
		ttl:      cfg.RankingCacheTTL,
		cache:    make(map[string]cachedPage),
		inflight: make(map[string]struct{}),
		logger:   logger,
	}
}

// PageSize is the configured rows per page.
func (p *Pager) PageSize() int { return p.pageSize }

// LoadPage returns a leaderboard page, serving fresh cache entries
// directly. When the page is absent or stale, exactly one caller fetches
// it; concurrent requests for the same page get ErrPageLoading instead of
// piling onto the source.
func (p *Pager) LoadPage(ctx context.Context, cat Category, per Period, page int) (PageResult, error) {
	if page < 0 {
		return PageResult{}, fmt.Errorf("ranking: page must be >= 0, got %d", page)
	}
	key := pageKey(cat, per, page)

	p.mu.Lock()
	if entry, ok := p.cache[key]; ok && !entry.expired(p.now(), p.ttl) {
		p.hits++
		p.mu.Unlock()
		return PageResult{Items: entry.items, Page: page, HasMore: entry.hasMore, FromCache: true}, nil
	}
	if _, loading := p.inflight[key]; loading {
		p.mu.Unlock()
		return PageResult{}, ErrPageLoading
	}
	p.misses++
	p.inflight[key] = struct{}{}
	p.mu.Unlock()

	items, err := p.fetch(ctx, cat, per, page*p.pageSize, p.pageSize)

	p.mu.Lock()
	delete(p.inflight, key)
	if err != nil {
		p.mu.Unlock()
		return PageResult{}, fmt.Errorf("ranking: load page %s: %w", key, err)
	}

	entry := cachedPage{
		items:    items,
		storedAt: p.now(),
		hasMore:  len(items) >= p.pageSize,
	}
	p.cache[key] = entry
	p.evictLocked()
	p.mu.Unlock()

	p.logger.Debug().
		Str("key", key).
		Int("rows", len(items)).
		Bool("has_more", entry.hasMore).
		Msg("ranking page loaded")

	return PageResult{Items: items, Page: page, HasMore: entry.hasMore}, nil
}

// evictLocked drops oldest-stored entries until the cache fits. Caller
// holds mu.
func (p *Pager) evictLocked() {
	for len(p.cache) > p.capacity {
		var oldestKey string
		var oldestAt time.Time
		first := true
		for key, entry := range p.cache {
			if first || entry.storedAt.Before(oldestAt) {
				oldestKey, oldestAt = key, entry.storedAt
				first = false
			}
		}
		delete(p.cache, oldestKey)
	}
}

// NewState starts a scroll session for one leaderboard.
func (p *Pager) NewState(cat Category, per Period) *PagingState {
	return &PagingState{Category: cat, Period: per, HasMore: true}
}

// LoadNext appends the next page to the state. A state that is already
// loading, or exhausted, is left untouched. On failure the partial item
// list survives and Err records the cause.
func (p *Pager) LoadNext(ctx context.Context, state *PagingState) error {
	if state.IsLoading || !state.HasMore {
		return nil
	}
	state.IsLoading = true
	state.Err = nil

	res, err := p.LoadPage(ctx, state.Category, state.Period, state.CurrentPage)
	state.IsLoading = false
	if err != nil {
		state.Err = err
		return err
	}

	state.Items = append(state.Items, res.Items...)
	state.CurrentPage++
	state.HasMore = res.HasMore
	return nil
}

// Refresh drops every cached page of the state's leaderboard and reloads
// from the first page.
func (p *Pager) Refresh(ctx context.Context, state *PagingState) error {
	p.Invalidate(state.Category, state.Period)
	state.Items = nil
	state.CurrentPage = 0
	state.HasMore = true
	state.Err = nil
	return p.LoadNext(ctx, state)
}

// ShouldLoadMore reports whether the scroll position is close enough to
// the end to start prefetching. An empty list always wants a load, even
// mid-flight: LoadNext's own guard makes the extra call a no-op.
func (p *Pager) ShouldLoadMore(state *PagingState, firstVisible int) bool {
	if len(state.Items) == 0 {
		return true
	}
	if state.IsLoading || !state.HasMore {
		return false
	}
	return len(state.Items)-firstVisible <= p.prefetch
}

// InvalidatePage drops one cached page.
func (p *Pager) InvalidatePage(cat Category, per Period, page int) {
	p.mu.Lock()
	delete(p.cache, pageKey(cat, per, page))
	p.mu.Unlock()
}

// Invalidate drops every cached page of one leaderboard (one category in
// one period).
func (p *Pager) Invalidate(cat Category, per Period) {
	p.purgePrefix(fmt.Sprintf("%s_%s_", cat, per))
}

// InvalidateCategory drops every cached page of a category across all
// periods.
func (p *Pager) InvalidateCategory(cat Category) {
	p.purgePrefix(fmt.Sprintf("%s_", cat))
}

func (p *Pager) purgePrefix(prefix string) {
	p.mu.Lock()
	for key := range p.cache {
		if strings.HasPrefix(key, prefix) {
			delete(p.cache, key)
		}
	}
	p.mu.Unlock()
}

// InvalidateAll empties the cache.
func (p *Pager) InvalidateAll() {
	p.mu.Lock()
	p.cache = make(map[string]cachedPage)
	p.mu.Unlock()
}

// Stats snapshots cache counters.
func (p *Pager) Stats() CacheStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return CacheStats{
		Entries:  len(p.cache),
		Capacity: p.capacity,
		Hits:     p.hits,
		Misses:   p.misses,
		Inflight: len(p.inflight),
	}
}

// Module wires the pager for hosts that provide a FetchFunc.
var Module = fx.Provide(NewPager)
