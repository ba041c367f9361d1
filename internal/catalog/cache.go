// Package catalog holds the in-memory series catalog: bulk list refresh,
// per-series detail hydration and lookup/search over the result.
package catalog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jodu555/cinewatch/internal/status"
	"github.com/jodu555/cinewatch/pkg/cinema"
)

// Index is the subset of the cinema client the cache needs.
type Index interface {
	SeriesIndex(ctx context.Context, token string) ([]cinema.Serie, error)
	SeriesDetail(ctx context.Context, token, seriesID string) (*cinema.Serie, error)
}

// TokenSource supplies the bearer token for gated fetches.
type TokenSource interface {
	Token() string
}

// Cache owns the series list. Entries enter at summary level from
// RefreshList and gain detail through Hydrate; they are never removed
// within a session. Failed fetches leave the last-known-good state.
type Cache struct {
	api    Index
	tokens TokenSource
	status *status.Status
	log    *slog.Logger

	mu     sync.RWMutex
	series []cinema.Serie
}

// NewCache creates an empty catalog cache. logger may be nil.
func NewCache(api Index, tokens TokenSource, st *status.Status, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		api:    api,
		tokens: tokens,
		status: st,
		log:    logger.With("component", "catalog"),
	}
}

// RefreshList fetches the summary-level index and replaces the cache
// wholesale.
func (c *Cache) RefreshList(ctx context.Context) {
	c.status.Begin()
	defer c.status.Done()

	series, err := c.api.SeriesIndex(ctx, c.tokens.Token())
	if err != nil {
		c.status.Fail("refresh series list: " + err.Error())
		c.log.Warn("series list refresh failed", "error", err)
		return
	}

	c.mu.Lock()
	c.series = series
	c.mu.Unlock()

	c.log.Debug("series list refreshed", "count", len(series))
}

// Hydrate fetches full detail for one series and merges it into the
// existing summary record, preserving list identity and order. Series
// not present in the cache are left for the next RefreshList.
func (c *Cache) Hydrate(ctx context.Context, seriesID string) {
	c.status.Begin()
	defer c.status.Done()

	detail, err := c.api.SeriesDetail(ctx, c.tokens.Token(), seriesID)
	if err != nil {
		c.status.Fail("hydrate series: " + err.Error())
		c.log.Warn("series hydration failed", "id", seriesID, "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.series {
		if c.series[i].ID == seriesID {
			merge(&c.series[i], detail)
			c.log.Debug("series hydrated", "id", seriesID,
				"seasons", len(c.series[i].Seasons), "movies", len(c.series[i].Movies))
			return
		}
	}

	c.log.Debug("hydrated series not in cache, dropping", "id", seriesID)
}

// merge overlays a detail response onto a summary record, field by
// field. Summary fields (Title, Categorie, Infos) overwrite only when
// the response carries them; detail fields (Seasons, Movies) overwrite
// whenever present, so a partial response cannot silently drop them.
// ID is the record's identity and never changes.
func merge(dst, src *cinema.Serie) {
	if src.Title != "" {
		dst.Title = src.Title
	}
	if src.Categorie != "" {
		dst.Categorie = src.Categorie
	}
	if src.Infos != (cinema.SerieInfos{}) {
		dst.Infos = src.Infos
	}
	if src.Seasons != nil {
		dst.Seasons = src.Seasons
	}
	if src.Movies != nil {
		dst.Movies = src.Movies
	}
}

// Find returns the cached series with the given ID, or nil. Pure lookup,
// no network.
func (c *Cache) Find(seriesID string) *cinema.Serie {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := range c.series {
		if c.series[i].ID == seriesID {
			return &c.series[i]
		}
	}
	return nil
}

// Series returns a snapshot of the cached list in catalog order.
func (c *Cache) Series() []cinema.Serie {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]cinema.Serie, len(c.series))
	copy(out, c.series)
	return out
}
