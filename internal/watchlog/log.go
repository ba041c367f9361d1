// Package watchlog holds per-series watch records fetched from the
// server. The server is authoritative: records are replaced per series,
// never merged, and never mutated locally.
package watchlog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jodu555/cinewatch/internal/status"
	"github.com/jodu555/cinewatch/pkg/cinema"
)

// API is the subset of the cinema client the log needs.
type API interface {
	WatchInfo(ctx context.Context, token, seriesID string) ([]cinema.WatchItem, error)
}

// TokenSource supplies the bearer token for gated fetches.
type TokenSource interface {
	Token() string
}

// Log answers watched/position queries over the locally held records.
type Log struct {
	api    API
	tokens TokenSource
	status *status.Status
	log    *slog.Logger

	mu      sync.RWMutex
	records map[string][]cinema.WatchItem // seriesID -> records in server order
}

// NewLog creates an empty watch log. logger may be nil.
func NewLog(api API, tokens TokenSource, st *status.Status, logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{
		api:     api,
		tokens:  tokens,
		status:  st,
		log:     logger.With("component", "watchlog"),
		records: make(map[string][]cinema.WatchItem),
	}
}

// Refresh fetches all watch records for one series, replacing that
// series' local set wholesale. Other series' records are untouched.
func (l *Log) Refresh(ctx context.Context, seriesID string) {
	l.status.Begin()
	defer l.status.Done()

	items, err := l.api.WatchInfo(ctx, l.tokens.Token(), seriesID)
	if err != nil {
		l.status.Fail("refresh watch log: " + err.Error())
		l.log.Warn("watch log refresh failed", "series", seriesID, "error", err)
		return
	}

	l.mu.Lock()
	l.records[seriesID] = items
	l.mu.Unlock()

	l.log.Debug("watch log refreshed", "series", seriesID, "count", len(items))
}

// IsWatched reports whether a record exists for the given episode with
// watched set.
func (l *Log) IsWatched(seriesID string, season, episode int) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, item := range l.records[seriesID] {
		if item.ID == seriesID && item.Season == season && item.Episode == episode && item.Watched {
			return true
		}
	}
	return false
}

// LatestWatched returns a watched record for the series, to offer resume
// playback. When multiple exist, the first in server order is returned;
// the choice is stable across calls while the underlying data is
// unchanged.
func (l *Log) LatestWatched(seriesID string) (cinema.WatchItem, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, item := range l.records[seriesID] {
		if item.ID == seriesID && item.Watched {
			return item, true
		}
	}
	return cinema.WatchItem{}, false
}

// Position returns the last known playback offset for an episode.
func (l *Log) Position(seriesID string, season, episode int) (float64, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, item := range l.records[seriesID] {
		if item.ID == seriesID && item.Season == season && item.Episode == episode {
			return item.Time, true
		}
	}
	return 0, false
}

// Records returns a snapshot of the records held for a series.
func (l *Log) Records(seriesID string) []cinema.WatchItem {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]cinema.WatchItem, len(l.records[seriesID]))
	copy(out, l.records[seriesID])
	return out
}
