// Package app wires one user session together: client, stores, session
// manager, catalog, watch log, coordinator and event bus, with the
// shared status slots owned here instead of process-wide globals.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jodu555/cinewatch/internal/catalog"
	"github.com/jodu555/cinewatch/internal/config"
	"github.com/jodu555/cinewatch/internal/events"
	"github.com/jodu555/cinewatch/internal/player"
	"github.com/jodu555/cinewatch/internal/session"
	"github.com/jodu555/cinewatch/internal/state"
	"github.com/jodu555/cinewatch/internal/status"
	"github.com/jodu555/cinewatch/internal/watchlog"
	"github.com/jodu555/cinewatch/pkg/cinema"
)

// App is the per-session composition root. One instance per active user
// session; nothing here is process-global.
type App struct {
	cfg    *config.Config
	log    *slog.Logger
	client *cinema.Client
	store  *state.Store

	Status  *status.Status
	Session *session.Manager
	Catalog *catalog.Cache
	Watch   *watchlog.Log
	Player  *player.Coordinator
	Bus     *events.Bus

	mu          sync.Mutex
	lastAddress string
}

// New builds a fully wired App from configuration. logger may be nil.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client := cinema.New(
		cinema.WithBaseURL(cfg.Server.URL),
		cinema.WithHTTPClient(&http.Client{Timeout: cfg.Server.Timeout}),
		cinema.WithLogger(logger),
	)

	store, err := state.Open(cfg.State.Path)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}

	return newApp(cfg, logger, client, store), nil
}

// newApp wires the components. Split from New so tests can inject a
// client pointed at a test server and an in-memory store.
func newApp(cfg *config.Config, logger *slog.Logger, client *cinema.Client, store *state.Store) *App {
	st := status.New()
	sess := session.NewManager(client, store, st, logger)

	a := &App{
		cfg:     cfg,
		log:     logger.With("component", "app"),
		client:  client,
		store:   store,
		Status:  st,
		Session: sess,
		Catalog: catalog.NewCache(client, sess, st, logger),
		Watch:   watchlog.NewLog(client, sess, st, logger),
		Bus:     events.NewBus(logger),
	}
	a.Player = player.NewCoordinator(a.Catalog, cfg.Playback.DefaultLanguage, logger)
	return a
}

// Close releases the state store and shuts down the event bus.
func (a *App) Close() error {
	_ = a.Bus.Close()
	return a.store.Close()
}

// Bootstrap restores any persisted session and, when it yields a token,
// refreshes the catalog list.
func (a *App) Bootstrap(ctx context.Context) {
	a.Session.RestoreAndAuthenticate(ctx)
	a.publishSession()

	if a.Session.Authenticated() {
		a.RefreshCatalog(ctx)
	}
}

// Login authenticates and, on success, pulls the profile and catalog.
func (a *App) Login(ctx context.Context, username, password string) {
	a.Session.Login(ctx, username, password)
	if a.Session.Authenticated() {
		a.Session.RestoreAndAuthenticate(ctx)
	}
	a.publishSession()
}

// Logout invalidates the session.
func (a *App) Logout(ctx context.Context) {
	a.Session.Logout(ctx)
	a.publishSession()
}

// RefreshCatalog refreshes the summary-level series list.
func (a *App) RefreshCatalog(ctx context.Context) {
	a.Catalog.RefreshList(ctx)
	if a.Status.Err() == "" {
		a.Bus.Publish(events.CatalogRefreshed{
			BaseEvent: events.NewBaseEvent(events.EventCatalogRefreshed, ""),
			Count:     len(a.Catalog.Series()),
		})
	}
}

// OpenSeries selects a series and hydrates it, then refreshes its watch
// log, mirroring the navigation into the watch screen.
func (a *App) OpenSeries(ctx context.Context, seriesID string) {
	a.Player.SelectSeries(seriesID)
	a.Catalog.Hydrate(ctx, seriesID)
	a.Watch.Refresh(ctx, seriesID)

	// The selection may have been made against pre-hydration bounds.
	a.Player.Refresh()
	a.publishSelection()
}

// Sync refreshes the catalog list and the selected series' watch log
// concurrently. Overlapping calls race by design: last write wins, there
// is no request coalescing or cancellation.
func (a *App) Sync(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.RefreshCatalog(ctx)
		return nil
	})

	if seriesID := a.Player.SeriesID(); seriesID != "" {
		g.Go(func() error {
			a.Watch.Refresh(ctx, seriesID)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	a.Player.Refresh()
	return nil
}

// SelectMovie, SelectSeason, SelectEpisode and SelectLanguage delegate
// to the coordinator and publish the resulting selection.

func (a *App) SelectMovie(index int) {
	a.Player.SelectMovie(index)
	a.publishSelection()
}

func (a *App) SelectSeason(season int) {
	a.Player.SelectSeason(season)
	a.publishSelection()
}

func (a *App) SelectEpisode(episode int) {
	a.Player.SelectEpisode(episode)
	a.publishSelection()
}

func (a *App) SelectLanguage(lang cinema.Lang) {
	a.Player.SelectLanguage(lang)
	a.publishSelection()
}

// Locator derives the playback descriptor for the current selection.
// Returns false while the selected series is not in the catalog.
func (a *App) Locator() (player.Locator, bool) {
	sel := a.Player.Snapshot()
	serie := a.Catalog.Find(sel.SeriesID)
	if serie == nil {
		return player.Locator{}, false
	}
	return player.BuildLocator(a.client.BaseURL(), serie, sel, a.Session.Token()), true
}

// Resume returns a watched record for the selected series, to offer
// jumping to the latest watch position.
func (a *App) Resume() (cinema.WatchItem, bool) {
	seriesID := a.Player.SeriesID()
	if seriesID == "" {
		return cinema.WatchItem{}, false
	}
	return a.Watch.LatestWatched(seriesID)
}

// ReportProgress feeds a playback timestamp from the rendering surface
// back onto the bus.
func (a *App) ReportProgress(time float64) {
	sel := a.Player.Snapshot()
	a.Bus.Publish(events.PlaybackProgress{
		BaseEvent:  events.NewBaseEvent(events.EventPlaybackProgress, sel.SeriesID),
		MovieIndex: sel.MovieIndex,
		Season:     sel.Season,
		Episode:    sel.Episode,
		Language:   sel.Language,
		Time:       time,
	})
}

func (a *App) publishSession() {
	a.Bus.Publish(events.SessionChanged{
		BaseEvent:     events.NewBaseEvent(events.EventSessionChanged, ""),
		Authenticated: a.Session.Authenticated(),
		Username:      a.Session.Info().Username,
	})
}

// publishSelection emits SelectionChanged, and LocatorChanged only when
// the derived address actually differs from the previous one.
func (a *App) publishSelection() {
	sel := a.Player.Snapshot()
	a.Bus.Publish(events.SelectionChanged{
		BaseEvent:  events.NewBaseEvent(events.EventSelectionChanged, sel.SeriesID),
		MovieIndex: sel.MovieIndex,
		Season:     sel.Season,
		Episode:    sel.Episode,
		Language:   sel.Language,
	})

	loc, ok := a.Locator()
	if !ok {
		return
	}

	a.mu.Lock()
	changed := loc.Address != a.lastAddress
	if changed {
		a.lastAddress = loc.Address
	}
	a.mu.Unlock()

	if changed {
		a.Bus.Publish(events.LocatorChanged{
			BaseEvent: events.NewBaseEvent(events.EventLocatorChanged, sel.SeriesID),
			Address:   loc.Address,
			Title:     loc.Title,
		})
	}
}
