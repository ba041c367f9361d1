// Package player tracks the active playback selection: which series,
// which entity (a movie or a season/episode pair) and which language
// track, and derives the locator handed to the rendering surface.
package player

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/jodu555/cinewatch/pkg/cinema"
)

// EntityRef addresses exactly one watchable entity within a series:
// either a movie or an episode, never both.
type EntityRef interface {
	entityRef()
}

// MovieRef addresses a movie by its 1-based position in the series'
// movie list.
type MovieRef struct {
	Index int
}

// EpisodeRef addresses an episode by 1-based season and episode grid
// position.
type EpisodeRef struct {
	Season  int
	Episode int
}

func (MovieRef) entityRef()   {}
func (EpisodeRef) entityRef() {}

// Entity is a watchable unit, a cinema.Movie or cinema.Episode.
type Entity interface {
	Languages() []cinema.Lang
}

// Resolver looks up series held by the catalog cache.
type Resolver interface {
	Find(seriesID string) *cinema.Serie
}

// Selection is a point-in-time snapshot of the coordinator state,
// expressed in the sentinel convention consumers render against:
// MovieIndex is -1 when episode-addressed; Season/Episode read 0/-1 when
// movie-addressed.
type Selection struct {
	SeriesID   string
	MovieIndex int
	Season     int
	Episode    int
	Language   cinema.Lang
}

// MovieAddressed reports which regime the selection is in.
func (s Selection) MovieAddressed() bool {
	return s.MovieIndex != -1
}

// Coordinator is the selection state machine. All transitions are
// synchronous, total and never fail; every transition that can change
// the addressed entity ends by re-resolving language validity.
type Coordinator struct {
	catalog Resolver
	log     *slog.Logger

	mu       sync.RWMutex
	seriesID string
	ref      EntityRef
	language cinema.Lang
}

// NewCoordinator creates a coordinator with the initial selection:
// season 1, episode 1, in the given default language. logger may be nil.
func NewCoordinator(catalog Resolver, defaultLang cinema.Lang, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		catalog:  catalog,
		log:      logger.With("component", "player"),
		ref:      EpisodeRef{Season: 1, Episode: 1},
		language: defaultLang,
	}
}

// SelectSeries sets the active series. It does not touch the entity or
// language; a consumer typically follows up with SelectMovie or
// SelectSeason/SelectEpisode.
func (c *Coordinator) SelectSeries(seriesID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seriesID = seriesID
}

// SelectMovie addresses the movie at the given 1-based index, leaving
// the episode regime entirely.
func (c *Coordinator) SelectMovie(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ref = MovieRef{Index: index}
	c.resolveLanguageLocked()
}

// SelectSeason addresses the given season, always landing on episode 1.
func (c *Coordinator) SelectSeason(season int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ref = EpisodeRef{Season: season, Episode: 1}
	c.resolveLanguageLocked()
}

// SelectEpisode addresses the given episode within the current season.
// While a movie is addressed the movie selector shadows episode
// coordinates, so the addressed entity does not change.
func (c *Coordinator) SelectEpisode(episode int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ref, ok := c.ref.(EpisodeRef); ok {
		c.ref = EpisodeRef{Season: ref.Season, Episode: episode}
	}
	c.resolveLanguageLocked()
}

// SelectLanguage honors a direct user choice unconditionally, then lets
// language resolution correct it if the addressed entity does not carry
// the track.
func (c *Coordinator) SelectLanguage(lang cinema.Lang) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.language = lang
	c.resolveLanguageLocked()
}

// ResolveEntity returns the addressed entity, or nil while the series is
// unresolved or the selection is out of the hydrated bounds. Nil is the
// expected pre-hydration state, not an error: callers render a loading
// state and re-resolve after the next hydration.
func (c *Coordinator) ResolveEntity() Entity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resolveEntityLocked()
}

func (c *Coordinator) resolveEntityLocked() Entity {
	serie := c.catalog.Find(c.seriesID)
	if serie == nil {
		return nil
	}

	switch ref := c.ref.(type) {
	case MovieRef:
		if ref.Index < 1 || ref.Index > len(serie.Movies) {
			return nil
		}
		return &serie.Movies[ref.Index-1]
	case EpisodeRef:
		if ref.Season < 1 || ref.Season > len(serie.Seasons) {
			return nil
		}
		season := serie.Seasons[ref.Season-1]
		if ref.Episode < 1 || ref.Episode > len(season) {
			return nil
		}
		return &season[ref.Episode-1]
	}
	return nil
}

// resolveLanguageLocked enforces the availability invariant: whenever
// the addressed entity is resolvable, the active language is one of its
// tracks. The last explicit choice is kept when still valid; otherwise
// the entity's first declared track wins. An unresolvable entity leaves
// the language as-is to be re-checked after hydration.
func (c *Coordinator) resolveLanguageLocked() {
	entity := c.resolveEntityLocked()
	if entity == nil {
		return
	}

	langs := entity.Languages()
	if slices.Contains(langs, c.language) {
		return
	}
	if len(langs) == 0 {
		return
	}

	c.log.Debug("language not available, falling back",
		"wanted", c.language, "using", langs[0])
	c.language = langs[0]
}

// Refresh re-runs language resolution against the current catalog
// contents. Called after a hydration lands so a selection made during
// the pre-hydration window regains the availability invariant.
func (c *Coordinator) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resolveLanguageLocked()
}

// SeriesID returns the active series ID, "" when none selected.
func (c *Coordinator) SeriesID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seriesID
}

// Language returns the active language track.
func (c *Coordinator) Language() cinema.Lang {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.language
}

// Snapshot returns the selection in sentinel form.
func (c *Coordinator) Snapshot() Selection {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sel := Selection{
		SeriesID:   c.seriesID,
		MovieIndex: -1,
		Season:     0,
		Episode:    -1,
		Language:   c.language,
	}
	switch ref := c.ref.(type) {
	case MovieRef:
		sel.MovieIndex = ref.Index
	case EpisodeRef:
		sel.Season = ref.Season
		sel.Episode = ref.Episode
	}
	return sel
}
