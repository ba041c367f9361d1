package player_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jodu555/cinewatch/internal/player"
	"github.com/jodu555/cinewatch/pkg/cinema"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeCatalog resolves series from a fixed map.
type fakeCatalog struct {
	series map[string]*cinema.Serie
}

func (f *fakeCatalog) Find(seriesID string) *cinema.Serie {
	return f.series[seriesID]
}

// twoSeasonSerie has two seasons plus two movies, with differing
// language tracks so fallback paths are reachable.
func twoSeasonSerie() *cinema.Serie {
	return &cinema.Serie{
		ID:    "show",
		Title: "Some Show",
		Seasons: [][]cinema.Episode{
			{
				{Season: 1, Episode: 1, Langs: []cinema.Lang{cinema.GerDub, cinema.GerSub}},
				{Season: 1, Episode: 2, Langs: []cinema.Lang{cinema.EngDub, cinema.EngSub}},
			},
			{
				{Season: 2, Episode: 1, Langs: []cinema.Lang{cinema.EngSub}},
			},
		},
		Movies: []cinema.Movie{
			{PrimaryName: "Film One", Langs: []cinema.Lang{cinema.GerDub}},
			{PrimaryName: "Film Two", Langs: []cinema.Lang{cinema.EngDub, cinema.EngSub}},
		},
	}
}

// movieOnlySerie has no seasons at all.
func movieOnlySerie() *cinema.Serie {
	return &cinema.Serie{
		ID:     "film",
		Title:  "Just Films",
		Movies: []cinema.Movie{{PrimaryName: "Solo", Langs: []cinema.Lang{cinema.EngDub}}},
	}
}

func newTestCoordinator(series ...*cinema.Serie) *player.Coordinator {
	cat := &fakeCatalog{series: make(map[string]*cinema.Serie)}
	for _, s := range series {
		cat.series[s.ID] = s
	}
	return player.NewCoordinator(cat, cinema.GerDub, testLogger())
}

func TestCoordinator_InitialState(t *testing.T) {
	c := newTestCoordinator()

	sel := c.Snapshot()
	assert.Empty(t, sel.SeriesID)
	assert.Equal(t, -1, sel.MovieIndex)
	assert.Equal(t, 1, sel.Season)
	assert.Equal(t, 1, sel.Episode)
	assert.Equal(t, cinema.GerDub, sel.Language)
	assert.False(t, sel.MovieAddressed())
}

func TestCoordinator_SelectSeries_DoesNotTouchEntityOrLanguage(t *testing.T) {
	c := newTestCoordinator(twoSeasonSerie())
	c.SelectLanguage(cinema.GerSub)

	c.SelectSeries("show")

	sel := c.Snapshot()
	assert.Equal(t, "show", sel.SeriesID)
	assert.Equal(t, 1, sel.Season)
	assert.Equal(t, 1, sel.Episode)
	assert.Equal(t, cinema.GerSub, sel.Language)
}

func TestCoordinator_SelectMovie_EntersMovieRegime(t *testing.T) {
	c := newTestCoordinator(twoSeasonSerie())
	c.SelectSeries("show")

	c.SelectMovie(2)

	sel := c.Snapshot()
	assert.Equal(t, 2, sel.MovieIndex)
	assert.Equal(t, 0, sel.Season, "episode addressing cleared")
	assert.Equal(t, -1, sel.Episode)
	assert.True(t, sel.MovieAddressed())

	movie, ok := c.ResolveEntity().(*cinema.Movie)
	require.True(t, ok)
	assert.Equal(t, "Film Two", movie.PrimaryName)
}

func TestCoordinator_SelectSeason_LandsOnEpisodeOne(t *testing.T) {
	c := newTestCoordinator(twoSeasonSerie())
	c.SelectSeries("show")
	c.SelectMovie(1)

	c.SelectSeason(2)

	sel := c.Snapshot()
	assert.Equal(t, -1, sel.MovieIndex, "strictly episode-addressed after season select")
	assert.Equal(t, 2, sel.Season)
	assert.Equal(t, 1, sel.Episode)

	ep, ok := c.ResolveEntity().(*cinema.Episode)
	require.True(t, ok)
	assert.Equal(t, 2, ep.Season)
	assert.Equal(t, 1, ep.Episode)
}

func TestCoordinator_SelectEpisode_KeepsSeason(t *testing.T) {
	c := newTestCoordinator(twoSeasonSerie())
	c.SelectSeries("show")
	c.SelectSeason(1)

	c.SelectEpisode(2)

	sel := c.Snapshot()
	assert.Equal(t, 1, sel.Season)
	assert.Equal(t, 2, sel.Episode)
}

func TestCoordinator_SelectEpisode_WhileMovieAddressed(t *testing.T) {
	c := newTestCoordinator(twoSeasonSerie())
	c.SelectSeries("show")
	c.SelectMovie(1)

	// The movie selector shadows episode coordinates.
	c.SelectEpisode(2)

	sel := c.Snapshot()
	assert.Equal(t, 1, sel.MovieIndex)
	assert.True(t, sel.MovieAddressed())
}

func TestCoordinator_MovieOnlySeries_AlwaysRoutesThroughMovies(t *testing.T) {
	c := newTestCoordinator(movieOnlySerie())
	c.SelectSeries("film")
	c.SelectMovie(1)

	// Season/episode navigation cannot produce an addressed entity when
	// the series has no seasons.
	c.SelectSeason(1)
	assert.Nil(t, c.ResolveEntity())
	c.SelectEpisode(1)
	assert.Nil(t, c.ResolveEntity())

	c.SelectMovie(1)
	movie, ok := c.ResolveEntity().(*cinema.Movie)
	require.True(t, ok)
	assert.Equal(t, "Solo", movie.PrimaryName)
}

func TestCoordinator_ResolveEntity_UnresolvedSeries(t *testing.T) {
	c := newTestCoordinator()
	c.SelectSeries("missing")

	assert.Nil(t, c.ResolveEntity())
}

func TestCoordinator_ResolveEntity_OutOfBounds(t *testing.T) {
	c := newTestCoordinator(twoSeasonSerie())
	c.SelectSeries("show")

	c.SelectMovie(99)
	assert.Nil(t, c.ResolveEntity())

	c.SelectSeason(99)
	assert.Nil(t, c.ResolveEntity())

	c.SelectSeason(1)
	c.SelectEpisode(99)
	assert.Nil(t, c.ResolveEntity())
}

func TestCoordinator_LanguageFallback_FirstDeclaredTrack(t *testing.T) {
	c := newTestCoordinator(twoSeasonSerie())
	c.SelectSeries("show")
	c.SelectSeason(1)
	assert.Equal(t, cinema.GerDub, c.Language())

	// Episode 2 carries [EngDub, EngSub]; GerDub is unavailable, so the
	// first declared track wins.
	c.SelectEpisode(2)
	assert.Equal(t, cinema.EngDub, c.Language())
}

func TestCoordinator_LanguageRetention_ValidChoiceKept(t *testing.T) {
	c := newTestCoordinator(twoSeasonSerie())
	c.SelectSeries("show")
	c.SelectSeason(1)
	c.SelectEpisode(2)
	c.SelectLanguage(cinema.EngSub)

	// EngSub is valid on episode 2 already; re-landing on it keeps the
	// explicit choice.
	c.SelectEpisode(2)
	assert.Equal(t, cinema.EngSub, c.Language())
}

func TestCoordinator_SelectLanguage_InvalidChoiceCorrectedImmediately(t *testing.T) {
	c := newTestCoordinator(twoSeasonSerie())
	c.SelectSeries("show")
	c.SelectSeason(2) // only EngSub available

	c.SelectLanguage(cinema.GerDub)
	assert.Equal(t, cinema.EngSub, c.Language())
}

func TestCoordinator_SelectLanguage_UnresolvableEntityKeepsChoice(t *testing.T) {
	c := newTestCoordinator()
	c.SelectSeries("not-hydrated-yet")

	c.SelectLanguage(cinema.EngSubK)
	assert.Equal(t, cinema.EngSubK, c.Language(),
		"language stays as-is until the entity becomes resolvable")
}

func TestCoordinator_Refresh_ReappliesFallbackAfterHydration(t *testing.T) {
	cat := &fakeCatalog{series: map[string]*cinema.Serie{}}
	c := player.NewCoordinator(cat, cinema.GerDub, testLogger())

	c.SelectSeries("show")
	c.SelectSeason(2) // unresolvable: catalog empty, language stays GerDub
	assert.Equal(t, cinema.GerDub, c.Language())

	// Hydration lands.
	cat.series["show"] = twoSeasonSerie()
	c.Refresh()

	assert.Equal(t, cinema.EngSub, c.Language(),
		"availability invariant restored once the entity resolves")
}

func TestCoordinator_MovieToSeasonRoundTrip(t *testing.T) {
	c := newTestCoordinator(twoSeasonSerie())
	c.SelectSeries("show")

	c.SelectMovie(1)
	require.True(t, c.Snapshot().MovieAddressed())

	c.SelectSeason(1)
	sel := c.Snapshot()
	require.False(t, sel.MovieAddressed())

	ep, ok := c.ResolveEntity().(*cinema.Episode)
	require.True(t, ok)
	assert.Equal(t, 1, ep.Season)
	assert.Equal(t, 1, ep.Episode)
}
