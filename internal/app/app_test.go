package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/jodu555/cinewatch/internal/config"
	"github.com/jodu555/cinewatch/internal/events"
	"github.com/jodu555/cinewatch/internal/state"
	"github.com/jodu555/cinewatch/pkg/cinema"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testServer simulates enough of cinema-api for end-to-end flows.
func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	writeJSON := func(w http.ResponseWriter, v any) {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			panic("test: failed to encode JSON: " + err.Error())
		}
	}

	index := []cinema.Serie{
		{ID: "show", Title: "Some Show", Infos: cinema.SerieInfos{StartDate: "2020"}},
		{ID: "film", Title: "Just Films"},
	}
	details := map[string]cinema.Serie{
		"show": {
			ID: "show",
			Seasons: [][]cinema.Episode{
				{
					{Season: 1, Episode: 1, Langs: []cinema.Lang{cinema.GerDub, cinema.GerSub}},
					{Season: 1, Episode: 2, Langs: []cinema.Lang{cinema.EngDub, cinema.EngSub}},
				},
			},
			Movies: []cinema.Movie{{PrimaryName: "Film One", Langs: []cinema.Lang{cinema.EngDub}}},
		},
		"film": {
			ID:     "film",
			Movies: []cinema.Movie{{PrimaryName: "Solo", Langs: []cinema.Lang{cinema.EngDub}}},
		},
	}
	watch := []cinema.WatchItem{
		{ID: "show", Season: 1, Episode: 1, Time: 512.5, Watched: true},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Username != "alice" || body.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, map[string]string{"token": "tok-123"})
	})
	mux.HandleFunc("GET /auth/info", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("auth-token") != "tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, cinema.AuthInfo{UUID: "uuid-1", Username: "alice"})
	})

	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("auth-token") != "tok-123" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next(w, r)
		}
	}
	mux.HandleFunc("GET /index", authed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, index)
	}))
	mux.HandleFunc("GET /index/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		d, ok := details[r.PathValue("id")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, d)
	}))
	mux.HandleFunc("GET /watch/info", authed(func(w http.ResponseWriter, r *http.Request) {
		var out []cinema.WatchItem
		for _, item := range watch {
			if item.ID == r.URL.Query().Get("series") {
				out = append(out, item)
			}
		}
		writeJSON(w, out)
	}))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestApp(t *testing.T, serverURL string) *App {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	store, err := state.NewStore(db)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Server.URL = serverURL

	client := cinema.New(cinema.WithBaseURL(serverURL), cinema.WithLogger(testLogger()))
	a := newApp(cfg, testLogger(), client, store)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestApp_LoginAndBootstrap(t *testing.T) {
	server := testServer(t)
	a := newTestApp(t, server.URL)
	ctx := context.Background()

	a.Login(ctx, "alice", "secret")
	require.True(t, a.Session.Authenticated())
	assert.Equal(t, "alice", a.Session.Info().Username)

	a.RefreshCatalog(ctx)
	assert.Len(t, a.Catalog.Series(), 2)
	assert.Empty(t, a.Status.Err())
}

func TestApp_WatchFlow(t *testing.T) {
	server := testServer(t)
	a := newTestApp(t, server.URL)
	ctx := context.Background()

	a.Login(ctx, "alice", "secret")
	a.RefreshCatalog(ctx)

	a.OpenSeries(ctx, "show")

	// Initial selection resolves to season 1 episode 1 once hydrated.
	ep, ok := a.Player.ResolveEntity().(*cinema.Episode)
	require.True(t, ok)
	assert.Equal(t, 1, ep.Episode)

	// Episode 2 has no GerDub; the language falls back.
	a.SelectEpisode(2)
	assert.Equal(t, cinema.EngDub, a.Player.Language())

	loc, ok := a.Locator()
	require.True(t, ok)
	assert.Equal(t,
		server.URL+"/video?auth-token=tok-123&series=show&season=1&episode=2&language=EngDub",
		loc.Address)

	// Resume data comes from the watch log.
	item, ok := a.Resume()
	require.True(t, ok)
	assert.InDelta(t, 512.5, item.Time, 0.001)
	assert.True(t, a.Watch.IsWatched("show", 1, 1))
	assert.False(t, a.Watch.IsWatched("show", 1, 2))
}

func TestApp_LocatorEventsOnlyOnAddressChange(t *testing.T) {
	server := testServer(t)
	a := newTestApp(t, server.URL)
	ctx := context.Background()

	a.Login(ctx, "alice", "secret")
	a.RefreshCatalog(ctx)
	a.OpenSeries(ctx, "show")

	ch := a.Bus.Subscribe(events.EventLocatorChanged, 10)

	a.SelectEpisode(2)
	select {
	case e := <-ch:
		assert.Equal(t, events.EventLocatorChanged, e.EventType())
	case <-time.After(time.Second):
		t.Fatal("expected a locator change")
	}

	// Re-selecting the same episode derives the same address: no event.
	a.SelectEpisode(2)
	select {
	case <-ch:
		t.Fatal("unchanged address must not emit a locator change")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestApp_SessionRestoreAcrossInstances(t *testing.T) {
	server := testServer(t)

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	store, err := state.NewStore(db)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Server.URL = server.URL
	client := cinema.New(cinema.WithBaseURL(server.URL), cinema.WithLogger(testLogger()))
	ctx := context.Background()

	first := newApp(cfg, testLogger(), client, store)
	first.Login(ctx, "alice", "secret")
	require.True(t, first.Session.Authenticated())
	_ = first.Bus.Close()

	// A new app over the same store restores the persisted token.
	second := newApp(cfg, testLogger(), client, store)
	second.Bootstrap(ctx)
	assert.True(t, second.Session.Authenticated())
	assert.Equal(t, "alice", second.Session.Info().Username)
	assert.Len(t, second.Catalog.Series(), 2)
}

func TestApp_LogoutThenBootstrap_Unauthenticated(t *testing.T) {
	server := testServer(t)
	a := newTestApp(t, server.URL)
	ctx := context.Background()

	a.Login(ctx, "alice", "secret")
	a.Logout(ctx)

	a.Bootstrap(ctx)

	assert.Equal(t, "", a.Session.Token())
	assert.False(t, a.Session.Authenticated())
	assert.Empty(t, a.Catalog.Series(), "no catalog fetch without a token")
	assert.NotEmpty(t, a.Status.Err(), "failed profile fetch is recorded, not fatal")
}

func TestApp_Sync(t *testing.T) {
	server := testServer(t)
	a := newTestApp(t, server.URL)
	ctx := context.Background()

	a.Login(ctx, "alice", "secret")
	a.OpenSeries(ctx, "show")

	require.NoError(t, a.Sync(ctx))
	assert.Len(t, a.Catalog.Series(), 2)
	assert.True(t, a.Watch.IsWatched("show", 1, 1))
}

func TestApp_StaleTokenBootstrap(t *testing.T) {
	server := testServer(t)
	ctx := context.Background()

	// Seed a stale token directly into the vault.
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	store, err := state.NewStore(db)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, state.KeyAuthToken, "stale"))

	cfg := config.Default()
	cfg.Server.URL = server.URL
	client := cinema.New(cinema.WithBaseURL(server.URL), cinema.WithLogger(testLogger()))
	stale := newApp(cfg, testLogger(), client, store)
	stale.Bootstrap(ctx)

	// Token restored but profile rejected: error recorded, no abort.
	assert.Equal(t, "stale", stale.Session.Token())
	assert.Empty(t, stale.Session.Info().Username)
	assert.Contains(t, stale.Status.Err(), "authenticate")
}
