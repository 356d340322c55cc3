package pipeline_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"themerr/internal/catalog"
	"themerr/internal/database"
	"themerr/internal/fetch"
	"themerr/internal/logging"
	"themerr/internal/pipeline"
	"themerr/internal/providers/igdb"
	"themerr/internal/providers/tmdb"
	"themerr/internal/report"
)

func fastFetcher() *fetch.Client {
	return fetch.New(
		fetch.WithMaxAttempts(2),
		fetch.WithBackoff(func(int) time.Duration { return 0 }),
	)
}

func newIGDBServer(t *testing.T, games map[string]map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":3600}`))
	})
	mux.HandleFunc("/games", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		for key, game := range games {
			if containsQueryKey(string(body), key) {
				_ = json.NewEncoder(w).Encode([]map[string]any{game})
				return
			}
		}
		_, _ = w.Write([]byte(`[]`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func containsQueryKey(query, key string) bool {
	return strings.Contains(query, "("+key+")") || strings.Contains(query, `("`+key+`")`)
}

func newTMDBServer(t *testing.T, payloads map[string]map[string]any) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, ok := payloads[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"status_code":34}`))
			return
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(server.Close)
	return server
}

func seedRecord(t *testing.T, root string, categoryName string, record database.Record) {
	t.Helper()
	category, ok := catalog.ByName(categoryName)
	if !ok {
		t.Fatalf("category %q missing", categoryName)
	}
	store := database.NewStore(root, logging.NewNop())
	if _, err := store.Write(category, record); err != nil {
		t.Fatalf("seed record: %v", err)
	}
}

func TestDailyRunRefreshesAndAggregates(t *testing.T) {
	root := t.TempDir()
	reportDir := t.TempDir()

	seedRecord(t, root, "movie", database.Record{
		"id":                  float64(105),
		"title":               "Stale Title",
		"imdb_id":             "tt0088763",
		"youtube_theme_url":   "https://www.youtube.com/watch?v=keep",
		"youtube_theme_added": float64(1000),
	})
	seedRecord(t, root, "movie", database.Record{
		"id":                  float64(106),
		"title":               "Doomed",
		"youtube_theme_added": float64(2000),
	})
	seedRecord(t, root, "game", database.Record{
		"id":                  float64(7346),
		"name":                "The Witness",
		"youtube_theme_added": float64(86400 * 2),
	})

	tmdbServer := newTMDBServer(t, map[string]map[string]any{
		"/movie/105": {
			"id":      float64(105),
			"title":   "Back to the Future",
			"imdb_id": "tt0088763",
		},
		// /movie/106 intentionally missing: upstream dropped the item.
	})
	igdbServer := newIGDBServer(t, map[string]map[string]any{
		"7346": {"id": float64(7346), "name": "The Witness", "slug": "the-witness"},
	})

	tmdbClient, err := tmdb.New("key", tmdbServer.URL, tmdb.WithFetchClient(fastFetcher()))
	if err != nil {
		t.Fatalf("tmdb.New returned error: %v", err)
	}
	igdbClient, err := igdb.New("id", "secret", igdbServer.URL, igdbServer.URL+"/oauth2/token", igdb.WithFetchClient(fastFetcher()))
	if err != nil {
		t.Fatalf("igdb.New returned error: %v", err)
	}

	store := database.NewStore(root, logging.NewNop())
	resolver := pipeline.NewResolver(igdbClient, tmdbClient, store, logging.NewNop())
	reporter := report.NewWriter(reportDir, logging.NewNop())
	pool := pipeline.New(resolver, reporter, logging.NewNop(), 4)

	daily := pipeline.NewDaily(store, pool, logging.NewNop())
	if err := daily.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// Refreshed record keeps its theme url and takes upstream values.
	movie, found, err := store.Load(mustCategory(t, "movie"), 105)
	if err != nil || !found {
		t.Fatalf("load refreshed movie: %v %v", found, err)
	}
	if movie.String("title") != "Back to the Future" {
		t.Fatalf("movie not refreshed: %v", movie)
	}
	if movie.String("youtube_theme_url") != "https://www.youtube.com/watch?v=keep" {
		t.Fatalf("theme url lost in refresh: %v", movie)
	}

	// The failed item is reported but does not abort the run.
	if pool.Failed() != 1 {
		t.Fatalf("expected 1 failed task, got %d", pool.Failed())
	}
	exceptions, err := os.ReadFile(filepath.Join(reportDir, "exceptions.md"))
	if err != nil {
		t.Fatalf("read exceptions: %v", err)
	}
	if !strings.Contains(string(exceptions), "Exception Occurred") {
		t.Fatalf("missing incident block:\n%s", exceptions)
	}

	// Aggregates for the movies group. Movie listing entries always carry
	// the imdb_id key.
	moviesGroup := filepath.Join(root, "movies")
	var moviePage []map[string]any
	data, err := os.ReadFile(filepath.Join(moviesGroup, "all_page_1.json"))
	if err != nil {
		t.Fatalf("read movies listing: %v", err)
	}
	if err := json.Unmarshal(data, &moviePage); err != nil {
		t.Fatalf("decode movies listing: %v", err)
	}
	if len(moviePage) != 1 {
		t.Fatalf("unexpected movies listing: %+v", moviePage)
	}
	if got, present := moviePage[0]["imdb_id"]; !present || got != "tt0088763" {
		t.Fatalf("movie entry missing imdb_id: %+v", moviePage[0])
	}
	var summary database.PageSummary
	data, err = os.ReadFile(filepath.Join(moviesGroup, "pages.json"))
	if err != nil {
		t.Fatalf("read pages.json: %v", err)
	}
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatalf("decode pages.json: %v", err)
	}
	if summary.Count != 1 || summary.Pages != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.IMDBCount == nil || *summary.IMDBCount != 1 {
		t.Fatalf("unexpected imdb count: %+v", summary.IMDBCount)
	}

	if _, err := os.Stat(filepath.Join(moviesGroup, "movies_plot.json")); err != nil {
		t.Fatalf("missing adoption series: %v", err)
	}

	// Aggregates for the games group, listing page included. Game entries
	// never carry the imdb_id key.
	var page []map[string]any
	data, err = os.ReadFile(filepath.Join(root, "games", "all_page_1.json"))
	if err != nil {
		t.Fatalf("read games listing: %v", err)
	}
	if err := json.Unmarshal(data, &page); err != nil {
		t.Fatalf("decode games listing: %v", err)
	}
	if len(page) != 1 || page[0]["title"] != "The Witness" {
		t.Fatalf("unexpected games listing: %+v", page)
	}
	if _, present := page[0]["imdb_id"]; present {
		t.Fatalf("game entry should omit imdb_id: %+v", page[0])
	}
}

func TestDailyRunRequiresExclusiveLock(t *testing.T) {
	root := t.TempDir()
	held := flock.New(filepath.Join(root, "daily.lock"))
	locked, err := held.TryLock()
	if err != nil {
		t.Fatalf("TryLock returned error: %v", err)
	}
	if !locked {
		t.Fatal("could not take the lock for the test")
	}
	defer func() {
		_ = held.Unlock()
	}()

	store := database.NewStore(root, logging.NewNop())
	resolver := pipeline.NewResolver(nil, nil, store, logging.NewNop())
	reporter := report.NewWriter(t.TempDir(), logging.NewNop())
	pool := pipeline.New(resolver, reporter, logging.NewNop(), 1)

	daily := pipeline.NewDaily(store, pool, logging.NewNop())
	err = daily.Run(context.Background())
	if err == nil {
		t.Fatal("expected Run to refuse while the lock is held")
	}
	if !strings.Contains(err.Error(), "lock") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func mustCategory(t *testing.T, name string) catalog.Category {
	t.Helper()
	category, ok := catalog.ByName(name)
	if !ok {
		t.Fatalf("category %q missing", name)
	}
	return category
}
