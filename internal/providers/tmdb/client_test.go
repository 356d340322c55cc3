package tmdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"themerr/internal/providers/tmdb"
	"themerr/internal/services"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := tmdb.New("", "https://example.com"); err == nil {
		t.Fatal("expected error when api key missing")
	}
}

func TestDetailsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/105" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("api_key") != "key" {
			t.Fatalf("expected api_key query parameter, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":105,"title":"Back to the Future","imdb_id":"tt0088763"}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	payload, err := client.Details(context.Background(), "movie", 105)
	if err != nil {
		t.Fatalf("Details returned error: %v", err)
	}
	if payload["title"] != "Back to the Future" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestDetailsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status_code":34}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	_, err = client.Details(context.Background(), "tv", 999999)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestDetailsRejectsInvalidInput(t *testing.T) {
	client, err := tmdb.New("key", "https://example.com")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Details(context.Background(), "", 1); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := client.Details(context.Background(), "movie", 0); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
