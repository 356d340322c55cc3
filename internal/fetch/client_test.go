package fetch_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"themerr/internal/fetch"
)

func noBackoff(int) time.Duration { return 0 }

func TestDoReturnsFirstSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(server.Close)

	client := fetch.New(fetch.WithBackoff(noBackoff))
	resp, err := client.Do(context.Background(), fetch.Request{URL: server.URL})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(body) != "ok" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestDoRetriesDisallowedStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(server.Close)

	client := fetch.New(fetch.WithBackoff(noBackoff))
	resp, err := client.Do(context.Background(), fetch.Request{URL: server.URL})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	_ = resp.Body.Close()

	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestDoExhaustionReturnsSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := fetch.New(fetch.WithBackoff(noBackoff), fetch.WithMaxAttempts(3))
	_, err := client.Do(context.Background(), fetch.Request{URL: server.URL})
	if !errors.Is(err, fetch.ErrRetriesExhausted) {
		t.Fatalf("expected ErrRetriesExhausted, got %v", err)
	}
}

func TestDoAcceptsConfiguredStatuses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(server.Close)

	client := fetch.New(fetch.WithBackoff(noBackoff), fetch.WithMaxAttempts(1))
	resp, err := client.Do(context.Background(), fetch.Request{
		URL:           server.URL,
		Method:        http.MethodPost,
		AllowStatuses: []int{http.StatusOK, http.StatusCreated},
	})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	_ = resp.Body.Close()
}

func TestDoStopsWhenContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := fetch.New(fetch.WithBackoff(func(int) time.Duration { return time.Second }))
	_, err := client.Do(ctx, fetch.Request{URL: server.URL})
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if errors.Is(err, fetch.ErrRetriesExhausted) {
		t.Fatalf("expected context error before exhaustion, got %v", err)
	}
}
