package publish

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketevents/internal/config"
	"marketevents/internal/notion"
)

func noWait(context.Context, time.Duration) error { return nil }

func TestRetryingStore_RecoversFromServerError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, `{"message":"unavailable"}`)
			return
		}
		_, _ = io.WriteString(w, `{"id":"new-page","url":"https://notion.so/new-page"}`)
	}))
	defer srv.Close()

	store := NewRetryingStore(notion.NewClient(srv.Client(), srv.URL, "secret", ""), config.RetryConfig{MaxAttempts: 3, BaseDelay: time.Second}, nil)
	store.Retrier.Sleep = noWait

	page, err := store.CreatePage(context.Background(), notion.CreatePageRequest{Parent: notion.Parent{PageID: "parent"}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if page.ID != "new-page" || calls != 2 {
		t.Fatalf("expected new-page after 2 calls, got %q after %d", page.ID, calls)
	}
}

func TestRetryingStore_ClientErrorIsFinal(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"validation failed"}`)
	}))
	defer srv.Close()

	store := NewRetryingStore(notion.NewClient(srv.Client(), srv.URL, "secret", ""), config.RetryConfig{MaxAttempts: 3}, nil)
	store.Retrier.Sleep = noWait

	_, err := store.QueryDatabase(context.Background(), "db1")
	var apiErr *notion.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("expected APIError 400, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestRetryingStore_RateLimitExhaustsBudget(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	store := NewRetryingStore(notion.NewClient(srv.Client(), srv.URL, "secret", ""), config.RetryConfig{MaxAttempts: 3}, nil)
	store.Retrier.Sleep = noWait

	if _, err := store.QueryDatabase(context.Background(), "db1"); err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}
