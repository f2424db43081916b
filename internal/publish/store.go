package publish

import (
	"context"

	"go.uber.org/zap"

	"marketevents/internal/config"
	"marketevents/internal/llm"
	"marketevents/internal/metrics"
	"marketevents/internal/notion"
)

// RetryingStore repeats document store requests that fail with a rate
// limit, a server error or a transport error, using the same backoff as
// completion calls.
type RetryingStore struct {
	Store   DocumentStore
	Retrier *llm.Retrier
}

// NewRetryingStore wraps store with the configured retry budget.
func NewRetryingStore(store DocumentStore, cfg config.RetryConfig, logger *zap.Logger) *RetryingStore {
	return &RetryingStore{
		Store: store,
		Retrier: &llm.Retrier{
			MaxAttempts: cfg.MaxAttempts,
			BaseDelay:   cfg.BaseDelay,
			Logger:      logger,
			Retryable:   notion.Retryable,
			OnRetry:     func(op string) { metrics.StoreRetries.WithLabelValues(op).Inc() },
		},
	}
}

func (s *RetryingStore) QueryDatabase(ctx context.Context, databaseID string) ([]notion.Page, error) {
	return llm.Retry(ctx, s.Retrier, "notion_query", func(ctx context.Context) ([]notion.Page, error) {
		return s.Store.QueryDatabase(ctx, databaseID)
	})
}

// CreatePage is retried as a whole; a page whose response was lost may be
// created twice.
func (s *RetryingStore) CreatePage(ctx context.Context, req notion.CreatePageRequest) (*notion.Page, error) {
	return llm.Retry(ctx, s.Retrier, "notion_create_page", func(ctx context.Context) (*notion.Page, error) {
		return s.Store.CreatePage(ctx, req)
	})
}
