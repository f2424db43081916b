package repository

import (
	"context"
	"time"

	"marketevents/internal/models"
)

// Repository is the local ledger: published events for deduplication and
// listing, and the collection run audit trail.
type Repository interface {
	InsertPublishedEvents(ctx context.Context, items []models.PublishedEvent) error
	ListPublishedKeys(ctx context.Context, sinceDate string) ([]PublishedKey, error)
	ListPublishedEvents(ctx context.Context, params ListPublishedEventsParams) ([]models.PublishedEvent, error)
	CountPublishedEvents(ctx context.Context, params ListPublishedEventsParams) (int64, error)

	CreateCollectionRun(ctx context.Context, item *models.CollectionRun) error
	UpdateCollectionRun(ctx context.Context, item *models.CollectionRun) error
	ListCollectionRuns(ctx context.Context, params ListCollectionRunsParams) ([]models.CollectionRun, error)
	CountCollectionRuns(ctx context.Context, params ListCollectionRunsParams) (int64, error)
}

// PublishedKey is the deduplication key of a ledger row.
type PublishedKey struct {
	EventDate      string
	DescriptionKey string
}

type ListPublishedEventsParams struct {
	Limit     int
	Offset    int
	Task      *string
	Kind      *string
	Sentiment *string
	DateFrom  *string
	DateTo    *string
	OrderBy   string
	Asc       *bool
}

type ListCollectionRunsParams struct {
	Limit   int
	Offset  int
	Task    *string
	Status  *string
	Since   *time.Time
	OrderBy string
	Asc     *bool
}
