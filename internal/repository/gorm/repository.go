package gormrepository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketevents/internal/models"
	"marketevents/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// InsertPublishedEvents writes ledger rows, skipping keys already present.
func (s *Store) InsertPublishedEvents(ctx context.Context, items []models.PublishedEvent) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_date"}, {Name: "description_key"}},
		DoNothing: true,
	}).CreateInBatches(items, 200).Error
}

func (s *Store) ListPublishedKeys(ctx context.Context, sinceDate string) ([]repository.PublishedKey, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.PublishedEvent{}).Select("event_date", "description_key")
	if strings.TrimSpace(sinceDate) != "" {
		query = query.Where("event_date >= ?", strings.TrimSpace(sinceDate))
	}
	var out []repository.PublishedKey
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ListPublishedEvents(ctx context.Context, params repository.ListPublishedEventsParams) ([]models.PublishedEvent, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyPublishedFilters(s.db.WithContext(ctx).Model(&models.PublishedEvent{}), params)
	query = applyOrder(query, publishedOrderColumn(params.OrderBy), params.Asc, "created_at")
	var items []models.PublishedEvent
	if err := query.Limit(normalizeLimit(params.Limit, 100)).Offset(normalizeOffset(params.Offset)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountPublishedEvents(ctx context.Context, params repository.ListPublishedEventsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	err := applyPublishedFilters(s.db.WithContext(ctx).Model(&models.PublishedEvent{}), params).Count(&total).Error
	return total, err
}

func applyPublishedFilters(query *gorm.DB, params repository.ListPublishedEventsParams) *gorm.DB {
	if params.Task != nil && strings.TrimSpace(*params.Task) != "" {
		query = query.Where("task = ?", strings.TrimSpace(*params.Task))
	}
	if params.Kind != nil && strings.TrimSpace(*params.Kind) != "" {
		query = query.Where("kind = ?", strings.TrimSpace(*params.Kind))
	}
	if params.Sentiment != nil && strings.TrimSpace(*params.Sentiment) != "" {
		query = query.Where("sentiment = ?", strings.TrimSpace(*params.Sentiment))
	}
	if params.DateFrom != nil && strings.TrimSpace(*params.DateFrom) != "" {
		query = query.Where("event_date >= ?", strings.TrimSpace(*params.DateFrom))
	}
	if params.DateTo != nil && strings.TrimSpace(*params.DateTo) != "" {
		query = query.Where("event_date <= ?", strings.TrimSpace(*params.DateTo))
	}
	return query
}

func publishedOrderColumn(orderBy string) string {
	switch strings.TrimSpace(orderBy) {
	case "event_date", "created_at", "event_time", "sentiment":
		return strings.TrimSpace(orderBy)
	default:
		return ""
	}
}

func (s *Store) CreateCollectionRun(ctx context.Context, item *models.CollectionRun) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdateCollectionRun(ctx context.Context, item *models.CollectionRun) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) ListCollectionRuns(ctx context.Context, params repository.ListCollectionRunsParams) ([]models.CollectionRun, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyRunFilters(s.db.WithContext(ctx).Model(&models.CollectionRun{}), params)
	orderBy := ""
	switch strings.TrimSpace(params.OrderBy) {
	case "started_at", "created", "task":
		orderBy = strings.TrimSpace(params.OrderBy)
	}
	query = applyOrder(query, orderBy, params.Asc, "started_at")
	var items []models.CollectionRun
	if err := query.Limit(normalizeLimit(params.Limit, 50)).Offset(normalizeOffset(params.Offset)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountCollectionRuns(ctx context.Context, params repository.ListCollectionRunsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	err := applyRunFilters(s.db.WithContext(ctx).Model(&models.CollectionRun{}), params).Count(&total).Error
	return total, err
}

func applyRunFilters(query *gorm.DB, params repository.ListCollectionRunsParams) *gorm.DB {
	if params.Task != nil && strings.TrimSpace(*params.Task) != "" {
		query = query.Where("task = ?", strings.TrimSpace(*params.Task))
	}
	if params.Status != nil && strings.TrimSpace(*params.Status) != "" {
		query = query.Where("status = ?", strings.TrimSpace(*params.Status))
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("started_at >= ?", *params.Since)
	}
	return query
}

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
