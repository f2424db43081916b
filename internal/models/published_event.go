package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PublishedEvent is the local ledger of records written to the document
// store. (event_date, description_key) is the deduplication key. Columns fed
// by model text are unbounded so one long value cannot fail a batch insert.
type PublishedEvent struct {
	ID             uint64 `gorm:"primaryKey;autoIncrement"`
	Task           string `gorm:"type:varchar(32);not null;index;comment:采集任务"`
	Kind           string `gorm:"type:varchar(16);not null;comment:general/earnings"`
	EventDate      string `gorm:"type:varchar(10);not null;uniqueIndex:uniq_published_event_key,priority:1;comment:事件日期"`
	DescriptionKey string `gorm:"type:text;not null;uniqueIndex:uniq_published_event_key,priority:2;comment:小写事件描述"`
	Description    string `gorm:"type:text;not null"`
	EventTime      string `gorm:"type:varchar(16)"`
	EventType      string `gorm:"type:text;index"`
	MarketPhase    string `gorm:"type:varchar(16)"`

	Sentiment       string `gorm:"type:text;index"`
	ConfidenceLevel string `gorm:"type:varchar(16)"`
	SourceName      string `gorm:"type:text"`
	SourceURL       string `gorm:"type:text"`

	StockCode   *string          `gorm:"type:text;index"`
	EPSForecast *decimal.Decimal `gorm:"type:numeric(12,4);comment:每股收益预期"`

	NotionPageID string         `gorm:"type:varchar(64);index"`
	RunID        string         `gorm:"type:varchar(36);index"`
	Record       datatypes.JSON `gorm:"type:jsonb;comment:完整事件记录"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (PublishedEvent) TableName() string {
	return "published_events"
}
