package models

import "time"

// CollectionRun audits one execution of a collection task.
type CollectionRun struct {
	ID      string `gorm:"primaryKey;type:varchar(36)"`
	Task    string `gorm:"type:varchar(32);not null;index"`
	Trigger string `gorm:"type:varchar(16);not null;comment:schedule/manual/cli"`
	Status  string `gorm:"type:varchar(16);not null;index;comment:running/succeeded/failed"`

	Extracted     int    `gorm:"not null;default:0"`
	ExtractMethod string `gorm:"type:varchar(16)"`
	Rejected      int    `gorm:"not null;default:0"`
	Processed     int    `gorm:"not null;default:0"`
	Duplicates    int    `gorm:"not null;default:0"`
	Created       int    `gorm:"not null;default:0"`
	Error         string `gorm:"type:text"`

	StartedAt  time.Time  `gorm:"type:timestamptz;not null;index"`
	FinishedAt *time.Time `gorm:"type:timestamptz"`
	CreatedAt  time.Time  `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"type:timestamptz;autoUpdateTime"`
}

func (CollectionRun) TableName() string {
	return "collection_runs"
}

const (
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)
