package report

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeDaily  = "daily"
	TypeWeekly = "weekly"

	// StatusQueued means the run was archived and its notification sits in
	// the outbox. Delivery state lives on the outbox event itself.
	StatusQueued = "queued"
)

// ReportRun is an archived report with its rendered body. Seq comes from
// the report_counters sequence and orders runs per type.
type ReportRun struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq         int64     `gorm:"not null;index"`
	Type        string    `gorm:"type:varchar(16);not null;index"`
	PeriodStart time.Time `gorm:"not null"`
	PeriodEnd   time.Time `gorm:"not null"`
	GeneratedAt time.Time `gorm:"not null"`
	Status      string    `gorm:"type:varchar(16);not null"`
	Recipients  string    `gorm:"type:text"`
	Body        string    `gorm:"type:text;not null"`
}

func (ReportRun) TableName() string { return "report_runs" }
