package distribution

import (
	"time"

	"github.com/google/uuid"
)

// WorkloadSnapshot is one employee's utilization at a point in time,
// persisted on every balance run.
type WorkloadSnapshot struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	TakenAt      time.Time `gorm:"not null;index"`
	EmployeeID   int64     `gorm:"not null;index"`
	EmployeeName string    `gorm:"type:varchar(255);not null"`
	Utilization  float64   `gorm:"not null"`
	Status       string    `gorm:"type:varchar(32);not null"`
}

func (WorkloadSnapshot) TableName() string { return "workload_snapshots" }

// BottleneckAlert records a congested stage. The unresolved alert for a
// stage is refreshed in place instead of duplicated.
type BottleneckAlert struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DetectedAt time.Time `gorm:"not null;index"`
	StageID    int64     `gorm:"not null;index"`
	StageName  string    `gorm:"type:varchar(255);not null"`
	Ratio      float64   `gorm:"not null"`
	Severity   string    `gorm:"type:varchar(16);not null"`
	Resolved   bool      `gorm:"not null;default:false"`
}

func (BottleneckAlert) TableName() string { return "bottleneck_alerts" }
