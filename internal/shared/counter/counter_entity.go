package counter

import "time"

// Sequence backs the named counters. Next works through raw SQL; the
// struct exists so startup migration can create the table.
type Sequence struct {
	Name      string    `gorm:"primaryKey;size:64"`
	LastValue int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Sequence) TableName() string { return "report_counters" }
