package notification

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// MaxAttempts is how often the relay tries an event before marking it
// failed for good.
const MaxAttempts = 5

// Aggregate types stamped on outbox rows and Kafka headers.
const (
	AggregateTask      = "task"
	AggregateEmployee  = "employee"
	AggregateReport    = "report"
	AggregateContract  = "contract"
	AggregateInterview = "interview"
	AggregateTelegram  = "telegram"
)

// OutboxEvent is a notification waiting in Postgres until the relay
// pushes it to Kafka. Rows are inserted in the same transaction as the
// write that triggered them.
type OutboxEvent struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EventType     string     `gorm:"type:varchar(64);not null;index"`
	AggregateType string     `gorm:"type:varchar(64);not null"`
	AggregateID   string     `gorm:"type:varchar(64);not null"`
	Payload       string     `gorm:"type:jsonb;not null"`
	Status        string     `gorm:"type:varchar(16);not null;default:'pending';index"`
	Attempts      int        `gorm:"not null;default:0"`
	LastError     string     `gorm:"type:varchar(500)"`
	NextAttemptAt *time.Time `gorm:"index"`
	CreatedAt     time.Time
	SentAt        *time.Time
}

func (OutboxEvent) TableName() string { return "outbox_events" }
