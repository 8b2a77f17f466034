package notification

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_outbox_repo.go -destination=mock/notification_outbox_repo_mock.go -package=mock
type OutboxRepository interface {
	WithTx(tx *gorm.DB) OutboxRepository
	Create(ctx context.Context, event *OutboxEvent) error
	ListDue(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

type outboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) WithTx(tx *gorm.DB) OutboxRepository {
	return &outboxRepository{db: tx}
}

func (r *outboxRepository) Create(ctx context.Context, event *OutboxEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Status == "" {
		event.Status = StatusPending
	}
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *outboxRepository) ListDue(ctx context.Context, limit int) ([]OutboxEvent, error) {
	var events []OutboxEvent
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Where("next_attempt_at IS NULL OR next_attempt_at <= NOW()").
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *outboxRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     StatusSent,
			"sent_at":    gorm.Expr("NOW()"),
			"last_error": "",
		}).Error
}

// MarkFailed bumps the attempt counter with exponential backoff. Raw SQL
// keeps the increment and the status decision atomic under concurrent
// relays.
func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return r.db.WithContext(ctx).Exec(`
UPDATE outbox_events
SET
	attempts = attempts + 1,
	last_error = LEFT(?, 500),
	status = CASE WHEN attempts + 1 >= ? THEN ? ELSE ? END,
	next_attempt_at = NOW() + (POWER(2, LEAST(attempts + 1, 8)) * INTERVAL '5 seconds')
WHERE id = ?
`, reason, MaxAttempts, StatusFailed, StatusPending, id).Error
}
