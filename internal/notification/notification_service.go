package notification

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Enqueuer interface {
	// Enqueue stores an event in the outbox. Pass the surrounding gorm
	// transaction so the insert commits atomically with the write that
	// triggered it, or nil for a standalone insert.
	Enqueue(ctx context.Context, tx *gorm.DB, eventType, aggregateType, aggregateID string, payload any) error
}

type enqueuer struct {
	repo   OutboxRepository
	logger *zap.Logger
}

func NewEnqueuer(repo OutboxRepository, logger ...*zap.Logger) Enqueuer {
	l := zap.L().Named("notification.enqueuer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.enqueuer")
	}
	return &enqueuer{repo: repo, logger: l}
}

func (e *enqueuer) Enqueue(ctx context.Context, tx *gorm.DB, eventType, aggregateType, aggregateID string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	repo := e.repo
	if tx != nil {
		repo = e.repo.WithTx(tx)
	}

	event := &OutboxEvent{
		EventType:     eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Payload:       string(body),
	}
	if err := repo.Create(ctx, event); err != nil {
		e.logger.Error("enqueue notification failed",
			zap.String("event_type", eventType),
			zap.String("aggregate_id", aggregateID),
			zap.Error(err),
		)
		return err
	}

	e.logger.Debug("notification enqueued",
		zap.String("outbox_id", event.ID.String()),
		zap.String("event_type", eventType),
	)
	return nil
}
