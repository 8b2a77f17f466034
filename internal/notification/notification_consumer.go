package notification

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Muhannad-Khaled/Ailigent/internal/config"
	"github.com/Muhannad-Khaled/Ailigent/internal/events"
)

const dispatchGuardTTL = 24 * time.Hour

// EmployeeNotifier pushes a message to an employee's linked Telegram chat.
type EmployeeNotifier interface {
	NotifyEmployee(ctx context.Context, employeeID int64, text string) error
}

// EmailChannel and WebhookChannel are what the dispatcher needs from the
// concrete senders.
type EmailChannel interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}

type WebhookChannel interface {
	Send(ctx context.Context, eventType string, data []byte) error
}

// MessageFetcher is the slice of *kafkago.Reader the consumer needs.
type MessageFetcher interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Dispatcher fans a notification event out to the enabled channels. A nil
// channel means it is disabled.
type Dispatcher struct {
	email    EmailChannel
	webhook  WebhookChannel
	telegram EmployeeNotifier
	guard    *redis.Client
	notify   config.Notify
	logger   *zap.Logger
}

func NewDispatcher(
	email EmailChannel,
	webhook WebhookChannel,
	telegram EmployeeNotifier,
	guard *redis.Client,
	notify config.Notify,
	logger ...*zap.Logger,
) *Dispatcher {
	l := zap.L().Named("notification.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.dispatcher")
	}

	if email == nil {
		l.Info("email channel disabled")
	}
	if webhook == nil {
		l.Info("webhook channel disabled")
	}
	if telegram == nil {
		l.Info("telegram channel disabled")
	}

	return &Dispatcher{
		email:    email,
		webhook:  webhook,
		telegram: telegram,
		guard:    guard,
		notify:   notify,
		logger:   l,
	}
}

// Dispatch routes one Kafka message. Undecodable payloads are treated as
// poison: logged and dropped so the topic keeps moving. Channel failures
// return an error and leave the idempotency guard unset so a later fetch
// can retry.
func (d *Dispatcher) Dispatch(ctx context.Context, msg kafkago.Message) error {
	eventID := headerValue(msg, "event_id")
	eventType := headerValue(msg, "event_type")

	if eventType == "" {
		d.logger.Error("message without event_type header, dropping",
			zap.String("key", string(msg.Key)))
		return nil
	}

	if d.alreadyDispatched(ctx, eventID) {
		d.logger.Debug("event already dispatched, skipping", zap.String("event_id", eventID))
		return nil
	}

	subject, body, err := renderMessage(eventType, msg.Value)
	if err != nil {
		d.logger.Error("render notification failed, dropping",
			zap.String("event_id", eventID),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return nil
	}

	attempted := 0
	failed := 0

	if d.webhook != nil {
		attempted++
		if err := d.webhook.Send(ctx, eventType, msg.Value); err != nil {
			failed++
			d.logger.Error("webhook channel failed", zap.String("event_id", eventID), zap.Error(err))
		}
	}

	if d.email != nil {
		if recipients := d.emailRecipients(eventType, msg.Value); len(recipients) > 0 {
			attempted++
			if err := d.email.Send(ctx, recipients, subject, body); err != nil {
				failed++
				d.logger.Error("email channel failed", zap.String("event_id", eventID), zap.Error(err))
			}
		}
	}

	if d.telegram != nil {
		if employeeID := telegramTarget(eventType, msg.Value); employeeID > 0 {
			attempted++
			if err := d.telegram.NotifyEmployee(ctx, employeeID, body); err != nil {
				failed++
				d.logger.Error("telegram channel failed", zap.String("event_id", eventID), zap.Error(err))
			}
		}
	}

	if attempted > 0 && failed == attempted {
		return errors.New("all notification channels failed")
	}

	d.markDispatched(ctx, eventID)
	return nil
}

func (d *Dispatcher) alreadyDispatched(ctx context.Context, eventID string) bool {
	if d.guard == nil || eventID == "" {
		return false
	}
	n, err := d.guard.Exists(ctx, guardKey(eventID)).Result()
	if err != nil {
		d.logger.Warn("idempotency lookup failed", zap.Error(err))
		return false
	}
	return n > 0
}

func (d *Dispatcher) markDispatched(ctx context.Context, eventID string) {
	if d.guard == nil || eventID == "" {
		return
	}
	if err := d.guard.SetNX(ctx, guardKey(eventID), 1, dispatchGuardTTL).Err(); err != nil {
		d.logger.Warn("idempotency mark failed", zap.Error(err))
	}
}

func guardKey(eventID string) string {
	return "ailigent:dispatched:" + eventID
}

// emailRecipients picks the audience per event type. Report recipients
// travel inside the payload; operational alerts go to the configured
// manager or HR lists.
func (d *Dispatcher) emailRecipients(eventType string, payload []byte) []string {
	switch eventType {
	case events.TypeReportReady:
		var ev events.ReportReadyEvent
		if err := json.Unmarshal(payload, &ev); err == nil && len(ev.Recipients) > 0 {
			return ev.Recipients
		}
		return d.notify.HREmails
	case events.TypeTaskEscalation, events.TypeWorkloadAlert:
		return d.notify.ManagerEmails
	case events.TypeContractExpiring, events.TypeAttendanceAnomaly, events.TypeInterviewReminder:
		return d.notify.HREmails
	default:
		return nil
	}
}

// telegramTarget returns the employee to ping for employee-facing events,
// zero otherwise.
func telegramTarget(eventType string, payload []byte) int64 {
	if eventType != events.TypeTaskOverdue {
		return 0
	}
	var ev events.TaskOverdueEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return 0
	}
	return ev.EmployeeID
}

func headerValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

// ConsumeNotifications reads the notification topic and dispatches every
// message until ctx is cancelled.
func ConsumeNotifications(
	ctx context.Context,
	reader MessageFetcher,
	dispatcher *Dispatcher,
	logger *zap.Logger,
) {
	log := logger.Named("notification.consumer")
	log.Info("notification consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("notification consumer stopped")
				return
			}
			log.Error("fetch notification message failed", zap.Error(err))
			continue
		}

		if err := dispatcher.Dispatch(ctx, msg); err != nil {
			log.Error("dispatch notification failed",
				zap.String("event_type", headerValue(msg, "event_type")),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit notification message failed", zap.Error(err))
			continue
		}
	}
}
