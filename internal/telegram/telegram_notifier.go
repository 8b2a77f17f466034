package telegram

import (
	"context"

	"go.uber.org/zap"
)

// Notifier delivers dispatcher events to linked chats. It satisfies
// notification.EmployeeNotifier.
type Notifier struct {
	api    API
	links  LinkService
	logger *zap.Logger
}

func NewNotifier(api API, links LinkService, logger ...*zap.Logger) *Notifier {
	l := zap.L().Named("telegram.notifier")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("telegram.notifier")
	}
	return &Notifier{api: api, links: links, logger: l}
}

// NotifyEmployee sends text to the employee's linked chat. An employee
// without a link is skipped, not failed, so the outbox event completes.
func (n *Notifier) NotifyEmployee(ctx context.Context, employeeID int64, text string) error {
	chatID, err := n.links.ChatForEmployee(ctx, employeeID)
	if err != nil {
		return err
	}
	if chatID == 0 {
		n.logger.Debug("employee has no linked chat", zap.Int64("employee_id", employeeID))
		return nil
	}

	return n.api.SendMessage(ctx, OutgoingMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: ParseModeMarkdown,
	})
}
