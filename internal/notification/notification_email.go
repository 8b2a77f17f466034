package notification

import (
	"context"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/Muhannad-Khaled/Ailigent/internal/config"
)

// EmailSender delivers plain-text notification mail over SMTP.
type EmailSender struct {
	client *mail.Client
	from   string
	logger *zap.Logger
}

func NewEmailSender(cfg config.SMTP, logger ...*zap.Logger) (*EmailSender, error) {
	l := zap.L().Named("notification.email")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.email")
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	}
	if cfg.UseTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, err
	}

	return &EmailSender{client: client, from: cfg.From, logger: l}, nil
}

func (s *EmailSender) Send(ctx context.Context, recipients []string, subject, body string) error {
	if len(recipients) == 0 {
		s.logger.Debug("no recipients, skipping mail", zap.String("subject", subject))
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return err
	}
	if err := msg.To(recipients...); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		s.logger.Error("send mail failed",
			zap.String("subject", subject),
			zap.Int("recipients", len(recipients)),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("mail sent",
		zap.String("subject", subject),
		zap.Int("recipients", len(recipients)),
	)
	return nil
}
