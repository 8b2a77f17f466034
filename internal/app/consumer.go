package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Muhannad-Khaled/Ailigent/internal/config"
	"github.com/Muhannad-Khaled/Ailigent/internal/employee"
	"github.com/Muhannad-Khaled/Ailigent/internal/events"
	"github.com/Muhannad-Khaled/Ailigent/internal/notification"
	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
	"github.com/Muhannad-Khaled/Ailigent/internal/shared/connection"
	"github.com/Muhannad-Khaled/Ailigent/internal/telegram"
)

// RunConsumer reads the notification topic and dispatches every event to
// the configured channels. Channels without credentials stay disabled.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")
	cfg := config.Load()

	if cfg.Kafka.Broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis, 5)
	if err != nil {
		return err
	}
	defer rdb.Close()

	var email notification.EmailChannel
	if cfg.SMTP.Host != "" {
		sender, err := notification.NewEmailSender(cfg.SMTP)
		if err != nil {
			return err
		}
		email = sender
	}

	var webhook notification.WebhookChannel
	if cfg.Webhook.URL != "" {
		webhook = notification.NewWebhookSender(cfg.Webhook)
	}

	var employeeChat notification.EmployeeNotifier
	if cfg.Telegram.BotToken != "" {
		gormDB, err := connection.ConnectGORMWithRetry(cfg.Postgres, 5)
		if err != nil {
			return err
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		odooClient, err := odoo.NewClient(cfg.Odoo)
		if err != nil {
			return err
		}

		employeeService := employee.NewService(
			employee.NewRepository(odooClient, odoo.NewCache(rdb)),
		)
		links := telegram.NewLinkService(
			telegram.NewRepository(odooClient),
			employeeService,
			rdb,
			notification.NewEnqueuer(notification.NewOutboxRepository(gormDB)),
		)
		employeeChat = telegram.NewNotifier(telegram.NewClient(cfg.Telegram), links)
	}

	dispatcher := notification.NewDispatcher(email, webhook, employeeChat, rdb, cfg.Notify)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.Topic,
		GroupID:        cfg.Kafka.GroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go notification.ConsumeNotifications(ctx, reader, dispatcher, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
