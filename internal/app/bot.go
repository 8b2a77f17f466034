package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Muhannad-Khaled/Ailigent/internal/agent"
	"github.com/Muhannad-Khaled/Ailigent/internal/attendance"
	"github.com/Muhannad-Khaled/Ailigent/internal/config"
	"github.com/Muhannad-Khaled/Ailigent/internal/employee"
	"github.com/Muhannad-Khaled/Ailigent/internal/leave"
	"github.com/Muhannad-Khaled/Ailigent/internal/notification"
	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
	"github.com/Muhannad-Khaled/Ailigent/internal/payroll"
	"github.com/Muhannad-Khaled/Ailigent/internal/policy"
	"github.com/Muhannad-Khaled/Ailigent/internal/shared/connection"
	"github.com/Muhannad-Khaled/Ailigent/internal/task"
	"github.com/Muhannad-Khaled/Ailigent/internal/telegram"
)

// RunBot long-polls Telegram and answers commands, the account-linking
// dialog and free-form questions until a shutdown signal arrives.
func RunBot() error {
	logger := zap.L().Named("app.bot")
	cfg := config.Load()

	if cfg.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.Gemini.APIKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY is required")
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Postgres, 5)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis, 5)
	if err != nil {
		return err
	}
	defer rdb.Close()

	odooClient, err := odoo.NewClient(cfg.Odoo)
	if err != nil {
		return err
	}
	cache := odoo.NewCache(rdb)

	employeeService := employee.NewService(employee.NewRepository(odooClient, cache))
	taskService := task.NewService(task.NewRepository(odooClient, cache), employeeService)
	leaveService := leave.NewService(leave.NewRepository(odooClient, cache))
	payrollService := payroll.NewService(payroll.NewRepository(odooClient, cache))
	attendanceService := attendance.NewService(attendance.NewRepository(odooClient, cache))
	policyRepo := policy.NewRepository(odooClient, cache)

	enqueuer := notification.NewEnqueuer(notification.NewOutboxRepository(gormDB))
	links := telegram.NewLinkService(
		telegram.NewRepository(odooClient),
		employeeService,
		rdb,
		enqueuer,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	toolset := agent.NewToolset(
		employeeService, leaveService, payrollService,
		attendanceService, taskService, policyRepo,
	)
	assistant, err := agent.New(ctx, cfg.Gemini, toolset)
	if err != nil {
		return err
	}
	defer assistant.Close()

	bot := telegram.NewBot(
		telegram.NewClient(cfg.Telegram),
		telegram.NewConversationStore(rdb),
		links,
		telegram.BotServices{
			Employees:  employeeService,
			Leaves:     leaveService,
			Payslips:   payrollService,
			Attendance: attendanceService,
			Tasks:      taskService,
			Policies:   policyRepo,
		},
		assistant,
		cfg.Telegram.PollTimeout,
	)

	go bot.Run(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("bot shutting down")
	cancel()

	return nil
}
