package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Muhannad-Khaled/Ailigent/internal/agent"
	"github.com/Muhannad-Khaled/Ailigent/internal/attendance"
	"github.com/Muhannad-Khaled/Ailigent/internal/config"
	"github.com/Muhannad-Khaled/Ailigent/internal/contract"
	"github.com/Muhannad-Khaled/Ailigent/internal/distribution"
	"github.com/Muhannad-Khaled/Ailigent/internal/employee"
	"github.com/Muhannad-Khaled/Ailigent/internal/leave"
	"github.com/Muhannad-Khaled/Ailigent/internal/middleware"
	"github.com/Muhannad-Khaled/Ailigent/internal/notification"
	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
	"github.com/Muhannad-Khaled/Ailigent/internal/payroll"
	"github.com/Muhannad-Khaled/Ailigent/internal/policy"
	"github.com/Muhannad-Khaled/Ailigent/internal/recruitment"
	"github.com/Muhannad-Khaled/Ailigent/internal/report"
	"github.com/Muhannad-Khaled/Ailigent/internal/scheduler"
	"github.com/Muhannad-Khaled/Ailigent/internal/shared/counter"
	"github.com/Muhannad-Khaled/Ailigent/internal/task"
	"github.com/Muhannad-Khaled/Ailigent/internal/voice"
)

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	gormDB *gorm.DB,
	rdb *redis.Client,
	odooClient *odoo.Client,
) (*scheduler.Registry, error) {
	cache := odoo.NewCache(rdb)

	// --- Repositories ---
	employeeRepo := employee.NewRepository(odooClient, cache)
	taskRepo := task.NewRepository(odooClient, cache)
	leaveRepo := leave.NewRepository(odooClient, cache)
	payrollRepo := payroll.NewRepository(odooClient, cache)
	attendanceRepo := attendance.NewRepository(odooClient, cache)
	contractRepo := contract.NewRepository(odooClient, cache)
	recruitmentRepo := recruitment.NewRepository(odooClient)
	policyRepo := policy.NewRepository(odooClient, cache)
	outboxRepo := notification.NewOutboxRepository(gormDB)
	distributionRepo := distribution.NewRepository(gormDB)
	runRepo := report.NewRunRepository(gormDB)
	statsRepo := report.NewStatsRepository(odooClient)
	counterRepo := counter.NewRepository(gormDB)

	// --- Services ---
	enqueuer := notification.NewEnqueuer(outboxRepo)
	employeeService := employee.NewService(employeeRepo)
	taskService := task.NewService(taskRepo, employeeService)
	leaveService := leave.NewService(leaveRepo)
	payrollService := payroll.NewService(payrollRepo)
	attendanceService := attendance.NewService(attendanceRepo)
	contractService := contract.NewService(contractRepo)
	recruitmentService := recruitment.NewService(recruitmentRepo)
	distributionService := distribution.NewService(taskRepo, employeeService, distributionRepo)
	reportService := report.NewService(
		statsRepo, runRepo, counterRepo,
		attendanceService, distributionService, enqueuer, gormDB,
	)
	voiceService := voice.NewTokenService(cfg.Voice)

	// --- Scheduler ---
	registry := scheduler.NewRegistry(zap.L())
	jobs := scheduler.NewJobs(scheduler.Deps{
		Tasks:        taskService,
		Employees:    employeeService,
		Reports:      reportService,
		Distribution: distributionService,
		Attendance:   attendanceService,
		Contracts:    contractService,
		Recruitment:  recruitmentService,
		Outbox:       enqueuer,
	})
	if err := jobs.RegisterAll(registry, cfg.Scheduler); err != nil {
		return nil, err
	}

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	taskHandler := task.NewHandler(taskService)
	leaveHandler := leave.NewHandler(leaveService)
	payrollHandler := payroll.NewHandler(payrollService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	contractHandler := contract.NewHandler(contractService)
	recruitmentHandler := recruitment.NewHandler(recruitmentService)
	distributionHandler := distribution.NewHandler(distributionService)
	reportHandler := report.NewHandler(reportService)
	voiceHandler := voice.NewHandler(voiceService)
	schedulerHandler := scheduler.NewHandler(registry)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(middleware.APIKeyAuth(cfg.Security.APIKey))
	api.Use(middleware.Idempotency(rdb))
	{
		employee.RegisterRoutes(api, employeeHandler)
		task.RegisterRoutes(api, taskHandler)
		leave.RegisterRoutes(api, leaveHandler)
		payroll.RegisterRoutes(api, payrollHandler)
		attendance.RegisterRoutes(api, attendanceHandler)
		contract.RegisterRoutes(api, contractHandler)
		recruitment.RegisterRoutes(api, recruitmentHandler)
		distribution.RegisterRoutes(api, distributionHandler)
		report.RegisterRoutes(api, reportHandler)
		voice.RegisterRoutes(api, voiceHandler)
		scheduler.RegisterRoutes(api, schedulerHandler)
	}

	// Chat stays on Telegram. The API wires the agent for tool
	// introspection and task extraction, and only when a key is set.
	if cfg.Gemini.APIKey != "" {
		toolset := agent.NewToolset(
			employeeService, leaveService, payrollService,
			attendanceService, taskService, policyRepo,
		)
		assistant, err := agent.New(context.Background(), cfg.Gemini, toolset)
		if err != nil {
			return nil, err
		}
		agent.RegisterRoutes(api, agent.NewHandler(assistant))
	} else {
		zap.L().Info("agent routes disabled: no Gemini API key")
	}

	return registry, nil
}
