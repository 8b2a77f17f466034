package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/Muhannad-Khaled/Ailigent/internal/bootstrap"
	"github.com/Muhannad-Khaled/Ailigent/internal/config"
	"github.com/Muhannad-Khaled/Ailigent/internal/distribution"
	"github.com/Muhannad-Khaled/Ailigent/internal/health"
	"github.com/Muhannad-Khaled/Ailigent/internal/middleware"
	"github.com/Muhannad-Khaled/Ailigent/internal/notification"
	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
	"github.com/Muhannad-Khaled/Ailigent/internal/report"
	"github.com/Muhannad-Khaled/Ailigent/internal/shared/connection"
	"github.com/Muhannad-Khaled/Ailigent/internal/shared/counter"
)

// RunAPI wires the HTTP service: the Odoo-backed domain modules, the
// Postgres-backed analytics, the scheduler and the health probes. It
// blocks until a shutdown signal arrives.
func RunAPI() error {
	cfg := config.Load()

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Postgres, 5)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := migrate(gormDB); err != nil {
		return err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis, 5)
	if err != nil {
		return err
	}
	defer rdb.Close()

	odooClient, err := odoo.NewClient(cfg.Odoo)
	if err != nil {
		return err
	}

	// An unreachable ERP must not keep the API down; calls reconnect
	// lazily and the ready probe reports the outage.
	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := odooClient.Connect(connectCtx); err != nil {
		zap.L().Warn("ERP not reachable at startup", zap.Error(err))
	}
	cancel()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestContext(zap.L()))
	router.Use(middleware.RateLimitByIP(rate.Limit(cfg.HTTP.RateLimitRPS), cfg.HTTP.RateBurst))

	registerHealth(router, cfg, odooClient, sqlDBPinger{gormDB}, rdb)

	registry, err := registerModules(router, cfg, gormDB, rdb, odooClient)
	if err != nil {
		return err
	}

	registry.Start()
	defer registry.Stop()

	bootstrap.StartHTTPServer(router, bootstrap.ServerConfig{
		Port:         cfg.HTTP.Port,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}, bootstrap.NewStdoutAuditLogger())

	return nil
}

// migrate creates the handful of tables this service owns. Business
// records stay in the ERP, so a migration tool would be overkill.
func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&notification.OutboxEvent{},
		&report.ReportRun{},
		&distribution.WorkloadSnapshot{},
		&distribution.BottleneckAlert{},
		&counter.Sequence{},
	)
}

type sqlDBPinger struct {
	db *gorm.DB
}

func (p sqlDBPinger) ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func registerHealth(router *gin.Engine, cfg config.Config, odooClient *odoo.Client, pg sqlDBPinger, rdb *redis.Client) {
	checker := health.NewChecker()
	checker.Register("odoo", func(ctx context.Context) error {
		_, err := odooClient.Version(ctx)
		return err
	})
	checker.Register("postgres", pg.ping)
	checker.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	checker.Register("kafka", func(ctx context.Context) error {
		conn, err := kafkago.DialContext(ctx, "tcp", cfg.Kafka.Broker)
		if err != nil {
			return err
		}
		return conn.Close()
	})
	health.RegisterRoutes(router, health.NewHandler(checker))
}
