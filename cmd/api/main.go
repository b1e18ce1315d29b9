package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-hotel-reservation/internal/api"
	"github.com/sanosuguru/go-hotel-reservation/internal/api/handler"
	"github.com/sanosuguru/go-hotel-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-hotel-reservation/internal/application"
	"github.com/sanosuguru/go-hotel-reservation/internal/config"
	amqpinfra "github.com/sanosuguru/go-hotel-reservation/internal/infrastructure/amqp"
	"github.com/sanosuguru/go-hotel-reservation/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-hotel-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/tracing"
	"github.com/sanosuguru/go-hotel-reservation/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	logger.Init(cfg.Server.Env, cfg.Log.Level)
	defer logger.Sync()

	if cfg.Auth.JWTSecret == "" {
		logger.Fatal("JWT_SECRET が設定されていません")
	}

	ctx := context.Background()

	// トレーシング（エンドポイント未設定なら no-op）
	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.Server.Env,
	})
	if err != nil {
		logger.Fatal("トレーシング初期化エラー", zap.Error(err))
	}

	// PostgreSQL
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("DB接続エラー", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(db.DB, cfg.Migrations.Path); err != nil {
		logger.Fatal("マイグレーションエラー", zap.Error(err))
	}

	// Redis
	redisClient, err := redisinfra.NewClient(&redisinfra.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Fatal("Redis接続エラー", zap.Error(err))
	}
	defer redisClient.Close()

	m := metrics.Init()

	opts := []application.Option{
		application.WithClock(application.NewSystemClock(cfg.Reservation.Location())),
		application.WithMetrics(m),
		application.WithTracer(tracing.Tracer()),
		application.WithLockTTL(cfg.Reservation.LockTTL),
	}

	// RabbitMQ（URL 未設定ならイベントを送信しない）
	if cfg.Broker.URL != "" {
		publisher, err := amqpinfra.NewPublisher(cfg.Broker.URL, cfg.Broker.Exchange)
		if err != nil {
			logger.Fatal("RabbitMQ接続エラー", zap.Error(err))
		}
		defer publisher.Close()
		opts = append(opts, application.WithPublisher(publisher))
		logger.Info("予約イベントの送信を有効化", zap.String("exchange", cfg.Broker.Exchange))
	}

	reservationRepo := postgres.NewReservationRepository(db)
	opts = append(opts, application.WithNumberSource(application.NewNumberGenerator(
		reservationRepo, cfg.Reservation.NumberPrefix, cfg.Reservation.NumberAttempts,
	)))

	hotelRepo := application.NewCachedHotelRepository(
		postgres.NewHotelRepository(db),
		redisinfra.NewHotelCache(redisClient),
	)

	reservationService := application.NewReservationService(
		postgres.NewTxManager(db),
		reservationRepo,
		postgres.NewRoomRepository(db),
		hotelRepo,
		postgres.NewUserRepository(db),
		redisinfra.NewLockManager(redisClient),
		opts...,
	)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	middleware.SetupMiddleware(e)
	e.Use(middleware.PrometheusMiddleware(m))

	healthHandler := handler.NewHealthHandler(
		handler.HealthCheck{Name: "postgres", Check: func(ctx context.Context) error { return postgres.Ping(ctx, db) }},
		handler.HealthCheck{Name: "redis", Check: func(ctx context.Context) error { return redisinfra.Ping(ctx, redisClient) }},
	)
	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.MetricsBasicAuth(cfg.Metrics))

	v1 := e.Group("/api/v1", middleware.JWTAuth(cfg.Auth.JWTSecret))
	handler.NewReservationHandler(reservationService).RegisterRoutes(v1)

	// 予約件数の集計ワーカー
	workerCtx, stopWorker := context.WithCancel(ctx)
	statsCollector := worker.NewReservationStatsCollector(reservationService, m, cfg.Worker.StatsInterval)
	go statsCollector.Start(workerCtx)

	go func() {
		logger.Info("サーバー起動", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.Env))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	statsCollector.Stop()
	stopWorker()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("サーバーシャットダウンエラー", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("トレーシング停止エラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
