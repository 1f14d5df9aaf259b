package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/oakfield/care-api/internal/config"
	"github.com/oakfield/care-api/internal/email"
	"github.com/oakfield/care-api/internal/handler"
	authHandler "github.com/oakfield/care-api/internal/handler/auth"
	dailylogHandler "github.com/oakfield/care-api/internal/handler/dailylog"
	dashboardHandler "github.com/oakfield/care-api/internal/handler/dashboard"
	healthHandler "github.com/oakfield/care-api/internal/handler/health"
	medicationHandler "github.com/oakfield/care-api/internal/handler/medication"
	memoryHandler "github.com/oakfield/care-api/internal/handler/memory"
	patientHandler "github.com/oakfield/care-api/internal/handler/patient"
	taskHandler "github.com/oakfield/care-api/internal/handler/task"
	"github.com/oakfield/care-api/internal/middleware"
	"github.com/oakfield/care-api/internal/repository/postgres"
	"github.com/oakfield/care-api/internal/router"
	authService "github.com/oakfield/care-api/internal/service/auth"
	dailylogService "github.com/oakfield/care-api/internal/service/dailylog"
	dashboardService "github.com/oakfield/care-api/internal/service/dashboard"
	medicationService "github.com/oakfield/care-api/internal/service/medication"
	memoryService "github.com/oakfield/care-api/internal/service/memory"
	patientService "github.com/oakfield/care-api/internal/service/patient"
	taskService "github.com/oakfield/care-api/internal/service/task"
	"github.com/oakfield/care-api/pkg/auth"
	"github.com/oakfield/care-api/pkg/logger"
	"github.com/oakfield/care-api/pkg/messaging/redis"
	"github.com/oakfield/care-api/pkg/metrics"
	"github.com/oakfield/care-api/pkg/security"
	"github.com/oakfield/care-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	appMetrics := metrics.NewMetrics("care_api")

	// Repositories
	patientRepo := postgres.NewPatientRepository(db)
	medicationRepo := postgres.NewMedicationRepository(db)
	taskRepo := postgres.NewTaskRepository(db)
	dailyLogRepo := postgres.NewDailyLogRepository(db)
	memoryRepo := postgres.NewMemoryRepository(db)
	userRepo := postgres.NewUserRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)
	dashboardRepo := postgres.NewDashboardRepository(db)

	// Shared infrastructure
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	hasher := security.NewBcryptHasher(0)
	emailSvc := email.NewSMTPService(cfg.Email)

	// Services
	patientSvc := patientService.NewService(patientRepo)
	medicationSvc := medicationService.NewService(medicationRepo, patientRepo, appMetrics)
	taskSvc := taskService.NewService(taskRepo, patientRepo)
	dailyLogSvc := dailylogService.NewService(dailyLogRepo, medicationRepo, patientRepo, appMetrics)
	memorySvc := memoryService.NewService(memoryRepo, patientRepo)
	dashboardSvc := dashboardService.NewService(dashboardRepo, 30*time.Second)
	authSvc := authService.NewService(userRepo, patientRepo, hasher, jwtSvc, emailSvc, cfg.JWT.ExpiryHours, log.Logger)

	// Middleware and handlers
	handler.RegisterValidators()
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc, userRepo)
	handlers := router.Handlers{
		Health:     healthHandler.NewHandler(db),
		Auth:       authHandler.NewHandler(authSvc),
		Patient:    patientHandler.NewHandler(patientSvc, userRepo, outboxRepo),
		Medication: medicationHandler.NewHandler(medicationSvc, cfg.Alerts.WindowMinutes, outboxRepo),
		Task:       taskHandler.NewHandler(taskSvc, outboxRepo),
		DailyLog:   dailylogHandler.NewHandler(dailyLogSvc, outboxRepo),
		Memory:     memoryHandler.NewHandler(memorySvc, userRepo, outboxRepo),
		Dashboard:  dashboardHandler.NewHandler(dashboardSvc),
	}

	r := router.New(authMiddleware, handlers, router.Config{
		RateLimit:     rate.Limit(cfg.RateLimit.RPS),
		RateBurst:     cfg.RateLimit.Burst,
		CORSConfig:    middleware.DefaultCORSConfig(),
		MetricsPrefix: "care_api_http",
	})
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	// Record event feed. The API stays up without Redis; queued events
	// wait in the outbox until the feed returns.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &log.Logger)
	if err != nil {
		log.Warn().Err(err).Msg("record event feed unavailable, events will stay queued")
	} else {
		defer broker.Close()
		processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
			BatchSize:    cfg.Worker.BatchSize,
			PollInterval: cfg.Worker.PollInterval,
			Channel:      cfg.Redis.Channel,
			MaxRetries:   cfg.Worker.MaxRetries,
		}, logger.NewLogger(nil).Component("outbox"), appMetrics)
		go processor.Start(workerCtx)
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")
	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
