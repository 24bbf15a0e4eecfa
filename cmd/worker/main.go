package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/salonsuite/salon-api/internal/config"
	"github.com/salonsuite/salon-api/internal/email"
	"github.com/salonsuite/salon-api/internal/repository/postgres"
	internalworker "github.com/salonsuite/salon-api/internal/worker"
	"github.com/salonsuite/salon-api/pkg/logger"
	"github.com/salonsuite/salon-api/pkg/messaging/redis"
	"github.com/salonsuite/salon-api/pkg/metrics"
	"github.com/salonsuite/salon-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	lg := logger.New(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Pretty:     cfg.Logging.Pretty,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		lg.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	brokerLogger := lg.ZL.With().Str("component", "redis").Logger()
	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &brokerLogger)
	if err != nil {
		lg.Fatal(err, "failed to connect to Redis")
	}
	defer broker.Close()

	m := metrics.New("salon_worker")

	appointmentRepo := postgres.NewAppointmentRepository(db)
	clientRepo := postgres.NewClientRepository(db)
	professionalRepo := postgres.NewProfessionalRepository(db)
	serviceRepo := postgres.NewServiceRepository(db)
	productRepo := postgres.NewProductRepository(db)
	reminderRepo := postgres.NewReminderRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	emailSvc := email.NewService(cfg.SMTP)
	clock := internalworker.SystemClock()

	outboxProcessor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: cfg.Outbox.RetryAttempts,
		RetryDelay:    cfg.Outbox.RetryDelay,
	}, lg, m)

	dispatcher := internalworker.NewReminderDispatcher(
		appointmentRepo, clientRepo, professionalRepo, serviceRepo,
		emailSvc, clock, cfg.Worker.ReminderInterval, lg, m,
	)

	sweeper := internalworker.NewSweeper(
		clientRepo, productRepo, reminderRepo,
		emailSvc, clock, cfg.Worker.SweepInterval, cfg.Worker.InactivityDays, lg, m,
	)

	confirmations := internalworker.NewConfirmationConsumer(
		broker, appointmentRepo, clientRepo, professionalRepo, serviceRepo,
		emailSvc, clock, lg, m,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(4)
	go func() { defer wg.Done(); outboxProcessor.Start(ctx) }()
	go func() { defer wg.Done(); dispatcher.Start(ctx) }()
	go func() { defer wg.Done(); sweeper.Start(ctx) }()
	go func() {
		defer wg.Done()
		if err := confirmations.Start(ctx); err != nil {
			lg.Error(err, "confirmation consumer stopped")
		}
	}()

	healthSrv := startHealthServer(lg)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	lg.Info("shutting down worker...")

	cancel()
	wg.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		lg.Error(err, "health server forced to shutdown")
	}

	lg.Info("worker exited properly")
}

func startHealthServer(lg *logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: ":8081", Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatal(err, "failed to start health server")
		}
	}()
	return srv
}
