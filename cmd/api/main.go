package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/salonsuite/salon-api/internal/config"
	appointmentHandler "github.com/salonsuite/salon-api/internal/handler/appointment"
	catalogHandler "github.com/salonsuite/salon-api/internal/handler/catalog"
	clientHandler "github.com/salonsuite/salon-api/internal/handler/client"
	healthHandler "github.com/salonsuite/salon-api/internal/handler/health"
	productHandler "github.com/salonsuite/salon-api/internal/handler/product"
	professionalHandler "github.com/salonsuite/salon-api/internal/handler/professional"
	reminderHandler "github.com/salonsuite/salon-api/internal/handler/reminder"
	"github.com/salonsuite/salon-api/internal/middleware"
	"github.com/salonsuite/salon-api/internal/repository/postgres"
	"github.com/salonsuite/salon-api/internal/router"
	appointmentService "github.com/salonsuite/salon-api/internal/service/appointment"
	catalogService "github.com/salonsuite/salon-api/internal/service/catalog"
	clientService "github.com/salonsuite/salon-api/internal/service/client"
	productService "github.com/salonsuite/salon-api/internal/service/product"
	professionalService "github.com/salonsuite/salon-api/internal/service/professional"
	reminderService "github.com/salonsuite/salon-api/internal/service/reminder"
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
	zerolog.SetGlobalLevel(level)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	appointmentRepo := postgres.NewAppointmentRepository(db)
	clientRepo := postgres.NewClientRepository(db)
	professionalRepo := postgres.NewProfessionalRepository(db)
	serviceRepo := postgres.NewServiceRepository(db)
	productRepo := postgres.NewProductRepository(db)
	reminderRepo := postgres.NewReminderRepository(db)

	appointmentSvc := appointmentService.NewService(appointmentRepo, clientRepo, professionalRepo, serviceRepo)
	clientSvc := clientService.NewService(clientRepo)
	professionalSvc := professionalService.NewService(professionalRepo)
	catalogSvc := catalogService.NewService(serviceRepo, professionalRepo)
	productSvc := productService.NewService(productRepo)
	reminderSvc := reminderService.NewService(reminderRepo)

	r := router.NewRouter(
		router.Config{
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:        cfg.RateLimit.Burst,
			RequestTimeout:   cfg.Server.RequestTimeout,
			CORSConfig:       middleware.DefaultCORSConfig(),
		},
		healthHandler.NewHandler(db),
		appointmentHandler.NewHandler(appointmentSvc),
		clientHandler.NewHandler(clientSvc),
		professionalHandler.NewHandler(professionalSvc),
		catalogHandler.NewHandler(catalogSvc),
		productHandler.NewHandler(productSvc),
		reminderHandler.NewHandler(reminderSvc),
	)
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
