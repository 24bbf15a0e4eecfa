package worker

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/salonsuite/salon-api/internal/email"
	"github.com/salonsuite/salon-api/internal/model"
	"github.com/salonsuite/salon-api/internal/repository"
	"github.com/salonsuite/salon-api/pkg/logger"
	"github.com/salonsuite/salon-api/pkg/metrics"
)

// Sweeper runs the daily housekeeping jobs: client reactivation mail,
// the low stock digest and upkeep notices.
type Sweeper struct {
	clients        repository.ClientRepository
	products       repository.ProductRepository
	reminders      repository.ReminderRepository
	emailSvc       email.Service
	clock          Clock
	interval       time.Duration
	inactivityDays int
	logger         *logger.Logger
	metrics        *metrics.Metrics
}

func NewSweeper(
	clients repository.ClientRepository,
	products repository.ProductRepository,
	reminders repository.ReminderRepository,
	emailSvc email.Service,
	clock Clock,
	interval time.Duration,
	inactivityDays int,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Sweeper {
	return &Sweeper{
		clients:        clients,
		products:       products,
		reminders:      reminders,
		emailSvc:       emailSvc,
		clock:          clock,
		interval:       interval,
		inactivityDays: inactivityDays,
		logger:         logger,
		metrics:        metrics,
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Starting sweeper")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Shutting down sweeper")
			return
		case <-ticker.C:
			if err := s.SweepInactiveClients(ctx); err != nil {
				s.logger.Error(err, "Inactivity sweep failed")
			}
			if err := s.SweepLowStock(ctx); err != nil {
				s.logger.Error(err, "Low stock sweep failed")
			}
			if err := s.SweepUpkeep(ctx); err != nil {
				s.logger.Error(err, "Upkeep sweep failed")
			}
		}
	}
}

// SweepInactiveClients emails active clients whose last visit is older
// than the inactivity cutoff. Clients without an email are skipped.
func (s *Sweeper) SweepInactiveClients(ctx context.Context) error {
	timer := prometheus.NewTimer(s.metrics.SweepDuration.WithLabelValues("inactivity"))
	defer timer.ObserveDuration()
	s.metrics.SweepRuns.WithLabelValues("inactivity").Inc()

	now := s.clock.Now()
	cutoff := now.AddDate(0, 0, -s.inactivityDays)

	clients, err := s.clients.ListInactiveSince(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, client := range clients {
		if client.Email == "" {
			continue
		}
		s.metrics.SweepItems.WithLabelValues("inactivity").Inc()

		days := client.DaysWithoutVisit(now)
		if days < 0 {
			days = s.inactivityDays
		}
		if err := s.emailSvc.SendReactivation(ctx, client, days); err != nil {
			s.metrics.SweepItemErrors.WithLabelValues("inactivity").Inc()
			s.metrics.EmailsFailed.WithLabelValues("reactivation").Inc()
			s.logger.Error(err, "Failed to send reactivation email",
				"client_id", client.ID.String())
			continue
		}
		s.metrics.EmailsSent.WithLabelValues("reactivation").Inc()
	}
	return nil
}

// SweepLowStock sends the admin a single digest of all products at or
// below their minimum stock level. No mail goes out when nothing is low.
func (s *Sweeper) SweepLowStock(ctx context.Context) error {
	timer := prometheus.NewTimer(s.metrics.SweepDuration.WithLabelValues("low_stock"))
	defer timer.ObserveDuration()
	s.metrics.SweepRuns.WithLabelValues("low_stock").Inc()

	products, err := s.products.ListLowStock(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return nil
	}

	s.metrics.SweepItems.WithLabelValues("low_stock").Add(float64(len(products)))
	if err := s.emailSvc.SendLowStockAlert(ctx, products); err != nil {
		s.metrics.EmailsFailed.WithLabelValues("low_stock").Inc()
		return err
	}
	s.metrics.EmailsSent.WithLabelValues("low_stock").Inc()
	return nil
}

// SweepUpkeep notifies about reminders due today and flags the ones
// whose run time has passed as overdue.
func (s *Sweeper) SweepUpkeep(ctx context.Context) error {
	timer := prometheus.NewTimer(s.metrics.SweepDuration.WithLabelValues("upkeep"))
	defer timer.ObserveDuration()
	s.metrics.SweepRuns.WithLabelValues("upkeep").Inc()

	now := s.clock.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)

	reminders, err := s.reminders.ListDueBetween(ctx, from, to, nil)
	if err != nil {
		return err
	}

	for _, reminder := range reminders {
		s.metrics.SweepItems.WithLabelValues("upkeep").Inc()

		if err := s.emailSvc.SendUpkeepNotice(ctx, reminder); err != nil {
			s.metrics.SweepItemErrors.WithLabelValues("upkeep").Inc()
			s.metrics.EmailsFailed.WithLabelValues("upkeep").Inc()
			s.logger.Error(err, "Failed to send upkeep notice",
				"reminder_id", reminder.ID.String())
			continue
		}
		s.metrics.EmailsSent.WithLabelValues("upkeep").Inc()

		if reminder.Status == model.ReminderStatusPending && reminder.NextRun.Before(now) {
			reminder.Status = model.ReminderStatusOverdue
			if err := s.reminders.Update(ctx, reminder); err != nil {
				s.logger.Error(err, "Failed to flag reminder overdue",
					"reminder_id", reminder.ID.String())
			}
		}
	}
	return nil
}
