// Package worker holds the background jobs run by the worker binary:
// appointment reminders, client reactivation, low stock digests and
// upkeep notices.
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

// ReminderDispatcher emails clients about tomorrow's appointments. A
// reminder can be sent more than once if the process dies between the
// send and the log append; the notification log only guarantees no
// duplicates once the sent entry is recorded.
type ReminderDispatcher struct {
	appointments  repository.AppointmentRepository
	clients       repository.ClientRepository
	professionals repository.ProfessionalRepository
	services      repository.ServiceRepository
	emailSvc      email.Service
	clock         Clock
	interval      time.Duration
	logger        *logger.Logger
	metrics       *metrics.Metrics
}

func NewReminderDispatcher(
	appointments repository.AppointmentRepository,
	clients repository.ClientRepository,
	professionals repository.ProfessionalRepository,
	services repository.ServiceRepository,
	emailSvc email.Service,
	clock Clock,
	interval time.Duration,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *ReminderDispatcher {
	return &ReminderDispatcher{
		appointments:  appointments,
		clients:       clients,
		professionals: professionals,
		services:      services,
		emailSvc:      emailSvc,
		clock:         clock,
		interval:      interval,
		logger:        logger,
		metrics:       metrics,
	}
}

func (d *ReminderDispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("Starting reminder dispatcher")

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Shutting down reminder dispatcher")
			return
		case <-ticker.C:
			if err := d.RunOnce(ctx); err != nil {
				d.logger.Error(err, "Reminder dispatch run failed")
			}
		}
	}
}

// RunOnce dispatches reminders for all active appointments starting
// tomorrow. Failures on one appointment never block the rest.
func (d *ReminderDispatcher) RunOnce(ctx context.Context) error {
	timer := prometheus.NewTimer(d.metrics.SweepDuration.WithLabelValues("reminders"))
	defer timer.ObserveDuration()
	d.metrics.SweepRuns.WithLabelValues("reminders").Inc()

	now := d.clock.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	to := from.AddDate(0, 0, 1)

	appointments, err := d.appointments.ListActiveStartingBetween(ctx, from, to)
	if err != nil {
		return err
	}

	for _, appointment := range appointments {
		if appointment.Notifications.Contains(model.NotificationTypeReminder) {
			continue
		}
		d.metrics.SweepItems.WithLabelValues("reminders").Inc()
		if err := d.dispatch(ctx, appointment); err != nil {
			d.metrics.SweepItemErrors.WithLabelValues("reminders").Inc()
			d.logger.Error(err, "Failed to send appointment reminder",
				"appointment_id", appointment.ID.String())
		}
	}
	return nil
}

func (d *ReminderDispatcher) dispatch(ctx context.Context, appointment *model.Appointment) error {
	client, err := d.clients.Get(ctx, appointment.ClientID)
	if err != nil {
		return err
	}
	professional, err := d.professionals.Get(ctx, appointment.ProfessionalID)
	if err != nil {
		return err
	}
	svc, err := d.services.Get(ctx, appointment.ServiceID)
	if err != nil {
		return err
	}

	entry := model.NotificationEntry{
		Type:    model.NotificationTypeReminder,
		SentAt:  d.clock.Now(),
		Outcome: model.NotificationOutcomeSent,
	}
	if err := d.emailSvc.SendReminder(ctx, client, appointment, svc.Name, professional.Name); err != nil {
		d.metrics.EmailsFailed.WithLabelValues("reminder").Inc()
		entry.Outcome = model.NotificationOutcomeFailed
		if appendErr := d.appointments.AppendNotification(ctx, appointment.ID, entry); appendErr != nil {
			d.logger.Error(appendErr, "Failed to record failed reminder",
				"appointment_id", appointment.ID.String())
		}
		return err
	}

	d.metrics.EmailsSent.WithLabelValues("reminder").Inc()
	return d.appointments.AppendNotification(ctx, appointment.ID, entry)
}
