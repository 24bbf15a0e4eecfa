package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/salonsuite/salon-api/internal/email"
	"github.com/salonsuite/salon-api/internal/model"
	"github.com/salonsuite/salon-api/internal/repository"
	"github.com/salonsuite/salon-api/pkg/logger"
	"github.com/salonsuite/salon-api/pkg/messaging"
	"github.com/salonsuite/salon-api/pkg/metrics"
)

// createdEvent is the slice of the outbox payload the consumer needs.
type createdEvent struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
}

// ConfirmationConsumer sends the booking confirmation email. It consumes
// appointment.created events off the broker, so a failed send never
// reaches the booking request path; the outbox retry loop re-delivers.
type ConfirmationConsumer struct {
	broker        messaging.Broker
	appointments  repository.AppointmentRepository
	clients       repository.ClientRepository
	professionals repository.ProfessionalRepository
	services      repository.ServiceRepository
	emailSvc      email.Service
	clock         Clock
	logger        *logger.Logger
	metrics       *metrics.Metrics
}

func NewConfirmationConsumer(
	broker messaging.Broker,
	appointments repository.AppointmentRepository,
	clients repository.ClientRepository,
	professionals repository.ProfessionalRepository,
	services repository.ServiceRepository,
	emailSvc email.Service,
	clock Clock,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *ConfirmationConsumer {
	return &ConfirmationConsumer{
		broker:        broker,
		appointments:  appointments,
		clients:       clients,
		professionals: professionals,
		services:      services,
		emailSvc:      emailSvc,
		clock:         clock,
		logger:        logger,
		metrics:       metrics,
	}
}

func (c *ConfirmationConsumer) Start(ctx context.Context) error {
	messages, err := c.broker.Subscribe(ctx, model.EventAppointmentCreated)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", model.EventAppointmentCreated, err)
	}

	c.logger.Info("Starting confirmation consumer")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Shutting down confirmation consumer")
			return nil
		case payload, ok := <-messages:
			if !ok {
				return nil
			}
			if err := c.Handle(ctx, payload); err != nil {
				c.metrics.SweepItemErrors.WithLabelValues("confirmations").Inc()
				c.logger.Error(err, "Failed to send booking confirmation")
			}
		}
	}
}

// Handle processes one appointment.created payload. Re-delivered events
// are deduplicated through the appointment's notification log.
func (c *ConfirmationConsumer) Handle(ctx context.Context, payload []byte) error {
	var event createdEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to decode created event: %w", err)
	}

	appointment, err := c.appointments.Get(ctx, event.AppointmentID)
	if err != nil {
		return err
	}
	if !appointment.Status.Active() {
		return nil
	}
	if appointment.Notifications.Contains(model.NotificationTypeConfirmation) {
		return nil
	}
	c.metrics.SweepItems.WithLabelValues("confirmations").Inc()

	client, err := c.clients.Get(ctx, appointment.ClientID)
	if err != nil {
		return err
	}
	professional, err := c.professionals.Get(ctx, appointment.ProfessionalID)
	if err != nil {
		return err
	}
	svc, err := c.services.Get(ctx, appointment.ServiceID)
	if err != nil {
		return err
	}

	entry := model.NotificationEntry{
		Type:    model.NotificationTypeConfirmation,
		SentAt:  c.clock.Now(),
		Outcome: model.NotificationOutcomeSent,
	}
	if err := c.emailSvc.SendConfirmation(ctx, client, appointment, svc.Name, professional.Name); err != nil {
		c.metrics.EmailsFailed.WithLabelValues("confirmation").Inc()
		entry.Outcome = model.NotificationOutcomeFailed
		if appendErr := c.appointments.AppendNotification(ctx, appointment.ID, entry); appendErr != nil {
			c.logger.Error(appendErr, "Failed to record failed confirmation",
				"appointment_id", appointment.ID.String())
		}
		return err
	}

	c.metrics.EmailsSent.WithLabelValues("confirmation").Inc()
	return c.appointments.AppendNotification(ctx, appointment.ID, entry)
}
