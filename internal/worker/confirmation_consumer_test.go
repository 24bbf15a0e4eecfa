package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonsuite/salon-api/internal/model"
)

func consumerFixture(appointments ...*model.Appointment) (*ConfirmationConsumer, *stubAppointmentRepo, *recordingEmailService) {
	clock := fixedClock{now: time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)}

	client := &model.Client{Name: "Ana", Email: "ana@example.com"}
	client.ID = uuid.New()
	professional := &model.Professional{Name: "Bia"}
	professional.ID = uuid.New()
	service := &model.Service{Name: "Haircut", DurationMinutes: 60}
	service.ID = uuid.New()

	for _, a := range appointments {
		a.ClientID = client.ID
		a.ProfessionalID = professional.ID
		a.ServiceID = service.ID
	}

	repo := newStubAppointmentRepo(appointments...)
	emails := newRecordingEmailService()

	c := NewConfirmationConsumer(
		nil,
		repo,
		&stubClientRepo{clients: map[uuid.UUID]*model.Client{client.ID: client}},
		&stubProfessionalRepo{professionals: map[uuid.UUID]*model.Professional{professional.ID: professional}},
		&stubServiceRepo{services: map[uuid.UUID]*model.Service{service.ID: service}},
		emails,
		clock,
		testLogger,
		testMetrics,
	)
	return c, repo, emails
}

func createdPayload(t *testing.T, id uuid.UUID) []byte {
	t.Helper()
	payload, err := json.Marshal(createdEvent{AppointmentID: id})
	require.NoError(t, err)
	return payload
}

func TestConfirmationConsumerSends(t *testing.T) {
	appointment := tomorrowAppointment(10, model.AppointmentStatusScheduled)
	c, repo, emails := consumerFixture(appointment)

	require.NoError(t, c.Handle(context.Background(), createdPayload(t, appointment.ID)))

	assert.Equal(t, []uuid.UUID{appointment.ID}, emails.confirmations)

	entries := repo.appended[appointment.ID]
	require.Len(t, entries, 1)
	assert.Equal(t, model.NotificationTypeConfirmation, entries[0].Type)
	assert.Equal(t, model.NotificationOutcomeSent, entries[0].Outcome)
}

func TestConfirmationConsumerSkipsRedelivery(t *testing.T) {
	appointment := tomorrowAppointment(10, model.AppointmentStatusScheduled)
	appointment.Notifications = model.NotificationLog{
		{Type: model.NotificationTypeConfirmation, Outcome: model.NotificationOutcomeSent},
	}
	c, repo, emails := consumerFixture(appointment)

	require.NoError(t, c.Handle(context.Background(), createdPayload(t, appointment.ID)))

	assert.Empty(t, emails.confirmations)
	assert.Empty(t, repo.appended[appointment.ID])
}

func TestConfirmationConsumerSkipsCancelled(t *testing.T) {
	appointment := tomorrowAppointment(10, model.AppointmentStatusCancelled)
	c, _, emails := consumerFixture(appointment)

	require.NoError(t, c.Handle(context.Background(), createdPayload(t, appointment.ID)))
	assert.Empty(t, emails.confirmations)
}

func TestConfirmationConsumerRecordsFailure(t *testing.T) {
	appointment := tomorrowAppointment(10, model.AppointmentStatusScheduled)
	c, repo, emails := consumerFixture(appointment)
	emails.failFor[appointment.ID] = true

	require.Error(t, c.Handle(context.Background(), createdPayload(t, appointment.ID)))

	entries := repo.appended[appointment.ID]
	require.Len(t, entries, 1)
	assert.Equal(t, model.NotificationOutcomeFailed, entries[0].Outcome)
}

func TestConfirmationConsumerRejectsBadPayload(t *testing.T) {
	c, _, emails := consumerFixture()

	require.Error(t, c.Handle(context.Background(), []byte("{not json")))
	assert.Empty(t, emails.confirmations)
}
