package worker

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonsuite/salon-api/internal/model"
)

func dispatcherFixture(appointments ...*model.Appointment) (*ReminderDispatcher, *stubAppointmentRepo, *recordingEmailService, fixedClock) {
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

	d := NewReminderDispatcher(
		repo,
		&stubClientRepo{clients: map[uuid.UUID]*model.Client{client.ID: client}},
		&stubProfessionalRepo{professionals: map[uuid.UUID]*model.Professional{professional.ID: professional}},
		&stubServiceRepo{services: map[uuid.UUID]*model.Service{service.ID: service}},
		emails,
		clock,
		time.Hour,
		testLogger,
		testMetrics,
	)
	return d, repo, emails, clock
}

func tomorrowAppointment(hour int, status model.AppointmentStatus) *model.Appointment {
	a := &model.Appointment{
		StartTime: time.Date(2025, 3, 4, hour, 0, 0, 0, time.UTC),
		Status:    status,
	}
	a.ID = uuid.New()
	return a
}

func TestReminderDispatch(t *testing.T) {
	tomorrow := tomorrowAppointment(10, model.AppointmentStatusScheduled)
	today := &model.Appointment{
		StartTime: time.Date(2025, 3, 3, 16, 0, 0, 0, time.UTC),
		Status:    model.AppointmentStatusScheduled,
	}
	today.ID = uuid.New()
	cancelled := tomorrowAppointment(14, model.AppointmentStatusCancelled)

	d, repo, emails, _ := dispatcherFixture(tomorrow, today, cancelled)

	require.NoError(t, d.RunOnce(context.Background()))

	assert.Equal(t, []uuid.UUID{tomorrow.ID}, emails.reminders)

	entries := repo.appended[tomorrow.ID]
	require.Len(t, entries, 1)
	assert.Equal(t, model.NotificationTypeReminder, entries[0].Type)
	assert.Equal(t, model.NotificationOutcomeSent, entries[0].Outcome)
}

func TestReminderDispatchSkipsAlreadySent(t *testing.T) {
	appointment := tomorrowAppointment(10, model.AppointmentStatusConfirmed)
	appointment.Notifications = model.NotificationLog{
		{Type: model.NotificationTypeReminder, Outcome: model.NotificationOutcomeSent},
	}

	d, repo, emails, _ := dispatcherFixture(appointment)

	require.NoError(t, d.RunOnce(context.Background()))

	assert.Empty(t, emails.reminders)
	assert.Empty(t, repo.appended[appointment.ID])
}

func TestReminderDispatchRetriesAfterFailure(t *testing.T) {
	// A failed outcome does not count as sent, so the next run tries again.
	appointment := tomorrowAppointment(10, model.AppointmentStatusScheduled)
	appointment.Notifications = model.NotificationLog{
		{Type: model.NotificationTypeReminder, Outcome: model.NotificationOutcomeFailed},
	}

	d, _, emails, _ := dispatcherFixture(appointment)

	require.NoError(t, d.RunOnce(context.Background()))
	assert.Equal(t, []uuid.UUID{appointment.ID}, emails.reminders)
}

func TestReminderDispatchIsolatesFailures(t *testing.T) {
	failing := tomorrowAppointment(9, model.AppointmentStatusScheduled)
	healthy := tomorrowAppointment(11, model.AppointmentStatusScheduled)

	d, repo, emails, _ := dispatcherFixture(failing, healthy)
	emails.failFor[failing.ID] = true

	require.NoError(t, d.RunOnce(context.Background()))

	assert.Equal(t, []uuid.UUID{healthy.ID}, emails.reminders)

	failedEntries := repo.appended[failing.ID]
	require.Len(t, failedEntries, 1)
	assert.Equal(t, model.NotificationOutcomeFailed, failedEntries[0].Outcome)
}
