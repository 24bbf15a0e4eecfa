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

func sweeperFixture(clients *stubClientRepo, products *stubProductRepo, reminders *stubReminderRepo) (*Sweeper, *recordingEmailService, fixedClock) {
	clock := fixedClock{now: time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)}
	emails := newRecordingEmailService()

	s := NewSweeper(clients, products, reminders, emails, clock, 24*time.Hour, 30, testLogger, testMetrics)
	return s, emails, clock
}

func TestInactivitySweep(t *testing.T) {
	lastVisit := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	withEmail := &model.Client{Name: "Ana", Email: "ana@example.com", LastVisit: &lastVisit, Active: true}
	withEmail.ID = uuid.New()
	noEmail := &model.Client{Name: "Bia", LastVisit: &lastVisit, Active: true}
	noEmail.ID = uuid.New()
	neverVisited := &model.Client{Name: "Carla", Email: "carla@example.com", Active: true}
	neverVisited.ID = uuid.New()

	clients := &stubClientRepo{inactive: []*model.Client{withEmail, noEmail, neverVisited}}
	s, emails, _ := sweeperFixture(clients, &stubProductRepo{}, &stubReminderRepo{})

	require.NoError(t, s.SweepInactiveClients(context.Background()))

	assert.Equal(t, []uuid.UUID{withEmail.ID, neverVisited.ID}, emails.reactivations)
}

func TestInactivitySweepIsolatesFailures(t *testing.T) {
	lastVisit := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	failing := &model.Client{Name: "Ana", Email: "ana@example.com", LastVisit: &lastVisit, Active: true}
	failing.ID = uuid.New()
	healthy := &model.Client{Name: "Bia", Email: "bia@example.com", LastVisit: &lastVisit, Active: true}
	healthy.ID = uuid.New()

	clients := &stubClientRepo{inactive: []*model.Client{failing, healthy}}
	s, emails, _ := sweeperFixture(clients, &stubProductRepo{}, &stubReminderRepo{})
	emails.failFor[failing.ID] = true

	require.NoError(t, s.SweepInactiveClients(context.Background()))

	assert.Equal(t, []uuid.UUID{healthy.ID}, emails.reactivations)
}

func TestLowStockSweep(t *testing.T) {
	t.Run("sends one digest", func(t *testing.T) {
		shampoo := &model.Product{Name: "Shampoo", StockQuantity: 1, MinStockLevel: 5}
		dye := &model.Product{Name: "Dye", StockQuantity: 0, MinStockLevel: 2}

		products := &stubProductRepo{lowStock: []*model.Product{shampoo, dye}}
		s, emails, _ := sweeperFixture(&stubClientRepo{}, products, &stubReminderRepo{})

		require.NoError(t, s.SweepLowStock(context.Background()))

		require.Len(t, emails.lowStock, 1)
		assert.Len(t, emails.lowStock[0], 2)
	})

	t.Run("silent when nothing is low", func(t *testing.T) {
		s, emails, _ := sweeperFixture(&stubClientRepo{}, &stubProductRepo{}, &stubReminderRepo{})

		require.NoError(t, s.SweepLowStock(context.Background()))
		assert.Empty(t, emails.lowStock)
	})
}

func TestUpkeepSweep(t *testing.T) {
	morning := &model.Reminder{
		Title:     "Clean stations",
		Frequency: model.ReminderFrequencyDaily,
		NextRun:   time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC),
		Status:    model.ReminderStatusPending,
		Active:    true,
	}
	morning.ID = uuid.New()
	evening := &model.Reminder{
		Title:     "Count stock",
		Frequency: model.ReminderFrequencyWeekly,
		NextRun:   time.Date(2025, 3, 3, 18, 0, 0, 0, time.UTC),
		Status:    model.ReminderStatusPending,
		Active:    true,
	}
	evening.ID = uuid.New()

	reminders := &stubReminderRepo{due: []*model.Reminder{morning, evening}}
	s, emails, _ := sweeperFixture(&stubClientRepo{}, &stubProductRepo{}, reminders)

	require.NoError(t, s.SweepUpkeep(context.Background()))

	assert.Equal(t, []uuid.UUID{morning.ID, evening.ID}, emails.upkeep)

	// Only the reminder whose run time already passed is flagged overdue.
	require.Len(t, reminders.updated, 1)
	assert.Equal(t, morning.ID, reminders.updated[0].ID)
	assert.Equal(t, model.ReminderStatusOverdue, reminders.updated[0].Status)
}
