package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotificationLogContains(t *testing.T) {
	log := NotificationLog{
		{Type: NotificationTypeReminder, Outcome: NotificationOutcomeFailed},
		{Type: NotificationTypeConfirmation, Outcome: NotificationOutcomeSent},
	}

	assert.False(t, log.Contains(NotificationTypeReminder), "failed entries do not count as sent")
	assert.True(t, log.Contains(NotificationTypeConfirmation))

	log = append(log, NotificationEntry{Type: NotificationTypeReminder, Outcome: NotificationOutcomeSent})
	assert.True(t, log.Contains(NotificationTypeReminder))
}

func TestProductApplyMovement(t *testing.T) {
	p := &Product{StockQuantity: 10}

	p.ApplyMovement(StockMovement{Type: MovementTypeExit, Quantity: 4})
	assert.Equal(t, 6, p.StockQuantity)

	p.ApplyMovement(StockMovement{Type: MovementTypeEntry, Quantity: 2})
	assert.Equal(t, 8, p.StockQuantity)

	p.ApplyMovement(StockMovement{Type: MovementTypeAdjust, Quantity: 3})
	assert.Equal(t, 3, p.StockQuantity)

	// exits clamp at zero
	p.ApplyMovement(StockMovement{Type: MovementTypeExit, Quantity: 100})
	assert.Equal(t, 0, p.StockQuantity)

	assert.Len(t, p.Movements, 4)
}

func TestReminderAdvance(t *testing.T) {
	from := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		reminder Reminder
		want     time.Time
		recurs   bool
	}{
		{"daily", Reminder{Frequency: ReminderFrequencyDaily}, from.AddDate(0, 0, 1), true},
		{"weekly", Reminder{Frequency: ReminderFrequencyWeekly}, from.AddDate(0, 0, 7), true},
		{"monthly", Reminder{Frequency: ReminderFrequencyMonthly}, from.AddDate(0, 1, 0), true},
		{"custom", Reminder{Frequency: ReminderFrequencyCustom, IntervalDays: 10}, from.AddDate(0, 0, 10), true},
		{"custom floor", Reminder{Frequency: ReminderFrequencyCustom, IntervalDays: 0}, from.AddDate(0, 0, 1), true},
		{"once", Reminder{Frequency: ReminderFrequencyOnce}, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recurs := tt.reminder.Advance(from)
			assert.Equal(t, tt.recurs, recurs)
			if tt.recurs {
				assert.Equal(t, tt.want, tt.reminder.NextRun)
			}
		})
	}
}

func TestAppointmentEndTime(t *testing.T) {
	start := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	a := &Appointment{StartTime: start, DurationMinutes: 45}
	assert.Equal(t, start.Add(45*time.Minute), a.EndTime())
}

func TestStatusActive(t *testing.T) {
	assert.True(t, AppointmentStatusScheduled.Active())
	assert.True(t, AppointmentStatusConfirmed.Active())
	assert.False(t, AppointmentStatusCompleted.Active())
	assert.False(t, AppointmentStatusCancelled.Active())
}

func TestClientDaysWithoutVisit(t *testing.T) {
	now := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)

	never := &Client{}
	assert.Equal(t, -1, never.DaysWithoutVisit(now))

	visit := now.AddDate(0, 0, -31)
	c := &Client{LastVisit: &visit}
	assert.Equal(t, 31, c.DaysWithoutVisit(now))
}
