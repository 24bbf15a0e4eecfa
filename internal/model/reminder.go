package model

import (
	"time"
)

type ReminderType string

const (
	ReminderTypeCleaning    ReminderType = "cleaning"
	ReminderTypeMaintenance ReminderType = "maintenance"
	ReminderTypeStock       ReminderType = "stock"
	ReminderTypeClient      ReminderType = "client"
	ReminderTypeOther       ReminderType = "other"
)

type ReminderFrequency string

const (
	ReminderFrequencyOnce    ReminderFrequency = "once"
	ReminderFrequencyDaily   ReminderFrequency = "daily"
	ReminderFrequencyWeekly  ReminderFrequency = "weekly"
	ReminderFrequencyMonthly ReminderFrequency = "monthly"
	ReminderFrequencyCustom  ReminderFrequency = "custom"
)

type ReminderStatus string

const (
	ReminderStatusPending   ReminderStatus = "pending"
	ReminderStatusCompleted ReminderStatus = "completed"
	ReminderStatusOverdue   ReminderStatus = "overdue"
	ReminderStatusCancelled ReminderStatus = "cancelled"
)

// Reminder is a recurring upkeep task (cleaning, maintenance, stock
// checks) tracked by the salon, swept daily by the worker.
type Reminder struct {
	Base
	Type         ReminderType      `db:"type" json:"type"`
	Title        string            `db:"title" json:"title"`
	Description  string            `db:"description" json:"description,omitempty"`
	Frequency    ReminderFrequency `db:"frequency" json:"frequency"`
	IntervalDays int               `db:"interval_days" json:"interval_days,omitempty"`
	NextRun      time.Time         `db:"next_run" json:"next_run"`
	Priority     string            `db:"priority" json:"priority"`
	Status       ReminderStatus    `db:"status" json:"status"`
	Active       bool              `db:"active" json:"active"`
}

// Advance computes the next run after completion at the given time.
// Returns false for one-shot reminders, which do not recur.
func (r *Reminder) Advance(from time.Time) bool {
	switch r.Frequency {
	case ReminderFrequencyDaily:
		r.NextRun = from.AddDate(0, 0, 1)
	case ReminderFrequencyWeekly:
		r.NextRun = from.AddDate(0, 0, 7)
	case ReminderFrequencyMonthly:
		r.NextRun = from.AddDate(0, 1, 0)
	case ReminderFrequencyCustom:
		days := r.IntervalDays
		if days < 1 {
			days = 1
		}
		r.NextRun = from.AddDate(0, 0, days)
	default:
		return false
	}
	return true
}

type CreateReminderRequest struct {
	Type         ReminderType      `json:"type" binding:"required,oneof=cleaning maintenance stock client other"`
	Title        string            `json:"title" binding:"required"`
	Description  string            `json:"description"`
	Frequency    ReminderFrequency `json:"frequency" binding:"required,oneof=once daily weekly monthly custom"`
	IntervalDays int               `json:"interval_days" binding:"min=0"`
	NextRun      time.Time         `json:"next_run" binding:"required"`
	Priority     string            `json:"priority" binding:"omitempty,oneof=low medium high"`
}

type UpdateReminderRequest struct {
	Title        *string            `json:"title"`
	Description  *string            `json:"description"`
	Frequency    *ReminderFrequency `json:"frequency"`
	IntervalDays *int               `json:"interval_days"`
	NextRun      *time.Time         `json:"next_run"`
	Priority     *string            `json:"priority"`
	Status       *ReminderStatus    `json:"status"`
	Active       *bool              `json:"active"`
}
