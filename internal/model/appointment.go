package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Active reports whether the status counts for conflict detection.
// Completed and cancelled appointments free their time slot.
func (s AppointmentStatus) Active() bool {
	return s == AppointmentStatusScheduled || s == AppointmentStatusConfirmed
}

type NotificationType string

const (
	NotificationTypeConfirmation NotificationType = "confirmation"
	NotificationTypeReminder     NotificationType = "reminder"
	NotificationTypeCancellation NotificationType = "cancellation"
)

type NotificationOutcome string

const (
	NotificationOutcomeSent    NotificationOutcome = "sent"
	NotificationOutcomeFailed  NotificationOutcome = "failed"
	NotificationOutcomePending NotificationOutcome = "pending"
)

// NotificationEntry is one record in an appointment's append-only
// notification log.
type NotificationEntry struct {
	Type    NotificationType    `json:"type"`
	SentAt  time.Time           `json:"sent_at"`
	Outcome NotificationOutcome `json:"outcome"`
}

type NotificationLog []NotificationEntry

func (l NotificationLog) Value() (driver.Value, error) {
	if l == nil {
		return jsonbValue(NotificationLog{})
	}
	return jsonbValue(l)
}

func (l *NotificationLog) Scan(src interface{}) error {
	return jsonbScan(src, l)
}

// Contains reports whether the log already holds a sent entry of the
// given type. The reminder dispatcher uses it to avoid duplicate sends.
func (l NotificationLog) Contains(t NotificationType) bool {
	for _, e := range l {
		if e.Type == t && e.Outcome == NotificationOutcomeSent {
			return true
		}
	}
	return false
}

// UsedProduct records consumption of a product during an appointment.
type UsedProduct struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type UsedProductList []UsedProduct

func (l UsedProductList) Value() (driver.Value, error) {
	if l == nil {
		return jsonbValue(UsedProductList{})
	}
	return jsonbValue(l)
}

func (l *UsedProductList) Scan(src interface{}) error {
	return jsonbScan(src, l)
}

// Rating is an optional post-completion review.
type Rating struct {
	Score   int       `json:"score"`
	Comment string    `json:"comment,omitempty"`
	RatedAt time.Time `json:"rated_at"`
}

type RatingColumn struct {
	*Rating
}

func (r RatingColumn) Value() (driver.Value, error) {
	if r.Rating == nil {
		return nil, nil
	}
	return jsonbValue(r.Rating)
}

func (r *RatingColumn) Scan(src interface{}) error {
	if src == nil {
		r.Rating = nil
		return nil
	}
	r.Rating = &Rating{}
	return jsonbScan(src, r.Rating)
}

type Appointment struct {
	Base
	ClientID       uuid.UUID         `db:"client_id" json:"client_id"`
	ProfessionalID uuid.UUID         `db:"professional_id" json:"professional_id"`
	ServiceID      uuid.UUID         `db:"service_id" json:"service_id"`
	StartTime      time.Time         `db:"start_time" json:"start_time"`
	Status         AppointmentStatus `db:"status" json:"status"`
	TotalValue     float64           `db:"total_value" json:"total_value"`
	Notes          string            `db:"notes" json:"notes,omitempty"`
	Notifications  NotificationLog   `db:"notifications" json:"notifications"`
	UsedProducts   UsedProductList   `db:"used_products" json:"used_products"`
	Rating         RatingColumn      `db:"rating" json:"rating,omitempty"`

	// DurationMinutes is joined in from the appointment's service on
	// reads; the end of the interval is always derived from it.
	DurationMinutes int `db:"duration_minutes" json:"duration_minutes,omitempty"`
}

// EndTime derives the exclusive end of the appointment interval.
func (a *Appointment) EndTime() time.Time {
	return a.StartTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

type CreateAppointmentRequest struct {
	ClientID       uuid.UUID `json:"client_id" binding:"required"`
	ProfessionalID uuid.UUID `json:"professional_id" binding:"required"`
	ServiceID      uuid.UUID `json:"service_id" binding:"required"`
	StartTime      time.Time `json:"start_time" binding:"required"`
	Notes          string    `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentRequest struct {
	Status *AppointmentStatus `json:"status"`
	Notes  *string            `json:"notes"`
}

type RateAppointmentRequest struct {
	Score   int    `json:"score" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=1000"`
}

type AvailabilityRequest struct {
	ProfessionalID uuid.UUID `json:"professional_id" binding:"required"`
	ServiceID      uuid.UUID `json:"service_id" binding:"required"`
	Date           string    `json:"date" binding:"required"`
}

// Slot is one bookable start time returned by the availability check.
type Slot struct {
	Time      time.Time `json:"time"`
	Formatted string    `json:"formatted"`
}

type AppointmentFilters struct {
	ProfessionalID uuid.UUID
	ClientID       uuid.UUID
	Status         AppointmentStatus
	StartDate      time.Time
	EndDate        time.Time
}
