package model

import (
	"database/sql/driver"
)

// WorkingHoursEntry is a professional's availability window for one
// weekday (0 = Sunday). At most one entry per weekday.
type WorkingHoursEntry struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required,hhmm"`
	EndTime   string `json:"end_time" binding:"required,hhmm"`
}

type WorkingHoursList []WorkingHoursEntry

func (l WorkingHoursList) Value() (driver.Value, error) {
	if l == nil {
		return jsonbValue(WorkingHoursList{})
	}
	return jsonbValue(l)
}

func (l *WorkingHoursList) Scan(src interface{}) error {
	return jsonbScan(src, l)
}

// ForWeekday returns the entry for the given weekday, if any.
func (l WorkingHoursList) ForWeekday(weekday int) (WorkingHoursEntry, bool) {
	for _, e := range l {
		if e.Weekday == weekday {
			return e, true
		}
	}
	return WorkingHoursEntry{}, false
}

type Professional struct {
	Base
	Name         string           `db:"name" json:"name"`
	Phone        string           `db:"phone" json:"phone"`
	Email        string           `db:"email" json:"email,omitempty"`
	Specialties  StringList       `db:"specialties" json:"specialties"`
	WorkingHours WorkingHoursList `db:"working_hours" json:"working_hours"`
	Commission   float64          `db:"commission" json:"commission"`
	Notes        string           `db:"notes" json:"notes,omitempty"`
	Active       bool             `db:"active" json:"active"`
}

type CreateProfessionalRequest struct {
	Name         string              `json:"name" binding:"required"`
	Phone        string              `json:"phone" binding:"required"`
	Email        string              `json:"email" binding:"omitempty,email"`
	Specialties  []string            `json:"specialties" binding:"required,min=1"`
	WorkingHours []WorkingHoursEntry `json:"working_hours" binding:"omitempty,dive"`
	Commission   float64             `json:"commission" binding:"min=0"`
	Notes        string              `json:"notes"`
}

type UpdateProfessionalRequest struct {
	Name         *string             `json:"name"`
	Phone        *string             `json:"phone"`
	Email        *string             `json:"email" binding:"omitempty,email"`
	Specialties  []string            `json:"specialties"`
	WorkingHours []WorkingHoursEntry `json:"working_hours" binding:"omitempty,dive"`
	Commission   *float64            `json:"commission"`
	Notes        *string             `json:"notes"`
	Active       *bool               `json:"active"`
}
