package model

import (
	"database/sql/driver"
	"time"
)

type Client struct {
	Base
	Name        string     `db:"name" json:"name"`
	Phone       string     `db:"phone" json:"phone"`
	Email       string     `db:"email" json:"email,omitempty"`
	BirthDate   *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	LastVisit   *time.Time `db:"last_visit" json:"last_visit,omitempty"`
	Preferences StringList `db:"preferences" json:"preferences"`
	Notes       string     `db:"notes" json:"notes,omitempty"`
	Active      bool       `db:"active" json:"active"`
}

// DaysWithoutVisit derives the days elapsed since the last visit.
// Returns -1 when the client has never visited.
func (c *Client) DaysWithoutVisit(now time.Time) int {
	if c.LastVisit == nil {
		return -1
	}
	return int(now.Sub(*c.LastVisit).Hours() / 24)
}

type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return jsonbValue(StringList{})
	}
	return jsonbValue(l)
}

func (l *StringList) Scan(src interface{}) error {
	return jsonbScan(src, l)
}

type CreateClientRequest struct {
	Name        string     `json:"name" binding:"required"`
	Phone       string     `json:"phone" binding:"required"`
	Email       string     `json:"email" binding:"omitempty,email"`
	BirthDate   *time.Time `json:"birth_date"`
	Preferences []string   `json:"preferences"`
	Notes       string     `json:"notes"`
}

type UpdateClientRequest struct {
	Name        *string    `json:"name"`
	Phone       *string    `json:"phone"`
	Email       *string    `json:"email" binding:"omitempty,email"`
	BirthDate   *time.Time `json:"birth_date"`
	Preferences []string   `json:"preferences"`
	Notes       *string    `json:"notes"`
	Active      *bool      `json:"active"`
}
