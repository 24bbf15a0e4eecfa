package model

import (
	"database/sql/driver"

	"github.com/google/uuid"
)

// MinServiceDurationMinutes is the floor enforced at service creation;
// the scheduling engine never sees a shorter or non-positive duration.
const MinServiceDurationMinutes = 15

type UUIDList []uuid.UUID

func (l UUIDList) Value() (driver.Value, error) {
	if l == nil {
		return jsonbValue(UUIDList{})
	}
	return jsonbValue(l)
}

func (l *UUIDList) Scan(src interface{}) error {
	return jsonbScan(src, l)
}

// Contains reports membership.
func (l UUIDList) Contains(id uuid.UUID) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

type Service struct {
	Base
	Name                 string          `db:"name" json:"name"`
	Description          string          `db:"description" json:"description,omitempty"`
	DurationMinutes      int             `db:"duration_minutes" json:"duration_minutes"`
	Price                float64         `db:"price" json:"price"`
	Category             string          `db:"category" json:"category"`
	EnabledProfessionals UUIDList        `db:"enabled_professionals" json:"enabled_professionals"`
	DefaultProducts      UsedProductList `db:"default_products" json:"default_products"`
	Featured             bool            `db:"featured" json:"featured"`
	Active               bool            `db:"active" json:"active"`
}

type CreateServiceRequest struct {
	Name                 string        `json:"name" binding:"required"`
	Description          string        `json:"description"`
	DurationMinutes      int           `json:"duration_minutes" binding:"required"`
	Price                float64       `json:"price" binding:"min=0"`
	Category             string        `json:"category" binding:"required"`
	EnabledProfessionals []uuid.UUID   `json:"enabled_professionals"`
	DefaultProducts      []UsedProduct `json:"default_products"`
	Featured             bool          `json:"featured"`
}

type UpdateServiceRequest struct {
	Name                 *string       `json:"name"`
	Description          *string       `json:"description"`
	DurationMinutes      *int          `json:"duration_minutes"`
	Price                *float64      `json:"price"`
	Category             *string       `json:"category"`
	EnabledProfessionals []uuid.UUID   `json:"enabled_professionals"`
	DefaultProducts      []UsedProduct `json:"default_products"`
	Featured             *bool         `json:"featured"`
	Active               *bool         `json:"active"`
}
