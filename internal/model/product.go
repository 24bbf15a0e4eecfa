package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

type MovementType string

const (
	MovementTypeEntry  MovementType = "entry"
	MovementTypeExit   MovementType = "exit"
	MovementTypeAdjust MovementType = "adjust"
)

// StockMovement is one record in a product's movement history.
type StockMovement struct {
	Type          MovementType `json:"type"`
	Quantity      int          `json:"quantity"`
	Reason        string       `json:"reason"`
	AppointmentID *uuid.UUID   `json:"appointment_id,omitempty"`
	At            time.Time    `json:"at"`
}

type StockMovementList []StockMovement

func (l StockMovementList) Value() (driver.Value, error) {
	if l == nil {
		return jsonbValue(StockMovementList{})
	}
	return jsonbValue(l)
}

func (l *StockMovementList) Scan(src interface{}) error {
	return jsonbScan(src, l)
}

type Product struct {
	Base
	Name          string            `db:"name" json:"name"`
	Description   string            `db:"description" json:"description,omitempty"`
	Category      string            `db:"category" json:"category"`
	Brand         string            `db:"brand" json:"brand,omitempty"`
	StockQuantity int               `db:"stock_quantity" json:"stock_quantity"`
	Unit          string            `db:"unit" json:"unit"`
	MinStockLevel int               `db:"min_stock_level" json:"min_stock_level"`
	PurchasePrice float64           `db:"purchase_price" json:"purchase_price"`
	SalePrice     float64           `db:"sale_price" json:"sale_price"`
	ForSale       bool              `db:"for_sale" json:"for_sale"`
	Movements     StockMovementList `db:"movements" json:"movements"`
	Active        bool              `db:"active" json:"active"`
}

// LowStock reports whether the product is at or below its minimum level.
func (p *Product) LowStock() bool {
	return p.StockQuantity <= p.MinStockLevel
}

// ApplyMovement appends a movement record and adjusts stock. Exits clamp
// at zero rather than going negative.
func (p *Product) ApplyMovement(m StockMovement) {
	p.Movements = append(p.Movements, m)
	switch m.Type {
	case MovementTypeEntry:
		p.StockQuantity += m.Quantity
	case MovementTypeExit:
		p.StockQuantity -= m.Quantity
		if p.StockQuantity < 0 {
			p.StockQuantity = 0
		}
	case MovementTypeAdjust:
		p.StockQuantity = m.Quantity
	}
}

type CreateProductRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Category      string  `json:"category" binding:"required"`
	Brand         string  `json:"brand"`
	StockQuantity int     `json:"stock_quantity" binding:"min=0"`
	Unit          string  `json:"unit"`
	MinStockLevel int     `json:"min_stock_level" binding:"min=0"`
	PurchasePrice float64 `json:"purchase_price" binding:"min=0"`
	SalePrice     float64 `json:"sale_price" binding:"min=0"`
	ForSale       bool    `json:"for_sale"`
}

type UpdateProductRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Category      *string  `json:"category"`
	Brand         *string  `json:"brand"`
	Unit          *string  `json:"unit"`
	MinStockLevel *int     `json:"min_stock_level"`
	PurchasePrice *float64 `json:"purchase_price"`
	SalePrice     *float64 `json:"sale_price"`
	ForSale       *bool    `json:"for_sale"`
	Active        *bool    `json:"active"`
}

type StockMovementRequest struct {
	Type     MovementType `json:"type" binding:"required,oneof=entry exit adjust"`
	Quantity int          `json:"quantity" binding:"required,min=0"`
	Reason   string       `json:"reason" binding:"required"`
}
