package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Part represents a spare part in the shop's catalog
type Part struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SKU           string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	Brand         string          `gorm:"type:varchar(100)" json:"brand"`
	Model         string          `gorm:"type:varchar(100)" json:"model"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	StockQuantity int             `gorm:"type:int;default:0;not null" json:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// StockChangeType enum constants
const (
	StockChangeIn     = "IN"
	StockChangeOut    = "OUT"
	StockChangeAdjust = "ADJUST"
)

// StockMovement records every stock change strictly, including manual
// adjustments from the admin back-office.
type StockMovement struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PartID          uuid.UUID `gorm:"type:uuid;not null;index" json:"part_id"`
	Part            Part      `gorm:"foreignKey:PartID" json:"-"`
	ChangeType      string    `gorm:"type:varchar(10);not null" json:"change_type"` // IN, OUT, ADJUST
	QuantityChanged int       `gorm:"type:int;not null" json:"quantity_changed"`
	StockAfter      int       `gorm:"type:int;not null" json:"stock_after"`
	Reason          string    `gorm:"type:text" json:"reason"`
	CreatedAt       time.Time `json:"created_at"`
}
