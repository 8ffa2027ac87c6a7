package model

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus constants
const (
	BookingStatusReceived   = "RECEIVED"
	BookingStatusInProgress = "IN_PROGRESS"
	BookingStatusReady      = "READY"
	BookingStatusDelivered  = "DELIVERED"
	BookingStatusCancelled  = "CANCELLED"
)

// Booking represents a device repair booking made through the storefront
type Booking struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code             string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"code"`
	CustomerID       *uuid.UUID `gorm:"type:uuid;index" json:"customer_id"`
	Customer         *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	DeviceBrand      string     `gorm:"type:varchar(100);not null" json:"device_brand"`
	DeviceModel      string     `gorm:"type:varchar(100);not null" json:"device_model"`
	IssueDescription string     `gorm:"type:text;not null" json:"issue_description"`
	Status           string     `gorm:"type:varchar(50);default:'RECEIVED';index" json:"status"`
	ScheduledAt      *time.Time `json:"scheduled_at"`
	Note             string     `gorm:"type:text" json:"note"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
